// Package assert holds the invariant checks the rendering pipeline guards itself with. A failed
// check is a programmer error, never bad input, so it panics instead of returning an error.
package assert

import "fmt"

// That panics with the formatted message if the invariant cond does not hold.
func That(cond bool, format string, args ...any) {
	if cond {
		return
	}
	panic("asciidag: invariant violated: " + fmt.Sprintf(format, args...))
}
