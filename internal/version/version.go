// Package version reports the build information the Go toolchain stamps into the binary.
package version

import "runtime/debug"

// Version returns the main module's version, with the VCS revision appended when the build
// embedded one.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "(unknown)"
	}
	v := info.Main.Version
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			rev := s.Value
			if len(rev) > 12 {
				rev = rev[:12]
			}
			return v + " (" + rev + ")"
		}
	}
	return v
}
