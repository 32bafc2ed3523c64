// Command glyphs streams asciidag scanner tokens from stdin to stdout.
//
// This is a development and debugging tool for the [asciidag.Scanner]. It is not intended for
// distribution or production use.
package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dagview/asciidag"
	"github.com/dagview/asciidag/token"
)

func main() {
	if err := run(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "stopped scanning due to err: %v\n", err)
		os.Exit(1)
	}
}

func run(r io.Reader, w io.Writer) error {
	sc, err := asciidag.NewScanner(r)
	if err != nil {
		return fmt.Errorf("error scanning: %v", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "POSITION\tKIND\tLITERAL\n")

	for {
		tok, err := sc.Next()
		if err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			break
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", tok.Pos, tok.Kind, literal(tok))
	}

	return nil
}

func literal(t token.Token) string {
	if t.Kind == token.Label {
		return string(t.Literal)
	}
	return t.Kind.String()
}
