package parsec

import (
	"fmt"

	"github.com/alecthomas/repr"
)

// ErrorFormatter renders a parse failure as a human-readable message.
type ErrorFormatter func(error) string

// LeafFormatter renders a single failure selected by [Deepest]. It reports
// false for error shapes it does not recognize.
type LeafFormatter func(error) (string, bool)

// DefaultErrorFormatter formats the deepest failure with the messages of
// the error types in this package.
var DefaultErrorFormatter = MakeErrorFormatter(nil)

// MakeErrorFormatter returns a formatter that selects the deepest failure
// and renders it with leaf. Failures that leaf does not recognize are
// rendered with the package defaults, and anything else with a debug dump.
func MakeErrorFormatter(leaf LeafFormatter) ErrorFormatter {
	return func(err error) string {
		if err == nil {
			return ""
		}

		d := Deepest(err)

		if leaf != nil {
			if msg, ok := leaf(d); ok {
				return msg
			}
		}

		if msg, ok := formatLeaf(d); ok {
			return msg
		}

		return "parse error: " + repr.String(d, repr.OmitEmpty(true))
	}
}

func formatLeaf(err error) (string, bool) {
	if oneOf, ok := err.(OneOfError); ok && len(oneOf) == 0 {
		return "parse error: no alternatives", true
	}

	p, ok := err.(Positioned)
	if !ok {
		return "", false
	}

	return fmt.Sprintf("parse error at position %d: %s", p.Pos(), p.Error()), true
}

// Deepest flattens err, following every error that unwraps into several
// errors (such as [OneOfError]) and returns the failure whose position is
// greatest. Ties keep the first failure found. Failures without a position
// rank below all positioned ones.
func Deepest(err error) error {
	best, _ := deepest(err)

	return best
}

func deepest(err error) (error, int) {
	multi, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return err, position(err)
	}

	var (
		best    error
		bestPos int
	)

	for _, e := range multi.Unwrap() {
		if e == nil {
			continue
		}

		c, pos := deepest(e)
		if best == nil || pos > bestPos {
			best, bestPos = c, pos
		}
	}

	if best == nil {
		return err, -1
	}

	return best, bestPos
}

func position(err error) int {
	if p, ok := err.(Positioned); ok {
		return p.Pos()
	}

	return -1
}
