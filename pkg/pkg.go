//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// Version is the semantic version of the module embedded at build time.
//
//go:embed VERSION
var version string

// Version returns the embedded semantic version without surrounding
// whitespace.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the command identifier. It appears in help text and in the
	// default configuration and cache paths.
	Name = "fsexpr"
	// Description is a one-line summary used in help output.
	Description = "Evaluate sandboxed JavaScript-like expressions"
)
