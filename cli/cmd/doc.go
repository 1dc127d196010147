// Package cmd implements the fsexpr subcommands: eval, check, tokens, ast,
// repl and init.
//
// Commands receive a [context.Context] carrying the [kong.Context] (see
// [WithContext]) and write to its Stdout and Stderr, so tests can capture
// output with [kong.Writers].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// to the configuration file.
	ConfigIdentifier = "config"
)
