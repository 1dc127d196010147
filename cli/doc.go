// Package cli contains the command line interface for fsexpr.
//
// # Usage
//
// The default command evaluates its argument:
//
//	fsexpr '1 + 2 * 3'
//	fsexpr eval --set hp=40 --set mhp=100 'hp / mhp < 0.5'
//	fsexpr eval -e actor.yaml -t number 'Math.max(actor.atk - 10, 0)'
//
// The other commands inspect an expression without evaluating it:
//
//	fsexpr check 'a ? b : c'
//	fsexpr tokens -w '0x1F + b'
//	fsexpr ast -o json 'a.b[0](1)'
//
// repl starts an interactive session and init writes the current flag
// values to the configuration file.
//
// # Configuration Loader
//
// Flag defaults are read from a YAML file ([resolve]) at
// $XDG_CONFIG_HOME/fsexpr/config.yaml. Nested mappings name prefixed
// flags, so
//
//	log:
//	  level: debug
//
// sets --log-level. An unreadable file is logged and ignored.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o fsexpr .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/fsexpr/pprof)
package cli
