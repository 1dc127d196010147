// Package log provides a concurrency-safe structured logger built on
// [log/slog].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("compiled", slog.String("source", src))
//
// # Configuration
//
// Loggers are configured with functional options at creation time:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger with some options overridden, and
// [Logger.With] derives one that adds attributes to every record.
//
// # Levels
//
// In addition to the slog levels, [LevelTrace] sits below [LevelDebug] and
// is used for high-volume diagnostics such as parser memo statistics.
// [Logger.Allows] reports whether a level is enabled so that expensive
// attributes are only built when they will be written.
//
// # Zero Value
//
// The zero [Logger] discards everything. Libraries accept a Logger through
// their options and log unconditionally.
//
// # Package Logger
//
// The package-level functions ([Info], [Debug], and so on) write to a
// default logger that is replaced with [SetDefault] or reconfigured with
// [Config]. [NewContext] and [FromContext] carry a logger through a
// [context.Context].
//
// # Pretty Output
//
// With [WithPretty] enabled, text records are written as colorized
// key=value lines and JSON records as indented objects. Colors are chosen
// by [github.com/charmbracelet/lipgloss] for the destination writer and
// disappear when it is not a terminal.
package log
