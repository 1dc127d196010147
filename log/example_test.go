package log_test

import (
	"log/slog"
	"os"

	"github.com/f-space/rmmz-plugins-sub000/log"
)

func Example_configuration() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelDebug),
		log.WithFormat(log.FormatJSON),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Debug("compiled", slog.String("source", "a + b"))
	// Output: {"level":"DEBUG","msg":"compiled","source":"a + b"}
}

func Example_withAttributes() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("none"),
		log.WithPretty(false)).
		With(slog.String("component", "repl"))

	logger.Info("ready")
	// Output: level=INFO msg=ready component=repl
}
