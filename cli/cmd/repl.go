package cmd

import (
	"context"
	"log/slog"

	"github.com/f-space/rmmz-plugins-sub000/cli/cmd/repl"
	"github.com/f-space/rmmz-plugins-sub000/log"
)

// Repl starts an interactive session over an environment.
type Repl struct {
	EnvFlags `embed:""`

	NoMemo bool `help:"Disable packrat memoization while parsing"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	env, err := r.Load(ctx)
	if err != nil {
		return err
	}

	cacheDir, ok := kongContextFrom(ctx).Model.Vars()[CacheIdentifier]
	if !ok {
		panic("internal error: cache directory undefined")
	}

	logger := log.FromContext(ctx).With(slog.String("command", "repl"))

	return repl.Run(ctx, env, cacheDir, logger, compileOptions(ctx, r.NoMemo)...)
}
