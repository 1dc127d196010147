package cmd

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/f-space/rmmz-plugins-sub000/log"
	"github.com/f-space/rmmz-plugins-sub000/pkg"
)

// EnvFlags are the flags shared by commands that evaluate against an
// environment.
type EnvFlags struct {
	Env []string          `help:"Environment file (.yaml, .yml, .json or .env; '-' reads YAML from stdin)." placeholder:"FILE" short:"e"`
	Set map[string]string `help:"Set an environment value; VALUE is decoded as YAML, KEY may be dotted."  placeholder:"KEY=VALUE"`
}

// Load reads the environment files in order, then applies the --set
// assignments. A later file replaces the top-level keys of an earlier one.
func (f EnvFlags) Load(ctx context.Context) (map[string]any, error) {
	env := make(map[string]any)

	srcs, err := openSources(f.Env)
	if err != nil {
		return nil, ErrLoadEnv.Wrap(pkg.ErrReadInput.Wrap(err))
	}
	defer closeSources(srcs)

	for _, src := range srcs {
		values, err := decodeEnv(src.name, src)
		if err != nil {
			return nil, ErrLoadEnv.With(slog.String("file", src.name)).Wrap(err)
		}

		log.TraceContext(ctx, "environment file loaded",
			slog.String("file", src.name),
			slog.Int("keys", len(values)),
		)

		maps.Copy(env, values)
	}

	for _, key := range slices.Sorted(maps.Keys(f.Set)) {
		if err := assign(env, key, f.Set[key]); err != nil {
			return nil, ErrLoadEnv.With(slog.String("key", key)).Wrap(err)
		}
	}

	return env, nil
}

// decodeEnv decodes one environment file chosen by the extension of name.
func decodeEnv(name string, r io.Reader) (map[string]any, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if name == stdinSource {
		ext = ".yaml"
	}

	switch ext {
	case ".yaml", ".yml", ".json":
		var values map[string]any

		err := yaml.NewDecoder(r).Decode(&values)
		if err == io.EOF {
			return map[string]any{}, nil
		}

		if err != nil {
			return nil, pkg.ErrDecodeEnv.Wrapf("%s", name).Wrap(err)
		}

		return values, nil

	case ".env":
		vars, err := godotenv.Parse(r)
		if err != nil {
			return nil, pkg.ErrDecodeEnv.Wrapf("%s", name).Wrap(err)
		}

		values := make(map[string]any, len(vars))
		for k, v := range vars {
			values[k] = scalar(v)
		}

		return values, nil
	}

	return nil, pkg.ErrUnsupportedEnv.Wrapf("%s", name)
}

// scalar decodes s as a YAML scalar, so that "3" is a number and "true" a
// boolean. Anything that does not decode to a scalar stays a string.
func scalar(s string) any {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil {
		return s
	}

	switch v.(type) {
	case map[string]any, []any:
		return s
	}

	return v
}

// assign sets a dotted key below env, creating intermediate objects.
func assign(env map[string]any, key, value string) error {
	path := strings.Split(key, ".")
	if slices.Contains(path, "") {
		return pkg.ErrInvalidAssignment.Wrapf("empty name in %q", key)
	}

	m := env

	for _, name := range path[:len(path)-1] {
		next, ok := m[name].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[name] = next
		}

		m = next
	}

	m[path[len(path)-1]] = scalar(value)

	return nil
}
