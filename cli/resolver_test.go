package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func loadConfig(t *testing.T, text string) config {
	t.Helper()

	r, err := resolve(context.Background())(strings.NewReader(text))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	cfg, ok := r.(config)
	if !ok {
		t.Fatalf("resolver type = %T, want config", r)
	}

	return cfg
}

func TestResolve_Flatten(t *testing.T) {
	cfg := loadConfig(t, `
log-level: debug
log:
  format: json
  pretty: false
pprof_mode: cpu
eval:
  type: number
  env: [a.yaml, b.env]
count: 3
ratio: 0.5
`)

	tests := map[string]any{
		"log-level":  "debug",
		"log-format": "json",
		"log-pretty": false,
		"pprof-mode": "cpu",
		"eval-type":  "number",
		"eval-env":   "a.yaml,b.env",
		"count":      "3",
		"ratio":      "0.5",
	}

	for key, want := range tests {
		got, ok := cfg[key]
		if !ok {
			t.Errorf("%s: missing", key)

			continue
		}

		if got != want {
			t.Errorf("%s = %#v, want %#v", key, got, want)
		}
	}

	if len(cfg) != len(tests) {
		t.Errorf("len = %d, want %d: %v", len(cfg), len(tests), cfg)
	}
}

func TestResolve_EmptyAndInvalid(t *testing.T) {
	for name, text := range map[string]string{
		"empty":   "",
		"invalid": "log-level: [unterminated",
	} {
		t.Run(name, func(t *testing.T) {
			if cfg := loadConfig(t, text); len(cfg) != 0 {
				t.Errorf("config = %v, want empty", cfg)
			}
		})
	}
}

func TestConfig_Resolve(t *testing.T) {
	cfg := config{"log-level": "warn", "log-caller": nil}

	got, err := cfg.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "log-level"}})
	if err != nil || got != "warn" {
		t.Errorf("Resolve(log-level) = %v, %v; want warn", got, err)
	}

	got, err = cfg.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "log-caller"}})
	if err != nil || got != nil {
		t.Errorf("Resolve(log-caller) = %v, %v; want nil", got, err)
	}

	got, err = cfg.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "missing"}})
	if err != nil || got != nil {
		t.Errorf("Resolve(missing) = %v, %v; want nil", got, err)
	}
}

func TestLogConfig_Scan(t *testing.T) {
	tests := []struct {
		args   []string
		level  logLevel
		pretty bool
		caller bool
	}{
		{[]string{"eval", "1"}, "info", true, false},
		{[]string{"--log-level", "debug", "eval"}, "debug", true, false},
		{[]string{"--log-level=trace", "--no-log-pretty"}, "trace", false, false},
		{[]string{"--log-caller", "--log-pretty=false"}, "info", false, true},
		{[]string{"--no-log-caller=false", "--no-log-pretty=false"}, "info", true, true},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			f := logConfig{Level: "info", Pretty: true}
			f.scan(tt.args)

			if f.Level != tt.level {
				t.Errorf("Level = %q, want %q", f.Level, tt.level)
			}

			if f.Pretty != tt.pretty {
				t.Errorf("Pretty = %v, want %v", f.Pretty, tt.pretty)
			}

			if f.Caller != tt.caller {
				t.Errorf("Caller = %v, want %v", f.Caller, tt.caller)
			}
		})
	}
}
