package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

// testCLI mounts the commands the way the application does.
type testCLI struct {
	Eval   Eval   `cmd:"" default:"withargs"`
	Check  Check  `cmd:""`
	Tokens Tokens `cmd:""`
	AST    AST    `cmd:"" name:"ast"`
	Init   Init   `cmd:""`
}

// execute parses args and runs the selected command, returning what it
// wrote to stdout and stderr.
func execute(t *testing.T, vars kong.Vars, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var (
		cli         testCLI
		out, errOut bytes.Buffer
	)

	ctx := t.Context()

	parser, err := kong.New(&cli,
		kong.Name("test"),
		kong.Writers(&out, &errOut),
		kong.Exit(func(code int) { t.Fatalf("exit(%d): %s", code, errOut.String()) }),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
		vars,
	)
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return "", "", err
	}

	ctx = WithContext(ctx, ktx)
	err = ktx.Run()

	return out.String(), errOut.String(), err
}

// writeFile creates name in a temporary directory and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestStdout_Fallback(t *testing.T) {
	if got := stdout(context.Background()); got != os.Stdout {
		t.Errorf("stdout without kong context = %v, want os.Stdout", got)
	}

	if got := stderr(context.Background()); got != os.Stderr {
		t.Errorf("stderr without kong context = %v, want os.Stderr", got)
	}
}

func TestOpenSources_Dedupe(t *testing.T) {
	path := writeFile(t, "env.yaml", "a: 1\n")

	link := filepath.Join(filepath.Dir(path), "link.yaml")
	if err := os.Symlink(path, link); err != nil {
		t.Skipf("symlink: %v", err)
	}

	srcs, err := openSources([]string{path, link, path})
	if err != nil {
		t.Fatal(err)
	}
	defer closeSources(srcs)

	if len(srcs) != 1 || srcs[0].name != path {
		t.Errorf("sources = %v, want only %s", srcs, path)
	}
}

func TestOpenSources_Missing(t *testing.T) {
	_, err := openSources([]string{filepath.Join(t.TempDir(), "absent.yaml")})
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestError_Chain(t *testing.T) {
	err := ErrWriteConfig.With(slog.String("file", "x")).Wrap(ErrFileExists)

	want := "write configuration file: file exists (use --force to overwrite)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	if !errors.Is(err, ErrWriteConfig) || !errors.Is(err, ErrFileExists) {
		t.Error("errors.Is does not follow the chain")
	}

	if errors.Is(err, ErrCompile) {
		t.Error("errors.Is matched an unrelated sentinel")
	}

	if len(err.Attrs()) != 1 || len(ErrWriteConfig.Attrs()) != 0 {
		t.Error("With modified the sentinel")
	}
}

func TestEval(t *testing.T) {
	yamlEnv := writeFile(t, "env.yaml", "x: 4\nnested:\n  y: 5\n")
	dotEnv := writeFile(t, "vars.env", "FLAG=true\nN=7\n")
	tomlEnv := writeFile(t, "env.toml", "x = 1\n")

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr *Error
	}{
		{"arithmetic", []string{"1 + 2"}, "3\n", nil},
		{"explicit command", []string{"eval", "2 * (3 + 4)"}, "14\n", nil},
		{"set", []string{"--set", "a=2", "--set", "b.c=3", "a * b.c"}, "6\n", nil},
		{"yaml file", []string{"-e", yamlEnv, "x + nested.y"}, "9\n", nil},
		{"dotenv file", []string{"-e", dotEnv, "FLAG ? N : 0"}, "7\n", nil},
		{"set overrides file", []string{"-e", yamlEnv, "--set", "x=10", "x"}, "10\n", nil},
		{"json", []string{"--output", "json", "1 < 2"}, "true\n", nil},
		{"yaml", []string{"-o", "yaml", "Math.max(1, 5) > 4"}, "true\n", nil},
		{"type number", []string{"-t", "number", "Math.abs(-2)"}, "2\n", nil},
		{"type mismatch", []string{"--type", "boolean", "1"}, "", ErrEvaluate},
		{"undefined", []string{"missing + 1"}, "", ErrEvaluate},
		{"parse error", []string{"1 +"}, "", ErrCompile},
		{"denied property", []string{"--set", "o.x=1", "o.constructor"}, "", ErrEvaluate},
		{"unsupported file", []string{"-e", tomlEnv, "x"}, "", ErrLoadEnv},
		{"empty key", []string{"--set", "a..b=1", "1"}, "", ErrLoadEnv},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := execute(t, nil, tt.args...)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEval_UnsupportedMessage(t *testing.T) {
	path := writeFile(t, "env.toml", "x = 1\n")

	_, _, err := execute(t, nil, "-e", path, "x")
	if err == nil {
		t.Fatal("expected error")
	}

	if !strings.Contains(err.Error(), "unsupported environment file type") {
		t.Errorf("error = %q, want unsupported file type", err.Error())
	}
}

func TestDecodeEnv(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    map[string]any
		wantErr string
	}{
		{"empty.yaml", "", map[string]any{}, ""},
		{"doc.json", `{"a": true}`, map[string]any{"a": true}, ""},
		{"doc.yml", "s: text\n", map[string]any{"s": "text"}, ""},
		{"vars.env", "A=1\nB=hello\nC=[1,2]\n", map[string]any{"A": uint64(1), "B": "hello", "C": "[1,2]"}, ""},
		{"bad.yaml", "- 1\n- 2\n", nil, "failed to decode environment"},
		{"doc.ini", "a=1", nil, "unsupported environment file type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeEnv(tt.name, strings.NewReader(tt.content))

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want %q", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("decodeEnv = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestAssign(t *testing.T) {
	env := map[string]any{"a": "scalar"}

	for key, value := range map[string]string{
		"b.c.d": "1",
		"a.x":   "true",
		"e":     "str",
	} {
		if err := assign(env, key, value); err != nil {
			t.Fatalf("assign(%q): %v", key, err)
		}
	}

	want := map[string]any{
		"a": map[string]any{"x": true},
		"b": map[string]any{"c": map[string]any{"d": uint64(1)}},
		"e": "str",
	}

	if !reflect.DeepEqual(env, want) {
		t.Errorf("env = %#v, want %#v", env, want)
	}

	for _, key := range []string{"", ".a", "a.", "a..b"} {
		if err := assign(env, key, "1"); err == nil {
			t.Errorf("assign(%q) succeeded, want error", key)
		}
	}
}

func TestCheck(t *testing.T) {
	out, _, err := execute(t, nil, "check", "a+1*2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != "(a + (1 * 2))\n" {
		t.Errorf("output = %q", out)
	}

	_, diag, err := execute(t, nil, "check", "(1")
	if !errors.Is(err, ErrCompile) {
		t.Fatalf("error = %v, want %v", err, ErrCompile)
	}

	for _, want := range []string{"1:3", "expected ')'", "(1", "^"} {
		if !strings.Contains(diag, want) {
			t.Errorf("diagnostic %q does not contain %q", diag, want)
		}
	}
}

func TestAST(t *testing.T) {
	out, _, err := execute(t, nil, "ast", "a+1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != "(a + 1)\n" {
		t.Errorf("native output = %q", out)
	}

	out, _, err = execute(t, nil, "ast", "-o", "json", "a+1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var tree map[string]any
	if err := json.Unmarshal([]byte(out), &tree); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}

	if tree["type"] != "BinaryOp" || tree["operator"] != "+" {
		t.Errorf("root = %v, want BinaryOp +", tree)
	}

	out, _, err = execute(t, nil, "ast", "-o", "yaml", "!b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, "UnaryOp") || !strings.Contains(out, "Identifier") {
		t.Errorf("yaml output = %q", out)
	}
}

func TestTokens(t *testing.T) {
	out, _, err := execute(t, nil, "tokens", "a + 12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	want := [][]string{
		{"0", "1", `"a"`},
		{"2", "3", `"+"`},
		{"4", "6", `"12"`},
	}

	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), out)
	}

	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 4 || !slices.Equal(fields[1:], want[i]) {
			t.Errorf("line %d = %q, want span and text %v", i, line, want[i])
		}
	}

	out, _, err = execute(t, nil, "tokens", "-w", "a + 12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := strings.Count(out, "\n"); n != 5 {
		t.Errorf("with whitespace got %d lines, want 5:\n%s", n, out)
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	vars := kong.Vars{ConfigIdentifier: path}

	if _, _, err := execute(t, vars, "init"); err != nil {
		t.Fatalf("first init: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	_, _, err := execute(t, vars, "init")
	if !errors.Is(err, ErrFileExists) {
		t.Fatalf("second init error = %v, want %v", err, ErrFileExists)
	}

	if _, _, err := execute(t, vars, "init", "--force"); err != nil {
		t.Fatalf("forced init: %v", err)
	}
}

func TestConfigValue(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{nil, nil},
		{true, true},
		{3, 3},
		{"", nil},
		{"text", "text"},
		{[]string{}, nil},
		{[]string{"a"}, []string{"a"}},
	}

	for _, tt := range tests {
		if got := configValue(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("configValue(%#v) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestWriteFormatted(t *testing.T) {
	var b bytes.Buffer

	if err := writeFormatted(&b, "xml", 1, "1"); err == nil {
		t.Error("expected error for unknown format")
	}

	b.Reset()

	if err := writeFormatted(&b, OutputYAML, map[string]any{"k": "v"}, ""); err != nil {
		t.Fatal(err)
	}

	if b.String() != "k: v\n" {
		t.Errorf("yaml = %q", b.String())
	}
}

func TestTrimNewline(t *testing.T) {
	for in, want := range map[string]string{
		"":        "",
		"a":       "a",
		"a\n":     "a",
		"a\r\n\n": "a",
		"a\nb\n":  "a\nb",
	} {
		if got := string(trimNewline([]byte(in))); got != want {
			t.Errorf("trimNewline(%q) = %q, want %q", in, got, want)
		}
	}
}
