package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/f-space/rmmz-plugins-sub000/log"
	"github.com/f-space/rmmz-plugins-sub000/pkg"
)

const defaultEditor = "vi"

// editEnvCommand implements [tea.ExecCommand] for the edit-decode-retry
// loop. It writes the environment as YAML to a temp file, opens the user's
// editor, and decodes the result. On a decode error the user is prompted
// to re-edit; declining exits the program.
type editEnvCommand struct {
	env     map[string]any
	ctxFunc func() context.Context
	newEnv  map[string]any
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editEnvCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editEnvCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editEnvCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. An emptied file cancels the edit and leaves
// newEnv nil. If the user declines to re-edit, it returns
// [ErrEditDeclined].
func (c *editEnvCommand) Run() error {
	ctx := c.ctxFunc()

	content, err := yaml.MarshalWithOptions(c.env, yaml.Indent(2))
	if err != nil {
		return pkg.ErrYAMLMarshal.Wrap(err)
	}

	f, err := os.CreateTemp(os.TempDir(), pkg.Name+"-repl-*.yaml")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	for {
		if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		if strings.TrimSpace(string(data)) == "" {
			return nil
		}

		env, decodeErr := decodeEnv(data)
		c.logger.TraceContext(
			ctx,
			"editor decode attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", decodeErr == nil),
		)

		if decodeErr == nil {
			c.newEnv = env

			return nil
		}

		fmt.Fprintf(c.stderr, "\nDecode error: %s\n", decodeErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		// Keep the failed content for the next round.
		content = data
	}
}

// decodeEnv decodes an edited environment document.
func decodeEnv(data []byte) (map[string]any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, pkg.ErrDecodeEnv.Wrap(err)
	}

	switch doc := doc.(type) {
	case map[string]any:
		return doc, nil
	case nil:
		return map[string]any{}, nil
	}

	return nil, pkg.ErrDecodeEnv.Wrap(ErrNotMapping)
}

// runEditor launches the user's editor on path and returns the edited
// content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) ([]byte, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}
