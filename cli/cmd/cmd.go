package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer of the running kong application, or os.Stdout
// outside of one.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

func stderr(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}

// stdinSource names standard input in a list of sources.
const stdinSource = "-"

// source is an opened input with the name it was given on the command
// line.
type source struct {
	name string
	io.ReadCloser
}

// fileKey uniquely identifies a file by its device and inode numbers, so
// the same file reached through symlinks or different relative paths is
// read once.
type fileKey struct {
	dev uint64
	ino uint64
}

// openSources opens every named source once, in order. All occurrences of
// "-" collapse into a single stdin source placed last, so that it is read
// after the regular files. Each reader is buffered by a read-ahead
// goroutine.
func openSources(names []string) ([]source, error) {
	srcs := make([]source, 0, len(names))
	seen := make(map[fileKey]struct{})

	stdinKey, stdinOK := statKey(os.Stdin.Stat())

	hasStdin := false

	for _, name := range names {
		if name == stdinSource {
			hasStdin = true

			continue
		}

		f, key, err := openUnique(name)
		if err != nil {
			closeSources(srcs)

			return nil, err
		}

		// Stdin may also be named as a file, e.g. /dev/stdin.
		if stdinOK && key == stdinKey {
			hasStdin = true

			f.Close()

			continue
		}

		if _, dup := seen[key]; dup {
			f.Close()

			continue
		}

		seen[key] = struct{}{}

		srcs = append(srcs, source{name: name, ReadCloser: readahead.NewReadCloser(f)})
	}

	if hasStdin {
		srcs = append(srcs, source{
			name:       stdinSource,
			ReadCloser: readahead.NewReadCloser(io.NopCloser(os.Stdin)),
		})
	}

	return srcs, nil
}

// openUnique resolves symlinks in path, opens the target and returns its
// device/inode key. The zero key is returned where the platform has none.
func openUnique(path string) (*os.File, fileKey, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, fileKey{}, err
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, fileKey{}, err
	}

	key, ok := statKey(f.Stat())
	if !ok {
		// Without a key, fall back to the cleaned absolute path.
		abs, _ := filepath.Abs(resolved)
		key = fileKey{ino: xxh3.HashString(abs)}
	}

	return f, key, nil
}

// statKey creates a fileKey from the result of a Stat call.
// It reports false if the underlying Sys() data is not a *syscall.Stat_t.
func statKey(info os.FileInfo, err error) (fileKey, bool) {
	if err != nil {
		return fileKey{}, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

func closeSources(srcs []source) {
	for _, s := range srcs {
		_ = s.Close()
	}
}
