package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of a pretty handler. Styles come from a
// renderer bound to the handler's writer, so colors degrade to plain text
// when the writer is not a color terminal.
type palette struct {
	levels map[slog.Level]lipgloss.Style

	key     lipgloss.Style
	str     lipgloss.Style
	num     lipgloss.Style
	boolean lipgloss.Style
	dur     lipgloss.Style
	stamp   lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	style := func(color string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(color))
	}

	return &palette{
		key:     style("8"),
		str:     style("6"),
		num:     style("3"),
		boolean: style("2"),
		dur:     style("5"),
		stamp:   style("4"),
		levels: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): style("4").Faint(true),
			slog.LevelDebug:        style("4"),
			slog.LevelInfo:         style("2"),
			slog.LevelWarn:         style("3").Bold(true),
			slog.LevelError:        style("1").Bold(true),
		},
	}
}

func (p *palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.levels[slog.LevelError]
	case l >= slog.LevelWarn:
		return p.levels[slog.LevelWarn]
	case l >= slog.LevelInfo:
		return p.levels[slog.LevelInfo]
	case l >= slog.LevelDebug:
		return p.levels[slog.LevelDebug]
	default:
		return p.levels[slog.Level(LevelTrace)]
	}
}

// prettyHandler is shared state of the pretty text and JSON handlers.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	colors *palette
	attrs  []slog.Attr
	group  string
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions) prettyHandler {
	return prettyHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		colors: newPalette(w),
	}
}

func (h prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h prettyHandler) withAttrs(attrs []slog.Attr) prettyHandler {
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}

		h.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], a)
	}

	return h
}

func (h prettyHandler) withGroup(name string) prettyHandler {
	if name == "" {
		return h
	}

	if h.group != "" {
		name = h.group + "." + name
	}

	h.group = name

	return h
}

// fields collects the records' attributes after ReplaceAttr, in output
// order: time, level, source, message, handler attributes, record attributes.
func (h prettyHandler) fields(r slog.Record) []slog.Attr {
	out := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())
	add := func(a slog.Attr) {
		if h.opts.ReplaceAttr != nil && a.Value.Kind() != slog.KindGroup {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if a.Key != "" {
			out = append(out, a)
		}
	}

	if !r.Time.IsZero() {
		add(slog.Time(slog.TimeKey, r.Time))
	}

	add(slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			add(slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	add(slog.String(slog.MessageKey, r.Message))

	out = append(out, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}

		add(a)

		return true
	})

	return out
}

func (h prettyHandler) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h prettyHandler) render(a slog.Attr, level slog.Level) string {
	v := a.Value.Resolve()

	if a.Key == slog.LevelKey {
		return h.colors.level(level).Render(v.String())
	}

	switch v.Kind() {
	case slog.KindInt64:
		return h.colors.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return h.colors.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return h.colors.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		return h.colors.boolean.Render(strconv.FormatBool(v.Bool()))
	case slog.KindDuration:
		return h.colors.dur.Render(v.Duration().String())
	case slog.KindTime:
		return h.colors.stamp.Render(v.Time().Format(time.RFC3339))
	case slog.KindGroup:
		parts := make([]string, 0, len(v.Group()))
		for _, g := range v.Group() {
			parts = append(parts, g.Key+"="+g.Value.Resolve().String())
		}

		return h.colors.str.Render("{" + strings.Join(parts, " ") + "}")
	default:
		return h.colors.str.Render(v.String())
	}
}

// prettyTextHandler writes one colorized key=value line per record.
type prettyTextHandler struct{ prettyHandler }

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	return prettyTextHandler{newPrettyHandler(w, opts)}
}

func (h prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	for i, a := range h.fields(r) {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.colors.key.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(h.render(a, r.Level))
	}

	return h.write(&buf)
}

func (h prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return prettyTextHandler{h.withAttrs(attrs)}
}

func (h prettyTextHandler) WithGroup(name string) slog.Handler {
	return prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler writes an indented, colorized object per record.
// Output is meant for people; it is not guaranteed to be valid JSON.
type prettyJSONHandler struct{ prettyHandler }

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	return prettyJSONHandler{newPrettyHandler(w, opts)}
}

func (h prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	buf.WriteString("{\n")

	fields := h.fields(r)
	for i, a := range fields {
		fmt.Fprintf(&buf, "  %s: %s",
			h.colors.key.Render(strconv.Quote(a.Key)),
			h.render(a, r.Level),
		)

		if i < len(fields)-1 {
			buf.WriteByte(',')
		}

		buf.WriteByte('\n')
	}

	buf.WriteByte('}')

	return h.write(&buf)
}

func (h prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return prettyJSONHandler{h.withAttrs(attrs)}
}

func (h prettyJSONHandler) WithGroup(name string) slog.Handler {
	return prettyJSONHandler{h.withGroup(name)}
}
