package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// styles holds the colors used by prettyHandler. Rendering degrades to plain
// text when the output is not a terminal.
type styles struct {
	key, str, num, time, null, yes, no lipgloss.Style
	trace, debug, info, warn, err      lipgloss.Style
}

func newStyles(w io.Writer) *styles {
	r := lipgloss.NewRenderer(w)
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	color := func(c string) lipgloss.Style {
		return base.Foreground(lipgloss.Color(c))
	}

	return &styles{
		key:   color("8"),
		str:   color("6"),
		num:   color("3"),
		time:  color("4"),
		null:  color("8"),
		yes:   color("2"),
		no:    color("1"),
		trace: color("5"),
		debug: color("4"),
		info:  color("2"),
		warn:  color("3"),
		err:   color("1").Bold(true),
	}
}

func (s *styles) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return s.err
	case l >= slog.LevelWarn:
		return s.warn
	case l >= slog.LevelInfo:
		return s.info
	case l >= slog.LevelDebug:
		return s.debug
	default:
		return s.trace
	}
}

// field is one rendered key/value pair.
type field struct {
	key, value string
}

// prettyHandler writes colorized records. In text format a record is one line
// of key=value pairs; in JSON format it is an indented, unquoted object.
// Group attributes and [slog.LogValuer] values are flattened into dotted
// keys.
type prettyHandler struct {
	opts       slog.HandlerOptions
	styles     *styles
	mu         *sync.Mutex
	w          io.Writer
	formatTime FormatTime
	prefix     string
	attrs      []field
	format     Format
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	formatTime FormatTime,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:       *opts,
		styles:     newStyles(w),
		mu:         &sync.Mutex{},
		w:          w,
		formatTime: formatTime,
		format:     format,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]field, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			fields = append(fields, field{slog.TimeKey, h.styles.time.Render(ts)})
		}
	}

	fields = append(fields, field{
		slog.LevelKey,
		h.styles.level(r.Level).Render(strings.ToUpper(Level(r.Level).String())),
	})

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			loc := filepath.Base(src.File) + ":" + strconv.Itoa(src.Line)
			fields = append(fields, field{slog.SourceKey, h.styles.str.Render(loc)})
		}
	}

	fields = append(fields, field{slog.MessageKey, h.styles.str.Render(r.Message)})
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = h.appendAttr(fields, h.prefix, a)

		return true
	})

	var buf bytes.Buffer

	switch h.format {
	case FormatJSON:
		buf.WriteString("{\n")

		for i, f := range fields {
			if i > 0 {
				buf.WriteString(",\n")
			}

			buf.WriteString("  " + h.styles.key.Render(f.key) + ": " + f.value)
		}

		buf.WriteString("\n}\n")

	default:
		for i, f := range fields {
			if i > 0 {
				buf.WriteByte(' ')
			}

			buf.WriteString(h.styles.key.Render(f.key) + "=" + f.value)
		}

		buf.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = h.attrs[:len(h.attrs):len(h.attrs)]

	for _, a := range attrs {
		c.attrs = c.appendAttr(c.attrs, c.prefix, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyHandler) appendAttr(fields []field, prefix string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return fields
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, ga := range a.Value.Group() {
			fields = h.appendAttr(fields, prefix, ga)
		}

		return fields
	}

	return append(fields, field{prefix + a.Key, h.value(a.Value)})
}

func (h *prettyHandler) value(v slog.Value) string {
	s := h.styles

	switch v.Kind() {
	case slog.KindString:
		return s.str.Render(v.String())

	case slog.KindInt64:
		return s.num.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return s.num.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return s.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return s.yes.Render("true")
		}

		return s.no.Render("false")

	case slog.KindDuration:
		return s.num.Render(v.Duration().String())

	case slog.KindTime:
		ts := h.formatTime(v.Time())
		if ts == "" {
			ts = v.Time().Format(time.RFC3339)
		}

		return s.time.Render(ts)

	default:
		switch x := v.Any().(type) {
		case nil:
			return s.null.Render("null")
		case error:
			return s.str.Render(x.Error())
		case fmt.Stringer:
			return s.str.Render(x.String())
		default:
			return s.str.Render(fmt.Sprint(x))
		}
	}
}
