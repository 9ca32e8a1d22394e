package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
)

// ANSI color codes for pretty printing.
const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// prettyHandler implements a colorized handler for log messages.
// Text format renders space-separated key=value pairs with colored keys;
// JSON format renders one indented object per record.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	format Format
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	format Format,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		format: format,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if h.format == FormatJSON {
		h.writeJSON(buf, r)
	} else {
		h.writeText(buf, r)
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyHandler{
		opts:   h.opts,
		mu:     h.mu,
		w:      h.w,
		attrs:  append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...),
		format: h.format,
	}
}

func (h *prettyHandler) WithGroup(string) slog.Handler { return h }

func (h *prettyHandler) writeText(buf *bytes.Buffer, r slog.Record) {
	if !r.Time.IsZero() {
		fmt.Fprintf(buf, "%s%s%s ",
			colorGray, h.resolve(slog.Time(slog.TimeKey, r.Time)), colorReset)
	}

	fmt.Fprintf(buf, "%s%-5s%s ",
		levelColor(r.Level), h.resolve(slog.Any(slog.LevelKey, r.Level)),
		colorReset)

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fmt.Fprintf(buf, "%s%s:%d%s ",
				colorGray, src.File, src.Line, colorReset)
		}
	}

	buf.WriteString(r.Message)

	writeAttr := func(a slog.Attr) bool {
		fmt.Fprintf(buf, " %s%s=%s%s",
			colorCyan, a.Key, colorReset, h.resolve(a))

		return true
	}

	for _, a := range h.attrs {
		writeAttr(a)
	}

	r.Attrs(writeAttr)
}

func (h *prettyHandler) writeJSON(buf *bytes.Buffer, r slog.Record) {
	obj := map[string]any{
		slog.LevelKey:   h.resolve(slog.Any(slog.LevelKey, r.Level)),
		slog.MessageKey: r.Message,
	}

	if !r.Time.IsZero() {
		obj[slog.TimeKey] = h.resolve(slog.Time(slog.TimeKey, r.Time))
	}

	collect := func(a slog.Attr) bool {
		obj[a.Key] = a.Value.Resolve().Any()

		return true
	}

	for _, a := range h.attrs {
		collect(a)
	}

	r.Attrs(collect)

	enc := json.NewEncoder(buf)
	enc.SetIndent("", "  ")
	_ = enc.Encode(obj)

	// Encode appends its own newline
	buf.Truncate(buf.Len() - 1)
}

// resolve applies the configured ReplaceAttr, then renders the value.
func (h *prettyHandler) resolve(a slog.Attr) string {
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(nil, a)
	}

	v := a.Value.Resolve()

	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	default:
		return fmt.Sprint(v.Any())
	}
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	default:
		return colorGray
	}
}
