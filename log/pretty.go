package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyHandler writes colorized records, either as a single line of
// key=value pairs or as an indented JSON-like block.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	prefix []slog.Attr // from WithAttrs, already nested in groups
	groups []string
	block  bool
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions, block bool) *prettyHandler {
	return &prettyHandler{
		opts:  *opts,
		mu:    &sync.Mutex{},
		w:     w,
		block: block,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h
	c.prefix = append(h.prefix[:len(h.prefix):len(h.prefix)], h.nest(attrs)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

// nest wraps attrs in the handler's open groups.
func (h *prettyHandler) nest(attrs []slog.Attr) []slog.Attr {
	for i := len(h.groups) - 1; i >= 0; i-- {
		attrs = []slog.Attr{{Key: h.groups[i], Value: slog.GroupValue(attrs...)}}
	}

	return attrs
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make([]slog.Attr, 0, 4+len(h.prefix)+r.NumAttrs())

	builtin := func(a slog.Attr) {
		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if a.Key != "" {
			attrs = append(attrs, a)
		}
	}

	if !r.Time.IsZero() {
		builtin(slog.Time(slog.TimeKey, r.Time))
	}

	builtin(slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			builtin(slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	builtin(slog.String(slog.MessageKey, r.Message))

	attrs = append(attrs, h.prefix...)

	var own []slog.Attr

	r.Attrs(func(a slog.Attr) bool {
		own = append(own, a)

		return true
	})

	attrs = append(attrs, h.nest(own)...)

	buf := new(bytes.Buffer)

	if h.block {
		buf.WriteString("{")
		h.writeBlock(buf, attrs, 1)
		buf.WriteString("\n}\n")
	} else {
		h.writeLine(buf, "", attrs, r.Level)
		buf.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// writeLine writes attrs as space-separated key=value pairs, flattening
// groups into dotted keys.
func (h *prettyHandler) writeLine(buf *bytes.Buffer, prefix string, attrs []slog.Attr, level slog.Level) {
	for _, a := range attrs {
		v := a.Value.Resolve()
		if a.Key == "" && v.Kind() != slog.KindGroup {
			continue
		}

		key := a.Key
		if prefix != "" && key != "" {
			key = prefix + "." + key
		} else if key == "" {
			key = prefix
		}

		if v.Kind() == slog.KindGroup {
			h.writeLine(buf, key, v.Group(), level)

			continue
		}

		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(colorGray)
		buf.WriteString(key)
		buf.WriteString(colorReset)
		buf.WriteByte('=')

		if key == slog.LevelKey && prefix == "" {
			writeColored(buf, levelColor(level), v.String())

			continue
		}

		writeValue(buf, v)
	}
}

// writeBlock writes attrs as indented "key": value lines.
func (h *prettyHandler) writeBlock(buf *bytes.Buffer, attrs []slog.Attr, depth int) {
	first := true

	for _, a := range attrs {
		v := a.Value.Resolve()
		if a.Key == "" {
			if v.Kind() == slog.KindGroup {
				h.writeBlock(buf, v.Group(), depth)
			}

			continue
		}

		if !first {
			buf.WriteByte(',')
		}

		first = false

		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat("  ", depth))
		buf.WriteString(colorGray)
		buf.WriteString(strconv.Quote(a.Key))
		buf.WriteString(colorReset)
		buf.WriteString(": ")

		if v.Kind() == slog.KindGroup {
			buf.WriteString("{")
			h.writeBlock(buf, v.Group(), depth+1)
			buf.WriteByte('\n')
			buf.WriteString(strings.Repeat("  ", depth))
			buf.WriteString("}")

			continue
		}

		writeJSONValue(buf, v)
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
	case level >= slog.LevelDebug:
		return colorBlue
	default:
		return colorMagenta
	}
}

func writeColored(buf *bytes.Buffer, color, s string) {
	buf.WriteString(color)
	buf.WriteString(s)
	buf.WriteString(colorReset)
}

func writeValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		writeColored(buf, colorYellow, v.String())

	case slog.KindBool:
		if v.Bool() {
			writeColored(buf, colorGreen, "true")
		} else {
			writeColored(buf, colorRed, "false")
		}

	case slog.KindDuration:
		writeColored(buf, colorMagenta, v.Duration().String())

	case slog.KindTime:
		writeColored(buf, colorBlue, v.Time().Format(time.RFC3339))

	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			writeColored(buf, colorRed, err.Error())

			return
		}

		writeColored(buf, colorCyan, v.String())

	default:
		writeColored(buf, colorCyan, v.String())
	}
}

func writeJSONValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindInt64, slog.KindUint64:
		writeColored(buf, colorYellow, v.String())

	case slog.KindFloat64:
		// NaN and infinities have no JSON literal.
		b, err := json.Marshal(v.Float64())
		if err != nil {
			writeColored(buf, colorYellow, strconv.Quote(v.String()))

			return
		}

		writeColored(buf, colorYellow, string(b))

	case slog.KindBool:
		if v.Bool() {
			writeColored(buf, colorGreen, "true")
		} else {
			writeColored(buf, colorRed, "false")
		}

	case slog.KindAny:
		switch x := v.Any().(type) {
		case nil:
			writeColored(buf, colorGray, "null")
		case error:
			writeColored(buf, colorRed, strconv.Quote(x.Error()))
		default:
			b, err := json.Marshal(x)
			if err != nil {
				b = []byte(strconv.Quote(fmt.Sprint(x)))
			}

			writeColored(buf, colorCyan, string(b))
		}

	default:
		writeColored(buf, colorCyan, strconv.Quote(v.String()))
	}
}
