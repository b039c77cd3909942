package dlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"golang.org/x/net/context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

type color int

const (
	timeFormat = "[2006-01-02 15:04:05.251]"

	reset = "\033[0m"

	cyan         color = 36
	lightGray    color = 37
	lightRed     color = 91
	lightYellow  color = 93
	lightBlue    color = 94
	lightMagenta color = 95
	white        color = 97
	green        color = 32
)

func colorizer(colorCode color, v string) string {
	return fmt.Sprintf("\033[%sm%s%s", strconv.Itoa(int(colorCode)), v, reset)
}

// PrettyHandler renders records as a colorized single header line followed by
// the attrs as indented json. It delegates attr encoding to an inner json
// handler writing into a shared buffer.
type PrettyHandler struct {
	h slog.Handler
	b *bytes.Buffer
	m *sync.Mutex
	w io.Writer
}

func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	buf := &bytes.Buffer{}
	return &PrettyHandler{
		b: buf,
		h: slog.NewJSONHandler(buf, &slog.HandlerOptions{
			Level:       opts.Level,
			AddSource:   opts.AddSource,
			ReplaceAttr: suppressDefaults(opts.ReplaceAttr),
		}),
		m: &sync.Mutex{},
		w: w,
	}
}

func (h *PrettyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &PrettyHandler{h: h.h.WithAttrs(attrs), b: h.b, m: h.m, w: h.w}
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return &PrettyHandler{h: h.h.WithGroup(name), b: h.b, m: h.m, w: h.w}
}

func (h *PrettyHandler) computeAttrs(ctx context.Context, r slog.Record) (map[string]any, error) {
	h.m.Lock()
	defer func() {
		h.b.Reset()
		h.m.Unlock()
	}()
	if err := h.h.Handle(ctx, r); err != nil {
		return nil, fmt.Errorf("error when calling inner handler's Handle: %w", err)
	}

	var attrs map[string]any
	err := json.Unmarshal(h.b.Bytes(), &attrs)
	if err != nil {
		return nil, fmt.Errorf("error when unmarshaling inner handler's Handle result: %w", err)
	}
	return attrs, nil
}

func (h *PrettyHandler) Handle(ctx context.Context, r slog.Record) error {
	var level string
	switch {
	case r.Level <= slog.LevelDebug:
		level = colorizer(lightGray, r.Level.String()+":")
	case r.Level <= slog.LevelInfo:
		level = colorizer(cyan, r.Level.String()+":")
	case r.Level < slog.LevelError:
		level = colorizer(lightYellow, r.Level.String()+":")
	case r.Level <= slog.LevelError+1:
		level = colorizer(lightRed, r.Level.String()+":")
	default:
		level = colorizer(lightMagenta, r.Level.String()+":")
	}

	timestamp := colorizer(lightGray, r.Time.Format(timeFormat))
	msg := colorizer(white, r.Message)

	attrs, err := h.computeAttrs(ctx, r)
	if err != nil {
		return err
	}

	var file string
	if source, ok := attrs["source"].(map[string]interface{}); ok {
		if _, ok2 := source["file"]; ok2 {
			line := source["line"]
			file = source["file"].(string) + ":" + strconv.Itoa(int(line.(float64)))
			delete(attrs, "source")
		}
	}

	jsonBytes, err := json.MarshalIndent(attrs, "", "  ")
	if err != nil {
		return fmt.Errorf("error when marshaling attrs: %w", err)
	}

	out := strings.Builder{}
	out.WriteString(timestamp)
	out.WriteString(" ")
	out.WriteString(level)
	out.WriteString(" ")
	if len(file) > 0 {
		out.WriteString(file)
		out.WriteString(" ")
	}
	out.WriteString(msg)
	out.WriteString(" ")
	if len(jsonBytes) > 0 {
		out.WriteString(colorizer(green, string(jsonBytes)))
	}
	out.WriteString("\n")

	_, err = io.WriteString(h.w, out.String())
	return err
}

func suppressDefaults(next func([]string, slog.Attr) slog.Attr) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey ||
			a.Key == slog.LevelKey ||
			a.Key == slog.MessageKey {
			return slog.Attr{}
		}
		if next == nil {
			return a
		}
		return next(groups, a)
	}
}
