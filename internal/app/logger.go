package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/andyballingall/prettygo/internal/fsh"
)

// LogEnvVar names a file that receives a JSON copy of every log record.
const LogEnvVar = "PRETTYGO_LOG_FILE"

// setupLogger configures a logger that writes clean, human-readable logs to
// the console and, when logPath is set, structured logs to that file.
// On a file error the console logger is still returned, with the error.
func setupLogger(stderr io.Writer, logLevel *slog.LevelVar, logPath string) (*slog.Logger, io.Closer, error) {
	console := &consoleHandler{
		w:     stderr,
		mu:    &sync.Mutex{},
		level: logLevel,
	}
	if logPath == "" {
		return slog.New(console), nil, nil
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(console), nil, err
	}

	fileHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: slog.LevelDebug, // File always gets full debug info
	})
	return slog.New(&multiHandler{handlers: []slog.Handler{fileHandler, console}}), f, nil
}

// logPath picks the log file: the flag wins over the environment.
func logPath(flag string, env fsh.EnvProvider) string {
	if flag != "" {
		return flag
	}
	return fsh.GetOr(env, LogEnvVar, "")
}

type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, record.Level) {
			if err := h.Handle(ctx, record.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

// consoleHandler prints the message only, plus any error. At debug level the
// other attributes are printed as key=value pairs. Each record is written to
// w with a single Write, so records from the watcher never interleave.
type consoleHandler struct {
	w      io.Writer
	mu     *sync.Mutex
	level  *slog.LevelVar
	attrs  []slog.Attr
	prefix string // group names, dot-terminated
}

func (c *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= c.level.Level()
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (c *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	var buf bytes.Buffer
	switch {
	case record.Level >= slog.LevelError:
		fmt.Fprintf(&buf, "Error: %s", record.Message)
	case record.Level >= slog.LevelWarn:
		fmt.Fprintf(&buf, "Warning: %s", record.Message)
	default:
		buf.WriteString(record.Message)
	}

	for _, a := range c.attrs {
		c.formatAttr(&buf, "", a)
	}
	record.Attrs(func(a slog.Attr) bool {
		c.formatAttr(&buf, c.prefix, a)
		return true
	})
	buf.WriteByte('\n')

	if c.mu != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
	}
	_, err := c.w.Write(buf.Bytes())
	return err
}

func (c *consoleHandler) formatAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	switch {
	case a.Key == "error" || a.Key == "err":
		fmt.Fprintf(buf, ": %v", a.Value)
	case c.level.Level() > slog.LevelDebug:
	case a.Value.Kind() == slog.KindGroup:
		for _, ga := range a.Value.Group() {
			c.formatAttr(buf, prefix+a.Key+".", ga)
		}
	default:
		fmt.Fprintf(buf, " %s%s=%v", prefix, a.Key, a.Value)
	}
}

func (c *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefixed := make([]slog.Attr, 0, len(c.attrs)+len(attrs))
	prefixed = append(prefixed, c.attrs...)
	for _, a := range attrs {
		if c.prefix != "" {
			a = slog.Attr{Key: c.prefix + a.Key, Value: a.Value}
		}
		prefixed = append(prefixed, a)
	}
	return &consoleHandler{
		w:      c.w,
		mu:     c.mu,
		level:  c.level,
		attrs:  prefixed,
		prefix: c.prefix,
	}
}

func (c *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return c
	}
	return &consoleHandler{
		w:      c.w,
		mu:     c.mu,
		level:  c.level,
		attrs:  c.attrs,
		prefix: c.prefix + name + ".",
	}
}
