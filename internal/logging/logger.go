// Package logging builds the diagnostic slog logger. User-facing output does
// not go through it.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Options describes logger construction parameters.
type Options struct {
	Level    string    // debug, info, warn, error
	Format   string    // console or json
	Writer   io.Writer // defaults to stderr
	FilePath string    // optional extra destination, appended to
}

// New constructs a slog logger using the provided options. The returned
// close function releases the log file, if any.
func New(opts Options) (*slog.Logger, func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = os.Stderr
	if opts.Writer != nil {
		w = opts.Writer
	}

	closeFn := func() error { return nil }
	if path := strings.TrimSpace(opts.FilePath); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("ensure log directory: %w", err)
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
		}
		w = io.MultiWriter(w, file)
		closeFn = file.Close
	}

	addSource := level <= slog.LevelDebug

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			AddSource:   addSource,
			ReplaceAttr: replaceAttr(time.RFC3339),
		})
	case "console", "":
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:       level,
			AddSource:   addSource,
			ReplaceAttr: replaceAttr(time.TimeOnly),
		})
	default:
		_ = closeFn()
		return nil, nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	return slog.New(handler), closeFn, nil
}

// ParseLevel maps a level name to a slog level. Empty means warn.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log level: unsupported value %q", level)
}

func replaceAttr(timeLayout string) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, attr slog.Attr) slog.Attr {
		switch attr.Key {
		case slog.TimeKey:
			if attr.Value.Kind() == slog.KindTime {
				attr.Value = slog.StringValue(attr.Value.Time().Format(timeLayout))
			}
		case slog.LevelKey:
			attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
		case slog.SourceKey:
			if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
				attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
			}
		}
		return attr
	}
}
