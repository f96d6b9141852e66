// Package logging builds the process logger: text records to the console and
// to a timestamped file per run.
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

type Options struct {
	Level   string
	Dir     string
	Console bool
	Stdout  io.Writer
	Now     func() time.Time
}

// New returns the logger and a close function for its log file. The file is
// named log_<YYYYmmddHHMMSS>.log inside Dir; an empty Dir disables it.
func New(options Options) (*slog.Logger, func() error, error) {
	writers := make([]io.Writer, 0, 2)
	if options.Console {
		stdout := options.Stdout
		if stdout == nil {
			stdout = os.Stderr
		}
		writers = append(writers, stdout)
	}

	closeFn := func() error { return nil }
	if strings.TrimSpace(options.Dir) != "" {
		file, err := openLogFile(options.Dir, options.Now)
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, file)
		closeFn = file.Close
	}

	var output io.Writer = io.Discard
	if len(writers) > 0 {
		output = io.MultiWriter(writers...)
	}

	handler := slog.NewTextHandler(output, &slog.HandlerOptions{Level: ParseLevel(options.Level)})
	return slog.New(handler), closeFn, nil
}

// ParseLevel maps debug|info|warn|error onto slog levels; unknown values are info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openLogFile(dir string, now func() time.Time) (*os.File, error) {
	if now == nil {
		now = time.Now
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("log_%s.log", now().Format("20060102150405")))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}
