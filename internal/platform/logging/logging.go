package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	hclog "github.com/hashicorp/go-hclog"
)

const appName = "stillness"

// New builds the root logger. An empty path logs to stderr; otherwise the file
// is opened for append and returned so the caller can close it on exit.
func New(level, path string) (hclog.Logger, io.Closer, error) {
	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closer = f
	}
	parsed := hclog.LevelFromString(level)
	if parsed == hclog.NoLevel {
		parsed = hclog.Info
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   appName,
		Level:  parsed,
		Output: out,
	})
	return logger, closer, nil
}

// OrNull keeps constructors usable with a nil logger.
func OrNull(logger hclog.Logger) hclog.Logger {
	if logger == nil {
		return hclog.NewNullLogger()
	}
	return logger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
