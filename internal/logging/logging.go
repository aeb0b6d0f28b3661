package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Logger wraps a zap sugared logger
type Logger struct {
	*zap.SugaredLogger
}

// NewFileLogger writes to the given path instead of the terminal.
// The editor runs in the alternate screen, so stderr is not usable
// while it is up. Returns a nop logger when verbose is false.
func NewFileLogger(path string, verbose bool) (*Logger, error) {
	if !verbose {
		return &Logger{zap.NewNop().Sugar()}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return &Logger{logger.Sugar()}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}
