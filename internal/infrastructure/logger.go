package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/komalvinayak/Ecommerce-Analysis/internal/config"
)

// The process logger and the log file it may hold open
var (
	loggerMu   sync.Mutex
	procLogger *slog.Logger
	logFile    *os.File
)

// InitializeLogger builds the process logger from cfg and makes it the
// slog default. Only the first successful call configures anything; later
// calls return the same logger.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if procLogger != nil {
		return procLogger, nil
	}

	out, file, err := logOutput(cfg)
	if err != nil {
		return nil, err
	}

	procLogger = NewJSONLogger(out, &slog.HandlerOptions{
		AddSource: cfg.Development,
		Level:     parseLogLevel(cfg.Level),
	})
	logFile = file
	slog.SetDefault(procLogger)
	return procLogger, nil
}

// GetLogger returns the process logger, or slog.Default before
// InitializeLogger has run
func GetLogger() *slog.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if procLogger == nil {
		return slog.Default()
	}
	return procLogger
}

// CloseLogFile closes the log file opened for "file" or "both" output
func CloseLogFile() error {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// ResetLoggerForTesting forgets the process logger. Tests only.
func ResetLoggerForTesting() {
	CloseLogFile()
	loggerMu.Lock()
	procLogger = nil
	loggerMu.Unlock()
}

// NewJSONLogger builds a JSON logger that stamps trace_id from the context
func NewJSONLogger(w io.Writer, opts *slog.HandlerOptions) *slog.Logger {
	return slog.New(&traceHandler{Handler: slog.NewJSONHandler(w, opts)})
}

// logOutput resolves cfg.Output: console (default), file or both
func logOutput(cfg config.LoggingConfig) (io.Writer, *os.File, error) {
	mode := strings.ToLower(cfg.Output)
	if mode != "file" && mode != "both" {
		return os.Stdout, nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", cfg.FilePath, err)
	}

	if mode == "both" {
		return io.MultiWriter(os.Stdout, f), f, nil
	}
	return f, f, nil
}

func parseLogLevel(level string) slog.Level {
	var l slog.Level
	if strings.EqualFold(level, "warning") {
		return slog.LevelWarn
	}
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
