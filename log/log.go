package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var (
	infoLogger  *slog.Logger
	errorLogger *slog.Logger

	openedFiles []*os.File
)

// Init opens info.log and error.log under dir. Before Init every
// logging call is a no-op.
func Init(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log dir: %w", err)
	}

	infoFile, err := os.OpenFile(filepath.Join(dir, "info.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open info.log: %w", err)
	}

	errorFile, err := os.OpenFile(filepath.Join(dir, "error.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		infoFile.Close()
		return fmt.Errorf("failed to open error.log: %w", err)
	}
	openedFiles = append(openedFiles, infoFile, errorFile)

	SetInfoOutput(infoFile)
	SetErrorOutput(errorFile)
	return nil
}

// Close releases the files opened by Init.
func Close() {
	for _, f := range openedFiles {
		f.Close()
	}
	openedFiles = nil
	infoLogger = nil
	errorLogger = nil
}

// Infof logs an info-level message with format string and arguments
func Infof(ctx context.Context, format string, args ...interface{}) {
	if infoLogger == nil {
		return
	}
	infoLogger.InfoContext(ctx, fmt.Sprintf(format, args...))
}

// Errorf logs an error-level message with format string and arguments
func Errorf(ctx context.Context, format string, args ...interface{}) {
	if errorLogger == nil {
		return
	}
	errorLogger.ErrorContext(ctx, fmt.Sprintf(format, args...))
}

func Info(ctx context.Context, msg string, args ...any) {
	if infoLogger == nil {
		return
	}
	infoLogger.InfoContext(ctx, msg, args...)
}

func Error(ctx context.Context, msg string, args ...any) {
	if errorLogger == nil {
		return
	}
	errorLogger.ErrorContext(ctx, msg, args...)
}

// SetInfoOutput sets a custom writer for info logs (useful for testing)
func SetInfoOutput(w io.Writer) {
	infoLogger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// SetErrorOutput sets a custom writer for error logs (useful for testing)
func SetErrorOutput(w io.Writer) {
	errorLogger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}
