// Package logger provides leveled console logging for harness diagnostics.
//
// Diagnostic output (scan progress, history writes, skipped examples) goes
// through this logger and is distinct from the reporter's machine-parsable
// result lines. Implementations are thread-safe.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger logs diagnostics to a writer with [HH:MM:SS] timestamps.
// It supports log level filtering and colors warnings and errors when the
// writer is a TTY.
type ConsoleLogger struct {
	writer      io.Writer
	level       int
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive); empty or
// invalid levels default to "info".
// colorMode is one of auto, always, never.
func NewConsoleLogger(writer io.Writer, logLevel, colorMode string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		level:       parseLevel(logLevel),
		colorOutput: useColor(writer, colorMode),
	}
}

// useColor decides whether colored output is appropriate for the writer.
func useColor(w io.Writer, colorMode string) bool {
	switch colorMode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	// color.NoColor honors the NO_COLOR convention
	return !color.NoColor && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// parseLevel converts a log level string to its numeric rank.
func parseLevel(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (cl *ConsoleLogger) log(level int, colorize *color.Color, format string, args ...interface{}) {
	if cl.writer == nil || level < cl.level {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	msg := fmt.Sprintf(format, args...)
	if cl.colorOutput && colorize != nil {
		msg = colorize.Sprint(msg)
	}
	fmt.Fprintf(cl.writer, "[%s] %s\n", time.Now().Format("15:04:05"), msg)
}

// Tracef logs a message at trace level
func (cl *ConsoleLogger) Tracef(format string, args ...interface{}) {
	cl.log(levelTrace, nil, format, args...)
}

// Debugf logs a message at debug level
func (cl *ConsoleLogger) Debugf(format string, args ...interface{}) {
	cl.log(levelDebug, nil, format, args...)
}

// Infof logs a message at info level
func (cl *ConsoleLogger) Infof(format string, args ...interface{}) {
	cl.log(levelInfo, nil, format, args...)
}

// Warnf logs a message at warn level (yellow on TTYs)
func (cl *ConsoleLogger) Warnf(format string, args ...interface{}) {
	cl.log(levelWarn, color.New(color.FgYellow), format, args...)
}

// Errorf logs a message at error level (red on TTYs)
func (cl *ConsoleLogger) Errorf(format string, args ...interface{}) {
	cl.log(levelError, color.New(color.FgRed), format, args...)
}
