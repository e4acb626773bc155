// Package logger provides leveled logging for the game server.
// Every action applied to the shared game should be traceable through this.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Logger provides leveled logging with colored prefixes on terminals.
type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	eventTag    *color.Color
}

// NewLogger creates a logger writing info and warnings to stdout, errors to stderr.
func NewLogger() *Logger {
	return New(os.Stdout, os.Stderr)
}

// New creates a logger on arbitrary writers. Colors are only used for terminals.
func New(out, errOut io.Writer) *Logger {
	flags := log.Ldate | log.Ltime | log.Lmicroseconds
	return &Logger{
		infoLogger:  log.New(out, prefix(out, "[CLICKER-INFO] ", color.FgCyan), flags),
		warnLogger:  log.New(out, prefix(out, "[CLICKER-WARN] ", color.FgYellow), flags),
		errorLogger: log.New(errOut, prefix(errOut, "[CLICKER-ERROR] ", color.FgRed, color.Bold), flags),
		eventTag:    painter(out, color.FgMagenta),
	}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger {
	return New(io.Discard, io.Discard)
}

// Info logs informational messages.
func (l *Logger) Info(msg string) {
	l.infoLogger.Println(msg)
}

// Infof logs a formatted informational message.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.infoLogger.Printf(format, args...)
}

// Warn logs warning messages.
func (l *Logger) Warn(msg string) {
	l.warnLogger.Println(msg)
}

// Warnf logs a formatted warning.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.warnLogger.Printf(format, args...)
}

// Error logs error messages.
func (l *Logger) Error(msg string) {
	l.errorLogger.Println(msg)
}

// Errorf logs a formatted error.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.errorLogger.Printf(format, args...)
}

// Event logs a notable game event.
func (l *Logger) Event(eventType string, targetID string, details string) {
	tag := l.eventTag.Sprint(fmt.Sprintf("[EVENT:%s]", eventType))
	if targetID == "" {
		targetID = "-"
	}
	l.infoLogger.Printf("%s Target:%s | %s", tag, targetID, details)
}

func prefix(w io.Writer, text string, attrs ...color.Attribute) string {
	return painter(w, attrs...).Sprint(text)
}

func painter(w io.Writer, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if isTerminal(w) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
