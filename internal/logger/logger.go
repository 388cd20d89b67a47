// Package logger provides a simple logging interface for sysmon components.
// It allows packages to log debug, info, warn, and error messages without
// being coupled to a specific logging implementation.
//
// The monitor owns the terminal while it runs, so the CLI points the logger
// at a file instead of stderr.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// DebugEnv enables debug output when set to any non-empty value.
const DebugEnv = "SYSMON_DEBUG"

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// envLogger implements Logger on top of a *log.Logger.
// Debug messages are only printed when debug is forced or SYSMON_DEBUG is set.
type envLogger struct {
	prefix string
	out    *log.Logger
	debug  bool
}

// NewEnvLogger creates a logger that writes through the standard log package
// and respects the SYSMON_DEBUG environment variable.
// The prefix is prepended to all log messages (e.g., "[sampler]").
func NewEnvLogger(prefix string) Logger {
	return &envLogger{prefix: prefix, out: log.Default()}
}

// NewWriterLogger creates a logger that writes to w. When debug is true,
// Debug messages are printed regardless of SYSMON_DEBUG.
func NewWriterLogger(w io.Writer, prefix string, debug bool) Logger {
	return &envLogger{
		prefix: prefix,
		out:    log.New(w, "", log.LstdFlags|log.Lmicroseconds),
		debug:  debug,
	}
}

// OpenFile creates a logger appending to the file at path, creating parent
// directories as needed. The returned closer must be closed on shutdown.
func OpenFile(path, prefix string, debug bool) (Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return NewWriterLogger(f, prefix, debug), f, nil
}

func (l *envLogger) debugEnabled() bool {
	return l.debug || os.Getenv(DebugEnv) != ""
}

func (l *envLogger) Debug(format string, args ...interface{}) {
	if l.debugEnabled() {
		l.out.Printf(l.prefix+" "+format, args...)
	}
}

func (l *envLogger) Info(format string, args ...interface{}) {
	l.out.Printf(l.prefix+" "+format, args...)
}

func (l *envLogger) Warn(format string, args ...interface{}) {
	l.out.Printf(l.prefix+" WARN: "+format, args...)
}

func (l *envLogger) Error(format string, args ...interface{}) {
	l.out.Printf(l.prefix+" ERROR: "+format, args...)
}

// noopLogger implements Logger but discards all messages.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for testing.
// It is safe for concurrent use; the sampler logs from its worker goroutine.
type BufferLogger struct {
	mu       sync.Mutex
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) add(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, LogMessage{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Debug(format string, args ...interface{}) { l.add("debug", format, args...) }
func (l *BufferLogger) Info(format string, args ...interface{})  { l.add("info", format, args...) }
func (l *BufferLogger) Warn(format string, args ...interface{})  { l.add("warn", format, args...) }
func (l *BufferLogger) Error(format string, args ...interface{}) { l.add("error", format, args...) }

// Entries returns a copy of the captured messages.
func (l *BufferLogger) Entries() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogMessage, len(l.Messages))
	copy(out, l.Messages)
	return out
}

// Count returns how many messages were logged at the given level.
func (l *BufferLogger) Count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, m := range l.Messages {
		if m.Level == level {
			n++
		}
	}
	return n
}

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	return l.Count(level) > 0
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = l.Messages[:0]
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = Noop()
)

// Default returns the process-wide logger. It discards everything until the
// CLI installs a file logger with SetDefault.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the default logger for the package.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}
