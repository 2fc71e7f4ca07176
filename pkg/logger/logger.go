package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LogLevel defines the severity of a log message.
type LogLevel int

const (
	INFO LogLevel = iota
	WARN
	ERROR
	DEBUG
	TRACE
)

const levelTrace = slog.Level(-8)

type logLine struct {
	level LogLevel
	text  string
}

// Logger writes leveled messages through slog and keeps the most recent
// lines in memory so the window can show them.
type Logger struct {
	mu          sync.Mutex
	logMessages []logLine    // In-memory buffer of recent lines
	out         *slog.Logger // Structured output
	maxLines    int          // Max number of lines to store
	minLevel    LogLevel     // Minimum level to output/store
}

// NewLogger creates a Logger that writes to stderr. Standard output is left
// to command results.
func NewLogger(maxLines int) *Logger {
	return New(os.Stderr, maxLines)
}

// New creates a Logger writing text records to w.
func New(w io.Writer, maxLines int) *Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: levelTrace,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey && a.Value.Any() == levelTrace {
				return slog.String(slog.LevelKey, "TRACE")
			}
			return a
		},
	})
	return &Logger{
		out:         slog.New(handler),
		maxLines:    maxLines,
		logMessages: make([]logLine, 0, maxLines),
		minLevel:    INFO,
	}
}

// ParseLevel maps a config value such as "debug" to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return TRACE, nil
	case "debug":
		return DEBUG, nil
	case "", "info":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("unknown log level %q", s)
	}
}

// SetLevel updates the minimum log level.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = level
}

// GetLevel returns the current minimum log level.
func (l *Logger) GetLevel() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.minLevel
}

func (l *Logger) logf(level LogLevel, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if levelRank(level) < levelRank(l.minLevel) {
		return
	}

	msg := fmt.Sprintf(format, v...)
	l.out.Log(context.Background(), level.slogLevel(), msg)

	l.logMessages = append(l.logMessages, logLine{level: level, text: msg})
	if len(l.logMessages) > l.maxLines {
		// Keep only the last 'maxLines' entries
		l.logMessages = l.logMessages[len(l.logMessages)-l.maxLines:]
	}
}

// Infof logs an info message.
func (l *Logger) Infof(format string, v ...interface{}) {
	l.logf(INFO, format, v...)
}

// Warnf logs a warning message.
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.logf(WARN, format, v...)
}

// Errorf logs an error message.
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.logf(ERROR, format, v...)
}

// Debugf logs a debug message.
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.logf(DEBUG, format, v...)
}

// Tracef logs a trace message.
func (l *Logger) Tracef(format string, v ...interface{}) {
	l.logf(TRACE, format, v...)
}

// GetLogs returns the buffered lines as "[LEVEL] message" strings.
func (l *Logger) GetLogs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	logs := make([]string, len(l.logMessages))
	for i, line := range l.logMessages {
		logs[i] = fmt.Sprintf("[%s] %s", line.level, line.text)
	}
	return logs
}

// LastProblem returns the newest buffered warning or error, or "".
func (l *Logger) LastProblem() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.logMessages) - 1; i >= 0; i-- {
		if line := l.logMessages[i]; levelRank(line.level) >= levelRank(WARN) {
			return line.text
		}
	}
	return ""
}

// Clear removes all in-memory log messages.
func (l *Logger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logMessages = l.logMessages[:0]
}

func (l LogLevel) String() string {
	switch l {
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case DEBUG:
		return "DEBUG"
	case TRACE:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case TRACE:
		return levelTrace
	case DEBUG:
		return slog.LevelDebug
	case WARN:
		return slog.LevelWarn
	case ERROR:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func levelRank(level LogLevel) int {
	switch level {
	case TRACE:
		return 0
	case DEBUG:
		return 1
	case INFO:
		return 2
	case WARN:
		return 3
	case ERROR:
		return 4
	default:
		return 5
	}
}
