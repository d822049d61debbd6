// Package log is splice's category logger. Entries carry a timestamp, level,
// category and key=value fields. Output goes to a file (Init) or any writer
// (InitWriter), and every entry is also published to listeners. Nothing is
// written until one of the two has been called.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/zjrosen/splice/internal/pubsub"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Category groups related log messages.
type Category string

const (
	CatBuffer   Category = "buffer"   // Buffer mutations and modification hooks
	CatEdit     Category = "edit"     // Edit set composition and application
	CatModify   Category = "modify"   // Modification chains
	CatScope    Category = "scope"    // Scoped window checks and resizing
	CatBoundary Category = "boundary" // Word and line boundary search
	CatUndo     Category = "undo"     // Undo grouping, undo/redo
	CatConfig   Category = "config"   // Configuration loading/saving
	CatCache    Category = "cache"    // Cache operations
	CatCLI      Category = "cli"      // Command line entry points
)

// Logger writes formatted entries and republishes them on a broker.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	closer   io.Closer
	enabled  bool
	minLevel Level
	broker   *pubsub.Broker[string]
}

var defaultLogger *Logger

func newLogger(out io.Writer, closer io.Closer) *Logger {
	return &Logger{
		out:      out,
		closer:   closer,
		enabled:  true,
		minLevel: LevelDebug,
		broker:   pubsub.NewBroker[string](),
	}
}

// Init appends log output to the file at path and makes it the active
// logger. The returned function closes the file.
func Init(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G304: path is user-controlled debug log path
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	l := newLogger(f, f)
	defaultLogger = l
	return l.close, nil
}

// InitWriter directs log output to w, e.g. stderr for --debug.
// It may be called repeatedly; the last writer wins.
func InitWriter(w io.Writer) {
	defaultLogger = newLogger(w, nil)
}

func (l *Logger) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closer != nil {
		_ = l.closer.Close()
		l.closer = nil
		l.out = nil
	}
}

// SetEnabled toggles logging on/off.
func SetEnabled(enabled bool) {
	if l := defaultLogger; l != nil {
		l.mu.Lock()
		l.enabled = enabled
		l.mu.Unlock()
	}
}

// SetMinLevel sets the minimum log level.
func SetMinLevel(level Level) {
	if l := defaultLogger; l != nil {
		l.mu.Lock()
		l.minLevel = level
		l.mu.Unlock()
	}
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	write(LevelDebug, cat, msg, fields)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	write(LevelInfo, cat, msg, fields)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	write(LevelWarn, cat, msg, fields)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	write(LevelError, cat, msg, fields)
}

// ErrorErr logs at error level with err appended as the "error" field.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	value := "<nil>"
	if err != nil {
		value = err.Error()
	}
	write(LevelError, cat, msg, append(fields, "error", value))
}

func write(level Level, cat Category, msg string, fields []any) {
	if l := defaultLogger; l != nil {
		l.log(time.Now(), level, cat, msg, fields)
	}
}

func (l *Logger) log(at time.Time, level Level, cat Category, msg string, fields []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled || level < l.minLevel {
		return
	}

	entry := format(at, level, cat, msg, fields)
	if l.out != nil {
		_, _ = io.WriteString(l.out, entry)
	}
	l.broker.Publish(pubsub.LoggedEvent, entry)
}

// format renders one line:
//
//	2025-12-06T10:45:00 [ERROR] [edit] message key=value key2=value2
//
// A trailing key without a value is written as key=<missing>.
func format(at time.Time, level Level, cat Category, msg string, fields []any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] [%s] %s", at.Format("2006-01-02T15:04:05"), level, cat, msg)
	for i := 0; i < len(fields); i += 2 {
		var value any = "<missing>"
		if i+1 < len(fields) {
			value = fields[i+1]
		}
		fmt.Fprintf(&b, " %v=%v", fields[i], value)
	}
	b.WriteByte('\n')
	return b.String()
}

// LogEvent is a pubsub event containing a log entry.
type LogEvent = pubsub.Event[string]

// NewListener subscribes to entries of the active logger until ctx ends.
// It returns nil when no logger is active.
func NewListener(ctx context.Context) *pubsub.Listener[string] {
	if defaultLogger == nil {
		return nil
	}
	return pubsub.NewListener[string](ctx, defaultLogger.broker)
}

// ParseLevel maps a configuration string to a Level. Unknown values map to
// LevelDebug so that a typo never silences logging.
func ParseLevel(s string) Level {
	switch s {
	case "info", "INFO":
		return LevelInfo
	case "warn", "WARN":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelDebug
	}
}
