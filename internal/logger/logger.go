// Package logger is the leveled logger shared by the server, the store
// handlers and the unit catalog watcher.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// Level controls how much is written.
type Level int32

const (
	// LevelOff writes nothing.
	LevelOff Level = iota
	// LevelNormal writes info, warnings and errors.
	LevelNormal
	// LevelVerbose also writes debug lines.
	LevelVerbose
)

// ParseLevel maps "off", "normal" and "verbose" (or "debug") to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none", "quiet":
		return LevelOff, nil
	case "", "normal", "info":
		return LevelNormal, nil
	case "verbose", "debug":
		return LevelVerbose, nil
	default:
		return LevelNormal, fmt.Errorf("unknown log level %q", s)
	}
}

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelNormal:
		return "normal"
	case LevelVerbose:
		return "verbose"
	default:
		return "unknown"
	}
}

// Logger writes prefixed lines through the standard log package.
// All methods are safe for concurrent use.
type Logger struct {
	level atomic.Int32
	out   *log.Logger
}

// New creates a logger writing to out, or os.Stderr when out is nil.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	l := &Logger{out: log.New(out, "", log.LstdFlags)}
	l.level.Store(int32(level))
	return l
}

// Discard returns a logger that writes nothing. Handy in tests.
func Discard() *Logger {
	return New(LevelOff, io.Discard)
}

// SetLevel changes the level at runtime.
func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// GetLevel returns the current level.
func (l *Logger) GetLevel() Level {
	return Level(l.level.Load())
}

func (l *Logger) write(min Level, tag, format string, args []any) {
	if l.GetLevel() < min {
		return
	}
	_ = l.out.Output(3, tag+" "+fmt.Sprintf(format, args...))
}

// Debug logs only in verbose mode.
func (l *Logger) Debug(format string, args ...any) { l.write(LevelVerbose, "[DBG]", format, args) }

// Info logs an informational line.
func (l *Logger) Info(format string, args ...any) { l.write(LevelNormal, "[INF]", format, args) }

// Warn logs a recoverable problem.
func (l *Logger) Warn(format string, args ...any) { l.write(LevelNormal, "[WRN]", format, args) }

// Error logs a failure.
func (l *Logger) Error(format string, args ...any) { l.write(LevelNormal, "[ERR]", format, args) }
