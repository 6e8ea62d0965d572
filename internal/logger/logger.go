// Package logger provides levelled diagnostic output for healthrag.
// By default only errors are printed; --verbose lowers the threshold to
// debug so the orchestration of each question can be followed on stderr.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is a logging threshold.
type Level int

// Levels, most verbose first.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

// String returns the upper-case level name.
func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel resolves a level name such as "debug" or "WARN".
func ParseLevel(name string) (Level, error) {
	for i, n := range levelNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return Level(i), nil
		}
	}
	if strings.EqualFold(strings.TrimSpace(name), "warning") {
		return LevelWarn, nil
	}
	return LevelError, fmt.Errorf("unknown log level %q", name)
}

var (
	mu        sync.RWMutex
	threshold           = LevelError
	output    io.Writer = os.Stderr
)

// SetVerbose switches between debug output and errors only.
func SetVerbose(v bool) {
	if v {
		SetLevel(LevelDebug)
		return
	}
	SetLevel(LevelError)
}

// IsVerbose returns true if debug messages are printed.
func IsVerbose() bool {
	return GetLevel() == LevelDebug
}

// SetLevel sets the lowest level that is printed.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	threshold = l
}

// GetLevel returns the current threshold.
func GetLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return threshold
}

// SetOutput sets the writer for log lines. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func logf(l Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if l < threshold {
		return
	}
	fmt.Fprintf(output, "["+l.String()+"] "+format+"\n", args...)
}

// Debug prints source-level detail such as request URLs and match counts.
func Debug(format string, args ...any) {
	logf(LevelDebug, format, args...)
}

// Info prints per-question progress.
func Info(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

// Warn prints recoverable problems such as a failed source or a tripped breaker.
func Warn(format string, args ...any) {
	logf(LevelWarn, format, args...)
}

// Error prints failures. Errors are shown at every level.
func Error(format string, args ...any) {
	logf(LevelError, format, args...)
}

// Section prints a header separating the phases of one question.
// It is shown at info level and below.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if threshold > LevelInfo {
		return
	}
	fmt.Fprintf(output, "\n=== %s ===\n", name)
}

// Elapsed starts a timer and returns a func that logs the duration at debug level.
//
//	defer logger.Elapsed("pubmed lookup")()
func Elapsed(label string) func() {
	start := time.Now()
	return func() {
		Debug("%s took %s", label, time.Since(start).Round(time.Millisecond))
	}
}
