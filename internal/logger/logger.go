// Package logger provides leveled logging for the pfgrants CLI.
//
// Debug, Info and Warn lines are printed only in verbose mode so a load run
// can be followed document by document. Errors are always printed. While a
// run is active every line carries its run ID.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level orders messages by severity.
type Level int

// Log levels.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the tag printed for the level.
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
		return "LEVEL(" + fmt.Sprint(int(l)) + ")"
	}
}

var (
	mu         sync.RWMutex
	verbose    bool
	timestamps bool
	runID      string
	output     io.Writer = os.Stderr
	now                  = time.Now
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetTimestamps prefixes every line with a UTC timestamp when on.
func SetTimestamps(on bool) {
	mu.Lock()
	defer mu.Unlock()
	timestamps = on
}

// SetRunID tags every line with id. An empty id removes the tag.
func SetRunID(id string) {
	mu.Lock()
	defer mu.Unlock()
	runID = id
}

// SetOutput sets the output writer. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Enabled reports whether messages at l are printed.
func Enabled(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled(l)
}

func enabled(l Level) bool {
	return verbose || l >= LevelError
}

func logf(l Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !enabled(l) {
		return
	}

	var b strings.Builder
	if timestamps {
		b.WriteString(now().UTC().Format(time.RFC3339))
		b.WriteByte(' ')
	}
	b.WriteString("[" + l.String() + "] ")
	if runID != "" {
		b.WriteString("run=" + runID + " ")
	}
	fmt.Fprintf(&b, format, args...)
	b.WriteByte('\n')

	_, _ = io.WriteString(output, b.String())
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(LevelDebug, format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

// Warn prints a warning if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf(LevelWarn, format, args...)
}

// Error prints an error regardless of verbose mode.
func Error(format string, args ...any) {
	logf(LevelError, format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
