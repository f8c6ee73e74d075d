// Package logging prints tagged console messages and mirrors them to the program log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"ytxtract/internal/domain/consts"
	"ytxtract/internal/domain/regex"
)

var (
	// Level is the debug verbosity. D messages print when their level is below it.
	Level int

	console  = newConsole(os.Stderr)
	file     = zerolog.Nop()
	logFile  *os.File
	loggable bool
	mu       sync.Mutex
)

func newConsole(w io.Writer) zerolog.Logger {
	cw := zerolog.ConsoleWriter{
		Out:          w,
		TimeFormat:   time.TimeOnly,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return zerolog.New(cw).With().Timestamp().Logger()
}

// SetOutput redirects console messages, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	console = newConsole(w)
}

// SetupLogging creates and/or opens the log file.
func SetupLogging(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), consts.PermsAppDataDir); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, consts.PermsLogFile)
	if err != nil {
		return fmt.Errorf("failed to open log file %q: %w", path, err)
	}
	logFile = f
	file = zerolog.New(f).With().Timestamp().Logger()
	loggable = true

	file.Info().Msg("=========== session start ===========")
	return nil
}

// Close flushes and closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	file = zerolog.Nop()
	loggable = false
}

// I logs an informational message.
func I(format string, args ...any) {
	emit(zerolog.InfoLevel, "", format, args...)
}

// S logs a success message.
func S(format string, args ...any) {
	emit(zerolog.InfoLevel, consts.GreenDone, format, args...)
}

// W logs a warning.
func W(format string, args ...any) {
	emit(zerolog.WarnLevel, "", format, args...)
}

// E logs an error with its call site.
func E(format string, args ...any) {
	emit(zerolog.ErrorLevel, "", format+callSite(), args...)
}

// D logs a debug message when l is within the configured Level.
func D(l int, format string, args ...any) {
	if l >= Level {
		return
	}
	emit(zerolog.DebugLevel, "", format+callSite(), args...)
}

// P prints a plain message to stdout and the log file.
func P(format string, args ...any) {
	msg := sprintf(format, args...)
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(os.Stdout, msg)
	if loggable {
		file.Info().Msg(stripAnsiCodes(msg))
	}
}

func emit(lvl zerolog.Level, tag, format string, args ...any) {
	msg := sprintf(format, args...)

	mu.Lock()
	defer mu.Unlock()

	console.WithLevel(lvl).Msg(tag + msg)
	if loggable {
		file.WithLevel(lvl).Msg(stripAnsiCodes(msg))
	}
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// callSite returns " [func file:line]" for the caller of E or D.
func callSite() string {
	pc, f, line, ok := runtime.Caller(2)
	if !ok {
		return ""
	}
	fn := runtime.FuncForPC(pc)
	name := "?"
	if fn != nil {
		name = filepath.Base(fn.Name())
	}
	return fmt.Sprintf(" %s[%s %s:%d]%s", consts.ColorDim, name, filepath.Base(f), line, consts.ColorReset)
}

// stripAnsiCodes removes ANSI escape codes from a string.
func stripAnsiCodes(input string) string {
	return regex.AnsiEscape().ReplaceAllString(input, "")
}
