package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

type LogLevel uint8

const (
	ERROR LogLevel = iota
	WARN
	INFO
	DEBUG
	TRACE
)

var logLevelNames = [...]string{"ERROR", "WARN", "INFO", "DEBUG", "TRACE"}

func (l LogLevel) String() string {
	if int(l) >= len(logLevelNames) {
		return fmt.Sprintf("LogLevel(%d)", l)
	}
	return logLevelNames[l]
}

// ParseLogLevel accepts a level name in any case
func ParseLogLevel(s string) (LogLevel, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		name = "WARN"
	}
	for i, n := range logLevelNames {
		if n == name {
			return LogLevel(i), nil
		}
	}
	return ERROR, fmt.Errorf("unknown log level %q, expected one of %s",
		s, strings.Join(logLevelNames[:], ", "))
}

// Logger prefixes each line with its level and drops lines above Level
type Logger struct {
	Level LogLevel
	l     *log.Logger
}

func NewLogger(w io.Writer, level LogLevel) *Logger {
	return &Logger{Level: level, l: log.New(w, "", log.LstdFlags)}
}

// NewStderrLogger logs to stderr, like the log package default
func NewStderrLogger(level LogLevel) *Logger {
	return NewLogger(os.Stderr, level)
}

func NewDiscardLogger() *Logger {
	return NewLogger(io.Discard, ERROR)
}

func (lg *Logger) Enabled(level LogLevel) bool {
	return level <= lg.Level
}

func (lg *Logger) logf(level LogLevel, format string, args ...any) {
	if !lg.Enabled(level) {
		return
	}
	lg.l.Printf("%-5s "+format, append([]any{level}, args...)...)
}

func (lg *Logger) Errorf(format string, args ...any) { lg.logf(ERROR, format, args...) }
func (lg *Logger) Warnf(format string, args ...any)  { lg.logf(WARN, format, args...) }
func (lg *Logger) Infof(format string, args ...any)  { lg.logf(INFO, format, args...) }
func (lg *Logger) Debugf(format string, args ...any) { lg.logf(DEBUG, format, args...) }
func (lg *Logger) Tracef(format string, args ...any) { lg.logf(TRACE, format, args...) }
