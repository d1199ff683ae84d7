// Package logger provides leveled logging on top of the standard log
// package: debug, info, warn and error with level-based filtering.
package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Level represents a logging level.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Logger filters messages below its level.
type Logger struct {
	level  Level
	logger *log.Logger
}

var defaultLogger = &Logger{
	level:  InfoLevel,
	logger: log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds),
}

// Init sets the default logger's level. Unknown names fall back to info.
func Init(level string) {
	defaultLogger.level = parseLevel(level)
}

func parseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func (l *Logger) logf(lv Level, tag, format string, args ...any) {
	if lv < l.level {
		return
	}
	l.logger.Printf("%s %s", tag, fmt.Sprintf(format, args...))
}

// Debugf logs at debug level.
func Debugf(format string, args ...any) { defaultLogger.logf(DebugLevel, "[DEBUG]", format, args...) }

// Infof logs at info level.
func Infof(format string, args ...any) { defaultLogger.logf(InfoLevel, "[INFO]", format, args...) }

// Warnf logs at warn level.
func Warnf(format string, args ...any) { defaultLogger.logf(WarnLevel, "[WARN]", format, args...) }

// Errorf logs at error level.
func Errorf(format string, args ...any) { defaultLogger.logf(ErrorLevel, "[ERROR]", format, args...) }
