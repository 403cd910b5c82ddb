package logging

import (
	"log"
	"os"
)

// Level controls logging verbosity.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// Logger provides leveled logging over the standard log package.
type Logger struct {
	level Level
}

// New creates a logger with the given level.
func New(level Level) *Logger {
	return &Logger{level: level}
}

// NewFromEnv creates a logger whose level is taken from LOG_LEVEL.
func NewFromEnv() *Logger {
	level := LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "ERROR":
		level = LevelError
	case "WARN":
		level = LevelWarn
	case "INFO":
		level = LevelInfo
	case "DEBUG":
		level = LevelDebug
	}
	return &Logger{level: level}
}

func (l *Logger) Error(format string, args ...any) {
	if l != nil && l.level >= LevelError {
		log.Printf("[ERROR] "+format, args...)
	}
}

func (l *Logger) Warn(format string, args ...any) {
	if l != nil && l.level >= LevelWarn {
		log.Printf("[WARN] "+format, args...)
	}
}

func (l *Logger) Info(format string, args ...any) {
	if l != nil && l.level >= LevelInfo {
		log.Printf("[INFO] "+format, args...)
	}
}

func (l *Logger) Debug(format string, args ...any) {
	if l != nil && l.level >= LevelDebug {
		log.Printf("[DEBUG] "+format, args...)
	}
}
