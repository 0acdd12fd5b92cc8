package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	LevelDebug = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = map[int]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelFatal: "FATAL",
}

// Logger is a leveled wrapper around the standard logger.
type Logger struct {
	*log.Logger
	mu    sync.Mutex
	level int
}

var globalLogger = New(os.Stdout, LevelInfo)

// New creates a logger writing entries at or above level to w.
func New(w io.Writer, level int) *Logger {
	return &Logger{
		Logger: log.New(w, "", 0),
		level:  level,
	}
}

// InitGlobal replaces the process-wide logger.
func InitGlobal(w io.Writer, level int) {
	globalLogger = New(w, level)
}

// GetGlobal returns the process-wide logger.
func GetGlobal() *Logger {
	return globalLogger
}

// ParseLevel maps a config string to a level, defaulting to info.
func ParseLevel(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

func (l *Logger) SetLevel(level int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) Enabled(level int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level >= l.level
}

func (l *Logger) logf(level int, format string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}

	msg := fmt.Sprintf(format, args...)
	l.Printf("%s [%s] %s", time.Now().Format("2006-01-02 15:04:05"), levelNames[level], msg)
}

func (l *Logger) Debug(format string, args ...interface{}) { l.logf(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.logf(LevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.logf(LevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.logf(LevelError, format, args...) }

func (l *Logger) Fatal(format string, args ...interface{}) {
	l.logf(LevelFatal, format, args...)
	os.Exit(1)
}

func Debug(format string, args ...interface{}) { globalLogger.Debug(format, args...) }
func Info(format string, args ...interface{})  { globalLogger.Info(format, args...) }
func Warn(format string, args ...interface{})  { globalLogger.Warn(format, args...) }
func Error(format string, args ...interface{}) { globalLogger.Error(format, args...) }
func Fatal(format string, args ...interface{}) { globalLogger.Fatal(format, args...) }
