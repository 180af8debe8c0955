// Package logger is the component-tagged logging facade used across predictree.
//
// Calls take a component name and an optional field map:
//
//	logger.InfoCF("walk", "Branch opened", map[string]any{"depth": 1})
package logger

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"os"
	"slices"
	"strings"
	"sync"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
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

// ParseLevel maps a config string to a LogLevel, defaulting to INFO.
func ParseLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

var (
	mu       sync.RWMutex
	current  = INFO
	levelVar = new(slog.LevelVar)
	base     = newLogger(os.Stderr)
)

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelVar}))
}

func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	current = level
	levelVar.Set(level.slogLevel())
}

func GetLevel() LogLevel {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetOutput redirects all log output to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	base = newLogger(w)
}

func logMessage(level LogLevel, component, message string, fields map[string]any) {
	mu.RLock()
	l := base
	mu.RUnlock()

	args := make([]any, 0, 2+len(fields)*2)
	if component != "" {
		args = append(args, "component", component)
	}
	// sorted so identical field maps render identically
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		args = append(args, k, fields[k])
	}
	l.Log(context.Background(), level.slogLevel(), message, args...)
}

func Debug(message string)                                     { logMessage(DEBUG, "", message, nil) }
func DebugC(component, message string)                         { logMessage(DEBUG, component, message, nil) }
func DebugF(message string, fields map[string]any)             { logMessage(DEBUG, "", message, fields) }
func DebugCF(component, message string, fields map[string]any) { logMessage(DEBUG, component, message, fields) }

func Info(message string)                                     { logMessage(INFO, "", message, nil) }
func InfoC(component, message string)                         { logMessage(INFO, component, message, nil) }
func InfoF(message string, fields map[string]any)             { logMessage(INFO, "", message, fields) }
func InfoCF(component, message string, fields map[string]any) { logMessage(INFO, component, message, fields) }

func Warn(message string)                                     { logMessage(WARN, "", message, nil) }
func WarnC(component, message string)                         { logMessage(WARN, component, message, nil) }
func WarnF(message string, fields map[string]any)             { logMessage(WARN, "", message, fields) }
func WarnCF(component, message string, fields map[string]any) { logMessage(WARN, component, message, fields) }

func Error(message string)                                     { logMessage(ERROR, "", message, nil) }
func ErrorC(component, message string)                         { logMessage(ERROR, component, message, nil) }
func ErrorF(message string, fields map[string]any)             { logMessage(ERROR, "", message, fields) }
func ErrorCF(component, message string, fields map[string]any) { logMessage(ERROR, component, message, fields) }

var sensitiveHeaders = map[string]struct{}{
	"authorization":       {},
	"proxy-authorization": {},
	"cookie":              {},
	"x-api-key":           {},
}

// SafeHeaders returns the first value of each header with credentials redacted.
func SafeHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) == 0 {
			continue
		}
		if _, ok := sensitiveHeaders[strings.ToLower(k)]; ok && v[0] != "" {
			out[k] = "<redacted>"
			continue
		}
		out[k] = v[0]
	}
	return out
}
