package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dreschagin/ops-dashboard-simulator/internal/application/port"
)

type Logger struct {
	logger *slog.Logger
	level  Level
	sink   *sink
}

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// sink общий для логгера и всех производных от него через With
type sink struct {
	mu        sync.RWMutex
	publisher port.LogPublisher
}

func New(level string) *Logger {
	return NewWithOptions(level, "text", os.Stdout)
}

// NewWithOptions создает логгер с форматом "text" или "json"
func NewWithOptions(level, format string, w io.Writer) *Logger {
	lvl := parseLevel(level)
	opts := &slog.HandlerOptions{Level: lvl.slogLevel()}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{
		logger: slog.New(handler),
		level:  lvl,
		sink:   &sink{},
	}
}

func parseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

func (lv Level) slogLevel() slog.Level {
	switch lv {
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

func (lv Level) portLevel() port.LogLevel {
	switch lv {
	case DEBUG:
		return port.LogLevelDebug
	case WARN:
		return port.LogLevelWarn
	case ERROR:
		return port.LogLevelError
	default:
		return port.LogLevelInfo
	}
}

// SetLogPublisher дублирует записи во внешний publisher (например CloudWatch Logs).
// nil отключает дублирование.
func (l *Logger) SetLogPublisher(publisher port.LogPublisher) {
	l.sink.mu.Lock()
	l.sink.publisher = publisher
	l.sink.mu.Unlock()
}

// With возвращает логгер с постоянными атрибутами
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		logger: l.logger.With(args...),
		level:  l.level,
		sink:   l.sink,
	}
}

// Slog возвращает нижележащий *slog.Logger для библиотек, которые его принимают
func (l *Logger) Slog() *slog.Logger {
	return l.logger
}

func (l *Logger) Debug(msg string, args ...any) {
	if l.level <= DEBUG {
		l.log(DEBUG, msg, args...)
	}
}

func (l *Logger) Info(msg string, args ...any) {
	if l.level <= INFO {
		l.log(INFO, msg, args...)
	}
}

func (l *Logger) Warn(msg string, args ...any) {
	if l.level <= WARN {
		l.log(WARN, msg, args...)
	}
}

func (l *Logger) Error(msg string, err error, args ...any) {
	if l.level <= ERROR {
		if err != nil {
			args = append(args, "error", err.Error())
		}
		l.log(ERROR, msg, args...)
	}
}

func (l *Logger) log(level Level, msg string, args ...any) {
	l.logger.Log(context.Background(), level.slogLevel(), msg, args...)

	l.sink.mu.RLock()
	publisher := l.sink.publisher
	l.sink.mu.RUnlock()
	if publisher == nil {
		return
	}

	entry := port.LogEntry{
		Timestamp: time.Now().UTC(),
		Level:     level.portLevel(),
		Message:   msg,
		Fields:    fields(args),
	}
	// ошибки publisher не логируются, иначе возможна рекурсия
	_ = publisher.Publish(context.Background(), entry)
}

func fields(args []any) map[string]any {
	if len(args) < 2 {
		return nil
	}
	out := make(map[string]any, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		out[key] = args[i+1]
	}
	return out
}
