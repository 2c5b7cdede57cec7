package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

// Level — уровень логирования: DEBUG, INFO, WARN, ERROR
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARN":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

func levelString(l Level) string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ErrObj — объект ошибки для ERROR-записей
type ErrObj struct {
	Msg   string `json:"msg"`
	Stack string `json:"stack,omitempty"`
}

// Entry — единая схема лог-записи для всех сервисов
type Entry struct {
	Timestamp  string         `json:"timestamp"`            // ISO 8601 (UTC)
	Level      string         `json:"level"`                // INFO | DEBUG | WARN | ERROR
	Service    string         `json:"service"`              // journey-service, proximity-service
	Action     string         `json:"action"`               // имя события, например marker_appended
	Message    string         `json:"message"`              // человекочитаемое сообщение
	Hostname   string         `json:"hostname"`             // контейнер/хост
	RequestID  string         `json:"request_id,omitempty"` // correlation id
	JourneyID  string         `json:"journey_id,omitempty"` // когда применимо
	Error      *ErrObj        `json:"error,omitempty"`      // только для ERROR
	Additional map[string]any `json:"additional,omitempty"` // опциональные поля
}

type Logger struct {
	service  string
	minLevel Level
	hostname string
	pretty   bool // если true, используем json.MarshalIndent

	outWriter io.Writer // stdout
	errWriter io.Writer // stderr для WARN/ERROR
	mu        sync.Mutex
}

// NewLogger создает логгер с выводом в stdout/stderr.
// Уровень берется из LOG_LEVEL, формат — из LOG_PRETTY.
func NewLogger(service string) *Logger {
	h, _ := os.Hostname()
	return &Logger{
		service:   service,
		minLevel:  ParseLevel(os.Getenv("LOG_LEVEL")),
		hostname:  h,
		pretty:    strings.ToLower(os.Getenv("LOG_PRETTY")) == "true",
		outWriter: os.Stdout,
		errWriter: os.Stderr,
	}
}

func (l *Logger) Debug(e Entry) { l.log(LevelDebug, e) }
func (l *Logger) Info(e Entry)  { l.log(LevelInfo, e) }
func (l *Logger) Warn(e Entry)  { l.log(LevelWarn, e) }
func (l *Logger) Error(e Entry) { l.log(LevelError, e) }

// Fatal логирует с автоматическим стеком и завершает процесс
func (l *Logger) Fatal(e Entry) {
	if e.Error == nil {
		e.Error = &ErrObj{Msg: e.Message, Stack: string(debug.Stack())}
	} else if e.Error.Stack == "" {
		e.Error.Stack = string(debug.Stack())
	}
	l.log(LevelError, e)
	os.Exit(1)
}

func (l *Logger) log(level Level, e Entry) {
	if level < l.minLevel {
		return
	}

	if e.Timestamp == "" {
		e.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}
	if e.Level == "" {
		e.Level = levelString(level)
	}
	if e.Service == "" {
		e.Service = l.service
	}
	if e.Hostname == "" {
		e.Hostname = l.hostname
	}

	var (
		data []byte
		err  error
	)
	if l.pretty {
		data, err = json.MarshalIndent(e, "", "  ")
	} else {
		data, err = json.Marshal(e)
	}
	if err != nil {
		// не роняем процесс из-за сломанной записи
		fmt.Fprintf(os.Stderr, `{"level":"ERROR","action":"log_marshal_failed","message":%q}`+"\n", err.Error())
		return
	}

	w := l.outWriter
	if level >= LevelWarn {
		w = l.errWriter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = w.Write(append(data, '\n'))
}
