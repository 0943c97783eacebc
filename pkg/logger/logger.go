package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger emits structured JSON log lines tagged with the emitting service
// and host. Every entry carries a request_id and a short machine-readable
// action name alongside the human message.
type Logger struct {
	zl zerolog.Logger
}

func NewLogger(service string) *Logger {
	hostname, _ := os.Hostname()
	zl := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", service).
		Str("hostname", hostname).
		Logger()
	return &Logger{zl: zl}
}

func (l *Logger) Info(requestID, action, message string) {
	l.zl.Info().Str("request_id", requestID).Str("action", action).Msg(message)
}

func (l *Logger) Debug(requestID, action, message string) {
	l.zl.Debug().Str("request_id", requestID).Str("action", action).Msg(message)
}

func (l *Logger) Warn(requestID, action, message string) {
	l.zl.Warn().Str("request_id", requestID).Str("action", action).Msg(message)
}

func (l *Logger) Error(requestID, action, message string, err error) {
	l.zl.Error().Str("request_id", requestID).Str("action", action).Err(err).Msg(message)
}
