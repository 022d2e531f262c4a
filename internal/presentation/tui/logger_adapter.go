package tui

import (
	"fmt"
	"strings"

	"pdfcompressor/internal/domain/repositories"
)

// LogSink приемник строк журнала в интерфейсе
type LogSink interface {
	AddLog(level, message string)
}

// UILogger дублирует сообщения в файловый логгер и в панель логов TUI.
// Отладочные сообщения попадают в панель только при уровне debug.
type UILogger struct {
	fileLogger repositories.Logger
	sink       LogSink
	showDebug  bool
}

// NewUILogger создает новый UI логгер
func NewUILogger(fileLogger repositories.Logger, sink LogSink, logLevel string) *UILogger {
	if fileLogger == nil {
		fileLogger = repositories.NopLogger{}
	}
	return &UILogger{
		fileLogger: fileLogger,
		sink:       sink,
		showDebug:  strings.EqualFold(strings.TrimSpace(logLevel), "debug"),
	}
}

func (l *UILogger) toUI(level, format string, args []interface{}) {
	if l.sink == nil {
		return
	}
	if level == "debug" && !l.showDebug {
		return
	}
	l.sink.AddLog(level, fmt.Sprintf(format, args...))
}

func (l *UILogger) Debug(format string, args ...interface{}) {
	l.fileLogger.Debug(format, args...)
	l.toUI("debug", format, args)
}

func (l *UILogger) Info(format string, args ...interface{}) {
	l.fileLogger.Info(format, args...)
	l.toUI("info", format, args)
}

func (l *UILogger) Warning(format string, args ...interface{}) {
	l.fileLogger.Warning(format, args...)
	l.toUI("warning", format, args)
}

func (l *UILogger) Error(format string, args ...interface{}) {
	l.fileLogger.Error(format, args...)
	l.toUI("error", format, args)
}

func (l *UILogger) Success(format string, args ...interface{}) {
	l.fileLogger.Success(format, args...)
	l.toUI("success", format, args)
}

// Close закрывает файловый логгер
func (l *UILogger) Close() error {
	return l.fileLogger.Close()
}
