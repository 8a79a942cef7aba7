package logger

import (
	"fmt"
	"io"
	"sync/atomic"

	gommonlog "github.com/labstack/gommon/log"
)

// EchoLoggerAdapter routes Echo's framework logging into a Logger.
//
//	e := echo.New()
//	e.Logger = logger.NewEchoLoggerAdapter(appLogger.Module("echo"))
type EchoLoggerAdapter struct {
	logger Logger
	level  atomic.Uint32
}

// NewEchoLoggerAdapter creates an adapter. Entries below INFO are dropped
// until SetLevel lowers the threshold.
func NewEchoLoggerAdapter(logger Logger) *EchoLoggerAdapter {
	if logger == nil {
		logger = NewSlogLogger(nil, LogLevelInfo, nil)
	}
	a := &EchoLoggerAdapter{logger: logger}
	a.level.Store(uint32(gommonlog.INFO))
	return a
}

func (a *EchoLoggerAdapter) enabled(lvl gommonlog.Lvl) bool {
	return uint32(lvl) >= a.level.Load()
}

func (a *EchoLoggerAdapter) emit(lvl gommonlog.Lvl, msg string, fields ...Field) {
	if !a.enabled(lvl) {
		return
	}
	switch lvl {
	case gommonlog.DEBUG:
		a.logger.Debug(msg, fields...)
	case gommonlog.WARN:
		a.logger.Warn(msg, fields...)
	case gommonlog.ERROR:
		a.logger.Error(msg, fields...)
	default:
		a.logger.Info(msg, fields...)
	}
}

// Output returns io.Discard; output is owned by the wrapped logger.
func (a *EchoLoggerAdapter) Output() io.Writer { return io.Discard }

// SetOutput is a no-op.
func (a *EchoLoggerAdapter) SetOutput(io.Writer) {}

// Prefix returns an empty prefix; module scoping identifies the source.
func (a *EchoLoggerAdapter) Prefix() string { return "" }

// SetPrefix is a no-op.
func (a *EchoLoggerAdapter) SetPrefix(string) {}

// Level returns the current threshold.
func (a *EchoLoggerAdapter) Level() gommonlog.Lvl { return gommonlog.Lvl(a.level.Load()) }

// SetLevel changes the threshold.
func (a *EchoLoggerAdapter) SetLevel(lvl gommonlog.Lvl) { a.level.Store(uint32(lvl)) }

// SetHeader is a no-op.
func (a *EchoLoggerAdapter) SetHeader(string) {}

func (a *EchoLoggerAdapter) Print(i ...any) { a.emit(gommonlog.INFO, fmt.Sprint(i...)) }
func (a *EchoLoggerAdapter) Printf(f string, args ...any) {
	a.emit(gommonlog.INFO, fmt.Sprintf(f, args...))
}
func (a *EchoLoggerAdapter) Printj(j gommonlog.JSON) { a.emit(gommonlog.INFO, "echo", Any("data", j)) }
func (a *EchoLoggerAdapter) Debug(i ...any)          { a.emit(gommonlog.DEBUG, fmt.Sprint(i...)) }
func (a *EchoLoggerAdapter) Debugf(f string, args ...any) {
	a.emit(gommonlog.DEBUG, fmt.Sprintf(f, args...))
}
func (a *EchoLoggerAdapter) Debugj(j gommonlog.JSON) { a.emit(gommonlog.DEBUG, "echo", Any("data", j)) }
func (a *EchoLoggerAdapter) Info(i ...any)           { a.emit(gommonlog.INFO, fmt.Sprint(i...)) }
func (a *EchoLoggerAdapter) Infof(f string, args ...any) {
	a.emit(gommonlog.INFO, fmt.Sprintf(f, args...))
}
func (a *EchoLoggerAdapter) Infoj(j gommonlog.JSON) { a.emit(gommonlog.INFO, "echo", Any("data", j)) }
func (a *EchoLoggerAdapter) Warn(i ...any)          { a.emit(gommonlog.WARN, fmt.Sprint(i...)) }
func (a *EchoLoggerAdapter) Warnf(f string, args ...any) {
	a.emit(gommonlog.WARN, fmt.Sprintf(f, args...))
}
func (a *EchoLoggerAdapter) Warnj(j gommonlog.JSON) { a.emit(gommonlog.WARN, "echo", Any("data", j)) }
func (a *EchoLoggerAdapter) Error(i ...any)         { a.emit(gommonlog.ERROR, fmt.Sprint(i...)) }
func (a *EchoLoggerAdapter) Errorf(f string, args ...any) {
	a.emit(gommonlog.ERROR, fmt.Sprintf(f, args...))
}
func (a *EchoLoggerAdapter) Errorj(j gommonlog.JSON) { a.emit(gommonlog.ERROR, "echo", Any("data", j)) }

// Fatal logs and panics instead of exiting the process.
func (a *EchoLoggerAdapter) Fatal(i ...any) { a.fail(fmt.Sprint(i...)) }

func (a *EchoLoggerAdapter) Fatalf(f string, args ...any) { a.fail(fmt.Sprintf(f, args...)) }
func (a *EchoLoggerAdapter) Fatalj(j gommonlog.JSON)      { a.fail(fmt.Sprintf("%v", j)) }
func (a *EchoLoggerAdapter) Panic(i ...any)               { a.fail(fmt.Sprint(i...)) }
func (a *EchoLoggerAdapter) Panicf(f string, args ...any) { a.fail(fmt.Sprintf(f, args...)) }
func (a *EchoLoggerAdapter) Panicj(j gommonlog.JSON)      { a.fail(fmt.Sprintf("%v", j)) }

func (a *EchoLoggerAdapter) fail(msg string) {
	a.logger.Error(msg)
	panic(msg)
}
