package logging

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// LogContext accumulates fields shared by every record of a derived
// logger. Finish with Logger; the derived logger stays bound to the parent
// service lifecycle.
type LogContext interface {
	Str(key, val string) LogContext
	Strs(key string, vals []string) LogContext
	Stringer(key string, val fmt.Stringer) LogContext
	Int(key string, val int) LogContext
	Int64(key string, val int64) LogContext
	Uint64(key string, val uint64) LogContext
	Float64(key string, val float64) LogContext
	Bool(key string, val bool) LogContext
	Time(key string, val time.Time) LogContext
	Dur(key string, val time.Duration) LogContext
	Interface(key string, val interface{}) LogContext
	Err(err error) LogContext

	Logger() Logger
}

type logContext struct {
	svc *Service
	ctx zerolog.Context
}

func (c *logContext) Str(key, val string) LogContext {
	c.ctx = c.ctx.Str(key, val)
	return c
}

func (c *logContext) Strs(key string, vals []string) LogContext {
	c.ctx = c.ctx.Strs(key, vals)
	return c
}

func (c *logContext) Stringer(key string, val fmt.Stringer) LogContext {
	c.ctx = c.ctx.Stringer(key, val)
	return c
}

func (c *logContext) Int(key string, val int) LogContext {
	c.ctx = c.ctx.Int(key, val)
	return c
}

func (c *logContext) Int64(key string, val int64) LogContext {
	c.ctx = c.ctx.Int64(key, val)
	return c
}

func (c *logContext) Uint64(key string, val uint64) LogContext {
	c.ctx = c.ctx.Uint64(key, val)
	return c
}

func (c *logContext) Float64(key string, val float64) LogContext {
	c.ctx = c.ctx.Float64(key, val)
	return c
}

func (c *logContext) Bool(key string, val bool) LogContext {
	c.ctx = c.ctx.Bool(key, val)
	return c
}

func (c *logContext) Time(key string, val time.Time) LogContext {
	c.ctx = c.ctx.Time(key, val)
	return c
}

func (c *logContext) Dur(key string, val time.Duration) LogContext {
	c.ctx = c.ctx.Dur(key, val)
	return c
}

func (c *logContext) Interface(key string, val interface{}) LogContext {
	c.ctx = c.ctx.Interface(key, val)
	return c
}

func (c *logContext) Err(err error) LogContext {
	c.ctx = c.ctx.Err(err)
	if err == nil {
		return c
	}
	if chain := buildErrorChain(err); len(chain) > 1 {
		c.ctx = c.ctx.
			Strs(fieldErrorChain, chain).
			Str(fieldErrorRoot, chain[len(chain)-1]).
			Str(fieldErrorHistory, joinChain(chain))
	}
	return c
}

func (c *logContext) Logger() Logger {
	return &contextLogger{svc: c.svc, logger: c.ctx.Logger()}
}

// contextLogger emits through a field-enriched copy of the service logger.
// Lifecycle, gating and shutdown accounting stay with the parent service.
type contextLogger struct {
	svc    *Service
	logger zerolog.Logger
}

func (c *contextLogger) Trace(args ...interface{}) {
	c.svc.logPrint(&c.logger, zerolog.TraceLevel, args)
}

func (c *contextLogger) Tracef(format string, args ...interface{}) {
	c.svc.logPrintf(&c.logger, zerolog.TraceLevel, format, args)
}

func (c *contextLogger) Debug(args ...interface{}) {
	c.svc.logPrint(&c.logger, zerolog.DebugLevel, args)
}

func (c *contextLogger) Debugf(format string, args ...interface{}) {
	c.svc.logPrintf(&c.logger, zerolog.DebugLevel, format, args)
}

func (c *contextLogger) Info(args ...interface{}) {
	c.svc.logPrint(&c.logger, zerolog.InfoLevel, args)
}

func (c *contextLogger) Infof(format string, args ...interface{}) {
	c.svc.logPrintf(&c.logger, zerolog.InfoLevel, format, args)
}

func (c *contextLogger) Warn(args ...interface{}) {
	c.svc.logPrint(&c.logger, zerolog.WarnLevel, args)
}

func (c *contextLogger) Warnf(format string, args ...interface{}) {
	c.svc.logPrintf(&c.logger, zerolog.WarnLevel, format, args)
}

func (c *contextLogger) Error(args ...interface{}) {
	c.svc.logPrint(&c.logger, zerolog.ErrorLevel, args)
}

func (c *contextLogger) Errorf(format string, args ...interface{}) {
	c.svc.logPrintf(&c.logger, zerolog.ErrorLevel, format, args)
}

func (c *contextLogger) Fatal(args ...interface{}) {
	c.svc.logFatal(&c.logger, sprint(args))
}

func (c *contextLogger) Fatalf(format string, args ...interface{}) {
	c.svc.logFatal(&c.logger, fmt.Sprintf(format, args...))
}

func (c *contextLogger) TraceWith() LogEvent {
	return c.svc.buildEvent(&c.logger, zerolog.TraceLevel)
}

func (c *contextLogger) DebugWith() LogEvent {
	return c.svc.buildEvent(&c.logger, zerolog.DebugLevel)
}

func (c *contextLogger) InfoWith() LogEvent {
	return c.svc.buildEvent(&c.logger, zerolog.InfoLevel)
}

func (c *contextLogger) WarnWith() LogEvent {
	return c.svc.buildEvent(&c.logger, zerolog.WarnLevel)
}

func (c *contextLogger) ErrorWith() LogEvent {
	return c.svc.buildEvent(&c.logger, zerolog.ErrorLevel)
}

func (c *contextLogger) FatalWith() LogEvent {
	return c.svc.buildEvent(&c.logger, zerolog.FatalLevel)
}

func (c *contextLogger) PanicWith() LogEvent {
	return c.svc.buildEvent(&c.logger, zerolog.PanicLevel)
}

// With opens a nested context seeded with this logger's fields.
func (c *contextLogger) With() LogContext {
	if c.svc == nil || !c.svc.isInitialized.Load() {
		return &noopLogContext{svc: c.svc}
	}
	return &logContext{svc: c.svc, ctx: c.logger.With()}
}

// noopLogContext is handed out by uninitialized services. It swallows
// fields and yields a logger that never emits.
type noopLogContext struct {
	svc *Service
}

func (c *noopLogContext) Str(string, string) LogContext            { return c }
func (c *noopLogContext) Strs(string, []string) LogContext         { return c }
func (c *noopLogContext) Stringer(string, fmt.Stringer) LogContext { return c }
func (c *noopLogContext) Int(string, int) LogContext               { return c }
func (c *noopLogContext) Int64(string, int64) LogContext           { return c }
func (c *noopLogContext) Uint64(string, uint64) LogContext         { return c }
func (c *noopLogContext) Float64(string, float64) LogContext       { return c }
func (c *noopLogContext) Bool(string, bool) LogContext             { return c }
func (c *noopLogContext) Time(string, time.Time) LogContext        { return c }
func (c *noopLogContext) Dur(string, time.Duration) LogContext     { return c }
func (c *noopLogContext) Interface(string, interface{}) LogContext { return c }
func (c *noopLogContext) Err(error) LogContext                     { return c }

func (c *noopLogContext) Logger() Logger {
	return &noopLogger{svc: c.svc}
}

// noopLogger backs an inert context. It stays silent even if the parent
// service is initialized later; Fatal and Fatalf keep their terminating
// contract.
type noopLogger struct {
	svc *Service
}

func (l *noopLogger) Trace(...interface{})          {}
func (l *noopLogger) Tracef(string, ...interface{}) {}
func (l *noopLogger) Debug(...interface{})          {}
func (l *noopLogger) Debugf(string, ...interface{}) {}
func (l *noopLogger) Info(...interface{})           {}
func (l *noopLogger) Infof(string, ...interface{})  {}
func (l *noopLogger) Warn(...interface{})           {}
func (l *noopLogger) Warnf(string, ...interface{})  {}
func (l *noopLogger) Error(...interface{})          {}
func (l *noopLogger) Errorf(string, ...interface{}) {}

func (l *noopLogger) Fatal(args ...interface{}) {
	l.svc.logFatal(nil, sprint(args))
}

func (l *noopLogger) Fatalf(format string, args ...interface{}) {
	l.svc.logFatal(nil, fmt.Sprintf(format, args...))
}

func (l *noopLogger) TraceWith() LogEvent { return noopLogEvent{} }
func (l *noopLogger) DebugWith() LogEvent { return noopLogEvent{} }
func (l *noopLogger) InfoWith() LogEvent  { return noopLogEvent{} }
func (l *noopLogger) WarnWith() LogEvent  { return noopLogEvent{} }
func (l *noopLogger) ErrorWith() LogEvent { return noopLogEvent{} }
func (l *noopLogger) FatalWith() LogEvent { return noopLogEvent{} }
func (l *noopLogger) PanicWith() LogEvent { return noopLogEvent{} }

func (l *noopLogger) With() LogContext { return &noopLogContext{svc: l.svc} }

var (
	_ LogContext = (*logContext)(nil)
	_ LogContext = (*noopLogContext)(nil)
	_ Logger     = (*noopLogger)(nil)
)
