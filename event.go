package logging

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// LogEvent is a single log record under construction. Populate it with the
// typed field methods and emit it with exactly one of Msg, Msgf or Send.
// Events must not be reused or emitted twice.
type LogEvent interface {
	Str(key, val string) LogEvent
	Strs(key string, vals []string) LogEvent
	Stringer(key string, val fmt.Stringer) LogEvent
	Int(key string, val int) LogEvent
	Int32(key string, val int32) LogEvent
	Int64(key string, val int64) LogEvent
	Uint(key string, val uint) LogEvent
	Uint32(key string, val uint32) LogEvent
	Uint64(key string, val uint64) LogEvent
	Float32(key string, val float32) LogEvent
	Float64(key string, val float64) LogEvent
	Bool(key string, val bool) LogEvent
	Time(key string, val time.Time) LogEvent
	Dur(key string, val time.Duration) LogEvent
	Bytes(key string, val []byte) LogEvent
	Hex(key string, val []byte) LogEvent
	Err(err error) LogEvent
	AnErr(key string, err error) LogEvent
	Interface(key string, val interface{}) LogEvent
	Dict(key string, dict *zerolog.Event) LogEvent
	Stack() LogEvent
	CallerSkipFrame(count int) LogEvent

	Msg(msg string)
	Msgf(format string, args ...interface{})
	Send()
}

// Dict returns a sub-record for LogEvent.Dict.
func Dict() *zerolog.Event {
	return zerolog.Dict()
}

// logEvent wraps a zerolog event with service lifetime accounting. Every
// built event holds one slot in the shutdown drain until it is emitted.
type logEvent struct {
	event *zerolog.Event
	svc   *Service
	done  bool
}

func (e *logEvent) Str(key, val string) LogEvent {
	e.event = e.event.Str(key, val)
	return e
}

func (e *logEvent) Strs(key string, vals []string) LogEvent {
	e.event = e.event.Strs(key, vals)
	return e
}

func (e *logEvent) Stringer(key string, val fmt.Stringer) LogEvent {
	e.event = e.event.Stringer(key, val)
	return e
}

func (e *logEvent) Int(key string, val int) LogEvent {
	e.event = e.event.Int(key, val)
	return e
}

func (e *logEvent) Int32(key string, val int32) LogEvent {
	e.event = e.event.Int32(key, val)
	return e
}

func (e *logEvent) Int64(key string, val int64) LogEvent {
	e.event = e.event.Int64(key, val)
	return e
}

func (e *logEvent) Uint(key string, val uint) LogEvent {
	e.event = e.event.Uint(key, val)
	return e
}

func (e *logEvent) Uint32(key string, val uint32) LogEvent {
	e.event = e.event.Uint32(key, val)
	return e
}

func (e *logEvent) Uint64(key string, val uint64) LogEvent {
	e.event = e.event.Uint64(key, val)
	return e
}

func (e *logEvent) Float32(key string, val float32) LogEvent {
	e.event = e.event.Float32(key, val)
	return e
}

func (e *logEvent) Float64(key string, val float64) LogEvent {
	e.event = e.event.Float64(key, val)
	return e
}

func (e *logEvent) Bool(key string, val bool) LogEvent {
	e.event = e.event.Bool(key, val)
	return e
}

func (e *logEvent) Time(key string, val time.Time) LogEvent {
	e.event = e.event.Time(key, val)
	return e
}

func (e *logEvent) Dur(key string, val time.Duration) LogEvent {
	e.event = e.event.Dur(key, val)
	return e
}

func (e *logEvent) Bytes(key string, val []byte) LogEvent {
	e.event = e.event.Bytes(key, val)
	return e
}

func (e *logEvent) Hex(key string, val []byte) LogEvent {
	e.event = e.event.Hex(key, val)
	return e
}

// Err records err under the standard error key. Wrapped errors additionally
// report their full unwrap history.
func (e *logEvent) Err(err error) LogEvent {
	e.event = e.event.Err(err)
	if err == nil {
		return e
	}
	if chain := buildErrorChain(err); len(chain) > 1 {
		e.event = e.event.
			Strs(fieldErrorChain, chain).
			Str(fieldErrorRoot, chain[len(chain)-1]).
			Str(fieldErrorHistory, joinChain(chain))
	}
	return e
}

// AnErr records err under key, with the unwrap history keyed alongside it.
func (e *logEvent) AnErr(key string, err error) LogEvent {
	e.event = e.event.AnErr(key, err)
	if err == nil {
		return e
	}
	if chain := buildErrorChain(err); len(chain) > 1 {
		e.event = e.event.
			Strs(key+"_chain", chain).
			Str(key+"_root", chain[len(chain)-1])
	}
	return e
}

func (e *logEvent) Interface(key string, val interface{}) LogEvent {
	e.event = e.event.Interface(key, val)
	return e
}

func (e *logEvent) Dict(key string, dict *zerolog.Event) LogEvent {
	e.event = e.event.Dict(key, dict)
	return e
}

func (e *logEvent) Stack() LogEvent {
	e.event = e.event.Stack()
	return e
}

func (e *logEvent) CallerSkipFrame(count int) LogEvent {
	e.event = e.event.CallerSkipFrame(count)
	return e
}

func (e *logEvent) Msg(msg string) {
	defer e.release()
	e.event.Msg(msg)
}

func (e *logEvent) Msgf(format string, args ...interface{}) {
	defer e.release()
	e.event.Msgf(format, args...)
}

func (e *logEvent) Send() {
	defer e.release()
	e.event.Send()
}

// release gives the drain slot back. Emitting methods call it exactly once;
// the guard keeps a misused double emit from corrupting the wait group.
func (e *logEvent) release() {
	if e.done || e.svc == nil {
		return
	}
	e.done = true
	e.svc.activeOps.Dec()
	e.svc.wg.Done()
}

// noopLogEvent is the event for disabled levels and uninitialized services.
// Field methods keep chaining and the emitting methods do nothing.
type noopLogEvent struct{}

func (noopLogEvent) Str(string, string) LogEvent              { return noopLogEvent{} }
func (noopLogEvent) Strs(string, []string) LogEvent           { return noopLogEvent{} }
func (noopLogEvent) Stringer(string, fmt.Stringer) LogEvent   { return noopLogEvent{} }
func (noopLogEvent) Int(string, int) LogEvent                 { return noopLogEvent{} }
func (noopLogEvent) Int32(string, int32) LogEvent             { return noopLogEvent{} }
func (noopLogEvent) Int64(string, int64) LogEvent             { return noopLogEvent{} }
func (noopLogEvent) Uint(string, uint) LogEvent               { return noopLogEvent{} }
func (noopLogEvent) Uint32(string, uint32) LogEvent           { return noopLogEvent{} }
func (noopLogEvent) Uint64(string, uint64) LogEvent           { return noopLogEvent{} }
func (noopLogEvent) Float32(string, float32) LogEvent         { return noopLogEvent{} }
func (noopLogEvent) Float64(string, float64) LogEvent         { return noopLogEvent{} }
func (noopLogEvent) Bool(string, bool) LogEvent               { return noopLogEvent{} }
func (noopLogEvent) Time(string, time.Time) LogEvent          { return noopLogEvent{} }
func (noopLogEvent) Dur(string, time.Duration) LogEvent       { return noopLogEvent{} }
func (noopLogEvent) Bytes(string, []byte) LogEvent            { return noopLogEvent{} }
func (noopLogEvent) Hex(string, []byte) LogEvent              { return noopLogEvent{} }
func (noopLogEvent) Err(error) LogEvent                       { return noopLogEvent{} }
func (noopLogEvent) AnErr(string, error) LogEvent             { return noopLogEvent{} }
func (noopLogEvent) Interface(string, interface{}) LogEvent   { return noopLogEvent{} }
func (noopLogEvent) Dict(string, *zerolog.Event) LogEvent     { return noopLogEvent{} }
func (noopLogEvent) Stack() LogEvent                          { return noopLogEvent{} }
func (noopLogEvent) CallerSkipFrame(int) LogEvent             { return noopLogEvent{} }
func (noopLogEvent) Msg(string)                               {}
func (noopLogEvent) Msgf(string, ...interface{})              {}
func (noopLogEvent) Send()                                    {}

// isNoopEvent reports whether e came back from a gated build.
func isNoopEvent(e LogEvent) bool {
	_, ok := e.(noopLogEvent)
	return ok
}

var (
	_ LogEvent = (*logEvent)(nil)
	_ LogEvent = noopLogEvent{}
)
