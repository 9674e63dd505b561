package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/WatchBeam/clock"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"go.uber.org/atomic"
	"gopkg.in/natefinch/lumberjack.v2"
)

// osExit is swappable so Fatal paths can be exercised in tests.
var osExit = os.Exit

// printSkipFrames is the number of wrapper frames the fmt-style methods
// put between the caller and the underlying event emit.
const printSkipFrames = 2

// Service is the logging service. Construct it with NewService (or a
// struct literal), call Initialize once at startup, and Close on the way
// out. Every emission on a nil or uninitialized Service is a safe no-op.
type Service struct {
	WorkingDir string
	Config     *Config

	clock      clock.Clock
	consoleOut io.Writer
	consoleErr io.Writer

	logger        atomic.Pointer[zerolog.Logger]
	fileWriter    *lumberjack.Logger
	isInitialized atomic.Bool

	mu        sync.RWMutex
	wg        sync.WaitGroup
	activeOps atomic.Int32
}

// NewService returns an idle service for the given configuration.
// workingDir anchors the relative log file directory and may be empty
// when file logging is off.
func NewService(cfg *Config, workingDir string) *Service {
	return &Service{
		WorkingDir: workingDir,
		Config:     cfg,
		clock:      clock.C,
		consoleOut: os.Stdout,
		consoleErr: os.Stderr,
	}
}

// Enable builds and starts a console-only service at the severity mapped
// from a kernel style verbosity count (see LevelForVerbosity). It never
// fails: if initialization is refused the fallback is default info-level
// console logging, and in the worst case the returned handle is a safe
// no-op.
func Enable(verbosity uint8) *Service {
	cfg := DefaultConfig()
	cfg.Level = LevelForVerbosity(verbosity)
	svc := NewService(cfg, emptyString)
	if err := svc.Initialize(); err == nil {
		return svc
	}
	svc = NewService(DefaultConfig(), emptyString)
	_ = svc.Initialize()
	return svc
}

// Initialize validates the configuration and starts the service. Calling
// it on an initialized service returns nil without touching the live
// logger. A failed attempt leaves the service inert and may be retried
// after the configuration is fixed.
func (s *Service) Initialize() error {
	if s == nil {
		return errors.New(errMsgNilService)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isInitialized.Load() {
		return nil
	}
	if err := validateConfig(s.Config); err != nil {
		return err
	}
	level, err := resolveLevel(s.Config)
	if err != nil {
		return err
	}
	// The package global level must not gate below the service level, or
	// trace records would be dropped before the per-logger check runs.
	if level < zerolog.GlobalLevel() {
		zerolog.SetGlobalLevel(level)
	}
	if s.clock == nil {
		s.clock = clock.C
	}
	if s.consoleOut == nil {
		s.consoleOut = os.Stdout
	}
	if s.consoleErr == nil {
		s.consoleErr = os.Stderr
	}
	writers, fileWriter, err := s.buildWriters()
	if err != nil {
		return err
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level)
	if s.Config.WithCaller {
		logger = logger.With().
			CallerWithSkipFrameCount(zerolog.CallerSkipFrameCount + 1 + s.Config.SkipFrameCount).
			Logger()
	}
	if s.Config.WithTimestamp {
		logger = logger.Hook(timestampHook{clock: s.clock})
	}
	if s.Config.ErrorStacks {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	}

	s.fileWriter = fileWriter
	s.logger.Store(&logger)
	s.isInitialized.Store(true)
	return nil
}

// buildWriters assembles the enabled sinks. Caller holds s.mu.
func (s *Service) buildWriters() ([]io.Writer, *lumberjack.Logger, error) {
	var writers []io.Writer
	if s.Config.ConsoleLogging {
		if s.Config.SplitStreams {
			writers = append(writers, splitWriter{
				out: newConsoleWriter(s.consoleOut, s.Config),
				err: newConsoleWriter(s.consoleErr, s.Config),
			})
		} else {
			writers = append(writers, newConsoleWriter(s.consoleErr, s.Config))
		}
	}
	var fileWriter *lumberjack.Logger
	if s.Config.FileLogging {
		if s.WorkingDir == emptyString {
			return nil, nil, errors.New(errMsgNoWorkingDir)
		}
		fw, err := newRollingFile(s.WorkingDir, s.Config)
		if err != nil {
			return nil, nil, err
		}
		fileWriter = fw
		writers = append(writers, fileWriter)
	}
	if len(writers) == 0 {
		return nil, nil, errors.New(errMsgNoWriters)
	}
	return writers, fileWriter, nil
}

// timestampHook stamps records from the service clock at emit time, which
// keeps output reproducible under a mock clock.
type timestampHook struct {
	clock clock.Clock
}

func (h timestampHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Time(zerolog.TimestampFieldName, h.clock.Now())
}

// Close stops the service. New events are refused immediately; events
// already handed out get up to ShutdownTimeoutMS to finish before the
// file sink closes. Close is idempotent and nil-safe.
func (s *Service) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isInitialized.Load() {
		return nil
	}
	s.isInitialized.Store(false)

	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()
	timeout := time.Duration(s.Config.ShutdownTimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = defaultShutdownTimeoutMS * time.Millisecond
	}
	select {
	case <-drained:
	case <-s.clock.After(timeout):
		if s.Config.ShutdownTimeoutWarning {
			if l := s.logger.Load(); l != nil {
				l.Warn().
					Int32("active_operations", s.activeOps.Load()).
					Msg("Logger shutdown timeout exceeded")
			}
		}
	}

	var err error
	if s.fileWriter != nil {
		err = errors.Wrap(s.fileWriter.Close(), "logging: close log file")
		s.fileWriter = nil
	}
	s.logger.Store(nil)
	return err
}

// ActiveOperations reports how many handed-out events have not been
// emitted yet.
func (s *Service) ActiveOperations() int32 {
	if s == nil {
		return 0
	}
	return s.activeOps.Load()
}

// Hook installs zerolog hooks on the live logger. Installation retries
// when a concurrent install swaps the logger first.
func (s *Service) Hook(hooks ...zerolog.Hook) {
	if s == nil || len(hooks) == 0 || !s.isInitialized.Load() {
		return
	}
	for {
		current := s.logger.Load()
		if current == nil {
			return
		}
		hooked := *current
		for _, h := range hooks {
			hooked = hooked.Hook(h)
		}
		if s.logger.CompareAndSwap(current, &hooked) {
			return
		}
	}
}

// levelEnabled reports whether a record at the given severity would be
// written right now. Lock-free, safe on nil services.
func (s *Service) levelEnabled(level zerolog.Level) bool {
	if s == nil || !s.isInitialized.Load() {
		return false
	}
	l := s.logger.Load()
	return l != nil && level >= l.GetLevel()
}

// buildEvent is the single construction path for live events. It returns
// a no-op event when the service is down or the severity is filtered;
// otherwise the returned event holds a drain slot until emitted.
func (s *Service) buildEvent(src *zerolog.Logger, level zerolog.Level) LogEvent {
	if s == nil || !s.isInitialized.Load() {
		return noopLogEvent{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isInitialized.Load() {
		return noopLogEvent{}
	}
	logger := src
	if logger == nil {
		logger = s.logger.Load()
	}
	if logger == nil || level < logger.GetLevel() {
		return noopLogEvent{}
	}

	s.wg.Add(1)
	s.activeOps.Inc()

	var ev *zerolog.Event
	switch level {
	case zerolog.TraceLevel:
		ev = logger.Trace()
	case zerolog.DebugLevel:
		ev = logger.Debug()
	case zerolog.InfoLevel:
		ev = logger.Info()
	case zerolog.WarnLevel:
		ev = logger.Warn()
	case zerolog.ErrorLevel:
		ev = logger.Error()
	case zerolog.FatalLevel:
		ev = logger.Fatal()
	case zerolog.PanicLevel:
		ev = logger.Panic()
	default:
		ev = logger.WithLevel(level)
	}
	return &logEvent{event: ev, svc: s}
}

var sprintPool = sync.Pool{
	New: func() interface{} {
		return new(strings.Builder)
	},
}

// sprint renders args the fmt.Sprint way through a pooled builder.
func sprint(args []interface{}) string {
	if len(args) == 0 {
		return emptyString
	}
	b := sprintPool.Get().(*strings.Builder)
	b.Reset()
	fmt.Fprint(b, args...)
	out := b.String()
	sprintPool.Put(b)
	return out
}

func (s *Service) logPrint(src *zerolog.Logger, level zerolog.Level, args []interface{}) {
	ev := s.buildEvent(src, level)
	if isNoopEvent(ev) {
		return
	}
	ev.CallerSkipFrame(printSkipFrames).Msg(sprint(args))
}

func (s *Service) logPrintf(src *zerolog.Logger, level zerolog.Level, format string, args []interface{}) {
	ev := s.buildEvent(src, level)
	if isNoopEvent(ev) {
		return
	}
	ev.CallerSkipFrame(printSkipFrames).Msgf(format, args...)
}

// logFatal emits at fatal severity and terminates the process. When the
// service cannot write the record, the message still reaches the error
// stream before exit.
func (s *Service) logFatal(src *zerolog.Logger, msg string) {
	ev := s.buildEvent(src, zerolog.FatalLevel)
	if isNoopEvent(ev) {
		fmt.Fprintf(s.fallbackWriter(), "FATAL: %s\n", msg)
		osExit(1)
		return
	}
	ev.CallerSkipFrame(printSkipFrames).Msg(msg)
	osExit(1)
}

func (s *Service) fallbackWriter() io.Writer {
	if s == nil || s.consoleErr == nil {
		return os.Stderr
	}
	return s.consoleErr
}

// Trace logs args at trace severity, fmt.Sprint style.
func (s *Service) Trace(args ...interface{}) {
	s.logPrint(nil, zerolog.TraceLevel, args)
}

// Tracef logs a formatted message at trace severity.
func (s *Service) Tracef(format string, args ...interface{}) {
	s.logPrintf(nil, zerolog.TraceLevel, format, args)
}

// Debug logs args at debug severity, fmt.Sprint style.
func (s *Service) Debug(args ...interface{}) {
	s.logPrint(nil, zerolog.DebugLevel, args)
}

// Debugf logs a formatted message at debug severity.
func (s *Service) Debugf(format string, args ...interface{}) {
	s.logPrintf(nil, zerolog.DebugLevel, format, args)
}

// Info logs args at info severity, fmt.Sprint style.
func (s *Service) Info(args ...interface{}) {
	s.logPrint(nil, zerolog.InfoLevel, args)
}

// Infof logs a formatted message at info severity.
func (s *Service) Infof(format string, args ...interface{}) {
	s.logPrintf(nil, zerolog.InfoLevel, format, args)
}

// Warn logs args at warn severity, fmt.Sprint style.
func (s *Service) Warn(args ...interface{}) {
	s.logPrint(nil, zerolog.WarnLevel, args)
}

// Warnf logs a formatted message at warn severity.
func (s *Service) Warnf(format string, args ...interface{}) {
	s.logPrintf(nil, zerolog.WarnLevel, format, args)
}

// Error logs args at error severity, fmt.Sprint style.
func (s *Service) Error(args ...interface{}) {
	s.logPrint(nil, zerolog.ErrorLevel, args)
}

// Errorf logs a formatted message at error severity.
func (s *Service) Errorf(format string, args ...interface{}) {
	s.logPrintf(nil, zerolog.ErrorLevel, format, args)
}

// Fatal logs args at fatal severity and exits with status 1. It
// terminates the process even when the service is uninitialized.
func (s *Service) Fatal(args ...interface{}) {
	s.logFatal(nil, sprint(args))
}

// Fatalf logs a formatted message at fatal severity and exits with
// status 1.
func (s *Service) Fatalf(format string, args ...interface{}) {
	s.logFatal(nil, fmt.Sprintf(format, args...))
}

// TraceWith opens a structured trace record.
func (s *Service) TraceWith() LogEvent {
	return s.buildEvent(nil, zerolog.TraceLevel)
}

// DebugWith opens a structured debug record.
func (s *Service) DebugWith() LogEvent {
	return s.buildEvent(nil, zerolog.DebugLevel)
}

// InfoWith opens a structured info record.
func (s *Service) InfoWith() LogEvent {
	return s.buildEvent(nil, zerolog.InfoLevel)
}

// WarnWith opens a structured warn record.
func (s *Service) WarnWith() LogEvent {
	return s.buildEvent(nil, zerolog.WarnLevel)
}

// ErrorWith opens a structured error record.
func (s *Service) ErrorWith() LogEvent {
	return s.buildEvent(nil, zerolog.ErrorLevel)
}

// FatalWith opens a structured fatal record. Emitting it exits the
// process; when the severity is filtered or the service is down the
// record is a no-op and the process keeps running.
func (s *Service) FatalWith() LogEvent {
	return s.buildEvent(nil, zerolog.FatalLevel)
}

// PanicWith opens a structured panic record. Emitting it panics with the
// message after the record is written.
func (s *Service) PanicWith() LogEvent {
	return s.buildEvent(nil, zerolog.PanicLevel)
}

// With opens a context builder for a derived logger with pre-populated
// fields.
func (s *Service) With() LogContext {
	if s == nil || !s.isInitialized.Load() {
		return &noopLogContext{svc: s}
	}
	l := s.logger.Load()
	if l == nil {
		return &noopLogContext{svc: s}
	}
	return &logContext{svc: s, ctx: l.With()}
}
