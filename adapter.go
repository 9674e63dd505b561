package logging

import (
	"fmt"
	"log"
	"strings"

	kitlog "github.com/go-kit/log"
	"github.com/rs/zerolog"
)

// Kit adapts the service to the go-kit Logger contract. The "level"
// keyval selects severity (info when absent or unknown), "msg" and
// "message" carry the message text, and every other pair becomes a
// structured field.
func (s *Service) Kit() kitlog.Logger {
	return kitAdapter{svc: s}
}

type kitAdapter struct {
	svc *Service
}

func (k kitAdapter) Log(keyvals ...interface{}) error {
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, kitlog.ErrMissingValue)
	}
	level := zerolog.InfoLevel
	msg := emptyString
	fields := make([]interface{}, 0, len(keyvals))
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprintf("%v", keyvals[i])
		switch key {
		case "level":
			if l, err := ParseLevel(fmt.Sprintf("%v", keyvals[i+1])); err == nil {
				level = l
			}
		case "msg", "message":
			msg = fmt.Sprintf("%v", keyvals[i+1])
		default:
			fields = append(fields, key, keyvals[i+1])
		}
	}
	ev := k.svc.buildEvent(nil, level)
	if isNoopEvent(ev) {
		return nil
	}
	for i := 0; i < len(fields); i += 2 {
		ev = ev.Interface(fields[i].(string), fields[i+1])
	}
	ev.CallerSkipFrame(1).Msg(msg)
	return nil
}

// StdLogger returns a standard library logger that forwards every line as
// one record at the given severity. Unknown severities map to error. The
// usual consumers are integration points like http.Server.ErrorLog.
func (s *Service) StdLogger(level string) *log.Logger {
	l, err := ParseLevel(level)
	if err != nil || l == zerolog.NoLevel {
		l = zerolog.ErrorLevel
	}
	return log.New(stdWriter{svc: s, level: l}, emptyString, 0)
}

type stdWriter struct {
	svc   *Service
	level zerolog.Level
}

func (w stdWriter) Write(p []byte) (int, error) {
	ev := w.svc.buildEvent(nil, w.level)
	if isNoopEvent(ev) {
		return len(p), nil
	}
	// log.Logger adds its Printf and output frames above this Write.
	ev.CallerSkipFrame(3).Msg(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

var _ kitlog.Logger = kitAdapter{}
