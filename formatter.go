package logging

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ANSI SGR codes for the console palette. The per-level colors follow the
// scheme the decoder tools have used since their first release: green info,
// cyan debug, magenta trace, yellow warn, red error.
const (
	sgrBold    = "1"
	sgrRed     = "31"
	sgrGreen   = "32"
	sgrYellow  = "33"
	sgrMagenta = "35"
	sgrCyan    = "36"

	// sgrAmber is 256-color orange, the closest terminal match to the
	// amber timestamps of the original console output.
	sgrAmber = "38;5;208"
)

// colorize wraps s in the given SGR codes. It is the identity when color
// is disabled.
func colorize(s string, noColor bool, codes ...string) string {
	if noColor || len(codes) == 0 {
		return s
	}
	return "\x1b[" + strings.Join(codes, ";") + "m" + s + "\x1b[0m"
}

// levelTag returns the fixed-width (5 column) tag for a level. Records
// without a recognizable level render OTHER.
func levelTag(l zerolog.Level) string {
	switch l {
	case zerolog.TraceLevel:
		return "TRACE"
	case zerolog.DebugLevel:
		return "DEBUG"
	case zerolog.InfoLevel:
		return "INFO "
	case zerolog.WarnLevel:
		return "WARN "
	case zerolog.ErrorLevel:
		return "ERROR"
	case zerolog.FatalLevel:
		return "FATAL"
	case zerolog.PanicLevel:
		return "PANIC"
	default:
		return "OTHER"
	}
}

func levelColor(l zerolog.Level) string {
	switch l {
	case zerolog.TraceLevel:
		return sgrMagenta
	case zerolog.DebugLevel:
		return sgrCyan
	case zerolog.InfoLevel:
		return sgrGreen
	case zerolog.WarnLevel:
		return sgrYellow
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return sgrRed
	default:
		return emptyString
	}
}

// formatLevel renders the severity part of a console line: the bracketed,
// bold-colorized, width-padded tag, e.g. "[INFO ]".
func formatLevel(noColor bool) zerolog.Formatter {
	return func(i interface{}) string {
		if i == nil {
			return "[" + levelTag(zerolog.NoLevel) + "]"
		}
		name, ok := i.(string)
		if !ok {
			return "[" + levelTag(zerolog.NoLevel) + "]"
		}
		l, err := zerolog.ParseLevel(name)
		if err != nil {
			return "[" + levelTag(zerolog.NoLevel) + "]"
		}
		c := levelColor(l)
		if c == emptyString {
			return "[" + levelTag(l) + "]"
		}
		return "[" + colorize(levelTag(l), noColor, sgrBold, c) + "]"
	}
}

// formatTimestamp renders the timestamp part, bracketed and bold amber, in
// local time. Values that cannot be parsed back from the record pass
// through verbatim; formatting never fails.
func formatTimestamp(layout string, noColor bool) zerolog.Formatter {
	if layout == emptyString {
		layout = defaultConsoleTimeFormat
	}
	return func(i interface{}) string {
		var t time.Time
		switch v := i.(type) {
		case nil:
			return emptyString
		case string:
			parsed, err := time.Parse(zerolog.TimeFieldFormat, v)
			if err != nil {
				return "[" + colorize(v, noColor, sgrBold, sgrAmber) + "]"
			}
			t = parsed.Local()
		case json.Number:
			sec, err := v.Int64()
			if err != nil {
				return "[" + v.String() + "]"
			}
			t = time.Unix(sec, 0)
		default:
			return "[" + fmt.Sprintf("%v", v) + "]"
		}
		return "[" + colorize(t.Format(layout), noColor, sgrBold, sgrAmber) + "]"
	}
}

// formatCaller renders the call-site part: the bracketed base file name and
// line, e.g. "[decoder.go:87]".
func formatCaller() zerolog.Formatter {
	return func(i interface{}) string {
		if i == nil {
			return emptyString
		}
		c, ok := i.(string)
		if !ok || c == emptyString {
			return emptyString
		}
		return "[" + filepath.Base(c) + "]"
	}
}

// formatMessage passes the message text through untouched.
func formatMessage() zerolog.Formatter {
	return func(i interface{}) string {
		if i == nil {
			return emptyString
		}
		if s, ok := i.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", i)
	}
}
