package logging

import (
	"os"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Config holds every knob the logging service understands. Field names
// double as the JSON keys, matching the config files the decoder tools
// ship with.
type Config struct {
	// Level is the minimum severity that produces output: "trace",
	// "debug", "info", "warn", "error", "fatal", "panic" or "disabled".
	// Empty selects the package default ("info"). See LevelForVerbosity
	// for the numeric convention.
	Level string

	// SkipFrameCount is added to the caller skip when the host wraps
	// this library in helpers of its own, so file:line points at the
	// real call site.
	SkipFrameCount int `validate:"min=0"`

	// WithTimestamp stamps every record via the service clock.
	WithTimestamp bool

	// WithCaller annotates every record with the calling file:line.
	WithCaller bool

	// ConsoleLogging enables the formatted console sink.
	ConsoleLogging bool

	// ConsoleNoColor forces color off even on a terminal. Color is
	// always off when the stream is not a terminal.
	ConsoleNoColor bool

	// ConsoleTimeFormat overrides the console timestamp layout.
	ConsoleTimeFormat string

	// SplitStreams routes warn and above to stderr and everything less
	// severe to stdout. When false everything goes to stderr.
	SplitStreams bool

	// FileLogging enables the rotating JSON file sink.
	FileLogging bool

	// RelLogFileDir is the log directory relative to the working dir.
	// Absolute paths are rejected.
	RelLogFileDir string

	LogFileMaxBackups int `validate:"min=0"`
	LogFileMaxAgeDays int `validate:"min=0"`
	LogFileMaxSizeMB  int `validate:"min=0"`
	LogFileCompress   bool

	// ErrorStacks arms zerolog's pkg/errors stack marshaler so events
	// built with Stack() carry a stack trace.
	ErrorStacks bool

	// ShutdownTimeoutMS bounds how long Close waits for in-flight
	// events; zero selects the package default.
	ShutdownTimeoutMS int `validate:"min=0"`

	// ShutdownTimeoutWarning emits a warning record when Close gives up
	// waiting, naming the number of operations left behind.
	ShutdownTimeoutWarning bool
}

// DefaultConfig returns the console-only configuration the decoder tools
// start from: info level, timestamps, caller annotations, color when the
// terminal supports it.
func DefaultConfig() *Config {
	return &Config{
		Level:                  defaultLevel,
		WithTimestamp:          true,
		WithCaller:             true,
		ConsoleLogging:         true,
		RelLogFileDir:          "logs",
		LogFileMaxBackups:      3,
		LogFileMaxAgeDays:      7,
		LogFileMaxSizeMB:       10,
		ShutdownTimeoutMS:      defaultShutdownTimeoutMS,
		ShutdownTimeoutWarning: true,
	}
}

// LoadConfig reads a JSON config file. Keys absent from the file keep
// their DefaultConfig values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "logging: read config")
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "logging: parse config")
	}
	return cfg, nil
}
