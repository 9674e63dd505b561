package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// ParseLevel parses a level name ("trace", "debug", "info", "warn", "error",
// "fatal", "panic", "disabled") into a zerolog.Level. Returns
// zerolog.NoLevel and an error if the name is unknown.
func ParseLevel(level string) (zerolog.Level, error) {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, err
	}
	return l, nil
}

// LevelForVerbosity maps a numeric verbosity to a level name. The table
// follows the Linux kernel console levels: 0-3 select error (the kernel's
// emergency through error tiers collapse onto error), 4 warn, 5 info,
// 6 debug and 7 trace. Any other value selects info.
//
// Decoder front-ends pass the value of their repeated -v flag (or a level
// digit from the environment) straight through.
func LevelForVerbosity(v uint8) string {
	switch v {
	case 0, 1, 2, 3:
		return zerolog.ErrorLevel.String()
	case 4:
		return zerolog.WarnLevel.String()
	case 5:
		return zerolog.InfoLevel.String()
	case 6:
		return zerolog.DebugLevel.String()
	case 7:
		return zerolog.TraceLevel.String()
	default:
		return zerolog.InfoLevel.String()
	}
}

// resolveLevel picks the effective level for a config: the EnvLogLevel
// environment variable wins when it holds a parseable level name, otherwise
// the configured level (or the package default when empty) applies.
func resolveLevel(cfg *Config) (zerolog.Level, error) {
	name := cfg.Level
	if name == emptyString {
		name = defaultLevel
	}
	if env := os.Getenv(EnvLogLevel); env != emptyString {
		if l, err := ParseLevel(env); err == nil {
			return l, nil
		}
		// An unparseable override is ignored rather than fatal; the
		// configured level still applies.
	}
	return ParseLevel(name)
}
