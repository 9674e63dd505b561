package logging

const (
	// EnvLogLevel, when set to a parseable level name, overrides the
	// configured level at Initialize time.
	EnvLogLevel = "SC_LOG_LEVEL"

	emptyString = ""
)

const (
	// defaultLevel is used when the config leaves Level empty.
	defaultLevel = "info"

	// defaultConsoleTimeFormat is the timestamp layout of a console line:
	// local wall clock, seconds precision.
	defaultConsoleTimeFormat = "2006-01-02T15:04:05"

	// defaultShutdownTimeoutMS bounds how long Close waits for in-flight
	// log events before giving up on them.
	defaultShutdownTimeoutMS = 500
)

const (
	errMsgNilService    = "Logger service is nil."
	errMsgCfgNotSet     = "Logging config is not set."
	errMsgConfigInvalid = "Logging configuration is invalid."
	errMsgNoWriters     = "no logging channels enabled"
	errMsgNoWorkingDir  = "working dir has not been set"
)
