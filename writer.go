package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// consoleColorDisabled reports whether colorized output must be
// suppressed for w. Pipes, files and non-file writers get plain text;
// Cygwin and MSYS pseudo terminals count as terminals.
func consoleColorDisabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return true
	}
	fd := f.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

// consoleStream wraps an *os.File so ANSI sequences survive legacy
// Windows consoles. Everything else passes through untouched.
func consoleStream(w io.Writer) io.Writer {
	if f, ok := w.(*os.File); ok {
		return colorable.NewColorable(f)
	}
	return w
}

func consolePartsOrder() []string {
	return []string{
		zerolog.TimestampFieldName,
		zerolog.LevelFieldName,
		zerolog.CallerFieldName,
		zerolog.MessageFieldName,
	}
}

// newConsoleWriter builds the human-readable console sink for one output
// stream: `[timestamp] [LEVEL] [file:line] message` plus any fields.
func newConsoleWriter(out io.Writer, cfg *Config) zerolog.ConsoleWriter {
	noColor := cfg.ConsoleNoColor || consoleColorDisabled(out)
	return zerolog.ConsoleWriter{
		Out:             consoleStream(out),
		NoColor:         noColor,
		TimeFormat:      cfg.ConsoleTimeFormat,
		PartsOrder:      consolePartsOrder(),
		FormatTimestamp: formatTimestamp(cfg.ConsoleTimeFormat, noColor),
		FormatLevel:     formatLevel(noColor),
		FormatCaller:    formatCaller(),
		FormatMessage:   formatMessage(),
	}
}

// splitWriter routes warn severity and above to the error console and
// everything else to the standard console. Implementing
// zerolog.LevelWriter keeps the severity visible through the fan-out.
type splitWriter struct {
	out io.Writer
	err io.Writer
}

func (s splitWriter) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s splitWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level >= zerolog.WarnLevel && level <= zerolog.PanicLevel {
		return s.err.Write(p)
	}
	return s.out.Write(p)
}

// newRollingFile opens the rotating JSON log file under the working
// directory. The caller owns closing the returned logger.
func newRollingFile(workingDir string, cfg *Config) (*lumberjack.Logger, error) {
	dir := filepath.Join(workingDir, cfg.RelLogFileDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "logging: create log directory")
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, execName()+".log"),
		MaxBackups: cfg.LogFileMaxBackups,
		MaxAge:     cfg.LogFileMaxAgeDays,
		MaxSize:    cfg.LogFileMaxSizeMB,
		Compress:   cfg.LogFileCompress,
	}, nil
}

// execName is the base name of the running binary without extension,
// used to name the log file.
func execName() string {
	name := filepath.Base(os.Args[0])
	return strings.TrimSuffix(name, filepath.Ext(name))
}

var _ zerolog.LevelWriter = splitWriter{}
