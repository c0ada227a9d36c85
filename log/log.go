package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// These constants are the valid values for the Init level parameter.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	logTestWriterName = "kamiyoTestWriter"
)

var (
	log zerolog.Logger
	// level holds the level set on the last Init call.
	level string

	// panicOnInvalidChars is set based on the KAMIYO_LOG_PANICONINVALIDCHARS
	// env var. When true, logging a message with invalid UTF-8 panics, to
	// catch raw bytes being logged by mistake. Only meant for testing
	// environments.
	panicOnInvalidChars = os.Getenv("KAMIYO_LOG_PANICONINVALIDCHARS") == "true"

	// logTestWriter is the writer used when the output is logTestWriterName.
	// Used by tests and benchmarks.
	logTestWriter io.Writer = io.Discard
)

// checkInvalidChars panics if the formatted message contains invalid UTF-8,
// but only when panicOnInvalidChars is enabled.
func checkInvalidChars(msg string) {
	if panicOnInvalidChars && !utf8.ValidString(msg) {
		panic(fmt.Sprintf("log message with invalid UTF-8: %q", msg))
	}
}

// Init initializes the logger. Output can be either "stdout", "stderr" or a
// file path. If errorsFile is not nil, errors (and worse) are additionally
// written to it as JSON lines.
func Init(logLevel, output string, errorsFile io.Writer) {
	var out io.Writer
	switch output {
	case "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	case logTestWriterName:
		out = logTestWriter
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			panic(fmt.Sprintf("cannot create log output: %v", err))
		}
		out = f
	}
	out = zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "3:04:05PM",
	}
	if errorsFile != nil {
		errWriter := &zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: errorsFile},
			Level:  zerolog.ErrorLevel,
		}
		out = zerolog.MultiLevelWriter(out, errWriter)
	}
	log = zerolog.New(out).With().Timestamp().Caller().Logger()
	zerolog.TimeFieldFormat = time.RFC3339Nano
	switch logLevel {
	case LogLevelDebug:
		log = log.Level(zerolog.DebugLevel)
	case LogLevelInfo:
		log = log.Level(zerolog.InfoLevel)
	case LogLevelWarn:
		log = log.Level(zerolog.WarnLevel)
	case LogLevelError:
		log = log.Level(zerolog.ErrorLevel)
	default:
		panic(fmt.Sprintf("invalid log level: %q", logLevel))
	}
	level = logLevel
	log.Debug().Msgf("logger construction succeeded at level %s with output %s", logLevel, output)
}

// Level returns the current log level.
func Level() string { return level }

// Logger returns the underlying zerolog.Logger.
func Logger() *zerolog.Logger { return &log }

func send(ev *zerolog.Event, msg string) {
	checkInvalidChars(msg)
	ev.Msg(msg)
}

// Debug sends a debug level log message.
func Debug(args ...any) { send(log.Debug(), fmt.Sprint(args...)) }

// Info sends an info level log message.
func Info(args ...any) { send(log.Info(), fmt.Sprint(args...)) }

// Warn sends a warn level log message.
func Warn(args ...any) { send(log.Warn(), fmt.Sprint(args...)) }

// Error sends an error level log message.
func Error(args ...any) { send(log.Error(), fmt.Sprint(args...)) }

// Fatal sends a fatal level log message and exits.
func Fatal(args ...any) { send(log.Fatal(), fmt.Sprint(args...)) }

// Debugf sends a formatted debug level log message.
func Debugf(template string, args ...any) { send(log.Debug(), fmt.Sprintf(template, args...)) }

// Infof sends a formatted info level log message.
func Infof(template string, args ...any) { send(log.Info(), fmt.Sprintf(template, args...)) }

// Warnf sends a formatted warn level log message.
func Warnf(template string, args ...any) { send(log.Warn(), fmt.Sprintf(template, args...)) }

// Errorf sends a formatted error level log message.
func Errorf(template string, args ...any) { send(log.Error(), fmt.Sprintf(template, args...)) }

// Fatalf sends a formatted fatal level log message and exits.
func Fatalf(template string, args ...any) { send(log.Fatal(), fmt.Sprintf(template, args...)) }

// kvFields converts a list of alternating key/value pairs into a zerolog
// fields map. Keys that are not strings are stringified.
func kvFields(keysAndValues ...any) map[string]any {
	fields := make(map[string]any, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		switch v := keysAndValues[i+1].(type) {
		case []byte:
			fields[key] = fmt.Sprintf("%x", v)
		case error:
			fields[key] = v.Error()
		default:
			fields[key] = v
		}
	}
	return fields
}

// Debugw sends a debug level log message with key-value pairs.
func Debugw(msg string, keysAndValues ...any) {
	checkInvalidChars(msg)
	log.Debug().Fields(kvFields(keysAndValues...)).Msg(msg)
}

// Infow sends an info level log message with key-value pairs.
func Infow(msg string, keysAndValues ...any) {
	checkInvalidChars(msg)
	log.Info().Fields(kvFields(keysAndValues...)).Msg(msg)
}

// Warnw sends a warn level log message with key-value pairs.
func Warnw(msg string, keysAndValues ...any) {
	checkInvalidChars(msg)
	log.Warn().Fields(kvFields(keysAndValues...)).Msg(msg)
}

// Errorw sends an error level log message with an error and key-value pairs.
func Errorw(err error, msg string, keysAndValues ...any) {
	checkInvalidChars(msg)
	log.Error().Err(err).Fields(kvFields(keysAndValues...)).Msg(msg)
}

func init() {
	// a default logger so packages can log before Init is called
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "3:04:05PM"}).
		With().Timestamp().Logger().Level(zerolog.InfoLevel)
	level = LogLevelInfo
	if s := strings.ToLower(os.Getenv("KAMIYO_LOG_LEVEL")); s != "" {
		Init(s, "stderr", nil)
	}
}
