package logger

import (
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields is a map of field names to values attached to a log entry.
type Fields map[string]interface{}

// Logger is the diagnostic sink used by every promptpack component. User
// facing notices do not go through it.
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)

	// Trace logs per-file detail such as reads and rule decisions.
	Trace(msg string)

	// WithFields returns a Logger that adds fields to every entry.
	WithFields(fields Fields) Logger
}

// Encoding names accepted by Config.Format.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// TraceLevel sits one step below zap's debug level.
const TraceLevel = zapcore.DebugLevel - 1

// Config selects verbosity, encoding and destination. The zero value writes
// warnings and errors as JSON to stderr.
type Config struct {
	// Verbosity is the number of -v flags given on the command line.
	Verbosity int

	// Format is FormatConsole or FormatJSON. Anything else means JSON.
	Format string

	// Output defaults to os.Stderr.
	Output io.Writer
}

type logger struct {
	zap *zap.Logger
}

// NewLogger builds a zap-backed Logger.
//
//	log := NewLogger(Config{Verbosity: 2, Format: FormatConsole})
//	log.WithFields(Fields{"root": "/src/project"}).Debug("Pruned directory")
func NewLogger(config Config) Logger {
	out := config.Output
	if out == nil {
		out = os.Stderr
	}

	console := strings.EqualFold(config.Format, FormatConsole)

	core := zapcore.NewCore(
		newEncoder(console),
		zapcore.AddSync(out),
		LevelFor(config.Verbosity),
	)

	return &logger{zap: zap.New(core)}
}

// LevelFor maps a -v count to the lowest enabled level.
func LevelFor(verbosity int) zapcore.Level {
	switch {
	case verbosity <= 0:
		return zapcore.WarnLevel
	case verbosity == 1:
		return zapcore.InfoLevel
	case verbosity == 2:
		return zapcore.DebugLevel
	default:
		return TraceLevel
	}
}

func newEncoder(console bool) zapcore.Encoder {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if console {
		cfg.EncodeLevel = levelEncoder(true)
		return zapcore.NewConsoleEncoder(cfg)
	}
	cfg.EncodeLevel = levelEncoder(false)
	return zapcore.NewJSONEncoder(cfg)
}

// levelEncoder names TraceLevel, which zap's own encoders print as Level(-2).
func levelEncoder(capital bool) zapcore.LevelEncoder {
	return func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		name := l.String()
		if l == TraceLevel {
			name = "trace"
		}
		if capital {
			name = strings.ToUpper(name)
		}
		enc.AppendString(name)
	}
}

func (l *logger) Debug(msg string) { l.zap.Debug(msg) }
func (l *logger) Info(msg string)  { l.zap.Info(msg) }
func (l *logger) Warn(msg string)  { l.zap.Warn(msg) }
func (l *logger) Error(msg string) { l.zap.Error(msg) }

func (l *logger) Trace(msg string) {
	if ce := l.zap.Check(TraceLevel, msg); ce != nil {
		ce.Write()
	}
}

// WithFields attaches fields in key order.
func (l *logger) WithFields(fields Fields) Logger {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	zapFields := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		zapFields = append(zapFields, zap.Any(k, fields[k]))
	}

	return &logger{zap: l.zap.With(zapFields...)}
}
