package logger

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config controls the process-wide log output.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json or console
	Output     string // stdout, stderr, or a file path
	TimeFormat string // defaults to RFC3339Nano
}

// Logger wraps zerolog with typed fields and an optional collector that
// aggregates repeated error lines for out-of-band publishing.
type Logger struct {
	zl        zerolog.Logger
	collector *LogCollector
}

func New(cfg *Config) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)

	if cfg.TimeFormat == "" {
		cfg.TimeFormat = time.RFC3339Nano
	}
	zerolog.TimeFieldFormat = cfg.TimeFormat

	out, err := openOutput(cfg.Output)
	if err != nil {
		return nil, err
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: cfg.TimeFormat}
	}

	zl := zerolog.New(out).With().Timestamp().CallerWithSkipFrameCount(3).Logger()
	return &Logger{zl: zl}, nil
}

func openOutput(target string) (io.Writer, error) {
	switch target {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		f, err := os.OpenFile(target, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		return f, nil
	}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.emit(l.zl.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...Field)  { l.emit(l.zl.Info(), msg, fields) }

func (l *Logger) Warn(msg string, fields ...Field) {
	l.emit(l.zl.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.emit(l.zl.Error(), msg, fields)
	l.collect("error", msg, fields)
}

func (l *Logger) emit(e *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		f.apply(e)
	}
	e.Msg(msg)
}

// AddCollector attaches (or replaces) the aggregating collector.
func (l *Logger) AddCollector(cfg *CollectionConfig) {
	if l.collector != nil {
		l.collector.Close()
	}
	l.collector = NewLogCollector(cfg)
}

func (l *Logger) RemoveCollector() {
	if l.collector != nil {
		l.collector.Close()
		l.collector = nil
	}
}

func (l *Logger) collect(level, msg string, fields []Field) {
	if l.collector == nil {
		return
	}
	// skip collect and the public method to reach the call site
	caller := "unknown"
	if _, file, line, ok := runtime.Caller(2); ok {
		if i := strings.Index(file, "TrendPulse"); i >= 0 {
			file = file[i+len("TrendPulse"):]
		}
		caller = fmt.Sprintf("%s:%d", file, line)
	}

	kv := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		kv[f.Key] = f.Value
	}
	l.collector.AddLog(level, msg, kv, caller)
}

// Field is one typed key/value pair on a log line. Value keeps the raw
// value for the collector; apply writes the typed form to zerolog.
type Field struct {
	Key   string
	Value interface{}
	apply func(*zerolog.Event)
}

func String(key, value string) Field {
	return Field{Key: key, Value: value, apply: func(e *zerolog.Event) { e.Str(key, value) }}
}

func Strings(key string, values []string) Field {
	return String(key, strings.Join(values, ", "))
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value, apply: func(e *zerolog.Event) { e.Int(key, value) }}
}

func Int32(key string, value int32) Field { return Int(key, int(value)) }

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value, apply: func(e *zerolog.Event) { e.Int64(key, value) }}
}

func Uint(key string, value uint) Field { return Int64(key, int64(value)) }

func Uint64(key string, value uint64) Field { return Int64(key, int64(value)) }

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value, apply: func(e *zerolog.Event) { e.Float64(key, value) }}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value, apply: func(e *zerolog.Event) { e.Bool(key, value) }}
}

func Duration(key string, value time.Duration) Field {
	return Int64(key, value.Milliseconds())
}

func Error(err error) Field {
	var v interface{}
	if err != nil {
		v = err.Error()
	}
	return Field{Key: "error", Value: v, apply: func(e *zerolog.Event) { e.Err(err) }}
}

func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value, apply: func(e *zerolog.Event) { e.Interface(key, value) }}
}
