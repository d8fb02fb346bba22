package logger

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var base atomic.Pointer[zap.Logger]

func init() {
	base.Store(zap.New(consoleCore(zapcore.InfoLevel)))
}

// Init rebuilds the process logger. Extra cores (the OTel bridge) are teed
// with the JSON stdout core.
func Init(level string, extra ...zapcore.Core) {
	cores := append([]zapcore.Core{consoleCore(parseLevel(level))}, extra...)
	Replace(zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zapcore.ErrorLevel)))
}

// Replace swaps the process logger. Loggers created earlier follow the swap.
func Replace(z *zap.Logger) {
	base.Store(z.With(zap.String("hostname", hostname())))
}

func Sync() { _ = base.Load().Sync() }

func consoleCore(level zapcore.Level) zapcore.Core {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.MessageKey = "message"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(os.Stdout), level)
}

func parseLevel(s string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

type Logger struct {
	service   string
	requestID string
	fields    []zap.Field
}

func New(service string) *Logger { return &Logger{service: service} }

// WithRequestID returns a copy that stamps every entry with id.
func (l *Logger) WithRequestID(id string) *Logger {
	cp := *l
	cp.requestID = id
	return &cp
}

// With returns a copy carrying fields on every entry.
func (l *Logger) With(fields map[string]any) *Logger {
	cp := *l
	cp.fields = append(append([]zap.Field{}, l.fields...), toFields(fields)...)
	return &cp
}

func (l *Logger) log(level zapcore.Level, action string, fields map[string]any, err error) {
	z := base.Load()
	if !z.Core().Enabled(level) {
		return
	}
	zf := make([]zap.Field, 0, len(fields)+len(l.fields)+5)
	zf = append(zf,
		zap.String("service", l.service),
		zap.String("action", action),
		zap.String("request_id", l.requestID),
	)
	zf = append(zf, l.fields...)
	zf = append(zf, toFields(fields)...)
	if err != nil {
		zf = append(zf, zap.Error(err), zap.String("error_type", fmt.Sprintf("%T", err)))
	}
	if ce := z.Check(level, action); ce != nil {
		ce.Write(zf...)
	}
}

func (l *Logger) Info(action string, fields map[string]any)  { l.log(zapcore.InfoLevel, action, fields, nil) }
func (l *Logger) Debug(action string, fields map[string]any) { l.log(zapcore.DebugLevel, action, fields, nil) }
func (l *Logger) Warn(action string, fields map[string]any)  { l.log(zapcore.WarnLevel, action, fields, nil) }
func (l *Logger) Error(action string, err error, fields map[string]any) {
	l.log(zapcore.ErrorLevel, action, fields, err)
}

func toFields(m map[string]any) []zap.Field {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, m[k]))
	}
	return out
}

func hostname() string { h, _ := os.Hostname(); return h }
