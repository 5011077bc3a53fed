package logger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	slogzap "github.com/samber/slog-zap/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

var (
	mu      sync.RWMutex
	logger  Logger
	sLogger *slog.Logger
)

// PrintfLogger is satisfied by cron.PrintfLogger consumers.
type PrintfLogger interface {
	Printf(string, ...any)
}

type Logger interface {
	PrintfLogger
	Debugf(msg string, args ...any)
	Infof(msg string, args ...any)
	Warnf(msg string, args ...any)
	Errorf(msg string, args ...any)
	Fatalf(msg string, args ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Named(name string) Logger
}

type ZapLogger struct {
	Logger       *zap.Logger
	loggerConfig zap.Config
}

// Option configures a ZapLogger.
type Option func(*ZapLogger)

// InitLogger builds the process-wide logger once. Later calls are no-ops.
func InitLogger(opts ...Option) error {
	mu.Lock()
	defer mu.Unlock()
	if logger != nil {
		return nil
	}
	zapLogger, err := newZapLogger(opts...)
	if err != nil {
		return err
	}
	logger = zapLogger
	sLogger = newSLogger(zapLogger.Logger, zapLogger.loggerConfig.Level.Level())
	return nil
}

// NewZapLogger builds a standalone zap logger, e.g. for HTTP access logs.
func NewZapLogger(opts ...Option) (*ZapLogger, error) {
	return newZapLogger(opts...)
}

func newZapLogger(opts ...Option) (*ZapLogger, error) {
	zl := &ZapLogger{loggerConfig: zap.NewProductionConfig()}
	for _, opt := range opts {
		opt(zl)
	}
	var err error
	zl.Logger, err = zl.loggerConfig.Build()
	if err != nil {
		return nil, err
	}
	return zl, nil
}

func WithLevel(level zapcore.Level) Option {
	return func(zl *ZapLogger) {
		zl.loggerConfig.Level = zap.NewAtomicLevelAt(level)
	}
}

func WithEncodeTime(timeKey string, timeEncoder zapcore.TimeEncoder) Option {
	return func(zl *ZapLogger) {
		zl.loggerConfig.EncoderConfig.TimeKey = timeKey
		zl.loggerConfig.EncoderConfig.EncodeTime = timeEncoder
	}
}

// WithConsole switches to the human readable console encoder.
func WithConsole() Option {
	return func(zl *ZapLogger) {
		zl.loggerConfig.Encoding = "console"
		zl.loggerConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
}

// ParseLevel maps a configured level name to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("failed to parse log level %q: %w", level, err)
	}
	return zapLevel, nil
}

type levelAdapter struct {
	zapLevel zapcore.Level
}

func (l levelAdapter) Level() slog.Level {
	switch l.zapLevel {
	case zapcore.DebugLevel:
		return slog.LevelDebug
	case zapcore.WarnLevel:
		return slog.LevelWarn
	case zapcore.ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newSLogger(zapLogger *zap.Logger, level zapcore.Level) *slog.Logger {
	return slog.New(slogzap.Option{Logger: zapLogger, Level: levelAdapter{zapLevel: level}}.NewZapHandler())
}

// UseTestLogger routes the global logger to t for the duration of the test.
func UseTestLogger(t *testing.T) {
	t.Helper()
	zl := &ZapLogger{Logger: zaptest.NewLogger(t)}
	mu.Lock()
	prevLogger, prevSLogger := logger, sLogger
	logger = zl
	sLogger = newSLogger(zl.Logger, zapcore.DebugLevel)
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		logger, sLogger = prevLogger, prevSLogger
		mu.Unlock()
	})
}

func current() Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l == nil {
		_ = InitLogger()
		mu.RLock()
		l = logger
		mu.RUnlock()
	}
	return l
}

func currentS() *slog.Logger {
	current()
	mu.RLock()
	defer mu.RUnlock()
	return sLogger
}

func GetLogger() Logger {
	return current()
}

func Named(name string) Logger {
	return current().Named(name)
}

func DebugContext(ctx context.Context, msg string, fields ...any) {
	currentS().DebugContext(ctx, msg, fields...)
}

func InfoContext(ctx context.Context, msg string, fields ...any) {
	currentS().InfoContext(ctx, msg, fields...)
}

func WarnContext(ctx context.Context, msg string, fields ...any) {
	currentS().WarnContext(ctx, msg, fields...)
}

func ErrorContext(ctx context.Context, msg string, fields ...any) {
	currentS().ErrorContext(ctx, msg, fields...)
}

func Debugf(msg string, args ...any) { current().Debugf(msg, args...) }
func Infof(msg string, args ...any)  { current().Infof(msg, args...) }
func Warnf(msg string, args ...any)  { current().Warnf(msg, args...) }
func Errorf(msg string, args ...any) { current().Errorf(msg, args...) }
func Fatalf(msg string, args ...any) { current().Fatalf(msg, args...) }

func (l *ZapLogger) Debugf(msg string, args ...any) {
	l.Logger.Sugar().Debugf(msg, args...)
}

func (l *ZapLogger) Infof(msg string, args ...any) {
	l.Logger.Sugar().Infof(msg, args...)
}

func (l *ZapLogger) Warnf(msg string, args ...any) {
	l.Logger.Sugar().Warnf(msg, args...)
}

func (l *ZapLogger) Errorf(msg string, args ...any) {
	l.Logger.Sugar().Errorf(msg, args...)
}

func (l *ZapLogger) Fatalf(msg string, args ...any) {
	l.Logger.Sugar().Fatalf(msg, args...)
}

func (l *ZapLogger) Infow(msg string, keysAndValues ...any) {
	l.Logger.Sugar().Infow(msg, keysAndValues...)
}

func (l *ZapLogger) Warnw(msg string, keysAndValues ...any) {
	l.Logger.Sugar().Warnw(msg, keysAndValues...)
}

func (l *ZapLogger) Printf(msg string, args ...any) {
	l.Logger.Sugar().Infof(msg, args...)
}

func (l *ZapLogger) Named(name string) Logger {
	return &ZapLogger{Logger: l.Logger.Named(name), loggerConfig: l.loggerConfig}
}
