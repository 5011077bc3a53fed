package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"WARN", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelAdapter(t *testing.T) {
	assert.Equal(t, "DEBUG", levelAdapter{zapLevel: zapcore.DebugLevel}.Level().String())
	assert.Equal(t, "WARN", levelAdapter{zapLevel: zapcore.WarnLevel}.Level().String())
	assert.Equal(t, "ERROR", levelAdapter{zapLevel: zapcore.ErrorLevel}.Level().String())
	assert.Equal(t, "INFO", levelAdapter{zapLevel: zapcore.FatalLevel}.Level().String())
}

func TestNewZapLogger(t *testing.T) {
	zl, err := NewZapLogger(WithLevel(zapcore.WarnLevel), WithConsole())
	require.NoError(t, err)
	assert.True(t, zl.Logger.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, zl.Logger.Core().Enabled(zapcore.InfoLevel))
	assert.Equal(t, "console", zl.loggerConfig.Encoding)
}

func TestUseTestLoggerRestores(t *testing.T) {
	mu.RLock()
	before := logger
	mu.RUnlock()

	t.Run("inner", func(t *testing.T) {
		UseTestLogger(t)
		Infof("routed to %s", t.Name())
		Named("sub").Infow("structured", "key", "value")
		WarnContext(context.Background(), "slog bridge", "key", "value")
		assert.NotEqual(t, before, GetLogger())
	})

	mu.RLock()
	defer mu.RUnlock()
	assert.Equal(t, before, logger)
}
