package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"nonsense", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("console to stdout", func(t *testing.T) {
		log, err := New(DefaultConfig())
		require.NoError(t, err)
		assert.NotNil(t, log)
	})

	t.Run("json to rotated file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "shop.log")
		cfg := ProductionConfig()
		cfg.Output = path
		cfg.MaxSizeMB = 1

		log, err := New(cfg)
		require.NoError(t, err)
		log.Info("order placed")
		_ = log.Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"order placed"`)
		assert.Contains(t, string(data), `"level":"info"`)
	})

	t.Run("respects level", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "shop.log")
		cfg := ProductionConfig()
		cfg.Output = path
		cfg.Level = "warn"

		log, err := New(cfg)
		require.NoError(t, err)
		log.Info("hidden")
		log.Warn("shown")
		_ = log.Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "hidden")
		assert.Contains(t, string(data), "shown")
	})
}
