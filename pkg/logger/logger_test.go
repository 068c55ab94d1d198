package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coursehub_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, level(&config.Config{Server: config.ServerConfig{Mode: "debug"}}))
	assert.Equal(t, zapcore.InfoLevel, level(&config.Config{Server: config.ServerConfig{Mode: "release"}}))

	cfg := &config.Config{Server: config.ServerConfig{Mode: "debug"}, Log: config.LogConfig{Level: "warn"}}
	assert.Equal(t, zapcore.WarnLevel, level(cfg))

	cfg.Log.Level = "nonsense"
	assert.Equal(t, zapcore.DebugLevel, level(cfg))
}

func TestInitLogger_WritesJSONFile(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	file := filepath.Join(t.TempDir(), "app.log")
	InitLogger(&config.Config{
		Server: config.ServerConfig{Mode: "release"},
		Log:    config.LogConfig{File: file, MaxSizeMB: 1},
	})

	Log.Debug("hidden")
	Log.Info("enrollment created", zap.Uint("courseId", 7))
	require.NoError(t, Log.Sync())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "enrollment created", entry["msg"])
	assert.Equal(t, "coursehub", entry["service"])
	assert.EqualValues(t, 7, entry["courseId"])
}
