package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644))
	return dir
}

func TestLoadConfig(t *testing.T) {
	uploads := filepath.Join(t.TempDir(), "uploads")
	dir := writeConfig(t, `
server:
  port: "9090"
  mode: debug
database:
  driver: postgres
  host: db
  port: 5432
jwt:
  secret: dev
  expire_hours: 48
storage:
  type: local
  local_path: `+uploads+`
ai:
  models: ["m-primary", "m-backup"]
cache:
  quiz_list_ttl_seconds: 30
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 48*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, []string{"m-primary", "m-backup"}, cfg.AI.Models)
	assert.Equal(t, 30*time.Second, cfg.Cache.QuizListTTL())
	assert.Equal(t, "@every 30m", cfg.Cron.RatingRecompute)
	assert.Equal(t, dir, cfg.Path)
	assert.DirExists(t, uploads)
}

func TestLoadConfig_Rejects(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "database:\n  driver: oracle\n"))
	assert.ErrorContains(t, err, "unsupported database driver")

	_, err = LoadConfig(writeConfig(t, "server:\n  mode: release\njwt:\n  secret: short\nstorage:\n  type: minio\n"))
	assert.ErrorContains(t, err, "JWT secret is too short")
}

func TestQuizListTTLDefault(t *testing.T) {
	assert.Equal(t, 10*time.Minute, CacheConfig{}.QuizListTTL())
}
