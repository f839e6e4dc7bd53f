package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config file failed: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  http_port: 9090
  mode: release
  allowed_origins:
    - "https://blog.example.com"
  machine_id: 3

mysql:
  host: db.internal
  port: 3306
  user: inkchat
  password: secret
  database: inkchat

redis:
  host: cache.internal
  port: 6379
  key_prefix: "inkchat:"

jwt:
  secret: super-secret
  expire_hours: 24

websocket:
  max_conn_num: 500
  push_worker_num: 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.HTTPPort)
	require.Equal(t, "release", cfg.Server.Mode)
	require.Equal(t, []string{"https://blog.example.com"}, cfg.Server.AllowedOrigins)
	require.Equal(t, uint16(3), cfg.Server.MachineId)

	require.Equal(t, "inkchat:secret@tcp(db.internal:3306)/inkchat?charset=utf8mb4&parseTime=True&loc=Local", cfg.MySQL.DSN())
	require.Equal(t, "cache.internal:6379", cfg.Redis.Addr())

	require.Equal(t, "super-secret", cfg.JWT.Secret)
	require.Equal(t, 24, cfg.JWT.ExpireHours)

	require.Equal(t, int64(500), cfg.WebSocket.MaxConnNum)
	require.Equal(t, 4, cfg.WebSocket.PushWorkerNum)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
mysql:
  host: localhost
  port: 3306
  user: root
  database: inkchat

jwt:
  secret: s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.HTTPPort)
	require.Equal(t, "debug", cfg.Server.Mode)
	require.Equal(t, uint16(1), cfg.Server.MachineId)
	require.Equal(t, "utf8mb4", cfg.MySQL.Charset)
	require.Equal(t, 100, cfg.MySQL.MaxOpenConns)
	require.Equal(t, "inkchat:", cfg.Redis.KeyPrefix)
	require.Equal(t, 168, cfg.JWT.ExpireHours)
	require.Equal(t, int64(10000), cfg.WebSocket.MaxConnNum)
	require.Equal(t, 10*time.Second, cfg.WebSocket.WriteWait)
	require.Equal(t, 30*time.Second, cfg.WebSocket.PongWait)
	require.Equal(t, 27*time.Second, cfg.WebSocket.PingPeriod)
	require.Equal(t, 256, cfg.WebSocket.WriteChannelSize)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
