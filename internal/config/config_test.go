package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load("")

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StorageMemory, cfg.Storage.Backend)
	assert.Equal(t, CommissionSourcePlatform, cfg.Commission.Source)
	assert.InDelta(t, 0.05, cfg.Commission.PlatformRate, 1e-9)
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("STORAGE_BACKEND", StorageRedis)
	t.Setenv("COMMISSION_SOURCE", CommissionSourceStore)
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://bebida.example")

	cfg := Load("")

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, StorageRedis, cfg.Storage.Backend)
	assert.Equal(t, CommissionSourceStore, cfg.Commission.Source)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"https://bebida.example"}, cfg.Server.AllowedOrigins)
}

func TestLoadFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("SERVER_PORT=9191\n"), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("SERVER_PORT") })

	cfg := Load(path)

	assert.Equal(t, "9191", cfg.Server.Port)
}
