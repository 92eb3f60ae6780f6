package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends for the key-value store
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Commission rate sources
const (
	CommissionSourcePlatform = "platform"
	CommissionSourceStore    = "store"
)

type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Commission CommissionConfig
	Kafka      KafkaConfig
	Platform   PlatformConfig
	RateLimit  RateLimitConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

type StorageConfig struct {
	Backend string
	Seed    bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host       string
	Port       string
	Password   string
	DB         int
	KeyPrefix  string
	MaxRetries int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type JWTConfig struct {
	Secret       string
	AccessExpiry int // in minutes
}

type CommissionConfig struct {
	Source       string
	PlatformRate float64
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether any broker is configured
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type PlatformConfig struct {
	AdminEmail    string
	AdminPassword string
}

type RateLimitConfig struct {
	OrdersPerMinute int
}

// IsDevelopment reports whether the server runs outside production
func (c *Config) IsDevelopment() bool {
	return c.Server.Env != "production"
}

// Load reads configuration from the environment, after loading envFile
// into it when the file exists.
func Load(envFile string) *Config {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				log.Printf("Warning: Could not load env file %s: %v", envFile, err)
			}
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("STORAGE_BACKEND", StorageMemory)
	v.SetDefault("STORAGE_SEED", true)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_KEY_PREFIX", "bebida:")
	v.SetDefault("REDIS_MAX_RETRIES", 5)
	v.SetDefault("JWT_ACCESS_EXPIRY", 60)
	v.SetDefault("COMMISSION_SOURCE", CommissionSourcePlatform)
	v.SetDefault("COMMISSION_PLATFORM_RATE", 0.05)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "orders.created")
	v.SetDefault("PLATFORM_ADMIN_EMAIL", "admin@bebidaexpress.com")
	v.SetDefault("RATE_LIMIT_ORDERS_PER_MINUTE", 30)

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Env:            v.GetString("SERVER_ENV"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Storage: StorageConfig{
			Backend: v.GetString("STORAGE_BACKEND"),
			Seed:    v.GetBool("STORAGE_SEED"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_DATABASE"),
			Schema:   v.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:       v.GetString("REDIS_HOST"),
			Port:       v.GetString("REDIS_PORT"),
			Password:   v.GetString("REDIS_PASSWORD"),
			DB:         v.GetInt("REDIS_DB"),
			KeyPrefix:  v.GetString("REDIS_KEY_PREFIX"),
			MaxRetries: v.GetInt("REDIS_MAX_RETRIES"),
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			AccessExpiry: v.GetInt("JWT_ACCESS_EXPIRY"),
		},
		Commission: CommissionConfig{
			Source:       v.GetString("COMMISSION_SOURCE"),
			PlatformRate: v.GetFloat64("COMMISSION_PLATFORM_RATE"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		Platform: PlatformConfig{
			AdminEmail:    v.GetString("PLATFORM_ADMIN_EMAIL"),
			AdminPassword: v.GetString("PLATFORM_ADMIN_PASSWORD"),
		},
		RateLimit: RateLimitConfig{
			OrdersPerMinute: v.GetInt("RATE_LIMIT_ORDERS_PER_MINUTE"),
		},
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
