package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config photoshare-backend（HTTP API）配置
type Config struct {
	HTTP struct {
		Addr string
	}
	DBEnabled bool
	Database  DatabaseConfig
	Redis     struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	Audit AuditConfig
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// AuditConfig 安全审计事件配置
type AuditConfig struct {
	BufferSize int // Record 通道缓冲大小（满时降级到本地环形缓冲）

	// Redis Streams sink（用于下游监控消费）
	StreamEnabled bool
	StreamName    string

	// Webhook 告警（仅 DENY / missing-context 事件触发）
	WebhookEnabled bool
	WebhookURL     string
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	// Default to true for local dev: if DB is unavailable, photoshare-backend will fall back to
	// in-memory repositories. This avoids "empty pages" when starting with plain `go run`.
	cfg.DBEnabled = getEnv("DB_ENABLED", "true") == "true"
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "photoshare")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "20"), 20)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0
	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	// 审计配置
	cfg.Audit.BufferSize = parseInt(getEnv("AUDIT_BUFFER_SIZE", "1024"), 1024)
	cfg.Audit.StreamEnabled = getEnv("AUDIT_STREAM_ENABLED", "false") == "true"
	cfg.Audit.StreamName = getEnv("AUDIT_STREAM_NAME", "photoshare:security-events")
	cfg.Audit.WebhookEnabled = getEnv("AUDIT_WEBHOOK_ENABLED", "false") == "true"
	cfg.Audit.WebhookURL = getEnv("AUDIT_WEBHOOK_URL", "")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
