package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// StripeConfig holds the credential and transport settings for the remote
// payment API.
type StripeConfig struct {
	SecretKey      string `mapstructure:"secret_key"`
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func (s *StripeConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// WebhookConfig holds the inbound webhook verification settings. SigningSecrets
// may contain more than one entry during secret rotation windows; every entry
// is tried against every signature value in the header.
type WebhookConfig struct {
	SigningSecrets       []string `mapstructure:"signing_secrets"`
	ToleranceSeconds     int      `mapstructure:"tolerance_seconds"`
	MaxBodyBytes         int64    `mapstructure:"max_body_bytes"`
	AllowedEvents        []string `mapstructure:"allowed_events"`
	DedupeRetentionHours int      `mapstructure:"dedupe_retention_hours"`
}

func (w *WebhookConfig) Tolerance() time.Duration {
	return time.Duration(w.ToleranceSeconds) * time.Second
}

func (w *WebhookConfig) DedupeRetention() time.Duration {
	return time.Duration(w.DedupeRetentionHours) * time.Hour
}
