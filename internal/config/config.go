package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Canvas      CanvasConfig      `mapstructure:"canvas"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
	Reconciler  ReconcilerConfig  `mapstructure:"reconciler"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.DBName)
}

type CanvasConfig struct {
	CooldownSeconds   int  `mapstructure:"cooldown_seconds"`
	ProtectionSeconds int  `mapstructure:"protection_seconds"`
	EnforceProtection bool `mapstructure:"enforce_protection"`
}

func (c *CanvasConfig) Cooldown() time.Duration {
	if c.CooldownSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.CooldownSeconds) * time.Second
}

func (c *CanvasConfig) Protection() time.Duration {
	if c.ProtectionSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(c.ProtectionSeconds) * time.Second
}

type AuthConfig struct {
	CodeTTLSeconds    int    `mapstructure:"code_ttl_seconds"`
	SessionCookieName string `mapstructure:"session_cookie_name"`
}

func (a *AuthConfig) CodeTTL() time.Duration {
	if a.CodeTTLSeconds <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(a.CodeTTLSeconds) * time.Second
}

func (a *AuthConfig) CookieName() string {
	if a.SessionCookieName == "" {
		return "session_id"
	}
	return a.SessionCookieName
}

type LeaderboardConfig struct {
	Limit int `mapstructure:"limit"`
}

type ReconcilerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 15)
	v.SetDefault("canvas.cooldown_seconds", 300)
	v.SetDefault("canvas.protection_seconds", 3600)
	v.SetDefault("canvas.enforce_protection", false)
	v.SetDefault("auth.code_ttl_seconds", 600)
	v.SetDefault("leaderboard.limit", 10)
	v.SetDefault("reconciler.enabled", true)
	v.SetDefault("reconciler.cron", "0 0 * * * *")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
