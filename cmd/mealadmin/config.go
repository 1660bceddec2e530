package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/omeyang/mealkit/pkg/config/xconf"
	"github.com/omeyang/mealkit/pkg/distributed/xinvalidate"
	"github.com/omeyang/mealkit/pkg/observability/xlog"
)

// envAdminToken 优先于配置文件中的 http.admin_token
const envAdminToken = "MEALKIT_ADMIN_TOKEN"

// AppConfig mealadmin 的完整配置
type AppConfig struct {
	HTTP  HTTPConfig  `koanf:"http"`
	Log   LogConfig   `koanf:"log"`
	Cache CacheConfig `koanf:"cache"`
	Stats StatsConfig `koanf:"stats"`
	Mongo MongoConfig `koanf:"mongo"`
	Redis RedisConfig `koanf:"redis"`
}

type HTTPConfig struct {
	Addr            string        `koanf:"addr"`
	AdminToken      string        `koanf:"admin_token"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LogConfig File 为空时输出到 stderr
type LogConfig struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

type CacheConfig struct {
	MaxSize         int           `koanf:"max_size"`
	DefaultTTL      time.Duration `koanf:"default_ttl"`
	CleanupSchedule string        `koanf:"cleanup_schedule"`
}

type StatsConfig struct {
	TTL      time.Duration `koanf:"ttl"`
	Timezone string        `koanf:"timezone"`
}

type MongoConfig struct {
	URI                string        `koanf:"uri"`
	Database           string        `koanf:"database"`
	SlowQueryThreshold time.Duration `koanf:"slow_query_threshold"`
}

// RedisConfig Addr 为空时不启用跨实例失效广播
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	Channel  string `koanf:"channel"`

	// RateLimitPerMinute 每个 admin token 每分钟请求上限，0 表示不限流
	RateLimitPerMinute int `koanf:"rate_limit_per_minute"`
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		HTTP: HTTPConfig{Addr: ":8080", ShutdownTimeout: 10 * time.Second},
		Log:  LogConfig{Level: "info", Format: "text", MaxSizeMB: 100, MaxBackups: 7, MaxAgeDays: 30},
		Cache: CacheConfig{
			MaxSize:         1000,
			DefaultTTL:      5 * time.Minute,
			CleanupSchedule: "@every 1m",
		},
		Stats: StatsConfig{TTL: 5 * time.Minute, Timezone: "UTC"},
		Mongo: MongoConfig{Database: "mealkit", SlowQueryThreshold: 200 * time.Millisecond},
		Redis: RedisConfig{Channel: xinvalidate.DefaultChannel},
	}
}

// loadConfig path 为空时只用默认值与环境变量。返回的 xconf.Config 在 path 为空时为 nil。
func loadConfig(path string) (AppConfig, xconf.Config, error) {
	cfg := defaultAppConfig()
	var src xconf.Config
	if path != "" {
		c, err := xconf.New(path)
		if err != nil {
			return AppConfig{}, nil, &usageError{err: err}
		}
		if err := c.Unmarshal("", &cfg); err != nil {
			return AppConfig{}, nil, &usageError{err: err}
		}
		src = c
	}
	if tok := strings.TrimSpace(os.Getenv(envAdminToken)); tok != "" {
		cfg.HTTP.AdminToken = tok
	}
	if err := cfg.validate(); err != nil {
		return AppConfig{}, nil, &usageError{err: err}
	}
	return cfg, src, nil
}

func (c AppConfig) validate() error {
	if _, err := xlog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format: must be text or json, got %q", c.Log.Format)
	}
	if c.Cache.MaxSize <= 0 {
		return fmt.Errorf("cache.max_size: must be > 0, got %d", c.Cache.MaxSize)
	}
	if c.Cache.DefaultTTL <= 0 {
		return fmt.Errorf("cache.default_ttl: must be > 0, got %s", c.Cache.DefaultTTL)
	}
	if c.Stats.TTL <= 0 {
		return fmt.Errorf("stats.ttl: must be > 0, got %s", c.Stats.TTL)
	}
	if c.Redis.RateLimitPerMinute < 0 {
		return fmt.Errorf("redis.rate_limit_per_minute: must be >= 0, got %d", c.Redis.RateLimitPerMinute)
	}
	if _, err := time.LoadLocation(c.Stats.Timezone); err != nil {
		return fmt.Errorf("stats.timezone: %w", err)
	}
	return nil
}

// location validate 已检查过时区
func (c AppConfig) location() *time.Location {
	loc, err := time.LoadLocation(c.Stats.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
