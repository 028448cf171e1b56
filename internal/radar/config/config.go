package config

import (
	"time"

	"investor-radar/pkg/config"
)

// RadarAPI holds the configuration for the upstream radar API.
type RadarAPI struct {
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	TrendingLimit       int           `mapstructure:"trending_limit"`
}

// Cache holds the configuration for the stats/trending response cache.
type Cache struct {
	Provider string        `mapstructure:"provider"` // "memory" or "redis"
	TTL      time.Duration `mapstructure:"ttl"`
	Prefix   string        `mapstructure:"prefix"`
}

// Warmup holds the configuration for the cache warmup job.
type Warmup struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// Session holds the configuration for viewer sessions.
type Session struct {
	CookieName string        `mapstructure:"cookie_name"`
	TTL        time.Duration `mapstructure:"ttl"`
}

// Config holds the full configuration for the radar web service.
type Config struct {
	App      config.App    `mapstructure:"app"`
	Logger   config.Logger `mapstructure:"logger"`
	API      config.API    `mapstructure:"api"`
	Redis    config.Redis  `mapstructure:"redis"`
	RadarAPI RadarAPI      `mapstructure:"radar_api"`
	Cache    Cache         `mapstructure:"cache"`
	Warmup   Warmup        `mapstructure:"warmup"`
	Session  Session       `mapstructure:"session"`
}

// Defaults returns the values used when neither the file nor the
// environment sets a key.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"app.name":                         "investor-radar",
		"app.env":                          "development",
		"app.time_zone":                    "Asia/Shanghai",
		"logger.level":                     "info",
		"logger.encoding":                  "json",
		"api.host":                         "",
		"api.port":                         8080,
		"redis.host":                       "localhost",
		"redis.port":                       6379,
		"redis.password":                   "",
		"redis.db":                         0,
		"redis.pool_size":                  10,
		"radar_api.base_url":               "http://localhost:5000/api",
		"radar_api.timeout":                "10s",
		"radar_api.max_request_per_minute": 600,
		"radar_api.trending_limit":         5,
		"cache.provider":                   "memory",
		"cache.ttl":                        "1m",
		"cache.prefix":                     "radar",
		"warmup.enabled":                   true,
		"warmup.schedule":                  "@every 30s",
		"session.cookie_name":              "radar_session",
		"session.ttl":                      "30m",
	}
}

// Load loads the radar configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg, Defaults()); err != nil {
		return nil, err
	}
	return &cfg, nil
}
