package config

import "time"

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StorageConfig selects the key-value backend for local state.
type StorageConfig struct {
	Driver     string `mapstructure:"driver"` // sqlite, redis, memory
	SQLitePath string `mapstructure:"sqlite_path"`
	KeyPrefix  string `mapstructure:"key_prefix"`
	// KeyringService names the OS keyring entry holding the account password.
	KeyringService string `mapstructure:"keyring_service"`
}

// HackerNewsConfig controls the upstream read APIs.
type HackerNewsConfig struct {
	BaseAPI        string  `mapstructure:"base_api"`
	AlgoliaAPI     string  `mapstructure:"algolia_api"`
	WebURL         string  `mapstructure:"web_url"`
	MaxConcurrent  int     `mapstructure:"max_concurrent"`
	CommentWorkers int     `mapstructure:"comment_workers"`
	RequestTimeout string  `mapstructure:"request_timeout"` // duration string, e.g., "10s"
	RatePerSecond  float64 `mapstructure:"rate_per_second"` // 0 disables pacing
}

// AccountConfig holds optional credentials used for silent re-login.
type AccountConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// AIConfig controls summary and chat generation.
type AIConfig struct {
	Provider string       `mapstructure:"provider"` // gemini, openai
	Gemini   GeminiConfig `mapstructure:"gemini"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
}

type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// CleanupConfig holds age thresholds for the cached collections.
type CleanupConfig struct {
	SummaryMaxAge  string `mapstructure:"summary_max_age"`
	FavoriteMaxAge string `mapstructure:"favorite_max_age"`
	ChatMaxAge     string `mapstructure:"chat_max_age"`
	Interval       string `mapstructure:"interval"`
}

// ThumbnailConfig controls preview image generation.
type ThumbnailConfig struct {
	OutputDir   string `mapstructure:"output_dir"`
	WebPQuality int    `mapstructure:"webp_quality"`
	CacheSize   int    `mapstructure:"cache_size"`
}

// Config is the top-level configuration structure.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Storage    StorageConfig    `mapstructure:"storage"`
	HackerNews HackerNewsConfig `mapstructure:"hackernews"`
	Account    AccountConfig    `mapstructure:"account"`
	AI         AIConfig         `mapstructure:"ai"`
	Cleanup    CleanupConfig    `mapstructure:"cleanup"`
	Thumbnail  ThumbnailConfig  `mapstructure:"thumbnail"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "./hnews.db"
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "hnews"
	}
	if c.Storage.KeyringService == "" {
		c.Storage.KeyringService = "hnews"
	}
	if c.HackerNews.BaseAPI == "" {
		c.HackerNews.BaseAPI = "https://hacker-news.firebaseio.com/v0"
	}
	if c.HackerNews.AlgoliaAPI == "" {
		c.HackerNews.AlgoliaAPI = "https://hn.algolia.com/api/v1"
	}
	if c.HackerNews.WebURL == "" {
		c.HackerNews.WebURL = "https://news.ycombinator.com"
	}
	if c.HackerNews.MaxConcurrent <= 0 {
		c.HackerNews.MaxConcurrent = 3
	}
	if c.HackerNews.CommentWorkers <= 0 {
		c.HackerNews.CommentWorkers = 5
	}
	if c.HackerNews.RequestTimeout == "" {
		c.HackerNews.RequestTimeout = "10s"
	}
	if c.AI.Provider == "" {
		c.AI.Provider = "gemini"
	}
	if c.AI.Gemini.Model == "" {
		c.AI.Gemini.Model = "gemini-2.5-flash"
	}
	if c.AI.OpenAI.Model == "" {
		c.AI.OpenAI.Model = "gpt-4o-mini"
	}
	if c.Cleanup.SummaryMaxAge == "" {
		c.Cleanup.SummaryMaxAge = "24h"
	}
	if c.Cleanup.FavoriteMaxAge == "" {
		c.Cleanup.FavoriteMaxAge = "2160h" // 90 days
	}
	if c.Cleanup.ChatMaxAge == "" {
		c.Cleanup.ChatMaxAge = "720h" // 30 days
	}
	if c.Cleanup.Interval == "" {
		c.Cleanup.Interval = "6h"
	}
	if c.Thumbnail.OutputDir == "" {
		c.Thumbnail.OutputDir = "./thumbnails"
	}
	if c.Thumbnail.WebPQuality <= 0 || c.Thumbnail.WebPQuality > 100 {
		c.Thumbnail.WebPQuality = 80
	}
	if c.Thumbnail.CacheSize <= 0 {
		c.Thumbnail.CacheSize = 256
	}
}

// Duration parses a duration string, returning def when empty or invalid.
func Duration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
