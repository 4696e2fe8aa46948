// Package config はサーバーと生成クライアントの設定を読み込みます。
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/shouni/vibe-ui-kit/pkg/generator"
)

const envPrefix = "VIBE_"

// APIKeyEnvVars は gemini.api_key が未設定のときに順に参照する環境変数です。
var APIKeyEnvVars = []string{"GEMINI_API_KEY", "API_KEY"}

// Config は vibe.yml に対応するトップレベルの設定です。
type Config struct {
	LogLevel  string          `koanf:"log_level"`
	Server    ServerConfig    `koanf:"server"`
	Gemini    GeminiConfig    `koanf:"gemini"`
	Image     ImageConfig     `koanf:"image"`
	Session   SessionConfig   `koanf:"session"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

type ServerConfig struct {
	Addr     string `koanf:"addr"`
	AllowAll bool   `koanf:"allow_all_origins"`
}

type GeminiConfig struct {
	APIKey      string  `koanf:"api_key"`
	Model       string  `koanf:"model"`
	Temperature float32 `koanf:"temperature"`
}

type ImageConfig struct {
	MaxUploadBytes     int64         `koanf:"max_upload_bytes"`
	CompressAboveBytes int           `koanf:"compress_above_bytes"`
	JPEGQuality        int           `koanf:"jpeg_quality"`
	RemoteCacheTTL     time.Duration `koanf:"remote_cache_ttl"`
	FetchTimeout       time.Duration `koanf:"fetch_timeout"`
}

type SessionConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

// RateLimitConfig はセッションごとの生成リクエスト数を制限します。
type RateLimitConfig struct {
	PerMinute int `koanf:"per_minute"`
	Burst     int `koanf:"burst"`
}

// Default は既定値を持つ Config を返します。
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Server: ServerConfig{
			Addr: "localhost:8080",
		},
		Gemini: GeminiConfig{
			Model:       generator.DefaultModel,
			Temperature: generator.DefaultTemperature,
		},
		Image: ImageConfig{
			MaxUploadBytes:     10 << 20,
			CompressAboveBytes: 4 << 20,
			JPEGQuality:        generator.DefaultJPEGQuality,
			RemoteCacheTTL:     15 * time.Minute,
			FetchTimeout:       30 * time.Second,
		},
		Session: SessionConfig{
			TTL: 2 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			PerMinute: 6,
			Burst:     2,
		},
	}
}

// Load は既定値に YAML ファイル（存在する場合）と VIBE_* 環境変数を重ねて読み込みます。
// 環境変数のネストは二重アンダースコアで表します（VIBE_GEMINI__MODEL → gemini.model）。
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if cfg.Gemini.APIKey == "" {
		for _, name := range APIKeyEnvVars {
			if v := os.Getenv(name); v != "" {
				cfg.Gemini.APIKey = v
				break
			}
		}
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate は設定値の範囲を検証します。API キーの欠如はここでは扱いません。
func (c *Config) Validate() error {
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Gemini.Model == "" {
		return fmt.Errorf("gemini.model is required")
	}
	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		return fmt.Errorf("gemini.temperature must be within [0, 2]")
	}
	if c.Image.MaxUploadBytes <= 0 {
		return fmt.Errorf("image.max_upload_bytes must be positive")
	}
	if c.Image.CompressAboveBytes < 0 {
		return fmt.Errorf("image.compress_above_bytes must be non-negative")
	}
	if c.Image.JPEGQuality < 1 || c.Image.JPEGQuality > 100 {
		return fmt.Errorf("image.jpeg_quality must be within [1, 100]")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	if c.RateLimit.PerMinute < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate_limit values must be non-negative")
	}
	return nil
}

// GeneratorOptions は生成クライアント用のオプションに変換します。
func (c *Config) GeneratorOptions() generator.Options {
	temperature := c.Gemini.Temperature
	return generator.Options{
		APIKey:             c.Gemini.APIKey,
		Model:              c.Gemini.Model,
		Temperature:        &temperature,
		CompressAboveBytes: c.Image.CompressAboveBytes,
		JPEGQuality:        c.Image.JPEGQuality,
	}
}
