package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultAPIURL = "http://localhost:3000"

type Config struct {
	API struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"api"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load reads YAML config from path, then applies .env and environment
// overrides. A missing file yields defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	cfg.API.BaseURL = DefaultAPIURL
	cfg.Server.Port = "8080"
	cfg.Log.Level = "info"
	cfg.Log.Format = "pretty"

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		}
	}

	_ = godotenv.Load() // .env is optional
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	override(&cfg.API.BaseURL, "QUIZ_API_URL")
	override(&cfg.API.Timeout, "QUIZ_API_TIMEOUT")
	override(&cfg.Server.Port, "PORT")
	override(&cfg.Redis.Addr, "REDIS_ADDR")
	override(&cfg.Log.Level, "LOG_LEVEL")
	override(&cfg.Log.Format, "LOG_FORMAT")
}

func override(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
