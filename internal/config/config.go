package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

const (
	DefaultConfigDir  = ".movie-recommender"
	DefaultConfigFile = "config.yaml"

	// EnvPrefix prefixes every environment override, e.g.
	// MOVIEREC_CATALOG__CACHE_TTL=1h sets catalog.cache_ttl.
	EnvPrefix = "MOVIEREC_"

	// ConfigPathEnvVar overrides the config file location.
	ConfigPathEnvVar = "MOVIEREC_CONFIG"
)

const (
	DefaultRatingsSource = "https://raw.githubusercontent.com/sidooms/MovieTweetings/master/latest/ratings.dat"
	DefaultMoviesSource  = "https://raw.githubusercontent.com/sidooms/MovieTweetings/master/latest/movies.dat"
)

// Config represents the application configuration
type Config struct {
	Catalog   CatalogConfig   `koanf:"catalog" yaml:"catalog"`
	Recommend RecommendConfig `koanf:"recommend" yaml:"recommend"`
	Storage   StorageConfig   `koanf:"storage" yaml:"storage"`
	Log       LogConfig       `koanf:"log" yaml:"log"`
	Server    ServerConfig    `koanf:"server" yaml:"server"`
}

// CatalogConfig describes where the movie and rating datasets come from and
// how they are parsed. Sources are http(s) URLs or local file paths.
type CatalogConfig struct {
	RatingsSource  string `koanf:"ratings_source" yaml:"ratings_source" validate:"required"`
	MoviesSource   string `koanf:"movies_source" yaml:"movies_source" validate:"required"`
	Separator      string `koanf:"separator" yaml:"separator" validate:"required"`
	GenreSeparator string `koanf:"genre_separator" yaml:"genre_separator" validate:"required"`

	// ExcludedGenre removes every movie carrying this tag before the
	// vocabulary is derived. Empty disables the filter.
	ExcludedGenre string `koanf:"excluded_genre" yaml:"excluded_genre"`

	// CacheTTL bounds the age of persisted dataset snapshots. 0 disables
	// the persistent cache.
	CacheTTL     time.Duration `koanf:"cache_ttl" yaml:"cache_ttl" validate:"gte=0"`
	FetchTimeout time.Duration `koanf:"fetch_timeout" yaml:"fetch_timeout" validate:"gt=0"`
}

type RecommendConfig struct {
	K int `koanf:"k" yaml:"k" validate:"min=1,max=50"`
}

type StorageConfig struct {
	Path string `koanf:"path" yaml:"path" validate:"required"`
}

type LogConfig struct {
	Level  string `koanf:"level" yaml:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" yaml:"format" validate:"oneof=console json"`
}

type ServerConfig struct {
	Addr string `koanf:"addr" yaml:"addr" validate:"required"`

	// RateLimit is requests per minute per client IP. 0 disables limiting.
	RateLimit int `koanf:"rate_limit" yaml:"rate_limit" validate:"gte=0"`
}

func DefaultConfig() *Config {
	storagePath := filepath.Join(DefaultConfigDir, "db")
	if homeDir, err := os.UserHomeDir(); err == nil {
		storagePath = filepath.Join(homeDir, DefaultConfigDir, "db")
	}

	return &Config{
		Catalog: CatalogConfig{
			RatingsSource:  DefaultRatingsSource,
			MoviesSource:   DefaultMoviesSource,
			Separator:      "::",
			GenreSeparator: "|",
			ExcludedGenre:  "Adult",
			CacheTTL:       24 * time.Hour,
			FetchTimeout:   2 * time.Minute,
		},
		Recommend: RecommendConfig{
			K: 5,
		},
		Storage: StorageConfig{
			Path: storagePath,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr:      ":8080",
			RateLimit: 120,
		},
	}
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, DefaultConfigDir, DefaultConfigFile), nil
}

// Load loads the configuration from file, creating default if not exists
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		// If save fails the defaults are still usable
		_ = Save(DefaultConfig(), configPath)
	}

	return LoadFrom(configPath)
}

// LoadFrom layers defaults, the YAML file at path (if present) and
// environment overrides, then validates the result.
func LoadFrom(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// envTransform maps MOVIEREC_CATALOG__CACHE_TTL to catalog.cache_ttl.
func envTransform(key string) string {
	key = strings.TrimPrefix(key, EnvPrefix)
	if key == "CONFIG" {
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(key), "__", ".")
}

// Save saves the configuration to path
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("cannot save invalid config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yamlv3.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

var validate = validator.New()

// Validate validates the configuration values
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Catalog.Separator == c.Catalog.GenreSeparator {
		return fmt.Errorf("catalog.separator and catalog.genre_separator must differ, both are %q", c.Catalog.Separator)
	}

	return nil
}
