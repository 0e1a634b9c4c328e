package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	NewsAPIBaseURL      string `mapstructure:"news_api_base_url"`
	NewsAPIToken        string `mapstructure:"news_api_token"`
	NewsAPIUnwrapKey    string `mapstructure:"news_api_unwrap_key"`
	NewsAPIProfileFile  string `mapstructure:"news_api_profile_file"`
	DefaultLocale       string `mapstructure:"default_locale"`
	DefaultLanguage     string `mapstructure:"default_language"`
	PlaceholderImageURL string `mapstructure:"placeholder_image_url"`

	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`

	PublishersFile       string        `mapstructure:"publishers_file"`
	RelayIntervalSeconds int64         `mapstructure:"relay_interval"`
	RelayInterval        time.Duration `mapstructure:"-"`
	RelayCategories      string        `mapstructure:"relay_categories"`
	RelayEnrich          bool          `mapstructure:"relay_enrich"`
}

// String hides the API token so the config can be logged as-is.
func (c Config) String() string {
	token := "<unset>"
	if c.NewsAPIToken != "" {
		token = "<redacted>"
	}
	return fmt.Sprintf("app=%s env=%s base_url=%s token=%s locale=%s language=%s timeout=%s",
		c.AppName, c.Env, c.NewsAPIBaseURL, token, c.DefaultLocale, c.DefaultLanguage, c.RequestTimeout)
}

// Summary returns a loggable view of the configuration without secrets.
func (c Config) Summary() map[string]any {
	return map[string]any{
		"app_name":             c.AppName,
		"app_env":              c.Env,
		"log_level":            c.LogLevel,
		"news_api_base_url":    c.NewsAPIBaseURL,
		"news_api_token_set":   c.NewsAPIToken != "",
		"news_api_unwrap_key":  c.NewsAPIUnwrapKey,
		"news_api_profile":     c.NewsAPIProfileFile,
		"default_locale":       c.DefaultLocale,
		"default_language":     c.DefaultLanguage,
		"request_timeout":      c.RequestTimeout.String(),
		"publishers_file":      c.PublishersFile,
		"relay_interval":       c.RelayInterval.String(),
		"relay_categories":     c.RelayCategories,
		"relay_enrich":         c.RelayEnrich,
	}
}

// RelayCategoryList splits RelayCategories on commas, dropping blanks.
func (c Config) RelayCategoryList() []string {
	var out []string
	for _, part := range strings.Split(c.RelayCategories, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ConfigDir is the per-user directory searched for config.yaml.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, "khobor")
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "khobor-reader")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("news_api_base_url", "https://api.thenewsapi.com/v1")
	v.SetDefault("news_api_token", "")
	v.SetDefault("news_api_unwrap_key", "")
	v.SetDefault("news_api_profile_file", "")
	v.SetDefault("default_locale", "us")
	v.SetDefault("default_language", "en")
	v.SetDefault("placeholder_image_url", "https://via.placeholder.com/300x200?text=No+Image")
	v.SetDefault("request_timeout_seconds", 15)
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("relay_interval", 900) // seconds
	v.SetDefault("relay_categories", "")
	v.SetDefault("relay_enrich", false)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(ConfigDir())
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.AutomaticEnv()

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.NewsAPIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.NewsAPIBaseURL), "/")
	if cfg.NewsAPIBaseURL == "" {
		return nil, fmt.Errorf("news_api_base_url is required")
	}
	cfg.NewsAPIToken = strings.TrimSpace(cfg.NewsAPIToken)

	if cfg.RequestTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if cfg.RelayIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid relay_interval (must be positive seconds)")
	}
	cfg.RelayInterval = time.Duration(cfg.RelayIntervalSeconds) * time.Second

	return &cfg, nil
}
