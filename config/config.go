package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable override, e.g. REVIEWS_REVIEWS_API_KEY.
const EnvPrefix = "REVIEWS"

// Load loads the configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".reviewsctl"))
		}

		v.AddConfigPath("/etc/reviewsctl/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Without an explicit path the environment alone may be enough
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// AutomaticEnv only resolves keys viper already knows about
	v.SetDefault("reviews.api_key", "")
	v.SetDefault("reviews.base_url", "")
	v.SetDefault("reviews.timeout_ms", 30000)

	v.SetDefault("output.format", "console")
	v.SetDefault("output.show_details", true)
	v.SetDefault("output.color", true)

	v.SetDefault("filter.default_expression", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Reviews.APIKey == "" || cfg.Reviews.APIKey == "your-api-key-here" {
		return fmt.Errorf("reviews.api_key must be set to a valid API key")
	}

	if cfg.Reviews.BaseURL == "" {
		return fmt.Errorf("reviews.base_url is required")
	}

	if cfg.Reviews.TimeoutMS <= 0 {
		return fmt.Errorf("reviews.timeout_ms must be positive, got %d", cfg.Reviews.TimeoutMS)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}
	if !validFormats[cfg.Output.Format] {
		return fmt.Errorf("invalid output format: %s (must be 'console' or 'json')", cfg.Output.Format)
	}

	for name, expr := range cfg.Filter.Presets {
		if strings.TrimSpace(expr) == "" {
			return fmt.Errorf("filter preset %q has an empty expression", name)
		}
	}

	return nil
}
