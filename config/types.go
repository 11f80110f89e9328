package config

import (
	"time"

	"github.com/matija2209/alexa-maxa-reviews-sdk/reviews"
)

// Config represents the complete configuration structure
type Config struct {
	Reviews ReviewsConfig `mapstructure:"reviews"`
	Output  OutputConfig  `mapstructure:"output"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ReviewsConfig holds the reviews API connection details
type ReviewsConfig struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	TimeoutMS int    `mapstructure:"timeout_ms"`
}

// OutputConfig controls how results are printed
type OutputConfig struct {
	Format      string `mapstructure:"format"`
	ShowDetails bool   `mapstructure:"show_details"`
	Color       bool   `mapstructure:"color"`
}

// FilterConfig contains the default filter expression and named presets
type FilterConfig struct {
	DefaultExpression string            `mapstructure:"default_expression"`
	Presets           map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// ClientConfig converts the reviews section into SDK configuration.
func (c *Config) ClientConfig() reviews.Config {
	return reviews.Config{
		APIKey:  c.Reviews.APIKey,
		BaseURL: c.Reviews.BaseURL,
		Timeout: time.Duration(c.Reviews.TimeoutMS) * time.Millisecond,
	}
}

// Expression resolves name to a preset expression. Names that are not presets
// are returned unchanged so a raw expression can be passed in their place.
func (f FilterConfig) Expression(name string) string {
	if name == "" {
		return f.DefaultExpression
	}
	if expr, ok := f.Presets[name]; ok {
		return expr
	}
	return name
}
