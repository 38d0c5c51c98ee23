package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	GitHubToken      string
	Addr             string
	APIBaseURL       string
	HTTPTimeout      time.Duration
	BatchConcurrency int
	LogLevel         string
}

// NewConfig creates a new Config instance
func NewConfig() *Config {
	return &Config{}
}

// Load loads configuration from environment variables
func (c *Config) Load() error {
	// Set up Viper
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Read .env file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// The token is optional; without it requests are unauthenticated and
	// GitHub applies lower rate limits.
	c.GitHubToken = viper.GetString("GITHUB_TOKEN")

	// Optional fields with defaults
	c.Addr = viper.GetString("HTTP_ADDR")
	if c.Addr == "" {
		c.Addr = ":8080"
	}

	c.APIBaseURL = viper.GetString("GITHUB_API_URL")
	if c.APIBaseURL == "" {
		c.APIBaseURL = "https://api.github.com"
	}

	c.HTTPTimeout = viper.GetDuration("HTTP_TIMEOUT")
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 30 * time.Second
	}

	c.BatchConcurrency = viper.GetInt("BATCH_CONCURRENCY")
	if c.BatchConcurrency <= 0 {
		c.BatchConcurrency = 8
	}

	c.LogLevel = viper.GetString("LOG_LEVEL")
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	return nil
}
