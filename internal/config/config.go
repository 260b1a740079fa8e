// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// DefaultOutputDir is where artifacts land when no directory is configured.
const DefaultOutputDir = "output"

// Config holds everything the analyzer needs: Reddit script-app credentials,
// the Gemini API key, and output settings. Values come from the environment
// (optionally seeded by a .env file) and may be overridden by a JSON config
// file plus CLI flags.
type Config struct {
	RedditClientID     string `json:"reddit_client_id,omitempty" validate:"required"`
	RedditClientSecret string `json:"reddit_client_secret,omitempty" validate:"required"`
	RedditUserAgent    string `json:"reddit_user_agent,omitempty"`
	GeminiAPIKey       string `json:"gemini_api_key,omitempty" validate:"required"`
	OutputDir          string `json:"output_dir,omitempty"`
	Verbose            bool   `json:"verbose,omitempty"`
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		RedditClientID:     os.Getenv("REDDIT_CLIENT_ID"),
		RedditClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
		RedditUserAgent:    os.Getenv("REDDIT_USER_AGENT"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		OutputDir:          os.Getenv("OUTPUT_DIR"),
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration carries everything a run needs.
func (c *Config) Validate() error {
	v := validator.New()
	err := v.Struct(c)
	if err == nil {
		return nil
	}

	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fieldErr := range fieldErrs {
			switch fieldErr.Field() {
			case "RedditClientID":
				return fmt.Errorf("config error: REDDIT_CLIENT_ID is required")
			case "RedditClientSecret":
				return fmt.Errorf("config error: REDDIT_CLIENT_SECRET is required")
			case "GeminiAPIKey":
				return fmt.Errorf("config error: GEMINI_API_KEY is required")
			}
		}
	}
	return fmt.Errorf("config error: %w", err)
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. CLI flags merge over a config file, which merges over the
// environment.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.RedditClientID == "" {
		result.RedditClientID = defaults.RedditClientID
	}
	if result.RedditClientSecret == "" {
		result.RedditClientSecret = defaults.RedditClientSecret
	}
	if result.RedditUserAgent == "" {
		result.RedditUserAgent = defaults.RedditUserAgent
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if !result.Verbose {
		result.Verbose = defaults.Verbose
	}

	if result.OutputDir == "" {
		result.OutputDir = DefaultOutputDir
	}
	return result
}
