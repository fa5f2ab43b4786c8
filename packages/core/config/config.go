package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the referee configuration
type Config struct {
	Verbose     *bool             `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	NoColor     *bool             `json:"noColor,omitempty" yaml:"noColor,omitempty"`
	Bail        *bool             `json:"bail,omitempty" yaml:"bail,omitempty"`
	Parallel    *bool             `json:"parallel,omitempty" yaml:"parallel,omitempty"`
	Concurrency int               `json:"concurrency,omitempty" yaml:"concurrency,omitempty"` // Number of cases run at once
	MaxDepth    int               `json:"maxDepth,omitempty" yaml:"maxDepth,omitempty"`       // Nesting rendered in messages
	MaxLength   int               `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`     // Rendered value length, 0 is unlimited
	Reporter    string            `json:"reporter,omitempty" yaml:"reporter,omitempty"`
	Messages    map[string]string `json:"messages,omitempty" yaml:"messages,omitempty"` // Template overrides, e.g. "assert.match.exceptionMessage"
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetBail returns the bail setting, defaulting to false
func (c *Config) GetBail() bool {
	return getBool(c.Bail, false)
}

// GetParallel returns the parallel setting, defaulting to false
func (c *Config) GetParallel() bool {
	return getBool(c.Parallel, false)
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".referee.json",
	"referee.config.json",
	".referee.yaml",
	".referee.yml",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.Concurrency > 0 {
		result.Concurrency = other.Concurrency
	}
	if other.MaxDepth > 0 {
		result.MaxDepth = other.MaxDepth
	}
	if other.MaxLength > 0 {
		result.MaxLength = other.MaxLength
	}
	if other.Reporter != "" {
		result.Reporter = other.Reporter
	}

	// Boolean flags - only override if explicitly set in other config
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}
	if other.Bail != nil {
		result.Bail = other.Bail
	}
	if other.Parallel != nil {
		result.Parallel = other.Parallel
	}

	if len(c.Messages) > 0 || len(other.Messages) > 0 {
		result.Messages = make(map[string]string, len(c.Messages)+len(other.Messages))
		for k, v := range c.Messages {
			result.Messages[k] = v
		}
		for k, v := range other.Messages {
			result.Messages[k] = v
		}
	}

	return &result
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
