// Package config handles configuration loading and management for referee.
//
// It provides functionality for:
//   - Loading configuration from .referee.json or .referee.yaml files
//   - Default configuration values
//   - Overriding assertion message templates
package config
