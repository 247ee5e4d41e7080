// Package config provides YAML-based configuration loading with environment variable expansion.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Validator is an interface for configuration validation.
type Validator interface {
	Validate() error
}

// Load loads configuration from a YAML file with environment variable
// expansion. Both ${VAR} and ${VAR:-default} are supported.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expandedData := os.Expand(string(data), lookupEnv)

	if err := yaml.Unmarshal([]byte(expandedData), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	if validator, ok := any(target).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	return nil
}

// lookupEnv resolves "NAME" or "NAME:-default". The default applies when
// the variable is unset or empty.
func lookupEnv(key string) string {
	name, def, hasDefault := strings.Cut(key, ":-")
	if v := os.Getenv(name); v != "" || !hasDefault {
		return v
	}
	return def
}
