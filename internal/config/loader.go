package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thruflo/curvr/internal/logging"
	"github.com/thruflo/curvr/internal/radius"
)

// Default values for Config.
const (
	DefaultSettleMS = int(radius.SettleTime / time.Millisecond)
	DefaultLogLevel = "warn"
)

// DirName is the per-project configuration directory.
const DirName = ".curvr"

// FileName is the configuration file inside DirName.
const FileName = "config.yaml"

// DefaultConfig returns a Config with the standard pipe and settle time.
func DefaultConfig() Config {
	return Config{
		Pipe:     PipeConfig{DefaultRadiusMM: radius.DefaultPipeRadiusMM},
		Debounce: DebounceConfig{SettleMS: DefaultSettleMS},
		LogLevel: DefaultLogLevel,
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Path returns the config file location under basePath.
func Path(basePath string) string {
	return filepath.Join(basePath, DirName, FileName)
}

// LoadConfig reads and parses .curvr/config.yaml from the given base path.
// If the file doesn't exist, returns default config.
// Applies defaults for any missing fields.
func LoadConfig(basePath string) (*Config, error) {
	return LoadFile(Path(basePath))
}

// LoadFile reads and parses the config file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ValidateConfig checks that all config values are valid.
func ValidateConfig(cfg *Config) error {
	if cfg.Pipe.DefaultRadiusMM <= 0 {
		return ValidationError{Field: "pipe.default_radius_mm", Message: "must be positive"}
	}
	if cfg.Debounce.SettleMS <= 0 {
		return ValidationError{Field: "debounce.settle_ms", Message: "must be positive"}
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return ValidationError{Field: "log_level", Message: "must be one of debug, info, warn, error"}
	}
	return nil
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
