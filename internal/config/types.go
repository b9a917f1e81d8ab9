package config

import "time"

// PipeConfig describes the pipe stock being measured.
type PipeConfig struct {
	DefaultRadiusMM float64 `yaml:"default_radius_mm"`
}

// DebounceConfig controls how long input must settle before it is used.
type DebounceConfig struct {
	SettleMS int `yaml:"settle_ms"`
}

// Config represents the .curvr/config.yaml file.
// The chord distance between the measurement points is fixed and has no
// setting here.
type Config struct {
	Pipe     PipeConfig     `yaml:"pipe"`
	Debounce DebounceConfig `yaml:"debounce"`
	LogLevel string         `yaml:"log_level"`
}

// SettleTime returns the debounce settle time as a duration.
func (c Config) SettleTime() time.Duration {
	return time.Duration(c.Debounce.SettleMS) * time.Millisecond
}
