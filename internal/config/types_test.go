package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfig_YAMLMarshal(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Pipe:     PipeConfig{DefaultRadiusMM: 12.7},
		Debounce: DebounceConfig{SettleMS: 300},
		LogLevel: "info",
	}

	got, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	assert.Equal(t, `pipe:
    default_radius_mm: 12.7
debounce:
    settle_ms: 300
log_level: info
`, string(got))
}

func TestConfig_SettleTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ms   int
		want time.Duration
	}{
		{"default", 300, 300 * time.Millisecond},
		{"fast", 50, 50 * time.Millisecond},
		{"unset", 0, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Config{Debounce: DebounceConfig{SettleMS: tt.ms}}
			assert.Equal(t, tt.want, cfg.SettleTime())
		})
	}
}
