package config

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thruflo/curvr/internal/radius"
	"github.com/thruflo/curvr/internal/testutil"
)

// reloadRecorder collects the default pipe radius of every reload.
type reloadRecorder struct {
	mu    sync.Mutex
	radii []float64
}

func (r *reloadRecorder) onChange(cfg *Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.radii = append(r.radii, cfg.Pipe.DefaultRadiusMM)
}

func (r *reloadRecorder) snapshot() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.radii...)
}

func (r *reloadRecorder) latest() (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.radii) == 0 {
		return 0, false
	}
	return r.radii[len(r.radii)-1], true
}

// startWatch runs Watch on dir until the test ends.
func startWatch(t *testing.T, dir string) *reloadRecorder {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	rec := &reloadRecorder{}
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, dir, rec.onChange) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("Watch did not return after cancel")
		}
	})
	return rec
}

// writeUntilReloaded rewrites the config until the watcher reports want.
// The first writes may land before the watcher is registered.
func writeUntilReloaded(t *testing.T, dir string, rec *reloadRecorder, content string, want float64) {
	t.Helper()
	require.Eventually(t, func() bool {
		if got, ok := rec.latest(); ok && got == want {
			return true
		}
		_ = os.WriteFile(Path(dir), []byte(content), 0o644)
		return false
	}, 5*time.Second, 5*reloadSettle)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	testutil.WriteConfig(t, tmpDir, "pipe:\n  default_radius_mm: 12\n")

	rec := startWatch(t, tmpDir)
	writeUntilReloaded(t, tmpDir, rec, "pipe:\n  default_radius_mm: 14\n", 14)

	got, _ := rec.latest()
	assert.Equal(t, 14.0, got)
}

func TestWatch_TruncatedSaveDoesNotReloadDefaults(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	testutil.WriteConfig(t, tmpDir, "pipe:\n  default_radius_mm: 12\n")

	rec := startWatch(t, tmpDir)
	writeUntilReloaded(t, tmpDir, rec, "pipe:\n  default_radius_mm: 12\n", 12)
	seen := len(rec.snapshot())

	// A save that truncates, pauses, then writes the new content.
	f, err := os.OpenFile(Path(tmpDir), os.O_WRONLY|os.O_TRUNC, 0o644)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	_, err = f.WriteString("pipe:\n  default_radius_mm: 14\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.Eventually(t, func() bool {
		got, ok := rec.latest()
		return ok && got == 14
	}, 2*time.Second, 10*time.Millisecond)

	assert.NotContains(t, rec.snapshot()[seen:], radius.DefaultPipeRadiusMM,
		"an empty file must not reload as the default config")
}

func TestWatch_KeepsPreviousConfigOnInvalidWrite(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	testutil.WriteConfig(t, tmpDir, "pipe:\n  default_radius_mm: 11\n")

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	var mu sync.Mutex
	calls := 0
	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = os.WriteFile(Path(tmpDir), []byte("pipe:\n  default_radius_mm: -1\n"), 0o644)
	}()

	err := Watch(ctx, tmpDir, func(*Config) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, calls)
}

func TestWatch_MissingDirectory(t *testing.T) {
	t.Parallel()

	err := Watch(context.Background(), t.TempDir(), func(*Config) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")
}

func TestReloadFile(t *testing.T) {
	t.Parallel()

	t.Run("empty file is skipped", func(t *testing.T) {
		t.Parallel()
		path := testutil.WriteConfig(t, t.TempDir(), "")

		cfg, err := reloadFile(path)
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("valid file", func(t *testing.T) {
		t.Parallel()
		path := testutil.WriteConfig(t, t.TempDir(), "pipe:\n  default_radius_mm: 9.5\n")

		cfg, err := reloadFile(path)
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, 9.5, cfg.Pipe.DefaultRadiusMM)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := reloadFile(Path(t.TempDir()))
		assert.Error(t, err)
	})
}
