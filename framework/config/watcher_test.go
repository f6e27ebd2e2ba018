package config_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-facade/framework/config"
)

func writeConfig(t *testing.T, path, name string) {
	t.Helper()
	content := fmt.Sprintf("app:\n  name: %s\n", name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestNewWatcher_AbsolutePath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.yaml")
	writeConfig(t, path, "a")

	w, err := config.NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	assert.True(t, filepath.IsAbs(w.Path()))
}

func TestNewWatcher_InvalidDir(t *testing.T) {
	t.Parallel()

	w, err := config.NewWatcher("/nonexistent/path/to/app.yaml")
	if err == nil {
		w.Close()
		t.Fatal("expected error for non-existent directory")
	}
}

func TestWatcher_ReloadDelivered(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.yaml")
	writeConfig(t, path, "before")

	w, err := config.NewWatcher(path, config.WithDebounceDelay(20*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	got := make(chan string, 8)
	w.OnReload(func(cfg *config.Config) error {
		got <- cfg.App.Name
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Watch(ctx) }()

	// Allow watcher to initialize
	time.Sleep(50 * time.Millisecond)
	writeConfig(t, path, "after")

	select {
	case name := <-got:
		assert.Equal(t, "after", name)
	case <-time.After(2 * time.Second):
		t.Fatal("callback not invoked within timeout")
	}
}

func TestWatcher_Debounce(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.yaml")
	writeConfig(t, path, "v0")

	w, err := config.NewWatcher(path, config.WithDebounceDelay(200*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	var calls atomic.Int32
	w.OnReload(func(*config.Config) error {
		calls.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Watch(ctx) }()

	time.Sleep(50 * time.Millisecond)
	for i := range 5 {
		writeConfig(t, path, fmt.Sprintf("v%d", i+1))
		time.Sleep(20 * time.Millisecond)
	}
	time.Sleep(400 * time.Millisecond)

	// Rapid writes collapse; allow one extra for slow filesystems.
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
	assert.LessOrEqual(t, calls.Load(), int32(2))
}

func TestWatcher_CloseTwice(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.yaml")
	writeConfig(t, path, "a")

	w, err := config.NewWatcher(path)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Close(), config.ErrWatcherClosed)
}
