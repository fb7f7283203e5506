package defaults

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.toml")
	require.NoError(t, os.WriteFile(path, []byte("quality = 95\n"), 0o600))

	reloaded := make(chan Static, 4)
	w, err := Watch(context.Background(), path,
		WithLogger(zap.NewNop()),
		WithDebounce(10*time.Millisecond),
		WithReloadHook(func(s Static) { reloaded <- s }),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, map[string]any{"quality": 95}, w.Defaults())

	require.NoError(t, os.WriteFile(path, []byte("quality = 80\n"), 0o600))

	require.Eventually(t, func() bool {
		return w.Defaults()["quality"] == 80
	}, 5*time.Second, 20*time.Millisecond)

	select {
	case snapshot := <-reloaded:
		assert.Contains(t, snapshot, "quality")
	case <-time.After(5 * time.Second):
		t.Fatal("reload hook was not called")
	}
}

func TestWatcherKeepsSnapshotOnBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cache": true}`), 0o600))

	reloaded := make(chan Static, 4)
	w, err := Watch(context.Background(), path,
		WithDebounce(10*time.Millisecond),
		WithReloadHook(func(s Static) { reloaded <- s }),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, os.WriteFile(path, []byte(`{"cache": `), 0o600))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, map[string]any{"cache": true}, w.Defaults())

	require.NoError(t, os.WriteFile(path, []byte(`{"cache": false}`), 0o600))
	require.Eventually(t, func() bool {
		return w.Defaults()["cache"] == false
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatcherKeepsSnapshotWhenFileTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"quality": 95}`), 0o600))

	w, err := Watch(context.Background(), path, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, os.WriteFile(path, nil, 0o600))
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, map[string]any{"quality": 95}, w.Defaults())

	require.NoError(t, os.WriteFile(path, []byte(`{"quality": 80}`), 0o600))
	require.Eventually(t, func() bool {
		return w.Defaults()["quality"] == 80
	}, 5*time.Second, 20*time.Millisecond)
}

func TestLoadReplacementRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.toml")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

	_, err := loadReplacement(path)
	require.ErrorIs(t, err, ErrEmptyFile)

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestWatchMissingFile(t *testing.T) {
	_, err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache: true\n"), 0o600))

	w, err := Watch(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.Equal(t, map[string]any{"cache": true}, w.Defaults())
}
