package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestRunRebuildsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "goldentower.yaml")
	require.NoError(t, os.WriteFile(path, []byte("build: {}\n"), 0o644))

	calls := make(chan struct{}, 8)
	w := &Watcher{
		Path:     path,
		Debounce: 40 * time.Millisecond,
		Log:      zaptest.NewLogger(t),
		OnChange: func(ctx context.Context) error {
			calls <- struct{}{}
			return errors.New("rebuild errors do not stop watching")
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Writes to other files in the directory are ignored.
	waitWatching(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))
	select {
	case <-calls:
		t.Fatal("rebuilt for an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}

	for i := 0; i < 2; i++ {
		require.NoError(t, os.WriteFile(path, []byte("build: {coupons: true}\n"), 0o644))
		select {
		case <-calls:
		case <-time.After(5 * time.Second):
			t.Fatalf("no rebuild after change %d", i)
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRunMissingDirectory(t *testing.T) {
	defer goleak.VerifyNone(t)
	w := &Watcher{
		Path:     filepath.Join(t.TempDir(), "absent", "goldentower.yaml"),
		OnChange: func(context.Context) error { return nil },
	}
	assert.Error(t, w.Run(context.Background()))
}

// waitWatching gives Run time to register the directory watch.
func waitWatching(t *testing.T) {
	t.Helper()
	time.Sleep(100 * time.Millisecond)
}
