package configwatcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchFileDebounces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "student.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int32
	done := make(chan error, 1)
	go func() {
		done <- WatchFile(ctx, path, 100*time.Millisecond, func() { atomic.AddInt32(&calls, 1) })
	}()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`{"n": 1}`), 0644))
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0644))

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
