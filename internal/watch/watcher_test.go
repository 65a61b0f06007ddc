package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerCoalesces(t *testing.T) {
	var mu sync.Mutex
	var batches [][]string

	d := NewDebouncer(30 * time.Millisecond)
	d.SetCallback(func(files []string) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, files)
	})

	d.Add("a.js")
	d.Add("b.js")
	d.Add("a.js")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, batches[0], 2, "duplicate adds collapse into one entry")
}

func TestWatcherTriggersOnScriptChange(t *testing.T) {
	dir := t.TempDir()

	var mu sync.Mutex
	var seen []string
	w, err := New(dir, []string{"manifest.json"}, func(files []string) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, files...)
		return nil
	}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo.js"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0
	}, 2*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, f := range seen {
		assert.Equal(t, "foo.js", filepath.Base(f), "only script files pass the filter")
	}
}

func TestWatcherStopIdempotent(t *testing.T) {
	w, err := New(t.TempDir(), nil, func([]string) error { return nil }, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop(), "stopping twice is safe")
}
