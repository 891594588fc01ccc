package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startWatcher(t *testing.T, dir string, handle func(path string)) (context.CancelFunc, chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	w := New(Config{Dir: dir, Debounce: 20 * time.Millisecond}, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, handle) }()

	// Give the watcher a moment to register before files are dropped.
	time.Sleep(50 * time.Millisecond)
	return cancel, done
}

// TestRunSerializesSettledFiles tests that files settling together are
// handled one after another, never concurrently
func TestRunSerializesSettledFiles(t *testing.T) {
	dir := t.TempDir()

	var active, overlapped int32
	handled := make(chan string, 4)
	cancel, done := startWatcher(t, dir, func(path string) {
		if atomic.AddInt32(&active, 1) > 1 {
			atomic.StoreInt32(&overlapped, 1)
		}
		time.Sleep(40 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		handled <- filepath.Base(path)
	})
	defer cancel()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.png"), []byte("y"), 0644))

	var got []string
	for i := 0; i < 2; i++ {
		select {
		case name := <-handled:
			got = append(got, name)
		case <-time.After(3 * time.Second):
			t.Fatal("timed out waiting for dropped files")
		}
	}
	assert.ElementsMatch(t, []string{"a.pdf", "b.png"}, got)
	assert.Zero(t, atomic.LoadInt32(&overlapped), "handle calls must not overlap")

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

// TestRunIgnoresUnwatchedExtensions tests the extension filter
func TestRunIgnoresUnwatchedExtensions(t *testing.T) {
	dir := t.TempDir()

	handled := make(chan string, 4)
	cancel, _ := startWatcher(t, dir, func(path string) {
		handled <- filepath.Base(path)
	})
	defer cancel()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scan.jpeg"), []byte("y"), 0644))

	select {
	case name := <-handled:
		assert.Equal(t, "scan.jpeg", name)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for dropped file")
	}

	select {
	case name := <-handled:
		t.Fatalf("unexpected file handled: %s", name)
	case <-time.After(150 * time.Millisecond):
	}
}

// TestRunDebouncesRepeatedWrites tests that a slow copy triggers one upload
func TestRunDebouncesRepeatedWrites(t *testing.T) {
	dir := t.TempDir()

	handled := make(chan string, 4)
	cancel, _ := startWatcher(t, dir, func(path string) {
		handled <- filepath.Base(path)
	})
	defer cancel()

	path := filepath.Join(dir, "receipt.pdf")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("chunk"), 0644))
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case name := <-handled:
		assert.Equal(t, "receipt.pdf", name)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for dropped file")
	}

	select {
	case name := <-handled:
		t.Fatalf("debounce failed, handled again: %s", name)
	case <-time.After(150 * time.Millisecond):
	}
}
