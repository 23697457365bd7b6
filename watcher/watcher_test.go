package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "auto.json")
	other := filepath.Join(dir, "other.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0644))

	fw, err := NewFileWatcher(100 * time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	changed := make(chan string, 10)
	require.NoError(t, fw.Watch(file, func(name string) { changed <- name }))
	fw.Start()

	require.NoError(t, os.WriteFile(other, []byte("{}"), 0644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(file, []byte(`{"items":[]}`), 0644))
	}

	abs, err := filepath.Abs(file)
	require.NoError(t, err)
	select {
	case name := <-changed:
		assert.Equal(t, abs, name)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case name := <-changed:
		t.Fatalf("unexpected second callback for %s", name)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestFileWatcher_RemoveAll(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "auto.json")

	fw, err := NewFileWatcher(10 * time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	changed := make(chan string, 10)
	require.NoError(t, fw.Watch(file, func(name string) { changed <- name }))
	fw.Start()
	require.NoError(t, fw.RemoveAll())

	require.NoError(t, os.WriteFile(file, []byte("{}"), 0644))
	select {
	case name := <-changed:
		t.Fatalf("callback after RemoveAll for %s", name)
	case <-time.After(200 * time.Millisecond):
	}
}
