// Package watcher calls back when watched files change on disk.
package watcher

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches files for changes and runs a callback per file.
// Bursts of events for the same file within the debounce window
// collapse into one callback.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	mu        sync.Mutex
	callbacks map[string]func(string)
	debounce  time.Duration
	timers    map[string]*time.Timer
}

func NewFileWatcher(debounce time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	return &FileWatcher{
		watcher:   w,
		callbacks: make(map[string]func(string)),
		debounce:  debounce,
		timers:    make(map[string]*time.Timer),
	}, nil
}

// Watch replaces the watched set with file. The parent directory is
// watched so editors that save by rename are still seen.
func (fw *FileWatcher) Watch(file string, callback func(string)) error {
	abs, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("resolve path %s: %w", file, err)
	}

	err = fw.RemoveAll()
	if err != nil {
		return err
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	err = fw.watcher.Add(filepath.Dir(abs))
	if err != nil {
		return fmt.Errorf("watch %s: %w", abs, err)
	}
	fw.callbacks[abs] = callback
	return nil
}

// Start handles events in a new goroutine until Close.
func (fw *FileWatcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					fw.handleFileChange(event.Name)
				}

			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				log.Printf("ERROR: watch: %+v", err)
			}
		}
	}()
}

func (fw *FileWatcher) handleFileChange(name string) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	callback, ok := fw.callbacks[abs]
	if !ok {
		return
	}
	if t, ok := fw.timers[abs]; ok {
		t.Stop()
	}
	fw.timers[abs] = time.AfterFunc(fw.debounce, func() { callback(abs) })
}

// Close stops the watcher. Pending callbacks are cancelled.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	for _, t := range fw.timers {
		t.Stop()
	}
	fw.mu.Unlock()

	return fw.watcher.Close()
}

// RemoveAll stops watching every file.
func (fw *FileWatcher) RemoveAll() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	dirs := make(map[string]bool)
	for file := range fw.callbacks {
		dirs[filepath.Dir(file)] = true
	}
	for _, t := range fw.timers {
		t.Stop()
	}
	fw.callbacks = make(map[string]func(string))
	fw.timers = make(map[string]*time.Timer)

	for dir := range dirs {
		err := fw.watcher.Remove(dir)
		if err != nil {
			return err
		}
	}
	return nil
}
