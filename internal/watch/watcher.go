// Package watch feeds the upload pipeline from the filesystem: it monitors
// directories for new audio files and hands the settled files to a Runner
// that uploads them and optionally kicks off transcription.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"scribe/internal/log"
)

// Event is one detected audio file. Info is the stat at detection time;
// the file may still be growing when the event fires.
type Event struct {
	Path string
	Info os.FileInfo
	Time time.Time
}

// Watcher monitors directories with fsnotify and emits Events for audio
// files only. Non-audio files and directory events never reach the
// channel.
type Watcher struct {
	fsw    *fsnotify.Watcher
	globs  []glob.Glob
	events chan Event

	mu      sync.RWMutex
	dirs    []string
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// New builds a watcher that emits files matching any of the given glob
// patterns.
func New(globs []glob.Glob) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	return &Watcher{
		fsw:    fsw,
		globs:  globs,
		events: make(chan Event, 16),
		stop:   make(chan struct{}),
	}, nil
}

// AddDirectory registers a directory. The path must exist and be a
// directory; watching is not recursive.
func (w *Watcher) AddDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("accessing watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	w.mu.Lock()
	found := false
	for _, d := range w.dirs {
		if d == dir {
			found = true
			break
		}
	}
	if !found {
		w.dirs = append(w.dirs, dir)
	}
	w.mu.Unlock()

	log.Infof("Observando diretório %s", dir)
	return nil
}

// Events delivers the detected audio files.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Directories returns a copy of the watched directory list.
func (w *Watcher) Directories() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]string, len(w.dirs))
	copy(out, w.dirs)
	return out
}

// Start launches the event loop. It fails when no directory was added.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	if len(w.dirs) == 0 {
		w.mu.Unlock()
		return fmt.Errorf("no directories to watch")
	}
	w.running = true
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	w.mu.Unlock()

	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !matchesAny(w.globs, event.Name) {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil {
				// The file can vanish between the event and the stat.
				if !os.IsNotExist(err) {
					log.Errorf("Stat %s: %v", event.Name, err)
				}
				continue
			}
			if info.IsDir() {
				continue
			}

			select {
			case w.events <- Event{Path: event.Name, Info: info, Time: time.Now()}:
			default:
				log.Warnf("Fila de eventos cheia, descartando %s", event.Name)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Errorf("Erro do watcher: %v", err)

		case <-w.stop:
			return
		}
	}
}

// Stop halts the loop and closes the event channel. It waits for the loop
// to exit first, so a send racing the close cannot happen.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stop)
	done := w.done
	w.mu.Unlock()

	<-done

	if err := w.fsw.Close(); err != nil {
		log.Errorf("Fechando watcher: %v", err)
	}
	close(w.events)
}

// IsRunning reports whether the event loop is active.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

func matchesAny(globs []glob.Glob, path string) bool {
	if len(globs) == 0 {
		return true
	}
	name := strings.ToLower(filepath.Base(path))
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
