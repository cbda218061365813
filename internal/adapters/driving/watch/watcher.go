// Package watch bridges an external editor into an editing session: the
// buffer is exported to a scratch file, the file is watched, and every
// write is fed back as a buffer edit so it autosaves like any other.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/threalwinky/mown/internal/core/ports/driving"
	"github.com/threalwinky/mown/internal/logger"
)

// Watcher mirrors one scratch file into one editing session.
type Watcher struct {
	session driving.EditorSession
	path    string
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// New exports the session buffer to a markdown scratch file under dir
// (a temp dir when empty) and starts watching it. Call Close to stop
// watching and remove the file.
func New(session driving.EditorSession, dir string) (*Watcher, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, fmt.Sprintf("mown-%s.md", session.Note().ID))
	if err := os.WriteFile(path, []byte(session.Buffer()), 0600); err != nil {
		return nil, fmt.Errorf("exporting buffer: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	// Watch the directory: editors that save via rename replace the file
	// inode, which silently drops a per-file watch.
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		os.Remove(path)
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w := &Watcher{
		session: session,
		path:    path,
		watcher: fsw,
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Path returns the scratch file path to hand to the external editor.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops watching and removes the scratch file.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	os.Remove(w.path)
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.path {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watch: %v", err)
		}
	}
}

// reload pushes the file contents into the session buffer. Reading can
// race a still-writing editor; the next write event retries.
func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		logger.Debug("watch: reading %s: %v", w.path, err)
		return
	}
	content := string(data)
	if content == w.session.Buffer() {
		return
	}
	if err := w.session.SetContent(content); err != nil {
		logger.Warn("watch: applying external edit: %v", err)
	}
}

// Edit runs one blocking external-editor session: it spawns the command
// on the scratch file and returns when it exits. The caller closes the
// watcher afterwards.
func Edit(ctx context.Context, w *Watcher, spawn func(ctx context.Context, path string) error) error {
	if err := spawn(ctx, w.Path()); err != nil {
		return fmt.Errorf("external editor: %w", err)
	}
	// A final reload catches a save that raced the editor's exit.
	w.reload()
	return nil
}
