package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"packdex/internal/core/source"
)

// Watcher observes a world directory on disk and synthesizes host
// lifecycle events from filesystem changes: a write inside a pack file
// becomes a document update, a pack file appearing or vanishing becomes
// a pack create/delete, a manifest change is treated as a pack create
// (bias toward invalidation). Events are debounced and handed to the
// Listener.
type Watcher struct {
	provider  *source.FSProvider
	listener  *Listener
	debouncer *Debouncer
	logger    *slog.Logger

	watcher   *fsnotify.Watcher
	closeOnce sync.Once
	closed    chan struct{}
}

type Options struct {
	Debounce time.Duration
}

func NewWatcher(provider *source.FSProvider, listener *Listener, opts Options, logger *slog.Logger) (*Watcher, error) {
	if provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if listener == nil {
		return nil, fmt.Errorf("listener is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		provider:  provider,
		listener:  listener,
		debouncer: NewDebouncer(opts.Debounce),
		logger:    logger,
		watcher:   fsw,
		closed:    make(chan struct{}),
	}
	w.debouncer.OnFire(w.handleBatch)

	if err := fsw.Add(provider.Root()); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	if st, err := os.Stat(provider.PacksDir()); err == nil && st.IsDir() {
		if err := fsw.Add(provider.PacksDir()); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	return w, nil
}

func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	w.closeOnce.Do(func() { close(w.closed) })
	if w.watcher == nil {
		return nil
	}
	return w.watcher.Close()
}

func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.watcher == nil {
		return fmt.Errorf("watcher is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.closed:
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	name := filepath.Base(ev.Name)
	if name == "world.json" || strings.HasSuffix(name, ".db") {
		if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
			w.debouncer.Push(ev.Name)
		}
	}

	// A freshly created packs dir needs its own watch.
	if ev.Op&fsnotify.Create != 0 && filepath.Clean(ev.Name) == w.provider.PacksDir() {
		if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
			_ = w.watcher.Add(ev.Name)
		}
	}
}

func (w *Watcher) handleBatch(paths []string) {
	for _, p := range paths {
		w.listener.Handle(w.classify(p))
	}
}

// classify maps one changed path to a lifecycle event using the current
// state of the world: a missing pack file is a deletion, an existing one
// a document update inside that pack. Packs no longer in the manifest
// are reported as deleted Actor packs, biasing toward invalidation.
func (w *Watcher) classify(path string) source.Event {
	name := filepath.Base(path)
	if name == "world.json" {
		return source.Event{Kind: source.EventPackCreated, CollectionType: source.TypeActor}
	}

	packID := strings.TrimSuffix(name, ".db")
	collectionType := w.collectionType(packID)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return source.Event{
			Kind:           source.EventPackDeleted,
			PackID:         packID,
			CollectionType: collectionType,
		}
	}
	kind := ""
	if collectionType == source.TypeActor {
		kind = source.KindNPC
	}
	return source.Event{
		Kind:         source.EventDocumentUpdated,
		PackID:       packID,
		DocumentKind: kind,
	}
}

func (w *Watcher) collectionType(packID string) string {
	packs, err := w.provider.ListPacks(context.Background(), "")
	if err != nil {
		return source.TypeActor
	}
	for _, p := range packs {
		if p.ID == packID {
			return p.CollectionType
		}
	}
	return source.TypeActor
}
