package catalog

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Store holds the current catalog and publishes every replacement to its subscribers.
type Store struct {
	mu      sync.RWMutex
	current *Catalog
	subs    map[chan *Catalog]struct{}
}

// NewStore returns a store holding cat.
func NewStore(cat *Catalog) *Store {
	return &Store{
		current: cat,
		subs:    map[chan *Catalog]struct{}{},
	}
}

// Current returns the current catalog. Catalogs are replaced, never modified.
func (s *Store) Current() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set replaces the current catalog and publishes it.
func (s *Store) Set(cat *Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = cat
	for sub := range s.subs {
		offer(sub, cat)
	}
}

// Subscribe returns a chan that receives the current catalog, then every replacement.
// A slow subscriber only receives the latest catalog it missed, never a stale one.
// The chan is closed once done is closed.
func (s *Store) Subscribe(done <-chan struct{}) <-chan *Catalog {
	sub := make(chan *Catalog, 1)

	s.mu.Lock()
	sub <- s.current
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-done
		s.mu.Lock()
		delete(s.subs, sub)
		close(sub)
		s.mu.Unlock()
	}()
	return sub
}

// offer replaces any unread catalog in sub with cat. The caller holds the store's lock,
// so there is no other sender.
func offer(sub chan *Catalog, cat *Catalog) {
	select {
	case <-sub:
	default:
	}
	sub <- cat
}

// Watch reloads the catalog file at path whenever it is written or replaced, until ctx
// is cancelled. A file that fails to load is logged and the current catalog is kept.
// The file's directory is watched, since editors often save by replacing the file.
func (s *Store) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog watch: %w", err)
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	if err = watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("catalog watch: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			cat, loadErr := FromYaml(path)
			if loadErr != nil {
				log.Println("catalog reload:", loadErr)
				continue
			}
			log.Println("catalog reloaded:", path)
			s.Set(cat)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Println("catalog watch:", watchErr)
		}
	}
}
