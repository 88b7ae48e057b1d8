// Package store owns the browsing state and the loaded catalog, and loads catalogs
// from their source.
package store

import (
	"sync"

	"showcase-cli/internal/model"
)

// Listener is notified after every mutation with the resulting state and catalog.
// Listeners run synchronously on the mutating goroutine and must not call back
// into the Store's intents.
type Listener func(model.State, model.Catalog)

// Store holds State and Catalog. They change only through the intent methods
// below, each of which notifies every listener before returning.
type Store struct {
	// dispatch is held across mutate+notify so listeners observe mutations in order.
	dispatch sync.Mutex

	mu        sync.RWMutex
	state     model.State
	catalog   model.Catalog
	listeners []subscription
	nextID    int
}

type subscription struct {
	id int
	fn Listener
}

func New(catalog model.Catalog, state model.State) *Store {
	if state.Edition == "" {
		state.Edition = model.EditionExpress
	}
	if state.Tag == "" {
		state.Tag = model.AllTags
	}
	return &Store{state: state, catalog: catalog}
}

func (s *Store) State() model.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) Catalog() model.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Snapshot returns state and catalog read under one lock.
func (s *Store) Snapshot() (model.State, model.Catalog) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.catalog
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) SetEdition(e model.Edition) {
	if e != model.EditionFull {
		e = model.EditionExpress
	}
	s.update(func(st *model.State, _ *model.Catalog) { st.Edition = e })
}

// SetQuery stores the raw query; trimming and case folding happen at match time.
func (s *Store) SetQuery(q string) {
	s.update(func(st *model.State, _ *model.Catalog) { st.Query = q })
}

func (s *Store) SetTag(tag string) {
	if tag == "" {
		tag = model.AllTags
	}
	s.update(func(st *model.State, _ *model.Catalog) { st.Tag = tag })
}

// Reset clears the query and tag. The edition is kept.
func (s *Store) Reset() {
	s.update(func(st *model.State, _ *model.Catalog) {
		st.Query = ""
		st.Tag = model.AllTags
	})
}

// Replace swaps the whole catalog. A selected tag that no longer exists in the
// new catalog falls back to "all".
func (s *Store) Replace(c model.Catalog) {
	s.update(func(st *model.State, cat *model.Catalog) {
		*cat = c
		if st.Tag == model.AllTags {
			return
		}
		for _, p := range c.Projects {
			if p.HasTag(st.Tag) {
				return
			}
		}
		st.Tag = model.AllTags
	})
}

func (s *Store) update(fn func(*model.State, *model.Catalog)) {
	s.dispatch.Lock()
	defer s.dispatch.Unlock()

	s.mu.Lock()
	fn(&s.state, &s.catalog)
	st, cat := s.state, s.catalog
	listeners := make([]Listener, len(s.listeners))
	for i, sub := range s.listeners {
		listeners[i] = sub.fn
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(st, cat)
	}
}
