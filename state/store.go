// Package state provides the shared key-value store console surfaces
// render from.
//
// Views subscribe to keys and re-render on change. Callbacks fire in
// registration order after a successful Set; no ordering is promised
// across keys. A parallel loading-flag map tracks in-flight operations.
package state

import (
	"reflect"
	"sync"

	"github.com/harbourline/steward/bridge"
	"github.com/harbourline/steward/log"
)

// Callback observes value changes for one key. old is nil on the initial
// replay delivered at subscribe time.
type Callback func(value, old any)

// Store is an in-memory key-value store with change notification.
// Safe for concurrent use. Callbacks are invoked outside the store lock,
// so a callback may call back into the store.
type Store struct {
	mu       sync.Mutex
	values   map[string]any
	loading  map[string]bool
	subs     map[string][]subscription
	loadSubs map[string][]subscription
	nextID   int
	logger   *log.Logger
}

type subscription struct {
	id int
	fn Callback
}

// NewStore creates an empty store. logger receives callback panic
// diagnostics; nil defaults to a no-op logger.
func NewStore(logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Nop()
	}
	return &Store{
		values:   make(map[string]any),
		loading:  make(map[string]bool),
		subs:     make(map[string][]subscription),
		loadSubs: make(map[string][]subscription),
		logger:   logger,
	}
}

// Set stores value under key and notifies subscribers. Setting a key to a
// value deeply equal to the current one is a no-op: no store, no callbacks.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	old, exists := s.values[key]
	if exists && reflect.DeepEqual(old, value) {
		s.mu.Unlock()
		return
	}
	s.values[key] = value
	watchers := append([]subscription(nil), s.subs[key]...)
	s.mu.Unlock()

	var oldArg any
	if exists {
		oldArg = old
	}
	for _, sub := range watchers {
		s.invoke(key, sub.fn, value, oldArg)
	}
}

// Get returns the current value for key.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// GetDefault returns the current value for key, or def when unset.
func (s *Store) GetDefault(key string, def any) any {
	if v, ok := s.Get(key); ok {
		return v
	}
	return def
}

// Subscribe registers fn for changes to key. If the key already holds a
// value, fn is invoked immediately with (current, nil) so subscribers
// never special-case "no data yet". The returned function removes the
// subscription.
func (s *Store) Subscribe(key string, fn Callback) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[key] = append(s.subs[key], subscription{id: id, fn: fn})
	current, exists := s.values[key]
	s.mu.Unlock()

	if exists {
		s.invoke(key, fn, current, nil)
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.subs[key] = removeSub(s.subs[key], id)
	}
}

// SetLoading flags key as loading (or not) and notifies loading watchers.
// The flag map has no semantics beyond storage and notification.
func (s *Store) SetLoading(key string, loading bool) {
	s.mu.Lock()
	old, exists := s.loading[key]
	if exists && old == loading {
		s.mu.Unlock()
		return
	}
	s.loading[key] = loading
	watchers := append([]subscription(nil), s.loadSubs[key]...)
	s.mu.Unlock()

	var oldArg any
	if exists {
		oldArg = old
	}
	for _, sub := range watchers {
		s.invoke(key, sub.fn, loading, oldArg)
	}
}

// Loading reports whether key is flagged as loading.
func (s *Store) Loading(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading[key]
}

// SubscribeLoading registers fn for changes to key's loading flag.
func (s *Store) SubscribeLoading(key string, fn Callback) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.loadSubs[key] = append(s.loadSubs[key], subscription{id: id, fn: fn})
	current, exists := s.loading[key]
	s.mu.Unlock()

	if exists {
		s.invoke(key, fn, current, nil)
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.loadSubs[key] = removeSub(s.loadSubs[key], id)
	}
}

// Apply stores a bridge result under key wholesale (replace, never merge)
// and clears the key's loading flag. This is the standard landing path
// for server-mediated updates.
func (s *Store) Apply(key string, res bridge.Result) {
	s.Set(key, res)
	s.SetLoading(key, false)
}

// invoke runs a callback, containing panics so one bad subscriber never
// breaks notification for the rest.
func (s *Store) invoke(key string, fn Callback, value, old any) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("state subscriber panicked", map[string]any{
				"key":   key,
				"panic": r,
			})
		}
	}()
	fn(value, old)
}

func removeSub(subs []subscription, id int) []subscription {
	for i, sub := range subs {
		if sub.id == id {
			return append(subs[:i], subs[i+1:]...)
		}
	}
	return subs
}
