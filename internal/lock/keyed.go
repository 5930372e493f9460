// Package lock provides process-wide keyed mutual exclusion. Each key maps
// to its own mutex, created on first use and pruned once nobody references
// it, so unrelated keys never contend with each other.
package lock

import (
	"fmt"
	"sync"
)

type entry struct {
	mu   sync.Mutex
	refs int
}

// Registry is a concurrency-safe map of reference-counted mutexes.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Acquire blocks until the mutex for key is held and returns the release
// function. The entry is created lazily and removed when the last holder or
// waiter releases it; it is never removed while someone still holds it.
func (r *Registry) Acquire(key string) func() {
	r.mu.Lock()
	e, ok := r.entries[key]
	if !ok {
		e = &entry{}
		r.entries[key] = e
	}
	e.refs++
	r.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()
			r.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(r.entries, key)
			}
			r.mu.Unlock()
		})
	}
}

// Len reports the number of live entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// PlayerKey names the lock serializing one player's record in one contest.
func PlayerKey(contestID, userID string) string {
	return fmt.Sprintf("player/%s/%s", contestID, userID)
}

// RanklistKey names the lock serializing a contest's ranklist.
func RanklistKey(contestID string) string {
	return fmt.Sprintf("ranklist/%s", contestID)
}
