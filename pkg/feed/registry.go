package feed

import "sync"

// Registry maps feed object IDs to live Aircraft, creating each aircraft on
// first sight. It only ever grows: there is no removal API, because
// eviction belongs to external consumers working from ExpiryTime.
type Registry struct {
	mu       sync.RWMutex
	aircraft map[string]*Aircraft
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{aircraft: make(map[string]*Aircraft)}
}

// GetOrCreate returns the aircraft for id, creating and registering an
// empty one on first sight. Concurrent calls for the same id always yield
// the same aircraft.
func (r *Registry) GetOrCreate(id string) *Aircraft {
	r.mu.RLock()
	a, ok := r.aircraft[id]
	r.mu.RUnlock()
	if ok {
		return a
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.aircraft[id]; ok {
		return a
	}
	a = newAircraft(id)
	r.aircraft[id] = a
	return a
}

// Aircraft returns the aircraft for id, or nil if it has never been seen.
func (r *Registry) Aircraft(id string) *Aircraft {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.aircraft[id]
}

// All returns a snapshot of every currently tracked aircraft, in no
// particular order.
func (r *Registry) All() []*Aircraft {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Aircraft, 0, len(r.aircraft))
	for _, a := range r.aircraft {
		out = append(out, a)
	}
	return out
}

// Len returns the number of tracked aircraft.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.aircraft)
}
