package hook

import (
	"sync"

	"github.com/dalnet/irccd/internal/ircerr"
)

// Registry owns the configured hook set, keyed by identifier and
// iterated in registration order for dispatch fan-out (spec §4.4 point 3).
type Registry struct {
	mu    sync.RWMutex
	byID  map[string]Hook
	order []string
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Hook)}
}

// Add registers h. hook.already_exists if the id is taken.
func (r *Registry) Add(h Hook) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[h.ID]; ok {
		return ircerr.HookAlreadyExists(h.ID)
	}
	r.byID[h.ID] = h
	r.order = append(r.order, h.ID)
	return nil
}

// Remove unregisters id. hook.not_found if absent.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ircerr.HookNotFound(id)
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get looks up a single hook by id.
func (r *Registry) Get(id string) (Hook, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.byID[id]
	return h, ok
}

// List returns a snapshot of the registered hooks in registration order,
// safe to iterate while handlers add or remove hooks (spec §5).
func (r *Registry) List() []Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Hook, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}
