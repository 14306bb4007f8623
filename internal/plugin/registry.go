package plugin

import (
	"sync"

	"github.com/dalnet/irccd/internal/ircerr"
)

// Registry owns the loaded plugin set, keyed by identifier and iterated in
// registration order for dispatch fan-out (spec §4.4 point 2).
type Registry struct {
	mu    sync.RWMutex
	byID  map[string]Handlers
	order []string
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Handlers)}
}

// Add registers p. plugin.already_exists if the id is taken.
func (r *Registry) Add(p Handlers) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := p.ID()
	if _, ok := r.byID[id]; ok {
		return ircerr.PluginAlreadyExists(id)
	}
	r.byID[id] = p
	r.order = append(r.order, id)
	return nil
}

// Remove unregisters id. plugin.not_found if absent.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ircerr.PluginNotFound(id)
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

// Get looks up a single plugin by id.
func (r *Registry) Get(id string) (Handlers, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	return p, ok
}

// List returns a snapshot of the registered plugins in registration order,
// safe to iterate while handlers add or remove plugins (spec §5).
func (r *Registry) List() []Handlers {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Handlers, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}
