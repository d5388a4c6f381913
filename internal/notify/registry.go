package notify

import (
	"sync"

	"github.com/tably/tably/internal/messenger"
)

// Registry maps platform names ("slack", "telegram") to their Messenger
// implementations. Registration normally happens once at startup, but the
// lock keeps Get safe if a platform is swapped at runtime.
type Registry struct {
	mu         sync.RWMutex
	messengers map[string]messenger.Messenger
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		messengers: make(map[string]messenger.Messenger),
	}
}

// Register adds a messenger for the given platform name, replacing any
// previous registration.
func (r *Registry) Register(platform string, m messenger.Messenger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messengers[platform] = m
}

// Get returns the messenger for the given platform, or false if not registered.
func (r *Registry) Get(platform string) (messenger.Messenger, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.messengers[platform]
	return m, ok
}
