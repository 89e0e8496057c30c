package memory

import (
	"context"
	"sync"
)

// MountRegistry is an in-process set of live mount IDs.
type MountRegistry struct {
	mu     sync.RWMutex
	mounts map[string]struct{}
}

func NewMountRegistry() *MountRegistry {
	return &MountRegistry{
		mounts: make(map[string]struct{}),
	}
}

func (r *MountRegistry) Register(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mounts[id] = struct{}{}
	return nil
}

func (r *MountRegistry) Unregister(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.mounts, id)
	return nil
}

func (r *MountRegistry) Active(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.mounts), nil
}
