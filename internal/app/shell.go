package app

import (
	"context"
	"sync"
)

// Shell mounts quiz controllers and fans their snapshots out to subscribers.
// Restart discards the current controller and mounts a fresh one.
type Shell struct {
	ctx  context.Context
	deps Deps

	mu      sync.Mutex
	current *Controller
	mounts  int
	closed  bool

	subMu       sync.Mutex
	subscribers map[chan Snapshot]struct{}
}

func NewShell(ctx context.Context, deps Deps) *Shell {
	return &Shell{
		ctx:         ctx,
		deps:        deps,
		subscribers: make(map[chan Snapshot]struct{}),
	}
}

// Mount starts a new controller, closing the previous one if any.
func (s *Shell) Mount() *Controller {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.mounts++
	next := NewController(s.ctx, s.deps, s.mounts, s.broadcast)
	prev := s.current
	s.current = next
	s.mu.Unlock()

	if prev != nil {
		prev.Close()
	}
	next.Start()
	return next
}

// Restart is Mount under the name the results and error screens use.
func (s *Shell) Restart() *Controller {
	return s.Mount()
}

// Current returns the mounted controller, or nil before the first mount.
func (s *Shell) Current() *Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Mounts reports how many controllers have been mounted.
func (s *Shell) Mounts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounts
}

// Close unmounts the current controller and closes all subscriptions.
func (s *Shell) Close() {
	s.mu.Lock()
	s.closed = true
	current := s.current
	s.mu.Unlock()
	if current != nil {
		current.Close()
	}

	s.subMu.Lock()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
	s.subMu.Unlock()
}

// Subscribe returns a channel of snapshots from every mount. Slow readers see
// only the latest snapshots. The caller must invoke cancel to avoid leaks.
func (s *Shell) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

func (s *Shell) broadcast(snap Snapshot) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// full: drop the oldest so the newest always lands
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}
