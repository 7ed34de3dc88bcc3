package httpapi

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/logboard/internal/common"
	"github.com/dmitrijs2005/logboard/internal/models"
	"github.com/dmitrijs2005/logboard/internal/session"
)

// Factory starts a session for user.
type Factory func(ctx context.Context, user models.User) (*session.Controller, error)

// handle serializes requests of one session.
type handle struct {
	mu       sync.Mutex
	ctrl     *session.Controller
	lastSeen time.Time
}

// Registry holds the live sessions of the process.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*handle
	factory  Factory
	now      func() time.Time
}

func NewRegistry(f Factory) *Registry {
	return &Registry{
		sessions: make(map[string]*handle),
		factory:  f,
		now:      time.Now,
	}
}

func (r *Registry) Create(ctx context.Context, user models.User) (*session.Controller, error) {
	ctrl, err := r.factory(ctx, user)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[ctrl.ID()] = &handle{ctrl: ctrl, lastSeen: r.now()}
	return ctrl, nil
}

func (r *Registry) get(id string) (*handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.sessions[id]
	if !ok {
		return nil, common.ErrSessionNotFound
	}
	h.lastSeen = r.now()
	return h, nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than idle and returns how many.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	n := 0
	for id, h := range r.sessions {
		if h.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// RunSweeper sweeps every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep(idle)
		}
	}
}
