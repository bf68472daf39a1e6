package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"queryadmin/internal/core"
	"queryadmin/internal/logger"
)

// IdleTimeout is how long a console survives without a request.
const IdleTimeout = 2 * time.Hour

type entry struct {
	console  *Console
	lastSeen time.Time
}

// Registry maps browser sessions to their consoles. Consoles are memory
// only; a restart hands every session a fresh console.
type Registry struct {
	mu       sync.Mutex
	consoles map[string]*entry
	api      core.AdminAPI
	audit    core.AuditRepository
	idle     time.Duration
	cleanup  time.Duration
	now      func() time.Time
}

func NewRegistry(api core.AdminAPI, audit core.AuditRepository) *Registry {
	return &Registry{
		consoles: make(map[string]*entry),
		api:      api,
		audit:    audit,
		idle:     IdleTimeout,
		cleanup:  5 * time.Minute,
		now:      time.Now,
	}
}

// Start evicts idle consoles until stop is closed.
func (r *Registry) Start(stop <-chan struct{}) {
	go r.cleanupLoop(stop)
}

// Open returns the console for id, creating it when unknown. An empty id
// gets a new one.
func (r *Registry) Open(id string) *Console {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	}
	if e, ok := r.consoles[id]; ok {
		e.lastSeen = r.now()
		return e.console
	}

	c := NewConsole(id, r.api, r.audit)
	r.consoles[id] = &entry{console: c, lastSeen: r.now()}
	return c
}

func (r *Registry) Get(id string) (*Console, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.consoles[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.console, true
}

func (r *Registry) Close(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.consoles, id)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.consoles)
}

func (r *Registry) cleanupLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(r.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			r.prune(now)
		}
	}
}

func (r *Registry) prune(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, e := range r.consoles {
		if now.Sub(e.lastSeen) > r.idle {
			delete(r.consoles, id)
			evicted++
		}
	}
	if evicted > 0 {
		logger.Debug().Int("evicted", evicted).Int("remaining", len(r.consoles)).Msg("Pruned idle consoles")
	}
}
