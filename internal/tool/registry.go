package tool

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry keeps one form per browser session
type Registry struct {
	analyzer Analyzer
	logger   *zap.Logger
	ttl      time.Duration

	mu       sync.Mutex
	forms    map[string]*Form
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRegistry creates a registry. Forms untouched for ttl are swept; a zero
// ttl keeps them forever.
func NewRegistry(analyzer Analyzer, logger *zap.Logger, ttl time.Duration) *Registry {
	r := &Registry{
		analyzer: analyzer,
		logger:   logger,
		ttl:      ttl,
		forms:    make(map[string]*Form),
		stopCh:   make(chan struct{}),
	}

	if ttl > 0 {
		go r.startSweepTask()
	}

	return r
}

// Get returns the form with the given id
func (r *Registry) Get(id string) (*Form, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.forms[id]
	return f, ok
}

// Create registers a new Idle form under a fresh id
func (r *Registry) Create() *Form {
	f := NewForm(uuid.NewString(), r.analyzer, r.logger)

	r.mu.Lock()
	r.forms[f.ID()] = f
	r.mu.Unlock()

	return f
}

// Len returns the number of live forms
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.forms)
}

// Sweep drops forms that are not Pending and were last used before now-ttl
func (r *Registry) Sweep(now time.Time) int {
	cutoff := now.Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, f := range r.forms {
		if f.expired(cutoff) {
			delete(r.forms, id)
			removed++
		}
	}

	r.logger.Debug("Swept idle tool forms", zap.Int("removed", removed), zap.Int("remaining", len(r.forms)))
	return removed
}

func (r *Registry) startSweepTask() {
	ticker := time.NewTicker(r.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			r.Sweep(now)
		case <-r.stopCh:
			return
		}
	}
}

// Stop stops the background sweep task
func (r *Registry) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}
