// Package registry is the in-memory keyed store that owns every Agent for the
// lifetime of the process.
package registry

import (
	"sort"
	"sync"
	"time"

	"quant_trader/internal/errs"
	"quant_trader/internal/models"

	"github.com/google/uuid"
)

// Registry serializes all reads and writes through a single RWMutex.
// Values handed in or out are cloned so callers never alias stored state.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]models.Agent
	now    func() time.Time
	newID  func() string
}

type Option func(*Registry)

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithIDGenerator overrides uuid generation (tests).
func WithIDGenerator(gen func() string) Option {
	return func(r *Registry) { r.newID = gen }
}

func New(opts ...Option) *Registry {
	r := &Registry{
		agents: make(map[string]models.Agent),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create stores a new agent. An empty ID gets a fresh uuid; a caller-supplied
// ID that is already taken is a conflict rather than an overwrite.
func (r *Registry) Create(agent models.Agent) (models.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if agent.ID == "" {
		agent.ID = r.newID()
		for r.exists(agent.ID) {
			agent.ID = r.newID()
		}
	} else if r.exists(agent.ID) {
		return models.Agent{}, errs.Conflict("agent %s already exists", agent.ID)
	}

	now := r.now()
	agent.CreatedAt = now
	agent.UpdatedAt = now

	stored := agent.Clone()
	r.agents[stored.ID] = stored
	return stored.Clone(), nil
}

// Update replaces the stored agent wholesale. ID and CreatedAt are kept from
// the stored value; UpdatedAt never moves backwards.
func (r *Registry) Update(id string, agent models.Agent) (models.Agent, error) {
	return r.UpdateIf(id, agent, nil)
}

// UpdateIf is Update guarded by cond, which sees the stored agent under the
// write lock. A non-nil error from cond aborts the update and is returned as is.
func (r *Registry) UpdateIf(id string, agent models.Agent, cond func(prev models.Agent) error) (models.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.agents[id]
	if !ok {
		return models.Agent{}, errs.NotFound("agent %s not found", id)
	}
	if cond != nil {
		if err := cond(prev.Clone()); err != nil {
			return models.Agent{}, err
		}
	}

	agent.ID = prev.ID
	agent.CreatedAt = prev.CreatedAt
	agent.UpdatedAt = r.now()
	if agent.UpdatedAt.Before(prev.UpdatedAt) {
		agent.UpdatedAt = prev.UpdatedAt
	}

	stored := agent.Clone()
	r.agents[id] = stored
	return stored.Clone(), nil
}

func (r *Registry) Get(id string) (models.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.agents[id]
	if !ok {
		return models.Agent{}, false
	}
	return a.Clone(), true
}

func (r *Registry) Status(id string) (models.AgentStatusView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.agents[id]
	if !ok {
		return models.AgentStatusView{}, errs.NotFound("agent %s not found", id)
	}
	c := a.Clone()
	return models.AgentStatusView{
		Status:           c.Status,
		TotalTrades:      c.TotalTrades,
		SuccessfulTrades: c.SuccessfulTrades,
		CurrentPosition:  c.CurrentPosition,
		LastUpdated:      c.UpdatedAt,
	}, nil
}

// List returns every agent ordered by creation time, then ID.
func (r *Registry) List() []models.Agent {
	r.mu.RLock()
	out := make([]models.Agent, 0, len(r.agents))
	for _, a := range r.agents {
		out = append(out, a.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.exists(id) {
		return errs.NotFound("agent %s not found", id)
	}
	delete(r.agents, id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}

// exists must be called with mu held.
func (r *Registry) exists(id string) bool {
	_, ok := r.agents[id]
	return ok
}
