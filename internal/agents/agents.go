// Package agents applies the boundary rules (wallet checks, field ranges,
// initial status) in front of the registry.
package agents

import (
	"context"
	"fmt"
	"log"
	"strings"

	"quant_trader/internal/errs"
	"quant_trader/internal/models"
	"quant_trader/internal/wallet"
)

// Store is the subset of the registry the service needs.
type Store interface {
	Create(agent models.Agent) (models.Agent, error)
	UpdateIf(id string, agent models.Agent, cond func(prev models.Agent) error) (models.Agent, error)
	Get(id string) (models.Agent, bool)
	Status(id string) (models.AgentStatusView, error)
	List() []models.Agent
	Delete(id string) error
}

type Service struct {
	store   Store
	wallets wallet.Validator
}

func NewService(store Store, wallets wallet.Validator) *Service {
	return &Service{store: store, wallets: wallets}
}

// Create validates the agent, forces it to start paused and registers it.
func (s *Service) Create(ctx context.Context, agent models.Agent) (models.Agent, error) {
	normalize(&agent)
	if err := Validate(agent); err != nil {
		return models.Agent{}, err
	}
	if err := s.checkWallet(ctx, agent.Strategy.WalletAddress); err != nil {
		return models.Agent{}, err
	}

	agent.Status = models.StatusPaused

	created, err := s.store.Create(agent)
	if err != nil {
		return models.Agent{}, fmt.Errorf("create agent: %w", err)
	}
	log.Printf("INFO: Agent %s (%s) created in %s mode, wallet %s",
		created.ID, created.Name, created.Strategy.Mode, wallet.Describe(created.Strategy.WalletAddress))
	return created, nil
}

// updateAttempts bounds retries when the stored wallet moves under an update.
const updateAttempts = 3

// Update replaces an existing agent. The wallet is only re-checked when the
// address changed, to avoid redundant external calls. The write is
// conditional on the stored wallet still being the one compared against.
func (s *Service) Update(ctx context.Context, id string, agent models.Agent) (models.Agent, error) {
	existing, ok := s.store.Get(id)
	if !ok {
		return models.Agent{}, errs.NotFound("agent %s not found", id)
	}

	normalize(&agent)
	if agent.Status == "" {
		return models.Agent{}, errs.Validation("status is required")
	}
	if err := Validate(agent); err != nil {
		return models.Agent{}, err
	}

	for attempt := 1; ; attempt++ {
		seen := existing.Strategy.WalletAddress
		if agent.Strategy.WalletAddress != seen {
			if err := s.checkWallet(ctx, agent.Strategy.WalletAddress); err != nil {
				return models.Agent{}, err
			}
		}

		updated, err := s.store.UpdateIf(id, agent, func(prev models.Agent) error {
			if prev.Strategy.WalletAddress != seen {
				return errs.Conflict("agent %s was modified concurrently", id)
			}
			return nil
		})
		if errs.IsConflict(err) && attempt < updateAttempts {
			log.Printf("WARN: Agent %s changed during update, retrying (%d/%d)", id, attempt, updateAttempts)
			if existing, ok = s.store.Get(id); !ok {
				return models.Agent{}, errs.NotFound("agent %s not found", id)
			}
			continue
		}
		if err != nil {
			return models.Agent{}, fmt.Errorf("update agent: %w", err)
		}
		log.Printf("INFO: Agent %s updated (status=%s)", updated.ID, updated.Status)
		return updated, nil
	}
}

func (s *Service) Get(id string) (models.Agent, error) {
	a, ok := s.store.Get(id)
	if !ok {
		return models.Agent{}, errs.NotFound("agent %s not found", id)
	}
	return a, nil
}

func (s *Service) Status(id string) (models.AgentStatusView, error) {
	return s.store.Status(id)
}

func (s *Service) List() []models.Agent {
	return s.store.List()
}

func (s *Service) Delete(id string) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	log.Printf("INFO: Agent %s deleted", id)
	return nil
}

func (s *Service) checkWallet(ctx context.Context, address string) error {
	if address == "" {
		return errs.Validation("solana wallet address is required")
	}
	valid, err := s.wallets.IsValid(ctx, address)
	if err != nil {
		return errs.Validation("wallet validation failed: %v", err)
	}
	if !valid {
		return errs.Validation("invalid solana wallet address")
	}
	return nil
}

func normalize(a *models.Agent) {
	a.ID = strings.TrimSpace(a.ID)
	a.Strategy.WalletAddress = strings.TrimSpace(a.Strategy.WalletAddress)
	if mode, ok := models.ParseMode(string(a.Strategy.Mode)); ok {
		a.Strategy.Mode = mode
	}
	if a.Strategy.Network == "" {
		a.Strategy.Network = models.NetworkMainnet
	}
}
