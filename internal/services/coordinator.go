package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/Noty-chan/aether-journal/internal/errors"
	"github.com/Noty-chan/aether-journal/internal/models"
	"github.com/Noty-chan/aether-journal/internal/utils"
)

// CampaignStore persists the aggregate together with its event log.
type CampaignStore interface {
	// Load returns the stored campaign state.
	Load() (*models.CampaignState, error)
	// Commit sequences events and durably writes them with state in one
	// step, returning the sequenced events.
	Commit(state *models.CampaignState, events []models.EventLogEntry) ([]models.EventLogEntry, error)
}

// EventPublisher receives sequenced events in commit order. Publish must
// not block on slow observers.
type EventPublisher interface {
	Publish(events []models.EventLogEntry)
}

// Intent is one actor request run against a private copy of the state.
type Intent func(svc *CampaignService) ([]models.EventLogEntry, error)

// CampaignCoordinator is the single writer of the campaign. Intents are
// serialized; each runs on a clone that replaces the published state only
// after the store accepted it. Published states are never mutated again,
// so readers may keep the pointer Snapshot returns.
type CampaignCoordinator struct {
	mu        sync.RWMutex
	state     *models.CampaignState
	store     CampaignStore
	publisher EventPublisher
	env       Env
	logger    *utils.Logger
	metrics   *utils.MetricsCollector
}

// NewCampaignCoordinator loads the current state from store.
func NewCampaignCoordinator(store CampaignStore, env Env) (*CampaignCoordinator, error) {
	state, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load campaign: %w", err)
	}
	return &CampaignCoordinator{
		state:   state,
		store:   store,
		env:     env,
		logger:  utils.GetLogger(),
		metrics: utils.GetMetricsCollector(),
	}, nil
}

// SetPublisher wires the broadcaster. It may be called once at startup.
func (c *CampaignCoordinator) SetPublisher(p EventPublisher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.publisher = p
}

// Snapshot returns the current published state. Callers must not modify it.
func (c *CampaignCoordinator) Snapshot() *models.CampaignState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Read runs fn under the read lock. Values fn reads from the store agree
// with state because commits happen under the write lock.
func (c *CampaignCoordinator) Read(fn func(state *models.CampaignState)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c.state)
}

// Apply runs intent and, if it succeeds with events, commits and publishes
// the result. On error nothing is written and the published state is
// unchanged.
func (c *CampaignCoordinator) Apply(ctx context.Context, intent Intent) ([]models.EventLogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.metrics.ObserveSince(utils.MetricApplyDurationMs, start)

	draft := c.state.Clone()
	events, err := intent(NewCampaignService(draft, c.env))
	if err != nil {
		c.metrics.IncrementCounter(utils.MetricIntentsRejected)
		c.logger.Info("Intent rejected", map[string]interface{}{
			"code":  apperrors.CodeOf(err),
			"error": err.Error(),
		})
		return nil, err
	}
	if len(events) == 0 {
		return []models.EventLogEntry{}, nil
	}

	sequenced, err := c.store.Commit(draft, events)
	if err != nil {
		c.logger.Error("Failed to persist campaign", map[string]interface{}{"error": err.Error()})
		return nil, apperrors.NewProcessingError("failed to persist campaign", err)
	}
	c.state = draft
	c.metrics.IncrementCounter(utils.MetricIntentsApplied)
	c.metrics.AddCounter(utils.MetricEventsAppended, int64(len(sequenced)))
	if c.publisher != nil {
		c.publisher.Publish(sequenced)
	}
	return sequenced, nil
}

// Exclusive runs fn while no intent can run, then reloads the state from
// the store. Imports use it to replace the store wholesale.
func (c *CampaignCoordinator) Exclusive(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	fnErr := fn()
	state, err := c.store.Load()
	if err != nil {
		return fmt.Errorf("reload campaign: %w", err)
	}
	c.state = state
	return fnErr
}
