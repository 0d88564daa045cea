package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Noty-chan/aether-journal/internal/errors"
	"github.com/Noty-chan/aether-journal/internal/models"
)

type memoryStore struct {
	mu      sync.Mutex
	state   *models.CampaignState
	events  []models.EventLogEntry
	lastSeq int
	failing bool
}

func (m *memoryStore) Load() (*models.CampaignState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone(), nil
}

func (m *memoryStore) Commit(state *models.CampaignState, events []models.EventLogEntry) ([]models.EventLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, errors.New("disk full")
	}
	out := make([]models.EventLogEntry, len(events))
	for i, e := range events {
		m.lastSeq++
		e.Seq = m.lastSeq
		out[i] = e
	}
	m.events = append(m.events, out...)
	m.state = state.Clone()
	return out, nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	batches [][]models.EventLogEntry
}

func (r *recordingPublisher) Publish(events []models.EventLogEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, events)
}

func (r *recordingPublisher) seqs() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []int
	for _, b := range r.batches {
		for _, e := range b {
			out = append(out, e.Seq)
		}
	}
	return out
}

func newTestCoordinator(t *testing.T) (*CampaignCoordinator, *memoryStore, *recordingPublisher) {
	t.Helper()
	env := testEnv()
	store := &memoryStore{state: models.NewDefaultCampaignState(env.NewID)}
	coord, err := NewCampaignCoordinator(store, env)
	require.NoError(t, err)
	pub := &recordingPublisher{}
	coord.SetPublisher(pub)
	return coord, store, pub
}

func TestCoordinatorCommitsAndPublishes(t *testing.T) {
	coord, store, pub := newTestCoordinator(t)
	before := coord.Snapshot()

	events, err := coord.Apply(context.Background(), func(svc *CampaignService) ([]models.EventLogEntry, error) {
		return svc.GrantXP(RoleHost, 200)
	})
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{events[0].Seq, events[1].Seq, events[2].Seq})
	assert.Equal(t, []int{1, 2, 3}, pub.seqs())
	assert.Equal(t, 2, coord.Snapshot().Character.Level)
	assert.Equal(t, 1, before.Character.Level, "published states are never mutated")
	assert.Equal(t, coord.Snapshot(), store.state)
}

func TestCoordinatorRejectedIntentChangesNothing(t *testing.T) {
	coord, store, pub := newTestCoordinator(t)
	before := coord.Snapshot()

	events, err := coord.Apply(context.Background(), func(svc *CampaignService) ([]models.EventLogEntry, error) {
		svc.State().Character.Name = "Mallory"
		return svc.GrantXP(RolePlayer, 1000)
	})
	assert.True(t, apperrors.IsPermissionError(err))
	assert.Empty(t, events)
	assert.Same(t, before, coord.Snapshot())
	assert.Equal(t, "Hero", coord.Snapshot().Character.Name)
	assert.Empty(t, store.events)
	assert.Empty(t, pub.seqs())
}

func TestCoordinatorPersistFailureKeepsState(t *testing.T) {
	coord, store, pub := newTestCoordinator(t)
	store.failing = true
	before := coord.Snapshot()

	_, err := coord.Apply(context.Background(), func(svc *CampaignService) ([]models.EventLogEntry, error) {
		return svc.SetFrozen(RoleHost, true)
	})
	require.Error(t, err)
	assert.Equal(t, "PROCESSING_ERROR", apperrors.CodeOf(err))
	assert.Same(t, before, coord.Snapshot())
	assert.Empty(t, pub.seqs())
}

func TestCoordinatorSerializesConcurrentIntents(t *testing.T) {
	coord, store, pub := newTestCoordinator(t)
	const workers = 20

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := coord.Apply(context.Background(), func(svc *CampaignService) ([]models.EventLogEntry, error) {
				cur := svc.State().Character.Currencies["gold"]
				return svc.UpdateCurrency(RoleHost, "gold", cur+1)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, coord.Snapshot().Character.Currencies["gold"])
	seqs := pub.seqs()
	require.Len(t, seqs, workers)
	for i, seq := range seqs {
		assert.Equal(t, i+1, seq)
	}
	assert.Equal(t, workers, store.lastSeq)
}

func TestCoordinatorNoEventsSkipsCommit(t *testing.T) {
	coord, store, _ := newTestCoordinator(t)
	events, err := coord.Apply(context.Background(), func(svc *CampaignService) ([]models.EventLogEntry, error) {
		return svc.GrantXP(RoleHost, 0)
	})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, 0, store.lastSeq)
}

func TestCoordinatorHonoursCancelledContext(t *testing.T) {
	coord, _, _ := newTestCoordinator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := coord.Apply(ctx, func(svc *CampaignService) ([]models.EventLogEntry, error) {
		t.Fatal("intent must not run")
		return nil, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCoordinatorExclusiveReloads(t *testing.T) {
	coord, store, _ := newTestCoordinator(t)
	err := coord.Exclusive(func() error {
		store.state.Character.Name = "Imported"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Imported", coord.Snapshot().Character.Name)
}
