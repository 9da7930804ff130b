package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/glucolog/diary-engine/internal/core/domain"
)

type InMemoryObservationRepository struct {
	store []*domain.Observation

	mu sync.RWMutex
}

func NewInMemoryObservationRepository() *InMemoryObservationRepository {
	return &InMemoryObservationRepository{}
}

func (r *InMemoryObservationRepository) Create(ctx context.Context, obs *domain.Observation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.store {
		if existing.ID == obs.ID {
			return domain.ErrObservationConflict
		}
	}
	r.store = append(r.store, obs)
	return nil
}

func (r *InMemoryObservationRepository) ListByGroupAndRange(ctx context.Context, groupID, start, end string) ([]*domain.Observation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Observation
	for _, obs := range r.store {
		if obs.GroupID == groupID && obs.OccurredOn >= start && obs.OccurredOn <= end {
			out = append(out, obs)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OccurredOn != out[j].OccurredOn {
			return out[i].OccurredOn < out[j].OccurredOn
		}
		return out[i].RecordedAt.Before(out[j].RecordedAt)
	})

	return out, nil
}

type InMemoryNoteRepository struct {
	store []*domain.Note

	mu sync.RWMutex
}

func NewInMemoryNoteRepository() *InMemoryNoteRepository {
	return &InMemoryNoteRepository{}
}

func (r *InMemoryNoteRepository) Create(ctx context.Context, note *domain.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store = append(r.store, note)
	return nil
}

func (r *InMemoryNoteRepository) ListByGroupAndRange(ctx context.Context, groupID, start, end string) ([]*domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Note
	for _, note := range r.store {
		if note.GroupID == groupID && note.OccurredOn >= start && note.OccurredOn <= end {
			out = append(out, note)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OccurredOn != out[j].OccurredOn {
			return out[i].OccurredOn < out[j].OccurredOn
		}
		return out[i].RecordedAt.Before(out[j].RecordedAt)
	})

	return out, nil
}
