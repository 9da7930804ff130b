package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glucolog/diary-engine/internal/adapters/repository"
	"github.com/glucolog/diary-engine/internal/core/domain"
)

func storedObs(id, groupID, date string, at time.Time) *domain.Observation {
	return &domain.Observation{
		ID:         id,
		GroupID:    groupID,
		OccurredOn: date,
		Category:   domain.CategoryBreakfast,
		Field:      domain.FieldBefore,
		Value:      "110",
		RecordedAt: at,
	}
}

func TestInMemoryObservationRepository_RangeAndOrdering(t *testing.T) {
	repo := repository.NewInMemoryObservationRepository()
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	// Inserted out of order on purpose.
	require.NoError(t, repo.Create(ctx, storedObs("c", "g1", "2024-06-03", base)))
	require.NoError(t, repo.Create(ctx, storedObs("b", "g1", "2024-06-01", base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, storedObs("a", "g1", "2024-06-01", base)))
	require.NoError(t, repo.Create(ctx, storedObs("d", "g1", "2024-06-10", base)))
	require.NoError(t, repo.Create(ctx, storedObs("e", "g2", "2024-06-02", base)))

	out, err := repo.ListByGroupAndRange(ctx, "g1", "2024-06-01", "2024-06-05")
	require.NoError(t, err)

	ids := make([]string, 0, len(out))
	for _, obs := range out {
		ids = append(ids, obs.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestInMemoryObservationRepository_DuplicateID(t *testing.T) {
	repo := repository.NewInMemoryObservationRepository()
	ctx := context.Background()
	at := time.Now()

	require.NoError(t, repo.Create(ctx, storedObs("a", "g1", "2024-06-01", at)))
	err := repo.Create(ctx, storedObs("a", "g1", "2024-06-02", at))
	assert.ErrorIs(t, err, domain.ErrObservationConflict)
}

func TestInMemoryNoteRepository_RangeAndOrdering(t *testing.T) {
	repo := repository.NewInMemoryNoteRepository()
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	first := domain.NewNote("g1", "2024-06-01", "breakfast late", "anna")
	first.RecordedAt = base
	second := domain.NewNote("g1", "2024-06-01", "felt low", "anna")
	second.RecordedAt = base.Add(time.Minute)
	outside := domain.NewNote("g1", "2024-07-01", "holiday", "anna")
	outside.RecordedAt = base

	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, outside))

	out, err := repo.ListByGroupAndRange(ctx, "g1", "2024-06-01", "2024-06-30")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "breakfast late", out[0].Text)
	assert.Equal(t, "felt low", out[1].Text)
}
