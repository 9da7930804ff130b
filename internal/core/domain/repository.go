package domain

import (
	"context"
	"errors"
)

var (
	// ErrEmptyRange is the recognized "nothing to report" outcome for a
	// window with no observations and no notes. It is not a failure.
	ErrEmptyRange = errors.New("no diary entries in the requested range")

	ErrObservationConflict = errors.New("observation id already recorded")
)

type ObservationRepository interface {
	// Create persists a single observation. Each capture is one atomic
	// insert; there are no cross-observation transactions.
	Create(ctx context.Context, obs *Observation) error

	// ListByGroupAndRange returns observations for the group whose
	// occurred_on falls inside [start, end] (inclusive, YYYY-MM-DD keys),
	// ordered by occurred_on then recorded_at ascending. The ordering is
	// what makes last-write-wins a plain fold for the aggregator.
	ListByGroupAndRange(ctx context.Context, groupID, start, end string) ([]*Observation, error)
}

type NoteRepository interface {
	Create(ctx context.Context, note *Note) error

	// ListByGroupAndRange returns notes in the window ordered by
	// occurred_on then recorded_at ascending.
	ListByGroupAndRange(ctx context.Context, groupID, start, end string) ([]*Note, error)
}
