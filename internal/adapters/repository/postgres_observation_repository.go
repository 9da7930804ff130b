package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/glucolog/diary-engine/internal/core/domain"
)

type PostgresObservationRepository struct {
	db *sqlx.DB
}

func NewPostgresObservationRepository(db *sqlx.DB) *PostgresObservationRepository {
	return &PostgresObservationRepository{db: db}
}

func (r *PostgresObservationRepository) Create(ctx context.Context, obs *domain.Observation) error {
	if obs.ID == "" {
		obs.ID = uuid.NewString()
	}

	query := `
		INSERT INTO observations (
			id, group_id, occurred_on,
			category, field, value,
			author, recorded_at
		) VALUES (
			:id, :group_id, :occurred_on,
			:category, :field, :value,
			:author, :recorded_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, obs)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrObservationConflict
		}
		return err
	}
	return nil
}

// isUniqueViolation matches code 23505 from either postgres driver; the
// service connects through pgx but lib/pq DSNs work too.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func (r *PostgresObservationRepository) ListByGroupAndRange(ctx context.Context, groupID, start, end string) ([]*domain.Observation, error) {
	observations := []*domain.Observation{}

	// Ascending (occurred_on, recorded_at) keeps last-write-wins a plain
	// fold on the consumer side.
	query := `
		SELECT * FROM observations
		WHERE group_id = $1
		  AND occurred_on >= $2
		  AND occurred_on <= $3
		ORDER BY occurred_on ASC, recorded_at ASC`

	err := r.db.SelectContext(ctx, &observations, query, groupID, start, end)
	if err != nil {
		return nil, err
	}
	return observations, nil
}
