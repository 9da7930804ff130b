package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/glucolog/diary-engine/internal/core/domain"
)

type PostgresNoteRepository struct {
	db *sqlx.DB
}

func NewPostgresNoteRepository(db *sqlx.DB) *PostgresNoteRepository {
	return &PostgresNoteRepository{db: db}
}

func (r *PostgresNoteRepository) Create(ctx context.Context, note *domain.Note) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}

	query := `
		INSERT INTO notes (
			id, group_id, occurred_on,
			text, author, recorded_at
		) VALUES (
			:id, :group_id, :occurred_on,
			:text, :author, :recorded_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, note)
	return err
}

func (r *PostgresNoteRepository) ListByGroupAndRange(ctx context.Context, groupID, start, end string) ([]*domain.Note, error) {
	notes := []*domain.Note{}

	query := `
		SELECT * FROM notes
		WHERE group_id = $1
		  AND occurred_on >= $2
		  AND occurred_on <= $3
		ORDER BY occurred_on ASC, recorded_at ASC`

	err := r.db.SelectContext(ctx, &notes, query, groupID, start, end)
	if err != nil {
		return nil, err
	}
	return notes, nil
}
