package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyNote = errors.New("note text cannot be empty")
)

const MaxNoteLen = 500

// Note is a free-text diary entry. Notes are never overwritten: every note
// for a date is kept and reports list them in recording order.
type Note struct {
	ID         string    `json:"id" db:"id"`
	GroupID    string    `json:"group_id" db:"group_id"`
	OccurredOn string    `json:"occurred_on" db:"occurred_on"`
	Text       string    `json:"text" db:"text"`
	Author     string    `json:"author" db:"author"`
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

func NewNote(groupID, occurredOn, text, author string) *Note {
	return &Note{
		ID:         uuid.NewString(),
		GroupID:    groupID,
		OccurredOn: occurredOn,
		Text:       strings.TrimSpace(text),
		Author:     author,
		RecordedAt: time.Now().UTC(),
	}
}

func (n *Note) Validate() error {
	if strings.TrimSpace(n.GroupID) == "" {
		return ErrInvalidGroupID
	}
	if _, err := time.Parse(DateKeyFormat, n.OccurredOn); err != nil {
		return ErrInvalidDate
	}
	if n.Text == "" {
		return ErrEmptyNote
	}
	if len(n.Text) > MaxNoteLen {
		return errors.New("note text is too long (max 500 chars)")
	}
	return nil
}
