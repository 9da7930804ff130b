package services

import (
	"context"
	"strings"
	"time"

	"github.com/glucolog/diary-engine/internal/core/domain"
)

type CaptureService struct {
	obsRepo  domain.ObservationRepository
	noteRepo domain.NoteRepository
}

func NewCaptureService(obsRepo domain.ObservationRepository, noteRepo domain.NoteRepository) *CaptureService {
	return &CaptureService{
		obsRepo:  obsRepo,
		noteRepo: noteRepo,
	}
}

type RecordObservationInput struct {
	GroupID    string
	OccurredOn string // YYYY-MM-DD; empty means today (UTC)
	Category   string
	Field      string
	Value      string // raw author input; "-" means not measured
	Author     string
}

type RecordNoteInput struct {
	GroupID    string
	OccurredOn string
	Text       string
	Author     string
}

// RecordObservation validates one scalar fact against the category/field
// vocabulary and persists it. Validation failures surface immediately to
// the author; nothing malformed reaches the stored log through this path.
func (s *CaptureService) RecordObservation(ctx context.Context, input RecordObservationInput) (*domain.Observation, error) {
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return nil, err
	}

	field := domain.Field(strings.ToLower(strings.TrimSpace(input.Field)))
	if !domain.KnownField(category, field) {
		return nil, domain.ErrInvalidField
	}

	occurredOn, err := normalizeDate(input.OccurredOn)
	if err != nil {
		return nil, err
	}

	value, err := domain.ParseValue(input.Value, domain.NumericField(field))
	if err != nil {
		return nil, err
	}

	obs := domain.NewObservation(input.GroupID, occurredOn, category, field, value, input.Author)
	if err := obs.Validate(); err != nil {
		return nil, err
	}

	if err := s.obsRepo.Create(ctx, obs); err != nil {
		return nil, err
	}
	return obs, nil
}

func (s *CaptureService) RecordNote(ctx context.Context, input RecordNoteInput) (*domain.Note, error) {
	occurredOn, err := normalizeDate(input.OccurredOn)
	if err != nil {
		return nil, err
	}

	note := domain.NewNote(input.GroupID, occurredOn, input.Text, input.Author)
	if err := note.Validate(); err != nil {
		return nil, err
	}

	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func normalizeDate(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Now().UTC().Format(domain.DateKeyFormat), nil
	}
	if _, err := time.Parse(domain.DateKeyFormat, trimmed); err != nil {
		return "", domain.ErrInvalidDate
	}
	return trimmed, nil
}
