package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/glucolog/diary-engine/internal/core/domain"
	"github.com/glucolog/diary-engine/internal/core/services"
)

type MockObservationRepo struct {
	mock.Mock
}

func (m *MockObservationRepo) Create(ctx context.Context, obs *domain.Observation) error {
	args := m.Called(ctx, obs)
	return args.Error(0)
}

func (m *MockObservationRepo) ListByGroupAndRange(ctx context.Context, groupID, start, end string) ([]*domain.Observation, error) {
	args := m.Called(ctx, groupID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Observation), args.Error(1)
}

type MockNoteRepo struct {
	mock.Mock
}

func (m *MockNoteRepo) Create(ctx context.Context, note *domain.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNoteRepo) ListByGroupAndRange(ctx context.Context, groupID, start, end string) ([]*domain.Note, error) {
	args := m.Called(ctx, groupID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Note), args.Error(1)
}

func TestCaptureService_RecordObservation(t *testing.T) {
	obsRepo := new(MockObservationRepo)
	noteRepo := new(MockNoteRepo)
	svc := services.NewCaptureService(obsRepo, noteRepo)

	obsRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Observation")).Return(nil)

	obs, err := svc.RecordObservation(context.Background(), services.RecordObservationInput{
		GroupID:    "g1",
		OccurredOn: "2024-06-01",
		Category:   "breakfast",
		Field:      "before",
		Value:      "110",
		Author:     "anna",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.CategoryBreakfast, obs.Category)
	assert.Equal(t, "110", obs.Value)
	obsRepo.AssertExpectations(t)
}

func TestCaptureService_RejectsBadCategory(t *testing.T) {
	svc := services.NewCaptureService(new(MockObservationRepo), new(MockNoteRepo))

	_, err := svc.RecordObservation(context.Background(), services.RecordObservationInput{
		GroupID:  "g1",
		Category: "brunch",
		Field:    "before",
		Value:    "110",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestCaptureService_RejectsFieldOutsideVocabulary(t *testing.T) {
	svc := services.NewCaptureService(new(MockObservationRepo), new(MockNoteRepo))

	_, err := svc.RecordObservation(context.Background(), services.RecordObservationInput{
		GroupID:  "g1",
		Category: "basal",
		Field:    "carbs",
		Value:    "40",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidField)
}

func TestCaptureService_RejectsBadNumber(t *testing.T) {
	svc := services.NewCaptureService(new(MockObservationRepo), new(MockNoteRepo))

	_, err := svc.RecordObservation(context.Background(), services.RecordObservationInput{
		GroupID:  "g1",
		Category: "lunch",
		Field:    "carbs",
		Value:    "forty",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidNumber)
}

func TestCaptureService_RejectsBadDate(t *testing.T) {
	svc := services.NewCaptureService(new(MockObservationRepo), new(MockNoteRepo))

	_, err := svc.RecordObservation(context.Background(), services.RecordObservationInput{
		GroupID:    "g1",
		OccurredOn: "June 1st",
		Category:   "lunch",
		Field:      "carbs",
		Value:      "40",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestCaptureService_SkipTokenStoredAsNotMeasured(t *testing.T) {
	obsRepo := new(MockObservationRepo)
	svc := services.NewCaptureService(obsRepo, new(MockNoteRepo))

	obsRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Observation")).Return(nil)

	obs, err := svc.RecordObservation(context.Background(), services.RecordObservationInput{
		GroupID:    "g1",
		OccurredOn: "2024-06-01",
		Category:   "dinner",
		Field:      "after",
		Value:      "-",
	})

	require.NoError(t, err)
	assert.Equal(t, "", obs.Value)
}

func TestCaptureService_RecordNote(t *testing.T) {
	noteRepo := new(MockNoteRepo)
	svc := services.NewCaptureService(new(MockObservationRepo), noteRepo)

	noteRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Note")).Return(nil)

	note, err := svc.RecordNote(context.Background(), services.RecordNoteInput{
		GroupID:    "g1",
		OccurredOn: "2024-06-01",
		Text:       "felt low",
		Author:     "anna",
	})

	require.NoError(t, err)
	assert.Equal(t, "felt low", note.Text)
	noteRepo.AssertExpectations(t)
}

func TestCaptureService_RejectsEmptyNote(t *testing.T) {
	svc := services.NewCaptureService(new(MockObservationRepo), new(MockNoteRepo))

	_, err := svc.RecordNote(context.Background(), services.RecordNoteInput{
		GroupID:    "g1",
		OccurredOn: "2024-06-01",
		Text:       "  ",
	})

	assert.ErrorIs(t, err, domain.ErrEmptyNote)
}
