package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/glucolog/diary-engine/internal/core/domain"
)

var (
	ErrSessionNotFound = errors.New("capture session not found")
	ErrSessionDone     = errors.New("capture session already finished")
)

// SessionState tags where a guided capture stands. Transitions only move
// forward (or to aborted); a failed validation re-enters the same state.
type SessionState string

const (
	StateMeal    SessionState = "meal"
	StatePreBGL  SessionState = "pre_bgl"
	StatePostBGL SessionState = "post_bgl"
	StateCarbs   SessionState = "carbs"
	StateRatio   SessionState = "ratio"
	StateInsulin SessionState = "insulin"
	StateNotes   SessionState = "notes"
	StateConfirm SessionState = "confirm"
	StateSaved   SessionState = "saved"
	StateAborted SessionState = "aborted"
)

// CaptureSession is the accumulating partial record of one guided entry.
// Answers hold raw author input per field; nothing is persisted to the
// diary until the author confirms.
type CaptureSession struct {
	ID        string                  `json:"id"`
	GroupID   string                  `json:"group_id"`
	Author    string                  `json:"author"`
	State     SessionState            `json:"state"`
	Meal      domain.Category         `json:"meal,omitempty"`
	Answers   map[domain.Field]string `json:"answers"`
	Note      string                  `json:"note,omitempty"`
	StartedAt time.Time               `json:"started_at"`
}

func (s *CaptureSession) terminal() bool {
	return s.State == StateSaved || s.State == StateAborted
}

// SessionStore persists in-flight sessions between answer events. Entries
// are short-lived; implementations may expire abandoned sessions.
type SessionStore interface {
	Save(ctx context.Context, session *CaptureSession) error
	Get(ctx context.Context, id string) (*CaptureSession, error)
	Delete(ctx context.Context, id string) error
}

type SessionService struct {
	store   SessionStore
	capture *CaptureService
}

func NewSessionService(store SessionStore, capture *CaptureService) *SessionService {
	return &SessionService{
		store:   store,
		capture: capture,
	}
}

// SessionReply is what the author sees after each event: the state the
// session is now in and the prompt for the next answer.
type SessionReply struct {
	SessionID string       `json:"session_id"`
	State     SessionState `json:"state"`
	Prompt    string       `json:"prompt"`
	Saved     bool         `json:"saved"`
	Aborted   bool         `json:"aborted"`
}

func (s *SessionService) Start(ctx context.Context, groupID, author string) (*SessionReply, error) {
	if strings.TrimSpace(groupID) == "" {
		return nil, domain.ErrInvalidGroupID
	}

	session := &CaptureSession{
		ID:        uuid.NewString(),
		GroupID:   groupID,
		Author:    author,
		State:     StateMeal,
		Answers:   make(map[domain.Field]string),
		StartedAt: time.Now().UTC(),
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return reply(session, "What meal is this? (breakfast, lunch or dinner)"), nil
}

// Answer feeds one author message into the session's current state. A
// validation failure keeps the state and re-prompts; it is not an error.
func (s *SessionService) Answer(ctx context.Context, id, text string) (*SessionReply, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.terminal() {
		return nil, ErrSessionDone
	}

	text = strings.TrimSpace(text)

	switch session.State {
	case StateMeal:
		meal, err := domain.ParseCategory(text)
		if err != nil || meal == domain.CategoryBasal {
			return reply(session, "Please answer breakfast, lunch or dinner."), nil
		}
		session.Meal = meal
		session.State = StatePreBGL
		return s.advance(ctx, session, "Enter pre-meal BGL (or '-' if not measured):")

	case StatePreBGL:
		return s.numericAnswer(ctx, session, domain.FieldBefore, text,
			StatePostBGL, "Enter post-meal BGL (or '-' if not measured):")

	case StatePostBGL:
		return s.numericAnswer(ctx, session, domain.FieldAfter, text,
			StateCarbs, "Enter carbs in grams (or '-'):")

	case StateCarbs:
		return s.numericAnswer(ctx, session, domain.FieldCarbs, text,
			StateRatio, "Enter insulin ratio (e.g. 1:10, or '-'):")

	case StateRatio:
		session.Answers[domain.FieldRatio] = text
		session.State = StateInsulin
		return s.advance(ctx, session, "Enter insulin units given (or '-'):")

	case StateInsulin:
		return s.numericAnswer(ctx, session, domain.FieldInsulin, text,
			StateNotes, "Any notes? (or '-' for none)")

	case StateNotes:
		if text != domain.NotMeasuredToken {
			session.Note = text
		}
		session.State = StateConfirm
		return s.advance(ctx, session, s.summary(session))

	case StateConfirm:
		return s.confirm(ctx, session, text)
	}

	return nil, fmt.Errorf("unexpected session state %q", session.State)
}

// Cancel moves the session to aborted from any non-terminal state and
// drops the draft. The diary is untouched.
func (s *SessionService) Cancel(ctx context.Context, id string) (*SessionReply, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.terminal() {
		return nil, ErrSessionDone
	}

	session.State = StateAborted
	if err := s.store.Delete(ctx, id); err != nil {
		return nil, err
	}
	r := reply(session, "Entry cancelled. Nothing was saved.")
	r.Aborted = true
	return r, nil
}

func (s *SessionService) numericAnswer(ctx context.Context, session *CaptureSession, field domain.Field, text string, next SessionState, prompt string) (*SessionReply, error) {
	if _, err := domain.ParseValue(text, true); err != nil {
		return reply(session, "Invalid number. Enter a number or '-'."), nil
	}
	session.Answers[field] = text
	session.State = next
	return s.advance(ctx, session, prompt)
}

func (s *SessionService) advance(ctx context.Context, session *CaptureSession, prompt string) (*SessionReply, error) {
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return reply(session, prompt), nil
}

func (s *SessionService) confirm(ctx context.Context, session *CaptureSession, text string) (*SessionReply, error) {
	answer := strings.ToLower(text)
	if answer != "yes" && answer != "y" {
		session.State = StateAborted
		if err := s.store.Delete(ctx, session.ID); err != nil {
			return nil, err
		}
		r := reply(session, "Entry cancelled. Nothing was saved.")
		r.Aborted = true
		return r, nil
	}

	today := time.Now().UTC().Format(domain.DateKeyFormat)
	for _, field := range domain.CategoryFields[session.Meal] {
		raw, ok := session.Answers[field]
		if !ok {
			continue
		}
		_, err := s.capture.RecordObservation(ctx, RecordObservationInput{
			GroupID:    session.GroupID,
			OccurredOn: today,
			Category:   string(session.Meal),
			Field:      string(field),
			Value:      raw,
			Author:     session.Author,
		})
		if err != nil {
			return nil, err
		}
	}
	if session.Note != "" {
		_, err := s.capture.RecordNote(ctx, RecordNoteInput{
			GroupID:    session.GroupID,
			OccurredOn: today,
			Text:       session.Note,
			Author:     session.Author,
		})
		if err != nil {
			return nil, err
		}
	}

	session.State = StateSaved
	if err := s.store.Delete(ctx, session.ID); err != nil {
		return nil, err
	}
	r := reply(session, "Saved!")
	r.Saved = true
	return r, nil
}

func (s *SessionService) summary(session *CaptureSession) string {
	var b strings.Builder
	b.WriteString("Confirm entry:\n")
	b.WriteString("Meal: " + string(session.Meal) + "\n")
	for _, field := range domain.CategoryFields[session.Meal] {
		raw, ok := session.Answers[field]
		if !ok || raw == "" {
			raw = domain.NotMeasuredToken
		}
		b.WriteString(domain.FieldLabel(field) + ": " + raw + "\n")
	}
	note := session.Note
	if note == "" {
		note = domain.NotMeasuredToken
	}
	b.WriteString("Notes: " + note + "\n")
	b.WriteString("Answer 'yes' to save or 'no' to cancel.")
	return b.String()
}

func reply(session *CaptureSession, prompt string) *SessionReply {
	return &SessionReply{
		SessionID: session.ID,
		State:     session.State,
		Prompt:    prompt,
	}
}
