package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/glucolog/diary-engine/internal/adapters/handler/http"
	"github.com/glucolog/diary-engine/internal/adapters/repository"
	"github.com/glucolog/diary-engine/internal/adapters/session"
	"github.com/glucolog/diary-engine/internal/core/domain"
	"github.com/glucolog/diary-engine/internal/core/services"
)

func setupSessionRouter() (*gin.Engine, *repository.InMemoryObservationRepository, *repository.InMemoryNoteRepository) {
	gin.SetMode(gin.TestMode)

	obsRepo := repository.NewInMemoryObservationRepository()
	noteRepo := repository.NewInMemoryNoteRepository()
	capture := services.NewCaptureService(obsRepo, noteRepo)
	svc := services.NewSessionService(session.NewMemoryStore(), capture)
	handler := adapterHTTP.NewSessionHandler(svc)

	r := gin.New()
	handler.RegisterRoutes(r.Group("/api/v1"))
	return r, obsRepo, noteRepo
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeReply(t *testing.T, w *httptest.ResponseRecorder) services.SessionReply {
	var reply services.SessionReply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	return reply
}

func TestSessionFlow(t *testing.T) {
	t.Run("Full capture over HTTP persists the entry", func(t *testing.T) {
		router, obsRepo, noteRepo := setupSessionRouter()

		w := postJSON(router, "/api/v1/sessions", `{"group_id": "g1", "author": "anna"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		reply := decodeReply(t, w)
		require.NotEmpty(t, reply.SessionID)
		assert.Equal(t, services.StateMeal, reply.State)

		answersPath := fmt.Sprintf("/api/v1/sessions/%s/answers", reply.SessionID)
		for _, text := range []string{"breakfast", "110", "150", "40", "1:10", "2.5", "felt low", "yes"} {
			w = postJSON(router, answersPath, fmt.Sprintf(`{"text": %q}`, text))
			require.Equal(t, http.StatusOK, w.Code, "answer %q", text)
		}
		reply = decodeReply(t, w)
		assert.True(t, reply.Saved)

		today := time.Now().UTC().Format(domain.DateKeyFormat)
		stored, err := obsRepo.ListByGroupAndRange(context.Background(), "g1", today, today)
		require.NoError(t, err)
		assert.Len(t, stored, 5)

		notes, err := noteRepo.ListByGroupAndRange(context.Background(), "g1", today, today)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "felt low", notes[0].Text)
	})

	t.Run("Missing group_id: 400", func(t *testing.T) {
		router, _, _ := setupSessionRouter()

		w := postJSON(router, "/api/v1/sessions", `{"author": "anna"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Answer on unknown session: 404", func(t *testing.T) {
		router, _, _ := setupSessionRouter()

		w := postJSON(router, "/api/v1/sessions/nope/answers", `{"text": "breakfast"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Invalid answer re-prompts with 200", func(t *testing.T) {
		router, _, _ := setupSessionRouter()

		w := postJSON(router, "/api/v1/sessions", `{"group_id": "g1"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		reply := decodeReply(t, w)

		answersPath := fmt.Sprintf("/api/v1/sessions/%s/answers", reply.SessionID)
		w = postJSON(router, answersPath, `{"text": "basal"}`)
		require.Equal(t, http.StatusOK, w.Code)
		reply = decodeReply(t, w)
		assert.Equal(t, services.StateMeal, reply.State)
		assert.Contains(t, reply.Prompt, "breakfast, lunch or dinner")
	})

	t.Run("Cancel drops the draft", func(t *testing.T) {
		router, obsRepo, _ := setupSessionRouter()

		w := postJSON(router, "/api/v1/sessions", `{"group_id": "g1"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		reply := decodeReply(t, w)

		req, _ := http.NewRequest("DELETE", "/api/v1/sessions/"+reply.SessionID, nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		reply = decodeReply(t, w)
		assert.True(t, reply.Aborted)

		today := time.Now().UTC().Format(domain.DateKeyFormat)
		stored, err := obsRepo.ListByGroupAndRange(context.Background(), "g1", today, today)
		require.NoError(t, err)
		assert.Empty(t, stored)

		// The draft is gone, so a second cancel cannot find it.
		req, _ = http.NewRequest("DELETE", "/api/v1/sessions/"+reply.SessionID, nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
