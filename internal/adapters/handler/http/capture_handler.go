package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/glucolog/diary-engine/internal/core/domain"
	"github.com/glucolog/diary-engine/internal/core/services"
)

type CaptureHandler struct {
	svc *services.CaptureService
}

func NewCaptureHandler(svc *services.CaptureService) *CaptureHandler {
	return &CaptureHandler{
		svc: svc,
	}
}

type recordObservationRequest struct {
	GroupID    string `json:"group_id" binding:"required"`
	OccurredOn string `json:"occurred_on"`
	Category   string `json:"category" binding:"required"`
	Field      string `json:"field" binding:"required"`
	Value      string `json:"value"`
	Author     string `json:"author"`
}

type recordNoteRequest struct {
	GroupID    string `json:"group_id" binding:"required"`
	OccurredOn string `json:"occurred_on"`
	Text       string `json:"text" binding:"required"`
	Author     string `json:"author"`
}

func (h *CaptureHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/observations", h.RecordObservation)
	router.POST("/notes", h.RecordNote)
}

func (h *CaptureHandler) RecordObservation(c *gin.Context) {
	var req recordObservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	obs, err := h.svc.RecordObservation(c.Request.Context(), services.RecordObservationInput{
		GroupID:    req.GroupID,
		OccurredOn: req.OccurredOn,
		Category:   req.Category,
		Field:      req.Field,
		Value:      req.Value,
		Author:     req.Author,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, obs)
}

func (h *CaptureHandler) RecordNote(c *gin.Context) {
	var req recordNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	note, err := h.svc.RecordNote(c.Request.Context(), services.RecordNoteInput{
		GroupID:    req.GroupID,
		OccurredOn: req.OccurredOn,
		Text:       req.Text,
		Author:     req.Author,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, note)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidGroupID) ||
		errors.Is(err, domain.ErrInvalidCategory) ||
		errors.Is(err, domain.ErrInvalidField) ||
		errors.Is(err, domain.ErrInvalidNumber) ||
		errors.Is(err, domain.ErrInvalidDate) ||
		errors.Is(err, domain.ErrEmptyNote):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrEmptyRange):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "empty range",
			"message": "no diary entries in the requested range",
		})

	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found or expired"})

	case errors.Is(err, services.ErrSessionDone):
		c.JSON(http.StatusConflict, gin.H{"error": "session already finished"})

	default:
		log.Printf("[ERROR] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)

		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
