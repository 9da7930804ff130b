package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/glucolog/diary-engine/internal/core/services"
)

type SessionHandler struct {
	svc *services.SessionService
}

func NewSessionHandler(svc *services.SessionService) *SessionHandler {
	return &SessionHandler{
		svc: svc,
	}
}

type startSessionRequest struct {
	GroupID string `json:"group_id" binding:"required"`
	Author  string `json:"author"`
}

type answerRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *SessionHandler) RegisterRoutes(router *gin.RouterGroup) {
	sessions := router.Group("/sessions")
	{
		sessions.POST("", h.Start)
		sessions.POST("/:id/answers", h.Answer)
		sessions.DELETE("/:id", h.Cancel)
	}
}

func (h *SessionHandler) Start(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	reply, err := h.svc.Start(c.Request.Context(), req.GroupID, req.Author)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reply)
}

func (h *SessionHandler) Answer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	reply, err := h.svc.Answer(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}

func (h *SessionHandler) Cancel(c *gin.Context) {
	reply, err := h.svc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}
