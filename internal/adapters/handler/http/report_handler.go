package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/glucolog/diary-engine/internal/core/domain"
	"github.com/glucolog/diary-engine/internal/core/services"
)

type ReportHandler struct {
	svc *services.ReportService
}

func NewReportHandler(svc *services.ReportService) *ReportHandler {
	return &ReportHandler{
		svc: svc,
	}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/reports", h.Generate)
}

// Generate streams the PDF back as an attachment. Start and end are
// inclusive YYYY-MM-DD; end defaults to today and start to end-6 days,
// mirroring the weekly default of the /report command this replaces.
func (h *ReportHandler) Generate(c *gin.Context) {
	groupID := c.Query("group_id")
	if groupID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "group_id is required"})
		return
	}

	groupName := c.Query("group_name")
	if groupName == "" {
		groupName = "Diary"
	}

	end, err := queryDate(c, "end", time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date (must be YYYY-MM-DD)"})
		return
	}
	start, err := queryDate(c, "start", end.AddDate(0, 0, -6))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date (must be YYYY-MM-DD)"})
		return
	}

	withChart := c.DefaultQuery("chart", "true") != "false"

	pdf, err := h.svc.Generate(c.Request.Context(), services.GenerateInput{
		GroupID:   groupID,
		GroupName: groupName,
		Start:     start,
		End:       end,
		WithChart: withChart,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	filename := fmt.Sprintf("diary_%s_to_%s.pdf",
		start.Format(domain.DateKeyFormat), end.Format(domain.DateKeyFormat))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func queryDate(c *gin.Context, name string, fallback time.Time) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return time.Parse(domain.DateKeyFormat, raw)
}
