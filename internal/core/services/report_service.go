package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/glucolog/diary-engine/internal/core/domain"
	"github.com/glucolog/diary-engine/internal/core/report"
)

type ReportService struct {
	obsRepo  domain.ObservationRepository
	noteRepo domain.NoteRepository
	planner  *report.Planner
}

func NewReportService(obsRepo domain.ObservationRepository, noteRepo domain.NoteRepository) *ReportService {
	return &ReportService{
		obsRepo:  obsRepo,
		noteRepo: noteRepo,
		planner:  report.NewPlanner(report.DefaultGeometry()),
	}
}

type GenerateInput struct {
	GroupID   string
	GroupName string
	Start     time.Time
	End       time.Time
	// WithChart asks for the BGL trend image on the first page. It is
	// silently dropped when the window holds too few readings to plot.
	WithChart bool
}

// Generate runs the full pipeline for one report request: fetch both logs,
// aggregate per day, plan the table, paint pages. Everything is allocated
// fresh per call and nothing is cached, so concurrent requests share no
// state. ErrEmptyRange is returned before any rendering when the window
// holds no data at all.
func (s *ReportService) Generate(ctx context.Context, input GenerateInput) ([]byte, error) {
	if input.End.Before(input.Start) {
		return nil, fmt.Errorf("%w: end date before start date", domain.ErrInvalidDate)
	}

	startKey := input.Start.UTC().Format(domain.DateKeyFormat)
	endKey := input.End.UTC().Format(domain.DateKeyFormat)

	observations, err := s.obsRepo.ListByGroupAndRange(ctx, input.GroupID, startKey, endKey)
	if err != nil {
		return nil, err
	}
	notes, err := s.noteRepo.ListByGroupAndRange(ctx, input.GroupID, startKey, endKey)
	if err != nil {
		return nil, err
	}

	agg := report.Build(input.Start, input.End, observations, notes)
	if agg.Empty() {
		return nil, domain.ErrEmptyRange
	}
	for _, w := range agg.Warnings {
		log.Printf("[REPORT] group %s: %s", input.GroupID, w)
	}

	var chartPNG []byte
	if input.WithChart {
		title := fmt.Sprintf("BGL Trend %s to %s", startKey, endKey)
		chartPNG, err = report.TrendChartPNG(title, agg.Pre, agg.Post)
		if errors.Is(err, report.ErrNoChartData) {
			chartPNG = nil
		} else if err != nil {
			return nil, fmt.Errorf("trend chart: %w", err)
		}
	}

	plan := s.planner.Plan(agg, input.GroupName, len(chartPNG) > 0)
	return report.Render(plan, chartPNG)
}
