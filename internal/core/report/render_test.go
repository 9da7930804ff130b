package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glucolog/diary-engine/internal/core/domain"
	"github.com/glucolog/diary-engine/internal/core/report"
)

func buildSamplePlan(t *testing.T) *report.Plan {
	t.Helper()

	at := day("2024-06-01").Add(8 * time.Hour)
	observations := []*domain.Observation{
		obs("2024-06-01", domain.CategoryBreakfast, domain.FieldBefore, "110", at),
		obs("2024-06-01", domain.CategoryBreakfast, domain.FieldAfter, "150", at.Add(2*time.Hour)),
		obs("2024-06-02", domain.CategoryDinner, domain.FieldCarbs, "60", at.Add(36*time.Hour)),
	}
	agg := report.Build(day("2024-06-01"), day("2024-06-02"), observations, nil)
	return report.NewPlanner(report.DefaultGeometry()).Plan(agg, "Group G", false)
}

func TestRender_ProducesPDFBytes(t *testing.T) {
	pdf, err := report.Render(buildSamplePlan(t), nil)
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}

func TestRender_Idempotent(t *testing.T) {
	first, err := report.Render(buildSamplePlan(t), nil)
	require.NoError(t, err)
	second, err := report.Render(buildSamplePlan(t), nil)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second), "identical plans must render byte-identical documents")
}

func TestRender_MultiPage(t *testing.T) {
	agg := report.Build(day("2024-06-01"), day("2024-07-10"), nil, nil)
	plan := report.NewPlanner(report.DefaultGeometry()).Plan(agg, "G", false)
	require.Greater(t, len(plan.Pages), 1)

	pdf, err := report.Render(plan, nil)
	require.NoError(t, err)

	// Each page carries its own content stream.
	assert.GreaterOrEqual(t, bytes.Count(pdf, []byte("/Page")), len(plan.Pages))
}

func TestRender_WithChart(t *testing.T) {
	at := day("2024-06-01").Add(8 * time.Hour)
	pre := []report.TrendPoint{{At: at, BGL: 110}, {At: at.Add(5 * time.Hour), BGL: 120}}
	post := []report.TrendPoint{{At: at.Add(time.Hour), BGL: 150}}

	png, err := report.TrendChartPNG("BGL Trend", pre, post)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	agg := report.Build(day("2024-06-01"), day("2024-06-01"), []*domain.Observation{
		obs("2024-06-01", domain.CategoryBreakfast, domain.FieldBefore, "110", at),
	}, nil)
	plan := report.NewPlanner(report.DefaultGeometry()).Plan(agg, "G", true)

	pdf, err := report.Render(plan, png)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}

func TestTrendChartPNG_NotEnoughData(t *testing.T) {
	_, err := report.TrendChartPNG("BGL Trend", nil, nil)
	assert.ErrorIs(t, err, report.ErrNoChartData)

	at := day("2024-06-01").Add(8 * time.Hour)
	_, err = report.TrendChartPNG("BGL Trend", []report.TrendPoint{{At: at, BGL: 110}}, nil)
	assert.ErrorIs(t, err, report.ErrNoChartData, "a single instant cannot span an axis")
}
