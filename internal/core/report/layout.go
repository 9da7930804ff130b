package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/glucolog/diary-engine/internal/core/domain"
)

// Geometry holds the page budget and type constants the planner works
// against. All lengths are millimeters on a landscape A4 sheet.
type Geometry struct {
	PageWidth   float64
	PageHeight  float64
	Margin      float64
	TitleBlock  float64 // title + period caption on the first page
	HeaderRow   float64
	LineHeight  float64
	CellPadding float64 // vertical padding above and below cell lines
	ChartHeight float64 // reserved vertical space for the trend chart
	ChartGap    float64
	CharWidth   float64 // approximate body glyph width, drives truncation
}

func DefaultGeometry() Geometry {
	return Geometry{
		PageWidth:   297,
		PageHeight:  210,
		Margin:      15,
		TitleBlock:  18,
		HeaderRow:   7,
		LineHeight:  3.8,
		CellPadding: 1.5,
		ChartHeight: 60,
		ChartGap:    6,
		CharWidth:   1.75,
	}
}

func (g Geometry) BodyWidth() float64 {
	return g.PageWidth - 2*g.Margin
}

func (g Geometry) bodyHeight() float64 {
	return g.PageHeight - 2*g.Margin
}

type columnKind int

const (
	columnDate columnKind = iota
	columnCategory
	columnExtras
	columnNotes
)

// Column is one table column: a header title and a fixed width. Widths are
// fixed proportions of the body width, not content-fit, so the table shape
// is identical no matter what the diary holds.
type Column struct {
	Title    string
	Width    float64
	Kind     columnKind
	Category domain.Category
}

// Row is one date of the table, cell text already split into lines and
// truncated to the column's character budget.
type Row struct {
	DateKey string
	Cells   [][]string
	Height  float64
}

// Page groups the rows that fit together under one repeated header row.
type Page struct {
	Rows []*Row
}

// Plan is the full layout: everything the renderer needs to paint pages
// without measuring anything itself.
type Plan struct {
	Title    string
	Period   string
	Geometry Geometry
	Columns  []Column
	Pages    []*Page

	// ChartReserved is the height set aside on page one; zero when the
	// report carries no chart.
	ChartReserved float64
}

// Column width shares, in percent of body width. The notes column absorbs
// whatever the other columns leave.
const (
	dateShare     = 9.0
	categoryShare = 14.0
	extrasShare   = 12.0
)

type Planner struct {
	geo Geometry
}

func NewPlanner(geo Geometry) *Planner {
	return &Planner{geo: geo}
}

// Plan computes columns, per-row cell lines, and the pagination plan for
// the aggregate. withChart reserves first-page space for the trend image.
func (p *Planner) Plan(agg *Aggregate, groupName string, withChart bool) *Plan {
	plan := &Plan{
		Title: "Diabetes Diary - " + groupName,
		Period: fmt.Sprintf("Report period: %s to %s",
			agg.Start.Format(domain.DisplayDateFormat),
			agg.End.Format(domain.DisplayDateFormat)),
		Geometry: p.geo,
		Columns:  p.columns(agg.HasExtras()),
	}
	if withChart {
		plan.ChartReserved = p.geo.ChartHeight + p.geo.ChartGap
	}

	rows := make([]*Row, 0, len(agg.Days))
	for _, day := range agg.Days {
		rows = append(rows, p.buildRow(day, plan.Columns))
	}

	plan.Pages = p.paginate(rows, plan.ChartReserved)
	return plan
}

func (p *Planner) columns(withExtras bool) []Column {
	body := p.geo.BodyWidth()

	used := dateShare + categoryShare*float64(len(domain.Categories))
	if withExtras {
		used += extrasShare
	}
	notesShare := 100 - used

	cols := []Column{{Title: "Date", Width: body * dateShare / 100, Kind: columnDate}}
	for _, cat := range domain.Categories {
		cols = append(cols, Column{
			Title:    domain.CategoryLabel(cat),
			Width:    body * categoryShare / 100,
			Kind:     columnCategory,
			Category: cat,
		})
	}
	if withExtras {
		cols = append(cols, Column{Title: "Other", Width: body * extrasShare / 100, Kind: columnExtras})
	}
	cols = append(cols, Column{Title: "Notes", Width: body * notesShare / 100, Kind: columnNotes})
	return cols
}

func (p *Planner) buildRow(day *DayAggregate, cols []Column) *Row {
	row := &Row{DateKey: day.Date.Format(domain.DateKeyFormat)}

	maxLines := 1
	for _, col := range cols {
		budget := p.charBudget(col.Width)
		var lines []string

		switch col.Kind {
		case columnDate:
			lines = []string{day.Date.Format(domain.DisplayDateFormat)}
		case columnCategory:
			lines = categoryLines(day, col.Category, budget)
		case columnExtras:
			lines = extrasLines(day, budget)
		case columnNotes:
			lines = noteLines(day, budget)
		}

		if len(lines) > maxLines {
			maxLines = len(lines)
		}
		row.Cells = append(row.Cells, lines)
	}

	row.Height = 2*p.geo.CellPadding + float64(maxLines)*p.geo.LineHeight
	return row
}

// paginate walks rows top to bottom. A row is never split: when it would
// overflow the remaining height the page is closed and a fresh one opened
// with the header repeated.
func (p *Planner) paginate(rows []*Row, chartReserved float64) []*Page {
	first := p.geo.bodyHeight() - p.geo.TitleBlock - chartReserved - p.geo.HeaderRow
	rest := p.geo.bodyHeight() - p.geo.HeaderRow

	pages := []*Page{{}}
	remaining := first

	for _, row := range rows {
		if row.Height > remaining && len(pages[len(pages)-1].Rows) > 0 {
			pages = append(pages, &Page{})
			remaining = rest
		}
		page := pages[len(pages)-1]
		page.Rows = append(page.Rows, row)
		remaining -= row.Height
	}
	return pages
}

func (p *Planner) charBudget(width float64) int {
	n := int(width / p.geo.CharWidth)
	if n < 4 {
		n = 4
	}
	return n
}

// categoryLines stacks the category's declared fields in vocabulary order,
// then any out-of-vocabulary fields recorded under it, each on its own
// line. Fields never captured for the slot print the placeholder.
func categoryLines(day *DayAggregate, cat domain.Category, budget int) []string {
	fields := day.Cells[cat]
	lines := make([]string, 0, len(domain.CategoryFields[cat]))

	seen := make(map[domain.Field]bool)
	for _, f := range domain.CategoryFields[cat] {
		seen[f] = true
		value := domain.NotApplicableValue()
		if v, ok := fields[f]; ok {
			value = v
		}
		lines = append(lines, truncate(domain.FieldLabel(f)+": "+value.Display(), budget))
	}

	for _, f := range sortedFields(fields) {
		if seen[f] {
			continue
		}
		lines = append(lines, truncate(domain.FieldLabel(f)+": "+fields[f].Display(), budget))
	}
	return lines
}

func extrasLines(day *DayAggregate, budget int) []string {
	var lines []string
	for _, cat := range day.Extras {
		fields := day.Cells[cat]
		for _, f := range sortedFields(fields) {
			line := domain.CategoryLabel(cat) + " " + domain.FieldLabel(f) + ": " + fields[f].Display()
			lines = append(lines, truncate(line, budget))
		}
	}
	if len(lines) == 0 {
		lines = []string{domain.Placeholder}
	}
	return lines
}

// noteLines prefixes each note with its capture time. Note order is the
// aggregate's recording order and is preserved verbatim.
func noteLines(day *DayAggregate, budget int) []string {
	if len(day.Notes) == 0 {
		return []string{domain.Placeholder}
	}
	lines := make([]string, 0, len(day.Notes))
	for _, n := range day.Notes {
		line := "[" + n.RecordedAt.Format("15:04") + "] "
		if n.Author != "" {
			line += n.Author + ": "
		}
		line += n.Text
		lines = append(lines, truncate(line, budget))
	}
	return lines
}

func sortedFields(fields map[domain.Field]domain.Value) []domain.Field {
	out := make([]domain.Field, 0, len(fields))
	for f := range fields {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func truncate(s string, budget int) string {
	if len(s) <= budget {
		return s
	}
	if budget <= 3 {
		return s[:budget]
	}
	return strings.TrimRight(s[:budget-3], " ") + "..."
}
