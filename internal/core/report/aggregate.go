package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/glucolog/diary-engine/internal/core/domain"
)

// DayAggregate is one date of the report window: the latest value per
// (category, field) plus every note for that date in recording order.
type DayAggregate struct {
	Date   time.Time
	Cells  map[domain.Category]map[domain.Field]domain.Value
	Notes  []*domain.Note
	Extras []domain.Category // unknown categories present on this date, sorted
}

// TrendPoint is a single chart sample: one recorded BGL reading.
type TrendPoint struct {
	At  time.Time
	BGL float64
}

// Aggregate is the derived per-day view, built fresh for every report
// request and discarded afterwards.
type Aggregate struct {
	Start, End time.Time
	Days       []*DayAggregate
	Warnings   []string

	// Pre/Post feed the trend chart; points with unmeasured values are
	// never added, so missing readings are simply absent from a series.
	Pre  []TrendPoint
	Post []TrendPoint
}

// HasExtras reports whether any date carries an out-of-vocabulary category.
func (a *Aggregate) HasExtras() bool {
	for _, d := range a.Days {
		if len(d.Extras) > 0 {
			return true
		}
	}
	return false
}

// Build folds sorted observations and notes into the per-day structure.
// Input must be ordered by (occurred_on, recorded_at) ascending so a plain
// overwrite implements last-write-wins per field. Every date in the
// inclusive window materializes as a day, even with zero observations;
// a gap day in the diary stays visible to the caregiver reading the report.
// Malformed stored rows are skipped with a warning, never aborting the run.
func Build(start, end time.Time, observations []*domain.Observation, notes []*domain.Note) *Aggregate {
	start = truncateDay(start)
	end = truncateDay(end)

	agg := &Aggregate{Start: start, End: end}

	index := make(map[string]*DayAggregate)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day := &DayAggregate{
			Date:  d,
			Cells: make(map[domain.Category]map[domain.Field]domain.Value),
		}
		agg.Days = append(agg.Days, day)
		index[d.Format(domain.DateKeyFormat)] = day
	}

	for _, obs := range observations {
		day, ok := index[obs.OccurredOn]
		if !ok {
			agg.warnf("observation %s: date %q outside window, skipped", obs.ID, obs.OccurredOn)
			continue
		}

		value, err := obs.ParsedValue()
		if err != nil {
			agg.warnf("observation %s (%s %s/%s): unparseable value %q, skipped",
				obs.ID, obs.OccurredOn, obs.Category, obs.Field, obs.Value)
			continue
		}

		fields, ok := day.Cells[obs.Category]
		if !ok {
			fields = make(map[domain.Field]domain.Value)
			day.Cells[obs.Category] = fields
		}
		fields[obs.Field] = value

		if value.IsMeasured() && domain.NumericField(obs.Field) {
			switch obs.Field {
			case domain.FieldBefore:
				agg.Pre = append(agg.Pre, TrendPoint{At: obs.RecordedAt, BGL: value.Number})
			case domain.FieldAfter:
				agg.Post = append(agg.Post, TrendPoint{At: obs.RecordedAt, BGL: value.Number})
			}
		}
	}

	for _, note := range notes {
		day, ok := index[note.OccurredOn]
		if !ok {
			agg.warnf("note %s: date %q outside window, skipped", note.ID, note.OccurredOn)
			continue
		}
		day.Notes = append(day.Notes, note)
	}

	for _, day := range agg.Days {
		day.Extras = extraCategories(day.Cells)
	}

	return agg
}

// Empty reports whether the window produced no data at all. Callers are
// expected to short-circuit before rendering when this is true.
func (a *Aggregate) Empty() bool {
	for _, day := range a.Days {
		if len(day.Cells) > 0 || len(day.Notes) > 0 {
			return false
		}
	}
	return true
}

func (a *Aggregate) warnf(format string, args ...any) {
	a.Warnings = append(a.Warnings, fmt.Sprintf(format, args...))
}

func extraCategories(cells map[domain.Category]map[domain.Field]domain.Value) []domain.Category {
	var extras []domain.Category
	for cat := range cells {
		known := false
		for _, c := range domain.Categories {
			if cat == c {
				known = true
				break
			}
		}
		if !known {
			extras = append(extras, cat)
		}
	}
	sort.Slice(extras, func(i, j int) bool { return extras[i] < extras[j] })
	return extras
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
