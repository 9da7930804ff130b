package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidGroupID  = errors.New("group id is required")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidField    = errors.New("invalid field for category")
	ErrInvalidDate     = errors.New("invalid date (must be YYYY-MM-DD)")
)

// DateKeyFormat is the internal storage form of an observation date.
const DateKeyFormat = "2006-01-02"

// DisplayDateFormat is the single display form used in rendered reports.
const DisplayDateFormat = "02-01-2006"

type Category string

const (
	CategoryBreakfast Category = "breakfast"
	CategoryLunch     Category = "lunch"
	CategoryDinner    Category = "dinner"
	CategoryBasal     Category = "basal"
)

// Categories is the fixed enumeration in report column order.
var Categories = []Category{CategoryBreakfast, CategoryLunch, CategoryDinner, CategoryBasal}

type Field string

const (
	FieldBefore  Field = "before"
	FieldAfter   Field = "after"
	FieldCarbs   Field = "carbs"
	FieldRatio   Field = "ratio"
	FieldInsulin Field = "insulin"
	FieldAM      Field = "am"
	FieldPM      Field = "pm"
)

var mealFields = []Field{FieldBefore, FieldAfter, FieldCarbs, FieldRatio, FieldInsulin}
var basalFields = []Field{FieldAM, FieldPM}

// CategoryFields is the validation table: the declared field vocabulary of
// each category, in the order fields stack inside a report cell.
var CategoryFields = map[Category][]Field{
	CategoryBreakfast: mealFields,
	CategoryLunch:     mealFields,
	CategoryDinner:    mealFields,
	CategoryBasal:     basalFields,
}

// textFields holds the fields stored as free text rather than numbers.
var textFields = map[Field]bool{
	FieldRatio: true,
}

func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

// KnownField reports whether field belongs to the category's declared
// vocabulary. Unknown pairs are still stored and rendered with a generic
// label, so this is a capture-time check only.
func KnownField(c Category, f Field) bool {
	for _, known := range CategoryFields[c] {
		if f == known {
			return true
		}
	}
	return false
}

// NumericField reports whether the field's value must parse as a number.
func NumericField(f Field) bool {
	return !textFields[f]
}

// FieldLabel returns the display label for a field. Unknown fields get a
// generic title-cased label so forward-compatible data still renders.
func FieldLabel(f Field) string {
	switch f {
	case FieldBefore:
		return "Before"
	case FieldAfter:
		return "After"
	case FieldCarbs:
		return "Carbs"
	case FieldRatio:
		return "Ratio"
	case FieldInsulin:
		return "Insulin"
	case FieldAM:
		return "AM"
	case FieldPM:
		return "PM"
	}
	s := string(f)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func CategoryLabel(c Category) string {
	s := string(c)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Observation is one logged fact: a single (group, date, category, field)
// write. Later writes for the same key supersede earlier ones in reports.
type Observation struct {
	ID         string    `json:"id" db:"id"`
	GroupID    string    `json:"group_id" db:"group_id"`
	OccurredOn string    `json:"occurred_on" db:"occurred_on"`
	Category   Category  `json:"category" db:"category"`
	Field      Field     `json:"field" db:"field"`
	Value      string    `json:"value" db:"value"`
	Author     string    `json:"author" db:"author"`
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}

func NewObservation(groupID, occurredOn string, category Category, field Field, value Value, author string) *Observation {
	return &Observation{
		ID:         uuid.NewString(),
		GroupID:    groupID,
		OccurredOn: occurredOn,
		Category:   category,
		Field:      field,
		Value:      value.Raw(),
		Author:     author,
		RecordedAt: time.Now().UTC(),
	}
}

func (o *Observation) Validate() error {
	if strings.TrimSpace(o.GroupID) == "" {
		return ErrInvalidGroupID
	}
	if _, err := time.Parse(DateKeyFormat, o.OccurredOn); err != nil {
		return ErrInvalidDate
	}
	if o.Category == "" {
		return ErrInvalidCategory
	}
	if o.Field == "" {
		return ErrInvalidField
	}
	return nil
}

// ParsedValue rebuilds the three-state Value from the stored raw text.
// A stored numeric field that no longer parses is a legacy/hand-entered
// row; the caller decides whether to skip it (reports do).
func (o *Observation) ParsedValue() (Value, error) {
	if o.Value == "" {
		return NoValue(), nil
	}
	return ParseValue(o.Value, NumericField(o.Field))
}
