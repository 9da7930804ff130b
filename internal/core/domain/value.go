package domain

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrInvalidNumber = errors.New("value is not a valid number")
)

// NotMeasuredToken is what authors type when a reading was skipped.
const NotMeasuredToken = "-"

// Placeholder is the display form for both empty value states.
const Placeholder = "-"

type ValueState int

const (
	// Measured holds an actual reading or text entered by an author.
	Measured ValueState = iota
	// NotMeasured means the author explicitly skipped the field ("-").
	NotMeasured
	// NotApplicable means the field was never captured for that slot.
	NotApplicable
)

// Value is the three-state payload of a scalar observation. Numeric fields
// (BGL, carbs, insulin units) carry Number; text fields (ratio) carry Text.
type Value struct {
	State  ValueState
	Number float64
	Text   string
}

func MeasuredNumber(n float64) Value {
	return Value{State: Measured, Number: n}
}

func MeasuredText(s string) Value {
	return Value{State: Measured, Text: s}
}

func NoValue() Value {
	return Value{State: NotMeasured}
}

func NotApplicableValue() Value {
	return Value{State: NotApplicable}
}

// ParseValue turns raw author input into a Value. Numeric fields accept a
// decimal number or the skip token; text fields are taken verbatim.
func ParseValue(raw string, numeric bool) (Value, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == NotMeasuredToken {
		return NoValue(), nil
	}
	if !numeric {
		return MeasuredText(trimmed), nil
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return Value{}, ErrInvalidNumber
	}
	return MeasuredNumber(n), nil
}

// Raw returns the storage form of the value: the decimal text for numbers,
// the text itself for text values, empty string for the empty states.
func (v Value) Raw() string {
	switch v.State {
	case Measured:
		if v.Text != "" {
			return v.Text
		}
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// Display collapses both empty states to the placeholder for rendering.
// The states never conflate internally; only the printed form is shared.
func (v Value) Display() string {
	if v.State != Measured {
		return Placeholder
	}
	return v.Raw()
}

func (v Value) IsMeasured() bool {
	return v.State == Measured
}
