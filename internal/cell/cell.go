// Package cell models a single spreadsheet cell value and converts it into the
// semantic types used by the importer.
package cell

import (
	"fmt"
	"strconv"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	Empty Kind = iota
	Int
	Float
	Text
	DateTime
	Error
	Bool
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Int:
		return "integer"
	case Float:
		return "float"
	case Text:
		return "text"
	case DateTime:
		return "datetime"
	case Error:
		return "error"
	case Bool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a raw cell as produced by a workbook reader. Only the field that
// matches Kind is meaningful; Error cells keep their code (e.g. "#N/A") in Text.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Text  string
	Time  time.Time
	Bool  bool
}

func EmptyValue() Value               { return Value{Kind: Empty} }
func IntValue(v int64) Value          { return Value{Kind: Int, Int: v} }
func FloatValue(v float64) Value      { return Value{Kind: Float, Float: v} }
func TextValue(v string) Value        { return Value{Kind: Text, Text: v} }
func DateTimeValue(v time.Time) Value { return Value{Kind: DateTime, Time: v} }
func ErrorValue(code string) Value    { return Value{Kind: Error, Text: code} }
func BoolValue(v bool) Value          { return Value{Kind: Bool, Bool: v} }

// String renders the value the way it is shown in a text column.
// Empty and Error cells render as "".
func (v Value) String() string {
	switch v.Kind {
	case Int:
		return strconv.FormatInt(v.Int, 10)
	case Float:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case Text:
		return v.Text
	case DateTime:
		if v.Time.Hour() == 0 && v.Time.Minute() == 0 && v.Time.Second() == 0 {
			return v.Time.Format("2006-01-02")
		}
		return v.Time.Format("2006-01-02 15:04:05")
	case Bool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// TypeError reports a cell whose variant cannot be converted to the wanted type.
type TypeError struct {
	Want string
	Got  Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Want, e.Got)
}
