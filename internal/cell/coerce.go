package cell

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"02.01.2006 15:04:05",
	"02.01.2006",
}

// OptionalText stringifies text, number and datetime cells. Empty, Error and
// Bool cells yield nil.
func OptionalText(v Value) *string {
	switch v.Kind {
	case Int, Float, Text, DateTime:
		s := v.String()
		return &s
	default:
		return nil
	}
}

// RequiredText renders any cell as text; an Empty cell is "". Only Error
// cells fail.
func RequiredText(v Value) (string, error) {
	switch v.Kind {
	case Error:
		return "", &TypeError{Want: "text", Got: v.Kind}
	default:
		return v.String(), nil
	}
}

// Hours returns numeric cells as float64; everything else counts as 0.
func Hours(v Value) float64 {
	switch v.Kind {
	case Int:
		return float64(v.Int)
	case Float:
		return v.Float
	default:
		return 0
	}
}

// HoursStrict is Hours without the zero fallback.
func HoursStrict(v Value) (float64, error) {
	switch v.Kind {
	case Int:
		return float64(v.Int), nil
	case Float:
		return v.Float, nil
	default:
		return 0, &TypeError{Want: "number", Got: v.Kind}
	}
}

// Date returns the calendar date of a datetime cell, of a number read as an
// Excel serial in the 1900 date system, or of text holding a recognizable
// date. The result is midnight UTC.
func Date(v Value) (time.Time, error) {
	switch v.Kind {
	case DateTime:
		return truncateDay(v.Time), nil
	case Int, Float:
		serial := v.Float
		if v.Kind == Int {
			serial = float64(v.Int)
		}
		parsed, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date serial %s: %w", v.String(), err)
		}
		return truncateDay(parsed), nil
	case Text:
		value := strings.TrimSpace(v.Text)
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, value); err == nil {
				return truncateDay(parsed), nil
			}
		}
		return time.Time{}, fmt.Errorf("invalid date %q", v.Text)
	default:
		return time.Time{}, &TypeError{Want: "date", Got: v.Kind}
	}
}

// DayMonth parses "DD/MM" text into its day and month numbers.
func DayMonth(v Value) (day, month int, err error) {
	if v.Kind != Text {
		return 0, 0, &TypeError{Want: "text", Got: v.Kind}
	}

	parts := strings.Split(strings.TrimSpace(v.Text), "/")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid date format %q (expected DD/MM)", v.Text)
	}

	day, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid day in %q: %w", v.Text, err)
	}
	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month in %q: %w", v.Text, err)
	}
	return day, month, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
