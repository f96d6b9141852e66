package summary

import (
	"sort"

	"traininghours/training"
)

const (
	DefaultMissingName   = "<missing_name>"
	DefaultMissingSchool = "<missing_school>"
)

// Key identifies one aggregation group.
type Key struct {
	Month     int
	Name      string
	School    string
	Framework string
}

// Table maps each group to its hours per day of month. Days are stored as
// entered; nothing checks them against the calendar.
type Table map[Key]map[int]float64

type Options struct {
	MissingName   string
	MissingSchool string
}

// Group is one table entry in report order.
type Group struct {
	Key
	Days map[int]float64
}

// Total sums the hours of every day of the group.
func (g Group) Total() float64 {
	total := 0.0
	for _, hours := range g.Days {
		total += hours
	}
	return total
}

// Build folds records into a Table. Records without a name or school fall
// into the placeholder group for that field.
func Build(records []training.Record, options Options) Table {
	missingName := fallback(options.MissingName, DefaultMissingName)
	missingSchool := fallback(options.MissingSchool, DefaultMissingSchool)

	table := make(Table)
	for _, record := range records {
		key := Key{
			Month:     record.SessionDate.Month,
			Name:      valueOr(record.InstructorName, missingName),
			School:    valueOr(record.InstructorSchool, missingSchool),
			Framework: record.PayingFramework,
		}

		days, ok := table[key]
		if !ok {
			days = make(map[int]float64)
			table[key] = days
		}
		days[record.SessionDate.Day] += record.TrainingHours
	}
	return table
}

// Months returns the distinct months in ascending order.
func (t Table) Months() []int {
	seen := make(map[int]struct{})
	for key := range t {
		seen[key.Month] = struct{}{}
	}

	months := make([]int, 0, len(seen))
	for month := range seen {
		months = append(months, month)
	}
	sort.Ints(months)
	return months
}

// Groups returns the groups of one month ordered by name, school and framework.
func (t Table) Groups(month int) []Group {
	groups := make([]Group, 0)
	for key, days := range t {
		if key.Month == month {
			groups = append(groups, Group{Key: key, Days: days})
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.School != b.School {
			return a.School < b.School
		}
		return a.Framework < b.Framework
	})
	return groups
}

func valueOr(value *string, placeholder string) string {
	if value == nil {
		return placeholder
	}
	return *value
}

func fallback(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
