package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"traininghours/training"
)

func record(day, month int, name, school *string, framework string, hours float64) training.Record {
	return training.Record{
		SessionDate:      training.SessionDate{Day: day, Month: month},
		InstructorName:   name,
		InstructorSchool: school,
		PayingFramework:  framework,
		TrainingHours:    hours,
	}
}

func str(s string) *string { return &s }

func TestBuild_SumsHoursPerDay(t *testing.T) {
	t.Parallel()

	table := Build([]training.Record{
		record(10, 4, str("Dana"), str("North"), "Ministry", 3.5),
	}, Options{})

	key := Key{Month: 4, Name: "Dana", School: "North", Framework: "Ministry"}
	require.Len(t, table, 1)
	require.Contains(t, table, key)
	assert.Equal(t, map[int]float64{10: 3.5}, table[key])
}

func TestBuild_MergesMatchingKeys(t *testing.T) {
	t.Parallel()

	table := Build([]training.Record{
		record(10, 4, str("Dana"), str("North"), "Ministry", 2),
		record(10, 4, str("Dana"), str("North"), "Ministry", 1),
		record(11, 4, str("Dana"), str("North"), "Ministry", 4),
		record(10, 4, str("Dana"), str("North"), "Private", 5),
	}, Options{})

	require.Len(t, table, 2)
	assert.Equal(t, map[int]float64{10: 3, 11: 4}, table[Key{Month: 4, Name: "Dana", School: "North", Framework: "Ministry"}])
	assert.Equal(t, map[int]float64{10: 5}, table[Key{Month: 4, Name: "Dana", School: "North", Framework: "Private"}])
}

func TestBuild_CollapsesMissingNamesIntoPlaceholderGroup(t *testing.T) {
	t.Parallel()

	table := Build([]training.Record{
		record(1, 6, nil, str("North"), "Ministry", 1),
		record(2, 6, nil, str("North"), "Ministry", 2),
		record(2, 6, nil, nil, "Ministry", 2),
	}, Options{})

	require.Len(t, table, 2)
	assert.Equal(t, map[int]float64{1: 1, 2: 2}, table[Key{Month: 6, Name: DefaultMissingName, School: "North", Framework: "Ministry"}])
	assert.Contains(t, table, Key{Month: 6, Name: DefaultMissingName, School: DefaultMissingSchool, Framework: "Ministry"})
}

func TestBuild_CustomPlaceholders(t *testing.T) {
	t.Parallel()

	table := Build([]training.Record{record(1, 6, nil, nil, "Ministry", 1)}, Options{MissingName: "?", MissingSchool: "-"})
	assert.Contains(t, table, Key{Month: 6, Name: "?", School: "-", Framework: "Ministry"})
}

func TestBuild_KeepsOutOfRangeDays(t *testing.T) {
	t.Parallel()

	table := Build([]training.Record{record(45, 2, str("Dana"), str("North"), "Ministry", 1)}, Options{})
	assert.Equal(t, map[int]float64{45: 1}, table[Key{Month: 2, Name: "Dana", School: "North", Framework: "Ministry"}])
}

func TestBuild_IsRepeatable(t *testing.T) {
	t.Parallel()

	records := []training.Record{
		record(1, 1, str("A"), str("S"), "F", 1),
		record(1, 1, str("A"), str("S"), "F", 2),
		record(3, 2, str("B"), nil, "F", 4),
	}
	assert.Equal(t, Build(records, Options{}), Build(records, Options{}))
}

func TestTable_MonthsAscending(t *testing.T) {
	t.Parallel()

	table := Build([]training.Record{
		record(1, 12, str("A"), str("S"), "F", 1),
		record(1, 1, str("A"), str("S"), "F", 1),
		record(1, 6, str("A"), str("S"), "F", 1),
		record(2, 6, str("B"), str("S"), "F", 1),
	}, Options{})

	assert.Equal(t, []int{1, 6, 12}, table.Months())
}

func TestTable_GroupsSorted(t *testing.T) {
	t.Parallel()

	table := Build([]training.Record{
		record(1, 3, str("Noa"), str("B"), "F", 1),
		record(1, 3, str("Adi"), str("B"), "G", 1),
		record(1, 3, str("Adi"), str("B"), "F", 1),
		record(1, 3, str("Adi"), str("A"), "Z", 1),
		record(1, 4, str("Zed"), str("A"), "F", 1),
	}, Options{})

	groups := table.Groups(3)
	require.Len(t, groups, 4)
	got := make([]Key, 0, len(groups))
	for _, group := range groups {
		got = append(got, group.Key)
	}
	assert.Equal(t, []Key{
		{Month: 3, Name: "Adi", School: "A", Framework: "Z"},
		{Month: 3, Name: "Adi", School: "B", Framework: "F"},
		{Month: 3, Name: "Adi", School: "B", Framework: "G"},
		{Month: 3, Name: "Noa", School: "B", Framework: "F"},
	}, got)
}

func TestTable_Stats(t *testing.T) {
	t.Parallel()

	table := Build([]training.Record{
		record(1, 5, str("A"), str("S"), "F", 1),
		record(2, 5, str("A"), str("S"), "F", 2),
		record(1, 5, str("B"), str("S"), "F", 5),
		record(1, 5, str("C"), str("S"), "F", 7),
	}, Options{})

	monthStats, err := table.Stats()
	require.NoError(t, err)
	require.Len(t, monthStats, 1)
	assert.Equal(t, MonthStats{Month: 5, Groups: 3, TotalHours: 15, MeanHours: 5, MedianHours: 5}, monthStats[0])
}
