package summary

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// MonthStats condenses one month of the table for console output.
type MonthStats struct {
	Month       int
	Groups      int
	TotalHours  float64
	MeanHours   float64
	MedianHours float64
}

// Stats computes per-month totals over group totals, in month order.
func (t Table) Stats() ([]MonthStats, error) {
	months := t.Months()
	out := make([]MonthStats, 0, len(months))
	for _, month := range months {
		groups := t.Groups(month)
		totals := make(stats.Float64Data, 0, len(groups))
		for _, group := range groups {
			totals = append(totals, group.Total())
		}

		sum, err := stats.Sum(totals)
		if err != nil {
			return nil, fmt.Errorf("sum hours for month %d: %w", month, err)
		}
		mean, err := stats.Mean(totals)
		if err != nil {
			return nil, fmt.Errorf("mean hours for month %d: %w", month, err)
		}
		median, err := stats.Median(totals)
		if err != nil {
			return nil, fmt.Errorf("median hours for month %d: %w", month, err)
		}

		out = append(out, MonthStats{
			Month:       month,
			Groups:      len(groups),
			TotalHours:  roundHours(sum),
			MeanHours:   roundHours(mean),
			MedianHours: roundHours(median),
		})
	}
	return out, nil
}

func roundHours(value float64) float64 {
	return math.Round(value*100) / 100
}
