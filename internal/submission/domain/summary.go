package domain

import "github.com/smallbiznis/eltrackr/internal/footprint"

// Summarize computes the list-view aggregates over items ordered most
// recent first. On a tie for the lowest total the most recent record wins.
func Summarize(items []Submission) Summary {
	summary := Summary{TotalCount: len(items)}
	if len(items) == 0 {
		return summary
	}

	var (
		sum    float64
		lowest *Submission
	)
	for i := range items {
		sum += items[i].CO2Total
		if lowest == nil || items[i].CO2Total < lowest.CO2Total {
			item := items[i]
			lowest = &item
		}
	}

	summary.TotalCO2 = footprint.Round2(sum)
	// The average is left unrounded; views format it.
	summary.AverageCO2 = sum / float64(summary.TotalCount)
	summary.Lowest = lowest
	return summary
}
