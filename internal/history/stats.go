package history

import (
	"math"
	"time"

	"github.com/parthivsnair/Resume-Validator/internal/matcher"
)

// Summary aggregates a set of matches.
type Summary struct {
	Count        int
	Average      float64
	Best         float64
	CurrentMonth int
}

// Stats summarizes records. CurrentMonth counts records created in the calendar
// month and year of now, in now's location.
func Stats(records []matcher.Match, now time.Time) Summary {
	summary := Summary{Count: len(records)}
	if len(records) == 0 {
		return summary
	}

	var sum float64
	best := math.Inf(-1)
	for _, m := range records {
		sum += m.OverallScore
		if m.OverallScore > best {
			best = m.OverallScore
		}

		if m.CreatedAt.IsZero() {
			continue
		}
		created := m.CreatedAt.In(now.Location())
		if created.Year() == now.Year() && created.Month() == now.Month() {
			summary.CurrentMonth++
		}
	}

	summary.Average = round1(sum / float64(len(records)))
	summary.Best = best

	return summary
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
