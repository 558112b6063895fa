package history

import (
	"fmt"
	"strings"
)

const (
	// BandAll disables band filtering.
	BandAll = "all"

	MinScore = 0
	MaxScore = 100
)

// Band is a score bucket covering [Lower, Upper). The top band also contains MaxScore.
type Band struct {
	Label string
	Lower float64
	Upper float64
}

// Bands partition [MinScore, MaxScore], highest first.
var Bands = []Band{
	{Label: "excellent", Lower: 80, Upper: MaxScore},
	{Label: "good", Lower: 60, Upper: 80},
	{Label: "average", Lower: 40, Upper: 60},
	{Label: "poor", Lower: MinScore, Upper: 40},
}

// Contains reports whether score falls in the band.
func (b Band) Contains(score float64) bool {
	if score == b.Upper && b.Upper == MaxScore {
		return true
	}
	return score >= b.Lower && score < b.Upper
}

// Title is the label as shown to users.
func (b Band) Title() string {
	if b.Label == "" {
		return ""
	}
	return strings.ToUpper(b.Label[:1]) + b.Label[1:]
}

// BandFor returns the band of score. Scores outside [MinScore, MaxScore] are
// clamped to the nearest band.
func BandFor(score float64) Band {
	score = clamp(score)
	for _, b := range Bands {
		if b.Contains(score) {
			return b
		}
	}

	// unreachable while Bands covers the whole range
	return Bands[len(Bands)-1]
}

// ParseBand normalizes a band label given by a user. Empty means BandAll.
func ParseBand(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == BandAll {
		return BandAll, nil
	}

	for _, b := range Bands {
		if b.Label == s {
			return s, nil
		}
	}

	return "", fmt.Errorf("unknown band %q, expected one of: %s", s, strings.Join(BandLabels(), ", "))
}

// BandLabels lists all accepted band filter values.
func BandLabels() []string {
	labels := []string{BandAll}
	for _, b := range Bands {
		labels = append(labels, b.Label)
	}
	return labels
}
