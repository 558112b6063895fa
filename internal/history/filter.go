package history

import (
	"strings"

	"go.uber.org/zap"

	"github.com/parthivsnair/Resume-Validator/internal/matcher"
)

// Filter represents a single filtering step applied to matches.
type Filter interface {
	Name() string
	IsEnabled() bool
	Apply(records []matcher.Match) ([]matcher.Match, Step)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

type searchFilter struct {
	term string
}

// NewSearch keeps matches whose match, resume or job id contains term,
// ignoring case. An empty term keeps everything.
func NewSearch(term string) Filter {
	return &searchFilter{term: strings.ToLower(term)}
}

func (f *searchFilter) Name() string { return "search" }

func (f *searchFilter) IsEnabled() bool { return f.term != "" }

func (f *searchFilter) Apply(records []matcher.Match) ([]matcher.Match, Step) {
	return keep(records, func(m matcher.Match) bool {
		return strings.Contains(strings.ToLower(m.MatchID), f.term) ||
			strings.Contains(strings.ToLower(m.ResumeID), f.term) ||
			strings.Contains(strings.ToLower(m.JobID), f.term)
	})
}

type bandFilter struct {
	band string
}

// NewBand keeps matches whose overall score falls in the named band. BandAll
// and the empty string keep everything; an unknown band keeps nothing.
func NewBand(band string) Filter {
	return &bandFilter{band: strings.ToLower(strings.TrimSpace(band))}
}

func (f *bandFilter) Name() string { return "band" }

func (f *bandFilter) IsEnabled() bool { return f.band != "" && f.band != BandAll }

func (f *bandFilter) Apply(records []matcher.Match) ([]matcher.Match, Step) {
	var band *Band
	for i := range Bands {
		if Bands[i].Label == f.band {
			band = &Bands[i]
		}
	}

	return keep(records, func(m matcher.Match) bool {
		return band != nil && band.Contains(clamp(m.OverallScore))
	})
}

// Run executes the supplied filters sequentially. The input slice is not modified.
func Run(logger *zap.Logger, steps []Filter, records []matcher.Match) []matcher.Match {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}

		next, info := step.Apply(records)
		logger.Debug("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)
		records = next
	}

	return records
}

// FilterMatches keeps the records that match the search term and the band.
func FilterMatches(records []matcher.Match, term, band string) []matcher.Match {
	out := Run(nil, []Filter{NewSearch(term), NewBand(band)}, records)
	return append([]matcher.Match{}, out...)
}

func keep(records []matcher.Match, pred func(matcher.Match) bool) ([]matcher.Match, Step) {
	out := make([]matcher.Match, 0, len(records))
	for _, m := range records {
		if pred(m) {
			out = append(out, m)
		}
	}

	return out, Step{Initial: len(records), Dropped: len(records) - len(out), Left: len(out)}
}

func clamp(score float64) float64 {
	switch {
	case score > MaxScore:
		return MaxScore
	case score < MinScore:
		return MinScore
	default:
		return score
	}
}
