package history

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/parthivsnair/Resume-Validator/internal/matcher"
)

// SortKey selects the order of a match list.
type SortKey string

const (
	SortNewest  SortKey = "newest"
	SortOldest  SortKey = "oldest"
	SortHighest SortKey = "highest"
	SortLowest  SortKey = "lowest"
)

var sortKeys = []SortKey{SortNewest, SortOldest, SortHighest, SortLowest}

// ParseSortKey normalizes a sort key given by a user. Empty means SortNewest.
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if key == "" {
		return SortNewest, nil
	}
	if slices.Contains(sortKeys, key) {
		return key, nil
	}

	return "", fmt.Errorf("unknown sort key %q, expected one of: newest, oldest, highest, lowest", s)
}

// Sort returns a sorted copy of records. Equal keys keep their input order.
func Sort(records []matcher.Match, key SortKey) ([]matcher.Match, error) {
	var compare func(a, b matcher.Match) int

	switch key {
	case SortNewest:
		compare = func(a, b matcher.Match) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case SortOldest:
		compare = func(a, b matcher.Match) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortHighest:
		compare = func(a, b matcher.Match) int { return cmp.Compare(b.OverallScore, a.OverallScore) }
	case SortLowest:
		compare = func(a, b matcher.Match) int { return cmp.Compare(a.OverallScore, b.OverallScore) }
	default:
		return nil, fmt.Errorf("unknown sort key %q", key)
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, compare)

	return sorted, nil
}
