// Package ai holds optional language-model helpers layered on top of match results.
package ai

import (
	"context"

	"github.com/parthivsnair/Resume-Validator/internal/matcher"
)

// Advice is a short improvement note for a single match.
type Advice struct {
	Summary    string
	Priorities []string
	Raw        string
}

// Advisor writes advice from a stored match and the records it was computed from.
type Advisor interface {
	Advise(ctx context.Context, detail *matcher.MatchDetail) (*Advice, error)
}
