// Package history aggregates previously computed matches: filtering, sorting,
// summary statistics, CSV export and the dashboard overview.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/parthivsnair/Resume-Validator/internal/matcher"
)

// RecentLimit is the number of matches shown on the dashboard.
const RecentLimit = 5

// Source is the part of the matching service the aggregator reads from.
type Source interface {
	ListMatches(ctx context.Context) ([]matcher.Match, error)
	MatchDetail(ctx context.Context, matchID string) (*matcher.MatchDetail, error)
	ListResumes(ctx context.Context) (*matcher.Resumes, error)
	ListJobs(ctx context.Context) (*matcher.Jobs, error)
}

// Aggregator reads stored matches and derives views over them.
type Aggregator struct {
	src    Source
	logger *zap.Logger
	now    func() time.Time
}

// Dashboard is the overview of everything stored in the service.
type Dashboard struct {
	TotalResumes int
	TotalJobs    int
	TotalMatches int
	AverageScore float64
	Recent       []matcher.Match
}

func New(src Source, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Aggregator{src: src, logger: logger, now: time.Now}
}

// Fetch loads all stored matches. Failures are returned as is, there is no retry.
func (a *Aggregator) Fetch(ctx context.Context) ([]matcher.Match, error) {
	records, err := a.src.ListMatches(ctx)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("matches fetched", zap.Int("count", len(records)))
	return records, nil
}

// Stats summarizes records relative to the current wall clock.
func (a *Aggregator) Stats(records []matcher.Match) Summary {
	return Stats(records, a.now())
}

// Detail loads a single match with its resume and job. An unknown id or a
// failed request is reported as an error, never as an empty detail.
func (a *Aggregator) Detail(ctx context.Context, matchID string) (*matcher.MatchDetail, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, &matcher.ValidationError{Field: "match_id", Message: "match id is required"}
	}

	detail, err := a.src.MatchDetail(ctx, matchID)
	if err != nil {
		a.logger.Warn("match detail failed", zap.String("match_id", matchID), zap.Error(err))
		return nil, fmt.Errorf("loading match %s: %w", matchID, err)
	}

	return detail, nil
}

// Join runs fns concurrently and waits for all of them. The first failure
// cancels the others and is returned.
func Join(ctx context.Context, fns ...func(ctx context.Context) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, fn := range fns {
		g.Go(func() error {
			return fn(ctx)
		})
	}

	return g.Wait()
}

// Dashboard loads resumes, jobs and matches concurrently. Nothing is returned
// unless all three succeed.
func (a *Aggregator) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		resumes *matcher.Resumes
		jobs    *matcher.Jobs
		matches []matcher.Match
	)

	err := Join(ctx,
		func(ctx context.Context) (err error) {
			resumes, err = a.src.ListResumes(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			jobs, err = a.src.ListJobs(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			matches, err = a.src.ListMatches(ctx)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	recent, err := Sort(matches, SortNewest)
	if err != nil {
		return nil, err
	}
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}

	dash := &Dashboard{
		TotalResumes: resumes.Len(),
		TotalJobs:    jobs.Len(),
		TotalMatches: len(matches),
		AverageScore: Stats(matches, a.now()).Average,
		Recent:       recent,
	}

	a.logger.Debug("dashboard loaded",
		zap.Int("resumes", dash.TotalResumes),
		zap.Int("jobs", dash.TotalJobs),
		zap.Int("matches", dash.TotalMatches),
	)

	return dash, nil
}
