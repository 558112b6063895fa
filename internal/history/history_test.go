package history

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/parthivsnair/Resume-Validator/internal/matcher"
)

func record(id string, score float64, created time.Time) matcher.Match {
	return matcher.Match{
		MatchID:      id,
		ResumeID:     "resume-" + id,
		JobID:        "job-" + id,
		OverallScore: score,
		CreatedAt:    created,
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.Local)
}

func scores(records []matcher.Match) []float64 {
	out := make([]float64, 0, len(records))
	for _, m := range records {
		out = append(out, m.OverallScore)
	}
	return out
}

func TestStatsEmpty(t *testing.T) {
	summary := Stats(nil, time.Now())
	assert.Equal(t, Summary{}, summary)
}

func TestStatsAverageRoundsToOneDecimal(t *testing.T) {
	records := []matcher.Match{
		record("a", 70, time.Time{}),
		record("b", 71, time.Time{}),
		record("c", 71, time.Time{}),
	}

	summary := Stats(records, time.Now())
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, 70.7, summary.Average)
	assert.Equal(t, 71.0, summary.Best)
	assert.Zero(t, summary.CurrentMonth)
}

func TestStatsCurrentMonth(t *testing.T) {
	now := day(2024, time.March, 15)
	records := []matcher.Match{
		record("a", 10, day(2024, time.March, 1)),
		record("b", 20, day(2024, time.March, 31)),
		record("c", 30, day(2024, time.February, 29)),
		record("d", 40, day(2023, time.March, 10)),
	}

	assert.Equal(t, 2, Stats(records, now).CurrentMonth)
}

func TestBandsPartitionScoreRange(t *testing.T) {
	for score := 0.0; score <= 100; score += 0.5 {
		var hits int
		for _, b := range Bands {
			if b.Contains(score) {
				hits++
			}
		}
		require.Equalf(t, 1, hits, "score %v", score)
	}
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{score: 100, want: "excellent"},
		{score: 80, want: "excellent"},
		{score: 79.999, want: "good"},
		{score: 60, want: "good"},
		{score: 59.9, want: "average"},
		{score: 40, want: "average"},
		{score: 39.999, want: "poor"},
		{score: 0, want: "poor"},
		{score: 120, want: "excellent"},
		{score: -5, want: "poor"},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, BandFor(tt.score).Label, "score %v", tt.score)
	}
}

func TestParseBand(t *testing.T) {
	band, err := ParseBand(" Good ")
	require.NoError(t, err)
	assert.Equal(t, "good", band)

	band, err = ParseBand("")
	require.NoError(t, err)
	assert.Equal(t, BandAll, band)

	_, err = ParseBand("great")
	assert.Error(t, err)
}

func TestFilterBySearchIgnoresCase(t *testing.T) {
	records := []matcher.Match{
		{MatchID: "ABC-1", ResumeID: "r1", JobID: "j1"},
		{MatchID: "m2", ResumeID: "r-abc", JobID: "j2"},
		{MatchID: "m3", ResumeID: "r3", JobID: "JOB-aBc"},
		{MatchID: "m4", ResumeID: "r4", JobID: "j4"},
	}

	got := FilterMatches(records, "abc", BandAll)
	require.Len(t, got, 3)
	assert.Equal(t, "ABC-1", got[0].MatchID)
	assert.Equal(t, "m3", got[2].MatchID)

	assert.Len(t, FilterMatches(records, "", ""), 4)
	assert.Empty(t, FilterMatches(records, "zzz", BandAll))
}

func TestFilterByBand(t *testing.T) {
	records := []matcher.Match{
		record("a", 100, time.Time{}),
		record("b", 80, time.Time{}),
		record("c", 79.9, time.Time{}),
		record("d", 40, time.Time{}),
		record("e", 39.999, time.Time{}),
	}

	assert.Equal(t, []float64{100, 80}, scores(FilterMatches(records, "", "excellent")))
	assert.Equal(t, []float64{79.9}, scores(FilterMatches(records, "", "good")))
	assert.Equal(t, []float64{40}, scores(FilterMatches(records, "", "average")))
	assert.Equal(t, []float64{39.999}, scores(FilterMatches(records, "", "poor")))
	assert.Empty(t, FilterMatches(records, "", "unknown"))
}

func TestRunLogsEnabledSteps(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	records := []matcher.Match{record("a", 90, time.Time{}), record("b", 20, time.Time{})}

	got := Run(zap.New(core), []Filter{NewSearch(""), NewBand("poor")}, records)
	require.Len(t, got, 1)

	entries := logs.FilterMessage("filter step").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "band", fields["name"])
	assert.EqualValues(t, 1, fields["dropped"])
}

func TestSortOrders(t *testing.T) {
	records := []matcher.Match{
		record("a", 50, day(2024, time.January, 3)),
		record("b", 90, day(2024, time.January, 1)),
		record("c", 70, day(2024, time.January, 2)),
		record("d", 70, day(2024, time.January, 4)),
	}

	newest, err := Sort(records, SortNewest)
	require.NoError(t, err)
	assert.Equal(t, []float64{70, 50, 70, 90}, scores(newest))

	oldest, err := Sort(records, SortOldest)
	require.NoError(t, err)
	assert.Equal(t, []float64{90, 70, 50, 70}, scores(oldest))

	highest, err := Sort(records, SortHighest)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "d", "a"}, ids(highest))

	lowest, err := Sort(records, SortLowest)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "d", "b"}, ids(lowest))

	// input order untouched
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(records))

	_, err = Sort(records, "random")
	assert.Error(t, err)
}

func TestParseSortKey(t *testing.T) {
	key, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortNewest, key)

	key, err = ParseSortKey("Highest")
	require.NoError(t, err)
	assert.Equal(t, SortHighest, key)

	_, err = ParseSortKey("best")
	assert.Error(t, err)
}

func ids(records []matcher.Match) []string {
	out := make([]string, 0, len(records))
	for _, m := range records {
		out = append(out, m.MatchID)
	}
	return out
}

func TestExportCSV(t *testing.T) {
	skills, experience, qualifications := 90.0, 0.0, 66.66
	m := record("m1", 85.26, time.Date(2024, time.January, 5, 10, 0, 0, 0, time.Local))
	m.SkillsMatch.Score = &skills
	m.ExperienceMatch.Score = &experience
	m.QualificationsMatch.Score = &qualifications

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, []matcher.Match{m, record("m2", 40, time.Time{})}, ""))

	header, err := buf.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "match_id, overall_score, skills_score, experience_score, qualifications_score, created_at\n", header)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"m1", "85.3", "90.0", "0.0", "66.7", "1/5/2024"}, rows[0])
	assert.Equal(t, []string{"m2", "40.0", "0", "0", "0", ""}, rows[1])
}

func TestExportCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, nil, "2006-01-02"))
	assert.Equal(t, "match_id, overall_score, skills_score, experience_score, qualifications_score, created_at\n", buf.String())
}

func TestExportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	written, err := ExportFile(path, []matcher.Match{record("m1", 10, time.Time{})}, "")
	require.NoError(t, err)
	assert.Equal(t, path, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "m1,10.0,0,0,0,\n")
}

type fakeSource struct {
	matches    []matcher.Match
	resumes    *matcher.Resumes
	jobs       *matcher.Jobs
	detail     *matcher.MatchDetail
	matchesErr error
	jobsErr    error
	detailErr  error
}

func (f *fakeSource) ListMatches(ctx context.Context) ([]matcher.Match, error) {
	return f.matches, f.matchesErr
}

func (f *fakeSource) MatchDetail(ctx context.Context, matchID string) (*matcher.MatchDetail, error) {
	return f.detail, f.detailErr
}

func (f *fakeSource) ListResumes(ctx context.Context) (*matcher.Resumes, error) {
	return f.resumes, nil
}

func (f *fakeSource) ListJobs(ctx context.Context) (*matcher.Jobs, error) {
	return f.jobs, f.jobsErr
}

func TestHistoryScenario(t *testing.T) {
	src := &fakeSource{matches: []matcher.Match{
		record("m1", 90, day(2024, time.January, 5)),
		record("m2", 50, day(2024, time.January, 1)),
	}}
	agg := New(src, nil)
	agg.now = func() time.Time { return day(2024, time.January, 20) }

	records, err := agg.Fetch(context.Background())
	require.NoError(t, err)

	summary := agg.Stats(records)
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, 70.0, summary.Average)
	assert.Equal(t, 90.0, summary.Best)
	assert.Equal(t, 2, summary.CurrentMonth)

	newest, err := Sort(records, SortNewest)
	require.NoError(t, err)
	assert.Equal(t, []float64{90, 50}, scores(newest))

	highest, err := Sort(records, SortHighest)
	require.NoError(t, err)
	assert.Equal(t, []float64{90, 50}, scores(highest))

	assert.Empty(t, FilterMatches(records, "", "good"))
}

func TestFetchPropagatesFailure(t *testing.T) {
	failure := &matcher.NetworkError{Op: "list matches", Fallback: "failed to fetch matches"}
	agg := New(&fakeSource{matchesErr: failure}, nil)

	_, err := agg.Fetch(context.Background())
	assert.ErrorIs(t, err, failure)
}

func TestDetail(t *testing.T) {
	detail := &matcher.MatchDetail{Match: &matcher.Match{MatchID: "m1"}}
	agg := New(&fakeSource{detail: detail}, nil)

	got, err := agg.Detail(context.Background(), "m1")
	require.NoError(t, err)
	assert.Same(t, detail, got)

	_, err = agg.Detail(context.Background(), "  ")
	var verr *matcher.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDetailFailureIsReported(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	notFound := &matcher.NetworkError{Op: "match detail", Status: 404, Detail: "Match not found"}
	agg := New(&fakeSource{detailErr: notFound}, zap.New(core))

	got, err := agg.Detail(context.Background(), "missing")
	assert.Nil(t, got)

	var nerr *matcher.NetworkError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "Match not found", nerr.Message())
	assert.Equal(t, 1, logs.FilterMessage("match detail failed").Len())
}

func TestDashboard(t *testing.T) {
	var matches []matcher.Match
	for i := 1; i <= 7; i++ {
		matches = append(matches, record(string(rune('a'+i-1)), float64(i*10), day(2024, time.January, i)))
	}

	src := &fakeSource{
		matches: matches,
		resumes: &matcher.Resumes{Items: []*matcher.Resume{{ID: "r1"}, {ID: "r2"}}},
		jobs:    &matcher.Jobs{Items: []*matcher.Job{{ID: "j1"}}},
	}

	dash, err := New(src, nil).Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, dash.TotalResumes)
	assert.Equal(t, 1, dash.TotalJobs)
	assert.Equal(t, 7, dash.TotalMatches)
	assert.Equal(t, 40.0, dash.AverageScore)
	assert.Equal(t, []string{"g", "f", "e", "d", "c"}, ids(dash.Recent))
}

func TestDashboardFailsWhenAnyRequestFails(t *testing.T) {
	failure := errors.New("jobs unavailable")
	src := &fakeSource{
		resumes: &matcher.Resumes{},
		jobsErr: failure,
	}

	dash, err := New(src, nil).Dashboard(context.Background())
	assert.Nil(t, dash)
	assert.ErrorIs(t, err, failure)
}

func TestJoinCancelsSiblings(t *testing.T) {
	failure := errors.New("boom")

	err := Join(context.Background(),
		func(ctx context.Context) error { return failure },
		func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	)
	assert.ErrorIs(t, err, failure)
}
