package matcher

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// SubScore is one component of a match. Score is nil when the service left the
// component out or sent a null score.
type SubScore struct {
	Score   *float64 `json:"score"`
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
}

// Value returns the score, or 0 when it is missing.
func (s SubScore) Value() float64 {
	if s.Score == nil {
		return 0
	}
	return *s.Score
}

// Match is a scored comparison between one resume and one job description.
// OverallScore is computed by the service and never recomputed here.
type Match struct {
	MatchID             string    `json:"match_id"`
	ResumeID            string    `json:"resume_id"`
	JobID               string    `json:"job_id"`
	OverallScore        float64   `json:"overall_score"`
	SkillsMatch         SubScore  `json:"skills_match"`
	ExperienceMatch     SubScore  `json:"experience_match"`
	QualificationsMatch SubScore  `json:"qualifications_match"`
	MatchedKeywords     []string  `json:"matched_keywords"`
	MissingSkills       []string  `json:"missing_skills"`
	Suggestions         []string  `json:"suggestions"`
	DetailedAnalysis    string    `json:"detailed_analysis"`
	CreatedAt           time.Time `json:"created_at"`
}

// storedMatch is the persisted shape, which names the identifier "id".
type storedMatch struct {
	Match `json:",squash"`
	ID    string `json:"id"`
}

// MatchDetail is a stored match together with the records it was computed from.
// Resume and Job are nil when the service no longer has them.
type MatchDetail struct {
	Match  *Match
	Resume *Resume
	Job    *Job
}

type matchRequest struct {
	ResumeID string `json:"resume_id"`
	JobID    string `json:"job_id"`
}

// Match asks the service to score the resume against the job. Every call runs
// the scoring again; results are not cached.
func (c *Client) Match(ctx context.Context, resumeID, jobID string) (*Match, error) {
	resumeID = strings.TrimSpace(resumeID)
	jobID = strings.TrimSpace(jobID)
	if resumeID == "" || jobID == "" {
		return nil, &ValidationError{Message: "Both resume and job description are required"}
	}

	var match Match
	if err := c.postJSON(ctx, "match", "failed to match resume with job", matchPath, matchRequest{ResumeID: resumeID, JobID: jobID}, &match); err != nil {
		return nil, err
	}

	// The scoring response does not echo the pair back.
	match.ResumeID = resumeID
	match.JobID = jobID
	match.normalize()

	return &match, nil
}

// ListMatches returns every stored match, in the order the service reports them.
func (c *Client) ListMatches(ctx context.Context) ([]Match, error) {
	var resp struct {
		Matches []storedMatch `json:"matches"`
	}
	if err := c.getJSON(ctx, "list matches", "failed to fetch matches", matchesPath, &resp); err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(resp.Matches))
	for _, stored := range resp.Matches {
		matches = append(matches, stored.toMatch())
	}

	return matches, nil
}

// MatchDetail fetches one stored match with its resume and job.
func (c *Client) MatchDetail(ctx context.Context, matchID string) (*MatchDetail, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, &ValidationError{Field: "match_id", Message: "match id is required"}
	}

	var resp struct {
		Match  *storedMatch `json:"match"`
		Resume *Resume      `json:"resume"`
		Job    *Job         `json:"job"`
	}
	path := matchPath + "/" + url.PathEscape(matchID)
	if err := c.getJSON(ctx, "match detail", "failed to fetch match details", path, &resp); err != nil {
		return nil, err
	}

	if resp.Match == nil {
		return nil, &ParseError{Op: "match detail", Fallback: "failed to fetch match details", Err: errMissingMatch}
	}

	match := resp.Match.toMatch()
	detail := &MatchDetail{Match: &match, Resume: resp.Resume, Job: resp.Job}
	if detail.Resume != nil {
		detail.Resume.normalize()
	}
	if detail.Job != nil {
		detail.Job.normalize()
	}

	return detail, nil
}

func (s storedMatch) toMatch() Match {
	m := s.Match
	if m.MatchID == "" {
		m.MatchID = s.ID
	}
	m.normalize()
	return m
}

func (m *Match) normalize() {
	m.MatchedKeywords = nonNil(m.MatchedKeywords)
	m.MissingSkills = nonNil(m.MissingSkills)
	m.Suggestions = nonNil(m.Suggestions)
	m.SkillsMatch.normalize()
	m.ExperienceMatch.normalize()
	m.QualificationsMatch.normalize()
}

func (s *SubScore) normalize() {
	s.Matched = nonNil(s.Matched)
	s.Missing = nonNil(s.Missing)
}
