package matcher

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL    = "http://localhost:8001"
	userAgent = "resume-matcher-cli"

	healthPath       = "/api/health"
	uploadResumePath = "/api/upload-resume"
	analyzeJobPath   = "/api/analyze-job"
	matchPath        = "/api/match"
	resumesPath      = "/api/resumes"
	jobsPath         = "/api/jobs"
	matchesPath      = "/api/matches"
)

// Client talks to the resume/job matching service.
type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

// New returns a client for the service at url. An empty url falls back to the
// local development address. The token is optional.
func New(logger *zap.Logger, url, token string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	url = strings.TrimRight(strings.TrimSpace(url), "/")
	if url == "" {
		url = apiURL
	}

	return &Client{
		token:  strings.TrimSpace(token),
		APIURL: url,
		// No timeout: a hung request only blocks its own action.
		HTTPClient: &http.Client{},
		logger:     logger,
		UserAgent:  userAgent,
	}
}

// WithTimeout sets the HTTP client timeout. Zero disables it.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.HTTPClient.Timeout = d
	return c
}

// Health is the answer of the service health probe.
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Health probes the service.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var health Health
	if err := c.getJSON(ctx, "health check", "service is unavailable", healthPath, &health); err != nil {
		return nil, err
	}

	return &health, nil
}
