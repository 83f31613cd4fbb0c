package careerapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/careercrafted/careercrafted/internal/career"
	"github.com/careercrafted/careercrafted/internal/jobs"
)

const (
	userAgent = "careercrafted-cli"
	// PageSize is the number of jobs the search endpoint returns per full page.
	PageSize = 20

	careerMatchPath = "/api/jobs/career-match"
	searchPath      = "/api/jobs/search"
	savePath        = "/api/jobs/save"
	saveSearchPath  = "/api/jobs/save-search"
	exportPath      = "/api/jobs/export"
)

// Client talks to the remote job-search service.
type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

// New returns a client for the service at apiURL. An empty token disables the
// Authorization header.
func New(apiURL, token string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		token:  strings.TrimSpace(token),
		APIURL: strings.TrimRight(apiURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// MatchResult is the remote answer to an assessment.
type MatchResult struct {
	Insight *career.Insight
	Jobs    []*jobs.Job
}

// CareerMatch submits the assessment and returns the remote insights and jobs.
func (c *Client) CareerMatch(ctx context.Context, assessment *career.Assessment) (*MatchResult, error) {
	var resp envelope
	if err := c.postJSON(ctx, careerMatchPath, assessment, &resp); err != nil {
		return nil, err
	}

	if resp.Insights == nil {
		return nil, errMissingInsights
	}

	items, err := decodeJobs(resp.Jobs)
	if err != nil {
		return nil, err
	}

	if len(resp.Insights.Recommendations) == 0 {
		resp.Insights.Recommendations = resp.Recommendations
	}

	c.logger.Debug("career match received",
		zap.String("career", resp.Insights.CareerMatch),
		zap.Int("jobs", len(items)),
	)

	return &MatchResult{Insight: resp.Insights, Jobs: items}, nil
}

// SaveJob bookmarks a job on the remote side.
func (c *Client) SaveJob(ctx context.Context, id string) error {
	payload := map[string]string{"jobId": id}
	return c.postJSON(ctx, savePath, payload, &envelope{})
}

// SaveSearch stores the search parameters on the remote side.
func (c *Client) SaveSearch(ctx context.Context, params *SearchParams) error {
	if params == nil {
		params = &SearchParams{}
	}
	return c.postJSON(ctx, saveSearchPath, params, &envelope{})
}
