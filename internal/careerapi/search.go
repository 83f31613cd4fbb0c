package careerapi

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/careercrafted/careercrafted/internal/jobs"
)

type SearchParams struct {
	Keywords string   `json:"keywords,omitempty" mapstructure:"keywords"`
	Location string   `json:"location,omitempty" mapstructure:"location"`
	JobTypes []string `json:"jobTypes,omitempty" mapstructure:"job-types"`
	Remote   bool     `json:"remote,omitempty" mapstructure:"remote"`
	Sources  []string `json:"sources,omitempty" mapstructure:"sources"`
}

type searchRequest struct {
	SearchParams
	Page int `json:"page"`
}

type SearchResult struct {
	Jobs       []*jobs.Job
	TotalCount int
	Page       int
	// HasMore is false once a page comes back shorter than PageSize.
	HasMore bool
}

// Search fetches one page of results. Pages start at 1.
func (c *Client) Search(ctx context.Context, params *SearchParams, page int) (*SearchResult, error) {
	if page < 1 {
		page = 1
	}

	req := searchRequest{Page: page}
	if params != nil {
		req.SearchParams = *params
	}

	var resp envelope
	if err := c.postJSON(ctx, searchPath, req, &resp); err != nil {
		return nil, err
	}

	items, err := decodeJobs(resp.Jobs)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("got search page",
		zap.Int("page", page),
		zap.Int("jobs", len(items)),
		zap.Int("total", resp.TotalCount),
	)

	return &SearchResult{
		Jobs:       items,
		TotalCount: resp.TotalCount,
		Page:       page,
		HasMore:    len(items) >= PageSize,
	}, nil
}

// Export asks the service to render the jobs as CSV and copies the result to w.
func (c *Client) Export(ctx context.Context, list *jobs.Jobs, w io.Writer) error {
	payload := map[string][]*jobs.Job{"jobs": list.Items}

	resp, err := c.post(ctx, exportPath, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	reader, closeFn, err := bodyReader(resp)
	if err != nil {
		return err
	}
	defer closeFn()

	if _, err := io.Copy(w, reader); err != nil {
		return fmt.Errorf("copy export: %w", err)
	}
	return nil
}
