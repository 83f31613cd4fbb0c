package careerapi

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/careercrafted/careercrafted/internal/career"
	"github.com/careercrafted/careercrafted/internal/jobs"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
)

var (
	// ErrUnsuccessful is wrapped by errors for responses with success=false.
	ErrUnsuccessful = errors.New("request was not successful")

	errMissingInsights = errors.New("response has no insights")
)

// Item is a raw job record as returned by the service.
type Item = map[string]any

type envelope struct {
	Success         bool                    `json:"success"`
	Error           string                  `json:"error"`
	Jobs            []Item                  `json:"jobs"`
	TotalCount      int                     `json:"totalCount"`
	Insights        *career.Insight         `json:"insights"`
	Recommendations []career.Recommendation `json:"recommendations"`
}

// postJSON sends payload as JSON and decodes the JSON envelope into target.
func (c *Client) postJSON(ctx context.Context, path string, payload any, target *envelope) error {
	resp, err := c.post(ctx, path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		var failed envelope
		if json.Unmarshal(data, &failed) == nil && failed.Error != "" {
			return fmt.Errorf("bad status: %s: %s", resp.Status, failed.Error)
		}
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}

	if !target.Success {
		msg := strings.TrimSpace(target.Error)
		if msg == "" {
			msg = "no error message"
		}
		return fmt.Errorf("%s: %w: %s", path, ErrUnsuccessful, msg)
	}

	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)

	return c.request(req)
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()), zap.String("method", req.Method))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

// bodyReader unwraps gzip encoded bodies. The caller closes resp.Body.
func bodyReader(resp *http.Response) (io.Reader, func() error, error) {
	if resp.Header.Get("Content-Encoding") != "gzip" {
		return resp.Body, func() error { return nil }, nil
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return gz, gz.Close, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	reader, closeFn, err := bodyReader(resp)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	return io.ReadAll(reader)
}

// decodeJobs converts raw job records, accepting loosely typed values and dates.
func decodeJobs(items []Item) ([]*jobs.Job, error) {
	out := make([]*jobs.Job, 0, len(items))
	if len(items) == 0 {
		return out, nil
	}

	cfg := &mapstructure.DecoderConfig{
		Result:           &out,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(lenientTimeHook),
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}

	return out, nil
}

var (
	timeType    = reflect.TypeOf(time.Time{})
	dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}
)

// lenientTimeHook decodes RFC 3339 timestamps, plain dates and epoch
// milliseconds. Values it cannot read become the zero time so one bad date
// does not fail the whole response.
func lenientTimeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != timeType {
		return data, nil
	}

	switch from.Kind() {
	case reflect.String:
		s := strings.TrimSpace(data.(string))
		if s == "" {
			return time.Time{}, nil
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, nil
	case reflect.Float64:
		return time.UnixMilli(int64(data.(float64))).UTC(), nil
	default:
		return data, nil
	}
}
