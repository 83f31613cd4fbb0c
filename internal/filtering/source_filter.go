package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/careercrafted/careercrafted/internal/jobs"
)

type sourceFilter struct {
	toggle
	source string
	logger *zap.Logger
}

// NewSource creates a filter that keeps only jobs whose source contains the given text.
func NewSource(source string, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &sourceFilter{source: strings.TrimSpace(source), logger: logger}
}

func (f *sourceFilter) Name() string { return "source" }

func (f *sourceFilter) Validate() error { return nil }

func (f *sourceFilter) Apply(_ context.Context, v *jobs.Jobs) (*jobs.Jobs, Step, error) {
	initial := v.Len()
	removed := v.KeepSource(f.source)
	if len(removed) > 0 {
		f.logger.Info("excluding jobs from other sources",
			zap.String("source", f.source),
			zap.Strings("excluded_jobs", removed),
			zap.Int("jobs_left", v.Len()),
		)
	}

	return v, result(initial, removed, v), nil
}

func (f *sourceFilter) Status() Status {
	details := map[string]string{}
	if f.source != "" {
		details["source"] = f.source
	}
	return f.status(f.Name(), details)
}
