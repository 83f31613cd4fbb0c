package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/careercrafted/careercrafted/internal/jobs"
)

type matchScoreFilter struct {
	toggle
	minimum int
	logger  *zap.Logger
}

// NewMatchScore creates a filter that removes scored jobs below the minimum match score.
func NewMatchScore(minimum int, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &matchScoreFilter{minimum: minimum, logger: logger}
}

func (f *matchScoreFilter) Name() string { return "match_score" }

func (f *matchScoreFilter) Validate() error {
	if f.minimum < 0 || f.minimum > 100 {
		return fmt.Errorf("minimum match score must be between 0 and 100, got %d", f.minimum)
	}
	return nil
}

func (f *matchScoreFilter) Apply(_ context.Context, v *jobs.Jobs) (*jobs.Jobs, Step, error) {
	initial := v.Len()
	removed := v.DropBelowScore(f.minimum)
	if len(removed) > 0 {
		f.logger.Info("excluding jobs below minimum match score",
			zap.Int("minimum_match_score", f.minimum),
			zap.Strings("excluded_jobs", removed),
			zap.Int("jobs_left", v.Len()),
		)
	}

	return v, result(initial, removed, v), nil
}

func (f *matchScoreFilter) Status() Status {
	return f.status(f.Name(), map[string]string{"minimum_match_score": strconv.Itoa(f.minimum)})
}
