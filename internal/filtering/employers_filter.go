package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/careercrafted/careercrafted/internal/jobs"
)

type employersFilter struct {
	toggle
	employers []string
	logger    *zap.Logger
}

// NewExcludedEmployers creates a filter that removes jobs offered by the given companies.
func NewExcludedEmployers(employers []string, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &employersFilter{
		employers: employers,
		logger:    logger,
	}
}

func (f *employersFilter) Name() string { return "employers" }

func (f *employersFilter) Validate() error { return nil }

func (f *employersFilter) Apply(_ context.Context, v *jobs.Jobs) (*jobs.Jobs, Step, error) {
	initial := v.Len()
	if len(f.employers) == 0 {
		return v, Step{Initial: initial, Dropped: 0, Left: v.Len()}, nil
	}

	excluded := v.Exclude(jobs.JobCompanyField, f.employers)
	if len(excluded) > 0 {
		f.logger.Info("excluding jobs by employers",
			zap.Strings("excluded_employers", f.employers),
			zap.Strings("excluded_jobs", excluded),
			zap.Int("jobs_left", v.Len()),
		)
	}

	return v, result(initial, excluded, v), nil
}

func (f *employersFilter) Status() Status {
	details := map[string]string{}
	if len(f.employers) > 0 {
		details["employers"] = strings.Join(f.employers, ",")
	}
	return f.status(f.Name(), details)
}
