package ai

import (
	"context"

	"github.com/careercrafted/careercrafted/internal/career"
	"github.com/careercrafted/careercrafted/internal/jobs"
)

type FitAssessment struct {
	Fit    bool
	Score  float64
	Reason string
	Raw    string
}

// Matcher judges how well a job fits the answers of an assessment.
type Matcher interface {
	Evaluate(ctx context.Context, assessment *career.Assessment, job *jobs.Job) (*FitAssessment, error)
}
