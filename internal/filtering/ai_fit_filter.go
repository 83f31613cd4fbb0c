package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/careercrafted/careercrafted/internal/ai"
	"github.com/careercrafted/careercrafted/internal/career"
	"github.com/careercrafted/careercrafted/internal/jobs"
)

type aiFitFilter struct {
	enabled bool
	reason  string
	config  *AIFitFilterConfig
	deps    *AIFitFilterDeps
}

type AIFitFilterDeps struct {
	Logger      *zap.Logger
	Matcher     ai.Matcher
	Assessment  *career.Assessment
	ExcludeFile string
	Now         func() time.Time
}

type AIFitFilterConfig struct {
	Enabled         bool
	MinimumFitScore float64
}

// NewAIFit creates the AI-based filtering step.
func NewAIFit(cfg *AIFitFilterConfig, deps *AIFitFilterDeps) Filter {
	if cfg == nil {
		cfg = &AIFitFilterConfig{}
	}
	return &aiFitFilter{
		enabled: cfg.Enabled,
		deps:    deps,
		config:  cfg,
	}
}

func (f *aiFitFilter) Name() string { return "ai_fit" }

func (f *aiFitFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *aiFitFilter) IsEnabled() bool { return f.enabled }

func (f *aiFitFilter) Validate() error {
	if f.deps == nil {
		return fmt.Errorf("deps are not initialized: filter is not usable")
	}
	if f.deps.Matcher == nil {
		return fmt.Errorf("matcher is required when ai filter is enabled")
	}
	if f.deps.Assessment == nil {
		return fmt.Errorf("assessment is required when ai filter is enabled")
	}
	if f.config.MinimumFitScore < 0 || f.config.MinimumFitScore > 1 {
		return fmt.Errorf("minimum fit score must be between 0 and 1, got %v", f.config.MinimumFitScore)
	}
	return nil
}

func (f *aiFitFilter) Apply(ctx context.Context, v *jobs.Jobs) (*jobs.Jobs, Step, error) {
	initial := v.Len()
	logger := f.logger()
	approved := make([]*jobs.Job, 0, initial)

	for _, job := range v.Items {
		if err := ctx.Err(); err != nil {
			return v, Step{}, err
		}

		assessment, err := f.deps.Matcher.Evaluate(ctx, f.deps.Assessment, job)
		if err != nil {
			logger.Warn("AI evaluation failed",
				zap.String("job_id", job.ID),
				zap.Error(err),
			)
			job.AI = &jobs.AIAssessment{Error: err.Error()}
			approved = append(approved, job)
			continue
		}

		job.AI = &jobs.AIAssessment{
			Fit:    assessment.Fit,
			Score:  assessment.Score,
			Reason: assessment.Reason,
			Raw:    assessment.Raw,
		}

		if !job.AI.Fit {
			logger.Info("job rejected by AI provider",
				zap.String("job_id", job.ID),
				zap.Float64("ai_score", assessment.Score),
				zap.String("reason", assessment.Reason),
			)

			if err := f.appendToExcludeFile(job, assessment.Reason); err != nil {
				logger.Warn("failed to append job to exclude file",
					zap.String("job_id", job.ID),
					zap.Error(err),
				)
			}
			continue
		}

		logger.Info("job approved by AI",
			zap.String("job_id", job.ID),
			zap.Float64("ai_score", assessment.Score),
		)

		approved = append(approved, job)
	}

	v.Items = approved

	logger.Info("AI filtering completed",
		zap.Int("initial_jobs", initial),
		zap.Int("approved_jobs", len(approved)),
	)

	left := v.Len()
	return v, Step{Initial: initial, Dropped: initial - left, Left: left}, nil
}

func (f *aiFitFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.enabled,
		Reason:  f.reason,
		Details: map[string]string{
			"minimum_fit_score": strconv.FormatFloat(f.config.MinimumFitScore, 'f', -1, 64),
		},
	}
}

func (f *aiFitFilter) logger() *zap.Logger {
	if f.deps == nil || f.deps.Logger == nil {
		return zap.NewNop()
	}
	return f.deps.Logger
}

func (f *aiFitFilter) appendToExcludeFile(job *jobs.Job, reason string) error {
	path := strings.TrimSpace(f.deps.ExcludeFile)
	if path == "" {
		return nil
	}

	excluded, err := jobs.ReadExcludedFile(path)
	if err != nil {
		return fmt.Errorf("load excluded jobs: %w", err)
	}

	now := time.Now
	if f.deps.Now != nil {
		now = f.deps.Now
	}

	toAppend := (&jobs.Jobs{Items: []*jobs.Job{job}}).ToExcluded(jobs.ExcludeActorAI, reason, now())
	excluded.Append(toAppend)

	if err := excluded.ToFile(path); err != nil {
		return fmt.Errorf("write excluded jobs: %w", err)
	}

	f.logger().Info("job appended to exclude file",
		zap.String("job_id", job.ID),
		zap.String("exclude_file", path),
	)

	return nil
}
