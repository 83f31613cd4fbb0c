package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/careercrafted/careercrafted/internal/ai"
	"github.com/careercrafted/careercrafted/internal/ai/gemini"
	"github.com/careercrafted/careercrafted/internal/career"
	"github.com/careercrafted/careercrafted/internal/careerapi"
	"github.com/careercrafted/careercrafted/internal/filtering"
	"github.com/careercrafted/careercrafted/internal/logger"
	"github.com/careercrafted/careercrafted/internal/secrets"
	"github.com/careercrafted/careercrafted/internal/session"
)

// newAPIClient returns nil when no remote service is configured.
func newAPIClient(config *Config, log *zap.Logger) (*careerapi.Client, error) {
	url := strings.TrimSpace(config.API.URL)
	if url == "" {
		return nil, nil
	}

	token := ""
	if strings.TrimSpace(config.API.TokenFile) != "" {
		var err error
		token, err = secrets.Load(secrets.Source{
			Name: "api token",
			File: config.API.TokenFile,
		})
		if err != nil {
			return nil, err
		}
	}

	client := careerapi.New(url, token, log.With(zap.String("api_url", url)))
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}

	return client, nil
}

// submit sends the assessment to the remote service and falls back to the
// local matcher when the service is not configured or the call fails.
func submit(ctx context.Context, sess *session.Session, api *careerapi.Client, log *zap.Logger, now time.Time) error {
	return sess.Do(func() error {
		if api != nil {
			result, err := api.CareerMatch(ctx, sess.Assessment)
			if err == nil {
				sess.SetResults(result.Insight, result.Jobs, len(result.Jobs) >= careerapi.PageSize)
				sess.Local = false
				log.Info("got career match from remote service",
					zap.String("career", result.Insight.CareerMatch),
					zap.Int("jobs", len(result.Jobs)),
				)
				return nil
			}

			if errors.Is(err, context.Canceled) {
				return err
			}

			log.Warn("remote career match failed, using local matcher", zap.Error(err))
		}

		analysis := career.Analyze(sess.Assessment, now)
		sess.SetResults(&analysis.Insight, analysis.Jobs, false)
		sess.Local = true

		log.Info("matched career locally",
			zap.String("career", analysis.Profile.PrimaryCareer),
			zap.Int("score", analysis.Profile.Score),
			zap.Strings("matched_keywords", analysis.Profile.Matched),
			zap.Strings("traits", analysis.Traits),
		)
		return nil
	})
}

func newAIMatcher(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Matcher, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	gcfg := cfg.Gemini
	if gcfg == nil {
		gcfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: gcfg.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, gcfg.Model, gcfg.MaxRetries,
		logger.WithAI(log, "gemini", gcfg.Model).With(zap.Int("ai_retry_attempts", gcfg.MaxRetries)))
	if err != nil {
		return nil, err
	}

	minScore := cfg.MinimumFitScore
	if minScore < 0 {
		minScore = 0
	}

	matcherLogger := logger.WithAI(log, "gemini", generator.Model()).With(zap.Float64("minimum_fit_score", minScore))

	return gemini.NewMatcher(generator, minScore, gcfg.MaxLogLength, matcherLogger), nil
}

func prepareFilters(ctx context.Context, config *Config, assessment *career.Assessment, log *zap.Logger) *filtering.Filtering {
	steps := []filtering.Filter{
		filtering.NewSource(config.Filter.Source, log),
		filtering.NewExcludedEmployers(config.Filter.excludedEmployers(), log),
		filtering.NewExcludeFile(config.ExcludeFile, log),
		filtering.NewMatchScore(config.Filter.MinimumMatchScore, log),
		prepareAIFilter(ctx, config, assessment, log),
	}

	return filtering.New(steps, log)
}

// prepareAIFilter always returns a step; it is disabled with a reason when
// the matcher cannot be built.
func prepareAIFilter(ctx context.Context, config *Config, assessment *career.Assessment, log *zap.Logger) filtering.Filter {
	cfg := config.AI
	deps := &filtering.AIFitFilterDeps{
		Logger:      log,
		Assessment:  assessment,
		ExcludeFile: config.ExcludeFile,
	}
	filter := filtering.NewAIFit(&filtering.AIFitFilterConfig{
		Enabled:         cfg.Enabled,
		MinimumFitScore: cfg.MinimumFitScore,
	}, deps)

	if !cfg.Enabled {
		filter.Disable("disabled in config")
		return filter
	}

	matcher, err := newAIMatcher(ctx, cfg, log)
	if err != nil {
		log.Warn("skipping AI filter", zap.Error(err))
		filter.Disable(err.Error())
		return filter
	}
	deps.Matcher = matcher

	return filter
}
