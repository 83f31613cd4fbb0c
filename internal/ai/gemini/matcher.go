package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/careercrafted/careercrafted/internal/ai"
	"github.com/careercrafted/careercrafted/internal/career"
	"github.com/careercrafted/careercrafted/internal/jobs"
	"github.com/careercrafted/careercrafted/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

type Matcher struct {
	generator contentGenerator
	minScore  float64
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var systemPrompt string

const defaultMaxLogLength = 200

func NewMatcher(generator contentGenerator, minScore float64, maxLogLength int, logger *zap.Logger) *Matcher {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Matcher{
		generator: generator,
		minScore:  minScore,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (m *Matcher) Evaluate(ctx context.Context, assessment *career.Assessment, job *jobs.Job) (*ai.FitAssessment, error) {
	if assessment == nil {
		return nil, fmt.Errorf("assessment is required")
	}
	if job == nil {
		return nil, fmt.Errorf("job is required")
	}

	assessmentJSON, err := json.MarshalIndent(assessment, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal assessment payload: %w", err)
	}

	// the matcher's own verdict is not an input
	input := *job
	input.AI = nil
	jobJSON, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal job payload: %w", err)
	}

	message := buildMessage(string(assessmentJSON), string(jobJSON))

	m.logger.Debug("gemini generate content request",
		zap.String("job_id", job.ID),
		zap.Int("message_length", utf8.RuneCountInString(message)),
		zap.String("message_preview", utils.TruncateForLog(message, m.maxLogLen)),
	)

	raw, err := m.generator.GenerateContent(ctx, systemPrompt, message)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("gemini generate content response",
		zap.String("job_id", job.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, m.maxLogLen)),
	)

	assessmentResult, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	// a reply without a usable score keeps the model's own verdict
	if m.minScore > 0 && !math.IsNaN(assessmentResult.Score) && assessmentResult.Score < m.minScore {
		m.logger.Debug("set fit to false by score threshold",
			zap.String("job_id", job.ID),
			zap.Float64("score", assessmentResult.Score),
			zap.Float64("threshold", m.minScore),
		)
		assessmentResult.Fit = false
	}

	if math.IsNaN(assessmentResult.Score) {
		assessmentResult.Score = 0
	}

	assessmentResult.Raw = raw
	return assessmentResult, nil
}

func buildMessage(assessmentJSON, jobJSON string) string {
	var b strings.Builder
	b.WriteString("[Inputs]\nAssessment:\n")
	b.WriteString(assessmentJSON)
	b.WriteString("\n\nJob:\n")
	b.WriteString(jobJSON)
	b.WriteString("\n\nJSON Response:")
	return b.String()
}

func parseResponse(raw string) (*ai.FitAssessment, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	return &ai.FitAssessment{
		Fit:    coerceBool(data["fit"]),
		Score:  coerceFloat(data["score"]),
		Reason: coerceString(data["reason"]),
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "yes"
	case float64:
		return val != 0
	default:
		return false
	}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
