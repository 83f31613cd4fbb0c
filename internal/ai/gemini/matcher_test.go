package gemini

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/careercrafted/careercrafted/internal/career"
	"github.com/careercrafted/careercrafted/internal/jobs"
)

type stubGenerator struct {
	response    string
	err         error
	lastSystem  string
	lastMessage string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, message string) (string, error) {
	s.lastSystem = system
	s.lastMessage = message
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testInputs() (*career.Assessment, *jobs.Job) {
	assessment := &career.Assessment{Superpowers: "data storytelling", DreamCareer: "data scientist"}
	job := &jobs.Job{
		ID:      "match_netflix_1",
		Title:   "data scientist - Netflix",
		Company: "Netflix",
		AI:      &jobs.AIAssessment{Reason: "stale verdict"},
	}
	return assessment, job
}

func TestMatcherEvaluate(t *testing.T) {
	stub := &stubGenerator{response: `{"fit": true, "score": 0.9, "reason": "Matches skills"}`}
	matcher := NewMatcher(stub, 0.5, 0, zap.NewNop())

	assessment, job := testInputs()
	result, err := matcher.Evaluate(context.Background(), assessment, job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Fit {
		t.Fatalf("expected fit to be true")
	}

	if result.Score != 0.9 {
		t.Fatalf("expected score 0.9, got %v", result.Score)
	}

	if result.Reason != "Matches skills" {
		t.Fatalf("unexpected reason: %q", result.Reason)
	}

	if result.Raw != stub.response {
		t.Fatalf("expected raw response to be kept")
	}

	if stub.lastSystem != systemPrompt || strings.TrimSpace(systemPrompt) == "" {
		t.Fatalf("expected embedded system prompt to be sent")
	}

	if !strings.Contains(stub.lastMessage, `"dreamCareer": "data scientist"`) {
		t.Fatalf("assessment missing from message: %s", stub.lastMessage)
	}

	if !strings.Contains(stub.lastMessage, `"company": "Netflix"`) {
		t.Fatalf("job missing from message: %s", stub.lastMessage)
	}

	if strings.Contains(stub.lastMessage, "stale verdict") {
		t.Fatalf("previous ai verdict must not be sent")
	}
}

func TestMatcherEvaluateAppliesThreshold(t *testing.T) {
	stub := &stubGenerator{response: `{"fit": true, "score": 0.3, "reason": "Too junior"}`}
	matcher := NewMatcher(stub, 0.5, 0, zap.NewNop())

	assessment, job := testInputs()
	result, err := matcher.Evaluate(context.Background(), assessment, job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Fit {
		t.Fatalf("expected fit to be false due to threshold")
	}
}

func TestMatcherEvaluateKeepsVerdictWithoutScore(t *testing.T) {
	for _, response := range []string{
		`{"fit": true, "reason": "good"}`,
		`{"fit": true, "score": "n/a", "reason": "good"}`,
	} {
		matcher := NewMatcher(&stubGenerator{response: response}, 0.5, 0, nil)

		assessment, job := testInputs()
		result, err := matcher.Evaluate(context.Background(), assessment, job)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !result.Fit {
			t.Fatalf("expected fit to stay true without a score for %s", response)
		}

		if result.Score != 0 {
			t.Fatalf("expected missing score to be reported as 0, got %v", result.Score)
		}
	}
}

func TestMatcherEvaluateErrors(t *testing.T) {
	assessment, job := testInputs()

	matcher := NewMatcher(&stubGenerator{}, 0, 0, nil)
	if _, err := matcher.Evaluate(context.Background(), nil, job); err == nil {
		t.Fatal("expected error for missing assessment")
	}
	if _, err := matcher.Evaluate(context.Background(), assessment, nil); err == nil {
		t.Fatal("expected error for missing job")
	}

	boom := errors.New("boom")
	matcher = NewMatcher(&stubGenerator{err: boom}, 0, 0, nil)
	if _, err := matcher.Evaluate(context.Background(), assessment, job); !errors.Is(err, boom) {
		t.Fatalf("expected generator error, got %v", err)
	}

	matcher = NewMatcher(&stubGenerator{response: "not json"}, 0, 0, nil)
	if _, err := matcher.Evaluate(context.Background(), assessment, job); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseResponseHandlesCodeBlock(t *testing.T) {
	raw := "```json\n{\"fit\": \"yes\", \"score\": \"0.8\", \"reason\": \"Looks good\"}\n```"
	result, err := parseResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Fit {
		t.Fatalf("expected fit true")
	}

	if result.Score != 0.8 {
		t.Fatalf("expected score 0.8, got %v", result.Score)
	}

	if result.Reason != "Looks good" {
		t.Fatalf("unexpected reason: %s", result.Reason)
	}
}

func TestParseResponseKeepsInvalidScoreUnset(t *testing.T) {
	result, err := parseResponse(`{"fit": 1, "score": "high", "reason": ["a", "b"]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Fit || !math.IsNaN(result.Score) {
		t.Fatalf("unexpected result: %+v", result)
	}

	if result.Reason != `["a","b"]` {
		t.Fatalf("unexpected reason: %q", result.Reason)
	}
}
