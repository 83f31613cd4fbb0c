package filtering

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/careercrafted/careercrafted/internal/ai"
	"github.com/careercrafted/careercrafted/internal/career"
	"github.com/careercrafted/careercrafted/internal/jobs"
)

func testJobs() *jobs.Jobs {
	return &jobs.Jobs{Items: []*jobs.Job{
		{ID: "match_google_0", Company: "Google", MatchScore: 95, Source: "CareerCrafted Match"},
		{ID: "match_microsoft_1", Company: "Microsoft", MatchScore: 90, Source: "CareerCrafted Match"},
		{ID: "li_1", Company: "Acme", MatchScore: 40, Source: "LinkedIn"},
		{ID: "in_1", Company: "Globex", Source: "Indeed"},
	}}
}

func jobIDs(v *jobs.Jobs) []string {
	ids := make([]string, 0, v.Len())
	for _, job := range v.Items {
		ids = append(ids, job.ID)
	}
	return ids
}

type stubMatcher struct {
	verdicts map[string]*ai.FitAssessment
	errs     map[string]error
	calls    []string
}

func (s *stubMatcher) Evaluate(_ context.Context, _ *career.Assessment, job *jobs.Job) (*ai.FitAssessment, error) {
	s.calls = append(s.calls, job.ID)
	if err := s.errs[job.ID]; err != nil {
		return nil, err
	}
	if verdict, ok := s.verdicts[job.ID]; ok {
		return verdict, nil
	}
	return &ai.FitAssessment{Fit: true, Score: 1}, nil
}

func TestRunFiltersAppliesStepsInOrder(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	f := New([]Filter{
		NewSource("careercrafted", logger),
		NewExcludedEmployers([]string{"microsoft"}, logger),
		NewMatchScore(50, logger),
	}, logger)

	got, err := f.RunFilters(context.Background(), testJobs())
	require.NoError(t, err)
	assert.Equal(t, []string{"match_google_0"}, jobIDs(got))

	steps := observed.FilterMessage("filter step").All()
	require.Len(t, steps, 3)
	assert.Equal(t, "source", steps[0].ContextMap()["name"])
	assert.EqualValues(t, 2, steps[0].ContextMap()["dropped"])
	assert.Equal(t, "employers", steps[1].ContextMap()["name"])
	assert.EqualValues(t, 1, steps[1].ContextMap()["left"])
}

func TestRunFiltersValidatesBeforeApplying(t *testing.T) {
	matcher := &stubMatcher{}
	f := New([]Filter{
		NewMatchScore(150, nil),
		NewAIFit(&AIFitFilterConfig{Enabled: true}, &AIFitFilterDeps{Matcher: matcher, Assessment: &career.Assessment{}}),
	}, nil)

	v := testJobs()
	_, err := f.RunFilters(context.Background(), v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "match_score")
	assert.Equal(t, 4, v.Len(), "no step may run when validation fails")
	assert.Empty(t, matcher.calls)
}

func TestDisabledStepIsSkipped(t *testing.T) {
	matcher := &stubMatcher{verdicts: map[string]*ai.FitAssessment{"li_1": {Fit: false}}}
	f := New([]Filter{
		NewAIFit(&AIFitFilterConfig{Enabled: true}, &AIFitFilterDeps{Matcher: matcher, Assessment: &career.Assessment{}}),
	}, nil)

	f.DisableByName("ai_fit", "quota exhausted")

	got, err := f.RunFilters(context.Background(), testJobs())
	require.NoError(t, err)
	assert.Equal(t, 4, got.Len())
	assert.Empty(t, matcher.calls)

	statuses := f.Describe()
	require.Len(t, statuses, 1)
	assert.False(t, statuses[0].Enabled)
	assert.Equal(t, "quota exhausted", statuses[0].Reason)
}

func TestEveryStepCanBeDisabled(t *testing.T) {
	steps := []Filter{
		NewSource("nowhere", nil),
		NewExcludedEmployers([]string{"Netflix", "Google", "Meta", "Airbnb"}, nil),
		NewExcludeFile(filepath.Join(t.TempDir(), "exclude.json"), nil),
		NewMatchScore(100, nil),
	}
	f := New(steps, nil)

	for _, step := range steps {
		require.True(t, f.DisableByName(step.Name(), "off"))
		assert.False(t, step.IsEnabled(), step.Name())
	}
	assert.False(t, f.DisableByName("missing", "off"))

	got, err := f.RunFilters(context.Background(), testJobs())
	require.NoError(t, err)
	assert.Equal(t, 4, got.Len())

	for _, status := range f.Describe() {
		assert.False(t, status.Enabled, status.Name)
		assert.Equal(t, "off", status.Reason, status.Name)
	}
}

func TestSourceFilterEmptyKeepsAll(t *testing.T) {
	v, step, err := NewSource("  ", nil).Apply(context.Background(), testJobs())
	require.NoError(t, err)
	assert.Equal(t, Step{Initial: 4, Dropped: 0, Left: 4}, step)
	assert.Equal(t, 4, v.Len())
}

func TestExcludeFileFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.json")

	v, step, err := NewExcludeFile(path, nil).Apply(context.Background(), testJobs())
	require.NoError(t, err, "missing exclude file must be treated as empty")
	assert.Equal(t, 0, step.Dropped)

	excluded := (&jobs.Jobs{Items: v.Items[1:2]}).ToExcluded(jobs.ExcludeActorUser, "", time.Now())
	require.NoError(t, excluded.ToFile(path))

	v, step, err = NewExcludeFile(path, nil).Apply(context.Background(), testJobs())
	require.NoError(t, err)
	assert.Equal(t, Step{Initial: 4, Dropped: 1, Left: 3}, step)
	assert.Equal(t, []string{"match_google_0", "li_1", "in_1"}, jobIDs(v))

	status := NewExcludeFile(path, nil).(statusProvider).Status()
	assert.Equal(t, path, status.Details["path"])
}

func TestMatchScoreFilterKeepsUnscored(t *testing.T) {
	v, step, err := NewMatchScore(60, nil).Apply(context.Background(), testJobs())
	require.NoError(t, err)
	assert.Equal(t, 1, step.Dropped)
	assert.Equal(t, []string{"match_google_0", "match_microsoft_1", "in_1"}, jobIDs(v))
}

func TestAIFitFilter(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	path := filepath.Join(t.TempDir(), "exclude.json")
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	matcher := &stubMatcher{
		verdicts: map[string]*ai.FitAssessment{
			"match_google_0": {Fit: true, Score: 0.9, Reason: "strong overlap"},
			"li_1":           {Fit: false, Score: 0.2, Reason: "unrelated field"},
		},
		errs: map[string]error{"in_1": errors.New("quota exceeded")},
	}

	filter := NewAIFit(&AIFitFilterConfig{Enabled: true, MinimumFitScore: 0.5}, &AIFitFilterDeps{
		Logger:      zap.New(core),
		Matcher:     matcher,
		Assessment:  &career.Assessment{DreamCareer: "software engineer"},
		ExcludeFile: path,
		Now:         func() time.Time { return now },
	})
	require.NoError(t, filter.Validate())

	v, step, err := filter.Apply(context.Background(), testJobs())
	require.NoError(t, err)
	assert.Equal(t, Step{Initial: 4, Dropped: 1, Left: 3}, step)
	assert.Equal(t, []string{"match_google_0", "match_microsoft_1", "in_1"}, jobIDs(v))

	google := v.FindByID("match_google_0")
	require.NotNil(t, google.AI)
	assert.Equal(t, "strong overlap", google.AI.Reason)

	failed := v.FindByID("in_1")
	require.NotNil(t, failed.AI)
	assert.Equal(t, "quota exceeded", failed.AI.Error)

	excluded, err := jobs.ReadExcludedFile(path)
	require.NoError(t, err)
	require.Len(t, excluded.Items, 1)
	assert.Equal(t, "li_1", excluded.Items[0].ID)
	assert.Equal(t, jobs.ExcludeActorAI, excluded.Items[0].Actor)
	assert.Equal(t, "unrelated field", excluded.Items[0].Reason)
	assert.True(t, now.Equal(excluded.Items[0].ExcludedAt))

	assert.Equal(t, 1, observed.FilterMessage("job rejected by AI provider").Len())
	assert.Equal(t, 1, observed.FilterMessage("AI evaluation failed").Len())
}

func TestAIFitFilterValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  *AIFitFilterConfig
		deps *AIFitFilterDeps
	}{
		{name: "missing deps", cfg: &AIFitFilterConfig{Enabled: true}},
		{name: "missing matcher", cfg: &AIFitFilterConfig{Enabled: true}, deps: &AIFitFilterDeps{Assessment: &career.Assessment{}}},
		{name: "missing assessment", cfg: &AIFitFilterConfig{Enabled: true}, deps: &AIFitFilterDeps{Matcher: &stubMatcher{}}},
		{
			name: "score out of range",
			cfg:  &AIFitFilterConfig{Enabled: true, MinimumFitScore: 2},
			deps: &AIFitFilterDeps{Matcher: &stubMatcher{}, Assessment: &career.Assessment{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, NewAIFit(tt.cfg, tt.deps).Validate())
		})
	}
}

func TestAIFitFilterStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	matcher := &stubMatcher{}
	filter := NewAIFit(&AIFitFilterConfig{Enabled: true}, &AIFitFilterDeps{Matcher: matcher, Assessment: &career.Assessment{}})

	_, _, err := filter.Apply(ctx, testJobs())
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, matcher.calls)
}
