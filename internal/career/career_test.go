package career

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		texts     []string
		want      string
		wantScore int
	}{
		{
			name:      "no keywords falls back to default",
			texts:     []string{"hello world", "I enjoy long walks"},
			want:      DefaultCareer,
			wantScore: 0,
		},
		{
			name:      "empty input falls back to default",
			texts:     nil,
			want:      DefaultCareer,
			wantScore: 0,
		},
		{
			name:      "all keywords of one career",
			texts:     []string{"marketing campaigns brand", "social media advertising"},
			want:      MarketingManager,
			wantScore: 5,
		},
		{
			name:      "repeated keyword counts once",
			texts:     []string{"project project project planning"},
			want:      ProjectManager,
			wantScore: 2,
		},
		{
			name:      "case is ignored",
			texts:     []string{"MACHINE LEARNING and Statistics"},
			want:      DataScientist,
			wantScore: 2,
		},
		{
			name:      "tie goes to the earlier career",
			texts:     []string{"python", "code"},
			want:      DataScientist,
			wantScore: 1,
		},
		{
			name:      "tie between later careers",
			texts:     []string{"brand design"},
			want:      MarketingManager,
			wantScore: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.texts...)
			assert.Equal(t, tt.want, got.PrimaryCareer)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, Keywords(tt.want), got.Keywords)
			assert.Len(t, got.Matched, tt.wantScore)
		})
	}
}

func TestClassifySoftwareExample(t *testing.T) {
	got := Classify("I love coding and building apps", "software developer")

	assert.Equal(t, SoftwareEngineer, got.PrimaryCareer)
	assert.GreaterOrEqual(t, got.Score, 2)
	assert.Equal(t, []string{"software", "apps"}, got.Matched)
}

func TestClassifyAlwaysReturnsKnownLabel(t *testing.T) {
	labels := Labels()
	inputs := []string{"", "ux ui", "strategy roadmap data", "teams of people", "zzz"}
	for _, input := range inputs {
		assert.Contains(t, labels, Classify(input).PrimaryCareer, input)
	}
}

func TestDetectTraits(t *testing.T) {
	assert.Empty(t, DetectTraits("I like long walks on the beach"))
	assert.NotNil(t, DetectTraits(""))

	got := DetectTraits("I am a precise LEADER who loves creative work")
	assert.Equal(t, []string{TraitCreative, TraitDetailOriented, TraitLeadership}, got)

	got = DetectTraits("logical, innovative and social")
	assert.Equal(t, []string{TraitCreative, TraitAnalytical, TraitSocial}, got)
}

func TestExplainMatch(t *testing.T) {
	profile := Classify("design and graphics")
	require.Equal(t, Designer, profile.PrimaryCareer)

	got := ExplainMatch(profile, DetectTraits("nothing to see"))
	assert.Equal(t,
		"You seem to be a perfect fit for designer roles! Your analytical nature and skills in design and creative align perfectly with what top companies are looking for.",
		got,
	)

	got = ExplainMatch(profile, []string{TraitSocial, TraitCreative})
	assert.Contains(t, got, "Your social nature")
}

func TestPersonalityInsight(t *testing.T) {
	assert.Equal(t,
		"Your analytical approach helps you break down complex problems systematically. You have a flexible work approach.",
		PersonalityInsight(nil, ""),
	)
	assert.Equal(t,
		"Your people skills make you great at collaboration and communication. You thrive in collaborative environments.",
		PersonalityInsight([]string{TraitSocial}, WorkStyleTeam),
	)
}

func TestEmployersFor(t *testing.T) {
	for _, label := range Labels() {
		assert.Len(t, EmployersFor(label), 5, label)
	}

	fallback := EmployersFor("astronaut")
	assert.Equal(t, []string{"Google", "Microsoft", "Amazon", "Apple", "Meta"}, fallback)

	// callers must not be able to change the table
	fallback[0] = "Changed"
	assert.Equal(t, "Google", EmployersFor("astronaut")[0])
}

func TestRecommend(t *testing.T) {
	recs := Recommend(Profile{PrimaryCareer: BusinessAnalyst})
	require.Len(t, recs, 5)
	assert.Equal(t, "McKinsey", recs[0].Company)
	assert.Equal(t, BusinessAnalyst, recs[0].Role)
	assert.Equal(t, "McKinsey is actively hiring business analysts and values the skills you mentioned.", recs[0].Reason)
}

func TestSynthesizeJobs(t *testing.T) {
	now := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	prefs := Preferences{Location: "Berlin", Relocate: "remote", JobTypes: []string{"contract", "part-time"}}

	got := SynthesizeJobs(MarketingManager, nil, prefs, now)
	require.Len(t, got, 5)

	first := got[0]
	assert.Equal(t, "match_nike_0", first.ID)
	assert.Equal(t, "marketing manager - Nike", first.Title)
	assert.Equal(t, "Nike", first.Company)
	assert.Equal(t, "Berlin", first.Location)
	assert.Equal(t, "https://nike.com/careers", first.URL)
	assert.Equal(t, 85000, first.Salary)
	assert.Equal(t, 95, first.MatchScore)
	assert.Equal(t, SyntheticSource, first.Source)
	assert.Equal(t, now, first.PostedDate)
	assert.True(t, first.Remote)
	assert.Equal(t, "contract", first.Type)
	assert.Equal(t, "Join Nike as a marketing manager. Drive brand awareness and lead marketing campaigns across multiple channels.", first.Description)

	assert.Equal(t, "match_coca-cola_1", got[1].ID)
	assert.Equal(t, 75, got[4].MatchScore)

	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i].MatchScore, got[i-1].MatchScore)
	}
}

func TestSynthesizeJobsDefaults(t *testing.T) {
	now := time.Now()

	got := SynthesizeJobs("astronaut", nil, Preferences{Relocate: "yes"}, now)
	require.Len(t, got, 5)
	for _, job := range got {
		assert.Equal(t, 80000, job.Salary)
		assert.Equal(t, "Multiple Locations", job.Location)
		assert.Equal(t, "full-time", job.Type)
		assert.False(t, job.Remote)
		assert.Contains(t, job.Description, "Exciting opportunity to grow your career")
	}
}

func TestSynthesizeJobsScoreFloor(t *testing.T) {
	employers := make([]string, 25)
	for i := range employers {
		employers[i] = "Acme"
	}

	got := SynthesizeJobs(Designer, employers, Preferences{}, time.Now())
	assert.Equal(t, 0, got[19].MatchScore)
	assert.Equal(t, 0, got[24].MatchScore)
}

func TestAnalyze(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := &Assessment{
		Personality: "Analytical and detail oriented",
		WorkStyle:   WorkStyleIndependent,
		Superpowers: "I love coding and building apps",
		DreamCareer: "software developer",
		Location:    "Austin, TX",
		JobTypes:    []string{"full-time"},
	}

	got := Analyze(a, now)
	assert.Equal(t, SoftwareEngineer, got.Insight.CareerMatch)
	assert.Equal(t, []string{TraitAnalytical, TraitDetailOriented}, got.Traits)
	assert.Contains(t, got.Insight.PersonalityInsight, "You excel when given autonomy")
	assert.Contains(t, got.Insight.MatchReason, "skills in code and programming")
	require.Len(t, got.Insight.Recommendations, 5)
	require.Len(t, got.Jobs, 5)
	assert.Equal(t, "Microsoft", got.Jobs[0].Company)
	assert.Equal(t, "Austin, TX", got.Jobs[0].Location)

	assert.NotPanics(t, func() { Analyze(nil, now) })
}

func TestAnalyzeIsSafeForConcurrentUse(t *testing.T) {
	a := &Assessment{Superpowers: "data and statistics"}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := Analyze(a, time.Now())
			assert.Equal(t, DataScientist, got.Profile.PrimaryCareer)
		}()
	}
	wg.Wait()
}

func TestAssessmentValidate(t *testing.T) {
	require.NoError(t, (&Assessment{}).Validate())
	require.NoError(t, (&Assessment{WorkStyle: WorkStyleMixed, Relocate: "remote", JobTypes: []string{"contract"}}).Validate())

	assert.Error(t, (&Assessment{WorkStyle: "solo"}).Validate())
	assert.Error(t, (&Assessment{Relocate: "mars"}).Validate())
	assert.Error(t, (&Assessment{JobTypes: []string{""}}).Validate())
}
