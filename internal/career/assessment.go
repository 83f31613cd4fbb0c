package career

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/careercrafted/careercrafted/internal/jobs"
)

const (
	WorkStyleTeam        = "team"
	WorkStyleIndependent = "independent"
	WorkStyleMixed       = "mixed"
	WorkStyleLeadership  = "leadership"
)

// Assessment holds the survey answers of one user.
type Assessment struct {
	Personality string   `json:"personality" mapstructure:"personality"`
	WorkStyle   string   `json:"workStyle" mapstructure:"work-style" validate:"omitempty,oneof=team independent mixed leadership"`
	Superpowers string   `json:"superpowers" mapstructure:"superpowers"`
	Skills      string   `json:"skills" mapstructure:"skills"`
	DreamCareer string   `json:"dreamCareer" mapstructure:"dream-career"`
	Industry    string   `json:"industry" mapstructure:"industry"`
	Location    string   `json:"location" mapstructure:"location"`
	Relocate    string   `json:"relocate" mapstructure:"relocate" validate:"omitempty,oneof=yes no maybe remote"`
	JobTypes    []string `json:"jobTypes" mapstructure:"job-types" validate:"dive,required"`
}

// Validate checks the enum answers. Free-text answers may be empty.
func (a *Assessment) Validate() error {
	return validator.New().Struct(a)
}

// Preferences extracts the answers used when synthesizing jobs.
func (a *Assessment) Preferences() Preferences {
	return Preferences{
		Location: a.Location,
		Relocate: a.Relocate,
		JobTypes: a.JobTypes,
	}
}

// Insight is the human readable summary shown for an assessment.
type Insight struct {
	CareerMatch        string           `json:"careerMatch"`
	MatchReason        string           `json:"matchReason"`
	PersonalityInsight string           `json:"personalityInsight"`
	Recommendations    []Recommendation `json:"recommendations"`
}

// Analysis bundles everything the local matcher derives from an assessment.
type Analysis struct {
	Profile Profile     `json:"profile"`
	Traits  []string    `json:"traits"`
	Insight Insight     `json:"insights"`
	Jobs    []*jobs.Job `json:"jobs"`
}

// Analyze classifies the superpowers and dream career answers, reads traits
// from the personality answer and builds insights plus synthetic jobs.
func Analyze(a *Assessment, now time.Time) *Analysis {
	if a == nil {
		a = &Assessment{}
	}

	profile := Classify(a.Superpowers, a.DreamCareer)
	traits := DetectTraits(a.Personality)

	return &Analysis{
		Profile: profile,
		Traits:  traits,
		Insight: Insight{
			CareerMatch:        profile.PrimaryCareer,
			MatchReason:        ExplainMatch(profile, traits),
			PersonalityInsight: PersonalityInsight(traits, a.WorkStyle),
			Recommendations:    Recommend(profile),
		},
		Jobs: SynthesizeJobs(profile.PrimaryCareer, nil, a.Preferences(), now),
	}
}
