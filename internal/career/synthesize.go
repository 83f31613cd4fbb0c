package career

import (
	"fmt"
	"strings"
	"time"

	"github.com/careercrafted/careercrafted/internal/jobs"
)

const (
	// SyntheticSource labels jobs produced locally.
	SyntheticSource = "CareerCrafted Match"

	topMatchScore   = 95
	matchScoreDecay = 5

	defaultLocation = "Multiple Locations"
	defaultJobType  = "full-time"
)

// RelocateRemote is the relocate answer that marks synthetic jobs as remote.
const RelocateRemote = "remote"

// Preferences carries the assessment answers that shape synthetic postings.
type Preferences struct {
	Location string
	Relocate string
	JobTypes []string
}

// Recommendation suggests an employer for the matched career.
type Recommendation struct {
	Company string `json:"company"`
	Role    string `json:"role"`
	Reason  string `json:"reason"`
}

// Recommend returns one recommendation per employer of the profile's career.
func Recommend(profile Profile) []Recommendation {
	employers := EmployersFor(profile.PrimaryCareer)
	recs := make([]Recommendation, 0, len(employers))
	for _, company := range employers {
		recs = append(recs, Recommendation{
			Company: company,
			Role:    profile.PrimaryCareer,
			Reason:  fmt.Sprintf("%s is actively hiring %ss and values the skills you mentioned.", company, profile.PrimaryCareer),
		})
	}
	return recs
}

// SynthesizeJobs builds one posting per employer. Match scores start at 95 and
// drop by 5 per position, so the result is already ordered by relevance.
// Nil employers means EmployersFor(label).
func SynthesizeJobs(label string, employers []string, prefs Preferences, now time.Time) []*jobs.Job {
	if employers == nil {
		employers = EmployersFor(label)
	}

	location := strings.TrimSpace(prefs.Location)
	if location == "" {
		location = defaultLocation
	}

	jobType := defaultJobType
	if len(prefs.JobTypes) > 0 && strings.TrimSpace(prefs.JobTypes[0]) != "" {
		jobType = strings.TrimSpace(prefs.JobTypes[0])
	}

	remote := strings.EqualFold(strings.TrimSpace(prefs.Relocate), RelocateRemote)
	salary := SalaryFor(label)
	description := DescriptionFor(label)

	out := make([]*jobs.Job, 0, len(employers))
	for i, employer := range employers {
		slug := strings.ToLower(employer)
		out = append(out, &jobs.Job{
			ID:          fmt.Sprintf("match_%s_%d", slug, i),
			Title:       fmt.Sprintf("%s - %s", label, employer),
			Company:     employer,
			Location:    location,
			Description: fmt.Sprintf("Join %s as a %s. %s", employer, label, description),
			URL:         fmt.Sprintf("https://%s.com/careers", slug),
			Salary:      salary,
			MatchScore:  matchScore(i),
			Source:      SyntheticSource,
			PostedDate:  now,
			Remote:      remote,
			Type:        jobType,
		})
	}
	return out
}

func matchScore(idx int) int {
	return max(topMatchScore-matchScoreDecay*idx, 0)
}
