package jobs

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	JobIDField      = "ID"
	JobCompanyField = "Company"
)

// SortKey selects the ordering applied by Jobs.Sort.
type SortKey string

const (
	// SortRelevance keeps the order the jobs were produced in.
	SortRelevance SortKey = "relevance"
	SortDate      SortKey = "date"
	SortSalary    SortKey = "salary"
	SortCompany   SortKey = "company"
)

// SortKeys lists the supported orderings in menu order.
var SortKeys = []SortKey{SortRelevance, SortDate, SortSalary, SortCompany}

type Jobs struct {
	Items []*Job
}

type Job struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Company     string        `json:"company"`
	Location    string        `json:"location,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
	Salary      int           `json:"salary,omitempty"`
	MatchScore  int           `json:"matchScore,omitempty"`
	Source      string        `json:"source,omitempty"`
	PostedDate  time.Time     `json:"postedDate"`
	Remote      bool          `json:"remote,omitempty"`
	Type        string        `json:"type,omitempty"`
	AI          *AIAssessment `json:"ai,omitempty"`
}

// AIAssessment keeps the result of an AI fit evaluation attached to a job.
type AIAssessment struct {
	Fit    bool    `json:"fit"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason,omitempty"`
	Raw    string  `json:"raw,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// ParseSortKey converts user input into a SortKey. Empty input means relevance.
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if key == "" {
		return SortRelevance, nil
	}
	if !slices.Contains(SortKeys, key) {
		return "", fmt.Errorf("unknown sort key %q", s)
	}
	return key, nil
}

func (j *Job) GetStringField(name string) string {
	switch name {
	case JobIDField:
		return j.ID
	case JobCompanyField:
		return strings.ToLower(j.Company)
	default:
		return ""
	}
}

func (j *Jobs) Len() int {
	return len(j.Items)
}

func (j *Jobs) FindByID(id string) *Job {
	for _, job := range j.Items {
		if job.ID == id {
			return job
		}
	}
	return nil
}

// Append adds jobs at the end of the list keeping their order.
func (j *Jobs) Append(more []*Job) {
	j.Items = append(j.Items, more...)
}

// Clone returns a shallow copy whose item order can change independently.
func (j *Jobs) Clone() *Jobs {
	return &Jobs{Items: slices.Clone(j.Items)}
}

// Exclude removes jobs whose field matches one of the targets and returns the removed ids.
// Order of the remaining jobs is preserved. Company names are compared case-insensitively.
func (j *Jobs) Exclude(name string, targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		if name == JobCompanyField {
			target = strings.ToLower(target)
		}
		set[strings.TrimSpace(target)] = struct{}{}
	}

	return j.removeWhere(func(job *Job) bool {
		_, ok := set[job.GetStringField(name)]
		return ok
	})
}

// KeepSource drops jobs whose source does not contain the given text (case-insensitive).
func (j *Jobs) KeepSource(source string) []string {
	source = strings.ToLower(strings.TrimSpace(source))
	if source == "" {
		return nil
	}

	return j.removeWhere(func(job *Job) bool {
		return !strings.Contains(strings.ToLower(job.Source), source)
	})
}

// DropBelowScore removes scored jobs with a match score under minScore. Unscored jobs are kept.
func (j *Jobs) DropBelowScore(minScore int) []string {
	if minScore <= 0 {
		return nil
	}

	return j.removeWhere(func(job *Job) bool {
		return job.MatchScore > 0 && job.MatchScore < minScore
	})
}

func (j *Jobs) removeWhere(drop func(*Job) bool) []string {
	var removed []string
	j.Items = slices.DeleteFunc(j.Items, func(job *Job) bool {
		if drop(job) {
			removed = append(removed, job.ID)
			return true
		}
		return false
	})
	return removed
}

// Sort reorders the list in place. Ties keep their current relative order.
func (j *Jobs) Sort(key SortKey) {
	switch key {
	case SortDate:
		slices.SortStableFunc(j.Items, func(a, b *Job) int {
			return b.PostedDate.Compare(a.PostedDate)
		})
	case SortSalary:
		slices.SortStableFunc(j.Items, func(a, b *Job) int {
			return b.Salary - a.Salary
		})
	case SortCompany:
		c := collate.New(language.English, collate.Loose)
		slices.SortStableFunc(j.Items, func(a, b *Job) int {
			return c.CompareString(a.Company, b.Company)
		})
	}
}

// ReportByEmployer groups a short summary of every job by company.
func (j *Jobs) ReportByEmployer() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, job := range j.Items {
		entry := map[string]string{
			"title":    job.Title,
			"url":      job.URL,
			"location": job.Location,
			"salary":   formatSalary(job.Salary),
			"source":   job.Source,
		}
		if job.MatchScore > 0 {
			entry["match_score"] = strconv.Itoa(job.MatchScore)
		}

		if job.AI != nil {
			if job.AI.Error != "" {
				entry["ai_error"] = job.AI.Error
			} else {
				entry["ai_fit"] = strconv.FormatBool(job.AI.Fit)
				entry["ai_score"] = strconv.FormatFloat(job.AI.Score, 'f', -1, 64)
				if job.AI.Reason != "" {
					entry["ai_reason"] = job.AI.Reason
				}
			}
		}

		report[job.Company] = append(report[job.Company], entry)
	}
	return report
}

func formatSalary(salary int) string {
	if salary <= 0 {
		return "not specified"
	}
	return fmt.Sprintf("%d/year", salary)
}
