// Package career maps free-text assessment answers to one of a fixed set of
// career archetypes and builds the fallback insights and job postings for it.
//
// Every lookup is backed by a static table, so none of the operations fail:
// unknown input degrades to defaults. The tables are never mutated and all
// functions are safe for concurrent use.
package career

// Career labels in table order. The order decides ties in Classify.
const (
	DataScientist    = "data scientist"
	SoftwareEngineer = "software engineer"
	ProductManager   = "product manager"
	MarketingManager = "marketing manager"
	Designer         = "designer"
	BusinessAnalyst  = "business analyst"
	ProjectManager   = "project manager"
)

// DefaultCareer is returned when no keyword matches.
const DefaultCareer = SoftwareEngineer

const (
	fallbackSalary      = 80000
	fallbackDescription = "Exciting opportunity to grow your career in a dynamic environment."
)

var fallbackEmployers = []string{"Google", "Microsoft", "Amazon", "Apple", "Meta"}

type archetype struct {
	label       string
	keywords    []string
	employers   []string
	salary      int
	description string
}

var archetypes = []archetype{
	{
		label:       DataScientist,
		keywords:    []string{"data", "models", "analytics", "python", "machine learning", "statistics"},
		employers:   []string{"Google", "Netflix", "Airbnb", "Uber", "Meta"},
		salary:      120000,
		description: "Work with cutting-edge machine learning technologies and analyze complex datasets to drive business decisions.",
	},
	{
		label:       SoftwareEngineer,
		keywords:    []string{"code", "programming", "development", "software", "apps", "websites"},
		employers:   []string{"Microsoft", "Apple", "Amazon", "Google", "Meta"},
		salary:      110000,
		description: "Build scalable applications and work with modern tech stacks in a collaborative environment.",
	},
	{
		label:       ProductManager,
		keywords:    []string{"product", "strategy", "roadmap", "features", "user experience"},
		employers:   []string{"Google", "Apple", "Spotify", "Slack", "Airbnb"},
		salary:      130000,
		description: "Lead product strategy and work cross-functionally to deliver innovative solutions.",
	},
	{
		label:       MarketingManager,
		keywords:    []string{"marketing", "campaigns", "brand", "social media", "advertising"},
		employers:   []string{"Nike", "Coca-Cola", "Netflix", "Adobe", "HubSpot"},
		salary:      85000,
		description: "Drive brand awareness and lead marketing campaigns across multiple channels.",
	},
	{
		label:       Designer,
		keywords:    []string{"design", "creative", "visual", "ui", "ux", "graphics"},
		employers:   []string{"Apple", "Adobe", "Figma", "Airbnb", "Spotify"},
		salary:      90000,
		description: "Create beautiful, user-centered designs that enhance the user experience.",
	},
	{
		label:       BusinessAnalyst,
		keywords:    []string{"analysis", "business", "requirements", "process", "optimization"},
		employers:   []string{"McKinsey", "Deloitte", "Microsoft", "Amazon", "IBM"},
		salary:      75000,
		description: "Analyze business processes and provide insights to improve operational efficiency.",
	},
	{
		label:       ProjectManager,
		keywords:    []string{"project", "management", "coordination", "planning", "teams"},
		employers:   []string{"Microsoft", "Amazon", "Atlassian", "Salesforce", "Oracle"},
		salary:      95000,
		description: "Lead cross-functional teams and ensure successful project delivery.",
	},
}

// Labels returns the career labels in table order.
func Labels() []string {
	labels := make([]string, 0, len(archetypes))
	for _, a := range archetypes {
		labels = append(labels, a.label)
	}
	return labels
}

func lookup(label string) (archetype, bool) {
	for _, a := range archetypes {
		if a.label == label {
			return a, true
		}
	}
	return archetype{}, false
}

// Keywords returns a copy of the keyword list for the career, or nil when unknown.
func Keywords(label string) []string {
	a, ok := lookup(label)
	if !ok {
		return nil
	}
	return append([]string(nil), a.keywords...)
}

// EmployersFor returns the employers hiring for the career in priority order.
// Unknown careers get a generic list of the same length.
func EmployersFor(label string) []string {
	if a, ok := lookup(label); ok {
		return append([]string(nil), a.employers...)
	}
	return append([]string(nil), fallbackEmployers...)
}

// SalaryFor returns the yearly salary advertised for the career.
func SalaryFor(label string) int {
	if a, ok := lookup(label); ok {
		return a.salary
	}
	return fallbackSalary
}

// DescriptionFor returns the role description used in synthetic postings.
func DescriptionFor(label string) string {
	if a, ok := lookup(label); ok {
		return a.description
	}
	return fallbackDescription
}
