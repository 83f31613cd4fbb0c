package career

import (
	"fmt"
	"strings"
)

const (
	TraitCreative       = "creative"
	TraitAnalytical     = "analytical"
	TraitSocial         = "social"
	TraitDetailOriented = "detail-oriented"
	TraitLeadership     = "leadership"
)

// DefaultTrait stands in when no trait was detected.
const DefaultTrait = TraitAnalytical

const fallbackWorkStyle = "You have a flexible work approach"

type traitRule struct {
	tag         string
	triggers    []string
	description string
}

var traitRules = []traitRule{
	{
		tag:         TraitCreative,
		triggers:    []string{"creative", "innovative"},
		description: "Your creative mindset makes you excellent at innovative problem-solving",
	},
	{
		tag:         TraitAnalytical,
		triggers:    []string{"analytical", "logical"},
		description: "Your analytical approach helps you break down complex problems systematically",
	},
	{
		tag:         TraitSocial,
		triggers:    []string{"people", "social"},
		description: "Your people skills make you great at collaboration and communication",
	},
	{
		tag:         TraitDetailOriented,
		triggers:    []string{"detail", "precise"},
		description: "Your attention to detail ensures high-quality deliverables",
	},
	{
		tag:         TraitLeadership,
		triggers:    []string{"leader", "management"},
		description: "Your leadership qualities make you ideal for management roles",
	},
}

var workStyleDescriptions = map[string]string{
	WorkStyleTeam:        "You thrive in collaborative environments",
	WorkStyleIndependent: "You excel when given autonomy to work independently",
	WorkStyleMixed:       "You adapt well to both team and individual work",
	WorkStyleLeadership:  "You naturally gravitate toward leadership positions",
}

// DetectTraits returns the trait tags whose trigger phrases occur in text.
// Tags come out in rule order, not in the order they appear in the text.
func DetectTraits(text string) []string {
	text = strings.ToLower(text)

	traits := []string{}
	for _, rule := range traitRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(text, trigger) {
				traits = append(traits, rule.tag)
				break
			}
		}
	}
	return traits
}

func primaryTrait(traits []string) string {
	if len(traits) == 0 || traitDescription(traits[0]) == "" {
		return DefaultTrait
	}
	return traits[0]
}

func traitDescription(tag string) string {
	for _, rule := range traitRules {
		if rule.tag == tag {
			return rule.description
		}
	}
	return ""
}

// ExplainMatch renders the sentence telling the user why the career fits.
func ExplainMatch(profile Profile, traits []string) string {
	keywords := profile.Keywords
	if len(keywords) > 2 {
		keywords = keywords[:2]
	}

	return fmt.Sprintf(
		"You seem to be a perfect fit for %s roles! Your %s nature and skills in %s align perfectly with what top companies are looking for.",
		profile.PrimaryCareer, primaryTrait(traits), strings.Join(keywords, " and "),
	)
}

// PersonalityInsight describes the first trait and the preferred work style.
func PersonalityInsight(traits []string, workStyle string) string {
	style, ok := workStyleDescriptions[workStyle]
	if !ok {
		style = fallbackWorkStyle
	}
	return fmt.Sprintf("%s. %s.", traitDescription(primaryTrait(traits)), style)
}
