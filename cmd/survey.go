package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/careercrafted/careercrafted/internal/career"
)

var (
	workStyles = []string{career.WorkStyleTeam, career.WorkStyleIndependent, career.WorkStyleMixed, career.WorkStyleLeadership}
	relocates  = []string{"yes", "no", "maybe", career.RelocateRemote}
)

// runSurvey asks the assessment questions one by one. Answers already present
// in base are offered as defaults.
func runSurvey(base *career.Assessment) (*career.Assessment, error) {
	a := &career.Assessment{}
	if base != nil {
		*a = *base
	}

	texts := []struct {
		label  string
		target *string
	}{
		{label: "Describe your personality", target: &a.Personality},
		{label: "What are your superpowers", target: &a.Superpowers},
		{label: "Which skills do you have", target: &a.Skills},
		{label: "What is your dream career", target: &a.DreamCareer},
		{label: "Which industry interests you", target: &a.Industry},
		{label: "Where do you want to work", target: &a.Location},
	}

	for _, q := range texts {
		answer, err := askText(q.label, *q.target)
		if err != nil {
			return nil, err
		}
		*q.target = answer
	}

	var err error
	if a.WorkStyle, err = askChoice("How do you prefer to work", workStyles, a.WorkStyle); err != nil {
		return nil, err
	}
	if a.Relocate, err = askChoice("Are you open to relocation", relocates, a.Relocate); err != nil {
		return nil, err
	}

	jobTypes, err := askText("Job types, comma separated (full-time, part-time, contract, internship)", strings.Join(a.JobTypes, ", "))
	if err != nil {
		return nil, err
	}
	a.JobTypes = splitList(jobTypes)

	return a, nil
}

func askText(label, def string) (string, error) {
	p := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: true,
	}

	answer, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("%s: %w", label, err)
	}
	return strings.TrimSpace(answer), nil
}

func askChoice(label string, items []string, current string) (string, error) {
	p := promptui.Select{
		Label:     label,
		Items:     items,
		CursorPos: max(0, slices.Index(items, current)),
	}

	_, answer, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("%s: %w", label, err)
	}
	return answer, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
