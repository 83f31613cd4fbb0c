package career

import "strings"

// Profile is the result of classifying assessment text.
type Profile struct {
	PrimaryCareer string   `json:"primaryCareer"`
	Score         int      `json:"score"`
	Keywords      []string `json:"keywords"`
	// Matched holds the winning career's keywords found in the text, in table order.
	Matched []string `json:"matched,omitempty"`
}

// Classify scores every career by the number of its keywords present in the
// lower-cased, space-joined texts and returns the best one. A keyword counts
// once no matter how often it appears. Ties keep the earlier career in table
// order; when nothing matches the default career is returned with score 0.
func Classify(texts ...string) Profile {
	corpus := strings.ToLower(strings.Join(texts, " "))

	best := DefaultCareer
	bestScore := 0
	var bestMatched []string

	for _, a := range archetypes {
		matched := matchKeywords(corpus, a.keywords)
		if len(matched) > bestScore {
			best = a.label
			bestScore = len(matched)
			bestMatched = matched
		}
	}

	return Profile{
		PrimaryCareer: best,
		Score:         bestScore,
		Keywords:      Keywords(best),
		Matched:       bestMatched,
	}
}

func matchKeywords(corpus string, keywords []string) []string {
	var matched []string
	for _, keyword := range keywords {
		if strings.Contains(corpus, keyword) {
			matched = append(matched, keyword)
		}
	}
	return matched
}
