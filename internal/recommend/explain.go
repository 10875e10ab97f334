package recommend

import (
	"fmt"
	"math"
	"strings"

	"subject_recommender/internal/lookup"
)

// Recommendation is one ranked subject with its explanation.
type Recommendation struct {
	SubjectName     string         `json:"subject_name"`
	Score           float64        `json:"score"`
	MatchPercentage int            `json:"match_percentage"`
	Explanations    []string       `json:"explanations"`
	MatchingTags    []string       `json:"matching_tags"`
	Breakdown       ScoreBreakdown `json:"detailed_scores"`
}

// Explainer attaches match percentages and human readable reasons.
type Explainer struct {
	vocab      *lookup.Vocabulary
	thresholds ExplainThresholds
}

func NewExplainer(vocab *lookup.Vocabulary, tuning Tuning) *Explainer {
	return &Explainer{vocab: vocab, thresholds: tuning.Explain}
}

// Explain converts ranked subjects into recommendations. best is the highest total
// among all candidates; when it is 0 every entry matches 100%.
func (e *Explainer) Explain(student lookup.FeatureVector, ranked []RankedSubject, best float64) []Recommendation {
	out := make([]Recommendation, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, Recommendation{
			SubjectName:     r.Name,
			Score:           r.Total,
			MatchPercentage: matchPercentage(r.Total, best),
			Explanations:    e.reasons(student, r),
			MatchingTags:    e.common(lookup.CategoryTags, student, r.Vector),
			Breakdown:       r.Breakdown,
		})
	}
	return out
}

func matchPercentage(total, best float64) int {
	if best <= 0 {
		return 100
	}
	return int(math.Round(total / best * 100))
}

func (e *Explainer) reasons(student lookup.FeatureVector, r RankedSubject) []string {
	b := r.Breakdown
	reasons := make([]string, 0)

	if b.Tags > e.thresholds.Tags {
		if tags := e.common(lookup.CategoryTags, student, r.Vector); len(tags) > 0 {
			reasons = append(reasons, "Matches your interests: "+strings.Join(tags, ", "))
		} else {
			reasons = append(reasons, "Closely related to your interests")
		}
	}

	categories := []struct {
		category  lookup.Category
		threshold float64
		format    string
	}{
		{lookup.CategoryProfessors, e.thresholds.Professors, "Taught by professors you prefer: %s"},
		{lookup.CategoryAssistants, e.thresholds.Assistants, "Assistants you prefer: %s"},
		{lookup.CategoryTechnologies, e.thresholds.Technologies, "Uses technologies you like: %s"},
		{lookup.CategoryEvaluation, e.thresholds.Evaluation, "Graded the way you prefer: %s"},
	}
	for _, c := range categories {
		if b.Ratio(c.category) <= c.threshold {
			continue
		}
		if terms := e.common(c.category, student, r.Vector); len(terms) > 0 {
			reasons = append(reasons, fmt.Sprintf(c.format, strings.Join(terms, ", ")))
		}
	}

	if b.Effort == 1 {
		if r.Vector.IsEasy {
			reasons = append(reasons, "Light workload that fits your study effort")
		} else {
			reasons = append(reasons, "Challenging subject that fits your study effort")
		}
	}
	if b.Activated == 1 {
		reasons = append(reasons, "Held recently")
	}
	if b.Participants == 1 {
		reasons = append(reasons, "Popular with students")
	}
	return reasons
}

// common lists the terms both sides hold, in vocabulary order.
func (e *Explainer) common(c lookup.Category, student, subject lookup.FeatureVector) []string {
	a, b := student.Category(c), subject.Category(c)
	both := make(lookup.Indicators, len(b))
	for i := range b {
		if i < len(a) && a[i] == 1 && b[i] == 1 {
			both[i] = 1
		}
	}
	terms := e.vocab.Decode(c, both)
	if terms == nil {
		return []string{}
	}
	return terms
}
