package recommend

import "subject_recommender/internal/lookup"

// ScoreBreakdown holds the per-category scores of one subject, each in [0, 1].
// Participants is one of 0, 0.5 or 1.
type ScoreBreakdown struct {
	Professors   float64 `json:"professors"`
	Assistants   float64 `json:"assistants"`
	Technologies float64 `json:"technologies"`
	Tags         float64 `json:"tags"`
	Evaluation   float64 `json:"evaluation"`
	Effort       float64 `json:"effort"`
	Activated    float64 `json:"activated"`
	Participants float64 `json:"participant_score"`
}

// Ratio returns the score of a binary category.
func (b ScoreBreakdown) Ratio(c lookup.Category) float64 {
	switch c {
	case lookup.CategoryProfessors:
		return b.Professors
	case lookup.CategoryAssistants:
		return b.Assistants
	case lookup.CategoryTechnologies:
		return b.Technologies
	case lookup.CategoryTags:
		return b.Tags
	case lookup.CategoryEvaluation:
		return b.Evaluation
	}
	return 0
}

func (b *ScoreBreakdown) setRatio(c lookup.Category, v float64) {
	switch c {
	case lookup.CategoryProfessors:
		b.Professors = v
	case lookup.CategoryAssistants:
		b.Assistants = v
	case lookup.CategoryTechnologies:
		b.Technologies = v
	case lookup.CategoryEvaluation:
		b.Evaluation = v
	}
}

// SubjectScore is a scored candidate; order follows the eligible subject order.
type SubjectScore struct {
	Name      string
	Vector    lookup.FeatureVector
	Breakdown ScoreBreakdown
}

// PreferenceScorer turns vectors into score breakdowns.
type PreferenceScorer struct {
	tags   *TagScorer
	tuning Tuning
}

func NewPreferenceScorer(tags *TagScorer, tuning Tuning) *PreferenceScorer {
	return &PreferenceScorer{tags: tags, tuning: tuning}
}

// Score computes a breakdown per subject. Tag scores are divided by the largest tag
// score of the candidate set so the best tag match scores exactly 1.
func (p *PreferenceScorer) Score(student lookup.FeatureVector, subjects []SubjectVector) []SubjectScore {
	out := make([]SubjectScore, len(subjects))
	maxTags := 0.0
	for i, sv := range subjects {
		b := ScoreBreakdown{}
		for _, c := range lookup.Categories {
			if c == lookup.CategoryTags {
				continue
			}
			b.setRatio(c, p.matchRatio(student.Category(c), sv.Vector.Category(c)))
		}
		b.Tags = p.tags.Score(student.Category(lookup.CategoryTags), sv.Vector.Category(lookup.CategoryTags))
		if b.Tags > maxTags {
			maxTags = b.Tags
		}
		b.Effort = p.effortBonus(student.StudyEffort, sv.Vector.IsEasy)
		if sv.Vector.Activated {
			b.Activated = 1
		}
		b.Participants = sv.Vector.Participants
		out[i] = SubjectScore{Name: sv.Name, Vector: sv.Vector, Breakdown: b}
	}

	if maxTags > 0 {
		for i := range out {
			out[i].Breakdown.Tags /= maxTags
		}
	}
	return out
}

// matchRatio is |student ∩ subject| over the 1-count of the configured side.
func (p *PreferenceScorer) matchRatio(student, subject lookup.Indicators) float64 {
	matches, total := 0, 0
	for i := range subject {
		if subject[i] == 1 && student[i] == 1 {
			matches++
		}
	}
	if p.tuning.MatchDenominator == DenominatorStudent {
		total = student.Ones()
	} else {
		total = subject.Ones()
	}
	if total == 0 {
		return 0
	}
	return float64(matches) / float64(total)
}

// effortBonus rewards easy subjects for low effort students and hard subjects for
// high effort students. effort is the normalized value raw/5.
func (p *PreferenceScorer) effortBonus(effort float64, isEasy bool) float64 {
	raw := int(effort*5 + 0.5)
	if (raw <= p.tuning.LowEffortMax && isEasy) || (raw >= p.tuning.HighEffortMin && !isEasy) {
		return 1
	}
	return 0
}
