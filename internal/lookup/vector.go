package lookup

import (
	"fmt"

	"subject_recommender/internal/util"
)

// Indicators is a 0/1 vector aligned to one vocabulary category.
type Indicators []int

// Ones counts the set indicators.
func (ind Indicators) Ones() int {
	n := 0
	for _, bit := range ind {
		if bit == 1 {
			n++
		}
	}
	return n
}

// FeatureVector is the numeric encoding of a student or a subject. Students fill
// StudyEffort and CurrentYear, subjects fill IsEasy, Activated and Participants.
type FeatureVector struct {
	Indicators   map[Category]Indicators
	StudyEffort  float64
	CurrentYear  int
	IsEasy       bool
	Activated    bool
	Participants float64
}

// Category returns the indicator vector of a category (nil when absent).
func (fv FeatureVector) Category(c Category) Indicators {
	return fv.Indicators[c]
}

// Participant buckets: <100 -> 0, <300 -> 0.5, otherwise 1.
const (
	ParticipantsLowThreshold  = 100
	ParticipantsHighThreshold = 300
)

// ParticipantBucket maps an average recent headcount to the popularity score.
func ParticipantBucket(avg float64) float64 {
	switch {
	case avg < ParticipantsLowThreshold:
		return 0
	case avg < ParticipantsHighThreshold:
		return 0.5
	default:
		return 1
	}
}

// subjectVectorRecord is the on-disk form of one subjects_vector.json entry.
type subjectVectorRecord struct {
	Professors   []int   `json:"professors"`
	Assistants   []int   `json:"assistants"`
	Technologies []int   `json:"technologies"`
	Tags         []int   `json:"tags"`
	Evaluation   []int   `json:"evaluation"`
	IsEasy       int     `json:"isEasy"`
	Activated    int     `json:"activated"`
	Participants float64 `json:"participants"`
}

func (r subjectVectorRecord) toFeatureVector(name string, vocab *Vocabulary) (FeatureVector, error) {
	raw := map[Category][]int{
		CategoryProfessors:   r.Professors,
		CategoryAssistants:   r.Assistants,
		CategoryTechnologies: r.Technologies,
		CategoryTags:         r.Tags,
		CategoryEvaluation:   r.Evaluation,
	}

	fv := FeatureVector{Indicators: make(map[Category]Indicators, len(raw))}
	for _, c := range Categories {
		values := raw[c]
		if len(values) != vocab.Len(c) {
			return FeatureVector{}, fmt.Errorf("%w: subject %q: %s vector has length %d, vocabulary has %d",
				util.ErrTableInconsistent, name, c, len(values), vocab.Len(c))
		}
		for i, bit := range values {
			if bit != 0 && bit != 1 {
				return FeatureVector{}, fmt.Errorf("%w: subject %q: %s[%d] = %d is not binary",
					util.ErrTableInconsistent, name, c, i, bit)
			}
		}
		fv.Indicators[c] = Indicators(values)
	}

	if r.IsEasy != 0 && r.IsEasy != 1 {
		return FeatureVector{}, fmt.Errorf("%w: subject %q: isEasy must be 0 or 1", util.ErrTableInconsistent, name)
	}
	if r.Activated != 0 && r.Activated != 1 {
		return FeatureVector{}, fmt.Errorf("%w: subject %q: activated must be 0 or 1", util.ErrTableInconsistent, name)
	}
	switch r.Participants {
	case 0, 0.5, 1:
	default:
		return FeatureVector{}, fmt.Errorf("%w: subject %q: participants bucket %v not in {0, 0.5, 1}",
			util.ErrTableInconsistent, name, r.Participants)
	}

	fv.IsEasy = r.IsEasy == 1
	fv.Activated = r.Activated == 1
	fv.Participants = r.Participants
	return fv, nil
}

func recordFromFeatureVector(fv FeatureVector) subjectVectorRecord {
	return subjectVectorRecord{
		Professors:   fv.Indicators[CategoryProfessors],
		Assistants:   fv.Indicators[CategoryAssistants],
		Technologies: fv.Indicators[CategoryTechnologies],
		Tags:         fv.Indicators[CategoryTags],
		Evaluation:   fv.Indicators[CategoryEvaluation],
		IsEasy:       boolToInt(fv.IsEasy),
		Activated:    boolToInt(fv.Activated),
		Participants: fv.Participants,
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
