package recommend

import (
	"subject_recommender/internal/lookup"
	"subject_recommender/internal/model"
)

// SubjectVector pairs a subject name with its precomputed feature vector.
type SubjectVector struct {
	Name   string
	Vector lookup.FeatureVector
}

// Vectorizer encodes students and fetches subject vectors from the lookup tables.
type Vectorizer struct {
	tables *lookup.Tables
}

func NewVectorizer(tables *lookup.Tables) *Vectorizer {
	return &Vectorizer{tables: tables}
}

// StudentVector encodes the student's preferences against the vocabulary. Terms the
// vocabulary does not know are dropped.
func (v *Vectorizer) StudentVector(student *model.Student) lookup.FeatureVector {
	fv := lookup.FeatureVector{
		Indicators:  make(map[lookup.Category]lookup.Indicators, len(lookup.Categories)),
		StudyEffort: float64(student.StudyEffort) / 5,
		CurrentYear: student.CurrentYear,
	}
	for _, c := range lookup.Categories {
		fv.Indicators[c] = v.tables.Vocabulary.Encode(c, student.Preferences(string(c)))
	}
	return fv
}

// SubjectVectors looks up each subject by name, keeping the input order. Subjects
// missing from the vector table are returned in skipped instead.
func (v *Vectorizer) SubjectVectors(subjects []model.Subject) (vectors []SubjectVector, skipped []string) {
	vectors = make([]SubjectVector, 0, len(subjects))
	for _, s := range subjects {
		fv, ok := v.tables.SubjectVector(s.Name)
		if !ok {
			skipped = append(skipped, s.Name)
			continue
		}
		vectors = append(vectors, SubjectVector{Name: s.Name, Vector: fv})
	}
	return vectors, skipped
}
