package recommend

import (
	"fmt"

	"subject_recommender/internal/lookup"
	"subject_recommender/internal/model"
	"subject_recommender/internal/util"
	"subject_recommender/pkg/validation"
)

// Request selects the term and whether only recently held subjects qualify.
type Request struct {
	Term       model.Term `json:"term"`
	ActiveOnly bool       `json:"active_only"`
}

// Result of one recommendation run. Skipped lists eligible subjects that have no
// precomputed vector and were left out of scoring.
type Result struct {
	Recommendations []Recommendation `json:"recommendations"`
	EligibleCount   int              `json:"eligible_count"`
	Skipped         []string         `json:"skipped,omitempty"`
}

// Engine wires the pipeline stages around one immutable set of tables.
type Engine struct {
	tables     *lookup.Tables
	tuning     Tuning
	vectorizer *Vectorizer
	scorer     *PreferenceScorer
	ranker     *Ranker
	explainer  *Explainer
}

// New validates the tuning and builds an engine. Errors here are configuration
// errors and should stop the process.
func New(tables *lookup.Tables, tuning Tuning) (*Engine, error) {
	if tables == nil {
		return nil, fmt.Errorf("%w: engine needs lookup tables", util.ErrTableMissing)
	}
	if err := tuning.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		tables:     tables,
		tuning:     tuning,
		vectorizer: NewVectorizer(tables),
		scorer:     NewPreferenceScorer(NewTagScorer(tables.Graph, tuning), tuning),
		ranker:     NewRanker(tuning),
		explainer:  NewExplainer(tables.Vocabulary, tuning),
	}, nil
}

func (e *Engine) Tuning() Tuning {
	return e.tuning
}

func (e *Engine) Tables() *lookup.Tables {
	return e.tables
}

// ValidateStudent checks a student record at the boundary.
func ValidateStudent(student *model.Student) error {
	if student == nil {
		return fmt.Errorf("%w: student is required", util.ErrInvalidInput)
	}
	if student.StudyEffort < 1 || student.StudyEffort > 5 {
		return fmt.Errorf("%w: got %d", util.ErrInvalidEffort, student.StudyEffort)
	}
	if err := validation.ValidateStruct(student); err != nil {
		return fmt.Errorf("%w: %v", util.ErrInvalidInput, err)
	}
	return nil
}

// Eligible runs only the eligibility stage.
func (e *Engine) Eligible(student *model.Student, catalog []model.Subject, req Request) ([]model.Subject, error) {
	if err := ValidateStudent(student); err != nil {
		return nil, err
	}
	return NewFilter(catalog, e.tuning).Eligible(student, req.Term, req.ActiveOnly)
}

// Recommend runs eligibility, vectorization, scoring and ranking for one student
// against the catalog. No eligible subjects gives an empty result, not an error.
func (e *Engine) Recommend(student *model.Student, catalog []model.Subject, req Request) (*Result, error) {
	eligible, err := e.Eligible(student, catalog, req)
	if err != nil {
		return nil, err
	}
	return e.Score(student, eligible), nil
}

// Score vectorizes, scores and ranks an already filtered candidate set.
func (e *Engine) Score(student *model.Student, eligible []model.Subject) *Result {
	result := &Result{Recommendations: []Recommendation{}, EligibleCount: len(eligible)}
	if len(eligible) == 0 {
		return result
	}

	vectors, skipped := e.vectorizer.SubjectVectors(eligible)
	result.Skipped = skipped
	if len(vectors) == 0 {
		return result
	}

	studentVector := e.vectorizer.StudentVector(student)
	scores := e.scorer.Score(studentVector, vectors)
	ranked, best := e.ranker.Rank(scores)
	result.Recommendations = e.explainer.Explain(studentVector, ranked, best)
	return result
}
