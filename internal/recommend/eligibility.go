package recommend

import (
	"fmt"

	"subject_recommender/internal/model"
	"subject_recommender/internal/util"
	"subject_recommender/pkg/validation"
)

// Filter decides which catalog subjects a student may enroll in next.
type Filter struct {
	catalog []model.Subject
	tuning  Tuning
}

// NewFilter keeps the catalog order; eligible subjects are returned in that order.
func NewFilter(catalog []model.Subject, tuning Tuning) *Filter {
	return &Filter{catalog: catalog, tuning: tuning}
}

// Eligible returns the subjects the student may take in the given term. An invalid
// term or effort rejects the request; a subject with missing or invalid info is
// simply not eligible.
func (f *Filter) Eligible(student *model.Student, term model.Term, activeOnly bool) ([]model.Subject, error) {
	if !term.Valid() {
		return nil, fmt.Errorf("%w: %d", util.ErrInvalidSeason, int(term))
	}
	if student.StudyEffort < 1 || student.StudyEffort > 5 {
		return nil, fmt.Errorf("%w: got %d", util.ErrInvalidEffort, student.StudyEffort)
	}
	if !f.tuning.knownTrack(student.StudyTrack) {
		return []model.Subject{}, nil
	}

	passed := student.PassedSet()
	out := make([]model.Subject, 0)
	for _, subject := range f.catalog {
		if f.allows(student, passed, subject, term, activeOnly) {
			out = append(out, subject)
		}
	}
	return out, nil
}

func (f *Filter) allows(student *model.Student, passed map[uint]struct{}, subject model.Subject, term model.Term, activeOnly bool) bool {
	if _, ok := passed[subject.ID]; ok {
		return false
	}
	info := subject.Info
	if info == nil || validation.ValidateStruct(info) != nil {
		return false
	}
	if !info.IsElectiveFor(student.StudyTrack) {
		return false
	}
	if !term.Matches(info.Season) {
		return false
	}
	if activeOnly && !info.Activated {
		return false
	}
	if !effortAllows(student.StudyEffort, student.CurrentYear, info) {
		return false
	}
	if limit := f.tuning.levelCap(info.Level); limit >= 0 && student.LevelCreditsAt(info.Level) >= limit {
		return false
	}
	return info.Prerequisite.SatisfiedBy(student.TotalCredits, passed)
}

// effortAllows applies the workload band. y2 is the last semester of the student's
// current year.
func effortAllows(effort, year int, info *model.SubjectInfo) bool {
	y2 := year * 2
	switch {
	case effort <= 2:
		if info.Semester > y2 {
			return false
		}
		return effort != 1 || info.IsEasy
	case effort == 3:
		return info.Semester == y2-1 || info.Semester == y2
	default:
		if info.Semester < y2-1 {
			return false
		}
		return effort != 5 || !info.IsEasy
	}
}
