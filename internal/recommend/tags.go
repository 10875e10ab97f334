package recommend

import "subject_recommender/internal/lookup"

// TagScorer computes graph-aware tag affinity between a student and a subject.
type TagScorer struct {
	graph             *lookup.TagGraph
	biasStudentHasOne float64
	biasSubjectHasOne float64
}

func NewTagScorer(graph *lookup.TagGraph, tuning Tuning) *TagScorer {
	return &TagScorer{
		graph:             graph,
		biasStudentHasOne: tuning.BiasStudentHasOne,
		biasSubjectHasOne: tuning.BiasSubjectHasOne,
	}
}

// Score returns a value in [0, 1]. A tag held by both sides counts 1. A tag held by
// one side earns w/total*bias for every graph neighbor the other side holds. The sum
// is divided by the number of tags held by either side; no tags at all scores 0.
func (s *TagScorer) Score(student, subject lookup.Indicators) float64 {
	var score float64
	active := 0
	for i := range student {
		st, sb := student[i] == 1, subject[i] == 1
		switch {
		case st && sb:
			active++
			score += 1
		case st:
			active++
			score += s.partial(i, subject, s.biasStudentHasOne)
		case sb:
			active++
			score += s.partial(i, student, s.biasSubjectHasOne)
		}
	}
	if active == 0 {
		return 0
	}
	return score / float64(active)
}

// partial is at most bias < 1 since the neighbor weights of i sum to total.
func (s *TagScorer) partial(i int, other lookup.Indicators, bias float64) float64 {
	total := s.graph.TotalWeight(i)
	if total == 0 {
		return 0
	}
	var credit float64
	for _, e := range s.graph.Neighbors(i) {
		if other[e.To] == 1 {
			credit += e.Weight / total * bias
		}
	}
	return credit
}
