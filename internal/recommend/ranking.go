package recommend

import "sort"

// RankedSubject is a scored candidate with its weighted total.
type RankedSubject struct {
	SubjectScore
	Total float64
}

// Ranker orders candidates by weighted total.
type Ranker struct {
	weights Weights
	limit   int
}

func NewRanker(tuning Tuning) *Ranker {
	return &Ranker{weights: tuning.Weights, limit: tuning.NumberOfSuggestions}
}

// Rank sorts by total descending, keeping input order for equal totals, and
// truncates to the suggestion limit. The second result is the highest total of the
// whole candidate set.
func (r *Ranker) Rank(scores []SubjectScore) ([]RankedSubject, float64) {
	ranked := make([]RankedSubject, len(scores))
	for i, s := range scores {
		ranked[i] = RankedSubject{SubjectScore: s, Total: r.weights.Apply(s.Breakdown)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total > ranked[j].Total
	})

	best := 0.0
	if len(ranked) > 0 {
		best = ranked[0].Total
	}
	if len(ranked) > r.limit {
		ranked = ranked[:r.limit]
	}
	return ranked, best
}
