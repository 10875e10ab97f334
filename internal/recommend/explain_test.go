package recommend

import (
	"testing"

	"subject_recommender/internal/lookup"
	"subject_recommender/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchPercentage(t *testing.T) {
	assert.Equal(t, 100, matchPercentage(0.5, 0.5))
	assert.Equal(t, 50, matchPercentage(0.25, 0.5))
	assert.Equal(t, 67, matchPercentage(2, 3))
	assert.Equal(t, 100, matchPercentage(0, 0))
}

func TestExplainAllZeroScores(t *testing.T) {
	tables := fixtureTables(t, nil)
	e := NewExplainer(tables.Vocabulary, DefaultTuning())
	ranked := []RankedSubject{
		{SubjectScore: SubjectScore{Name: "A", Vector: emptyVector(tables)}},
		{SubjectScore: SubjectScore{Name: "B", Vector: emptyVector(tables)}},
	}

	recs := e.Explain(emptyVector(tables), ranked, 0)
	require.Len(t, recs, 2)
	for _, r := range recs {
		assert.Equal(t, 100, r.MatchPercentage)
		assert.Empty(t, r.Explanations)
		assert.Empty(t, r.MatchingTags)
	}
}

func emptyVector(tables *lookup.Tables) lookup.FeatureVector {
	fv := lookup.FeatureVector{Indicators: map[lookup.Category]lookup.Indicators{}}
	for _, c := range lookup.Categories {
		fv.Indicators[c] = make(lookup.Indicators, tables.Vocabulary.Len(c))
	}
	return fv
}

func TestExplainReasons(t *testing.T) {
	catalog := []model.Subject{
		subject(1, "Deep Learning",
			tags("AI / ML", "Mathematics"),
			profs("Ana"),
			techs("Python", "Go"),
			participants(500),
		),
		subject(2, "Databases", tags("Data Science"), techs("SQL"), easy(), inactive()),
	}
	s := student(func(s *model.Student) {
		s.StudyEffort = 4
		s.Tags = []string{"AI / ML", "Mathematics"}
		s.Professors = []string{"Ana"}
		s.Technologies = []string{"Python"}
	})

	tuning := DefaultTuning()
	tables := fixtureTables(t, catalog)
	v := NewVectorizer(tables)
	vectors, _ := v.SubjectVectors(catalog)
	sv := v.StudentVector(s)
	ranked, best := NewRanker(tuning).Rank(NewPreferenceScorer(NewTagScorer(tables.Graph, tuning), tuning).Score(sv, vectors))
	recs := NewExplainer(tables.Vocabulary, tuning).Explain(sv, ranked, best)

	require.Len(t, recs, 2)
	top := recs[0]
	assert.Equal(t, "Deep Learning", top.SubjectName)
	assert.Equal(t, 100, top.MatchPercentage)
	assert.Equal(t, []string{"AI / ML", "Mathematics"}, top.MatchingTags)
	assert.Equal(t, []string{
		"Matches your interests: AI / ML, Mathematics",
		"Taught by professors you prefer: Ana",
		"Challenging subject that fits your study effort",
		"Held recently",
		"Popular with students",
	}, top.Explanations)

	// technologies is exactly 0.5 and does not pass the strict threshold
	assert.InDelta(t, 0.5, top.Breakdown.Technologies, 1e-9)

	low := recs[1]
	assert.Equal(t, "Databases", low.SubjectName)
	assert.Less(t, low.MatchPercentage, 100)
	assert.Empty(t, low.MatchingTags)
	assert.NotContains(t, low.Explanations, "Held recently")
}
