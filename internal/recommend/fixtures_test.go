package recommend

import (
	"testing"

	"subject_recommender/internal/lookup"
	"subject_recommender/internal/model"

	"github.com/stretchr/testify/require"
)

// tag indices of the fixture vocabulary (sorted)
const (
	tagAI       = 0 // "AI / ML"
	tagData     = 1 // "Data Science"
	tagMath     = 2 // "Mathematics"
	tagSocietal = 3 // "Societal Skills"
)

type subjectOpt func(*model.SubjectInfo)

func subject(id uint, name string, opts ...subjectOpt) model.Subject {
	info := &model.SubjectInfo{
		Level:       1,
		Semester:    3,
		Season:      model.SeasonWinter,
		Activated:   true,
		ElectiveFor: []string{"KI23"},
	}
	for _, opt := range opts {
		opt(info)
	}
	return model.Subject{BaseModel: model.BaseModel{ID: id}, Name: name, Code: name, Info: info}
}

func semester(n int) subjectOpt { return func(i *model.SubjectInfo) { i.Semester = n } }
func level(n int) subjectOpt { return func(i *model.SubjectInfo) { i.Level = n } }
func season(s model.Season) subjectOpt { return func(i *model.SubjectInfo) { i.Season = s } }
func easy() subjectOpt { return func(i *model.SubjectInfo) { i.IsEasy = true } }
func inactive() subjectOpt { return func(i *model.SubjectInfo) { i.Activated = false } }
func tags(t ...string) subjectOpt { return func(i *model.SubjectInfo) { i.Tags = t } }
func profs(p ...string) subjectOpt { return func(i *model.SubjectInfo) { i.Professors = p } }
func techs(t ...string) subjectOpt { return func(i *model.SubjectInfo) { i.Technologies = t } }
func electiveFor(tr ...string) subjectOpt {
	return func(i *model.SubjectInfo) { i.ElectiveFor = tr }
}
func prereq(p model.Prerequisite) subjectOpt {
	return func(i *model.SubjectInfo) { i.Prerequisite = p }
}
func participants(p ...int) subjectOpt {
	return func(i *model.SubjectInfo) { i.Participants = p }
}

func student(opts ...func(*model.Student)) *model.Student {
	s := &model.Student{
		BaseModel:    model.BaseModel{ID: 42},
		StudyTrack:   "KI23",
		CurrentYear:  2,
		StudyEffort:  3,
		LevelCredits: []int{0, 0},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// fixtureTables builds lookup tables from the catalog plus a vocabulary anchor subject
// so every fixture tag and term is known even if no catalog subject carries it.
func fixtureTables(t *testing.T, catalog []model.Subject) *lookup.Tables {
	t.Helper()
	anchor := model.Subject{Name: "__anchor__", Info: &model.SubjectInfo{
		Professors:   []string{"Ana", "Boris", "Cvetko"},
		Technologies: []string{"Go", "Python", "SQL"},
		Tags:         []string{"AI / ML", "Data Science", "Mathematics", "Societal Skills"},
		Evaluation:   []string{"Exam", "Project"},
	}}
	vocab := lookup.BuildVocabulary(append([]model.Subject{anchor}, catalog...))
	graph, skipped, err := lookup.BuildTagGraph(vocab, []lookup.TagEdge{
		{From: "AI / ML", To: "Mathematics", Weight: 3},
		{From: "AI / ML", To: "Data Science", Weight: 1},
		{From: "Data Science", To: "AI / ML", Weight: 3},
		{From: "Mathematics", To: "AI / ML", Weight: 2},
	})
	require.NoError(t, err)
	require.Empty(t, skipped)
	require.Equal(t, 4, vocab.Len(lookup.CategoryTags), "fixture catalog must not add tags")

	tables, err := lookup.NewTables(vocab, lookup.BuildSubjectVectors(vocab, catalog), graph)
	require.NoError(t, err)
	return tables
}

func fixtureGraph(t *testing.T) *lookup.TagGraph {
	t.Helper()
	return fixtureTables(t, nil).Graph
}
