package lookup

import (
	"context"
	"os"
	"testing"
	"testing/fstest"

	"subject_recommender/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fixtureVocabulary = `{
		"professors": ["Ana", "Boris"],
		"assistants": [],
		"technologies": ["Go", "Python"],
		"tags": ["AI / ML", "Data Science", "Mathematics"],
		"evaluation": ["Exam"]
	}`
	fixtureVectors = `{
		"Machine Learning": {
			"professors": [1, 0], "assistants": [], "technologies": [0, 1],
			"tags": [1, 0, 1], "evaluation": [1],
			"isEasy": 0, "activated": 1, "participants": 0.5
		}
	}`
	fixtureGraph = `{"0": [[2, 3]], "1": [[0, 3]], "2": []}`
)

func fixtureFS() fstest.MapFS {
	return fstest.MapFS{
		util.VocabularyFile:     {Data: []byte(fixtureVocabulary)},
		util.SubjectVectorsFile: {Data: []byte(fixtureVectors)},
		util.TagGraphFile:       {Data: []byte(fixtureGraph)},
	}
}

func TestLoad(t *testing.T) {
	tables, err := Load(context.Background(), FSSource{FS: fixtureFS()})
	require.NoError(t, err)

	assert.Equal(t, 3, tables.Vocabulary.Len(CategoryTags))
	assert.Equal(t, 3, tables.Graph.Len())

	fv, ok := tables.SubjectVector("Machine Learning")
	require.True(t, ok)
	assert.Equal(t, Indicators{1, 0, 1}, fv.Category(CategoryTags))
	assert.False(t, fv.IsEasy)
	assert.True(t, fv.Activated)
	assert.Equal(t, 0.5, fv.Participants)

	_, ok = tables.SubjectVector("Compilers")
	assert.False(t, ok)
}

func TestLoadFailsFast(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(fstest.MapFS)
		wantErr error
	}{
		{
			name:    "missing vocabulary",
			mutate:  func(m fstest.MapFS) { delete(m, util.VocabularyFile) },
			wantErr: util.ErrTableMissing,
		},
		{
			name:    "missing tag graph",
			mutate:  func(m fstest.MapFS) { delete(m, util.TagGraphFile) },
			wantErr: util.ErrTableMissing,
		},
		{
			name:    "empty vectors file",
			mutate:  func(m fstest.MapFS) { m[util.SubjectVectorsFile] = &fstest.MapFile{} },
			wantErr: util.ErrTableMissing,
		},
		{
			name: "vector length mismatch",
			mutate: func(m fstest.MapFS) {
				m[util.SubjectVectorsFile] = &fstest.MapFile{Data: []byte(`{"X": {
					"professors": [1], "assistants": [], "technologies": [0, 1],
					"tags": [1, 0, 1], "evaluation": [1],
					"isEasy": 0, "activated": 1, "participants": 0}}`)}
			},
			wantErr: util.ErrTableInconsistent,
		},
		{
			name: "non binary indicator",
			mutate: func(m fstest.MapFS) {
				m[util.SubjectVectorsFile] = &fstest.MapFile{Data: []byte(`{"X": {
					"professors": [2, 0], "assistants": [], "technologies": [0, 1],
					"tags": [1, 0, 1], "evaluation": [1],
					"isEasy": 0, "activated": 1, "participants": 0}}`)}
			},
			wantErr: util.ErrTableInconsistent,
		},
		{
			name: "bad participants bucket",
			mutate: func(m fstest.MapFS) {
				m[util.SubjectVectorsFile] = &fstest.MapFile{Data: []byte(`{"X": {
					"professors": [0, 0], "assistants": [], "technologies": [0, 1],
					"tags": [1, 0, 1], "evaluation": [1],
					"isEasy": 0, "activated": 1, "participants": 0.7}}`)}
			},
			wantErr: util.ErrTableInconsistent,
		},
		{
			name: "graph node count differs from tags",
			mutate: func(m fstest.MapFS) {
				m[util.TagGraphFile] = &fstest.MapFile{Data: []byte(`{"0": [], "1": []}`)}
			},
			wantErr: util.ErrTableInconsistent,
		},
		{
			name: "graph neighbor out of range",
			mutate: func(m fstest.MapFS) {
				m[util.TagGraphFile] = &fstest.MapFile{Data: []byte(`{"0": [[7, 1]], "1": [], "2": []}`)}
			},
			wantErr: util.ErrTableInconsistent,
		},
		{
			name: "vocabulary not json",
			mutate: func(m fstest.MapFS) {
				m[util.VocabularyFile] = &fstest.MapFile{Data: []byte(`[1, 2`)}
			},
			wantErr: util.ErrTableInconsistent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fixtureFS()
			tt.mutate(fsys)
			tables, err := Load(context.Background(), FSSource{FS: fsys})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, tables)
		})
	}
}

func TestLoadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	for name, file := range fixtureFS() {
		require.NoError(t, os.WriteFile(dir+"/"+name, file.Data, 0644))
	}

	tables, err := Load(context.Background(), FSSource{FS: os.DirFS(dir)})
	require.NoError(t, err)
	assert.Len(t, tables.SubjectVectors, 1)
}

func TestNewTablesRejectsMisalignedVectors(t *testing.T) {
	vocab, err := NewVocabulary(testTerms())
	require.NoError(t, err)
	graph, err := NewTagGraph(map[int][]Edge{0: nil, 1: nil, 2: nil}, 3)
	require.NoError(t, err)

	_, err = NewTables(vocab, map[string]FeatureVector{
		"Short": {Indicators: map[Category]Indicators{CategoryTags: {1}}},
	}, graph)
	assert.ErrorIs(t, err, util.ErrTableInconsistent)

	_, err = NewTables(vocab, nil, nil)
	assert.ErrorIs(t, err, util.ErrTableMissing)
}
