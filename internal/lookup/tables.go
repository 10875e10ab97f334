package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"subject_recommender/internal/util"

	"github.com/goccy/go-json"
)

// Tables bundles the three lookup tables. It is immutable once built and safe to
// share between goroutines.
type Tables struct {
	Vocabulary     *Vocabulary
	SubjectVectors map[string]FeatureVector
	Graph          *TagGraph
}

// NewTables checks that the tables agree with each other.
func NewTables(vocab *Vocabulary, vectors map[string]FeatureVector, graph *TagGraph) (*Tables, error) {
	if vocab == nil || graph == nil {
		return nil, fmt.Errorf("%w: vocabulary and tag graph are required", util.ErrTableMissing)
	}
	if graph.Len() != vocab.Len(CategoryTags) {
		return nil, fmt.Errorf("%w: tag graph has %d nodes, vocabulary has %d tags",
			util.ErrTableInconsistent, graph.Len(), vocab.Len(CategoryTags))
	}
	for name, fv := range vectors {
		for _, c := range Categories {
			if len(fv.Indicators[c]) != vocab.Len(c) {
				return nil, fmt.Errorf("%w: subject %q: %s vector has length %d, vocabulary has %d",
					util.ErrTableInconsistent, name, c, len(fv.Indicators[c]), vocab.Len(c))
			}
		}
	}
	return &Tables{Vocabulary: vocab, SubjectVectors: vectors, Graph: graph}, nil
}

// SubjectVector looks up the precomputed vector of a subject by name.
func (t *Tables) SubjectVector(name string) (FeatureVector, bool) {
	fv, ok := t.SubjectVectors[name]
	return fv, ok
}

// Source opens a named table file.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// FSSource serves tables from an fs.FS, e.g. os.DirFS(dir).
type FSSource struct {
	FS fs.FS
}

func (s FSSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return s.FS.Open(name)
}

// Load reads and cross-validates the three tables. Any problem is returned as
// util.ErrTableMissing or util.ErrTableInconsistent; callers treat both as fatal.
func Load(ctx context.Context, src Source) (*Tables, error) {
	vocabData, err := readTable(ctx, src, util.VocabularyFile)
	if err != nil {
		return nil, err
	}
	vectorData, err := readTable(ctx, src, util.SubjectVectorsFile)
	if err != nil {
		return nil, err
	}
	graphData, err := readTable(ctx, src, util.TagGraphFile)
	if err != nil {
		return nil, err
	}

	var rawVocab map[Category][]string
	if err := json.Unmarshal(vocabData, &rawVocab); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", util.ErrTableInconsistent, util.VocabularyFile, err)
	}
	vocab, err := NewVocabulary(rawVocab)
	if err != nil {
		return nil, err
	}

	var records map[string]subjectVectorRecord
	if err := json.Unmarshal(vectorData, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", util.ErrTableInconsistent, util.SubjectVectorsFile, err)
	}
	vectors := make(map[string]FeatureVector, len(records))
	for name, rec := range records {
		fv, err := rec.toFeatureVector(name, vocab)
		if err != nil {
			return nil, err
		}
		vectors[name] = fv
	}

	adj, err := parseTagGraph(graphData)
	if err != nil {
		return nil, err
	}
	graph, err := NewTagGraph(adj, vocab.Len(CategoryTags))
	if err != nil {
		return nil, err
	}

	return NewTables(vocab, vectors, graph)
}

func readTable(ctx context.Context, src Source, name string) ([]byte, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", util.ErrTableMissing, name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %v", util.ErrTableMissing, name, err)
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", util.ErrTableMissing, name)
	}
	return data, nil
}
