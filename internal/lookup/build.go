package lookup

import (
	"fmt"
	"os"
	"path/filepath"

	"subject_recommender/internal/model"
	"subject_recommender/internal/util"

	"github.com/goccy/go-json"
)

// TagEdge is a named, directed edge of the tag affinity graph.
type TagEdge struct {
	From   string  `yaml:"from" json:"from"`
	To     string  `yaml:"to" json:"to"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// BuildVocabulary collects the sorted distinct terms of every category across the
// catalog. Subjects without info are ignored.
func BuildVocabulary(subjects []model.Subject) *Vocabulary {
	sets := make(map[Category]map[string]struct{}, len(Categories))
	for _, c := range Categories {
		sets[c] = make(map[string]struct{})
	}
	for _, s := range subjects {
		if s.Info == nil {
			continue
		}
		for _, c := range Categories {
			for _, term := range s.Info.Attributes(string(c)) {
				if term != "" {
					sets[c][term] = struct{}{}
				}
			}
		}
	}

	terms := make(map[Category][]string, len(Categories))
	for c, set := range sets {
		terms[c] = sortedDistinct(set)
	}
	// distinct sorted terms from a fixed category list cannot fail validation
	vocab, _ := NewVocabulary(terms)
	return vocab
}

// BuildSubjectVector encodes one subject's info against the vocabulary.
func BuildSubjectVector(vocab *Vocabulary, info *model.SubjectInfo) FeatureVector {
	fv := FeatureVector{Indicators: make(map[Category]Indicators, len(Categories))}
	for _, c := range Categories {
		fv.Indicators[c] = vocab.Encode(c, info.Attributes(string(c)))
	}
	fv.IsEasy = info.IsEasy
	fv.Activated = info.Activated
	fv.Participants = ParticipantBucket(info.AverageParticipants())
	return fv
}

// BuildSubjectVectors encodes every subject that has info, keyed by subject name.
func BuildSubjectVectors(vocab *Vocabulary, subjects []model.Subject) map[string]FeatureVector {
	out := make(map[string]FeatureVector, len(subjects))
	for _, s := range subjects {
		if s.Info == nil || s.Name == "" {
			continue
		}
		out[s.Name] = BuildSubjectVector(vocab, s.Info)
	}
	return out
}

// MissingVectors lists catalog subjects that have info but no precomputed vector.
// Such subjects can pass eligibility yet never be scored.
func (t *Tables) MissingVectors(subjects []model.Subject) []string {
	missing := []string{}
	for _, s := range subjects {
		if s.Info == nil || s.Name == "" {
			continue
		}
		if _, ok := t.SubjectVectors[s.Name]; !ok {
			missing = append(missing, s.Name)
		}
	}
	return missing
}

// BuildTagGraph turns named edges into an index graph over the vocabulary's tags.
// Edges that mention a tag unknown to the vocabulary are returned as skipped.
func BuildTagGraph(vocab *Vocabulary, edges []TagEdge) (*TagGraph, []TagEdge, error) {
	size := vocab.Len(CategoryTags)
	adj := make(map[int][]Edge, size)
	for i := 0; i < size; i++ {
		adj[i] = nil
	}

	var skipped []TagEdge
	for _, e := range edges {
		from, okFrom := vocab.IndexOf(CategoryTags, e.From)
		to, okTo := vocab.IndexOf(CategoryTags, e.To)
		if !okFrom || !okTo {
			skipped = append(skipped, e)
			continue
		}
		adj[from] = append(adj[from], Edge{To: to, Weight: e.Weight})
	}

	g, err := NewTagGraph(adj, size)
	if err != nil {
		return nil, skipped, err
	}
	return g, skipped, nil
}

// Write stores the three tables as JSON files in dir.
func Write(dir string, t *Tables) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	records := make(map[string]subjectVectorRecord, len(t.SubjectVectors))
	for name, fv := range t.SubjectVectors {
		records[name] = recordFromFeatureVector(fv)
	}

	files := map[string]interface{}{
		util.VocabularyFile:     t.Vocabulary.Map(),
		util.SubjectVectorsFile: records,
		util.TagGraphFile:       t.Graph,
	}
	for name, v := range files {
		data, err := json.MarshalIndent(v, "", "    ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			return err
		}
	}
	return nil
}
