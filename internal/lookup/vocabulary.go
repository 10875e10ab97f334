// Package lookup holds the read-only tables the recommender scores against: the
// vocabulary that fixes vector index alignment, the precomputed subject feature
// vectors and the weighted tag affinity graph. Tables are loaded once and never
// mutated afterwards.
package lookup

import (
	"fmt"
	"sort"

	"subject_recommender/internal/util"
)

// Category names one vocabulary dimension.
type Category string

const (
	CategoryProfessors   Category = "professors"
	CategoryAssistants   Category = "assistants"
	CategoryTechnologies Category = "technologies"
	CategoryTags         Category = "tags"
	CategoryEvaluation   Category = "evaluation"
)

// Categories in canonical order.
var Categories = []Category{
	CategoryProfessors,
	CategoryAssistants,
	CategoryTechnologies,
	CategoryTags,
	CategoryEvaluation,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Vocabulary maps every category to its ordered list of known terms.
type Vocabulary struct {
	terms map[Category][]string
	index map[Category]map[string]int
}

// NewVocabulary validates and freezes the given term lists. Every category must be
// present (possibly empty) and terms must be unique within a category.
func NewVocabulary(terms map[Category][]string) (*Vocabulary, error) {
	v := &Vocabulary{
		terms: make(map[Category][]string, len(Categories)),
		index: make(map[Category]map[string]int, len(Categories)),
	}

	for c := range terms {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: vocabulary: unknown category %q", util.ErrTableInconsistent, c)
		}
	}

	for _, c := range Categories {
		list, ok := terms[c]
		if !ok {
			return nil, fmt.Errorf("%w: vocabulary: missing category %q", util.ErrTableInconsistent, c)
		}
		idx := make(map[string]int, len(list))
		for i, term := range list {
			if _, dup := idx[term]; dup {
				return nil, fmt.Errorf("%w: vocabulary: duplicate %s term %q", util.ErrTableInconsistent, c, term)
			}
			idx[term] = i
		}
		v.terms[c] = append([]string(nil), list...)
		v.index[c] = idx
	}
	return v, nil
}

// Terms returns a copy of the ordered terms of a category.
func (v *Vocabulary) Terms(c Category) []string {
	return append([]string(nil), v.terms[c]...)
}

// Term returns the term at index i of a category.
func (v *Vocabulary) Term(c Category, i int) string {
	return v.terms[c][i]
}

func (v *Vocabulary) Len(c Category) int {
	return len(v.terms[c])
}

func (v *Vocabulary) IndexOf(c Category, term string) (int, bool) {
	i, ok := v.index[c][term]
	return i, ok
}

// Encode turns a set of terms into an indicator vector aligned to the vocabulary.
// Terms the vocabulary does not know are ignored.
func (v *Vocabulary) Encode(c Category, values []string) Indicators {
	out := make(Indicators, v.Len(c))
	for _, value := range values {
		if i, ok := v.index[c][value]; ok {
			out[i] = 1
		}
	}
	return out
}

// Decode returns the terms whose indicator is set.
func (v *Vocabulary) Decode(c Category, ind Indicators) []string {
	var out []string
	for i, bit := range ind {
		if bit == 1 && i < v.Len(c) {
			out = append(out, v.terms[c][i])
		}
	}
	return out
}

// Map returns the raw category → terms mapping, used when writing the table back.
func (v *Vocabulary) Map() map[Category][]string {
	out := make(map[Category][]string, len(v.terms))
	for c, list := range v.terms {
		out[c] = append([]string(nil), list...)
	}
	return out
}

func sortedDistinct(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for term := range set {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}
