package vector

import (
	"sort"
)

// Vocabulary is the ordered set of genre tags that defines the width of
// every feature vector. It is immutable once built.
type Vocabulary struct {
	tags  []string
	index map[string]int
}

// NewVocabulary builds a vocabulary from the given tags. Duplicates and empty
// strings are dropped and the result is sorted lexicographically.
func NewVocabulary(tags []string) Vocabulary {
	seen := make(map[string]struct{}, len(tags))
	uniq := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		uniq = append(uniq, t)
	}
	sort.Strings(uniq)

	index := make(map[string]int, len(uniq))
	for i, t := range uniq {
		index[t] = i
	}
	return Vocabulary{tags: uniq, index: index}
}

// Len returns the number of tags, i.e. the feature vector width.
func (v Vocabulary) Len() int { return len(v.tags) }

// Tags returns a copy of the ordered tags.
func (v Vocabulary) Tags() []string {
	out := make([]string, len(v.tags))
	copy(out, v.tags)
	return out
}

// Index returns the column of tag, if present.
func (v Vocabulary) Index(tag string) (int, bool) {
	i, ok := v.index[tag]
	return i, ok
}

// Contains reports whether tag is part of the vocabulary.
func (v Vocabulary) Contains(tag string) bool {
	_, ok := v.index[tag]
	return ok
}

// FeatureMatrix holds one binary row per encoded item.
type FeatureMatrix struct {
	rows [][]float32
	cols int
}

// Rows returns the number of encoded items.
func (m *FeatureMatrix) Rows() int { return len(m.rows) }

// Cols returns the vector width.
func (m *FeatureMatrix) Cols() int { return m.cols }

// Row returns the vector for item i. The slice must not be modified.
func (m *FeatureMatrix) Row(i int) []float32 { return m.rows[i] }

// Encode multi-hot encodes each tag set over vocab. Rows keep input order and
// tags outside the vocabulary are ignored; an item with no known tags gets an
// all-zero row.
func Encode(tagSets [][]string, vocab Vocabulary) *FeatureMatrix {
	m := &FeatureMatrix{
		rows: make([][]float32, len(tagSets)),
		cols: vocab.Len(),
	}
	for i, tags := range tagSets {
		row := make([]float32, vocab.Len())
		for _, t := range tags {
			if col, ok := vocab.Index(t); ok {
				row[col] = 1
			}
		}
		m.rows[i] = row
	}
	return m
}
