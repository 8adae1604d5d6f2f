package bow

import (
	"iter"
	"slices"
)

// Vocabulary is the ordered set of every term ever added to a model.
//
// It only grows: deleting a document does not retract its terms. The
// vocabulary is the source of the zero vector that document vectors are
// expanded against.
type Vocabulary struct {
	terms []string
	order TermOrder
}

// NewVocabulary creates an empty vocabulary sorted by order.
func NewVocabulary(order TermOrder) *Vocabulary {
	return &Vocabulary{order: orderOrDefault(order)}
}

func (v *Vocabulary) search(term string) (int, bool) {
	return slices.BinarySearchFunc(v.terms, term, v.order.Compare)
}

// Add inserts term at its sorted position. Returns false if the term was
// already present.
func (v *Vocabulary) Add(term string) bool {
	i, found := v.search(term)
	if found {
		return false
	}
	v.terms = slices.Insert(v.terms, i, term)
	return true
}

// Has reports whether term is in the vocabulary.
func (v *Vocabulary) Has(term string) bool {
	_, found := v.search(term)
	return found
}

// Len returns the number of distinct terms.
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// All iterates over the terms in sorted order.
func (v *Vocabulary) All() iter.Seq[string] {
	return slices.Values(v.terms)
}

// ZeroVector returns a vector holding every term with frequency 0. It is
// built fresh on every call.
func (v *Vocabulary) ZeroVector() *SparseVector {
	elems := make([]Element, len(v.terms))
	for i, t := range v.terms {
		elems[i] = Element{Term: t}
	}
	return NewSparseVector(elems, Presorted(), WithOrder(v.order))
}
