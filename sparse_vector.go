// Package bow implements bag-of-words document vectors and pairwise document
// similarity.
//
// WHAT IS A SPARSE VECTOR?
// A document is described by how often each term occurs in it. Most terms of
// a vocabulary never occur in a given document, so only the terms with
// recorded activity are stored; every other term is implicitly zero.
//
// HOW IT IS STORED:
// A SparseVector keeps its (term, frequency) elements in a slice that is
// strictly increasing by term under a TermOrder. Sortedness turns every
// binary operation into a single two-cursor merge:
//
//	a: [he:2] [hi:3] [ho:3]
//	b: [ha:2] [he:3]        [hu:3]
//	   ------------------------------
//	   ha only in b, he in both, hi/ho only in a, hu only in b
//
// TIME COMPLEXITY:
//   - Push, Delete: O(log n) search + O(n) shift
//   - Get: O(log n)
//   - Add, Subtract, Similarity: O(n + m)
//
// GUARANTEES:
//   - Elements are unique by term and sorted after every mutation
//   - Add, Subtract and Similarity never mutate their operands
package bow

import (
	"iter"
	"math"
	"slices"
)

// NewTerm is returned by Push when the term was not present before the call.
const NewTerm = -1

// Element is a single term-frequency pair of a sparse vector.
type Element struct {
	Term string
	Freq float64
}

// SparseVector is an ordered set of term frequencies.
//
// A SparseVector is not safe for concurrent mutation. Vectors handed out by a
// VectorStore or Model belong to them and must be treated as read-only.
type SparseVector struct {
	elems []Element
	order TermOrder
}

// VectorOption configures NewSparseVector.
type VectorOption func(*vectorOptions)

type vectorOptions struct {
	order     TermOrder
	presorted bool
}

// WithOrder sets the term order of the vector. Defaults to Lexicographic.
func WithOrder(order TermOrder) VectorOption {
	return func(o *vectorOptions) {
		o.order = order
	}
}

// Presorted marks the input as already sorted and free of duplicate terms.
// Sorting is skipped; the caller is trusted.
func Presorted() VectorOption {
	return func(o *vectorOptions) {
		o.presorted = true
	}
}

// NewSparseVector creates a vector from elems. The vector takes ownership of
// the slice.
//
// Unless Presorted is given, elements are sorted by term and repeated terms
// are collapsed into one element holding the sum of their frequencies.
//
// Example:
//
//	v := NewSparseVector([]Element{{"hi", 3}, {"he", 2}, {"ho", 3}})
//	v.Get("he") // 2, true
func NewSparseVector(elems []Element, opts ...VectorOption) *SparseVector {
	o := vectorOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	v := &SparseVector{
		elems: elems,
		order: orderOrDefault(o.order),
	}
	if !o.presorted {
		v.elems = sortElements(v.order, elems)
	}
	return v
}

// sortElements sorts elems in place and folds repeated terms together.
func sortElements(order TermOrder, elems []Element) []Element {
	slices.SortStableFunc(elems, func(a, b Element) int {
		return order.Compare(a.Term, b.Term)
	})

	out := elems[:0]
	for _, e := range elems {
		if n := len(out); n > 0 && order.Compare(out[n-1].Term, e.Term) == 0 {
			out[n-1].Freq += e.Freq
			continue
		}
		out = append(out, e)
	}
	return out
}

// Len returns the number of distinct terms in the vector.
func (v *SparseVector) Len() int {
	if v == nil {
		return 0
	}
	return len(v.elems)
}

// Order returns the term order the vector is sorted by.
func (v *SparseVector) Order() TermOrder {
	if v == nil {
		return Lexicographic
	}
	return v.order
}

// Elements returns a copy of the elements in term order.
func (v *SparseVector) Elements() []Element {
	if v == nil {
		return nil
	}
	return slices.Clone(v.elems)
}

// All iterates over (term, frequency) pairs in term order.
func (v *SparseVector) All() iter.Seq2[string, float64] {
	return func(yield func(string, float64) bool) {
		if v == nil {
			return
		}
		for _, e := range v.elems {
			if !yield(e.Term, e.Freq) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the vector.
func (v *SparseVector) Clone() *SparseVector {
	if v == nil {
		return nil
	}
	return &SparseVector{elems: slices.Clone(v.elems), order: v.order}
}

// Equal reports whether both vectors hold the same terms with the same
// frequencies.
func (v *SparseVector) Equal(other *SparseVector) bool {
	if v.Len() != other.Len() {
		return false
	}
	for i := 0; i < v.Len(); i++ {
		a, b := v.elems[i], other.elems[i]
		if v.order.Compare(a.Term, b.Term) != 0 || a.Freq != b.Freq {
			return false
		}
	}
	return true
}

func (v *SparseVector) search(term string) (int, bool) {
	return slices.BinarySearchFunc(v.elems, term, func(e Element, t string) int {
		return v.order.Compare(e.Term, t)
	})
}

// Push adds freq to term.
//
// If the term is already present its frequency is accumulated in place and
// the index of the existing element is returned. Otherwise a new element is
// inserted at its sorted position and NewTerm is returned.
//
// Example:
//
//	if v.Push("fox", 1) == NewTerm {
//	    distinct++
//	}
func (v *SparseVector) Push(term string, freq float64) int {
	i, found := v.search(term)
	if found {
		v.elems[i].Freq += freq
		return i
	}
	v.elems = slices.Insert(v.elems, i, Element{Term: term, Freq: freq})
	return NewTerm
}

// Delete removes term from the vector. Deleting an absent term is a no-op.
// Returns true if an element was removed.
func (v *SparseVector) Delete(term string) bool {
	i, found := v.search(term)
	if !found {
		return false
	}
	v.elems = slices.Delete(v.elems, i, i+1)
	return true
}

// Get returns the frequency of term. The second result is false when the
// term is not tracked by the vector; a stored frequency of 0 is reported as
// (0, true).
func (v *SparseVector) Get(term string) (float64, bool) {
	if v == nil {
		return 0, false
	}
	i, found := v.search(term)
	if !found {
		return 0, false
	}
	return v.elems[i].Freq, true
}

// Add returns the element-wise sum of v and other.
//
// If either vector is empty the other one is returned as is, not copied.
// Callers must not mutate the result in place when that may alias an input.
func (v *SparseVector) Add(other *SparseVector) *SparseVector {
	if v.Len() == 0 {
		return other
	}
	if other.Len() == 0 {
		return v
	}
	return &SparseVector{
		elems: v.merge(other, func(a, b float64) float64 { return a + b }),
		order: v.order,
	}
}

// Subtract returns v minus other for the terms both vectors share. Terms
// present on one side only are carried into the result unchanged.
//
// If either vector is empty the other one is returned as is, not copied.
// Callers must not mutate the result in place when that may alias an input.
func (v *SparseVector) Subtract(other *SparseVector) *SparseVector {
	if v.Len() == 0 {
		return other
	}
	if other.Len() == 0 {
		return v
	}
	return &SparseVector{
		elems: v.merge(other, func(a, b float64) float64 { return a - b }),
		order: v.order,
	}
}

// merge walks both element slices with two cursors. A term found on one side
// only is emitted unchanged; a shared term is emitted with combine applied to
// (v's frequency, other's frequency).
func (v *SparseVector) merge(other *SparseVector, combine func(a, b float64) float64) []Element {
	a, b := v.elems, other.elems
	out := make([]Element, 0, max(len(a), len(b)))

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch c := v.order.Compare(a[i].Term, b[j].Term); {
		case c < 0:
			out = append(out, a[i])
			i++
		case c > 0:
			out = append(out, b[j])
			j++
		default:
			out = append(out, Element{Term: a[i].Term, Freq: combine(a[i].Freq, b[j].Freq)})
			i++
			j++
		}
	}

	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// Similarity returns the cosine similarity of v and other.
//
// Absent terms count as zero, so vectors do not need to be aligned first.
// The result is 0 when either vector is empty or has zero magnitude.
// For non-negative frequencies it lies in [0, 1].
//
// Time Complexity: O(n + m)
func (v *SparseVector) Similarity(other *SparseVector) float64 {
	if v.Len() == 0 || other.Len() == 0 {
		return 0
	}

	a, b := v.elems, other.elems
	var dot, magA, magB float64

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch c := v.order.Compare(a[i].Term, b[j].Term); {
		case c < 0:
			magA += a[i].Freq * a[i].Freq
			i++
		case c > 0:
			magB += b[j].Freq * b[j].Freq
			j++
		default:
			magA += a[i].Freq * a[i].Freq
			magB += b[j].Freq * b[j].Freq
			dot += a[i].Freq * b[j].Freq
			i++
			j++
		}
	}

	for ; i < len(a); i++ {
		magA += a[i].Freq * a[i].Freq
	}
	for ; j < len(b); j++ {
		magB += b[j].Freq * b[j].Freq
	}

	denom := math.Sqrt(magA) * math.Sqrt(magB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}
