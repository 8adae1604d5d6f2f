package bow

import (
	radix "github.com/armon/go-radix"
)

// Compile-time check to ensure RadixIndex implements DocumentIndex
var _ DocumentIndex = (*RadixIndex)(nil)

// DocumentIndex maps document identifiers to their vectors.
//
// The store only needs an insert-or-fetch, a delete and an in-order walk, so
// any ordered map keyed by string can back it. The traversal order of Walk
// is the order in which the store and the model report documents.
type DocumentIndex interface {
	// GetOrInsert returns the vector stored under key. When the key is absent
	// it stores create() and reports inserted = true.
	GetOrInsert(key string, create func() *SparseVector) (v *SparseVector, inserted bool)

	// Get returns the vector stored under key.
	Get(key string) (*SparseVector, bool)

	// Delete removes key and reports whether it was present.
	Delete(key string) bool

	// Walk calls fn for every entry in key order until fn returns false.
	Walk(fn func(key string, v *SparseVector) bool)

	// Len returns the number of keys.
	Len() int
}

// RadixIndex is a DocumentIndex backed by a radix prefix tree over the bytes
// of the document identifier. Walk visits keys in lexicographic byte order.
type RadixIndex struct {
	tree *radix.Tree
}

// NewRadixIndex creates an empty RadixIndex.
func NewRadixIndex() *RadixIndex {
	return &RadixIndex{tree: radix.New()}
}

func (r *RadixIndex) GetOrInsert(key string, create func() *SparseVector) (*SparseVector, bool) {
	if raw, ok := r.tree.Get(key); ok {
		return raw.(*SparseVector), false
	}
	v := create()
	r.tree.Insert(key, v)
	return v, true
}

func (r *RadixIndex) Get(key string) (*SparseVector, bool) {
	raw, ok := r.tree.Get(key)
	if !ok {
		return nil, false
	}
	return raw.(*SparseVector), true
}

func (r *RadixIndex) Delete(key string) bool {
	_, ok := r.tree.Delete(key)
	return ok
}

func (r *RadixIndex) Walk(fn func(key string, v *SparseVector) bool) {
	// radix.WalkFn stops the walk when it returns true.
	r.tree.Walk(func(key string, raw interface{}) bool {
		return !fn(key, raw.(*SparseVector))
	})
}

func (r *RadixIndex) Len() int {
	return r.tree.Len()
}

// WalkPrefix calls fn, in key order, for every document whose identifier
// starts with prefix, until fn returns false.
func (r *RadixIndex) WalkPrefix(prefix string, fn func(key string, v *SparseVector) bool) {
	r.tree.WalkPrefix(prefix, func(key string, raw interface{}) bool {
		return !fn(key, raw.(*SparseVector))
	})
}
