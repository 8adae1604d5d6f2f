package bow

import (
	"iter"
	"strings"

	"github.com/RoaringBitmap/roaring"
)

// prefixWalker is implemented by document indexes that can visit a key
// prefix without scanning every key.
type prefixWalker interface {
	WalkPrefix(prefix string, fn func(key string, v *SparseVector) bool)
}

// Entry is a single (document, term, frequency) triple of a store.
type Entry struct {
	Doc  string
	Term string
	Freq float64
}

// VectorStore maps document identifiers to sparse vectors.
//
// It maintains two counters that always agree with the stored data:
//   - branches: number of documents
//   - leaves: number of (document, term) entries across all documents
//
// Besides the vectors it keeps an inverted index from term to the documents
// that carry it. Every document gets a stable uint32 ordinal when it is first
// added and postings are roaring bitmaps of those ordinals.
//
// A VectorStore is not safe for concurrent use; Model serialises access.
type VectorStore struct {
	index DocumentIndex
	order TermOrder

	branches int
	leaves   int

	// term key -> ordinals of live documents with that term
	postings map[string]*roaring.Bitmap
	// document id -> ordinal and back
	ordinals    map[string]uint32
	names       map[uint32]string
	nextOrdinal uint32
}

// NewVectorStore creates an empty store. A nil order selects Lexicographic
// and a nil index selects a RadixIndex.
func NewVectorStore(order TermOrder, index DocumentIndex) *VectorStore {
	if index == nil {
		index = NewRadixIndex()
	}
	return &VectorStore{
		index:    index,
		order:    orderOrDefault(order),
		postings: make(map[string]*roaring.Bitmap),
		ordinals: make(map[string]uint32),
		names:    make(map[uint32]string),
	}
}

// Add accumulates freq into term of document docID, creating the document
// when it is new.
//
// Counter updates:
//   - new document: branches and leaves grow by one
//   - new term of an existing document: leaves grows by one
//   - existing term: counters are unchanged
func (s *VectorStore) Add(docID, term string, freq float64) {
	vec, inserted := s.index.GetOrInsert(docID, func() *SparseVector {
		return NewSparseVector([]Element{{Term: term, Freq: freq}}, Presorted(), WithOrder(s.order))
	})

	if inserted {
		s.branches++
		s.leaves++
		ord := s.nextOrdinal
		s.nextOrdinal++
		s.ordinals[docID] = ord
		s.names[ord] = docID
		s.post(term, ord)
		return
	}

	if vec.Push(term, freq) == NewTerm {
		s.leaves++
		s.post(term, s.ordinals[docID])
	}
}

func (s *VectorStore) post(term string, ord uint32) {
	key := termKey(s.order, term)
	bm := s.postings[key]
	if bm == nil {
		bm = roaring.New()
		s.postings[key] = bm
	}
	bm.Add(ord)
}

// Delete removes a document and all of its entries. Returns false, and
// changes nothing, when the document is unknown.
func (s *VectorStore) Delete(docID string) bool {
	vec, ok := s.index.Get(docID)
	if !ok {
		return false
	}

	ord := s.ordinals[docID]
	for _, e := range vec.elems {
		key := termKey(s.order, e.Term)
		if bm := s.postings[key]; bm != nil {
			bm.Remove(ord)
			if bm.IsEmpty() {
				delete(s.postings, key)
			}
		}
	}

	s.branches--
	s.leaves -= vec.Len()
	s.index.Delete(docID)
	delete(s.ordinals, docID)
	delete(s.names, ord)
	return true
}

// Has reports whether docID is stored.
func (s *VectorStore) Has(docID string) bool {
	_, ok := s.index.Get(docID)
	return ok
}

// Get returns the vector of docID. The vector is owned by the store.
func (s *VectorStore) Get(docID string) (*SparseVector, bool) {
	return s.index.Get(docID)
}

// Branches returns the number of stored documents.
func (s *VectorStore) Branches() int {
	return s.branches
}

// Leaves returns the total number of (document, term) entries.
func (s *VectorStore) Leaves() int {
	return s.leaves
}

// All iterates over (document id, vector) pairs in index order. Each call
// starts a fresh traversal.
func (s *VectorStore) All() iter.Seq2[string, *SparseVector] {
	return func(yield func(string, *SparseVector) bool) {
		s.index.Walk(yield)
	}
}

// WithPrefix iterates, in index order, over the documents whose identifier
// starts with prefix.
func (s *VectorStore) WithPrefix(prefix string) iter.Seq2[string, *SparseVector] {
	return func(yield func(string, *SparseVector) bool) {
		if pw, ok := s.index.(prefixWalker); ok {
			pw.WalkPrefix(prefix, yield)
			return
		}
		s.index.Walk(func(key string, v *SparseVector) bool {
			if !strings.HasPrefix(key, prefix) {
				return true
			}
			return yield(key, v)
		})
	}
}

// Entries iterates over every (document, term, frequency) triple, documents
// in index order and terms in term order.
func (s *VectorStore) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for doc, vec := range s.All() {
			for _, e := range vec.elems {
				if !yield(Entry{Doc: doc, Term: e.Term, Freq: e.Freq}) {
					return
				}
			}
		}
	}
}

// postingsFor returns the ordinals of live documents carrying term, or nil.
// Any spelling the term order treats as term finds the same postings.
func (s *VectorStore) postingsFor(term string) *roaring.Bitmap {
	return s.postings[termKey(s.order, term)]
}

// DocumentsWithTerm returns the documents that carry term, in the order they
// were first added.
func (s *VectorStore) DocumentsWithTerm(term string) []string {
	bm := s.postingsFor(term)
	if bm == nil {
		return nil
	}
	docs := make([]string, 0, bm.GetCardinality())
	for it := bm.Iterator(); it.HasNext(); {
		docs = append(docs, s.names[it.Next()])
	}
	return docs
}

func (s *VectorStore) ordinal(docID string) (uint32, bool) {
	ord, ok := s.ordinals[docID]
	return ord, ok
}

func (s *VectorStore) name(ord uint32) string {
	return s.names[ord]
}
