package bow

import (
	"iter"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Similarity is the cosine similarity of two documents.
type Similarity struct {
	A     string  // first document
	B     string  // second document
	Score float64 // cosine similarity of A and B
}

// Stats summarises the size of a model.
type Stats struct {
	Documents int // documents currently stored
	Entries   int // (document, term) entries currently stored
	Terms     int // distinct terms ever added
}

// Option configures a Model.
type Option func(*Model)

// WithTermOrder sets the order shared by every vector of the model.
// Defaults to Lexicographic.
func WithTermOrder(order TermOrder) Option {
	return func(m *Model) {
		m.order = order
	}
}

// WithDocumentIndex replaces the default RadixIndex. The index decides the
// order in which documents are reported and paired.
func WithDocumentIndex(index DocumentIndex) Option {
	return func(m *Model) {
		m.index = index
	}
}

// WithLogger sets the logger. Defaults to a disabled logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// WithMetrics makes the model report to m.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Model) {
		m.metrics = metrics
	}
}

// Model is a collection of bag-of-words documents that can score every
// document pair.
//
// Documents are built incrementally from (document, term, frequency) triples.
// The model keeps the per-document vectors in a VectorStore and every term it
// has ever seen in a Vocabulary.
//
// All methods are safe for concurrent use. Iterators returned by All,
// Entries, WithPrefix and Terms hold a read lock while they run, so the model
// must not be modified from inside the loop body.
type Model struct {
	mu sync.RWMutex

	order      TermOrder
	index      DocumentIndex
	store      *VectorStore
	vocabulary *Vocabulary

	logger  zerolog.Logger
	metrics *Metrics
}

// NewModel creates an empty model.
//
// Example:
//
//	m := NewModel()
//	m.Add("doc1", "word1", 2)
//	m.Add("doc2", "word1", 1)
//	for _, s := range m.ComputeAllSimilarities(0) {
//	    fmt.Printf("%s %s %.4f\n", s.A, s.B, s.Score)
//	}
func NewModel(opts ...Option) *Model {
	m := &Model{
		order:  Lexicographic,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.order = orderOrDefault(m.order)
	m.store = NewVectorStore(m.order, m.index)
	m.vocabulary = NewVocabulary(m.order)
	return m
}

// Add accumulates freq into term of document docID and records term in the
// vocabulary. Repeated calls for the same (docID, term) sum their
// frequencies.
func (m *Model) Add(docID, term string, freq float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store.Add(docID, term, freq)
	m.vocabulary.Add(term)
	m.metrics.observeSize(m.store, m.vocabulary)
}

// Delete removes a document and all of its entries. The document's terms stay
// in the vocabulary. Returns false when the document is unknown.
func (m *Model) Delete(docID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.store.Delete(docID) {
		return false
	}
	m.logger.Debug().
		Str("doc", docID).
		Int("documents", m.store.Branches()).
		Int("entries", m.store.Leaves()).
		Msg("document deleted")
	m.metrics.observeSize(m.store, m.vocabulary)
	return true
}

// Has reports whether docID is stored.
func (m *Model) Has(docID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.Has(docID)
}

// Get returns a copy of the vector of docID.
func (m *Model) Get(docID string) (*SparseVector, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	vec, ok := m.store.Get(docID)
	if !ok {
		return nil, false
	}
	return vec.Clone(), true
}

// Stats returns the current document, entry and term counts.
func (m *Model) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{
		Documents: m.store.Branches(),
		Entries:   m.store.Leaves(),
		Terms:     m.vocabulary.Len(),
	}
}

// All iterates over (document id, vector) pairs in document order.
// The vectors belong to the model and must not be modified.
func (m *Model) All() iter.Seq2[string, *SparseVector] {
	return func(yield func(string, *SparseVector) bool) {
		m.mu.RLock()
		defer m.mu.RUnlock()
		for doc, vec := range m.store.All() {
			if !yield(doc, vec) {
				return
			}
		}
	}
}

// WithPrefix iterates over the documents whose identifier starts with prefix.
func (m *Model) WithPrefix(prefix string) iter.Seq2[string, *SparseVector] {
	return func(yield func(string, *SparseVector) bool) {
		m.mu.RLock()
		defer m.mu.RUnlock()
		for doc, vec := range m.store.WithPrefix(prefix) {
			if !yield(doc, vec) {
				return
			}
		}
	}
}

// Entries iterates over every (document, term, frequency) triple.
func (m *Model) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		m.mu.RLock()
		defer m.mu.RUnlock()
		for e := range m.store.Entries() {
			if !yield(e) {
				return
			}
		}
	}
}

// Terms iterates over the vocabulary in term order.
func (m *Model) Terms() iter.Seq[string] {
	return func(yield func(string) bool) {
		m.mu.RLock()
		defer m.mu.RUnlock()
		for t := range m.vocabulary.All() {
			if !yield(t) {
				return
			}
		}
	}
}

// DocumentsWithTerm returns the stored documents that carry term, in the
// order they were first added.
func (m *Model) DocumentsWithTerm(term string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.DocumentsWithTerm(term)
}

// Expand returns the vector of docID aligned to the whole vocabulary: every
// vocabulary term the document lacks is present with frequency 0.
func (m *Model) Expand(docID string) (*SparseVector, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	vec, ok := m.store.Get(docID)
	if !ok {
		return nil, false
	}
	return expand(m.vocabulary.ZeroVector(), vec), true
}

// expand merges doc into the zero vector, keeping the document's frequency
// for the terms it has.
func expand(zero, doc *SparseVector) *SparseVector {
	return &SparseVector{
		elems: zero.merge(doc, func(_, freq float64) float64 { return freq }),
		order: zero.order,
	}
}

// expansionCache memoizes expanded vectors by document id for the length of
// one computation.
type expansionCache struct {
	zero     *SparseVector
	byID     map[string]*SparseVector
	computed int
}

func newExpansionCache(zero *SparseVector, size int) *expansionCache {
	return &expansionCache{
		zero: zero,
		byID: make(map[string]*SparseVector, size),
	}
}

// get returns the expansion of vec, computing it on the first call for id.
func (c *expansionCache) get(id string, vec *SparseVector) *SparseVector {
	if v, ok := c.byID[id]; ok {
		return v
	}
	v := expand(c.zero, vec)
	c.byID[id] = v
	c.computed++
	return v
}

// ComputeAllSimilarities scores every unordered pair of stored documents.
//
// Each document vector is first expanded against the vocabulary, and each
// expansion is computed once and reused for every pair the document is part
// of. For documents d0..dN-1 in document order the result is
//
//	(d0,d1) (d0,d2) ... (d0,dN-1) (d1,d2) ... (dN-2,dN-1)
//
// that is N*(N-1)/2 entries; fewer than two documents give an empty slice.
//
// numTopics is accepted for API compatibility and does not limit the output.
//
// Time Complexity: O(N² · V) for N documents and V vocabulary terms
func (m *Model) ComputeAllSimilarities(numTopics int) []Similarity {
	m.mu.RLock()
	defer m.mu.RUnlock()

	start := time.Now()
	zero := m.vocabulary.ZeroVector()

	type document struct {
		id  string
		vec *SparseVector
	}
	docs := make([]document, 0, m.store.Branches())
	for id, vec := range m.store.All() {
		docs = append(docs, document{id: id, vec: vec})
	}
	n := len(docs)

	m.logger.Debug().
		Int("documents", n).
		Int("terms", zero.Len()).
		Int("topics", numTopics).
		Msg("computing pairwise similarities")

	cache := newExpansionCache(zero, n)

	results := make([]Similarity, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		a := cache.get(docs[i].id, docs[i].vec)
		for j := i + 1; j < n; j++ {
			b := cache.get(docs[j].id, docs[j].vec)
			results = append(results, Similarity{
				A:     docs[i].id,
				B:     docs[j].id,
				Score: a.Similarity(b),
			})
		}
	}

	elapsed := time.Since(start)
	m.metrics.observeCompute(len(results), elapsed)
	m.logger.Debug().
		Int("pairs", len(results)).
		Int("expansions", cache.computed).
		Dur("duration", elapsed).
		Msg("pairwise similarities computed")

	return results
}
