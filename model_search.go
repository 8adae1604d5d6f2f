package bow

import (
	"cmp"
	"container/heap"
	"errors"
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring"
)

var (
	// ErrMissingDocument is returned by Execute when no query document is set.
	ErrMissingDocument = errors.New("no query document specified")

	// ErrDocumentNotFound is returned when the query document is not stored.
	ErrDocumentNotFound = errors.New("document not found")
)

// SimilaritySearch finds the documents most similar to one stored document.
//
// Only documents sharing at least one term with the query are scored: every
// other document has similarity 0 with it. Candidates come from the term
// postings of the store.
//
// Results are sorted by score, highest first; equal scores keep the order in
// which documents were first added.
type SimilaritySearch struct {
	model     *Model
	docID     string
	k         int
	threshold float64
	bounded   bool
	cutoff    int
	docIDs    []string
}

// NewSearch creates a search builder with k = 10 and no threshold.
//
// Example:
//
//	results, err := m.NewSearch().
//		WithDocument("doc1").
//		WithK(5).
//		Execute()
func (m *Model) NewSearch() *SimilaritySearch {
	return &SimilaritySearch{
		model:  m,
		k:      10,
		cutoff: -1,
	}
}

// WithDocument sets the query document.
func (s *SimilaritySearch) WithDocument(docID string) *SimilaritySearch {
	s.docID = docID
	return s
}

// WithK sets the maximum number of results. k <= 0 returns every candidate.
func (s *SimilaritySearch) WithK(k int) *SimilaritySearch {
	s.k = k
	return s
}

// WithThreshold drops results scoring below min.
func (s *SimilaritySearch) WithThreshold(min float64) *SimilaritySearch {
	s.threshold = min
	s.bounded = true
	return s
}

// WithCutoff applies Autocut to the ranked results. -1 (default) disables it.
func (s *SimilaritySearch) WithCutoff(cutoff int) *SimilaritySearch {
	s.cutoff = cutoff
	return s
}

// WithDocuments restricts the candidates to the given documents. Unknown
// identifiers are ignored; an empty list means no restriction.
func (s *SimilaritySearch) WithDocuments(docIDs ...string) *SimilaritySearch {
	s.docIDs = docIDs
	return s
}

// scored is a candidate together with its store ordinal, used to break ties.
type scored struct {
	ord uint32
	sim Similarity
}

// weaker reports whether a ranks below b.
func weaker(a, b scored) bool {
	if a.sim.Score != b.sim.Score {
		return a.sim.Score < b.sim.Score
	}
	return a.ord > b.ord
}

// resultHeap is a min-heap keeping the K best candidates: the weakest one,
// lowest score and then latest ordinal, sits at the root.
type resultHeap []scored

func (h resultHeap) Len() int           { return len(h) }
func (h resultHeap) Less(i, j int) bool { return weaker(h[i], h[j]) }
func (h resultHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *resultHeap) Push(x interface{}) {
	*h = append(*h, x.(scored))
}

func (h *resultHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// Execute runs the search.
//
// Returns:
//   - []Similarity: A is always the query document
//   - error: ErrMissingDocument or ErrDocumentNotFound
func (s *SimilaritySearch) Execute() ([]Similarity, error) {
	if s.docID == "" {
		return nil, ErrMissingDocument
	}

	m := s.model
	m.mu.RLock()
	defer m.mu.RUnlock()

	query, ok := m.store.Get(s.docID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDocumentNotFound, s.docID)
	}
	self, _ := m.store.ordinal(s.docID)

	candidates := roaring.New()
	for _, e := range query.elems {
		if bm := m.store.postingsFor(e.Term); bm != nil {
			candidates.Or(bm)
		}
	}
	candidates.Remove(self)

	filter := newDocumentFilter(m.store, s.docIDs)
	defer releaseDocumentFilter(filter)
	filter.apply(candidates)

	k := sanitizeK(s.k, int(candidates.GetCardinality()))
	h := make(resultHeap, 0, k)

	for it := candidates.Iterator(); it.HasNext(); {
		ord := it.Next()
		id := m.store.name(ord)
		vec, _ := m.store.Get(id)

		score := query.Similarity(vec)
		if s.bounded && score < s.threshold {
			continue
		}

		c := scored{ord: ord, sim: Similarity{A: s.docID, B: id, Score: score}}
		if h.Len() < k {
			heap.Push(&h, c)
		} else if h.Len() > 0 && weaker(h[0], c) {
			heap.Pop(&h)
			heap.Push(&h, c)
		}
	}

	ranked := []scored(h)
	slices.SortFunc(ranked, func(a, b scored) int {
		if c := cmp.Compare(b.sim.Score, a.sim.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ord, b.ord)
	})

	results := make([]Similarity, len(ranked))
	for i, r := range ranked {
		results[i] = r.sim
	}

	results = limitSimilarities(results, s.k)
	results = autocutSimilarities(results, s.cutoff)
	return results, nil
}
