package bow

import (
	"bytes"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioModel(opts ...Option) *Model {
	m := NewModel(opts...)
	m.Add("doc1", "word1", 2)
	m.Add("doc1", "word2", 2)
	m.Add("doc2", "word1", 1)
	m.Add("doc3", "word3", 5)
	return m
}

func TestModelComputeAllSimilarities(t *testing.T) {
	m := scenarioModel()

	sims := m.ComputeAllSimilarities(3)
	require.Len(t, sims, 3)

	assert.Equal(t, "doc1", sims[0].A)
	assert.Equal(t, "doc2", sims[0].B)
	assert.InDelta(t, 2/math.Sqrt(8), sims[0].Score, 1e-9)

	assert.Equal(t, Similarity{A: "doc1", B: "doc3", Score: 0}, sims[1])
	assert.Equal(t, Similarity{A: "doc2", B: "doc3", Score: 0}, sims[2])
}

func TestModelComputeAllSimilaritiesSmall(t *testing.T) {
	m := NewModel()
	sims := m.ComputeAllSimilarities(0)
	assert.NotNil(t, sims)
	assert.Empty(t, sims)

	m.Add("only", "term", 1)
	assert.Empty(t, m.ComputeAllSimilarities(0))
}

func TestModelComputeAllSimilaritiesPairCount(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))

	for _, n := range []int{2, 3, 7, 20} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			m := NewModel()
			for d := 0; d < n; d++ {
				for w := 0; w < 1+rng.IntN(4); w++ {
					m.Add(fmt.Sprintf("d%02d", d), fmt.Sprintf("w%d", rng.IntN(10)), float64(1+rng.IntN(3)))
				}
			}

			sims := m.ComputeAllSimilarities(0)
			require.Len(t, sims, n*(n-1)/2)

			k := 0
			for i := 0; i < n; i++ {
				for j := i + 1; j < n; j++ {
					assert.Equal(t, fmt.Sprintf("d%02d", i), sims[k].A)
					assert.Equal(t, fmt.Sprintf("d%02d", j), sims[k].B)
					assert.GreaterOrEqual(t, sims[k].Score, 0.0)
					assert.LessOrEqual(t, sims[k].Score, 1.0+1e-12)
					k++
				}
			}
		})
	}
}

func TestModelExpandedScoresMatchRawScores(t *testing.T) {
	m := scenarioModel()
	m.Add("doc4", "word2", 3)
	m.Add("doc4", "word3", 1)

	for _, s := range m.ComputeAllSimilarities(0) {
		a, _ := m.Get(s.A)
		b, _ := m.Get(s.B)
		assert.InDelta(t, a.Similarity(b), s.Score, 1e-9, "%s/%s", s.A, s.B)
	}
}

func TestModelExpand(t *testing.T) {
	m := scenarioModel()

	vec, ok := m.Expand("doc1")
	require.True(t, ok)
	assert.Equal(t, []Element{{"word1", 2}, {"word2", 2}, {"word3", 0}}, vec.Elements())

	_, ok = m.Expand("missing")
	assert.False(t, ok)
}

func TestModelDeleteKeepsVocabulary(t *testing.T) {
	m := scenarioModel()

	assert.True(t, m.Delete("doc3"))
	assert.False(t, m.Delete("doc3"))
	assert.False(t, m.Has("doc3"))

	assert.Equal(t, Stats{Documents: 2, Entries: 3, Terms: 3}, m.Stats())

	vec, _ := m.Expand("doc2")
	assert.Equal(t, 3, vec.Len(), "terms of deleted documents stay in the vocabulary")

	sims := m.ComputeAllSimilarities(0)
	require.Len(t, sims, 1)
	assert.InDelta(t, 2/math.Sqrt(8), sims[0].Score, 1e-9)
}

func TestModelGetReturnsCopy(t *testing.T) {
	m := scenarioModel()

	vec, ok := m.Get("doc1")
	require.True(t, ok)
	vec.Push("word9", 1)

	again, _ := m.Get("doc1")
	assert.Equal(t, 2, again.Len())

	_, ok = m.Get("nope")
	assert.False(t, ok)
}

func TestModelIterators(t *testing.T) {
	m := scenarioModel()
	m.Add("draft/1", "word1", 1)

	var docs []string
	for id := range m.All() {
		docs = append(docs, id)
	}
	assert.Equal(t, []string{"doc1", "doc2", "doc3", "draft/1"}, docs)

	docs = docs[:0]
	for id := range m.WithPrefix("doc") {
		docs = append(docs, id)
	}
	assert.Equal(t, []string{"doc1", "doc2", "doc3"}, docs)

	var terms []string
	for term := range m.Terms() {
		terms = append(terms, term)
	}
	assert.Equal(t, []string{"word1", "word2", "word3"}, terms)

	entries := 0
	for e := range m.Entries() {
		assert.Positive(t, e.Freq)
		entries++
	}
	assert.Equal(t, m.Stats().Entries, entries)

	assert.Equal(t, []string{"doc1", "doc2", "draft/1"}, m.DocumentsWithTerm("word1"))
}

func TestExpansionCache(t *testing.T) {
	vocab := NewVocabulary(nil)
	for _, term := range []string{"a", "b", "c"} {
		vocab.Add(term)
	}
	doc := NewSparseVector([]Element{{"b", 2}})
	cache := newExpansionCache(vocab.ZeroVector(), 2)

	first := cache.get("doc", doc)
	assert.Equal(t, []Element{{"a", 0}, {"b", 2}, {"c", 0}}, first.Elements())
	assert.Same(t, first, cache.get("doc", doc))
	assert.Same(t, first, cache.get("doc", NewSparseVector(nil)), "entries are keyed by document id")
	assert.Equal(t, 1, cache.computed)

	cache.get("other", doc)
	assert.Equal(t, 2, cache.computed)
}

func TestModelExpandsEachDocumentOnce(t *testing.T) {
	var buf bytes.Buffer
	m := NewModel(WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
	for d := 0; d < 6; d++ {
		m.Add(fmt.Sprintf("d%d", d), fmt.Sprintf("w%d", d%3), 1)
	}

	require.Len(t, m.ComputeAllSimilarities(0), 15)
	assert.Contains(t, buf.String(), `"expansions":6`)
}

func TestModelCustomDocumentIndex(t *testing.T) {
	m := scenarioModel(WithDocumentIndex(&sliceIndex{}))

	sims := m.ComputeAllSimilarities(0)
	require.Len(t, sims, 3)
	assert.InDelta(t, 2/math.Sqrt(8), sims[0].Score, 1e-9)
}

func TestModelLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	m := scenarioModel(WithLogger(logger))
	m.ComputeAllSimilarities(0)
	m.Delete("doc2")

	out := buf.String()
	assert.Contains(t, out, "computing pairwise similarities")
	assert.Contains(t, out, `"pairs":3`)
	assert.Contains(t, out, `"expansions":3`, "each document is expanded once")
	assert.Contains(t, out, "document deleted")
	assert.Contains(t, out, `"doc":"doc2"`)
}

func TestModelMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	m := scenarioModel(WithMetrics(metrics))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.Documents))
	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.Entries))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.Terms))

	m.ComputeAllSimilarities(0)
	m.ComputeAllSimilarities(0)
	assert.Equal(t, 6.0, testutil.ToFloat64(metrics.PairsTotal))

	m.Delete("doc1")
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Documents))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Entries))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.Terms))

	count, err := testutil.GatherAndCount(reg, "bow_compute_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestModelConcurrentAccess(t *testing.T) {
	m := NewModel()
	var wg sync.WaitGroup

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				m.Add(fmt.Sprintf("doc%d", i%10), fmt.Sprintf("term%d", w), 1)
				if i%10 == 0 {
					m.ComputeAllSimilarities(0)
				}
			}
		}(w)
	}
	wg.Wait()

	stats := m.Stats()
	assert.Equal(t, 10, stats.Documents)
	assert.Equal(t, 40, stats.Entries)
	assert.Equal(t, 4, stats.Terms)
}
