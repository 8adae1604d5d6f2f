/*
Package bow computes pairwise similarity between bag-of-words documents.

A document is a sparse vector of term frequencies. Documents are built one
(document, term, frequency) triple at a time and compared with cosine
similarity. Callers supply tokenized terms and their counts; bow does not
tokenize or normalize text.

# Quick Start

	package main

	import (
	    "fmt"

	    "github.com/wizenheimer/bow"
	)

	func main() {
	    m := bow.NewModel()
	    m.Add("doc1", "word1", 2)
	    m.Add("doc1", "word2", 2)
	    m.Add("doc2", "word1", 1)
	    m.Add("doc3", "word3", 5)

	    for _, s := range m.ComputeAllSimilarities(0) {
	        fmt.Printf("%s %s %.4f\n", s.A, s.B, s.Score)
	    }
	}

# Building Blocks

SparseVector: a term-sorted list of (term, frequency) elements. Push
accumulates, Delete removes, Get looks up. Add, Subtract and Similarity walk
two vectors with a single merge and never modify their operands.

	a := bow.NewSparseVector([]bow.Element{{"he", 2}, {"hi", 3}, {"ho", 3}})
	b := bow.NewSparseVector([]bow.Element{{"ha", 2}, {"he", 3}, {"hu", 3}})
	a.Similarity(b) // 6 / 22

VectorStore: document id -> SparseVector, backed by a DocumentIndex (a radix
prefix tree by default). It keeps the number of documents (Branches) and the
number of (document, term) entries (Leaves) in step with every Add and Delete.

Vocabulary: every term ever added. It never shrinks, even when documents are
deleted, and provides the zero vector documents are expanded against.

Model: ties the store and the vocabulary together, enumerates every document
pair with ComputeAllSimilarities and answers "most similar to" queries with
NewSearch.

# Term Order

Terms are compared with a TermOrder. Lexicographic (byte order) is the
default; NewLocaleOrder follows the collation rules of a language:

	m := bow.NewModel(bow.WithTermOrder(bow.NewLocaleOrder(language.Swedish)))

# Similar Documents

	results, err := m.NewSearch().
	    WithDocument("doc1").
	    WithK(5).
	    WithThreshold(0.1).
	    Execute()

Only documents sharing a term with the query are scored; term postings are
kept as roaring bitmaps.

# Configuration, Logging and Metrics

Config is loaded from YAML (LoadConfig) with BOW_* environment overrides and
turned into model options: term order, a zerolog logger and optional
Prometheus collectors (NewMetrics).

# Thread Safety

Model is safe for concurrent use. SparseVector, VectorStore and Vocabulary
are not; guard them yourself when sharing them outside a Model.
*/
package bow
