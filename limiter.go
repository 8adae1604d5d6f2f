package bow

// sanitizeK clamps k to [1, maxResults]. Values <= 0 mean "everything".
//
// Usage:
//
//	k := sanitizeK(requestedK, len(results))
//	return results[:k]
func sanitizeK(k, maxResults int) int {
	if k <= 0 || k > maxResults {
		return maxResults
	}
	return k
}

// limitSimilarities keeps at most k results.
func limitSimilarities(results []Similarity, k int) []Similarity {
	return results[:sanitizeK(k, len(results))]
}

// autocutSimilarities cuts results, which must be sorted by score, at the
// natural break found by Autocut. A cutoff of -1 disables the cut.
func autocutSimilarities(results []Similarity, cutoff int) []Similarity {
	if cutoff == -1 || len(results) == 0 {
		return results
	}
	scores := make([]float64, len(results))
	for i, r := range results {
		scores[i] = r.Score
	}
	return results[:Autocut(scores, cutoff)]
}

// Autocut finds a cutoff point in a sorted score series.
//
// Scores are rescaled to [0, 1] between the first and the last value and
// compared to a straight line from the first to the last point. Every local
// maximum of the difference is an extremum; the index of the cutOff-th
// extremum is returned, or len(scores) when there are fewer.
//
// Parameters:
//   - scores: scores sorted ascending or descending
//   - cutOff: number of extrema to pass before cutting
//
// Returns the number of results to keep.
func Autocut(scores []float64, cutOff int) int {
	n := len(scores)
	if n <= 1 {
		return n
	}

	first, last := scores[0], scores[n-1]
	if first == last {
		return n
	}

	diff := make([]float64, n)
	step := 1 / float64(n-1)
	for i, y := range scores {
		diff[i] = (y-first)/(last-first) - float64(i)*step
	}

	extrema := 0
	for i := 1; i < n; i++ {
		var peak bool
		if i == n-1 {
			peak = n > 2 && diff[i] > diff[i-1] && diff[i] > diff[i-2]
		} else {
			peak = diff[i] > diff[i-1] && diff[i] > diff[i+1]
		}
		if !peak {
			continue
		}
		extrema++
		if extrema >= cutOff {
			return i
		}
	}
	return n
}
