package bow

import (
	"sync"

	"github.com/RoaringBitmap/roaring"
)

// documentFilter restricts a search to a set of documents. It holds the
// store ordinals of the eligible documents in a roaring bitmap.
type documentFilter struct {
	bitmap *roaring.Bitmap
}

// documentFilterPool is a sync.Pool for documentFilter to reduce allocations
var documentFilterPool = sync.Pool{
	New: func() interface{} {
		return &documentFilter{
			bitmap: roaring.New(),
		}
	},
}

// newDocumentFilter builds a filter from document identifiers. Identifiers
// the store does not know are ignored. An empty list returns nil, which lets
// every document through.
//
// Must be called with the owning model's lock held.
func newDocumentFilter(store *VectorStore, docIDs []string) *documentFilter {
	if len(docIDs) == 0 {
		return nil
	}

	filter := documentFilterPool.Get().(*documentFilter)
	filter.bitmap.Clear()

	for _, id := range docIDs {
		if ord, ok := store.ordinal(id); ok {
			filter.bitmap.Add(ord)
		}
	}
	return filter
}

// releaseDocumentFilter returns a filter to the pool. The filter must not be
// used afterwards.
func releaseDocumentFilter(filter *documentFilter) {
	if filter != nil {
		documentFilterPool.Put(filter)
	}
}

// apply narrows candidates in place to the eligible documents.
func (f *documentFilter) apply(candidates *roaring.Bitmap) {
	if f == nil {
		return
	}
	candidates.And(f.bitmap)
}
