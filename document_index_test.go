package bow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRadixIndexGetOrInsert(t *testing.T) {
	r := NewRadixIndex()
	calls := 0
	create := func() *SparseVector {
		calls++
		return NewSparseVector([]Element{{"w", 1}})
	}

	v1, inserted := r.GetOrInsert("doc", create)
	require.True(t, inserted)
	v2, inserted := r.GetOrInsert("doc", create)
	require.False(t, inserted)

	assert.Same(t, v1, v2)
	assert.Equal(t, 1, calls, "create runs only for new keys")
	assert.Equal(t, 1, r.Len())
}

func TestRadixIndexDelete(t *testing.T) {
	r := NewRadixIndex()
	r.GetOrInsert("doc", func() *SparseVector { return NewSparseVector(nil) })
	r.GetOrInsert("document", func() *SparseVector { return NewSparseVector(nil) })

	assert.True(t, r.Delete("doc"))
	assert.False(t, r.Delete("doc"))

	_, ok := r.Get("doc")
	assert.False(t, ok)
	_, ok = r.Get("document")
	assert.True(t, ok, "deleting a key keeps longer keys sharing its prefix")
	assert.Equal(t, 1, r.Len())
}

func TestRadixIndexWalk(t *testing.T) {
	r := NewRadixIndex()
	for _, k := range []string{"b", "abc", "a", "ab", "ba"} {
		r.GetOrInsert(k, func() *SparseVector { return NewSparseVector(nil) })
	}

	var keys []string
	r.Walk(func(key string, _ *SparseVector) bool {
		keys = append(keys, key)
		return true
	})
	assert.Equal(t, []string{"a", "ab", "abc", "b", "ba"}, keys)

	keys = keys[:0]
	r.Walk(func(key string, _ *SparseVector) bool {
		keys = append(keys, key)
		return len(keys) < 3
	})
	assert.Equal(t, []string{"a", "ab", "abc"}, keys)

	keys = keys[:0]
	r.WalkPrefix("ab", func(key string, _ *SparseVector) bool {
		keys = append(keys, key)
		return true
	})
	assert.Equal(t, []string{"ab", "abc"}, keys)
}
