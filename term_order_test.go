package bow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestLexicographicOrder(t *testing.T) {
	assert.Negative(t, Lexicographic.Compare("Banana", "apple"))
	assert.Positive(t, Lexicographic.Compare("b", "a"))
	assert.Zero(t, Lexicographic.Compare("a", "a"))
}

func TestLocaleOrder(t *testing.T) {
	order := NewLocaleOrder(language.English)

	assert.Negative(t, order.Compare("apple", "Banana"))
	assert.Positive(t, order.Compare("cherry", "Banana"))
	assert.Zero(t, order.Compare("apple", "apple"))

	v := NewSparseVector([]Element{{"cherry", 1}, {"Banana", 2}, {"apple", 3}}, WithOrder(order))
	assert.Equal(t, []string{"apple", "Banana", "cherry"}, terms(v))

	v.Push("avocado", 1)
	assert.Equal(t, []string{"apple", "avocado", "Banana", "cherry"}, terms(v))
}

func TestLocaleOrderModel(t *testing.T) {
	m := NewModel(WithTermOrder(NewLocaleOrder(language.English)))
	m.Add("d1", "Banana", 1)
	m.Add("d1", "apple", 1)
	m.Add("d2", "apple", 2)

	var got []string
	for term := range m.Terms() {
		got = append(got, term)
	}
	assert.Equal(t, []string{"apple", "Banana"}, got)

	sims := m.ComputeAllSimilarities(0)
	assert.Len(t, sims, 1)
	assert.InDelta(t, 2/(2*1.4142135623730951), sims[0].Score, 1e-9)
}

func TestTermKey(t *testing.T) {
	assert.Equal(t, "Banana", termKey(Lexicographic, "Banana"))

	order := NewLocaleOrder(language.English)
	assert.Zero(t, order.Compare(resumeComposed, resumeDecomposed))
	assert.Equal(t, termKey(order, resumeComposed), termKey(order, resumeDecomposed))
	assert.NotEqual(t, termKey(order, "apple"), termKey(order, "Banana"))
}
