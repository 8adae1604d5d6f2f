package bow

import (
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// TermOrder is the total order over terms that every sparse vector,
// vocabulary and store of a model agree on. Merges are only correct when
// both operands were built with the same order.
type TermOrder interface {
	// Compare returns a negative number when a sorts before b, zero when
	// they are the same term and a positive number otherwise.
	Compare(a, b string) int
}

// Lexicographic orders terms by their bytes. It is the default order.
var Lexicographic TermOrder = lexicographic{}

type lexicographic struct{}

func (lexicographic) Compare(a, b string) int {
	return strings.Compare(a, b)
}

// termKeyer is implemented by orders under which distinct byte strings can
// name the same term. Key returns one spelling-independent key per term:
// Key(a) == Key(b) exactly when Compare(a, b) == 0.
type termKeyer interface {
	Key(term string) string
}

// termKey returns the key postings and other term-keyed maps use for term.
func termKey(order TermOrder, term string) string {
	if k, ok := order.(termKeyer); ok {
		return k.Key(term)
	}
	return term
}

// localeOrder orders terms with the collation rules of a language.
// A collate.Collator keeps scratch buffers between calls, so collators are
// pooled instead of shared.
type localeOrder struct {
	tag  language.Tag
	pool sync.Pool
}

type pooledCollator struct {
	c   *collate.Collator
	buf collate.Buffer
}

// NewLocaleOrder returns a TermOrder that follows the collation rules of tag.
//
// Two distinct terms that collate as equal (for example differently
// composed forms of the same word) are treated as the same term.
//
// Example:
//
//	order := NewLocaleOrder(language.German)
//	model := NewModel(WithTermOrder(order))
func NewLocaleOrder(tag language.Tag) TermOrder {
	o := &localeOrder{tag: tag}
	o.pool.New = func() interface{} {
		return &pooledCollator{c: collate.New(tag)}
	}
	return o
}

func (o *localeOrder) Compare(a, b string) int {
	pc := o.pool.Get().(*pooledCollator)
	defer o.pool.Put(pc)
	return pc.c.CompareString(a, b)
}

// Key returns the collation key of term. Terms that collate as equal share
// a key.
func (o *localeOrder) Key(term string) string {
	pc := o.pool.Get().(*pooledCollator)
	defer o.pool.Put(pc)
	pc.buf.Reset()
	return string(pc.c.KeyFromString(&pc.buf, term))
}

func (o *localeOrder) String() string {
	return "locale(" + o.tag.String() + ")"
}

func orderOrDefault(o TermOrder) TermOrder {
	if o == nil {
		return Lexicographic
	}
	return o
}
