// Package lexical holds the linguistic-level view of a sentence: an ordered
// list of lexical items, each either a single morpheme or a word realised
// across several adjacent morphemes.
package lexical

import (
	"slices"
	"strings"
)

// Kind tags the variant held by an Item.
type Kind uint8

const (
	KindNormal Kind = iota
	KindAffixed
)

func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindAffixed:
		return "affixed"
	default:
		return "unknown"
	}
}

// Item is one lexical item. The zero value is an empty Normal item.
type Item struct {
	kind  Kind
	words []string
}

// Normal returns a single-morpheme item.
func Normal(word string) Item {
	return Item{kind: KindNormal, words: []string{word}}
}

// Affixed returns a word realised as the given morphemes, in order.
func Affixed(words ...string) Item {
	return Item{kind: KindAffixed, words: slices.Clone(words)}
}

func (i Item) Kind() Kind { return i.kind }

func (i Item) IsAffixed() bool { return i.kind == KindAffixed }

// Words returns a copy of the morphemes of the item.
func (i Item) Words() []string { return slices.Clone(i.words) }

// Len is the number of morphemes.
func (i Item) Len() int { return len(i.words) }

// Equal reports whether both items have the same variant and morphemes.
func (i Item) Equal(o Item) bool {
	return i.kind == o.kind && slices.Equal(i.words, o.words)
}

// String renders affixed items with their morphemes joined by "-".
func (i Item) String() string {
	if i.kind == KindAffixed {
		return strings.Join(i.words, "-")
	}
	if len(i.words) == 0 {
		return ""
	}
	return i.words[0]
}

// with returns a copy of an affixed item extended by word. The backing array
// is never shared with i so prefixes handed out earlier stay intact.
func (i Item) with(word string) Item {
	words := make([]string, len(i.words), len(i.words)+1)
	copy(words, i.words)
	return Item{kind: KindAffixed, words: append(words, word)}
}
