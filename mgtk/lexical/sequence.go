package lexical

import "strings"

// Sequence is the structured form of one sentence.
type Sequence []Item

// Equal compares item by item.
func (s Sequence) Equal(o Sequence) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if !s[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Clone deep-copies the sequence.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	for i, it := range s {
		out[i] = Item{kind: it.kind, words: it.Words()}
	}
	return out
}

func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, it := range s {
		parts[i] = it.String()
	}
	return strings.Join(parts, " ")
}

// Extend applies one word token to a prefix under construction.
//
// With affixPending the word joins the trailing Affixed item; it returns false
// when there is no such item to join. Otherwise the word opens a new Affixed
// item when nextIsAffix, or is pushed as a Normal item.
func (s *Sequence) Extend(word string, nextIsAffix, affixPending bool) bool {
	switch {
	case affixPending:
		n := len(*s)
		if n == 0 || !(*s)[n-1].IsAffixed() {
			return false
		}
		(*s)[n-1] = (*s)[n-1].with(word)
	case nextIsAffix:
		*s = append(*s, Item{kind: KindAffixed, words: []string{word}})
	default:
		*s = append(*s, Normal(word))
	}
	return true
}
