package codec

import (
	"fmt"

	"github.com/ZanzyTHEbar/mg-tokens/mgtk/lexical"
	"github.com/ZanzyTHEbar/mg-tokens/mgtk/vocab"
)

// Encode frames seq as SOS body EOS, without padding. An affixed item of n
// morphemes becomes id(w1) AFFIX id(w2) ... AFFIX id(wn).
//
// Every word must already be registered in v; callers only encode sequences
// produced against this vocabulary, so an UnknownWord error signals a
// programming error rather than bad user input.
func Encode(v *vocab.Vocabulary, seq lexical.Sequence) ([]vocab.ID, error) {
	out := make([]vocab.ID, 0, encodedLen(seq))
	out = append(out, vocab.SOS)
	for _, item := range seq {
		var err error
		out, err = AppendItem(out, v, item)
		if err != nil {
			return nil, err
		}
	}
	return append(out, vocab.EOS), nil
}

// MustEncode is Encode that panics on an unknown word.
func MustEncode(v *vocab.Vocabulary, seq lexical.Sequence) []vocab.ID {
	ids, err := Encode(v, seq)
	if err != nil {
		panic(fmt.Errorf("invalid lexical sequence for this vocabulary: %w", err))
	}
	return ids
}

// AppendItem appends the token path of one item to dst.
func AppendItem(dst []vocab.ID, v *vocab.Vocabulary, item lexical.Item) ([]vocab.ID, error) {
	for i, w := range item.Words() {
		id, ok := v.ID(w)
		if !ok || vocab.IsReserved(id) {
			return dst, &Error{Kind: UnknownWord, Pos: -1, Word: w}
		}
		if i > 0 {
			dst = append(dst, vocab.AFFIX)
		}
		dst = append(dst, id)
	}
	return dst, nil
}

// PathLen is the number of tokens an item of n morphemes occupies.
func PathLen(n int) int {
	if n <= 0 {
		return 0
	}
	return 2*n - 1
}

func encodedLen(seq lexical.Sequence) int {
	n := 2
	for _, item := range seq {
		n += PathLen(item.Len())
	}
	return n
}
