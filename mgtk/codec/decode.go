// Package codec converts between token id sequences and structured lexical
// sequences. Decode and Encode are strict and fail on any structural
// violation; Detokenize is the lenient display form.
package codec

import (
	"github.com/ZanzyTHEbar/mg-tokens/mgtk/lexical"
	"github.com/ZanzyTHEbar/mg-tokens/mgtk/vocab"
)

// Decode parses a fixed-length, possibly PAD-terminated id sequence of the
// form SOS body EOS PAD* into its lexical items. A reserved id inside the body
// is reported as OutOfVocabularyToken.
func Decode(v *vocab.Vocabulary, ids []vocab.ID) (lexical.Sequence, error) {
	if len(ids) == 0 {
		return nil, newError(EmptyInput, -1)
	}

	end := len(ids) - 1
	for end >= 0 && ids[end] == vocab.PAD {
		end--
	}
	if end < 0 {
		return nil, newError(EmptyInput, -1)
	}
	// The start symbol is checked first so that a sequence missing both
	// reports the leading defect.
	if ids[0] != vocab.SOS {
		return nil, newError(MissingStartSymbol, 0)
	}
	if ids[end] != vocab.EOS {
		return nil, newError(MissingEndSymbol, end)
	}

	out := lexical.Sequence{}
	var acc lexical.Accumulator
	for i := 1; i < end; i++ {
		c := ids[i]
		if c == vocab.AFFIX {
			return nil, newError(MalformedAffixRun, i)
		}
		// SOS, EOS and PAD belong to the frame only.
		if vocab.IsReserved(c) {
			return nil, &Error{Kind: OutOfVocabularyToken, Pos: i, Token: c}
		}
		w, ok := v.Word(c)
		if !ok {
			return nil, &Error{Kind: OutOfVocabularyToken, Pos: i, Token: c}
		}

		nextIsAffix := i+1 < len(ids) && ids[i+1] == vocab.AFFIX
		if nextIsAffix {
			i++
		}
		if item, done := acc.Push(w, nextIsAffix); done {
			out = append(out, item)
		}
	}

	if acc.Pending() {
		return nil, newError(MalformedAffixRun, end)
	}
	return out, nil
}
