package codec

import (
	"fmt"

	"github.com/ZanzyTHEbar/mg-tokens/mgtk/vocab"
)

// Detokenize maps ids to their display strings. Unknown ids become
// vocab.OOVToken; it never fails.
func Detokenize(v *vocab.Vocabulary, ids []vocab.ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = v.WordOrOOV(id)
	}
	return out
}

// DetokenizeBatch applies Detokenize to every row.
func DetokenizeBatch(v *vocab.Vocabulary, batch [][]vocab.ID) [][]string {
	out := make([][]string, len(batch))
	for i, row := range batch {
		out[i] = Detokenize(v, row)
	}
	return out
}

// Pad right-pads ids with PAD up to length.
func Pad(ids []vocab.ID, length int) ([]vocab.ID, error) {
	if len(ids) > length {
		return nil, fmt.Errorf("sequence of %d tokens does not fit length %d", len(ids), length)
	}
	out := make([]vocab.ID, length)
	copy(out, ids)
	for i := len(ids); i < length; i++ {
		out[i] = vocab.PAD
	}
	return out, nil
}

// PadBatch pads every row to the longest one and returns the rows as one
// row-major buffer together with its (rows, length) shape.
func PadBatch(rows [][]vocab.ID) ([]vocab.ID, []int) {
	length := 0
	for _, r := range rows {
		length = max(length, len(r))
	}
	data := make([]vocab.ID, 0, len(rows)*length)
	for _, r := range rows {
		data = append(data, r...)
		for i := len(r); i < length; i++ {
			data = append(data, vocab.PAD)
		}
	}
	return data, []int{len(rows), length}
}
