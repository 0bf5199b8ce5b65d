// Package textenc turns raw space-separated sentences into lexical sequences
// using a sugarme/tokenizer WordPiece model built over a vocabulary.
package textenc

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	tk "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/model/wordpiece"
	"github.com/sugarme/tokenizer/pretokenizer"

	"github.com/ZanzyTHEbar/mg-tokens/mgtk/codec"
	"github.com/ZanzyTHEbar/mg-tokens/mgtk/lexical"
	"github.com/ZanzyTHEbar/mg-tokens/mgtk/vocab"
)

// VocabFileName is the file written next to the model.
const VocabFileName = "vocab.txt"

// WordPieceEncoder splits sentences on whitespace and punctuation and resolves
// every piece to a whole vocabulary word. It sees the vocabulary as it was
// when the encoder was built.
type WordPieceEncoder struct {
	t     *tk.Tokenizer
	vocab *vocab.Vocabulary
	unkID int
}

// NewWordPieceEncoder writes v to dir/vocab.txt in id order, followed by the
// unknown marker, and loads it as a WordPiece model.
func NewWordPieceEncoder(v *vocab.Vocabulary, dir string) (*WordPieceEncoder, error) {
	path := filepath.Join(dir, VocabFileName)
	words := v.Words()
	if err := writeVocabFile(path, words); err != nil {
		return nil, fmt.Errorf("failed to write vocab file %s: %w", path, err)
	}

	wp, err := wordpiece.NewWordPieceFromFile(path, vocab.OOVToken)
	if err != nil {
		return nil, fmt.Errorf("failed to load wordpiece model: %w", err)
	}
	t := tk.NewTokenizer(wp)
	t.WithPreTokenizer(pretokenizer.NewBertPreTokenizer())

	return &WordPieceEncoder{t: t, vocab: v, unkID: len(words)}, nil
}

// Encode returns the sentence as Normal items. A piece that is not a
// vocabulary word fails with codec.ErrUnknownWord.
func (e *WordPieceEncoder) Encode(sentence string) (lexical.Sequence, error) {
	enc, err := e.t.Encode(tk.NewSingleEncodeInput(tk.NewInputSequence(sentence)), false)
	if err != nil {
		return nil, err
	}
	ids := enc.GetIds()
	tokens := enc.GetTokens()

	out := make(lexical.Sequence, 0, len(ids))
	for i, id := range ids {
		if id == e.unkID || id < vocab.NumReserved {
			word := vocab.OOVToken
			if i < len(tokens) {
				word = tokens[i]
			}
			return nil, &codec.Error{Kind: codec.UnknownWord, Pos: i, Word: word}
		}
		w, ok := e.vocab.Word(vocab.ID(id))
		if !ok {
			return nil, &codec.Error{Kind: codec.UnknownWord, Pos: i, Word: tokens[i]}
		}
		out = append(out, lexical.Normal(w))
	}
	return out, nil
}

// EncodeIDs is Encode followed by codec.Encode.
func (e *WordPieceEncoder) EncodeIDs(sentence string) ([]vocab.ID, error) {
	seq, err := e.Encode(sentence)
	if err != nil {
		return nil, err
	}
	return codec.Encode(e.vocab, seq)
}

func writeVocabFile(path string, words []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, word := range words {
		if _, err := w.WriteString(word + "\n"); err != nil {
			f.Close()
			return err
		}
	}
	if _, err := w.WriteString(vocab.OOVToken + "\n"); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
