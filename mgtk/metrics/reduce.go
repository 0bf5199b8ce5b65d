package metrics

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/mg-tokens/mgtk/mask"
	"github.com/ZanzyTHEbar/mg-tokens/mgtk/oracle"
	"github.com/ZanzyTHEbar/mg-tokens/mgtk/vocab"
)

// Reduction selects how per-position scores are aggregated.
type Reduction int

const (
	// ReductionNone keeps one score per (row, position).
	ReductionNone Reduction = iota
	// ReductionSentenceMean averages each row over its live positions.
	ReductionSentenceMean
	// ReductionLengthMean averages each position over the rows where it is live.
	ReductionLengthMean
)

func (r Reduction) String() string {
	switch r {
	case ReductionNone:
		return "none"
	case ReductionSentenceMean:
		return "sentence_mean"
	case ReductionLengthMean:
		return "length_mean"
	}
	return fmt.Sprintf("reduction(%d)", int(r))
}

// ParseReduction accepts the names returned by Reduction.String.
func ParseReduction(s string) (Reduction, error) {
	for _, r := range []Reduction{ReductionNone, ReductionSentenceMean, ReductionLengthMean} {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%q is not a valid reduction", s)
}

// Reduce aggregates scores laid out as rows x (length-1) positions. tokens is
// the rows x length input the scores were computed from; a position is live
// when its token is neither PAD nor EOS.
func Reduce(s Scores, tokens []vocab.ID, rows, length int, r Reduction) (Scores, error) {
	scored := length - 1
	if scored < 0 || len(tokens) != rows*length || len(s.F1) != rows*scored {
		return Scores{}, fmt.Errorf("%w: %d scores for %d rows of length %d", ErrShapeMismatch, len(s.F1), rows, length)
	}
	live := func(d, j int) bool {
		t := tokens[d*length+j]
		return t != vocab.PAD && t != vocab.EOS
	}

	switch r {
	case ReductionNone:
		return s, nil
	case ReductionSentenceMean:
		out := newScores(rows)
		for d := 0; d < rows; d++ {
			n := 0
			for j := 0; j < scored; j++ {
				if live(d, j) {
					n++
					i := d*scored + j
					out.Precision[d] += s.Precision[i]
					out.Recall[d] += s.Recall[i]
					out.F1[d] += s.F1[i]
				}
			}
			divide(out, d, n)
		}
		return out, nil
	case ReductionLengthMean:
		out := newScores(scored)
		for j := 0; j < scored; j++ {
			n := 0
			for d := 0; d < rows; d++ {
				if live(d, j) {
					n++
					i := d*scored + j
					out.Precision[j] += s.Precision[i]
					out.Recall[j] += s.Recall[i]
					out.F1[j] += s.F1[i]
				}
			}
			divide(out, j, n)
		}
		return out, nil
	}
	return Scores{}, fmt.Errorf("%q is not a valid reduction", r)
}

func divide(s Scores, i, n int) {
	f := float64(n)
	s.Precision[i] /= f
	s.Recall[i] /= f
	s.F1[i] /= f
}

// GrammarF1FromTokens computes the continuation mask of a (rows, L) token
// batch and scores preds against it. preds holds rows x (L-1) x V log
// probabilities: one distribution per position predicting the next token.
func GrammarF1FromTokens(ctx context.Context, e *mask.Engine, x *mask.Tensor, preds []float64, category string, cfg oracle.BeamConfig, r Reduction) (Scores, error) {
	m, err := e.Compute(ctx, x, category, cfg)
	if err != nil {
		return Scores{}, err
	}
	rows, length, v := m.Rows(), m.Len(), m.VocabSize()
	if length < 2 {
		return Scores{}, fmt.Errorf("%w: sequences of length %d have no scored positions", ErrShapeMismatch, length)
	}

	correct := make([]bool, 0, rows*(length-1)*v)
	for d := 0; d < rows; d++ {
		for j := 0; j < length-1; j++ {
			correct = append(correct, m.Position(d, j)...)
		}
	}
	s, err := GrammarF1(preds, correct, v)
	if err != nil {
		return Scores{}, err
	}
	return Reduce(s, x.Data, rows, length, r)
}
