// Package metrics scores model predictions against continuation masks.
//
// Grammar F1 treats the set of legal next tokens as the target: precision is
// the probability mass a model puts on legal tokens, recall is the fraction of
// legal tokens each individually more likely than all illegal tokens together.
package metrics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var ErrShapeMismatch = errors.New("predictions and mask have different shapes")

// Scores holds one value per scored position (or per reduced group).
type Scores struct {
	Precision []float64
	Recall    []float64
	F1        []float64
}

func newScores(n int) Scores {
	return Scores{
		Precision: make([]float64, n),
		Recall:    make([]float64, n),
		F1:        make([]float64, n),
	}
}

// GrammarF1 scores positions of vocabSize log probabilities each against the
// matching legality flags. Positions with no legal token get a NaN recall,
// like 0/0 does.
func GrammarF1(preds []float64, correct []bool, vocabSize int) (Scores, error) {
	if vocabSize <= 0 || len(preds) != len(correct) || len(preds)%vocabSize != 0 {
		return Scores{}, fmt.Errorf("%w: %d predictions, %d flags, vocabulary %d", ErrShapeMismatch, len(preds), len(correct), vocabSize)
	}
	n := len(preds) / vocabSize
	out := newScores(n)

	good := make([]float64, 0, vocabSize)
	bad := make([]float64, 0, vocabSize)
	for p := 0; p < n; p++ {
		lp := preds[p*vocabSize : (p+1)*vocabSize]
		ok := correct[p*vocabSize : (p+1)*vocabSize]

		good, bad = good[:0], bad[:0]
		for i, x := range lp {
			if ok[i] {
				good = append(good, x)
			} else {
				bad = append(bad, x)
			}
		}

		precision := math.Exp(logSumExp(good))
		totalBad := logSumExp(bad)
		better := 0
		for _, x := range good {
			if x > totalBad {
				better++
			}
		}
		recall := float64(better) / float64(len(good))

		out.Precision[p] = precision
		out.Recall[p] = recall
		out.F1[p] = 2 * precision * recall / (precision + recall)
	}
	return out, nil
}

// logSumExp is floats.LogSumExp with the empty sum defined as log(0).
func logSumExp(s []float64) float64 {
	if len(s) == 0 {
		return math.Inf(-1)
	}
	return floats.LogSumExp(s)
}
