package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/ZanzyTHEbar/mg-tokens/mgtk/lexical"
	"github.com/ZanzyTHEbar/mg-tokens/mgtk/mask"
	"github.com/ZanzyTHEbar/mg-tokens/mgtk/oracle"
	"github.com/ZanzyTHEbar/mg-tokens/mgtk/vocab"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logs(ps ...float64) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = math.Log(p)
	}
	return out
}

func TestGrammarF1(t *testing.T) {
	t.Run("Single position", func(t *testing.T) {
		s, err := GrammarF1(logs(0.5, 0.3, 0.2), []bool{true, false, true}, 3)
		require.NoError(t, err)
		assert.InDelta(t, 0.7, s.Precision[0], 1e-9)
		assert.InDelta(t, 0.5, s.Recall[0], 1e-9)
		assert.InDelta(t, 2*0.7*0.5/1.2, s.F1[0], 1e-9)
	})

	t.Run("Everything legal", func(t *testing.T) {
		s, err := GrammarF1(logs(0.5, 0.5), []bool{true, true}, 2)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, s.Precision[0], 1e-9)
		assert.InDelta(t, 1.0, s.Recall[0], 1e-9)
	})

	t.Run("Nothing legal", func(t *testing.T) {
		s, err := GrammarF1(logs(0.5, 0.5), []bool{false, false}, 2)
		require.NoError(t, err)
		assert.Zero(t, s.Precision[0])
		assert.True(t, math.IsNaN(s.Recall[0]))
	})

	t.Run("Shape mismatch", func(t *testing.T) {
		_, err := GrammarF1(logs(0.5, 0.5), []bool{true}, 2)
		assert.ErrorIs(t, err, ErrShapeMismatch)
		_, err = GrammarF1(logs(0.5, 0.5, 0.1), []bool{true, true, true}, 2)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})
}

func TestReduce(t *testing.T) {
	tokens := []vocab.ID{
		vocab.SOS, 4, vocab.EOS,
		vocab.SOS, vocab.EOS, vocab.PAD,
	}
	s := Scores{
		Precision: []float64{0.2, 0.4, 0.6, math.NaN()},
		Recall:    []float64{0.2, 0.4, 0.6, math.NaN()},
		F1:        []float64{0.2, 0.4, 0.6, math.NaN()},
	}

	t.Run("None", func(t *testing.T) {
		out, err := Reduce(s, tokens, 2, 3, ReductionNone)
		require.NoError(t, err)
		assert.Len(t, out.F1, 4)
	})

	t.Run("Sentence mean", func(t *testing.T) {
		out, err := Reduce(s, tokens, 2, 3, ReductionSentenceMean)
		require.NoError(t, err)
		require.Len(t, out.F1, 2)
		assert.InDelta(t, 0.3, out.F1[0], 1e-9)
		assert.InDelta(t, 0.6, out.F1[1], 1e-9)
	})

	t.Run("Length mean", func(t *testing.T) {
		out, err := Reduce(s, tokens, 2, 3, ReductionLengthMean)
		require.NoError(t, err)
		require.Len(t, out.F1, 2)
		assert.InDelta(t, 0.4, out.Precision[0], 1e-9)
		assert.InDelta(t, 0.4, out.Precision[1], 1e-9)
	})

	t.Run("Invalid reduction", func(t *testing.T) {
		_, err := Reduce(s, tokens, 2, 3, Reduction(9))
		assert.Error(t, err)
	})

	t.Run("Shape mismatch", func(t *testing.T) {
		_, err := Reduce(s, tokens[:3], 2, 3, ReductionNone)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})
}

func TestParseReduction(t *testing.T) {
	for _, r := range []Reduction{ReductionNone, ReductionSentenceMean, ReductionLengthMean} {
		got, err := ParseReduction(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	_, err := ParseReduction("mean")
	assert.Error(t, err)
}

func TestGrammarF1FromTokens(t *testing.T) {
	v, err := vocab.FromWords("a")
	require.NoError(t, err)
	corpus := oracle.NewCorpusOracle()
	corpus.Add("C", lexical.Sequence{lexical.Normal("a")})

	x, err := mask.FromRows([]vocab.ID{vocab.SOS, 4, vocab.EOS})
	require.NoError(t, err)

	// V = 5: [SOS] [EOS] [PAD] [AFFIX] a
	preds := append(
		logs(0.025, 0.025, 0.025, 0.025, 0.9), // predicts "a" after SOS
		logs(0.025, 0.9, 0.025, 0.025, 0.025)..., // predicts EOS after "a"
	)
	want := 2 * 0.9 / 1.9

	s, err := GrammarF1FromTokens(context.Background(), mask.NewEngine(v, corpus), x, preds, "C", oracle.DefaultBeamConfig(), ReductionSentenceMean)
	require.NoError(t, err)
	require.Len(t, s.F1, 1)
	assert.InDelta(t, 0.9, s.Precision[0], 1e-9)
	assert.InDelta(t, 1.0, s.Recall[0], 1e-9)
	assert.InDelta(t, want, s.F1[0], 1e-9)

	_, err = GrammarF1FromTokens(context.Background(), mask.NewEngine(v, corpus), x, preds[:5], "C", oracle.DefaultBeamConfig(), ReductionNone)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}
