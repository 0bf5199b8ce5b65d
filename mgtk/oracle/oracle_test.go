package oracle

import (
	"errors"
	"testing"

	"github.com/ZanzyTHEbar/mg-tokens/mgtk/lexical"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeamConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultBeamConfig().Validate())

	cases := map[string]BeamConfig{
		"positive log prob": {MinLogProb: 1, MoveProb: 0.5},
		"move prob above 1": {MinLogProb: -1, MoveProb: 1.5},
		"negative move":     {MinLogProb: -1, MoveProb: -0.1},
		"negative steps":    {MinLogProb: -1, MoveProb: 0.5, MaxSteps: -1},
		"negative beams":    {MinLogProb: -1, MoveProb: 0.5, NBeams: -2},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestContinuation(t *testing.T) {
	assert.Equal(t, "dog", Word("dog").String())
	assert.Equal(t, "walk-ed", AffixedWord("walk", "ed").String())
	assert.Equal(t, ContinueEndOfSentence, EndOfSentence().Kind)
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap("C", nil, nil))

	base := errors.New("parser exploded")
	err := Wrap("C", lexical.Sequence{lexical.Normal("the")}, base)
	assert.ErrorIs(t, err, ErrOracle)
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), `"the"`)

	assert.Same(t, err, Wrap("C", nil, err), "already wrapped errors pass through")
}

func TestCorpusOracle(t *testing.T) {
	o := NewCorpusOracle()
	o.Add("C",
		lexical.Sequence{lexical.Normal("the"), lexical.Normal("dog")},
		lexical.Sequence{lexical.Normal("the"), lexical.Affixed("dog", "s")},
		lexical.Sequence{lexical.Normal("the")},
		lexical.Sequence{lexical.Normal("a"), lexical.Normal("dog")},
	)
	cfg := DefaultBeamConfig()

	t.Run("Empty prefix", func(t *testing.T) {
		got, err := o.ValidContinuations("C", nil, cfg)
		require.NoError(t, err)
		assert.Equal(t, []Continuation{Word("the"), Word("a")}, got)
	})

	t.Run("Word prefix", func(t *testing.T) {
		got, err := o.ValidContinuations("C", lexical.Sequence{lexical.Normal("the")}, cfg)
		require.NoError(t, err)
		assert.Equal(t, []Continuation{Word("dog"), AffixedWord("dog", "s"), EndOfSentence()}, got)
	})

	t.Run("Open affixed prefix matches nothing", func(t *testing.T) {
		got, err := o.ValidContinuations("C", lexical.Sequence{lexical.Normal("the"), lexical.Affixed("dog")}, cfg)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Unknown category", func(t *testing.T) {
		_, err := o.ValidContinuations("V", nil, cfg)
		assert.ErrorIs(t, err, ErrUnknownCategory)
	})

	t.Run("Invalid config", func(t *testing.T) {
		_, err := o.ValidContinuations("C", nil, BeamConfig{MinLogProb: 3})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	assert.Equal(t, 1, o.Categories())
}

func TestCorpusOracleKeepsDistinctAffixSplits(t *testing.T) {
	o := NewCorpusOracle()
	o.Add("C",
		lexical.Sequence{lexical.Affixed("a-b", "c")},
		lexical.Sequence{lexical.Affixed("a", "b-c")},
		lexical.Sequence{lexical.Affixed("a", "b-c")},
	)

	got, err := o.ValidContinuations("C", nil, DefaultBeamConfig())
	require.NoError(t, err)
	assert.Equal(t, []Continuation{AffixedWord("a-b", "c"), AffixedWord("a", "b-c")}, got)
}

func TestOracleFunc(t *testing.T) {
	var o Oracle = OracleFunc(func(category string, prefix lexical.Sequence, cfg BeamConfig) ([]Continuation, error) {
		return []Continuation{Word(category)}, nil
	})
	got, err := o.ValidContinuations("x", nil, DefaultBeamConfig())
	require.NoError(t, err)
	assert.Equal(t, []Continuation{Word("x")}, got)
}
