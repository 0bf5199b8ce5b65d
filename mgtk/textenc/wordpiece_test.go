package textenc

import (
	"testing"

	"github.com/ZanzyTHEbar/mg-tokens/mgtk/codec"
	"github.com/ZanzyTHEbar/mg-tokens/mgtk/lexical"
	"github.com/ZanzyTHEbar/mg-tokens/mgtk/vocab"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordPieceEncoder(t *testing.T) {
	v, err := vocab.FromWords("the", "dog", "runs")
	require.NoError(t, err)

	enc, err := NewWordPieceEncoder(v, t.TempDir())
	require.NoError(t, err)

	t.Run("Known words", func(t *testing.T) {
		seq, err := enc.Encode("the dog runs")
		require.NoError(t, err)
		assert.True(t, seq.Equal(lexical.Sequence{lexical.Normal("the"), lexical.Normal("dog"), lexical.Normal("runs")}), seq.String())

		ids, err := enc.EncodeIDs("the dog")
		require.NoError(t, err)
		assert.Equal(t, []vocab.ID{vocab.SOS, 4, 5, vocab.EOS}, ids)
	})

	t.Run("Unknown word", func(t *testing.T) {
		_, err := enc.Encode("the cat")
		require.Error(t, err)
		assert.ErrorIs(t, err, codec.ErrUnknownWord)
	})
}
