package tfidf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPrepared(t *testing.T, corpus ...string) *Embedder {
	t.Helper()
	e, err := NewEmbedder(Config{})
	require.NoError(t, err)
	require.NoError(t, e.Prepare(corpus))
	return e
}

func norm(values []float64) float64 {
	s := 0.0
	for _, v := range values {
		s += v * v
	}
	return math.Sqrt(s)
}

func TestNewEmbedder_Validation(t *testing.T) {
	_, err := NewEmbedder(Config{NgramMin: 3, NgramMax: 2})
	assert.Error(t, err)

	_, err = NewEmbedder(Config{StopWords: "klingon"})
	assert.Error(t, err)

	e, err := NewEmbedder(Config{StopWords: "none"})
	require.NoError(t, err)
	assert.Equal(t, "tfidf", e.Name())
}

func TestEmbedder_PrepareBuildsUnigramsAndBigrams(t *testing.T) {
	e := newPrepared(t, "open world shooter", "peaceful farming")

	for _, term := range []string{"open", "world", "shooter", "open world", "world shooter", "peaceful farming"} {
		_, ok := e.vocabulary[term]
		assert.True(t, ok, "missing term %q", term)
	}
	assert.Equal(t, len(e.vocabulary), e.Dimension())
}

func TestEmbedder_StopWordsRemovedBeforeBigrams(t *testing.T) {
	e := newPrepared(t, "the king of the hill")

	_, hasStop := e.vocabulary["the"]
	assert.False(t, hasStop)
	_, hasBigram := e.vocabulary["king hill"]
	assert.True(t, hasBigram)
}

func TestEmbedder_TokenizesCyrillicAndDigits(t *testing.T) {
	e := newPrepared(t, "Стратегия 2077 x")

	_, ok := e.vocabulary["стратегия"]
	assert.True(t, ok)
	_, ok = e.vocabulary["2077"]
	assert.True(t, ok)
	_, ok = e.vocabulary["x"]
	assert.False(t, ok, "single-character tokens are dropped")
}

func TestEmbedder_EmbedIsNormalizedAndSorted(t *testing.T) {
	e := newPrepared(t, "space shooter space", "farm simulation")

	v, err := e.Embed("space shooter")
	require.NoError(t, err)
	require.NotEmpty(t, v.Indices)
	assert.InDelta(t, 1.0, norm(v.Values), 1e-9)
	for i := 1; i < len(v.Indices); i++ {
		assert.Less(t, v.Indices[i-1], v.Indices[i])
	}
}

func TestEmbedder_UnknownTermsYieldZeroVector(t *testing.T) {
	e := newPrepared(t, "space shooter", "farm simulation")

	v, err := e.Embed("underwater racing")
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}

func TestEmbedder_RarerTermsWeighMore(t *testing.T) {
	e := newPrepared(t, "shooter arena", "shooter farm", "shooter space")

	v, err := e.Embed("shooter arena")
	require.NoError(t, err)
	weights := map[int]float64{}
	for i, idx := range v.Indices {
		weights[idx] = v.Values[i]
	}
	assert.Greater(t, weights[e.vocabulary["arena"]], weights[e.vocabulary["shooter"]])
}

func TestEmbedder_EmptyVocabulary(t *testing.T) {
	e := newPrepared(t, "", "the a")

	assert.Equal(t, 0, e.Dimension())
	v, err := e.Embed("anything at all")
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}

func TestEmbedder_Errors(t *testing.T) {
	e, err := NewEmbedder(Config{})
	require.NoError(t, err)

	_, err = e.Embed("query")
	assert.Error(t, err)
	assert.Error(t, e.Prepare(nil))
}

func TestEmbedder_Deterministic(t *testing.T) {
	corpus := []string{"dark fantasy rpg", "cozy farm rpg", "space shooter arena"}
	a := newPrepared(t, corpus...)
	b := newPrepared(t, corpus...)

	va, err := a.Embed("fantasy rpg")
	require.NoError(t, err)
	vb, err := b.Embed("fantasy rpg")
	require.NoError(t, err)
	assert.Equal(t, va, vb)
}

func TestStopWords(t *testing.T) {
	en, err := StopWords("English")
	require.NoError(t, err)
	assert.Contains(t, en, "the")

	ru, err := StopWords("russian")
	require.NoError(t, err)
	assert.Contains(t, ru, "и")

	none, err := StopWords("none")
	require.NoError(t, err)
	assert.Empty(t, none)
}
