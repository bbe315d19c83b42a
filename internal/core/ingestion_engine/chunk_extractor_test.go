package ingestion_engine

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustChunker(t *testing.T, size, overlap int) *Chunker {
	t.Helper()
	c, err := NewChunker(size, overlap)
	require.NoError(t, err)
	return c
}

// reassemble drops the overlap prefix of every fragment after the first.
func reassemble(frags []string, overlap int) string {
	var b strings.Builder
	for i, f := range frags {
		if i == 0 {
			b.WriteString(f)
			continue
		}
		b.WriteString(string([]rune(f)[overlap:]))
	}
	return b.String()
}

func randomText(rng *rand.Rand, n int) string {
	words := []string{"acme", "widgets", "sells", "quality", "déjà", "vu", "services", "客户", "support", "and"}
	seps := []string{" ", " ", " ", ". ", "\n", "\n\n", "! ", ", "}
	var b strings.Builder
	for utf8.RuneCountInString(b.String()) < n {
		b.WriteString(words[rng.Intn(len(words))])
		b.WriteString(seps[rng.Intn(len(seps))])
	}
	return b.String()
}

func TestChunkerBoundsAndOverlap(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	configs := []struct{ size, overlap int }{
		{1000, 200},
		{100, 20},
		{50, 0},
		{30, 29},
		{10, 3},
	}

	for _, cfg := range configs {
		c := mustChunker(t, cfg.size, cfg.overlap)
		for _, n := range []int{1, 9, 10, 11, 99, 250, 1001, 5000} {
			text := randomText(rng, n)
			frags := c.Split(text)
			require.NotEmpty(t, frags)

			for i, f := range frags {
				assert.LessOrEqual(t, utf8.RuneCountInString(f), cfg.size, "fragment %d too long", i)
			}
			for i := 0; i+1 < len(frags); i++ {
				cur, next := []rune(frags[i]), []rune(frags[i+1])
				tail := string(cur[len(cur)-cfg.overlap:])
				head := string(next[:cfg.overlap])
				assert.Equal(t, tail, head, "overlap mismatch between %d and %d", i, i+1)
			}
			assert.Equal(t, text, reassemble(frags, cfg.overlap))
		}
	}
}

func TestChunkerDefaultSizes(t *testing.T) {
	c := mustChunker(t, DefaultChunkSize, DefaultChunkOverlap)
	text := strings.Repeat("Acme sells widgets and has great values. ", 100)

	frags := c.Split(text)
	require.Greater(t, len(frags), 1)
	for _, f := range frags {
		assert.LessOrEqual(t, utf8.RuneCountInString(f), DefaultChunkSize)
	}
	assert.Equal(t, text, reassemble(frags, DefaultChunkOverlap))
}

func TestChunkerEmptyInput(t *testing.T) {
	c := mustChunker(t, 1000, 200)
	assert.Empty(t, c.Split(""))
	assert.Empty(t, c.Split("  \n\t "))
}

func TestChunkerShortInput(t *testing.T) {
	c := mustChunker(t, 1000, 200)
	assert.Equal(t, []string{"Acme sells widgets."}, c.Split("Acme sells widgets."))
}

func TestChunkerPrefersParagraphs(t *testing.T) {
	c := mustChunker(t, 20, 2)
	frags := c.Split("Hello world.\n\nSecond paragraph here and more text")
	require.NotEmpty(t, frags)
	assert.Equal(t, "Hello world.\n\n", frags[0])
}

func TestChunkerPrefersSentencesOverWords(t *testing.T) {
	c := mustChunker(t, 15, 2)
	frags := c.Split("One two. Three four five six")
	require.NotEmpty(t, frags)
	assert.Equal(t, "One two. ", frags[0])
}

func TestChunkerHardCut(t *testing.T) {
	c := mustChunker(t, 10, 3)
	frags := c.Split("abcdefghijklmnopqrstuvwxyz")
	assert.Equal(t, []string{"abcdefghij", "hijklmnopq", "opqrstuvwx", "vwxyz"}, frags)
}

func TestChunkerCountsRunes(t *testing.T) {
	c := mustChunker(t, 4, 1)
	frags := c.Split("ééééééé")
	for _, f := range frags {
		assert.True(t, utf8.ValidString(f))
		assert.LessOrEqual(t, utf8.RuneCountInString(f), 4)
	}
	assert.Equal(t, "ééééééé", reassemble(frags, 1))
}

func TestNewChunkerValidation(t *testing.T) {
	_, err := NewChunker(0, 0)
	require.Error(t, err)
	_, err = NewChunker(100, 100)
	require.Error(t, err)
	_, err = NewChunker(100, -1)
	require.Error(t, err)
}
