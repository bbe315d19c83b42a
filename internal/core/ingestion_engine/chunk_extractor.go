package ingestion_engine

import (
	"fmt"
	"strings"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// separators are tried in order when looking for a cut inside a window:
// paragraph, line, sentence, word.
var separators = [][]rune{
	[]rune("\n\n"),
	[]rune("\n"),
	[]rune(". "),
	[]rune("! "),
	[]rune("? "),
	[]rune(" "),
}

// Chunker splits category text into overlapping, size-bounded fragments.
// Sizes are counted in runes.
type Chunker struct {
	maxSize int
	overlap int
}

func NewChunker(maxSize, overlap int) (*Chunker, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", maxSize)
	}
	if overlap < 0 || overlap >= maxSize {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", maxSize, overlap)
	}
	return &Chunker{maxSize: maxSize, overlap: overlap}, nil
}

// Split returns the fragments of text in order.
//
// Every fragment holds at most maxSize runes, and fragment i+1 starts with the
// last overlap runes of fragment i. Dropping the first overlap runes of every
// fragment after the first and concatenating gives back text unchanged.
func (c *Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	r := []rune(text)
	n := len(r)
	if n <= c.maxSize {
		return []string{text}
	}

	var out []string
	start := 0
	for {
		end := start + c.maxSize
		if end >= n {
			out = append(out, string(r[start:]))
			return out
		}

		cut := c.cutPoint(r, start, end)
		out = append(out, string(r[start:cut]))
		start = cut - c.overlap
	}
}

// cutPoint picks where the window r[start:end] ends. The cut always lies past
// start+overlap so the next window moves forward.
func (c *Chunker) cutPoint(r []rune, start, end int) int {
	floor := start + c.overlap + 1
	for _, sep := range separators {
		for i := end - len(sep); i >= start; i-- {
			cut := i + len(sep)
			if cut < floor {
				break
			}
			if hasRunesAt(r, i, sep) {
				return cut
			}
		}
	}
	return end
}

func hasRunesAt(r []rune, i int, sep []rune) bool {
	if i < 0 || i+len(sep) > len(r) {
		return false
	}
	for k, s := range sep {
		if r[i+k] != s {
			return false
		}
	}
	return true
}
