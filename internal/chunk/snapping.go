package chunk

import (
	"strings"
	"unicode"

	"chonkit/internal/apperr"
)

// SnappingWindowConfig splits text on sentence boundaries and packs whole
// sentences into chunks of at most Size characters, overlapping by whole
// sentences rather than characters. SkipForward/SkipBackward suppress false
// sentence ends like abbreviations ("e.g.", "www.").
type SnappingWindowConfig struct {
	Size         int
	Overlap      int // sentences, not characters
	SkipForward  []string
	SkipBackward []string
}

func (SnappingWindowConfig) isChunkConfig() {}

// NewSnappingWindow validates and builds a SnappingWindowConfig.
func NewSnappingWindow(size, overlap int, skipForward, skipBackward []string) (SnappingWindowConfig, error) {
	if size < 1 {
		return SnappingWindowConfig{}, apperr.New(apperr.ConfigError, "size must be >= 1")
	}
	if overlap < 0 {
		return SnappingWindowConfig{}, apperr.New(apperr.ConfigError, "overlap must be >= 0")
	}
	return SnappingWindowConfig{
		Size:         size,
		Overlap:      overlap,
		SkipForward:  skipForward,
		SkipBackward: skipBackward,
	}, nil
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// word is a whitespace-delimited token with its byte offsets in the
// original text (end is exclusive and always lands on whitespace or EOF).
type word struct {
	text       string
	start, end int
}

func splitWords(text string) []word {
	var words []word
	runeStart := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if runeStart >= 0 {
				words = append(words, word{text: text[runeStart:i], start: runeStart, end: i})
				runeStart = -1
			}
			continue
		}
		if runeStart < 0 {
			runeStart = i
		}
	}
	if runeStart >= 0 {
		words = append(words, word{text: text[runeStart:], start: runeStart, end: len(text)})
	}
	return words
}

func stripTrailingSentencePunct(s string) string {
	return strings.TrimRightFunc(s, isSentenceEnd)
}

func containsAny(s string, set []string) bool {
	if s == "" {
		return false
	}
	for _, tok := range set {
		if tok != "" && strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

// sentenceBoundaries returns the byte offsets (exclusive end, i.e. right
// after the terminal punctuation) of every surviving sentence boundary, in
// order. A word counts as a raw candidate boundary when it ends in '.',
// '!', or '?' — since words are whitespace-delimited, that position is
// always followed by whitespace or end-of-input, satisfying the rule
// directly. A candidate is suppressed when the word itself (trailing
// punctuation stripped) contains any SkipBackward entry, or the next word
// (same stripping) contains any SkipForward entry.
func sentenceBoundaries(words []word, cfg SnappingWindowConfig) []int {
	var bounds []int
	for i, w := range words {
		last := []rune(w.text)
		if len(last) == 0 || !isSentenceEnd(last[len(last)-1]) {
			continue
		}
		preceding := stripTrailingSentencePunct(w.text)
		if containsAny(preceding, cfg.SkipBackward) {
			continue
		}
		if i+1 < len(words) {
			following := stripTrailingSentencePunct(words[i+1].text)
			if containsAny(following, cfg.SkipForward) {
				continue
			}
		}
		bounds = append(bounds, w.end)
	}
	return bounds
}

// splitSentences partitions text into sentences at the surviving boundaries,
// trimming surrounding whitespace. Trailing content with no terminal
// punctuation still forms a final sentence so no text is dropped.
func splitSentences(text string, bounds []int) []string {
	var sentences []string
	prev := 0
	for _, b := range bounds {
		s := strings.TrimSpace(text[prev:b])
		if s != "" {
			sentences = append(sentences, s)
		}
		prev = b
	}
	if tail := strings.TrimSpace(text[prev:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func snappingWindow(text string, cfg SnappingWindowConfig) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	words := splitWords(text)
	bounds := sentenceBoundaries(words, cfg)
	sentences := splitSentences(text, bounds)
	if len(sentences) == 0 {
		return nil, nil
	}

	var chunks []string
	var current []string
	currentLen := 0

	join := func(sents []string) string { return strings.Join(sents, " ") }

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, join(current))
		}
	}

	overlapTail := func(sents []string) []string {
		if cfg.Overlap <= 0 || len(sents) == 0 {
			return nil
		}
		n := cfg.Overlap
		if n > len(sents) {
			n = len(sents)
		}
		out := make([]string, n)
		copy(out, sents[len(sents)-n:])
		return out
	}

	for _, s := range sentences {
		sLen := len([]rune(s))
		candidateLen := sLen
		if currentLen > 0 {
			candidateLen = currentLen + 1 + sLen // +1 for joining space
		}

		switch {
		case currentLen == 0:
			current = []string{s}
			currentLen = sLen
		case candidateLen <= cfg.Size:
			current = append(current, s)
			currentLen = candidateLen
		default:
			prevSentences := current
			flush()
			current = append(overlapTail(prevSentences), s)
			currentLen = len([]rune(join(current)))
		}
	}
	flush()

	return chunks, nil
}
