package chunk

import "chonkit/internal/apperr"

// SlidingWindowConfig splits text into fixed-size, overlapping windows of
// characters. Overlap must be strictly smaller than size.
type SlidingWindowConfig struct {
	Size    int
	Overlap int
}

func (SlidingWindowConfig) isChunkConfig() {}

// NewSlidingWindow validates and builds a SlidingWindowConfig.
func NewSlidingWindow(size, overlap int) (SlidingWindowConfig, error) {
	if size < 1 {
		return SlidingWindowConfig{}, apperr.New(apperr.ConfigError, "size must be >= 1")
	}
	if overlap < 0 {
		return SlidingWindowConfig{}, apperr.New(apperr.ConfigError, "overlap must be >= 0")
	}
	if overlap >= size {
		return SlidingWindowConfig{}, apperr.New(apperr.ConfigError, "overlap must be < size")
	}
	return SlidingWindowConfig{Size: size, Overlap: overlap}, nil
}

// slidingWindow splits runes into windows of cfg.Size, advancing by
// cfg.Size-cfg.Overlap each step. The final window may be shorter than Size.
func slidingWindow(text string, cfg SlidingWindowConfig) ([]string, error) {
	if text == "" {
		return nil, nil
	}

	// idxs holds the byte offset of each rune boundary, plus len(text) as a
	// sentinel, so windows can be sliced with simple index arithmetic while
	// staying code-point aligned.
	idxs := make([]int, 0, len(text)+1)
	for i := range text {
		idxs = append(idxs, i)
	}
	idxs = append(idxs, len(text))

	step := cfg.Size - cfg.Overlap
	last := len(idxs) - 1

	var chunks []string
	for start := 0; start < last; start += step {
		end := start + cfg.Size
		if end >= last {
			end = last
			chunks = append(chunks, text[idxs[start]:idxs[end]])
			break
		}
		chunks = append(chunks, text[idxs[start]:idxs[end]])
	}
	return chunks, nil
}
