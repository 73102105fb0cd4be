package chunk

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlidingWindow_BasicExample(t *testing.T) {
	cfg, err := NewSlidingWindow(4, 1)
	require.NoError(t, err)
	out, err := Chunk(context.Background(), "abcdefghij", cfg)
	require.NoError(t, err)
	require.Equal(t, []string{"abcd", "defg", "ghij"}, out)
}

func TestSlidingWindow_FinalChunkShort(t *testing.T) {
	cfg, err := NewSlidingWindow(3, 0)
	require.NoError(t, err)
	out, err := Chunk(context.Background(), "abcdefgh", cfg)
	require.NoError(t, err)
	require.Equal(t, []string{"abc", "def", "gh"}, out)
}

func TestSlidingWindow_EmptyInput(t *testing.T) {
	cfg, err := NewSlidingWindow(4, 1)
	require.NoError(t, err)
	out, err := Chunk(context.Background(), "", cfg)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestSlidingWindow_OverlapMustBeLessThanSize(t *testing.T) {
	_, err := NewSlidingWindow(4, 4)
	require.Error(t, err)
	_, err = NewSlidingWindow(4, 5)
	require.Error(t, err)
}

func TestSlidingWindow_CoversFullInputWithOverlapRemoved(t *testing.T) {
	cfg, err := NewSlidingWindow(5, 2)
	require.NoError(t, err)
	text := "the quick brown fox jumps over the lazy dog"
	out, err := Chunk(context.Background(), text, cfg)
	require.NoError(t, err)

	var rebuilt strings.Builder
	for i, c := range out {
		if i == 0 {
			rebuilt.WriteString(c)
			continue
		}
		rebuilt.WriteString(c[min(cfg.Overlap, len([]rune(c))):])
	}
	require.Equal(t, text, rebuilt.String())
}

func TestSlidingWindow_Deterministic(t *testing.T) {
	cfg, err := NewSlidingWindow(6, 2)
	require.NoError(t, err)
	text := "deterministic chunking must not vary across runs"
	a, err := Chunk(context.Background(), text, cfg)
	require.NoError(t, err)
	b, err := Chunk(context.Background(), text, cfg)
	require.NoError(t, err)
	require.Equal(t, a, b)
}
