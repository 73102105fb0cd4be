package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeConfig_EmptyIsNoRestriction(t *testing.T) {
	cfg, err := DecodeConfig(nil)
	require.NoError(t, err)
	require.False(t, cfg.hasRange())
}

func TestDecodeConfig_RangeMode(t *testing.T) {
	cfg, err := DecodeConfig([]byte(`{"mode":"range","range":[2,5]}`))
	require.NoError(t, err)
	require.Equal(t, 2, cfg.RangeStart)
	require.Equal(t, 5, cfg.RangeEnd)
}

func TestDecodeConfig_RangeModeRejectsBackwardsRange(t *testing.T) {
	_, err := DecodeConfig([]byte(`{"mode":"range","range":[5,2]}`))
	require.Error(t, err)
}

func TestDecodeConfig_StartMode(t *testing.T) {
	cfg, err := DecodeConfig([]byte(`{"mode":"start","start":3}`))
	require.NoError(t, err)
	require.Equal(t, 3, cfg.RangeStart)
	require.Equal(t, 0, cfg.RangeEnd)
}

func TestDecodeConfig_FiltersCompiled(t *testing.T) {
	cfg, err := DecodeConfig([]byte(`{"filters":["[0-9]+","^X"]}`))
	require.NoError(t, err)
	require.Len(t, cfg.Filters, 2)
}

func TestDecodeConfig_InvalidRegexRejected(t *testing.T) {
	_, err := DecodeConfig([]byte(`{"filters":["("]}`))
	require.Error(t, err)
}

func TestDecodeConfig_UnknownModeRejected(t *testing.T) {
	_, err := DecodeConfig([]byte(`{"mode":"bogus"}`))
	require.Error(t, err)
}
