package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestGetBeforeInitIsDisabled(t *testing.T) {
	require.Equal(t, zerolog.Disabled, Get().GetLevel())

	// Chained calls straight off Get must compile and stay silent.
	Get().Info().Str("k", "v").Msg("dropped")
}

func TestInitConfiguresTheSingleton(t *testing.T) {
	var buf bytes.Buffer
	log := Init(Options{Level: "warn", Output: &buf})

	log.Warn().Msg("from init return")
	Get().Warn().Msg("from get")
	Get().Info().Msg("below level")

	out := buf.String()
	require.Contains(t, out, "from init return")
	require.Contains(t, out, "from get")
	require.NotContains(t, out, "below level")
}

func TestInitOnlyAppliesOnce(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "debug", Output: &buf})

	Get().Debug().Msg("still filtered")
	require.NotContains(t, buf.String(), "still filtered")
}
