package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelForVerbosity(t *testing.T) {
	cases := []struct {
		verbosity uint8
		want      string
	}{
		{0, "error"},
		{1, "error"},
		{2, "error"},
		{3, "error"},
		{4, "warn"},
		{5, "info"},
		{6, "debug"},
		{7, "trace"},
		{8, "info"},
		{42, "info"},
		{255, "info"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LevelForVerbosity(tc.verbosity), "verbosity %d", tc.verbosity)
	}
}

func TestParseLevel(t *testing.T) {
	known := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		"debug":    zerolog.DebugLevel,
		"info":     zerolog.InfoLevel,
		"warn":     zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"fatal":    zerolog.FatalLevel,
		"panic":    zerolog.PanicLevel,
		"disabled": zerolog.Disabled,
	}
	for name, want := range known {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("shouty")
	require.Error(t, err)
}

func TestResolveLevel(t *testing.T) {
	t.Run("default when config level empty", func(t *testing.T) {
		t.Setenv(EnvLogLevel, emptyString)
		l, err := resolveLevel(&Config{})
		require.NoError(t, err)
		assert.Equal(t, zerolog.InfoLevel, l)
	})

	t.Run("configured level applies", func(t *testing.T) {
		t.Setenv(EnvLogLevel, emptyString)
		l, err := resolveLevel(&Config{Level: "warn"})
		require.NoError(t, err)
		assert.Equal(t, zerolog.WarnLevel, l)
	})

	t.Run("environment wins", func(t *testing.T) {
		t.Setenv(EnvLogLevel, "trace")
		l, err := resolveLevel(&Config{Level: "error"})
		require.NoError(t, err)
		assert.Equal(t, zerolog.TraceLevel, l)
	})

	t.Run("unparseable environment value is ignored", func(t *testing.T) {
		t.Setenv(EnvLogLevel, "shouty")
		l, err := resolveLevel(&Config{Level: "error"})
		require.NoError(t, err)
		assert.Equal(t, zerolog.ErrorLevel, l)
	})
}
