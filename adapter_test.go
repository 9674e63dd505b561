package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKitAdapter(t *testing.T) {
	svc, buf, _ := newTestService(t, DefaultConfig())
	kit := svc.Kit()

	require.NoError(t, kit.Log("level", "warn", "msg", "disk low", "free_mb", 12))
	out := buf.String()
	assert.Contains(t, out, "[WARN ]")
	assert.Contains(t, out, "disk low")
	assert.Contains(t, out, "free_mb=12")

	buf.Reset()
	require.NoError(t, kit.Log("msg", "defaults to info"))
	assert.Contains(t, buf.String(), "[INFO ]")

	buf.Reset()
	require.NoError(t, kit.Log("message", "long form key"))
	assert.Contains(t, buf.String(), "long form key")

	buf.Reset()
	require.NoError(t, kit.Log("level", "debug", "msg", "filtered"))
	assert.Zero(t, buf.Len())

	buf.Reset()
	require.NoError(t, kit.Log("level", "nonsense", "msg", "falls back to info"))
	assert.Contains(t, buf.String(), "[INFO ]")

	buf.Reset()
	require.NoError(t, kit.Log("orphan"))
	assert.NotZero(t, buf.Len())

	t.Run("uninitialized service", func(t *testing.T) {
		idle := NewService(DefaultConfig(), emptyString)
		require.NoError(t, idle.Kit().Log("msg", "nowhere to go"))
	})
}

func TestStdLoggerBridge(t *testing.T) {
	svc, buf, _ := newTestService(t, DefaultConfig())

	std := svc.StdLogger("warn")
	std.Printf("legacy line %d", 7)

	out := buf.String()
	assert.Contains(t, out, "[WARN ]")
	assert.Contains(t, out, "legacy line 7")
	assert.Len(t, buf.Lines(), 1)

	t.Run("unknown severity maps to error", func(t *testing.T) {
		buf.Reset()
		svc.StdLogger("shouty").Print("boom")
		assert.Contains(t, buf.String(), "[ERROR]")
	})

	t.Run("filtered severity stays silent", func(t *testing.T) {
		buf.Reset()
		svc.StdLogger("debug").Print("quiet")
		assert.Zero(t, buf.Len())
	})
}

func TestEnable(t *testing.T) {
	t.Setenv(EnvLogLevel, emptyString)

	cases := []struct {
		verbosity uint8
		want      zerolog.Level
	}{
		{0, zerolog.ErrorLevel},
		{3, zerolog.ErrorLevel},
		{4, zerolog.WarnLevel},
		{5, zerolog.InfoLevel},
		{6, zerolog.DebugLevel},
		{7, zerolog.TraceLevel},
		{255, zerolog.InfoLevel},
	}
	for _, tc := range cases {
		svc := Enable(tc.verbosity)
		require.NotNil(t, svc, "verbosity %d", tc.verbosity)
		require.True(t, svc.isInitialized.Load(), "verbosity %d", tc.verbosity)

		l := svc.logger.Load()
		require.NotNil(t, l, "verbosity %d", tc.verbosity)
		assert.Equal(t, tc.want, l.GetLevel(), "verbosity %d", tc.verbosity)

		require.NoError(t, svc.Close())
	}
}
