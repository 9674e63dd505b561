package logging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseWaitsForInFlightEvents(t *testing.T) {
	svc, buf, _ := newTestService(t, DefaultConfig())

	ev := svc.InfoWith().Str("stage", "handover")
	require.EqualValues(t, 1, svc.ActiveOperations())

	done := make(chan error, 1)
	go func() { done <- svc.Close() }()

	// Let Close reach its drain wait before the event finishes.
	time.Sleep(20 * time.Millisecond)
	ev.Msg("flushed before shutdown")

	require.NoError(t, <-done)
	assert.Contains(t, buf.String(), "flushed before shutdown")
	assert.EqualValues(t, 0, svc.ActiveOperations())
}

func TestCloseTimeoutWarns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShutdownTimeoutMS = 50
	svc, buf, mock := newTestService(t, cfg)

	stuck := svc.InfoWith().Str("stage", "stuck")
	require.EqualValues(t, 1, svc.ActiveOperations())

	done := make(chan error, 1)
	go func() { done <- svc.Close() }()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case err := <-done:
			require.NoError(t, err)
			out := buf.String()
			assert.Contains(t, out, "Logger shutdown timeout exceeded")
			assert.Contains(t, out, "active_operations=1")

			stuck.Msg("late arrival")
			assert.EqualValues(t, 0, svc.ActiveOperations())
			return
		case <-deadline:
			t.Fatal("Close never gave up waiting")
		default:
			mock.AddTime(10 * time.Millisecond)
			time.Sleep(time.Millisecond)
		}
	}
}

func TestCloseTimeoutWarningDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShutdownTimeoutMS = 50
	cfg.ShutdownTimeoutWarning = false
	svc, buf, mock := newTestService(t, cfg)

	_ = svc.InfoWith().Str("stage", "stuck")

	done := make(chan error, 1)
	go func() { done <- svc.Close() }()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case err := <-done:
			require.NoError(t, err)
			assert.NotContains(t, buf.String(), "shutdown timeout exceeded")
			return
		case <-deadline:
			t.Fatal("Close never gave up waiting")
		default:
			mock.AddTime(10 * time.Millisecond)
			time.Sleep(time.Millisecond)
		}
	}
}

func TestActiveOperationsTracksOpenEvents(t *testing.T) {
	svc, _, _ := newTestService(t, DefaultConfig())

	first := svc.InfoWith().Str("n", "1")
	second := svc.WarnWith().Str("n", "2")
	assert.EqualValues(t, 2, svc.ActiveOperations())

	first.Msg("one down")
	assert.EqualValues(t, 1, svc.ActiveOperations())

	second.Send()
	assert.EqualValues(t, 0, svc.ActiveOperations())

	// Filtered events never enter the count.
	svc.DebugWith().Str("n", "3").Msg("filtered")
	assert.EqualValues(t, 0, svc.ActiveOperations())
}
