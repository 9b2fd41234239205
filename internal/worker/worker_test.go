package worker

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct{ calls atomic.Int32 }

func (c *countingSweeper) Sweep() int {
	c.calls.Add(1)
	return 1
}

func TestSweepWorker(t *testing.T) {
	store := &countingSweeper{}
	w := NewSweepWorker(store, 5*time.Millisecond)

	s := NewScheduler()
	s.AddWorker(w)
	s.Start()

	require.Eventually(t, func() bool { return store.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()
	assert.False(t, s.IsRunning())

	// A second stop is harmless.
	s.Stop()
}

func TestCompanionWithoutCommand(t *testing.T) {
	w := NewCompanionWorker("  ")
	msg, err := w.Launch()
	assert.ErrorIs(t, err, ErrNoCompanion)
	assert.Empty(t, msg)
	w.Stop()
}

func TestCompanionLaunchesOnce(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sleep")
	}

	w := NewCompanionWorker("sleep 30")
	msg, err := w.Launch()
	require.NoError(t, err)
	assert.Equal(t, "Companion app started.", msg)
	pid := w.cmd.Process.Pid

	msg, err = w.Launch()
	require.NoError(t, err)
	assert.Equal(t, "Companion app started.", msg)
	assert.Equal(t, pid, w.cmd.Process.Pid)

	w.Stop()
	select {
	case <-w.done:
	case <-time.After(5 * time.Second):
		t.Fatal("companion still running")
	}
}

func TestCompanionLaunchFailure(t *testing.T) {
	w := NewCompanionWorker("/nonexistent/companion-app --flag")
	msg, err := w.Launch()
	assert.Error(t, err)
	assert.Contains(t, msg, "Failed to start companion app")

	// The failure is remembered, not retried.
	again, err := w.Launch()
	assert.NoError(t, err)
	assert.Equal(t, msg, again)
}
