package scheduler

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/dataadapter/internal/backend"
	"github.com/mrlokans/dataadapter/internal/diagnostics"
)

type fakeProber struct {
	mu    sync.Mutex
	calls []backend.Kind
}

func (f *fakeProber) Probe(_ context.Context, k backend.Kind) diagnostics.ProbeResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, k)
	return diagnostics.ProbeResult{Backend: k, OK: k == backend.BaaS, Message: "x"}
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("*/15 * * * *"))
	assert.NoError(t, ValidateSchedule("0 3 * * 1"))
	assert.Error(t, ValidateSchedule("every minute"))
	assert.Error(t, ValidateSchedule("* * * * * *"))
}

func TestProbeScheduler_RunNow(t *testing.T) {
	prober := &fakeProber{}
	s := NewProbeScheduler(prober, "*/15 * * * *")

	assert.True(t, s.LastRunAt().IsZero())
	results := s.RunNow()

	require.Len(t, results, 2)
	assert.True(t, results[backend.BaaS].OK)
	assert.False(t, results[backend.LowCode].OK)
	assert.Equal(t, []backend.Kind{backend.BaaS, backend.LowCode}, prober.calls)
	assert.False(t, s.LastRunAt().IsZero())
}

func TestProbeScheduler_StartStop(t *testing.T) {
	s := NewProbeScheduler(&fakeProber{}, "*/15 * * * *")

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.NotNil(t, s.GetNextRunTime())

	require.NoError(t, s.Start(context.Background()), "second start is a no-op")

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())
}

func TestProbeScheduler_InvalidSchedule(t *testing.T) {
	s := NewProbeScheduler(&fakeProber{}, "not a schedule")
	assert.Error(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}
