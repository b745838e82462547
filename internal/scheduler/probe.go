package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/dataadapter/internal/backend"
	"github.com/mrlokans/dataadapter/internal/diagnostics"
	"github.com/mrlokans/dataadapter/internal/logging"
)

// probeTimeout bounds one round of probes.
const probeTimeout = 30 * time.Second

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	if _, err := scheduleParser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}
	return nil
}

// Prober runs a connection probe against one backend.
type Prober interface {
	Probe(ctx context.Context, kind backend.Kind) diagnostics.ProbeResult
}

// ProbeScheduler periodically probes every backend and keeps the latest results
type ProbeScheduler struct {
	prober   Prober
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isProbing  bool
	last       map[backend.Kind]diagnostics.ProbeResult
	lastAt     time.Time
	cancelFunc context.CancelFunc
}

// NewProbeScheduler creates a new scheduler instance
func NewProbeScheduler(prober Prober, schedule string) *ProbeScheduler {
	return &ProbeScheduler{
		prober:   prober,
		schedule: schedule,
		last:     make(map[backend.Kind]diagnostics.ProbeResult),
		cron:     cron.New(cron.WithParser(scheduleParser)),
	}
}

// Start begins periodic probing
func (s *ProbeScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return err
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runProbes()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule probe job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	logging.Infof("Probe scheduler: started with schedule '%s'", s.schedule)

	// Monitor for context cancellation
	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *ProbeScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	// A running probe takes the lock to store its results, so wait unlocked.
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.cron.Remove(s.entryID)
	if cancel != nil {
		cancel()
	}

	logging.Infof("Probe scheduler: stopped")
}

// RunNow probes every backend synchronously and returns the results.
func (s *ProbeScheduler) RunNow() map[backend.Kind]diagnostics.ProbeResult {
	s.runProbes()
	return s.Last()
}

// IsRunning returns whether the scheduler is active
func (s *ProbeScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Last returns a copy of the most recent probe results.
func (s *ProbeScheduler) Last() map[backend.Kind]diagnostics.ProbeResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[backend.Kind]diagnostics.ProbeResult, len(s.last))
	for k, v := range s.last {
		out[k] = v
	}
	return out
}

// GetNextRunTime returns when the next probe will occur
func (s *ProbeScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *ProbeScheduler) runProbes() {
	s.mu.Lock()
	if s.isProbing {
		s.mu.Unlock()
		logging.Debugf("Probe: skipped (already probing)")
		return
	}
	s.isProbing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isProbing = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	results := make(map[backend.Kind]diagnostics.ProbeResult, len(backend.Kinds))
	for _, k := range backend.Kinds {
		res := s.prober.Probe(ctx, k)
		results[k] = res
		if res.OK {
			logging.Debugf("Probe: %s reachable in %dms", k.DisplayName(), res.ElapsedMS)
		} else {
			logging.Warnf("Probe: %s unreachable: %s", k.DisplayName(), res.Message)
		}
	}

	s.mu.Lock()
	s.last = results
	s.lastAt = time.Now()
	s.mu.Unlock()
}

// LastRunAt returns when probes last completed; zero if never.
func (s *ProbeScheduler) LastRunAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastAt
}
