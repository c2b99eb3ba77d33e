package services

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"vehicledash/internal/models"
)

type mutableRandom struct {
	mu sync.Mutex
	v  float64
}

func (m *mutableRandom) Float64() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.v
}

func (m *mutableRandom) set(v float64) {
	m.mu.Lock()
	m.v = v
	m.mu.Unlock()
}

// stepClock advances by one second per call so consecutive samples differ
func stepClock() func() time.Time {
	var mu sync.Mutex
	t := time.UnixMilli(1_700_000_000_000)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func newTestSession(t *testing.T, random RandomSource, mutate func(*SessionOptions)) *Session {
	t.Helper()

	gen, err := NewGenerator(random, nil)
	if err != nil {
		t.Fatalf("generator: %v", err)
	}
	opts := DefaultSessionOptions()
	opts.Clock = stepClock()
	if mutate != nil {
		mutate(&opts)
	}
	s, err := NewSession(gen, opts, nil)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestNewSessionValidation(t *testing.T) {
	if _, err := NewSession(nil, DefaultSessionOptions(), nil); !errors.Is(err, ErrNoGenerator) {
		t.Fatalf("expected ErrNoGenerator, got %v", err)
	}

	gen, _ := NewGenerator(fixedRandom(0.5), nil)
	opts := DefaultSessionOptions()
	opts.Clock = nil
	if _, err := NewSession(gen, opts, nil); !errors.Is(err, ErrNoClock) {
		t.Fatalf("expected ErrNoClock, got %v", err)
	}

	bad, _ := NewGenerator(fixedRandom(math.NaN()), nil)
	if _, err := NewSession(bad, DefaultSessionOptions(), nil); !errors.Is(err, ErrNonFiniteSample) {
		t.Fatalf("expected cold start to fail with ErrNonFiniteSample, got %v", err)
	}
}

func TestColdStartHasCurrentSample(t *testing.T) {
	s := newTestSession(t, fixedRandom(0.5), nil)

	snap := s.Snapshot()
	if snap.Current.Timestamp.IsZero() {
		t.Fatalf("expected a generated sample before the first tick")
	}
	if len(snap.History) != 0 {
		t.Fatalf("expected empty history, got %d", len(snap.History))
	}
	if snap.Alerts == nil {
		t.Fatalf("alerts must never be nil")
	}
	if snap.Health.Status == "" {
		t.Fatalf("expected health status on cold start")
	}
	if snap.Tick != 0 {
		t.Fatalf("expected tick 0, got %d", snap.Tick)
	}
}

func TestTickPushesPreviousCurrent(t *testing.T) {
	s := newTestSession(t, fixedRandom(0.5), nil)

	before := s.CurrentSample()
	if err := s.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.History) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(snap.History))
	}
	if !snap.History[0].Timestamp.Equal(before.Timestamp) {
		t.Fatalf("history[0] should be the previous current sample")
	}
	if !snap.Current.Timestamp.After(before.Timestamp) {
		t.Fatalf("current sample was not replaced")
	}
	if snap.Tick != 1 {
		t.Fatalf("expected tick 1, got %d", snap.Tick)
	}
}

func TestTickCapsHistory(t *testing.T) {
	s := newTestSession(t, fixedRandom(0.5), func(o *SessionOptions) { o.HistoryCapacity = 5 })

	for i := 0; i < 12; i++ {
		if err := s.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	h := s.History()
	if len(h) != 5 {
		t.Fatalf("expected 5 samples, got %d", len(h))
	}
	for i := 1; i < len(h); i++ {
		if !h[i-1].Timestamp.After(h[i].Timestamp) {
			t.Fatalf("history not ordered most recent first at %d", i)
		}
	}
	if got := s.LatestHistory(2); len(got) != 2 || !got[0].Timestamp.Equal(h[0].Timestamp) {
		t.Fatalf("unexpected LatestHistory(2): %+v", got)
	}
}

func TestTickNotifiesSubscribers(t *testing.T) {
	s := newTestSession(t, fixedRandom(0.5), nil)

	var got []models.Snapshot
	cancel := s.Subscribe(func(snap models.Snapshot) { got = append(got, snap) })

	_ = s.Tick()
	_ = s.Tick()
	cancel()
	_ = s.Tick()

	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if got[1].Tick != 2 || len(got[1].History) != 2 {
		t.Fatalf("unexpected snapshot: tick=%d history=%d", got[1].Tick, len(got[1].History))
	}

	// published snapshots are copies
	got[1].History[0].OilLevel = -1
	if s.History()[1].OilLevel == -1 {
		t.Fatalf("subscriber mutated session history")
	}
}

func TestFailedTickLeavesStateIntact(t *testing.T) {
	random := &mutableRandom{v: 0.5}
	s := newTestSession(t, random, nil)
	_ = s.Tick()

	before := s.Snapshot()
	published := 0
	s.Subscribe(func(models.Snapshot) { published++ })

	random.set(math.NaN())
	if err := s.Tick(); !errors.Is(err, ErrNonFiniteSample) {
		t.Fatalf("expected ErrNonFiniteSample, got %v", err)
	}

	after := s.Snapshot()
	if published != 0 {
		t.Fatalf("failed tick must not publish")
	}
	if after.Tick != before.Tick || len(after.History) != len(before.History) {
		t.Fatalf("state changed after failed tick")
	}
	if !after.Current.Timestamp.Equal(before.Current.Timestamp) {
		t.Fatalf("current sample changed after failed tick")
	}

	random.set(0.5)
	if err := s.Tick(); err != nil {
		t.Fatalf("recovery tick: %v", err)
	}
}

func TestAlertsUseUpdatedHistory(t *testing.T) {
	s := newTestSession(t, fixedRandom(0.5), nil)
	if err := s.Tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}

	snap := s.Snapshot()
	want := NewAlertEngine(DefaultPredictionThresholds()).Evaluate(snap.Current, snap.History)
	if len(want) != len(snap.Alerts) {
		t.Fatalf("alerts out of sync with published history: want %d, got %d", len(want), len(snap.Alerts))
	}
}

func TestStartStopLifecycle(t *testing.T) {
	s := newTestSession(t, fixedRandom(0.5), nil)
	ctx := context.Background()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !s.Running() {
		t.Fatalf("expected running session")
	}
	if err := s.Start(ctx); !errors.Is(err, ErrSessionRunning) {
		t.Fatalf("expected ErrSessionRunning, got %v", err)
	}

	s.Stop()
	s.Stop()
	if s.Running() {
		t.Fatalf("expected stopped session")
	}

	// a stopped session can start again until closed
	if err := s.Start(ctx); err != nil {
		t.Fatalf("restart: %v", err)
	}
	s.Close()
	if err := s.Start(ctx); !errors.Is(err, ErrSessionStopped) {
		t.Fatalf("expected ErrSessionStopped, got %v", err)
	}
}

func TestNoTickAfterStop(t *testing.T) {
	s := newTestSession(t, fixedRandom(0.5), func(o *SessionOptions) { o.TickInterval = 5 * time.Millisecond })

	var ticks atomic.Int64
	s.Subscribe(func(models.Snapshot) { ticks.Add(1) })

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for ticks.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("clock did not tick")
		}
		time.Sleep(time.Millisecond)
	}

	s.Stop()
	stoppedAt := s.Snapshot().Tick
	seen := ticks.Load()

	time.Sleep(30 * time.Millisecond)

	if got := s.Snapshot().Tick; got != stoppedAt {
		t.Fatalf("tick advanced after Stop: %d -> %d", stoppedAt, got)
	}
	if got := ticks.Load(); got != seen {
		t.Fatalf("published after Stop: %d -> %d", seen, got)
	}
}

func TestContextCancelStopsClock(t *testing.T) {
	s := newTestSession(t, fixedRandom(0.5), func(o *SessionOptions) { o.TickInterval = 5 * time.Millisecond })

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	cancel()

	time.Sleep(20 * time.Millisecond)
	at := s.Snapshot().Tick
	time.Sleep(30 * time.Millisecond)
	if got := s.Snapshot().Tick; got != at {
		t.Fatalf("clock kept ticking after context cancel: %d -> %d", at, got)
	}
}

type recordingObserver struct {
	mu       sync.Mutex
	ticks    int
	failures int
}

func (r *recordingObserver) ObserveTick(models.Snapshot, time.Duration) {
	r.mu.Lock()
	r.ticks++
	r.mu.Unlock()
}

func (r *recordingObserver) ObserveTickFailure(error) {
	r.mu.Lock()
	r.failures++
	r.mu.Unlock()
}

func TestObserverSeesTicks(t *testing.T) {
	random := &mutableRandom{v: 0.2}
	obs := &recordingObserver{}
	s := newTestSession(t, random, func(o *SessionOptions) { o.Observer = obs })

	_ = s.Tick()
	random.set(math.Inf(1))
	_ = s.Tick()

	if obs.ticks != 1 || obs.failures != 1 {
		t.Fatalf("expected 1 tick and 1 failure, got %d/%d", obs.ticks, obs.failures)
	}
}
