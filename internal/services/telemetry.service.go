package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"vehicledash/internal/models"
)

var (
	ErrNoGenerator    = errors.New("session: generator is required")
	ErrNoClock        = errors.New("session: clock is required")
	ErrSessionRunning = errors.New("session: already running")
	ErrSessionStopped = errors.New("session: closed")
)

// DefaultTickInterval is how often the session regenerates telemetry
const DefaultTickInterval = 2 * time.Second

// TickObserver is told about every tick outcome (metrics, tracing)
type TickObserver interface {
	ObserveTick(snap models.Snapshot, took time.Duration)
	ObserveTickFailure(err error)
}

type SessionOptions struct {
	TickInterval    time.Duration
	HistoryCapacity int
	Clock           func() time.Time
	Prediction      PredictionThresholds
	Health          HealthThresholds
	Observer        TickObserver
}

// DefaultSessionOptions uses the stock thresholds and the wall clock
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		TickInterval:    DefaultTickInterval,
		HistoryCapacity: DefaultHistoryCapacity,
		Clock:           time.Now,
		Prediction:      DefaultPredictionThresholds(),
		Health:          DefaultHealthThresholds(),
	}
}

// Session owns one simulated vehicle: its generator, history, alerts and
// the periodic clock that drives them. The tick loop is the only writer.
type Session struct {
	logger     *zap.Logger
	generator  *Generator
	engine     *AlertEngine
	classifier *HealthClassifier
	history    *HistoryBuffer
	clock      func() time.Time
	interval   time.Duration
	observer   TickObserver

	// mu serializes a tick's push/generate/evaluate/publish against readers
	mu          sync.RWMutex
	current     models.Sample
	alerts      []models.Alert
	health      models.HealthStatus
	tick        uint64
	generatedAt time.Time

	subsMu  sync.Mutex
	subs    map[int]func(models.Snapshot)
	nextSub int

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	closed bool
}

// NewSession builds a session and generates its cold-start sample
func NewSession(gen *Generator, opts SessionOptions, logger *zap.Logger) (*Session, error) {
	if gen == nil {
		return nil, ErrNoGenerator
	}
	if opts.Clock == nil {
		return nil, ErrNoClock
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Session{
		logger:     logger.Named("session"),
		generator:  gen,
		engine:     NewAlertEngine(opts.Prediction),
		classifier: NewHealthClassifier(opts.Health),
		history:    NewHistoryBuffer(opts.HistoryCapacity),
		clock:      opts.Clock,
		interval:   opts.TickInterval,
		observer:   opts.Observer,
		subs:       make(map[int]func(models.Snapshot)),
	}

	now := s.clock()
	first, err := gen.Generate(now)
	if err != nil {
		return nil, fmt.Errorf("cold start: %w", err)
	}
	s.current = first
	s.alerts = s.engine.Evaluate(first, nil)
	s.health = s.classifier.Classify(first)
	s.generatedAt = now
	return s, nil
}

// Start launches the periodic clock. It returns immediately.
func (s *Session) Start(ctx context.Context) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if s.closed {
		return ErrSessionStopped
	}
	if s.cancel != nil {
		return ErrSessionRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go s.run(ctx, done)

	s.logger.Info("telemetry clock started", zap.Duration("interval", s.interval))
	return nil
}

func (s *Session) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// a stop racing with the ticker wins
			if ctx.Err() != nil {
				return
			}
			if err := s.Tick(); err != nil {
				s.logger.Error("tick failed", zap.Error(err))
			}
		}
	}
}

// Stop cancels the clock and waits for an in-flight tick to publish.
// No tick fires after Stop returns. Stopping an idle session is a no-op.
func (s *Session) Stop() {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
	s.logger.Info("telemetry clock stopped", zap.Uint64("ticks", s.Snapshot().Tick))
}

// Close stops the session and drops all subscribers; it cannot be restarted.
func (s *Session) Close() {
	s.Stop()

	s.runMu.Lock()
	s.closed = true
	s.runMu.Unlock()

	s.subsMu.Lock()
	s.subs = make(map[int]func(models.Snapshot))
	s.subsMu.Unlock()
}

// Running reports whether the clock is active
func (s *Session) Running() bool {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.cancel != nil
}

// Tick advances the session by one step. On a generation error nothing is
// published and the previous state stays intact.
func (s *Session) Tick() error {
	started := time.Now()

	next, err := s.generator.Generate(s.clock())
	if err != nil {
		if s.observer != nil {
			s.observer.ObserveTickFailure(err)
		}
		return err
	}

	s.mu.Lock()
	s.history.Push(s.current)
	s.current = next
	s.alerts = s.engine.Evaluate(next, s.history.All())
	s.health = s.classifier.Classify(next)
	s.tick++
	s.generatedAt = next.Timestamp
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if s.observer != nil {
		s.observer.ObserveTick(snap, time.Since(started))
	}
	s.publish(snap)
	return nil
}

func (s *Session) publish(snap models.Snapshot) {
	s.subsMu.Lock()
	fns := make([]func(models.Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Subscribe registers fn to receive each published snapshot. Calls happen on
// the tick goroutine, so fn must not block. The returned func unsubscribes.
func (s *Session) Subscribe(fn func(models.Snapshot)) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

func (s *Session) snapshotLocked() models.Snapshot {
	alerts := make([]models.Alert, len(s.alerts))
	copy(alerts, s.alerts)
	return models.Snapshot{
		Current:     s.current,
		History:     s.history.All(),
		Alerts:      alerts,
		Health:      s.health,
		Tick:        s.tick,
		GeneratedAt: s.generatedAt,
	}
}

// Snapshot returns a consistent copy of the published state
func (s *Session) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// CurrentSample returns the latest sample
func (s *Session) CurrentSample() models.Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// History returns the retained samples, most recent first
func (s *Session) History() []models.Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.All()
}

// LatestHistory returns at most n retained samples, most recent first
func (s *Session) LatestHistory(n int) []models.Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.Latest(n)
}

// ActiveAlerts returns the alerts derived on the last tick
func (s *Session) ActiveAlerts() []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// Health returns the status of the current sample
func (s *Session) Health() models.HealthStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.health
}

// ChannelRanges returns a copy of the static range table
func (s *Session) ChannelRanges() models.ChannelRanges {
	return s.generator.ranges.Clone()
}

// Interval returns the tick period
func (s *Session) Interval() time.Duration {
	return s.interval
}
