package running

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/2beens/fitfood/internal/featurestore"
	"github.com/2beens/fitfood/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultTickInterval = time.Second
	// simulated progress per tick
	tickDistance = 0.01
)

var (
	ErrInvalidRun    = errors.New("distance and duration must not be negative")
	ErrRunInProgress = errors.New("a run is already in progress")
	ErrNoActiveRun   = errors.New("no active run")
	ErrShuttingDown  = errors.New("running tracker is shutting down")
)

// LiveRun is the state of a run in progress.
type LiveRun struct {
	Distance        float64   `json:"distance"`
	DurationSeconds int       `json:"duration"`
	Pace            string    `json:"pace"`
	Calories        int       `json:"calories"`
	StartedAt       time.Time `json:"startedAt"`
}

func (lr *LiveRun) tick() {
	lr.Distance = math.Round((lr.Distance+tickDistance)*100) / 100
	lr.DurationSeconds++
	lr.Pace = Pace(lr.Distance, lr.DurationSeconds)
	lr.Calories = Calories(lr.Distance)
}

type liveSession struct {
	mutex  sync.Mutex
	run    LiveRun
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *liveSession) snapshot() LiveRun {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.run
}

type Service struct {
	history        *featurestore.Document[[]Run]
	stats          *featurestore.Document[Stats]
	metricsManager *metrics.Manager
	tickInterval   time.Duration
	now            func() time.Time

	// sessions stop with the base context
	baseCtx    context.Context
	baseCancel context.CancelFunc
	mutex      sync.Mutex
	sessions   map[string]*liveSession
	closed     bool
	wg         sync.WaitGroup
}

func NewService(docs *featurestore.Documents, metricsManager *metrics.Manager, tickInterval time.Duration) *Service {
	if tickInterval <= 0 {
		tickInterval = DefaultTickInterval
	}
	baseCtx, baseCancel := context.WithCancel(context.Background())
	return &Service{
		history: featurestore.NewDocument(docs, featurestore.FeatureRunningHistory, func() []Run {
			return []Run{}
		}),
		stats:          featurestore.NewDocument(docs, featurestore.FeatureRunningStats, defaultStats),
		metricsManager: metricsManager,
		tickInterval:   tickInterval,
		now:            time.Now,
		baseCtx:        baseCtx,
		baseCancel:     baseCancel,
		sessions:       make(map[string]*liveSession),
	}
}

func (s *Service) Overview(ctx context.Context, userID string) (*Overview, error) {
	history, err := s.history.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Overview{History: history, Stats: stats}, nil
}

// RecordRun prepends the run to the history and recomputes the stats, in one update.
func (s *Service) RecordRun(ctx context.Context, userID string, req RecordRequest) (*Overview, error) {
	if req.Distance < 0 || req.DurationSeconds < 0 || math.IsNaN(req.Distance) {
		return nil, ErrInvalidRun
	}

	history, stats, err := featurestore.UpdatePair(ctx, s.history, s.stats, userID, func(history *[]Run, stats *Stats) error {
		now := s.now()
		taken := make([]int64, 0, len(*history))
		for _, run := range *history {
			taken = append(taken, run.ID)
		}
		run := newRun(featurestore.NextID(now, taken...), req, now)
		*history = append([]Run{run}, *history...)
		*stats = ComputeStats(*history, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Overview{History: history, Stats: stats}, nil
}

// Start begins a live run for the user, advanced once per tick until stopped.
func (s *Service) Start(userID string) (LiveRun, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return LiveRun{}, ErrShuttingDown
	}
	if _, ok := s.sessions[userID]; ok {
		return LiveRun{}, ErrRunInProgress
	}

	ctx, cancel := context.WithCancel(s.baseCtx)
	session := &liveSession{
		run:    LiveRun{Pace: "0:00", StartedAt: s.now().UTC()},
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.sessions[userID] = session
	if s.metricsManager != nil {
		s.metricsManager.GaugeActiveRuns.Inc()
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(session.done)
		ticker := time.NewTicker(s.tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				session.mutex.Lock()
				session.run.tick()
				session.mutex.Unlock()
			}
		}
	}()

	log.Debugf("live run started for [%s]", userID)
	return session.snapshot(), nil
}

func (s *Service) Current(userID string) (LiveRun, error) {
	s.mutex.Lock()
	session, ok := s.sessions[userID]
	s.mutex.Unlock()
	if !ok {
		return LiveRun{}, ErrNoActiveRun
	}
	return session.snapshot(), nil
}

// Stop ends the live run and records it. When recording fails the stopped run
// stays in place and a later Stop retries it.
func (s *Service) Stop(ctx context.Context, userID string) (*Overview, error) {
	s.mutex.Lock()
	session, ok := s.sessions[userID]
	if ok {
		delete(s.sessions, userID)
	}
	s.mutex.Unlock()
	if !ok {
		return nil, ErrNoActiveRun
	}

	session.cancel()
	<-session.done

	final := session.snapshot()
	log.Debugf("live run stopped for [%s]: %.2f km in %ds", userID, final.Distance, final.DurationSeconds)
	overview, err := s.RecordRun(ctx, userID, RecordRequest{
		Distance:        final.Distance,
		DurationSeconds: final.DurationSeconds,
	})
	if err != nil {
		if s.restore(userID, session) {
			return nil, err
		}
		log.Errorf("live run of [%s] dropped, recording failed: %s", userID, err)
	}

	if s.metricsManager != nil {
		s.metricsManager.GaugeActiveRuns.Dec()
	}
	return overview, err
}

// restore puts a stopped session back, unless the user started another run
// or the service is shut down.
func (s *Service) restore(userID string, session *liveSession) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, taken := s.sessions[userID]; taken || s.closed {
		return false
	}
	s.sessions[userID] = session
	return true
}

// Shutdown cancels all live runs without recording them.
func (s *Service) Shutdown() {
	s.mutex.Lock()
	s.closed = true
	s.mutex.Unlock()

	s.baseCancel()
	s.wg.Wait()

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.metricsManager != nil {
		s.metricsManager.GaugeActiveRuns.Sub(float64(len(s.sessions)))
	}
	s.sessions = make(map[string]*liveSession)
}
