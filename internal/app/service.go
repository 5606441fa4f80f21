// Package service hosts classroom game sessions and implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/classplay/internal/adapters/broadcast"
	eventqueue "github.com/okian/classplay/internal/adapters/mq/queue"
	workerpool "github.com/okian/classplay/internal/adapters/mq/worker"
	"github.com/okian/classplay/internal/adapters/repository"
	"github.com/okian/classplay/internal/domain/catalog"
	"github.com/okian/classplay/internal/domain/dedupe"
	"github.com/okian/classplay/internal/domain/flashcard"
	"github.com/okian/classplay/internal/domain/fsm"
	"github.com/okian/classplay/internal/domain/model"
	"github.com/okian/classplay/internal/domain/types"
	"github.com/okian/classplay/internal/screen"
	"github.com/okian/classplay/pkg/logger"
	"github.com/okian/classplay/pkg/metrics"
)

// Service owns every live session and the celebration pipeline behind them.
type Service struct {
	mu sync.RWMutex

	// Core components
	sessions   repository.Store
	deduper    dedupe.Deduper
	queue      eventqueue.Queue
	hub        *broadcast.Broadcaster
	workerPool *workerpool.Pool
	cancel     context.CancelFunc

	// Configuration
	catalog       catalog.Catalog
	timings       screen.Timings
	difficulty    flashcard.Difficulty
	moodPoll      bool
	clock         fsm.Clock
	seed          int64
	maxSessions   int
	idleTTL       time.Duration
	sweepInterval time.Duration
	workerCount   int
	queueSize     int
	dedupeSize    int

	// State
	started   bool
	startedAt time.Time
	rngMu     sync.Mutex
	rng       *rand.Rand

	applied    atomic.Int64
	duplicates atomic.Int64
	rejected   atomic.Int64
	queued     atomic.Int64
	dropped    atomic.Int64

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		catalog:       catalog.Default(),
		timings:       screen.DefaultTimings(),
		difficulty:    flashcard.Medium,
		clock:         fsm.RealClock(),
		maxSessions:   1000,
		idleTTL:       30 * time.Minute,
		sweepInterval: time.Minute,
		workerCount:   2,
		queueSize:     1024,
		dedupeSize:    10_000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the session store and the celebration pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if err := s.catalog.Validate(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	s.logger.Info(ctx, "starting classplay service...")

	seed := s.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // game randomness

	// the store and workers outlive the request that started them
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	s.hub = broadcast.New(0)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.sessions = repository.NewMemoryStore(runCtx,
		repository.WithCapacity(s.maxSessions),
		repository.WithIdleTTL(s.idleTTL),
		repository.WithSweepInterval(s.sweepInterval),
		repository.WithEvictHook(s.onEvict),
		repository.WithNow(s.clock.Now),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, s.hub, workerpool.SinkFunc(s.logCelebration))
	s.workerPool.Start(runCtx)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "classplay service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("maxSessions", s.maxSessions),
		logger.Bool("moodPoll", s.moodPoll),
	)
	return nil
}

// Stop closes every session, drains the celebration queue and releases the
// stream subscribers.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping classplay service...")

	if err := s.sessions.Close(); err != nil {
		s.logger.Error(ctx, "error closing session store", logger.Error(err))
	}
	if err := s.workerPool.Shutdown(ctx); err != nil {
		s.logger.Error(ctx, "error stopping worker pool", logger.Error(err))
	}
	s.hub.Close()
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "classplay service stopped")
}

// Catalog returns the content the screens are built from.
func (s *Service) Catalog() catalog.Catalog { return s.catalog }

// MoodPollEnabled reports whether the mood poll is exposed.
func (s *Service) MoodPollEnabled() bool { return s.moodPoll }

// Kinds returns the session kinds that may be created.
func (s *Service) Kinds() []string {
	out := make([]string, 0, len(screen.Kinds))
	for _, k := range screen.Kinds {
		if k == screen.KindMood && !s.moodPoll {
			continue
		}
		out = append(out, string(k))
	}
	return out
}

// CreateSession starts a new screen of the given kind. difficulty only
// applies to flashcard sessions; empty means the configured default.
func (s *Service) CreateSession(ctx context.Context, kind, difficulty string) (types.SessionView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return types.SessionView{}, ErrNotStarted
	}

	k, err := screen.ParseKind(kind)
	if err != nil {
		return types.SessionView{}, err
	}
	if k == screen.KindMood && !s.moodPoll {
		return types.SessionView{}, fmt.Errorf("%w: %s", ErrKindDisabled, k)
	}
	level := s.difficulty
	if difficulty != "" {
		if level, err = flashcard.ParseDifficulty(difficulty); err != nil {
			return types.SessionView{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}

	id := uuid.NewString()
	var sess *repository.Session
	scr, err := screen.New(k, screen.Options{
		Catalog:    s.catalog,
		Timings:    s.timings,
		Difficulty: level,
		Clock:      s.clock,
		Rand:       s.sessionRand(),
		Logger:     s.logger.Named(string(k)),
		Celebrate:  func(b fsm.Burst) { s.celebrate(id, b) },
		OnChange: func() {
			if sess != nil {
				s.hub.Publish(id, broadcast.EventView, s.view(sess, false))
			}
		},
	})
	if err != nil {
		return types.SessionView{}, err
	}
	sess = repository.NewSession(id, scr, s.clock.Now())
	if err := s.sessions.Put(ctx, sess); err != nil {
		scr.Close()
		return types.SessionView{}, err
	}

	metrics.RecordSessionCreated(string(k))
	s.logger.Info(ctx, "session created", logger.String("session", id), logger.String("kind", string(k)))
	return s.view(sess, false), nil
}

// View returns the current state of a session.
func (s *Service) View(ctx context.Context, id string) (types.SessionView, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return types.SessionView{}, err
	}
	return s.view(sess, false), nil
}

// Dispatch applies one client action to a session. An action whose id was
// already applied to the session is not applied again; the current view is
// returned with Duplicate set. Actions of one session are dispatched one at a
// time, so a retry racing its original sees either the applied action or, when
// the original was rejected, gets applied itself.
func (s *Service) Dispatch(ctx context.Context, id string, a model.Action) (types.SessionView, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return types.SessionView{}, err
	}
	if a.ReceivedAt.IsZero() {
		a.ReceivedAt = s.clock.Now()
	}

	var (
		view types.SessionView
		derr error
	)
	sess.Exclusive(func() {
		view, derr = s.dispatch(ctx, sess, a)
	})
	return view, derr
}

func (s *Service) dispatch(ctx context.Context, sess *repository.Session, a model.Action) (types.SessionView, error) { //nolint:gocritic // hugeParam: action is a value
	var key string
	if a.ID != "" {
		key = sess.ID + "/" + a.ID
		if s.deduper.SeenAndRecord(ctx, key) {
			s.duplicates.Add(1)
			metrics.RecordActionDuplicate()
			s.logger.Debug(ctx, "duplicate action skipped",
				logger.String("session", sess.ID),
				logger.String("action", a.ID),
			)
			return s.view(sess, true), nil
		}
	}

	state, err := sess.Screen.Apply(ctx, a)
	if err != nil {
		if key != "" {
			s.deduper.Unrecord(ctx, key)
		}
		s.rejected.Add(1)
		metrics.RecordActionRejected(string(sess.Kind), rejectReason(err))
		return types.SessionView{}, err
	}

	s.applied.Add(1)
	metrics.RecordAction(string(sess.Kind), a.Type)
	return types.SessionView{ID: sess.ID, Kind: string(sess.Kind), CreatedAt: sess.CreatedAt, State: state}, nil
}

// CloseSession ends a session and cancels its pending timers.
func (s *Service) CloseSession(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, id)
}

// Subscribe returns the current view of a session and a channel of its later
// updates. The channel closes when cancel is called or the session ends.
func (s *Service) Subscribe(ctx context.Context, id string) (types.SessionView, <-chan broadcast.Message, func(), error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return types.SessionView{}, nil, nil, err
	}
	updates, cancel := s.hub.Subscribe(id)
	return s.view(sess, false), updates, cancel, nil
}

// Sessions lists the live sessions.
func (s *Service) Sessions(ctx context.Context) ([]model.SessionInfo, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	all := s.sessions.List(ctx)
	out := make([]model.SessionInfo, 0, len(all))
	for _, sess := range all {
		out = append(out, model.SessionInfo{
			ID:         sess.ID,
			Kind:       string(sess.Kind),
			CreatedAt:  sess.CreatedAt,
			LastActive: sess.LastActive(),
		})
	}
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := types.Stats{
		SessionsByKind:      map[string]int{},
		ActionsApplied:      s.applied.Load(),
		ActionsDuplicate:    s.duplicates.Load(),
		ActionsRejected:     s.rejected.Load(),
		CelebrationsQueued:  s.queued.Load(),
		CelebrationsDropped: s.dropped.Load(),
		QueueCapacity:       s.queueSize,
	}
	if !s.started {
		return stats
	}

	snap := s.sessions.Snapshot()
	stats.Sessions = snap.Total
	stats.SessionsByKind = snap.ByKind
	stats.QueueLen = s.queue.Len(context.Background())
	stats.QueueCapacity = s.queue.Cap()
	stats.DedupeSize = s.deduper.Size()
	stats.Subscribers = s.hub.Subscribers()
	stats.Uptime = time.Since(s.startedAt).Round(time.Second).String()
	return stats
}

// Sweep evicts idle sessions immediately instead of waiting for the next tick.
func (s *Service) Sweep(ctx context.Context) int {
	if err := s.ready(); err != nil {
		return 0
	}
	return s.sessions.Sweep(ctx, s.clock.Now())
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

func (s *Service) session(ctx context.Context, id string) (*repository.Session, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.sessions.Get(ctx, id)
}

func (s *Service) view(sess *repository.Session, duplicate bool) types.SessionView {
	return types.SessionView{
		ID:        sess.ID,
		Kind:      string(sess.Kind),
		CreatedAt: sess.CreatedAt,
		Duplicate: duplicate,
		State:     sess.Screen.View(),
	}
}

func (s *Service) sessionRand() *rand.Rand {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return rand.New(rand.NewSource(s.rng.Int63())) //nolint:gosec // game randomness
}

// celebrate hands a burst to the queue without blocking the screen.
func (s *Service) celebrate(id string, b fsm.Burst) {
	c := types.Celebration{SessionID: id, Burst: b, At: s.clock.Now()}
	if err := s.queue.Enqueue(context.Background(), c); err != nil {
		s.dropped.Add(1)
		s.logger.Warn(context.Background(), "celebration dropped",
			logger.String("session", id),
			logger.String("event", b.Event),
			logger.Error(err),
		)
		return
	}
	s.queued.Add(1)
}

func (s *Service) logCelebration(ctx context.Context, c types.Celebration) error { //nolint:gocritic // hugeParam: sink signature
	s.logger.Debug(ctx, "celebration delivered",
		logger.String("session", c.SessionID),
		logger.String("event", c.Burst.Event),
		logger.Int("particles", c.Burst.ParticleCount),
	)
	return nil
}

func (s *Service) onEvict(sess *repository.Session, reason string) {
	metrics.RecordSessionClosed(string(sess.Kind), reason)
	s.hub.CloseSession(sess.ID)
	s.logger.Info(context.Background(), "session closed",
		logger.String("session", sess.ID),
		logger.String("kind", string(sess.Kind)),
		logger.String("reason", reason),
	)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrIncompleteSelection):
		return "incomplete"
	case errors.Is(err, ErrSessionClosed):
		return "closed"
	case errors.Is(err, ErrInvalidAction):
		return "invalid"
	}
	return "error"
}
