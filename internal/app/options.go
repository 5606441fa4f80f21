package service

import (
	"time"

	"github.com/okian/classplay/internal/config"
	"github.com/okian/classplay/internal/domain/catalog"
	"github.com/okian/classplay/internal/domain/flashcard"
	"github.com/okian/classplay/internal/domain/fsm"
	"github.com/okian/classplay/internal/screen"
	"github.com/okian/classplay/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig applies every setting of cfg.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg == nil {
			return
		}
		s.maxSessions = cfg.MaxSessions
		s.idleTTL = cfg.SessionIdleTTL()
		s.sweepInterval = cfg.SessionSweepInterval()
		s.dedupeSize = cfg.DedupeSize
		s.queueSize = cfg.CelebrationQueueSize
		s.workerCount = cfg.CelebrationWorkers
		s.timings = screen.Timings{
			SpinTurns:        cfg.SpinTurns,
			SpinDuration:     cfg.SpinDuration(),
			WrongFlash:       cfg.WrongFlash(),
			FlashcardAdvance: cfg.FlashcardAdvance(),
			MoodVoteTTL:      cfg.MoodVoteTTL(),
		}
		if d, err := flashcard.ParseDifficulty(cfg.FlashcardDifficulty); err == nil {
			s.difficulty = d
		}
		s.moodPoll = cfg.MoodPollEnabled
		s.seed = cfg.Seed
	}
}

// WithWorkerCount sets the number of celebration workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the celebration queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many action ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxSessions caps the number of live sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithIdleEviction sets the idle TTL and how often it is checked. A zero
// TTL keeps sessions until they are closed.
func WithIdleEviction(ttl, sweep time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.idleTTL = ttl
		}
		if sweep > 0 {
			s.sweepInterval = sweep
		}
	}
}

// WithTimings sets the screen delays.
func WithTimings(t screen.Timings) Option {
	return func(s *Service) {
		s.timings = t
	}
}

// WithMoodPoll exposes or hides the mood poll.
func WithMoodPoll(enabled bool) Option {
	return func(s *Service) {
		s.moodPoll = enabled
	}
}

// WithCatalog replaces the built-in catalog.
func WithCatalog(c catalog.Catalog) Option {
	return func(s *Service) {
		s.catalog = c
	}
}

// WithClock sets the clock used by screen timers.
func WithClock(c fsm.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithSeed fixes the random source of the wheel. Zero seeds from the clock.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}
