package simulate

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/classplay/pkg/logger"
)

type serverStats struct {
	ActionsApplied   int64 `json:"actions_applied"`
	ActionsDuplicate int64 `json:"actions_duplicate"`
}

// Run plays cfg.Classrooms classrooms against the server and verifies the
// server counters afterwards.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("simulate")
	c := newClient(cfg, stats)

	log.Info(ctx, "starting classroom simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("classrooms", cfg.Classrooms),
		logger.Int("rounds", cfg.Rounds),
		logger.Int("workers", cfg.Workers),
		logger.Bool("replay", cfg.Replay),
	)

	if err := c.health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}
	cat, err := c.catalog(ctx)
	if err != nil {
		return stats, fmt.Errorf("catalog: %w", err)
	}
	before, err := c.serverStats(ctx)
	if err != nil {
		return stats, fmt.Errorf("stats: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for room := range cfg.Classrooms {
		g.Go(func() error {
			return playClassroom(gctx, c, cat, room, cfg, log)
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}

	after, err := c.serverStats(ctx)
	if err != nil {
		return stats, fmt.Errorf("stats: %w", err)
	}
	if err := verify(stats, before, after); err != nil {
		return stats, err
	}

	stats.Duration = time.Since(stats.StartTime)
	displayFinalStats(ctx, log, stats)
	return stats, nil
}

func playClassroom(ctx context.Context, c *client, cat catalog, room int, cfg *Config, log logger.Logger) error {
	for _, kind := range cat.Kinds {
		play, ok := players[kind]
		if !ok {
			continue
		}
		v, err := c.create(ctx, kind)
		if err != nil {
			return fmt.Errorf("classroom %d: create %s: %w", room, kind, err)
		}
		if cfg.Verbose {
			log.Debug(ctx, "session opened", logger.Int("classroom", room), logger.String("kind", kind), logger.String("session", v.ID))
		}
		err = play(ctx, c, cat, v.ID, cfg.Rounds)
		if cerr := c.close(ctx, v.ID); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("classroom %d: %s: %w", room, kind, err)
		}
	}
	return nil
}

func (c *client) serverStats(ctx context.Context) (serverStats, error) {
	var s serverStats
	err := c.do(ctx, http.MethodGet, "/stats", nil, &s)
	return s, err
}

// verify checks that the server saw at least what this run sent. Other
// clients may add to the counters, never subtract.
func verify(stats *Stats, before, after serverStats) error {
	applied := after.ActionsApplied - before.ActionsApplied
	if applied < stats.Actions.Load() {
		return fmt.Errorf("%w: server applied %d actions, sent %d", ErrVerification, applied, stats.Actions.Load())
	}
	dups := after.ActionsDuplicate - before.ActionsDuplicate
	if dups < stats.Duplicates.Load() {
		return fmt.Errorf("%w: server counted %d duplicates, replayed %d", ErrVerification, dups, stats.Duplicates.Load())
	}
	return nil
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var actionsPerSecond float64
	if stats.Duration > 0 {
		actionsPerSecond = float64(stats.Actions.Load()) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int64("sessions", stats.Sessions.Load()),
		logger.Int64("actions", stats.Actions.Load()),
		logger.Int64("duplicates", stats.Duplicates.Load()),
		logger.Int64("rejected", stats.Rejected.Load()),
		logger.Int64("wins", stats.Wins.Load()),
		logger.Int64("sentences", stats.Sentences.Load()),
		logger.Int64("reveals", stats.Reveals.Load()),
		logger.Int64("votes", stats.Votes.Load()),
		logger.Duration("duration", stats.Duration),
		logger.Float64("actionsPerSecond", actionsPerSecond),
	)
}
