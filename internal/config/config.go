// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Durations are configured in milliseconds and exposed through helpers.
// - New returns a Config filled with defaults; Load layers file and env on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`
	// LogFile, when set, also writes logs to a rotating file.
	LogFile      string `koanf:"log_file"`
	LogMaxSizeMB int    `koanf:"log_max_size_mb"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// MaxSessions caps the number of hosted screen sessions.
	MaxSessions int `koanf:"max_sessions"`
	// SessionIdleTTLMS closes sessions without activity for this long; 0 keeps
	// them until deleted.
	SessionIdleTTLMS int `koanf:"session_idle_ttl_ms"`
	// SessionSweepIntervalMS is how often idle sessions are swept.
	SessionSweepIntervalMS int `koanf:"session_sweep_interval_ms"`

	// DedupeSize bounds the number of remembered action ids.
	DedupeSize int `koanf:"dedupe_size"`

	// CelebrationQueueSize bounds the celebration queue.
	CelebrationQueueSize int `koanf:"celebration_queue_size"`
	// CelebrationWorkers is the number of goroutines draining the queue.
	CelebrationWorkers int `koanf:"celebration_workers"`

	// SpinTurns is the number of full turns added to every spin.
	SpinTurns int `koanf:"spin_turns"`
	// SpinDurationMS is how long the wheel spins before guessing opens.
	SpinDurationMS int `koanf:"spin_duration_ms"`
	// WrongFlashMS is how long a wrong-answer indicator stays up.
	WrongFlashMS int `koanf:"wrong_flash_ms"`

	// FlashcardDifficulty picks the default reveal delay: easy, medium, hard.
	FlashcardDifficulty string `koanf:"flashcard_difficulty"`
	// FlashcardAdvanceMS is the gap between hiding a card and showing the next.
	FlashcardAdvanceMS int `koanf:"flashcard_advance_ms"`

	// MoodVoteTTLMS is how long one mood vote stays on display.
	MoodVoteTTLMS int `koanf:"mood_vote_ttl_ms"`
	// MoodPollEnabled exposes the mood poll page and session kind.
	MoodPollEnabled bool `koanf:"mood_poll_enabled"`

	// Seed fixes the wheel's random source; 0 seeds from the clock.
	Seed int64 `koanf:"seed"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		LogMaxSizeMB:           50,
		Addr:                   ":9080",
		MaxSessions:            1000,
		SessionIdleTTLMS:       30 * 60 * 1000,
		SessionSweepIntervalMS: 60 * 1000,
		DedupeSize:             10_000,
		CelebrationQueueSize:   1024,
		CelebrationWorkers:     2,
		SpinTurns:              5,
		SpinDurationMS:         3000,
		WrongFlashMS:           500,
		FlashcardDifficulty:    "medium",
		FlashcardAdvanceMS:     500,
		MoodVoteTTLMS:          2000,
		MoodPollEnabled:        false,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxSessions <= 0:
		return fmt.Errorf("%w: max_sessions must be positive", ErrInvalidConfig)
	case c.SessionIdleTTLMS < 0:
		return fmt.Errorf("%w: session_idle_ttl_ms must not be negative", ErrInvalidConfig)
	case c.SessionSweepIntervalMS <= 0:
		return fmt.Errorf("%w: session_sweep_interval_ms must be positive", ErrInvalidConfig)
	case c.SpinTurns < 0:
		return fmt.Errorf("%w: spin_turns must not be negative", ErrInvalidConfig)
	case c.SpinDurationMS < 0, c.WrongFlashMS < 0, c.FlashcardAdvanceMS < 0, c.MoodVoteTTLMS < 0:
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidConfig)
	case c.CelebrationQueueSize <= 0:
		return fmt.Errorf("%w: celebration_queue_size must be positive", ErrInvalidConfig)
	case c.CelebrationWorkers <= 0:
		return fmt.Errorf("%w: celebration_workers must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.FlashcardDifficulty) {
	case "easy", "medium", "hard":
	default:
		return fmt.Errorf("%w: unknown flashcard_difficulty %q", ErrInvalidConfig, c.FlashcardDifficulty)
	}
	return nil
}

// SessionIdleTTL returns the idle eviction window; zero disables eviction.
func (c *Config) SessionIdleTTL() time.Duration { return ms(c.SessionIdleTTLMS) }

// SessionSweepInterval returns the sweep period.
func (c *Config) SessionSweepInterval() time.Duration { return ms(c.SessionSweepIntervalMS) }

// SpinDuration returns how long a spin lasts.
func (c *Config) SpinDuration() time.Duration { return ms(c.SpinDurationMS) }

// WrongFlash returns how long a wrong-answer flag is shown.
func (c *Config) WrongFlash() time.Duration { return ms(c.WrongFlashMS) }

// FlashcardAdvance returns the hide-to-next delay.
func (c *Config) FlashcardAdvance() time.Duration { return ms(c.FlashcardAdvanceMS) }

// MoodVoteTTL returns how long a vote is displayed.
func (c *Config) MoodVoteTTL() time.Duration { return ms(c.MoodVoteTTLMS) }

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }
