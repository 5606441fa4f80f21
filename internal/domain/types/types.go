// Package types contains the JSON views shared by the service and the HTTP layer.
package types

import (
	"time"

	"github.com/okian/classplay/internal/domain/catalog"
	"github.com/okian/classplay/internal/domain/fsm"
)

// SessionView is the envelope returned for every session request.
type SessionView struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	Duplicate bool      `json:"duplicate,omitempty"`
	State     any       `json:"state"`
}

// SpinnerView is the spinner screen as the page renders it.
type SpinnerView struct {
	Phase      string           `json:"phase"`
	Rotation   int              `json:"rotation"`
	FinalAngle int              `json:"final_angle"`
	Target     *catalog.Sector  `json:"target,omitempty"`
	Options    []catalog.Sector `json:"options"`
	Wrong      string           `json:"wrong,omitempty"`
	Spins      int              `json:"spins"`
	Wins       int              `json:"wins"`
	Misses     int              `json:"misses"`
}

// FlashcardView is the animal box. Animal is only present while revealed.
type FlashcardView struct {
	Phase        string          `json:"phase"`
	Index        int             `json:"index"`
	Total        int             `json:"total"`
	Open         bool            `json:"open"`
	Animal       *catalog.Animal `json:"animal,omitempty"`
	Difficulty   string          `json:"difficulty"`
	DelayMS      int64           `json:"delay_ms"`
	Difficulties []string        `json:"difficulties"`
	Reveals      int             `json:"reveals"`
}

// MoodVoteView is one displayed vote bubble.
type MoodVoteView struct {
	ID     string    `json:"id"`
	Mood   string    `json:"mood"`
	Emoji  string    `json:"emoji"`
	Label  string    `json:"label"`
	Color  string    `json:"color"`
	CastAt time.Time `json:"cast_at"`
}

// MoodView is the mood poll.
type MoodView struct {
	Moods []catalog.Mood `json:"moods"`
	Votes []MoodVoteView `json:"votes"`
	Tally map[string]int `json:"tally"`
	Total int            `json:"total"`
}

// ChallengeCard is one card on the sentence board.
type ChallengeCard struct {
	ID        int    `json:"id"`
	ImageRef  string `json:"image_ref"`
	Completed bool   `json:"completed"`
}

// SentenceView is the sentence board and its modal.
type SentenceView struct {
	Cards      []ChallengeCard         `json:"cards"`
	ActiveID   int                     `json:"active_id,omitempty"`
	Subject    string                  `json:"subject,omitempty"`
	Verb       string                  `json:"verb,omitempty"`
	Descriptor string                  `json:"descriptor,omitempty"`
	CanCheck   bool                    `json:"can_check"`
	Error      bool                    `json:"error"`
	Completed  []int                   `json:"completed"`
	Progress   string                  `json:"progress"`
	Options    catalog.SentenceOptions `json:"options"`
}

// Celebration is a burst delivered to one session's subscribers.
type Celebration struct {
	SessionID string    `json:"session_id"`
	Burst     fsm.Burst `json:"burst"`
	At        time.Time `json:"at"`
}

// Stats is the service summary served on /stats.
type Stats struct {
	Sessions            int            `json:"sessions"`
	SessionsByKind      map[string]int `json:"sessions_by_kind"`
	ActionsApplied      int64          `json:"actions_applied"`
	ActionsDuplicate    int64          `json:"actions_duplicate"`
	ActionsRejected     int64          `json:"actions_rejected"`
	CelebrationsQueued  int64          `json:"celebrations_queued"`
	CelebrationsDropped int64          `json:"celebrations_dropped"`
	QueueLen            int            `json:"queue_len"`
	QueueCapacity       int            `json:"queue_capacity"`
	DedupeSize          int64          `json:"dedupe_size"`
	Subscribers         int            `json:"subscribers"`
	Uptime              string         `json:"uptime"`
}
