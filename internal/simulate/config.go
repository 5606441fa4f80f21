// Package simulate drives a running classplay server with simulated
// classrooms: every classroom opens one session per screen and plays it
// through the public HTTP API.
package simulate

import (
	"sync/atomic"
	"time"
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Classrooms int           // Number of simulated classrooms
	Rounds     int           // Rounds played per screen
	Workers    int           // Classrooms played concurrently
	Timeout    time.Duration // HTTP request timeout
	Settle     time.Duration // Longest wait for a timed transition
	Replay     bool          // Send every action twice with the same id
	Verbose    bool          // Enable verbose logging
}

// Stats holds run statistics. Counters are safe for concurrent use.
type Stats struct {
	Sessions   atomic.Int64
	Actions    atomic.Int64
	Duplicates atomic.Int64
	Rejected   atomic.Int64
	Wins       atomic.Int64
	Sentences  atomic.Int64
	Reveals    atomic.Int64
	Votes      atomic.Int64

	StartTime time.Time
	Duration  time.Duration
}

// view is the subset of a session view the players read.
type view struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Duplicate bool   `json:"duplicate"`
	State     state  `json:"state"`
}

type state struct {
	Phase     string  `json:"phase"`
	Wins      int     `json:"wins"`
	Target    *sector `json:"target"`
	Open      bool    `json:"open"`
	Reveals   int     `json:"reveals"`
	Total     int     `json:"total"`
	Completed []int   `json:"completed"`
	Progress  string  `json:"progress"`
}

type sector struct {
	Label string `json:"label"`
}

// catalog is the subset of /api/catalog the players read.
type catalog struct {
	Sectors []sector `json:"sectors"`
	Moods []struct {
		ID string `json:"id"`
	} `json:"moods"`
	Challenges []struct {
		ID                 int      `json:"id"`
		AcceptableSubjects []string `json:"acceptable_subjects"`
	} `json:"challenges"`
	Options struct {
		Subjects    []string `json:"subjects"`
		Verbs       []string `json:"verbs"`
		Descriptors []string `json:"descriptors"`
	} `json:"options"`
	Kinds []string `json:"kinds"`
}

type action struct {
	ActionID    string `json:"action_id,omitempty"`
	Type        string `json:"type"`
	Label       string `json:"label,omitempty"`
	Mood        string `json:"mood,omitempty"`
	ChallengeID int    `json:"challenge_id,omitempty"`
	Slot        string `json:"slot,omitempty"`
	Word        string `json:"word,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
}

type apiError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	return e.Code + ": " + e.Message
}
