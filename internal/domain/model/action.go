// Package model contains domain models passed between layers.
package model

import "time"

// Action types accepted by the screens.
const (
	ActionSpin       = "spin"
	ActionGuess      = "guess"
	ActionReset      = "reset"
	ActionOpen       = "open"
	ActionDifficulty = "difficulty"
	ActionVote       = "vote"
	ActionChoose     = "choose"
	ActionCheck      = "check"
	ActionClose      = "close"
)

// Action is one client interaction with a screen session. Only the fields
// relevant to Type are read.
type Action struct {
	ID          string    // optional idempotency key
	Type        string    // one of the Action* constants
	Label       string    // guess: sector label
	Mood        string    // vote: mood id
	ChallengeID int       // open on the sentence screen
	Slot        string    // choose: subject, verb or descriptor
	Word        string    // choose: option word
	Difficulty  string    // difficulty: easy, medium or hard
	ReceivedAt  time.Time // set by the service when zero
}

// SessionInfo describes a hosted screen session.
type SessionInfo struct {
	ID         string
	Kind       string
	CreatedAt  time.Time
	LastActive time.Time
}
