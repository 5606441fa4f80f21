package flashcard

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownDifficulty is returned for a difficulty name outside easy, medium and hard.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Difficulty controls how long a revealed card stays visible.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists the selectable levels, easiest first.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty converts a level name. The empty string means Medium.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return Medium, nil
	case Easy, Medium, Hard:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// Delay returns the time a card stays revealed.
func (d Difficulty) Delay() time.Duration {
	switch d {
	case Easy:
		return 2000 * time.Millisecond
	case Hard:
		return 1000 * time.Millisecond
	default:
		return 1500 * time.Millisecond
	}
}
