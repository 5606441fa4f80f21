package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
)

// player plays one screen kind for a classroom.
type player func(ctx context.Context, c *client, cat catalog, id string, rounds int) error

var players = map[string]player{
	"spinner":   playSpinner,
	"flashcard": playFlashcard,
	"sentence":  playSentence,
	"mood":      playMood,
}

func playSpinner(ctx context.Context, c *client, cat catalog, id string, rounds int) error {
	for range rounds {
		if _, err := c.act(ctx, id, action{Type: "spin"}); err != nil {
			return fmt.Errorf("spin: %w", err)
		}
		v, err := c.await(ctx, id, c.settle, func(v view) bool { return v.State.Phase == "guessing" })
		if err != nil {
			return err
		}
		if v.State.Target == nil {
			return fmt.Errorf("%w: guessing without a target", ErrVerification)
		}
		target := v.State.Target.Label

		for _, s := range cat.Sectors {
			if s.Label != target {
				if _, err := c.act(ctx, id, action{Type: "guess", Label: s.Label}); err != nil {
					return fmt.Errorf("wrong guess: %w", err)
				}
				break
			}
		}
		v, err = c.act(ctx, id, action{Type: "guess", Label: target})
		if err != nil {
			return fmt.Errorf("guess: %w", err)
		}
		if v.State.Phase != "win" {
			return fmt.Errorf("%w: guessing %q left phase %q", ErrVerification, target, v.State.Phase)
		}
		c.stats.Wins.Add(1)
		if _, err := c.act(ctx, id, action{Type: "reset"}); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	}
	return nil
}

func playFlashcard(ctx context.Context, c *client, _ catalog, id string, rounds int) error {
	for range rounds {
		v, err := c.act(ctx, id, action{Type: "open"})
		if err != nil {
			return fmt.Errorf("open: %w", err)
		}
		if !v.State.Open {
			return fmt.Errorf("%w: box did not open", ErrVerification)
		}
		c.stats.Reveals.Add(1)
		if _, err := c.await(ctx, id, c.settle, func(v view) bool { return v.State.Phase == "hidden" }); err != nil {
			return err
		}
	}
	return nil
}

// playSentence solves every challenge, trying verbs in order so that wrong
// sentences are exercised too.
func playSentence(ctx context.Context, c *client, cat catalog, id string, _ int) error {
	if len(cat.Options.Descriptors) == 0 {
		return nil
	}
	for _, ch := range cat.Challenges {
		if len(ch.AcceptableSubjects) == 0 {
			continue
		}
		if _, err := c.act(ctx, id, action{Type: "open", ChallengeID: ch.ID}); err != nil {
			return fmt.Errorf("open challenge %d: %w", ch.ID, err)
		}
		if _, err := c.act(ctx, id, action{Type: "choose", Slot: "subject", Word: ch.AcceptableSubjects[0]}); err != nil {
			return fmt.Errorf("choose subject: %w", err)
		}
		if _, err := c.act(ctx, id, action{Type: "choose", Slot: "descriptor", Word: cat.Options.Descriptors[0]}); err != nil {
			return fmt.Errorf("choose descriptor: %w", err)
		}

		solved := false
		for _, verb := range cat.Options.Verbs {
			if _, err := c.act(ctx, id, action{Type: "choose", Slot: "verb", Word: verb}); err != nil {
				return fmt.Errorf("choose verb: %w", err)
			}
			v, err := c.act(ctx, id, action{Type: "check"})
			if err != nil {
				return fmt.Errorf("check: %w", err)
			}
			if slices.Contains(v.State.Completed, ch.ID) {
				solved = true
				break
			}
		}
		if !solved {
			if _, err := c.act(ctx, id, action{Type: "close"}); err != nil {
				return fmt.Errorf("close: %w", err)
			}
			return fmt.Errorf("%w: challenge %d has no agreeing verb", ErrVerification, ch.ID)
		}
		c.stats.Sentences.Add(1)
	}
	return nil
}

func playMood(ctx context.Context, c *client, cat catalog, id string, rounds int) error {
	if len(cat.Moods) == 0 {
		return nil
	}
	for range rounds {
		mood := cat.Moods[rand.Intn(len(cat.Moods))].ID //nolint:gosec // simulated votes
		if _, err := c.act(ctx, id, action{Type: "vote", Mood: mood}); err != nil {
			return fmt.Errorf("vote: %w", err)
		}
		c.stats.Votes.Add(1)
	}
	return nil
}
