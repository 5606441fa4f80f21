// Package wheel maps the final rotation of the greetings wheel to the sector
// under the pointer and runs the spinner screen.
package wheel

import (
	"fmt"
	"math/rand"

	"github.com/okian/classplay/internal/domain/catalog"
)

const fullTurn = 360

// SpinOutcome is the result of one spin.
type SpinOutcome struct {
	Rotation   int            `json:"rotation"`
	FinalAngle int            `json:"final_angle"`
	Sector     catalog.Sector `json:"sector"`
}

// Wheel is an ordered, non-empty ring of equally sized sectors.
type Wheel struct {
	sectors []catalog.Sector
	turns   int
}

// NewWheel builds a wheel. turns is the number of full turns added to every
// spin before it settles.
func NewWheel(sectors []catalog.Sector, turns int) (*Wheel, error) {
	if len(sectors) == 0 {
		return nil, ErrNoSectors
	}
	if turns < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTurns, turns)
	}
	return &Wheel{sectors: append([]catalog.Sector(nil), sectors...), turns: turns}, nil
}

// Sectors returns a copy of the wheel's sectors.
func (w *Wheel) Sectors() []catalog.Sector {
	return append([]catalog.Sector(nil), w.sectors...)
}

// Spin draws a cumulative rotation: a random angle plus the configured turns.
func (w *Wheel) Spin(rng *rand.Rand) int {
	return rng.Intn(fullTurn) + w.turns*fullTurn
}

// Outcome resolves a rotation against this wheel.
func (w *Wheel) Outcome(rotation int) SpinOutcome {
	return SpinOutcome{
		Rotation:   rotation,
		FinalAngle: normalize(rotation),
		Sector:     ComputeOutcome(rotation, w.sectors),
	}
}

// ComputeOutcome returns the sector the pointer rests on after the dial has
// turned rotation degrees. sectors must not be empty.
func ComputeOutcome(rotation int, sectors []catalog.Sector) catalog.Sector {
	return sectors[OutcomeIndex(rotation, len(sectors))]
}

// OutcomeIndex maps a rotation to a sector index in [0, n). The dial turns
// clockwise while sectors are laid out the other way, so the angle is
// mirrored before bucketing. Each sector owns [start, end).
func OutcomeIndex(rotation, n int) int {
	adjusted := (fullTurn - normalize(rotation)) % fullTurn
	idx := adjusted * n / fullTurn
	if idx >= n {
		idx = n - 1
	}
	return idx
}

func normalize(rotation int) int {
	a := rotation % fullTurn
	if a < 0 {
		a += fullTurn
	}
	return a
}
