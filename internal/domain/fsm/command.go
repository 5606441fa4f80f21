package fsm

import "time"

// Command is a side effect requested by a reducer.
type Command interface {
	command()
}

// Schedule delivers Event to the machine after After. A later Schedule with
// the same Key replaces this one.
type Schedule[E any] struct {
	Key   string
	After time.Duration
	Event E
}

// Cancel drops the timer pending under Key.
type Cancel struct {
	Key string
}

// Celebrate hands a burst to the celebration collaborator. Nothing is read back.
type Celebrate struct {
	Burst Burst
}

func (Schedule[E]) command() {}
func (Cancel) command()      {}
func (Celebrate) command()   {}

// Burst carries the parameters of one celebration effect.
type Burst struct {
	Event         string   `json:"event"`
	ParticleCount int      `json:"particle_count"`
	Spread        int      `json:"spread"`
	OriginY       float64  `json:"origin_y,omitempty"`
	Colors        []string `json:"colors,omitempty"`
}
