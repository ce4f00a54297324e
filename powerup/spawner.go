package powerup

import (
	"math/rand"

	"github.com/mo-shahab/pong-duel/canvas"
)

// Spawner produces pickups at random spots on the field. It sits outside the
// engine so the engine itself never touches a random source.
type Spawner struct {
	rng    *rand.Rand
	canvas canvas.Canvas
	margin float64
	nextID uint64
}

func NewSpawner(rng *rand.Rand, c canvas.Canvas) *Spawner {
	return &Spawner{
		rng:    rng,
		canvas: c,
		// keep pickups clear of the paddle columns
		margin: 40,
	}
}

func (s *Spawner) Next() PowerUp {
	s.nextID++

	kind := Speed
	if s.rng.Intn(2) == 1 {
		kind = Size
	}

	spanX := s.canvas.Width - 2*s.margin - BoxSize
	spanY := s.canvas.Height - BoxSize
	if spanX < 0 {
		spanX = 0
	}
	if spanY < 0 {
		spanY = 0
	}

	return PowerUp{
		ID:   s.nextID,
		Kind: kind,
		X:    s.margin + s.rng.Float64()*spanX,
		Y:    s.rng.Float64() * spanY,
	}
}
