package powerup

import "github.com/mo-shahab/pong-duel/ball"

// BoxSize is the edge length of every pickup
const BoxSize = 20

type Kind int

const (
	Speed Kind = iota
	Size
)

func (k Kind) String() string {
	switch k {
	case Speed:
		return "speed"
	case Size:
		return "size"
	default:
		return "unknown"
	}
}

func ParseKind(s string) (Kind, bool) {
	switch s {
	case "speed":
		return Speed, true
	case "size":
		return Size, true
	default:
		return 0, false
	}
}

type PowerUp struct {
	ID   uint64
	Kind Kind
	X, Y float64
}

// Overlaps tests the pickup's box against the ball's box. Touching edges do
// not count.
func (p PowerUp) Overlaps(b ball.Box) bool {
	return b.X < p.X+BoxSize && b.X+b.W > p.X &&
		b.Y < p.Y+BoxSize && b.Y+b.H > p.Y
}
