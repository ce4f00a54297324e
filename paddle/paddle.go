package paddle

import "github.com/mo-shahab/pong-duel/canvas"

// paddle constants
const (
	DefaultWidth  = 10
	DefaultHeight = 100
	DefaultColor  = "#ffffff"
	StartLives    = 5
)

type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

func (s Side) Opponent() Side {
	if s == Left {
		return Right
	}
	return Left
}

// ParseSide maps the wire and log names back to a Side
func ParseSide(s string) (Side, bool) {
	switch s {
	case "left":
		return Left, true
	case "right":
		return Right, true
	default:
		return 0, false
	}
}

type Paddle struct {
	Side   Side
	X, Y   float64
	Width  float64
	Height float64
	Color  string
	Score  int
	Lives  int
}

// New places a paddle against its edge of the canvas, vertically centered.
func New(side Side, c canvas.Canvas) Paddle {
	p := Paddle{
		Side:   side,
		Y:      c.Height/2 - DefaultHeight/2,
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Color:  DefaultColor,
		Lives:  StartLives,
	}
	if side == Right {
		p.X = c.Width - DefaultWidth
	}
	return p
}
