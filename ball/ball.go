package ball

import "github.com/mo-shahab/pong-duel/canvas"

// ball constants
const (
	DefaultSize = 10
	InitialDx   = 2
	InitialDy   = 2
)

// Ball is positioned by its top-left corner, the collision box extends Size
// to the right and down from there.
type Ball struct {
	X, Y   float64
	Dx, Dy float64
	Size   float64
}

// Box is an axis aligned bounding box
type Box struct {
	X, Y, W, H float64
}

// New returns a ball resting at the center of the canvas with the
// reference starting velocity.
func New(c canvas.Canvas) Ball {
	x, y := c.Center()
	return Ball{
		X:    x,
		Y:    y,
		Dx:   InitialDx,
		Dy:   InitialDy,
		Size: DefaultSize,
	}
}

func (b Ball) Box() Box {
	return Box{X: b.X, Y: b.Y, W: b.Size, H: b.Size}
}
