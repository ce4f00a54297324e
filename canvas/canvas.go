package canvas

// default playfield dimensions
const (
	DefaultWidth  = 800
	DefaultHeight = 400
)

type Canvas struct {
	Width  float64
	Height float64
}

func Default() Canvas {
	return Canvas{Width: DefaultWidth, Height: DefaultHeight}
}

// Center returns the midpoint of the playfield
func (c Canvas) Center() (float64, float64) {
	return c.Width / 2, c.Height / 2
}
