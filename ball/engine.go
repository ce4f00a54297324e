package ball

import "github.com/mo-shahab/pong-duel/canvas"

// Move integrates the position by one tick of velocity.
func (b *Ball) Move() {
	b.X += b.Dx
	b.Y += b.Dy
}

// Recenter puts the ball back in the middle of the field and sends it toward
// the side it came from.
func (b *Ball) Recenter(c canvas.Canvas) {
	b.X, b.Y = c.Center()
	b.Dx = -b.Dx
}

func (b *Ball) Scale(f float64) {
	b.Dx *= f
	b.Dy *= f
}

// BounceWalls inverts the vertical velocity when the ball has crossed the top
// or bottom boundary while still heading into it. It reports whether a bounce
// happened. A ball already heading back into the field is left alone so it
// cannot stick to a wall.
func (b *Ball) BounceWalls(c canvas.Canvas) bool {
	if b.Y < 0 && b.Dy < 0 {
		b.Dy = -b.Dy
		return true
	}
	if b.Y+b.Size > c.Height && b.Dy > 0 {
		b.Dy = -b.Dy
		return true
	}
	return false
}

// PastRight reports whether the leading edge crossed the right boundary
// while moving right.
func (b *Ball) PastRight(c canvas.Canvas) bool {
	return b.X+b.Size > c.Width && b.Dx > 0
}

// PastLeft reports whether the ball crossed the left boundary while moving
// left.
func (b *Ball) PastLeft() bool {
	return b.X < 0 && b.Dx < 0
}
