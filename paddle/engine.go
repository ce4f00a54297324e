package paddle

// Move shifts the paddle immediately. Positions are not clamped to the canvas.
func (p *Paddle) Move(deltaY float64) {
	p.Y += deltaY
}

// Covers reports whether y falls within [Y, Y+Height).
func (p *Paddle) Covers(y float64) bool {
	return y >= p.Y && y < p.Y+p.Height
}

func (p *Paddle) Grow(f float64) {
	p.Height *= f
}

// ResetMatch clears the per-match counters. Position and height carry over.
func (p *Paddle) ResetMatch() {
	p.Score = 0
	p.Lives = StartLives
	p.Color = DefaultColor
}
