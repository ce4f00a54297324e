// game/engine.go
package game

import (
	"github.com/mo-shahab/pong-duel/ball"
	"github.com/mo-shahab/pong-duel/canvas"
	"github.com/mo-shahab/pong-duel/paddle"
	"github.com/mo-shahab/pong-duel/powerup"
)

// Engine owns the ball, paddles and pickups of one match and advances them
// one tick at a time. It is not safe for concurrent use, see Loop.
type Engine struct {
	cfg      Config
	canvas   canvas.Canvas
	ball     ball.Ball
	paddles  [2]paddle.Paddle
	powerUps []powerup.PowerUp
	colors   ColorSource
	phase    Phase
	tick     uint64
	matches  int
	events   []Event
}

type Option func(*Engine)

func WithColorSource(cs ColorSource) Option {
	return func(e *Engine) {
		if cs != nil {
			e.colors = cs
		}
	}
}

// WithBall overrides the starting ball.
func WithBall(b ball.Ball) Option {
	return func(e *Engine) {
		e.ball = b
	}
}

// NewEngine creates a new match with both paddles centered and the ball at
// midfield.
func NewEngine(cfg Config, c canvas.Canvas, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		canvas: c,
		ball:   ball.New(c),
		paddles: [2]paddle.Paddle{
			paddle.New(paddle.Left, c),
			paddle.New(paddle.Right, c),
		},
		colors: func() string { return paddle.DefaultColor },
		phase:  Playing,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Advance runs one tick and returns the events it raised.
func (e *Engine) Advance() []Event {
	e.events = nil
	e.tick++

	e.ball.Move()

	if e.ball.BounceWalls(e.canvas) {
		e.emit(Event{Kind: EventHit, Wall: true})
	}

	if e.ball.PastRight(e.canvas) {
		e.resolveEdge(paddle.Right)
	} else if e.ball.PastLeft() {
		e.resolveEdge(paddle.Left)
	}

	e.collectPowerUps()

	if e.cfg.HardMode {
		e.ball.Scale(HardModeGrowth)
	}

	return e.events
}

// MovePaddle applies an input intent right away, between ticks.
func (e *Engine) MovePaddle(side paddle.Side, deltaY float64) {
	if side != paddle.Left && side != paddle.Right {
		return
	}
	e.paddles[side].Move(deltaY)
}

func (e *Engine) AddPowerUp(p powerup.PowerUp) {
	e.powerUps = append(e.powerUps, p)
}

func (e *Engine) PowerUps() []powerup.PowerUp {
	out := make([]powerup.PowerUp, len(e.powerUps))
	copy(out, e.powerUps)
	return out
}

func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Tick:          e.tick,
		Phase:         e.phase,
		MatchesPlayed: e.matches,
		Ball:          e.ball,
		Paddles:       e.paddles,
		PowerUps:      e.PowerUps(),
	}
}

// resolveEdge handles the ball leaving the field on the given side: either
// the paddle there returns it or the side loses the point.
func (e *Engine) resolveEdge(side paddle.Side) {
	p := &e.paddles[side]

	if p.Covers(e.ball.Y) {
		e.ball.Dx = -e.ball.Dx
		p.Color = e.colors()
		e.emit(Event{Kind: EventHit, Side: side, Color: p.Color})
		return
	}

	e.miss(side)
}

func (e *Engine) miss(loser paddle.Side) {
	if e.cfg.TrainingMode {
		e.ball.Recenter(e.canvas)
		return
	}

	winner := loser.Opponent()
	w := &e.paddles[winner]
	l := &e.paddles[loser]

	w.Score++
	if w.Score >= WinScore {
		e.finishMatch(winner)
		return
	}

	l.Lives--
	if l.Lives <= 0 {
		e.finishMatch(winner)
		return
	}

	e.ball.Recenter(e.canvas)
	e.emit(e.scored(EventScore, winner))
}

// finishMatch announces the winner and immediately starts the next match.
func (e *Engine) finishMatch(winner paddle.Side) {
	e.phase = MatchOver
	e.emit(e.scored(EventMatchWon, winner))

	for i := range e.paddles {
		e.paddles[i].ResetMatch()
	}
	e.ball.Recenter(e.canvas)
	e.matches++
	e.phase = Playing
}

func (e *Engine) collectPowerUps() {
	if len(e.powerUps) == 0 {
		return
	}

	box := e.ball.Box()
	kept := e.powerUps[:0]
	for _, p := range e.powerUps {
		if !p.Overlaps(box) {
			kept = append(kept, p)
			continue
		}

		switch p.Kind {
		case powerup.Speed:
			e.ball.Scale(SpeedBoost)
		case powerup.Size:
			// applies to both paddles, not just the one that last hit
			for i := range e.paddles {
				e.paddles[i].Grow(SizeBoost)
			}
		}
		e.emit(Event{Kind: EventPowerUpCollected, PowerUp: p.Kind})
	}
	e.powerUps = kept
}

func (e *Engine) scored(kind EventKind, side paddle.Side) Event {
	return Event{
		Kind:       kind,
		Side:       side,
		LeftScore:  e.paddles[paddle.Left].Score,
		RightScore: e.paddles[paddle.Right].Score,
	}
}

func (e *Engine) emit(ev Event) {
	e.events = append(e.events, ev)
}
