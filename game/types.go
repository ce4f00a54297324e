package game

import (
	"time"

	"github.com/mo-shahab/pong-duel/ball"
	"github.com/mo-shahab/pong-duel/paddle"
	"github.com/mo-shahab/pong-duel/powerup"
)

// Game constants
const (
	WinScore       = 15
	SpeedBoost     = 1.5
	SizeBoost      = 1.5
	HardModeGrowth = 1.001

	// Game loop
	TickRate = time.Second / 60

	// MaxSpawnedPowerUps caps how many spawned pickups can wait on the field.
	MaxSpawnedPowerUps = 5
)

// Config is fixed when the engine is built and never changes afterwards.
type Config struct {
	// TrainingMode keeps all physics but skips every score and lives change.
	TrainingMode bool
	// HardMode grows the ball velocity every tick.
	HardMode bool
}

type Phase int

const (
	Playing Phase = iota
	MatchOver
)

func (p Phase) String() string {
	if p == MatchOver {
		return "match_over"
	}
	return "playing"
}

type EventKind int

const (
	EventHit EventKind = iota
	EventScore
	EventMatchWon
	EventPowerUpCollected
)

func (k EventKind) String() string {
	switch k {
	case EventHit:
		return "hit"
	case EventScore:
		return "score"
	case EventMatchWon:
		return "match_won"
	case EventPowerUpCollected:
		return "power_up_collected"
	default:
		return "unknown"
	}
}

// Event is a discrete notification raised during a tick, meant for sound and
// UI triggers.
//
// Side depends on Kind: the paddle that was struck for a paddle hit, the side
// that scored for a score, the winner for a match win.
type Event struct {
	Kind       EventKind
	Side       paddle.Side
	Wall       bool
	Color      string
	PowerUp    powerup.Kind
	LeftScore  int
	RightScore int
}

// ColorSource picks the flash color for a paddle hit.
type ColorSource func() string

// Snapshot is a point-in-time copy of the match. Mutating it does not affect
// the engine.
type Snapshot struct {
	Tick          uint64
	Phase         Phase
	MatchesPlayed int
	Ball          ball.Ball
	Paddles       [2]paddle.Paddle
	PowerUps      []powerup.PowerUp
}

func (s Snapshot) Paddle(side paddle.Side) paddle.Paddle {
	return s.Paddles[side]
}
