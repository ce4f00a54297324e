package game

import (
	"context"
	"sync"
	"time"

	"github.com/mo-shahab/pong-duel/paddle"
	"github.com/mo-shahab/pong-duel/powerup"
)

// TickHandler receives the state after every tick.
type TickHandler interface {
	OnTick(snap Snapshot, events []Event)
}

// TickHandlerFunc adapts a function to TickHandler
type TickHandlerFunc func(snap Snapshot, events []Event)

func (f TickHandlerFunc) OnTick(snap Snapshot, events []Event) {
	f(snap, events)
}

// Loop drives one Engine at a fixed cadence. Ticks and paddle intents are
// serialized on a mutex so an intent lands between two ticks, never inside
// one.
type Loop struct {
	mu      sync.Mutex
	engine  *Engine
	rate    time.Duration
	handler TickHandler

	spawn      func() powerup.PowerUp
	spawnEvery uint64
	steps      uint64
}

type LoopOption func(*Loop)

// WithSpawner adds a pickup from next roughly every interval. A spawn is
// skipped while MaxSpawnedPowerUps are already on the field.
func WithSpawner(next func() powerup.PowerUp, interval time.Duration) LoopOption {
	return func(l *Loop) {
		if next == nil || interval <= 0 {
			return
		}
		l.spawn = next
		l.spawnEvery = uint64(interval / l.rate)
		if l.spawnEvery == 0 {
			l.spawnEvery = 1
		}
	}
}

func NewLoop(e *Engine, rate time.Duration, h TickHandler, opts ...LoopOption) *Loop {
	if rate <= 0 {
		rate = TickRate
	}
	l := &Loop{
		engine:  e,
		rate:    rate,
		handler: h,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run ticks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.rate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Step()
		}
	}
}

// Step advances the engine once and hands the result to the handler outside
// the lock.
func (l *Loop) Step() {
	l.mu.Lock()
	l.steps++
	if l.spawn != nil && l.steps%l.spawnEvery == 0 && len(l.engine.powerUps) < MaxSpawnedPowerUps {
		l.engine.AddPowerUp(l.spawn())
	}
	events := l.engine.Advance()
	snap := l.engine.Snapshot()
	l.mu.Unlock()

	if l.handler != nil {
		l.handler.OnTick(snap, events)
	}
}

func (l *Loop) MovePaddle(side paddle.Side, deltaY float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.engine.MovePaddle(side, deltaY)
}

func (l *Loop) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine.Snapshot()
}
