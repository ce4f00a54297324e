package wsserver

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/mo-shahab/pong-duel/game"
	"github.com/mo-shahab/pong-duel/paddle"
	"github.com/mo-shahab/pong-duel/powerup"
	"github.com/mo-shahab/pong-duel/proto"
	"github.com/mo-shahab/pong-duel/room"
	"github.com/rs/zerolog/log"
)

// session is the single authoritative match for one full room. Both
// participants receive the same state every tick.
type session struct {
	code         string
	participants []string
	loop         *game.Loop
	cancel       context.CancelFunc
	done         chan struct{}

	// the loop goroutine alone touches these
	touchEvery time.Duration
	lastTouch  time.Time
}

func (s *session) has(identity string) bool {
	for _, id := range s.participants {
		if id == identity {
			return true
		}
	}
	return false
}

func (s *session) servesEntry(entry room.Entry) bool {
	want := entry.Participants()
	if len(want) != len(s.participants) {
		return false
	}
	for i := range want {
		if want[i] != s.participants[i] {
			return false
		}
	}
	return true
}

func (wsh *WebSocketHandler) startSession(entry room.Entry) {
	wsh.Mu.Lock()
	defer wsh.Mu.Unlock()

	if old, running := wsh.Sessions[entry.Code]; running {
		if old.servesEntry(entry) {
			return
		}
		// the code was reissued to a new pair, so the old match is orphaned
		log.Warn().
			Str("room", entry.Code).
			Strs("stale", old.participants).
			Strs("participants", entry.Participants()).
			Msg("replacing stale match")
		wsh.stopSessionLocked(entry.Code)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	engine := game.NewEngine(entry.Config, wsh.opts.Canvas,
		game.WithColorSource(game.RandomColors(rng)))

	s := &session{
		code:         entry.Code,
		participants: entry.Participants(),
		done:         make(chan struct{}),
		// a few touches per TTL keep a long match from being swept
		touchEvery: wsh.opts.LobbyTTL / 4,
		lastTouch:  time.Now(),
	}

	var loopOpts []game.LoopOption
	if wsh.opts.PowerUpInterval > 0 {
		spawner := powerup.NewSpawner(rng, wsh.opts.Canvas)
		loopOpts = append(loopOpts, game.WithSpawner(spawner.Next, wsh.opts.PowerUpInterval))
	}

	s.loop = game.NewLoop(engine, wsh.opts.TickRate, game.TickHandlerFunc(func(snap game.Snapshot, events []game.Event) {
		wsh.broadcastTick(s, snap, events)
	}), loopOpts...)

	ctx, cancel := context.WithCancel(wsh.ctx)
	s.cancel = cancel
	wsh.Sessions[entry.Code] = s

	go func() {
		defer close(s.done)
		err := s.loop.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Str("room", s.code).Msg("match loop stopped")
			return
		}
		log.Info().Str("room", s.code).Msg("match loop stopped")
	}()

	log.Info().
		Str("room", entry.Code).
		Strs("participants", s.participants).
		Bool("training", entry.Config.TrainingMode).
		Bool("hard", entry.Config.HardMode).
		Msg("match started")
}

// stopSessionLocked cancels the room's loop. Callers hold wsh.Mu.
func (wsh *WebSocketHandler) stopSessionLocked(code string) {
	s, exists := wsh.Sessions[code]
	if !exists {
		return
	}
	s.cancel()
	delete(wsh.Sessions, code)
}

func (wsh *WebSocketHandler) sessionFor(code string) (*session, bool) {
	wsh.Mu.Lock()
	defer wsh.Mu.Unlock()
	s, exists := wsh.Sessions[code]
	return s, exists
}

func (wsh *WebSocketHandler) broadcastTick(s *session, snap game.Snapshot, events []game.Event) {
	if s.touchEvery > 0 && time.Since(s.lastTouch) >= s.touchEvery {
		s.lastTouch = time.Now()
		if !wsh.RoomManager.Touch(s.code) {
			log.Warn().Str("room", s.code).Msg("match running without a lobby entry")
		}
	}

	frames := make([][]byte, 0, len(events)+1)

	state, err := proto.Marshal(&proto.Message{Type: proto.MsgTypeGameState, State: stateToProto(snap)})
	if err != nil {
		log.Error().Err(err).Str("room", s.code).Msg("failed to encode game state")
		return
	}
	frames = append(frames, state)

	for _, ev := range events {
		b, err := proto.Marshal(&proto.Message{Type: proto.MsgTypeGameEvent, Event: eventToProto(ev)})
		if err != nil {
			log.Error().Err(err).Str("room", s.code).Msg("failed to encode game event")
			continue
		}
		frames = append(frames, b)

		if ev.Kind == game.EventMatchWon {
			log.Info().
				Str("room", s.code).
				Str("winner", ev.Side.String()).
				Int("left", ev.LeftScore).
				Int("right", ev.RightScore).
				Msg("match won")
		}
	}

	wsh.broadcastToRoom(s.participants, frames...)
}

func (wsh *WebSocketHandler) movePaddle(code string, side paddle.Side, delta float64) bool {
	s, exists := wsh.sessionFor(code)
	if !exists {
		return false
	}
	s.loop.MovePaddle(side, delta)
	return true
}
