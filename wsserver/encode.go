package wsserver

import (
	"github.com/mo-shahab/pong-duel/game"
	"github.com/mo-shahab/pong-duel/proto"
	"github.com/mo-shahab/pong-duel/room"
)

func stateToProto(snap game.Snapshot) *proto.GameState {
	state := &proto.GameState{
		Tick: snap.Tick,
		Ball: &proto.Ball{
			X:    snap.Ball.X,
			Y:    snap.Ball.Y,
			Dx:   snap.Ball.Dx,
			Dy:   snap.Ball.Dy,
			Size: snap.Ball.Size,
		},
		MatchesPlayed: int32(snap.MatchesPlayed),
	}
	for _, p := range snap.Paddles {
		state.Paddles = append(state.Paddles, &proto.Paddle{
			Side:   p.Side.String(),
			X:      p.X,
			Y:      p.Y,
			Width:  p.Width,
			Height: p.Height,
			Color:  p.Color,
			Score:  int32(p.Score),
			Lives:  int32(p.Lives),
		})
	}
	for _, p := range snap.PowerUps {
		state.PowerUps = append(state.PowerUps, &proto.PowerUp{
			Id:   p.ID,
			Kind: p.Kind.String(),
			X:    p.X,
			Y:    p.Y,
		})
	}
	return state
}

func eventToProto(ev game.Event) *proto.GameEvent {
	out := &proto.GameEvent{Kind: ev.Kind.String()}
	switch ev.Kind {
	case game.EventHit:
		out.Wall = ev.Wall
		if !ev.Wall {
			out.Side = ev.Side.String()
			out.Color = ev.Color
		}
	case game.EventScore, game.EventMatchWon:
		out.Side = ev.Side.String()
		out.LeftScore = int32(ev.LeftScore)
		out.RightScore = int32(ev.RightScore)
	case game.EventPowerUpCollected:
		out.PowerUp = ev.PowerUp.String()
	}
	return out
}

func configFromProto(c *proto.MatchConfig) game.Config {
	if c == nil {
		return game.Config{}
	}
	return game.Config{TrainingMode: c.TrainingMode, HardMode: c.HardMode}
}

func noticeToProto(n room.Notice) *proto.Message {
	switch n.Kind {
	case room.GameCreated:
		return &proto.Message{Type: proto.MsgTypeGameCreated, Code: n.Code}
	case room.GameJoined:
		return &proto.Message{Type: proto.MsgTypeGameJoined, Code: n.Code, Side: n.Side.String()}
	default:
		return &proto.Message{Type: proto.MsgTypeError, Code: n.Code, Error: n.Message}
	}
}
