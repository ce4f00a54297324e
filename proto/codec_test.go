package proto

import (
	"errors"
	"reflect"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

func TestGameStateSurvivesTheWire(t *testing.T) {
	in := &Message{
		Type: MsgTypeGameState,
		State: &GameState{
			Tick: 1234,
			Ball: &Ball{X: 400.5, Y: -3, Dx: -2.002, Dy: 2, Size: 10},
			Paddles: []*Paddle{
				{Side: "left", Y: 150, Width: 10, Height: 150, Color: "#ffffff", Score: 14, Lives: 1},
				{Side: "right", X: 790, Y: -20, Width: 10, Height: 150, Color: "#0a0b0c", Lives: 5},
			},
			PowerUps: []*PowerUp{
				{Id: 7, Kind: "speed", X: 120, Y: 60},
			},
			MatchesPlayed: 2,
		},
	}

	b, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out, err := Unmarshal(b)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch\n got: %+v\nwant: %+v", out.State, in.State)
	}
}

func TestLobbyMessages(t *testing.T) {
	tests := []*Message{
		{Type: MsgTypeCreateGame, Config: &MatchConfig{TrainingMode: true}},
		{Type: MsgTypeGameCreated, Code: "a1b2c3"},
		{Type: MsgTypeJoinGame, Code: "a1b2c3"},
		{Type: MsgTypeGameJoined, Code: "a1b2c3", Side: "right"},
		{Type: MsgTypeError, Error: "room is full"},
		{Type: MsgTypeMovement, Delta: -20},
		{Type: MsgTypeGameEvent, Event: &GameEvent{Kind: "match_won", Side: "left", LeftScore: 15, RightScore: 3}},
	}
	for _, in := range tests {
		t.Run(in.Type.String(), func(t *testing.T) {
			b, err := Marshal(in)
			if err != nil {
				t.Fatal(err)
			}
			out, err := Unmarshal(b)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(in, out) {
				t.Fatalf("got %+v, want %+v", out, in)
			}
		})
	}
}

func TestUnmarshalSkipsUnknownFields(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 99, protowire.VarintType)
	b = protowire.AppendVarint(b, 5)
	b = protowire.AppendTag(b, 98, protowire.BytesType)
	b = protowire.AppendString(b, "ignored")
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(MsgTypeJoinGame))
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendString(b, "abc123")

	m, err := Unmarshal(b)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if m.Type != MsgTypeJoinGame || m.Code != "abc123" {
		t.Fatalf("got %+v", m)
	}
}

func TestUnmarshalRejectsTruncatedInput(t *testing.T) {
	b, _ := Marshal(&Message{Type: MsgTypeJoinGame, Code: "abcdef"})

	_, err := Unmarshal(b[:len(b)-1])
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("error = %v, want ErrMalformed", err)
	}
}

func TestMarshalNil(t *testing.T) {
	if _, err := Marshal(nil); err == nil {
		t.Fatal("expected error for nil message")
	}
}

func TestMsgTypeString(t *testing.T) {
	if MsgTypeGameJoined.String() != "game_joined" {
		t.Fatalf("String() = %q", MsgTypeGameJoined.String())
	}
	if MsgType(42).String() != "unknown" {
		t.Fatal("unknown types should print as unknown")
	}
}
