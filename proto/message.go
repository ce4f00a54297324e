// Package proto holds the wire messages exchanged with browser clients.
//
// Messages use the protobuf binary format. They are encoded by hand with
// protowire, so the schema lives in this file rather than in a .proto file:
//
//	message Message {
//	  MsgType     type   = 1;
//	  string      code   = 2;
//	  string      error  = 3;
//	  double      delta  = 4;
//	  MatchConfig config = 5;
//	  GameState   state  = 6;
//	  GameEvent   event  = 7;
//	  string      side   = 8;
//	}
package proto

type MsgType int32

const (
	MsgTypeUnknown     MsgType = 0
	MsgTypeCreateGame  MsgType = 1
	MsgTypeGameCreated MsgType = 2
	MsgTypeJoinGame    MsgType = 3
	MsgTypeGameJoined  MsgType = 4
	MsgTypeError       MsgType = 5
	MsgTypeMovement    MsgType = 6
	MsgTypeGameState   MsgType = 7
	MsgTypeGameEvent   MsgType = 8
)

var msgTypeNames = map[MsgType]string{
	MsgTypeUnknown:     "unknown",
	MsgTypeCreateGame:  "create_game",
	MsgTypeGameCreated: "game_created",
	MsgTypeJoinGame:    "join_game",
	MsgTypeGameJoined:  "game_joined",
	MsgTypeError:       "error",
	MsgTypeMovement:    "movement",
	MsgTypeGameState:   "game_state",
	MsgTypeGameEvent:   "game_event",
}

func (t MsgType) String() string {
	if name, ok := msgTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Message is the envelope for every frame. Which fields are set depends on
// Type.
type Message struct {
	Type   MsgType
	Code   string
	Error  string
	Delta  float64
	Config *MatchConfig
	State  *GameState
	Event  *GameEvent
	Side   string
}

type MatchConfig struct {
	TrainingMode bool // 1
	HardMode     bool // 2
}

type Ball struct {
	X    float64 // 1
	Y    float64 // 2
	Dx   float64 // 3
	Dy   float64 // 4
	Size float64 // 5
}

type Paddle struct {
	Side   string  // 1
	X      float64 // 2
	Y      float64 // 3
	Width  float64 // 4
	Height float64 // 5
	Color  string  // 6
	Score  int32   // 7
	Lives  int32   // 8
}

type PowerUp struct {
	Id   uint64  // 1
	Kind string  // 2
	X    float64 // 3
	Y    float64 // 4
}

type GameState struct {
	Tick          uint64     // 1
	Ball          *Ball      // 2
	Paddles       []*Paddle  // 3
	PowerUps      []*PowerUp // 4
	MatchesPlayed int32      // 5
}

type GameEvent struct {
	Kind       string // 1
	Side       string // 2
	Wall       bool   // 3
	Color      string // 4
	PowerUp    string // 5
	LeftScore  int32  // 6
	RightScore int32  // 7
}
