package room

import "github.com/mo-shahab/pong-duel/paddle"

type NoticeKind int

const (
	GameCreated NoticeKind = iota
	GameJoined
	JoinFailed
)

func (k NoticeKind) String() string {
	switch k {
	case GameCreated:
		return "game_created"
	case GameJoined:
		return "game_joined"
	case JoinFailed:
		return "error"
	default:
		return "unknown"
	}
}

// Notice is what the lobby tells a participant. Code is set for GameCreated
// and GameJoined, Side for GameJoined, Message for JoinFailed.
type Notice struct {
	Kind    NoticeKind
	Code    string
	Side    paddle.Side
	Message string
}

// Notifier delivers lobby notices to a participant identity.
type Notifier interface {
	Notify(identity string, n Notice)
}

type NotifierFunc func(identity string, n Notice)

func (f NotifierFunc) Notify(identity string, n Notice) {
	f(identity, n)
}

type discardNotifier struct{}

func (discardNotifier) Notify(string, Notice) {}
