package wsserver

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mo-shahab/pong-duel/canvas"
	"github.com/mo-shahab/pong-duel/client"
	"github.com/mo-shahab/pong-duel/room"
)

type WebSocketHandler struct {
	Upgrader    websocket.Upgrader
	Mu          sync.Mutex
	Connections map[string]*client.Client
	RoomManager *room.Manager
	Sessions    map[string]*session

	ctx  context.Context
	opts Options
}

type Options struct {
	Canvas          canvas.Canvas
	TickRate        time.Duration
	PowerUpInterval time.Duration
	SendQueueSize   int
	LobbyTTL        time.Duration
}

func (o Options) withDefaults() Options {
	if o.Canvas.Width <= 0 || o.Canvas.Height <= 0 {
		o.Canvas = canvas.Default()
	}
	if o.SendQueueSize <= 0 {
		o.SendQueueSize = 100
	}
	return o
}
