// wsserver/handler.go

package wsserver

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mo-shahab/pong-duel/client"
	"github.com/mo-shahab/pong-duel/proto"
	"github.com/mo-shahab/pong-duel/room"
	"github.com/rs/zerolog/log"
)

const writeWait = 10 * time.Second

// NewWebSocketHandler creates a new WebSocket handler. Match loops it starts
// stop when ctx is done.
func NewWebSocketHandler(ctx context.Context, opts Options) *WebSocketHandler {
	handler := &WebSocketHandler{
		Upgrader:    websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		Connections: make(map[string]*client.Client),
		Sessions:    make(map[string]*session),
		ctx:         ctx,
		opts:        opts.withDefaults(),
	}

	// the handler delivers lobby notices to its own connections, and the
	// match is running before either player hears it is ready
	handler.RoomManager = room.NewRoomManager(
		room.WithNotifier(handler),
		room.WithTTL(handler.opts.LobbyTTL),
		room.WithReadyHook(handler.startSession),
	)

	return handler
}

// Notify implements room.Notifier.
func (wsh *WebSocketHandler) Notify(identity string, n room.Notice) {
	encoded, err := proto.Marshal(noticeToProto(n))
	if err != nil {
		log.Error().Err(err).Str("client", identity).Msg("failed to encode lobby notice")
		return
	}

	wsh.Mu.Lock()
	defer wsh.Mu.Unlock()

	c, exists := wsh.Connections[identity]
	if !exists {
		log.Debug().Str("client", identity).Str("notice", n.Kind.String()).Msg("notice for unknown client")
		return
	}

	switch n.Kind {
	case room.GameCreated:
		c.RoomCode = n.Code
	case room.GameJoined:
		c.RoomCode = n.Code
		c.Side = n.Side
	}

	if !c.Enqueue(encoded) {
		log.Warn().Str("client", c.ID).Msg("dropping message, send queue full")
	}
}

// Broadcast functions
func (wsh *WebSocketHandler) broadcastToRoom(participants []string, frames ...[]byte) {
	wsh.Mu.Lock()
	defer wsh.Mu.Unlock()

	for _, id := range participants {
		c, exists := wsh.Connections[id]
		if !exists {
			continue
		}
		for _, frame := range frames {
			if !c.Enqueue(frame) {
				log.Debug().Str("client", c.ID).Msg("dropping message, send queue full")
				break
			}
		}
	}
}

// ServeHTTP handles WebSocket connections
func (wsh *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := wsh.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := client.New(conn, wsh.opts.SendQueueSize)

	wsh.Mu.Lock()
	wsh.Connections[c.ID] = c
	wsh.Mu.Unlock()

	log.Info().Str("client", c.ID).Str("remote", conn.RemoteAddr().String()).Msg("client connected")

	// Message queue goroutine
	go func() {
		for msg := range c.SendQueue {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				log.Debug().Err(err).Str("client", c.ID).Msg("write failed")
				// unblocks the read loop below, which cleans up
				conn.Close()
				return
			}
		}
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		conn.Close()
	}()

	// Handle incoming messages
	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Str("client", c.ID).Msg("read failed")
			}
			wsh.disconnectPlayer(c)
			return
		}

		message, err := proto.Unmarshal(p)
		if err != nil {
			log.Debug().Err(err).Str("client", c.ID).Msg("invalid frame")
			wsh.sendError(c, "invalid message")
			continue
		}

		wsh.handleMessage(c, message)
	}
}

// handleMessage processes incoming messages
func (wsh *WebSocketHandler) handleMessage(c *client.Client, message *proto.Message) {
	switch message.Type {
	case proto.MsgTypeCreateGame:
		wsh.handleCreateGame(c, message)

	case proto.MsgTypeJoinGame:
		wsh.handleJoinGame(c, message)

	case proto.MsgTypeMovement:
		wsh.handleMovement(c, message)

	default:
		log.Debug().Str("client", c.ID).Str("type", message.Type.String()).Msg("unexpected message type")
		wsh.sendError(c, "unsupported message type")
	}
}

// handleCreateGame registers a new lobby entry. The code reaches the caller
// through Notify.
func (wsh *WebSocketHandler) handleCreateGame(c *client.Client, message *proto.Message) {
	if _, err := wsh.RoomManager.CreateRoom(c.ID, configFromProto(message.Config)); err != nil {
		log.Error().Err(err).Str("client", c.ID).Msg("create room failed")
		wsh.sendError(c, "could not create game")
	}
}

// handleJoinGame pairs the caller with a host. The match itself is started
// by the room manager's ready hook, and rejections are reported to the
// caller by the room manager.
func (wsh *WebSocketHandler) handleJoinGame(c *client.Client, message *proto.Message) {
	if _, err := wsh.RoomManager.JoinRoom(message.Code, c.ID); err != nil {
		log.Debug().Err(err).Str("client", c.ID).Msg("join failed")
	}
}

func (wsh *WebSocketHandler) handleMovement(c *client.Client, message *proto.Message) {
	if math.IsNaN(message.Delta) || math.IsInf(message.Delta, 0) {
		log.Debug().Str("client", c.ID).Msg("non-finite movement delta")
		wsh.sendError(c, "invalid movement")
		return
	}

	wsh.Mu.Lock()
	code, side := c.RoomCode, c.Side
	wsh.Mu.Unlock()

	if code == "" || !wsh.movePaddle(code, side, message.Delta) {
		log.Debug().Str("client", c.ID).Msg("movement outside a running match")
	}
}

// sendError sends an error message to a client
func (wsh *WebSocketHandler) sendError(c *client.Client, errorMsg string) {
	encoded, err := proto.Marshal(&proto.Message{Type: proto.MsgTypeError, Error: errorMsg})
	if err != nil {
		log.Error().Err(err).Msg("failed to encode error message")
		return
	}

	wsh.Mu.Lock()
	defer wsh.Mu.Unlock()
	if _, exists := wsh.Connections[c.ID]; !exists {
		return
	}
	if !c.Enqueue(encoded) {
		log.Warn().Str("client", c.ID).Msg("dropping message, send queue full")
	}
}

// disconnectPlayer removes the connection. The lobby entry stays, and every
// match the client plays in keeps running while any of its participants is
// still connected.
func (wsh *WebSocketHandler) disconnectPlayer(c *client.Client) {
	wsh.Mu.Lock()
	if _, exists := wsh.Connections[c.ID]; !exists {
		wsh.Mu.Unlock()
		return
	}
	delete(wsh.Connections, c.ID)
	close(c.SendQueue)

	// c.RoomCode only names the latest room, so scan every session
	for code, s := range wsh.Sessions {
		if !s.has(c.ID) {
			continue
		}
		remaining := 0
		for _, id := range s.participants {
			if _, connected := wsh.Connections[id]; connected {
				remaining++
			}
		}
		if remaining == 0 {
			wsh.stopSessionLocked(code)
		}
	}
	wsh.Mu.Unlock()

	wsh.RoomManager.Disconnect(c.ID)
}
