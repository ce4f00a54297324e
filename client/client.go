package client

import (
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mo-shahab/pong-duel/paddle"
)

// Client is one websocket connection. SendQueue is drained by a single
// writer goroutine; RoomCode and Side are set once the lobby pairs it.
type Client struct {
	ID        string
	Conn      *websocket.Conn
	SendQueue chan []byte
	RoomCode  string
	Side      paddle.Side
}

func New(conn *websocket.Conn, queueSize int) *Client {
	return &Client{
		ID:        uuid.NewString(),
		Conn:      conn,
		SendQueue: make(chan []byte, queueSize),
	}
}

// Enqueue hands msg to the writer without blocking. It reports false when
// the queue is full and the message was dropped.
func (c *Client) Enqueue(msg []byte) bool {
	select {
	case c.SendQueue <- msg:
		return true
	default:
		return false
	}
}
