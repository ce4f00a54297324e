package wsserver

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mo-shahab/pong-duel/canvas"
	"github.com/mo-shahab/pong-duel/proto"
	"github.com/mo-shahab/pong-duel/room"
)

func newTestServer(t *testing.T) (*WebSocketHandler, *httptest.Server) {
	t.Helper()
	return newTestServerWith(t, Options{
		Canvas:        canvas.Default(),
		TickRate:      5 * time.Millisecond,
		SendQueueSize: 256,
	})
}

func newTestServerWith(t *testing.T, opts Options) (*WebSocketHandler, *httptest.Server) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	wsh := NewWebSocketHandler(ctx, opts)
	srv := httptest.NewServer(NewRouter(wsh))

	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return wsh, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, m *proto.Message) {
	t.Helper()

	b, err := proto.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, b); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// readUntil returns the first frame of the wanted type, skipping others.
func readUntil(t *testing.T, conn *websocket.Conn, want proto.MsgType, match func(*proto.Message) bool) *proto.Message {
	t.Helper()

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		_, b, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %v: %v", want, err)
		}
		m, err := proto.Unmarshal(b)
		if err != nil {
			t.Fatalf("bad frame: %v", err)
		}
		if m.Type == want && (match == nil || match(m)) {
			return m
		}
	}
}

func waitForConnections(t *testing.T, wsh *WebSocketHandler, n int) {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for {
		wsh.Mu.Lock()
		got := len(wsh.Connections)
		wsh.Mu.Unlock()
		if got == n {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("connections = %d, want %d", got, n)
		}
		time.Sleep(time.Millisecond)
	}
}

func createGame(t *testing.T, host *websocket.Conn, cfg *proto.MatchConfig) string {
	t.Helper()

	send(t, host, &proto.Message{Type: proto.MsgTypeCreateGame, Config: cfg})
	created := readUntil(t, host, proto.MsgTypeGameCreated, nil)
	if len(created.Code) != room.CodeLength {
		t.Fatalf("code %q", created.Code)
	}
	return created.Code
}

func TestCreateAndJoinNotifiesBothPlayers(t *testing.T) {
	_, srv := newTestServer(t)
	host := dial(t, srv)
	guest := dial(t, srv)

	code := createGame(t, host, nil)
	send(t, guest, &proto.Message{Type: proto.MsgTypeJoinGame, Code: code})

	g := readUntil(t, guest, proto.MsgTypeGameJoined, nil)
	h := readUntil(t, host, proto.MsgTypeGameJoined, nil)

	if g.Side != "right" || h.Side != "left" {
		t.Fatalf("sides host=%q guest=%q", h.Side, g.Side)
	}
	if g.Code != code || h.Code != code {
		t.Fatalf("codes host=%q guest=%q, want %q", h.Code, g.Code, code)
	}

	// both sides are driven by the same match
	hs := readUntil(t, host, proto.MsgTypeGameState, nil)
	gs := readUntil(t, guest, proto.MsgTypeGameState, nil)
	if len(hs.State.Paddles) != 2 || len(gs.State.Paddles) != 2 {
		t.Fatal("state frames missing paddles")
	}
}

func TestJoinRejections(t *testing.T) {
	_, srv := newTestServer(t)
	host := dial(t, srv)
	guest := dial(t, srv)
	late := dial(t, srv)

	code := createGame(t, host, nil)
	send(t, guest, &proto.Message{Type: proto.MsgTypeJoinGame, Code: code})
	readUntil(t, guest, proto.MsgTypeGameJoined, nil)

	send(t, late, &proto.Message{Type: proto.MsgTypeJoinGame, Code: code})
	full := readUntil(t, late, proto.MsgTypeError, nil)
	if full.Error != room.ErrFull.Error() {
		t.Fatalf("error = %q, want %q", full.Error, room.ErrFull.Error())
	}

	send(t, late, &proto.Message{Type: proto.MsgTypeJoinGame, Code: "bogus"})
	missing := readUntil(t, late, proto.MsgTypeError, nil)
	if missing.Error != room.ErrNotFound.Error() {
		t.Fatalf("error = %q, want %q", missing.Error, room.ErrNotFound.Error())
	}
}

func TestMovementReachesTheSharedMatch(t *testing.T) {
	_, srv := newTestServer(t)
	host := dial(t, srv)
	guest := dial(t, srv)

	code := createGame(t, host, &proto.MatchConfig{TrainingMode: true})
	send(t, guest, &proto.Message{Type: proto.MsgTypeJoinGame, Code: code})
	readUntil(t, guest, proto.MsgTypeGameJoined, nil)

	send(t, guest, &proto.Message{Type: proto.MsgTypeMovement, Delta: 20})

	rightAt := func(y float64) func(*proto.Message) bool {
		return func(m *proto.Message) bool {
			for _, p := range m.State.Paddles {
				if p.Side == "right" && p.Y == y {
					return true
				}
			}
			return false
		}
	}
	readUntil(t, guest, proto.MsgTypeGameState, rightAt(170))
	readUntil(t, host, proto.MsgTypeGameState, rightAt(170))
}

func TestInvalidFrameGetsAnError(t *testing.T) {
	_, srv := newTestServer(t)
	conn := dial(t, srv)

	if err := conn.WriteMessage(websocket.BinaryMessage, []byte{0x12, 0x05, 'a'}); err != nil {
		t.Fatal(err)
	}
	m := readUntil(t, conn, proto.MsgTypeError, nil)
	if m.Error != "invalid message" {
		t.Fatalf("error = %q", m.Error)
	}
}

func TestSessionStopsWhenEveryoneLeaves(t *testing.T) {
	wsh, srv := newTestServer(t)
	host := dial(t, srv)
	guest := dial(t, srv)

	code := createGame(t, host, nil)
	send(t, guest, &proto.Message{Type: proto.MsgTypeJoinGame, Code: code})
	readUntil(t, guest, proto.MsgTypeGameJoined, nil)

	s, ok := wsh.sessionFor(code)
	if !ok {
		t.Fatal("no session after join")
	}

	host.Close()
	guest.Close()

	select {
	case <-s.done:
	case <-time.After(3 * time.Second):
		t.Fatal("match loop still running after both players left")
	}

	// the lobby entry is advisory and outlives its players
	if _, ok := wsh.RoomManager.GetRoom(code); !ok {
		t.Fatal("room removed on disconnect")
	}
}

func TestSessionStopsAfterHostCreatesAnotherGame(t *testing.T) {
	wsh, srv := newTestServer(t)
	host := dial(t, srv)
	guest := dial(t, srv)

	code := createGame(t, host, nil)
	send(t, guest, &proto.Message{Type: proto.MsgTypeJoinGame, Code: code})
	readUntil(t, guest, proto.MsgTypeGameJoined, nil)

	s, ok := wsh.sessionFor(code)
	if !ok {
		t.Fatal("no session after join")
	}

	// the host's connection now points at a second, empty room
	if other := createGame(t, host, nil); other == code {
		t.Fatalf("second room reused code %q", code)
	}

	// guest first, so the host is the last participant to leave
	guest.Close()
	waitForConnections(t, wsh, 1)
	host.Close()

	select {
	case <-s.done:
	case <-time.After(3 * time.Second):
		t.Fatalf("match loop for %s still running after both players left", code)
	}
	if _, ok := wsh.sessionFor(code); ok {
		t.Fatal("stopped session still registered")
	}
}

func TestSessionRunsBeforePlayersHearTheyJoined(t *testing.T) {
	wsh, srv := newTestServer(t)
	host := dial(t, srv)
	guest := dial(t, srv)

	code := createGame(t, host, nil)
	send(t, guest, &proto.Message{Type: proto.MsgTypeJoinGame, Code: code})
	readUntil(t, host, proto.MsgTypeGameJoined, nil)

	if _, ok := wsh.sessionFor(code); !ok {
		t.Fatal("host told the match is ready before it started")
	}
}

func TestLongMatchKeepsLobbyEntry(t *testing.T) {
	ttl := 40 * time.Millisecond
	wsh, srv := newTestServerWith(t, Options{
		Canvas:        canvas.Default(),
		TickRate:      5 * time.Millisecond,
		SendQueueSize: 1024,
		LobbyTTL:      ttl,
	})
	host := dial(t, srv)
	guest := dial(t, srv)

	code := createGame(t, host, &proto.MatchConfig{TrainingMode: true})
	send(t, guest, &proto.Message{Type: proto.MsgTypeJoinGame, Code: code})
	readUntil(t, guest, proto.MsgTypeGameJoined, nil)

	time.Sleep(4 * ttl)

	if removed := wsh.RoomManager.Sweep(time.Now()); removed != 0 {
		t.Fatalf("Sweep() = %d while the match is running, want 0", removed)
	}
	if _, ok := wsh.RoomManager.GetRoom(code); !ok {
		t.Fatal("running match lost its lobby entry")
	}
}

func TestStaleSessionIsReplacedForNewPair(t *testing.T) {
	wsh, _ := newTestServer(t)

	first := room.Entry{Code: "aaaaaa", Host: "h1", Guest: "g1"}
	wsh.startSession(first)
	old, ok := wsh.sessionFor(first.Code)
	if !ok {
		t.Fatal("no session started")
	}

	wsh.startSession(first)
	if again, _ := wsh.sessionFor(first.Code); again != old {
		t.Fatal("same pair got a new session")
	}

	wsh.startSession(room.Entry{Code: "aaaaaa", Host: "h2", Guest: "g2"})
	cur, ok := wsh.sessionFor(first.Code)
	if !ok || cur == old {
		t.Fatal("new pair attached to the old match")
	}
	if !cur.has("h2") || !cur.has("g2") || cur.has("g1") {
		t.Fatalf("participants = %v", cur.participants)
	}

	select {
	case <-old.done:
	case <-time.After(3 * time.Second):
		t.Fatal("stale match loop still running")
	}
}

func TestNonFiniteMovementIsRejected(t *testing.T) {
	_, srv := newTestServer(t)
	host := dial(t, srv)
	guest := dial(t, srv)

	code := createGame(t, host, &proto.MatchConfig{TrainingMode: true})
	send(t, guest, &proto.Message{Type: proto.MsgTypeJoinGame, Code: code})
	readUntil(t, guest, proto.MsgTypeGameJoined, nil)

	for _, delta := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		send(t, guest, &proto.Message{Type: proto.MsgTypeMovement, Delta: delta})
		m := readUntil(t, guest, proto.MsgTypeError, nil)
		if m.Error != "invalid movement" {
			t.Fatalf("delta %v: error = %q", delta, m.Error)
		}
	}

	send(t, guest, &proto.Message{Type: proto.MsgTypeMovement, Delta: 20})
	readUntil(t, guest, proto.MsgTypeGameState, func(m *proto.Message) bool {
		for _, p := range m.State.Paddles {
			if p.Side == "right" && p.Y == 170 {
				return true
			}
		}
		return false
	})
}

func TestRoomStatusEndpoint(t *testing.T) {
	_, srv := newTestServer(t)
	host := dial(t, srv)
	code := createGame(t, host, &proto.MatchConfig{HardMode: true})

	res, err := http.Get(srv.URL + "/rooms/" + code)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}

	var status roomStatus
	if err := json.NewDecoder(res.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if status.Code != code || status.Players != 1 || status.Full || !status.Hard || status.Running {
		t.Fatalf("unexpected status %+v", status)
	}

	missing, err := http.Get(srv.URL + "/rooms/nope00")
	if err != nil {
		t.Fatal(err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", missing.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	_, srv := newTestServer(t)

	res, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
}
