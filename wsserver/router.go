package wsserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type roomStatus struct {
	Code      string    `json:"code"`
	Players   int       `json:"players"`
	Full      bool      `json:"full"`
	Training  bool      `json:"training"`
	Hard      bool      `json:"hard"`
	Running   bool      `json:"running"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewRouter mounts the websocket endpoint next to a couple of JSON
// diagnostics routes.
func NewRouter(wsh *WebSocketHandler) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	r.Get("/rooms/{code}", wsh.handleRoomStatus)

	r.Handle("/ws", wsh)

	return r
}

func (wsh *WebSocketHandler) handleRoomStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	code := chi.URLParam(r, "code")
	entry, exists := wsh.RoomManager.GetRoom(code)
	if !exists {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}

	_, running := wsh.sessionFor(code)
	_ = json.NewEncoder(w).Encode(roomStatus{
		Code:      entry.Code,
		Players:   len(entry.Participants()),
		Full:      entry.Full(),
		Training:  entry.Config.TrainingMode,
		Hard:      entry.Config.HardMode,
		Running:   running,
		CreatedAt: entry.CreatedAt,
	})
}
