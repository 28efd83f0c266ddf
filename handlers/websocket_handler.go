package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/asopadel/padel-system/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is served to browser clients from other origins; access
	// control happens at the token level, not the origin level.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub    *live.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// SubscribeTournament streams live match events for one tournament.
func (h *WebSocketHandler) SubscribeTournament(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	h.subscribe(w, r, live.TournamentRoom(id))
}

// SubscribeCourts streams live court status updates for every court.
func (h *WebSocketHandler) SubscribeCourts(w http.ResponseWriter, r *http.Request) {
	h.subscribe(w, r, live.CourtsRoom)
}

// SubscribeCourt streams reservation and status events for one court.
func (h *WebSocketHandler) SubscribeCourt(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	h.subscribe(w, r, live.CourtRoom(id))
}

func (h *WebSocketHandler) subscribe(w http.ResponseWriter, r *http.Request, room string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			slog.String("room", room),
			slog.String("path", chi.RouteContext(r.Context()).RoutePattern()),
			slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, room)
	h.hub.Register(client)
	go client.WritePump()
	go client.ReadPump()
}
