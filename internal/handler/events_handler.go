package handler

import (
	"net/http"

	"notefold-server/internal/events"
	"notefold-server/internal/middleware"
	"notefold-server/internal/service"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
)

// EventsHandler upgrades authenticated connections onto the note event
// stream. Browsers cannot set headers on websocket requests, so the token may
// arrive as a query parameter instead of a bearer header.
type EventsHandler struct {
	manager     *events.Manager
	authService *service.AuthService
	upgrader    ws.Upgrader
}

func NewEventsHandler(manager *events.Manager, authService *service.AuthService) *EventsHandler {
	return &EventsHandler{
		manager:     manager,
		authService: authService,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *EventsHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token, _ = middleware.BearerToken(r)
	}

	if token == "" {
		http.Error(w, "missing authorization token", http.StatusUnauthorized)
		return
	}

	user, err := h.authService.Resolve(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := events.NewClient(uuid.New().String(), user.ID, conn, h.manager)

	h.manager.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
