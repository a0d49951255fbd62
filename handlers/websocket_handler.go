package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/arena/realtime"
	"github.com/Dosada05/arena/services"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin проверяется CORS-политикой API, сокеты открыты для всех.
		return true
	},
}

type WebSocketHandler struct {
	hub               *realtime.Hub
	userService       services.UserService
	tournamentService services.TournamentService
	logger            *slog.Logger
}

func NewWebSocketHandler(hub *realtime.Hub, us services.UserService, ts services.TournamentService, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		hub:               hub,
		userService:       us,
		tournamentService: ts,
		logger:            logger,
	}
}

// ServeUserWs подписывает клиента на личные уведомления и изменения кошелька.
// Клиент подключается к /ws/users/{userID}
func (h *WebSocketHandler) ServeUserWs(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromURL(w, r)
	if !ok {
		return
	}
	if _, err := h.userService.GetByID(r.Context(), userID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.serve(w, r, realtime.UserRoom(userID))
}

// ServeTournamentWs обрабатывает WebSocket запросы для конкретного турнира.
// Клиент должен подключаться к /ws/tournaments/{tournamentID}
func (h *WebSocketHandler) ServeTournamentWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if _, err := h.tournamentService.GetByID(r.Context(), tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.serve(w, r, realtime.TournamentRoom(tournamentID))
}

func (h *WebSocketHandler) serve(w http.ResponseWriter, r *http.Request, room string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader сам отправляет HTTP ошибку клиенту.
		h.logger.WarnContext(r.Context(), "Failed to upgrade websocket", slog.String("room", room), slog.Any("error", err))
		return
	}

	client := realtime.NewClient(h.hub, conn, room)
	if !h.hub.RegisterClient(client) {
		h.logger.DebugContext(r.Context(), "Websocket hub stopped, dropping client", slog.String("room", room))
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()

	h.logger.DebugContext(r.Context(), "Websocket client connected", slog.String("room", room))
}
