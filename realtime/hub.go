package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
)

const (
	MessageNotification     = "NOTIFICATION"
	MessageTournamentUpdate = "TOURNAMENT_UPDATED"
	MessageResultsPublished = "RESULTS_PUBLISHED"
	MessageWalletUpdated    = "WALLET_UPDATED"
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

func UserRoom(userID int) string { return "user_" + strconv.Itoa(userID) }

func TournamentRoom(tournamentID int) string { return "tournament_" + strconv.Itoa(tournamentID) }

// Hub раздаёт сообщения клиентам, подписанным на комнаты пользователей и турниров.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	rooms  map[string]map[*Client]bool
	mu     sync.RWMutex
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run обрабатывает подключения до отмены ctx, затем закрывает всех клиентов.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			size := len(h.rooms[client.Room])
			h.mu.Unlock()
			h.logger.Debug("Client registered", slog.String("room", client.Room), slog.Int("clients", size))

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.Room]; ok && clients[client] {
				client.close()
				delete(clients, client)
				if len(clients) == 0 {
					delete(h.rooms, client.Room)
				}
			}
			h.mu.Unlock()
			h.logger.Debug("Client unregistered", slog.String("room", client.Room))
		}
	}
}

// RegisterClient добавляет клиента в его комнату.
// После остановки Run возвращает false, соединение закрывает вызывающий.
func (h *Hub) RegisterClient(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// UnregisterClient никогда не блокирует после остановки Run.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
		c.close()
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, clients := range h.rooms {
		for client := range clients {
			client.close()
		}
		delete(h.rooms, room)
	}
}

// RoomSize возвращает число клиентов в комнате.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// BroadcastToRoom отправляет сообщение всем клиентам в указанной комнате.
// Медленные клиенты с полным буфером пропускаются.
func (h *Hub) BroadcastToRoom(room string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[room]
	if !ok {
		return
	}

	msg.RoomID = room
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Error marshalling websocket message", slog.String("room", room), slog.Any("error", err))
		return
	}

	for client := range clients {
		if !client.trySend(data) {
			h.logger.Warn("Client send buffer full, skipping", slog.String("room", room))
		}
	}
}

func (h *Hub) PushToUser(userID int, msgType string, payload interface{}) {
	h.BroadcastToRoom(UserRoom(userID), Message{Type: msgType, Payload: payload})
}

func (h *Hub) PushToTournament(tournamentID int, msgType string, payload interface{}) {
	h.BroadcastToRoom(TournamentRoom(tournamentID), Message{Type: msgType, Payload: payload})
}
