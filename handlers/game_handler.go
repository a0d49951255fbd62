package handlers

import (
	"net/http"

	"github.com/Dosada05/arena/services"
)

type GameHandler struct {
	gameService services.GameService
}

func NewGameHandler(gs services.GameService) *GameHandler {
	return &GameHandler{gameService: gs}
}

// ListGames godoc
// @Summary Список игр
// @Tags games
// @Produce json
// @Param active query bool false "Only active games"
// @Success 200 {object} map[string]interface{}
// @Router /api/games [get]
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	activeOnly, err := readBool(r.URL.Query(), "active")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	games, err := h.gameService.List(r.Context(), activeOnly)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"games": games})
}

// GetGameByID godoc
// @Summary Получить игру
// @Tags games
// @Produce json
// @Param gameID path int true "Game ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/games/{gameID} [get]
func (h *GameHandler) GetGameByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"game": game})
}

// CreateGame godoc
// @Summary Создать игру (админ)
// @Tags games
// @Accept json
// @Produce json
// @Param input body services.GameInput true "Game"
// @Success 201 {object} map[string]interface{}
// @Router /api/games [post]
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var input services.GameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"game": game})
}

// UpdateGame godoc
// @Summary Обновить игру (админ)
// @Tags games
// @Accept json
// @Produce json
// @Param gameID path int true "Game ID"
// @Param input body services.UpdateGameInput true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Router /api/games/{gameID} [put]
func (h *GameHandler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateGameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"game": game})
}

// DeleteGame godoc
// @Summary Удалить игру (админ)
// @Tags games
// @Param gameID path int true "Game ID"
// @Success 204
// @Failure 409 {object} map[string]interface{}
// @Router /api/games/{gameID} [delete]
func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.gameService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
