package handlers

import (
	"net/http"

	"github.com/Dosada05/arena/services"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(ls services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: ls}
}

// Get godoc
// @Summary Рейтинг пользователей по балансу и бонусным монетам
// @Tags leaderboard
// @Produce json
// @Param limit query int false "Maximum entries"
// @Success 200 {object} map[string]interface{}
// @Router /api/leaderboard [get]
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	limit, err := readInt(r.URL.Query(), "limit", 0)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.leaderboardService.Get(r.Context(), limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"leaderboard": entries})
}
