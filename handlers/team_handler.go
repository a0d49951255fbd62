package handlers

import (
	"net/http"

	"github.com/Dosada05/arena/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(ts services.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: ts,
	}
}

type createTeamRequest struct {
	CaptainID  int    `json:"captainId,omitempty"`
	Name       string `json:"name"`
	MaxMembers int    `json:"maxMembers,omitempty"`
}

type joinTeamRequest struct {
	UserID int `json:"userId,omitempty"`
}

type joinByCodeRequest struct {
	UserID   int    `json:"userId,omitempty"`
	JoinCode string `json:"joinCode"`
}

// CreateTeam godoc
// @Summary Создать команду, капитан становится первым участником
// @Tags teams
// @Accept json
// @Produce json
// @Param input body createTeamRequest true "Team"
// @Success 201 {object} map[string]interface{}
// @Router /api/teams [post]
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	captainID, ok := actingUser(w, r, req.CaptainID)
	if !ok {
		return
	}

	team, err := h.teamService.Create(r.Context(), captainID, services.CreateTeamInput{Name: req.Name, MaxMembers: req.MaxMembers})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"team": team})
}

// ListTeams godoc
// @Summary Список команд
// @Tags teams
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/teams [get]
func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"teams": teams})
}

// GetTeamByID godoc
// @Summary Получить команду
// @Tags teams
// @Produce json
// @Param teamID path int true "Team ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/teams/{teamID} [get]
func (h *TeamHandler) GetTeamByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"team": team})
}

// captainOnly пропускает капитана команды или администратора.
func (h *TeamHandler) captainOnly(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return 0, false
	}
	team, err := h.teamService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return 0, false
	}
	if !requireSelf(w, r, team.CaptainID) {
		return 0, false
	}
	return id, true
}

// UpdateTeam godoc
// @Summary Обновить команду (капитан или админ)
// @Tags teams
// @Accept json
// @Produce json
// @Param teamID path int true "Team ID"
// @Param input body services.UpdateTeamInput true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Router /api/teams/{teamID} [put]
func (h *TeamHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := h.captainOnly(w, r)
	if !ok {
		return
	}

	var input services.UpdateTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"team": team})
}

// DeleteTeam godoc
// @Summary Удалить команду (капитан или админ)
// @Tags teams
// @Param teamID path int true "Team ID"
// @Success 204
// @Router /api/teams/{teamID} [delete]
func (h *TeamHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := h.captainOnly(w, r)
	if !ok {
		return
	}

	if err := h.teamService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// JoinTeam godoc
// @Summary Вступить в команду по id
// @Tags teams
// @Accept json
// @Produce json
// @Param teamID path int true "Team ID"
// @Param input body joinTeamRequest false "Joining user"
// @Success 201 {object} map[string]interface{}
// @Router /api/teams/{teamID}/join [post]
func (h *TeamHandler) JoinTeam(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req joinTeamRequest
	if err := readOptionalJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, ok := actingUser(w, r, req.UserID)
	if !ok {
		return
	}

	member, err := h.teamService.Join(r.Context(), id, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"member": member})
}

// JoinByCode godoc
// @Summary Вступить в команду по коду приглашения
// @Tags teams
// @Accept json
// @Produce json
// @Param input body joinByCodeRequest true "Join code and user"
// @Success 201 {object} map[string]interface{}
// @Router /api/teams/join-by-code [post]
func (h *TeamHandler) JoinByCode(w http.ResponseWriter, r *http.Request) {
	var req joinByCodeRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, ok := actingUser(w, r, req.UserID)
	if !ok {
		return
	}

	member, err := h.teamService.JoinByCode(r.Context(), req.JoinCode, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"member": member})
}

// ListMembers godoc
// @Summary Участники команды
// @Tags teams
// @Produce json
// @Param teamID path int true "Team ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/teams/{teamID}/members [get]
func (h *TeamHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	members, err := h.teamService.ListMembers(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"members": members})
}
