package handlers

import (
	"net/http"

	"github.com/Dosada05/arena/middleware"
	"github.com/Dosada05/arena/models"
	"github.com/Dosada05/arena/services"
)

type UserHandler struct {
	userService         services.UserService
	walletService       services.WalletService
	notificationService services.NotificationService
}

func NewUserHandler(us services.UserService, ws services.WalletService, ns services.NotificationService) *UserHandler {
	return &UserHandler{
		userService:         us,
		walletService:       ws,
		notificationService: ns,
	}
}

// userFromURL читает {userID} и проверяет право действовать от имени пользователя.
func userFromURL(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return 0, false
	}
	if !requireSelf(w, r, id) {
		return 0, false
	}
	return id, true
}

// ListUsers godoc
// @Summary Список пользователей (админ)
// @Tags users
// @Produce json
// @Param search query string false "Username, email or name fragment"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} map[string]interface{}
// @Router /api/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := readInt(q, "limit", 0)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	offset, err := readInt(q, "offset", 0)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	users, err := h.userService.List(r.Context(), models.UserFilter{Search: q.Get("search"), Limit: limit, Offset: offset})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"users": users})
}

// GetUserByID godoc
// @Summary Профиль пользователя
// @Tags users
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/users/{userID} [get]
func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"user": user})
}

// UpdateUserByID godoc
// @Summary Обновить профиль пользователя
// @Tags users
// @Accept json
// @Produce json
// @Param userID path int true "User ID"
// @Param input body services.UpdateUserInput true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Router /api/users/{userID} [put]
func (h *UserHandler) UpdateUserByID(w http.ResponseWriter, r *http.Request) {
	id, ok := userFromURL(w, r)
	if !ok {
		return
	}

	var input services.UpdateUserInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.userService.Update(r.Context(), id, input, middleware.IsAdmin(r.Context()))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"user": user})
}

// UploadUserAvatar godoc
// @Summary Загрузить аватар пользователя
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param userID path int true "User ID"
// @Param avatar formData file true "Image file"
// @Success 200 {object} map[string]interface{}
// @Router /api/users/{userID}/avatar [put]
func (h *UserHandler) UploadUserAvatar(w http.ResponseWriter, r *http.Request) {
	id, ok := userFromURL(w, r)
	if !ok {
		return
	}

	file, contentType, err := readImage(w, r, "avatar")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	user, err := h.userService.UploadAvatar(r.Context(), id, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"user": user})
}

// ListTransactions godoc
// @Summary История кошелька, новые записи первыми
// @Tags users
// @Produce json
// @Param userID path int true "User ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} map[string]interface{}
// @Router /api/users/{userID}/transactions [get]
func (h *UserHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := userFromURL(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	limit, err := readInt(q, "limit", 0)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	offset, err := readInt(q, "offset", 0)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	items, err := h.walletService.ListUserTransactions(r.Context(), id, limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"transactions": items})
}

// ListNotifications godoc
// @Summary Уведомления пользователя
// @Tags users
// @Produce json
// @Param userID path int true "User ID"
// @Param unread query bool false "Only unread"
// @Success 200 {object} map[string]interface{}
// @Router /api/users/{userID}/notifications [get]
func (h *UserHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	id, ok := userFromURL(w, r)
	if !ok {
		return
	}
	unread, err := readBool(r.URL.Query(), "unread")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	items, err := h.notificationService.ListForUser(r.Context(), id, unread)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"notifications": items})
}

// MarkAllNotificationsRead godoc
// @Summary Отметить все уведомления прочитанными
// @Tags users
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/users/{userID}/notifications/read-all [put]
func (h *UserHandler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	id, ok := userFromURL(w, r)
	if !ok {
		return
	}

	n, err := h.notificationService.MarkAllRead(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"updated": n})
}

// ListTournaments godoc
// @Summary Турниры пользователя
// @Tags users
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/users/{userID}/tournaments [get]
func (h *UserHandler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	items, err := h.userService.ListTournaments(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"tournaments": items})
}

// ListTeams godoc
// @Summary Команды пользователя
// @Tags users
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/users/{userID}/teams [get]
func (h *UserHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	items, err := h.userService.ListTeams(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"teams": items})
}

// ListReferrals godoc
// @Summary Приглашенные пользователем
// @Tags users
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/users/{userID}/referrals [get]
func (h *UserHandler) ListReferrals(w http.ResponseWriter, r *http.Request) {
	id, ok := userFromURL(w, r)
	if !ok {
		return
	}

	items, err := h.userService.ListReferrals(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"referrals": items})
}
