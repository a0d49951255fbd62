package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Dosada05/arena/models"
	"github.com/Dosada05/arena/services"
)

// AdminHandler обслуживает административные операции с кошельками и рассылками.
type AdminHandler struct {
	walletService       services.WalletService
	notificationService services.NotificationService
	dashboardService    services.DashboardService
}

func NewAdminHandler(ws services.WalletService, ns services.NotificationService, ds services.DashboardService) *AdminHandler {
	return &AdminHandler{
		walletService:       ws,
		notificationService: ns,
		dashboardService:    ds,
	}
}

// ListTransactions godoc
// @Summary Журнал транзакций (админ)
// @Tags admin
// @Produce json
// @Param user_id query int false "User ID"
// @Param type query string false "Transaction type"
// @Param status query string false "Transaction status"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} map[string]interface{}
// @Router /api/transactions [get]
func (h *AdminHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter models.TransactionFilter

	if s := q.Get("user_id"); s != "" {
		id, err := strconv.Atoi(s)
		if err != nil || id <= 0 {
			badRequestResponse(w, r, errors.New("invalid user_id query parameter"))
			return
		}
		filter.UserID = &id
	}
	if s := q.Get("type"); s != "" {
		t := models.TransactionType(s)
		filter.Type = &t
	}
	if s := q.Get("status"); s != "" {
		st := models.TransactionStatus(s)
		filter.Status = &st
	}
	var err error
	if filter.Limit, err = readInt(q, "limit", 0); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if filter.Offset, err = readInt(q, "offset", 0); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	items, err := h.walletService.ListTransactions(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"transactions": items})
}

// CreateTransaction godoc
// @Summary Добавить запись в журнал (админ)
// @Description Завершенная запись меняет баланс кошелька в той же транзакции.
// @Tags admin
// @Accept json
// @Produce json
// @Param input body services.CreateTransactionInput true "Ledger row"
// @Success 201 {object} map[string]interface{}
// @Router /api/transactions [post]
func (h *AdminHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTransactionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tx, err := h.walletService.CreateTransaction(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"transaction": tx})
}

// SendNotification godoc
// @Summary Отправить уведомление пользователю или всем (админ)
// @Tags admin
// @Accept json
// @Produce json
// @Param input body services.SendNotificationInput true "Notification"
// @Success 201 {object} map[string]interface{}
// @Router /api/admin/notifications [post]
func (h *AdminHandler) SendNotification(w http.ResponseWriter, r *http.Request) {
	var input services.SendNotificationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	sent, err := h.notificationService.Send(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, jsonResponse{"sent": len(sent), "notifications": sent})
}

// Stats godoc
// @Summary Статистика платформы (админ)
// @Tags admin
// @Produce json
// @Success 200 {object} models.DashboardStats
// @Router /api/admin/stats [get]
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.GetStats(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"stats": stats})
}
