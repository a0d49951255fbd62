package handlers

import (
	"context"
	"net/http"

	"github.com/Dosada05/arena/models"
	"github.com/Dosada05/arena/services"
)

type WalletHandler struct {
	walletService services.WalletService
}

func NewWalletHandler(ws services.WalletService) *WalletHandler {
	return &WalletHandler{walletService: ws}
}

type walletRequest struct {
	UserID int          `json:"userId,omitempty"`
	Amount models.Money `json:"amount"`
}

// AddMoney godoc
// @Summary Пополнить кошелек
// @Tags wallet
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Retry key"
// @Param input body walletRequest true "User and amount"
// @Success 201 {object} services.WalletOperation
// @Success 200 {object} services.WalletOperation
// @Router /api/wallet/add-money [post]
func (h *WalletHandler) AddMoney(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.walletService.AddMoney)
}

// Withdraw godoc
// @Summary Вывести деньги из кошелька
// @Tags wallet
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Retry key"
// @Param input body walletRequest true "User and amount"
// @Success 201 {object} services.WalletOperation
// @Failure 400 {object} map[string]interface{}
// @Router /api/wallet/withdraw [post]
func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.walletService.Withdraw)
}

type walletMoveFunc func(ctx context.Context, userID int, amount models.Money, key string) (*services.WalletOperation, error)

func (h *WalletHandler) move(w http.ResponseWriter, r *http.Request, apply walletMoveFunc) {
	var req walletRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, ok := actingUser(w, r, req.UserID)
	if !ok {
		return
	}

	op, err := apply(r.Context(), userID, req.Amount, r.Header.Get(idempotencyKey))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	status := http.StatusCreated
	if op.Replayed {
		status = http.StatusOK
	}
	respond(w, r, status, op)
}
