package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger реализуется repositories.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store   Pinger
	version string
}

func NewHealthHandler(store Pinger, version string) *HealthHandler {
	return &HealthHandler{store: store, version: version}
}

// Healthz godoc
// @Summary Проверка сервиса и хранилища
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /healthz [get]
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		errorResponse(w, r, http.StatusServiceUnavailable, "storage unavailable: "+err.Error(), nil)
		return
	}
	respond(w, r, http.StatusOK, jsonResponse{"status": "ok", "version": h.version})
}
