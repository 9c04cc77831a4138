package health_handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"

	httpError "github.com/thatredkite/pyrobot/pkg/http"
)

// HealthHandler структура для обработчика
type HealthHandler struct {
	rdb *redis.Client
}

// NewHealthHandler создает новый экземпляр обработчика
func NewHealthHandler(rdb *redis.Client) *HealthHandler {
	return &HealthHandler{rdb: rdb}
}

// ServeHTTP отвечает на проверку живости; недоступный Redis — 503.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.rdb.Ping(r.Context()).Err(); err != nil {
		httpError.ErrorResponse(w, http.StatusServiceUnavailable, fmt.Sprintf("Redis is unavailable: %v", err))
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
