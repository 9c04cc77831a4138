package reset_attempts_handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thatredkite/pyrobot/internal/domain/attempts/repository"
	httpError "github.com/thatredkite/pyrobot/pkg/http"
)

// ResetAttemptsHandler структура для обработчика. Делает то же, что команда
// /pyrotest reset, но для операторов без прав администратора в гильдии.
type ResetAttemptsHandler struct {
	store repository.AttemptStore
}

// NewResetAttemptsHandler создает новый экземпляр обработчика
func NewResetAttemptsHandler(store repository.AttemptStore) *ResetAttemptsHandler {
	return &ResetAttemptsHandler{store: store}
}

// ServeHTTP метод для обработки запроса
func (h *ResetAttemptsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	userID := chi.URLParam(r, "userID")
	if guildID == "" || userID == "" {
		httpError.ErrorResponse(w, http.StatusBadRequest, "Missing guildID or userID in path")
		return
	}

	if err := h.store.ResetUser(r.Context(), guildID, userID); err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Failed to reset user: %v", err))
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	response := map[string]interface{}{
		"message": fmt.Sprintf("Test attempts reset for user %s in guild %s", userID, guildID),
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
}
