package attempt_report_handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thatredkite/pyrobot/internal/domain/attempts/repository"
	"github.com/thatredkite/pyrobot/internal/domain/dto"
	httpError "github.com/thatredkite/pyrobot/pkg/http"
)

// AttemptReportHandler структура для обработчика
type AttemptReportHandler struct {
	store repository.AttemptStore
}

// NewAttemptReportHandler создает новый экземпляр обработчика
func NewAttemptReportHandler(store repository.AttemptStore) *AttemptReportHandler {
	return &AttemptReportHandler{store: store}
}

// ServeHTTP метод для обработки запроса
func (h *AttemptReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	userID := chi.URLParam(r, "userID")
	if guildID == "" || userID == "" {
		httpError.ErrorResponse(w, http.StatusBadRequest, "Missing guildID or userID in path")
		return
	}

	ctx := r.Context()
	count, err := h.store.GetAttemptCount(ctx, guildID, userID)
	if err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Failed to get attempt count: %v", err))
		return
	}
	maxTries, err := h.store.GetMaxTries(ctx, guildID)
	if err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Failed to get max tries: %v", err))
		return
	}
	completed, err := h.store.IsCompleted(ctx, guildID, userID)
	if err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Failed to check completion: %v", err))
		return
	}

	response := dto.AttemptReportResponse{
		GuildID:      guildID,
		UserID:       userID,
		AttemptCount: count,
		MaxTries:     maxTries,
		Completed:    completed,
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
}
