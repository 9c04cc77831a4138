package http

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse отправляет клиенту ошибку в формате JSON.
func ErrorResponse(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
