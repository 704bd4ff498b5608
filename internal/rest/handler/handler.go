// Package handler implements the read-only REST endpoints.
package handler

import (
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/doom2286/Foxcom/internal/rest/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any, logger *zap.Logger) {
	body, err := sonic.Marshal(v)
	if err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message string, logger *zap.Logger) {
	writeJSON(w, status, types.ErrorResponse{Error: message}, logger)
}

// userIDParam parses the {id} path parameter as a Discord snowflake.
func userIDParam(r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}

	return id, true
}
