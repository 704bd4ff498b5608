package handler

import (
	"net/http"

	"github.com/doom2286/Foxcom/internal/database"
	"github.com/doom2286/Foxcom/internal/rest/convert"
	"go.uber.org/zap"
)

// StatusHandler reports ledger health.
type StatusHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(db database.Client, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{
		db:     db,
		logger: logger.Named("rest_status"),
	}
}

// GetStatus returns row counts for every ledger table and the last prune time.
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := h.db.Service().Maintenance().Status(r.Context())
	if err != nil {
		h.logger.Error("Failed to get ledger status", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, convert.Status(counts), h.logger)
}

// Healthz always answers 200 while the process is serving.
func (h *StatusHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
