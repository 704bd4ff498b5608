package handler

import (
	"net/http"
	"strconv"

	"github.com/doom2286/Foxcom/internal/database"
	"github.com/doom2286/Foxcom/internal/rest/convert"
	"github.com/doom2286/Foxcom/internal/rest/types"
	"go.uber.org/zap"
)

// DefaultLeaderboardLimit is used when no limit query parameter is given.
const DefaultLeaderboardLimit = 10

// ReputationHandler serves reputation and quota lookups.
type ReputationHandler struct {
	db     database.Client
	logger *zap.Logger
}

// NewReputationHandler creates a new reputation handler.
func NewReputationHandler(db database.Client, logger *zap.Logger) *ReputationHandler {
	return &ReputationHandler{
		db:     db,
		logger: logger.Named("rest_reputation"),
	}
}

// GetReputation returns the reputation card of one user. Unknown users get
// a zero score rather than 404.
func (h *ReputationHandler) GetReputation(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id", h.logger)
		return
	}

	card, err := h.db.Service().Reputation().GetCard(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get reputation card", zap.Uint64("userID", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error", h.logger)
		return
	}

	blocked, err := h.db.Model().Block().IsBlocked(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to check block list", zap.Uint64("userID", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, convert.Reputation(card, blocked), h.logger)
}

// GetQuota returns how many broadcasts the user has left in the current window.
func (h *ReputationHandler) GetQuota(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id", h.logger)
		return
	}

	remaining, limits, err := h.db.Service().Quota().Remaining(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get remaining quota", zap.Uint64("userID", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, types.QuotaResponse{
		UserID:        userID,
		MaxActions:    limits.MaxActions,
		WindowSeconds: limits.WindowSeconds(),
		Remaining:     remaining,
	}, h.logger)
}

// GetLeaderboard returns the top accounts by score.
func (h *ReputationHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := DefaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit", h.logger)
			return
		}
		limit = parsed
	}

	accounts, err := h.db.Service().Reputation().GetLeaderboard(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to get leaderboard", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, convert.Leaderboard(accounts), h.logger)
}
