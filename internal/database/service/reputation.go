package service

import (
	"context"
	"fmt"

	"github.com/doom2286/Foxcom/internal/database/models"
	"github.com/doom2286/Foxcom/internal/database/types"
	"github.com/doom2286/Foxcom/internal/reputation"
	"go.uber.org/zap"
)

// Leaderboard limits.
const (
	MinLeaderboardLimit = 1
	MaxLeaderboardLimit = 25
)

// ReputationService handles reputation-related business logic.
type ReputationService struct {
	model    *models.ReputationModel
	minScore int64
	maxScore int64
	logger   *zap.Logger
}

// NewReputation creates a new reputation service.
func NewReputation(model *models.ReputationModel, minScore, maxScore int64, logger *zap.Logger) *ReputationService {
	return &ReputationService{
		model:    model,
		minScore: minScore,
		maxScore: maxScore,
		logger:   logger.Named("reputation_service"),
	}
}

// Card is the reputation summary shown to a user.
type Card struct {
	UserID    uint64               `json:"userId"`
	UserName  string               `json:"userName"`
	Score     int64                `json:"score"`
	Tier      reputation.Tier      `json:"tier"`
	Milestone reputation.Milestone `json:"milestone"`
	Stars     string               `json:"stars"`
}

// Bounds returns the inclusive range accepted by SetScore.
func (s *ReputationService) Bounds() (int64, int64) {
	return s.minScore, s.maxScore
}

// GetScore returns the user's score, or 0 if the user has no account.
func (s *ReputationService) GetScore(ctx context.Context, userID uint64) (int64, error) {
	return s.model.GetScore(ctx, userID)
}

// EnsureAccount creates or refreshes the user's account.
func (s *ReputationService) EnsureAccount(ctx context.Context, userID uint64, displayName string) error {
	return s.model.EnsureAccount(ctx, userID, displayName)
}

// AdjustScore applies a signed delta to an existing account.
func (s *ReputationService) AdjustScore(ctx context.Context, userID uint64, delta int64) error {
	return s.model.AdjustScore(ctx, userID, delta)
}

// SetScore overrides a user's score. Values outside the configured bound are
// rejected without touching the ledger.
func (s *ReputationService) SetScore(
	ctx context.Context, userID uint64, displayName string, value int64, actor string,
) error {
	if value < s.minScore || value > s.maxScore {
		return fmt.Errorf("%w: %d not in [%d, %d]", types.ErrScoreOutOfRange, value, s.minScore, s.maxScore)
	}

	previous, err := s.model.GetScore(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.model.SetScore(ctx, userID, displayName, value); err != nil {
		return err
	}

	s.logger.Info("Reputation overridden",
		zap.Uint64("userID", userID),
		zap.String("userName", displayName),
		zap.Int64("previous", previous),
		zap.Int64("value", value),
		zap.String("actor", actor))

	return nil
}

// GetLeaderboard returns the top accounts. The limit is clamped to [1, 25].
func (s *ReputationService) GetLeaderboard(ctx context.Context, limit int) ([]*types.ReputationAccount, error) {
	limit = min(max(limit, MinLeaderboardLimit), MaxLeaderboardLimit)
	return s.model.GetLeaderboard(ctx, limit)
}

// GetCard returns the user's score with its tier and next milestone.
func (s *ReputationService) GetCard(ctx context.Context, userID uint64) (*Card, error) {
	account, found, err := s.model.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	card := &Card{UserID: userID}
	if found {
		card.UserName = account.UserName
		card.Score = account.Rep
	}

	card.Tier = reputation.TierFor(card.Score)
	card.Milestone = reputation.MilestoneFor(card.Score)
	card.Stars = reputation.Stars(card.Score)

	return card, nil
}
