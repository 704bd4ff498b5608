package database

import (
	"github.com/doom2286/Foxcom/internal/database/ledger"
	"github.com/doom2286/Foxcom/internal/database/models"
	"github.com/doom2286/Foxcom/internal/setup/config"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	reputation  *models.ReputationModel
	vote        *models.VoteModel
	quota       *models.QuotaModel
	maintenance *models.MaintenanceModel
	block       *models.BlockModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(l *ledger.Ledger, cfg *config.CommonConfig, logger *zap.Logger) *Repository {
	vote := models.NewVote(l, cfg.Reputation.TTL(), logger)

	return &Repository{
		reputation:  models.NewReputation(l, logger),
		vote:        vote,
		quota:       models.NewQuota(l, cfg.Quota.Retention(), logger),
		maintenance: models.NewMaintenance(l, vote, logger),
		block:       models.NewBlock(l, logger),
	}
}

// Reputation returns the reputation model repository.
func (r *Repository) Reputation() *models.ReputationModel {
	return r.reputation
}

// Vote returns the vote model repository.
func (r *Repository) Vote() *models.VoteModel {
	return r.vote
}

// Quota returns the quota model repository.
func (r *Repository) Quota() *models.QuotaModel {
	return r.quota
}

// Maintenance returns the maintenance model repository.
func (r *Repository) Maintenance() *models.MaintenanceModel {
	return r.maintenance
}

// Block returns the block list model repository.
func (r *Repository) Block() *models.BlockModel {
	return r.block
}
