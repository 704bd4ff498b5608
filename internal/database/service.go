package database

import (
	"github.com/doom2286/Foxcom/internal/database/ledger"
	"github.com/doom2286/Foxcom/internal/database/service"
	"github.com/doom2286/Foxcom/internal/setup/config"
	"go.uber.org/zap"
)

// Service provides access to all business logic services.
type Service struct {
	reputation  *service.ReputationService
	vote        *service.VoteService
	quota       *service.QuotaService
	maintenance *service.MaintenanceService
}

// NewService creates a new service instance with all services.
func NewService(l *ledger.Ledger, repository *Repository, cfg *config.CommonConfig, logger *zap.Logger) *Service {
	reputationModel := repository.Reputation()
	voteModel := repository.Vote()
	quotaModel := repository.Quota()
	maintenanceModel := repository.Maintenance()
	blockModel := repository.Block()

	minScore, maxScore := cfg.Reputation.ScoreBounds()
	maintenanceService := service.NewMaintenance(maintenanceModel, cfg.Reputation.PruneInterval(), logger)

	return &Service{
		reputation:  service.NewReputation(reputationModel, minScore, maxScore, logger),
		vote:        service.NewVote(l, voteModel, reputationModel, blockModel, maintenanceService, logger),
		quota:       service.NewQuota(quotaModel, reputationModel, blockModel, maintenanceService, logger),
		maintenance: maintenanceService,
	}
}

// Reputation returns the reputation service.
func (s *Service) Reputation() *service.ReputationService {
	return s.reputation
}

// Vote returns the vote service.
func (s *Service) Vote() *service.VoteService {
	return s.vote
}

// Quota returns the quota service.
func (s *Service) Quota() *service.QuotaService {
	return s.quota
}

// Maintenance returns the maintenance service.
func (s *Service) Maintenance() *service.MaintenanceService {
	return s.maintenance
}
