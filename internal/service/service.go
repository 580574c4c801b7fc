package service

import (
	"lot-intelligence/config"
	"lot-intelligence/internal/repository"
	"lot-intelligence/pkg/cache"
	"lot-intelligence/pkg/logger"
)

type Service struct {
	LotAnalysisService LotAnalysisService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	cache cache.Cache,
) *Service {
	vinHistoryService := NewVinHistoryService(cfg, log, cache, repo.SalesArchiveRepo)
	activeListingService := NewActiveListingService(cfg, log, repo.MarketplaceRepo)
	comparableMatcherService := NewComparableMatcherService(cfg, log, repo.SalesArchiveRepo)
	damageAssessorService := NewDamageAssessorService(cfg, log, repo.VisionRepo)

	lotAnalysisService := NewLotAnalysisService(
		cfg,
		log,
		repo.MarketplaceRepo,
		vinHistoryService,
		activeListingService,
		comparableMatcherService,
		damageAssessorService,
	)
	return &Service{
		LotAnalysisService: lotAnalysisService,
	}
}
