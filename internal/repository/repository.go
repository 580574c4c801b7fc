package repository

import (
	"lot-intelligence/config"
	"lot-intelligence/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	MarketplaceRepo  MarketplaceRepository
	SalesArchiveRepo SalesArchiveRepository
	VisionRepo       VisionRepository
}

func NewRepository(cfg *config.Config, db *gorm.DB, log *logger.Logger) (*Repository, error) {
	visionRepo, err := NewGeminiVisionRepository(cfg, log)
	if err != nil {
		return nil, err
	}

	return &Repository{
		MarketplaceRepo:  NewMarketplaceRepository(cfg, log),
		SalesArchiveRepo: NewSalesArchiveRepository(db),
		VisionRepo:       visionRepo,
	}, nil
}
