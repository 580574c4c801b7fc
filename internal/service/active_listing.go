package service

import (
	"context"
	"lot-intelligence/config"
	"lot-intelligence/internal/dto"
	"lot-intelligence/internal/repository"
	"lot-intelligence/pkg/logger"
	"strings"
)

type ActiveListingService interface {
	FindSimilarActiveLots(ctx context.Context, lot dto.Lot) ([]dto.Lot, error)
}

type activeListingService struct {
	cfg             *config.Config
	log             *logger.Logger
	marketplaceRepo repository.MarketplaceRepository
}

func NewActiveListingService(
	cfg *config.Config,
	log *logger.Logger,
	marketplaceRepo repository.MarketplaceRepository,
) ActiveListingService {
	return &activeListingService{
		cfg:             cfg,
		log:             log,
		marketplaceRepo: marketplaceRepo,
	}
}

// FindSimilarActiveLots lists available lots of the same make and model on
// the lot's marketplace, within the configured year range. Bids move during
// an auction, so every call searches the marketplace.
func (s *activeListingService) FindSimilarActiveLots(ctx context.Context, lot dto.Lot) ([]dto.Lot, error) {
	if strings.TrimSpace(lot.Make) == "" || strings.TrimSpace(lot.Model) == "" || lot.Year == 0 {
		return []dto.Lot{}, nil
	}

	yearRange := s.cfg.Pipeline.ComparableYearRange
	param := dto.ActiveLotSearchParam{
		Site:     lot.Site,
		Make:     lot.Make,
		Model:    lot.Model,
		YearFrom: lot.Year - yearRange,
		YearTo:   lot.Year + yearRange,
		Status:   dto.LotStatusAvailable,
		Size:     s.cfg.Pipeline.ActiveListingLimit,
	}

	// one extra row so the limit still holds after the target lot is dropped
	searchParam := param
	if searchParam.Size > 0 {
		searchParam.Size++
	}
	lots, err := s.marketplaceRepo.SearchActiveLots(ctx, searchParam)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to search similar active lots",
			logger.StringField("make", lot.Make),
			logger.StringField("model", lot.Model),
			logger.ErrorField(err))
		return nil, err
	}

	result := make([]dto.Lot, 0, len(lots))
	for _, l := range lots {
		if l.LotID == lot.LotID {
			continue
		}
		result = append(result, l)
		if param.Size > 0 && len(result) >= param.Size {
			break
		}
	}
	return result, nil
}
