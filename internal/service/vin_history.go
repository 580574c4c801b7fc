package service

import (
	"context"
	"fmt"
	"lot-intelligence/config"
	"lot-intelligence/internal/dto"
	"lot-intelligence/internal/model"
	"lot-intelligence/internal/repository"
	"lot-intelligence/pkg/cache"
	"lot-intelligence/pkg/common"
	"lot-intelligence/pkg/logger"
	"strings"
)

type VinHistoryService interface {
	SearchByVIN(ctx context.Context, vin string) ([]dto.VinHistoryRecord, error)
}

type vinHistoryService struct {
	cfg         *config.Config
	log         *logger.Logger
	cache       cache.Cache
	archiveRepo repository.SalesArchiveRepository
}

func NewVinHistoryService(
	cfg *config.Config,
	log *logger.Logger,
	cache cache.Cache,
	archiveRepo repository.SalesArchiveRepository,
) VinHistoryService {
	return &vinHistoryService{
		cfg:         cfg,
		log:         log,
		cache:       cache,
		archiveRepo: archiveRepo,
	}
}

// SearchByVIN returns prior sales of the exact vehicle, newest first. A lot
// without a VIN has no history.
func (s *vinHistoryService) SearchByVIN(ctx context.Context, vin string) ([]dto.VinHistoryRecord, error) {
	vin = strings.ToUpper(strings.TrimSpace(vin))
	if vin == "" {
		return []dto.VinHistoryRecord{}, nil
	}

	key := fmt.Sprintf(common.KEY_VIN_HISTORY, vin)
	records, err := cache.Remember(ctx, s.cache, key, s.cfg.Cache.VinHistoryTTL, func(ctx context.Context) ([]dto.VinHistoryRecord, error) {
		rows, err := s.archiveRepo.FindByVIN(ctx, vin, s.cfg.Pipeline.VinHistoryLimit)
		if err != nil {
			return nil, err
		}
		return toVinHistoryRecords(rows), nil
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to search vin history", logger.StringField("vin", vin), logger.ErrorField(err))
		return nil, err
	}

	s.log.DebugContext(ctx, "VIN history loaded", logger.StringField("vin", vin), logger.IntField("count", len(records)))
	return append([]dto.VinHistoryRecord{}, records...), nil
}

func toVinHistoryRecords(rows []model.SaleHistory) []dto.VinHistoryRecord {
	records := make([]dto.VinHistoryRecord, 0, len(rows))
	for _, row := range rows {
		marketplace := row.BaseSite
		if marketplace == "" {
			marketplace = dto.Site(row.Site).Name()
		}
		records = append(records, dto.VinHistoryRecord{
			VIN:         strings.ToUpper(row.VIN),
			SaleDate:    row.SaleDate,
			SoldPrice:   row.Price(),
			Damage:      row.DamagePrimary,
			Marketplace: marketplace,
			LotID:       row.LotID,
			Location:    row.AuctionLocation,
			Year:        row.Year,
			Make:        row.Make,
			Model:       row.Model,
			Mileage:     row.Odometer,
		})
	}
	return records
}
