package service

import (
	"context"
	"time"

	"lot-intelligence/config"
	"lot-intelligence/internal/dto"
	"lot-intelligence/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockMarketplaceRepository struct {
	mock.Mock
}

func (m *MockMarketplaceRepository) GetLot(ctx context.Context, lotID string, site dto.Site) (*dto.Lot, error) {
	args := m.Called(ctx, lotID, site)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	lot := *args.Get(0).(*dto.Lot)
	return &lot, args.Error(1)
}

func (m *MockMarketplaceRepository) SearchActiveLots(ctx context.Context, param dto.ActiveLotSearchParam) ([]dto.Lot, error) {
	args := m.Called(ctx, param)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.Lot), args.Error(1)
}

type MockSalesArchiveRepository struct {
	mock.Mock
}

func (m *MockSalesArchiveRepository) FindByVIN(ctx context.Context, vin string, limit int) ([]model.SaleHistory, error) {
	args := m.Called(ctx, vin, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SaleHistory), args.Error(1)
}

func (m *MockSalesArchiveRepository) FindComparableCandidates(ctx context.Context, param dto.ComparableSearchParam) ([]model.SaleHistory, error) {
	args := m.Called(ctx, param)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SaleHistory), args.Error(1)
}

type MockVisionRepository struct {
	mock.Mock
}

func (m *MockVisionRepository) AssessDamage(ctx context.Context, lot dto.Lot, imageURLs []string) (*dto.VisionDamageReport, int, error) {
	args := m.Called(ctx, lot, imageURLs)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).(*dto.VisionDamageReport), args.Int(1), args.Error(2)
}

func testConfig() *config.Config {
	return &config.Config{
		Cache: config.Cache{
			VinHistoryTTL: time.Minute,
		},
		Gemini: config.Gemini{MaxImages: 10},
		Pipeline: config.Pipeline{
			VinHistoryLimit:      50,
			ActiveListingLimit:   20,
			ComparableYearRange:  2,
			ComparablePoolLimit:  500,
			ComparableLimit:      20,
			MileageTolerance:     20000,
			BranchTimeout:        2 * time.Second,
			VisionTimeout:        2 * time.Second,
			MinSoldForConfidence: 5,
		},
	}
}

func price(v float64) *float64 {
	return &v
}
