package repository

import (
	"context"
	"errors"
	"fmt"
	"lot-intelligence/internal/dto"
	"lot-intelligence/internal/model"
	"lot-intelligence/pkg/utils"
	"strings"

	"gorm.io/gorm"
)

// SalesArchiveRepository reads the historical sales archive. It never writes.
type SalesArchiveRepository interface {
	FindByVIN(ctx context.Context, vin string, limit int) ([]model.SaleHistory, error)
	FindComparableCandidates(ctx context.Context, param dto.ComparableSearchParam) ([]model.SaleHistory, error)
}

type salesArchiveRepository struct {
	db *gorm.DB
}

func NewSalesArchiveRepository(db *gorm.DB) SalesArchiveRepository {
	return &salesArchiveRepository{db: db}
}

func (s *salesArchiveRepository) find(ctx context.Context, opts ...utils.DBOption) ([]model.SaleHistory, error) {
	var rows []model.SaleHistory
	query := utils.ApplyOptions(s.db.WithContext(ctx).Model(&model.SaleHistory{}), opts...)
	if err := query.Find(&rows).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rows, nil
}

func (s *salesArchiveRepository) FindByVIN(ctx context.Context, vin string, limit int) ([]model.SaleHistory, error) {
	vin = strings.ToUpper(strings.TrimSpace(vin))
	if vin == "" {
		return nil, nil
	}

	rows, err := s.find(ctx,
		utils.WithWhere("UPPER(vin) = ?", vin),
		utils.WithOrder("sale_date DESC NULLS LAST, id DESC"),
		utils.WithLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales history by vin: %w", err)
	}
	return rows, nil
}

func (s *salesArchiveRepository) FindComparableCandidates(ctx context.Context, param dto.ComparableSearchParam) ([]model.SaleHistory, error) {
	if strings.TrimSpace(param.Make) == "" || strings.TrimSpace(param.Model) == "" {
		return nil, nil
	}

	rows, err := s.find(ctx,
		utils.WithWhere("LOWER(make) = LOWER(?)", strings.TrimSpace(param.Make)),
		utils.WithWhere("LOWER(model) = LOWER(?)", strings.TrimSpace(param.Model)),
		utils.WithWhere("year BETWEEN ? AND ?", param.Year-param.YearRange, param.Year+param.YearRange),
		utils.WithWhere("purchase_price IS NOT NULL"),
		utils.WithOrder("sale_date DESC NULLS LAST, id DESC"),
		utils.WithLimit(param.Limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparable candidates: %w", err)
	}
	return rows, nil
}
