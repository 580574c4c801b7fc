package service

import (
	"context"
	"lot-intelligence/config"
	"lot-intelligence/internal/dto"
	"lot-intelligence/internal/model"
	"lot-intelligence/internal/repository"
	"lot-intelligence/pkg/logger"
	"lot-intelligence/pkg/utils"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var completedSaleStatuses = []string{"sold", "purchased", "completed", "paid"}

const (
	specMatchPoints   = 2
	mileageMatchPoint = 1
)

type ComparableMatcherService interface {
	FindComparables(ctx context.Context, lot dto.Lot) (*dto.ComparableMatch, error)
}

type comparableMatcherService struct {
	cfg         *config.Config
	log         *logger.Logger
	archiveRepo repository.SalesArchiveRepository
}

func NewComparableMatcherService(
	cfg *config.Config,
	log *logger.Logger,
	archiveRepo repository.SalesArchiveRepository,
) ComparableMatcherService {
	return &comparableMatcherService{
		cfg:         cfg,
		log:         log,
		archiveRepo: archiveRepo,
	}
}

func (s *comparableMatcherService) FindComparables(ctx context.Context, lot dto.Lot) (*dto.ComparableMatch, error) {
	if strings.TrimSpace(lot.Make) == "" || strings.TrimSpace(lot.Model) == "" {
		return &dto.ComparableMatch{Comparables: []dto.ComparableVehicle{}}, nil
	}

	param := dto.ComparableSearchParam{
		Make:         lot.Make,
		Model:        lot.Model,
		Year:         lot.Year,
		YearRange:    s.cfg.Pipeline.ComparableYearRange,
		Location:     lot.Location,
		Odometer:     lot.Odometer,
		Transmission: lot.Transmission,
		Engine:       lot.Engine,
		Trim:         lot.Trim,
		Series:       lot.Series,
		Limit:        s.cfg.Pipeline.ComparablePoolLimit,
	}

	rows, err := s.archiveRepo.FindComparableCandidates(ctx, param)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to load comparable candidates", logger.ErrorField(err))
		return nil, err
	}

	match := RankComparables(param, rows, s.cfg.Pipeline.MileageTolerance, s.cfg.Pipeline.ComparableLimit)
	s.log.DebugContext(ctx, "Internal comparables ranked",
		logger.IntField("pool", len(rows)),
		logger.IntField("candidates", match.CandidateCount),
		logger.IntField("kept", len(match.Comparables)),
		logger.StringField("region", match.RegionCode))
	return match, nil
}

// RankComparables scores archive sales against the target vehicle, orders
// them by match priority (stable) and keeps the best limit. The regional
// average covers every location-matched candidate, not only the kept ones.
func RankComparables(target dto.ComparableSearchParam, rows []model.SaleHistory, mileageTolerance, limit int) *dto.ComparableMatch {
	region := ExtractRegion(target.Location)
	candidates := make([]dto.ComparableVehicle, 0, len(rows))
	regionalSum := decimal.Zero
	regionalCount := 0

	for _, row := range rows {
		if !isCompletedSale(row.SaleStatus) || row.Price() <= 0 {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(row.Make), strings.TrimSpace(target.Make)) ||
			!strings.EqualFold(strings.TrimSpace(row.Model), strings.TrimSpace(target.Model)) {
			continue
		}
		if abs(row.Year-target.Year) > target.YearRange {
			continue
		}

		exactYear := row.Year == target.Year
		locationMatch := region != "" &&
			(ExtractRegion(row.AuctionLocation) == region || ExtractRegion(row.BuyerState) == region)
		spec := specScore(target, row, mileageTolerance)

		if locationMatch {
			regionalSum = regionalSum.Add(decimal.NewFromFloat(row.Price()))
			regionalCount++
		}

		candidates = append(candidates, dto.ComparableVehicle{
			LotID:           row.LotID,
			Site:            dto.Site(row.Site),
			VIN:             row.VIN,
			Year:            row.Year,
			Make:            row.Make,
			Model:           row.Model,
			Series:          row.Series,
			Trim:            row.Trim,
			Odometer:        row.Odometer,
			DamagePrimary:   row.DamagePrimary,
			TitleStatus:     row.TitleStatus,
			Transmission:    row.Transmission,
			Engine:          row.Engine,
			AuctionLocation: row.AuctionLocation,
			BuyerState:      row.BuyerState,
			SaleDate:        row.SaleDate,
			SaleStatus:      strings.ToLower(row.SaleStatus),
			PurchasePrice:   row.Price(),
			Images:          row.ImageURLs(),
			ExactYearMatch:  exactYear,
			LocationMatch:   locationMatch,
			SpecScore:       spec,
			MatchPriority:   MatchPriority(exactYear, locationMatch, spec),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].MatchPriority < candidates[j].MatchPriority
	})

	match := &dto.ComparableMatch{
		RegionCode:     region,
		CandidateCount: len(candidates),
	}
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	match.Comparables = candidates

	if regionalCount > 0 {
		match.RegionalAveragePrice = regionalSum.Div(decimal.NewFromInt(int64(regionalCount))).Round(2).InexactFloat64()
	}
	return match
}

// MatchPriority maps the match flags to a tier, 1 being the closest match.
func MatchPriority(exactYear, locationMatch bool, specScore int) int {
	switch {
	case exactYear && locationMatch && specScore >= 3:
		return 1
	case exactYear && locationMatch:
		return 2
	case exactYear && specScore >= 2:
		return 3
	case locationMatch && specScore >= 2:
		return 4
	case exactYear:
		return 5
	case locationMatch:
		return 6
	case specScore >= 2:
		return 7
	default:
		return 8
	}
}

func specScore(target dto.ComparableSearchParam, row model.SaleHistory, mileageTolerance int) int {
	score := 0
	if utils.ContainsFold(target.Transmission, row.Transmission) {
		score += specMatchPoints
	}
	if utils.ContainsFold(target.Engine, row.Engine) {
		score += specMatchPoints
	}
	if utils.ContainsFold(target.Trim, row.Trim) || utils.ContainsFold(target.Series, row.Series) {
		score += specMatchPoints
	}
	if target.Odometer > 0 && row.Odometer > 0 && abs(target.Odometer-row.Odometer) <= mileageTolerance {
		score += mileageMatchPoint
	}
	return score
}

func isCompletedSale(status string) bool {
	status = strings.ToLower(strings.TrimSpace(status))
	return utils.ContainsString(completedSaleStatuses, status)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
