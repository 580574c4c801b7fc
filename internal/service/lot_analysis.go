package service

import (
	"context"
	"errors"
	"fmt"
	"lot-intelligence/config"
	"lot-intelligence/internal/dto"
	"lot-intelligence/internal/repository"
	"lot-intelligence/pkg/logger"
	"lot-intelligence/pkg/utils"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	branchVinHistory        = "vin_history"
	branchActiveComparables = "active_comparables"
	branchInternalMatches   = "internal_comparables"
	branchVision            = "vision"
)

type LotAnalysisService interface {
	AnalyzeLot(ctx context.Context, lotID string, site dto.Site) (*dto.AnalysisResult, error)
}

type lotAnalysisService struct {
	cfg               *config.Config
	log               *logger.Logger
	marketplaceRepo   repository.MarketplaceRepository
	vinHistory        VinHistoryService
	activeListing     ActiveListingService
	comparableMatcher ComparableMatcherService
	damageAssessor    DamageAssessorService
}

func NewLotAnalysisService(
	cfg *config.Config,
	log *logger.Logger,
	marketplaceRepo repository.MarketplaceRepository,
	vinHistory VinHistoryService,
	activeListing ActiveListingService,
	comparableMatcher ComparableMatcherService,
	damageAssessor DamageAssessorService,
) LotAnalysisService {
	return &lotAnalysisService{
		cfg:               cfg,
		log:               log,
		marketplaceRepo:   marketplaceRepo,
		vinHistory:        vinHistory,
		activeListing:     activeListing,
		comparableMatcher: comparableMatcher,
		damageAssessor:    damageAssessor,
	}
}

// AnalyzeLot fetches the lot, runs the four enrichment branches concurrently
// and synthesizes the market intelligence. Only an invalid request or a
// missing lot fail the call; branch failures degrade to empty values.
func (s *lotAnalysisService) AnalyzeLot(ctx context.Context, lotID string, site dto.Site) (*dto.AnalysisResult, error) {
	lotID = strings.TrimSpace(lotID)
	if lotID == "" {
		return nil, &dto.ValidationError{Field: "lotId", Message: "lotId is required"}
	}
	if !site.Valid() {
		return nil, &dto.ValidationError{Field: "site", Message: "site must be 1 (Copart) or 2 (IAAI)"}
	}

	log := s.log.FromContext(ctx).With(
		logger.StringField("lot_id", lotID),
		logger.StringField("site", site.Name()),
	)
	ctx = logger.NewContext(ctx, log)

	startTime := time.Now()
	lot, err := s.marketplaceRepo.GetLot(ctx, lotID, site)
	if err != nil {
		if errors.Is(err, dto.ErrLotNotFound) {
			log.InfoContext(ctx, "Lot not found on marketplace")
		} else {
			log.ErrorContext(ctx, "Failed to fetch lot", logger.ErrorField(err))
		}
		return nil, err
	}
	// echo the requested id even if the marketplace normalised it
	lot.LotID = lotID

	var (
		vinHistory  = []dto.VinHistoryRecord{}
		activeLots  = []dto.Lot{}
		match       = &dto.ComparableMatch{Comparables: []dto.ComparableVehicle{}}
		damage      = UnavailableAssessment(0)
		lotSnapshot = *lot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := runBranch(gctx, s.cfg.Pipeline.BranchTimeout, func(ctx context.Context) ([]dto.VinHistoryRecord, error) {
			return s.vinHistory.SearchByVIN(ctx, lotSnapshot.VIN)
		})
		if err != nil {
			s.logBranchError(gctx, branchVinHistory, err)
			return nil
		}
		vinHistory = nonNilSlice(records)
		return nil
	})
	g.Go(func() error {
		lots, err := runBranch(gctx, s.cfg.Pipeline.BranchTimeout, func(ctx context.Context) ([]dto.Lot, error) {
			return s.activeListing.FindSimilarActiveLots(ctx, lotSnapshot)
		})
		if err != nil {
			s.logBranchError(gctx, branchActiveComparables, err)
			return nil
		}
		activeLots = nonNilSlice(lots)
		return nil
	})
	g.Go(func() error {
		result, err := runBranch(gctx, s.cfg.Pipeline.BranchTimeout, func(ctx context.Context) (*dto.ComparableMatch, error) {
			return s.comparableMatcher.FindComparables(ctx, lotSnapshot)
		})
		if err != nil || result == nil {
			s.logBranchError(gctx, branchInternalMatches, err)
			return nil
		}
		result.Comparables = nonNilSlice(result.Comparables)
		match = result
		return nil
	})
	g.Go(func() error {
		assessment, err := runBranch(gctx, s.cfg.Pipeline.VisionTimeout, func(ctx context.Context) (dto.DamageAssessment, error) {
			return s.damageAssessor.AssessDamage(ctx, lotSnapshot)
		})
		if err != nil {
			s.logBranchError(gctx, branchVision, err)
			if assessment.Error == "" {
				excluded := assessment.ExcludedImages
				assessment = UnavailableAssessment(assessment.ImageCount)
				assessment.ExcludedImages = excluded
			}
		}
		if assessment.OverallCondition == "" {
			assessment = UnavailableAssessment(0)
		}
		damage = assessment
		return nil
	})

	// branches never return errors, Wait only joins them
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("lot analysis canceled: %w", err)
	}

	intelligence := SynthesizeMarketIntelligence(MarketSignals{
		Lot:                  *lot,
		VinHistory:           vinHistory,
		Comparables:          match.Comparables,
		RegionalAveragePrice: match.RegionalAveragePrice,
		ActiveLots:           activeLots,
		MinSoldForConfidence: s.cfg.Pipeline.MinSoldForConfidence,
	})

	log.InfoContext(ctx, "Lot analysis completed",
		logger.StringField("recommendation", string(intelligence.Recommendation)),
		logger.IntField("confidence", intelligence.Confidence),
		logger.FloatField("estimated_value", intelligence.MarketData.EstimatedValue),
		logger.FloatField("bid_to_value_ratio", intelligence.MarketData.BidToValueRatio),
		logger.IntField("vin_history", len(vinHistory)),
		logger.IntField("active_lots", len(activeLots)),
		logger.IntField("internal_comparables", len(match.Comparables)),
		logger.DurationField("elapsed", time.Since(startTime)))

	return &dto.AnalysisResult{
		LotInfo:             *lot,
		VinHistory:          vinHistory,
		AIAnalysis:          damage,
		SimilarActiveLots:   activeLots,
		InternalComparables: match.Comparables,
		MarketIntelligence:  intelligence,
	}, nil
}

func (s *lotAnalysisService) logBranchError(ctx context.Context, branch string, err error) {
	if err == nil {
		err = errors.New("empty result")
	}
	branchErr := &dto.BranchError{Branch: branch, Err: err}
	s.log.FromContext(ctx).WarnContext(ctx, "Branch degraded",
		logger.StringField("branch", branch),
		logger.ErrorField(branchErr))
}

// runBranch bounds fn by timeout and turns a panic into an error. The value
// returned by fn is kept even when it also reports an error.
func runBranch[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var result T
	err := utils.Recover(func() error {
		var err error
		result, err = fn(ctx)
		return err
	})
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	return result, err
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
