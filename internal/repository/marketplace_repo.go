package repository

import (
	"context"
	"fmt"
	"lot-intelligence/config"
	"lot-intelligence/internal/dto"
	"lot-intelligence/pkg/httpclient"
	"lot-intelligence/pkg/logger"
	"lot-intelligence/pkg/ratelimit"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

type MarketplaceRepository interface {
	GetLot(ctx context.Context, lotID string, site dto.Site) (*dto.Lot, error)
	SearchActiveLots(ctx context.Context, param dto.ActiveLotSearchParam) ([]dto.Lot, error)
}

type marketplaceRepository struct {
	httpClient httpclient.HTTPClient
	cfg        *config.Config
	logger     *logger.Logger
	limiters   *ratelimit.LimiterStore
}

// NewMarketplaceRepository creates a client for the auction data API. Each
// marketplace gets its own request budget.
func NewMarketplaceRepository(cfg *config.Config, log *logger.Logger) MarketplaceRepository {
	client := httpclient.New(
		cfg.Marketplace.BaseURL,
		cfg.Marketplace.Timeout,
		"",
		httpclient.WithHeader("api-key", cfg.Marketplace.APIKey),
		httpclient.WithRetry(cfg.Marketplace.RetryCount, cfg.Marketplace.RetryWait),
	)
	return newMarketplaceRepository(client, cfg, log)
}

func newMarketplaceRepository(client httpclient.HTTPClient, cfg *config.Config, log *logger.Logger) *marketplaceRepository {
	return &marketplaceRepository{
		httpClient: client,
		cfg:        cfg,
		logger:     log,
		limiters:   ratelimit.PerMinute(cfg.Marketplace.MaxRequestPerMinute),
	}
}

func (r *marketplaceRepository) GetLot(ctx context.Context, lotID string, site dto.Site) (*dto.Lot, error) {
	if err := r.limiters.Wait(ctx, site.Name()); err != nil {
		return nil, fmt.Errorf("failed to wait for marketplace limit: %w", err)
	}

	var payload dto.MarketplaceLotResponse
	endpoint := "/cars/" + url.PathEscape(lotID)
	resp, err := r.httpClient.Get(ctx, endpoint, map[string]string{
		"site": strconv.Itoa(int(site)),
	}, nil, &payload)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lot %s from %s: %w", lotID, site.Name(), err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, &dto.LotNotFoundError{LotID: lotID, Site: site}
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.ErrorContext(ctx, "Marketplace API returned Non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("lot_id", lotID),
			logger.StringField("body", string(resp.Body)))
		return nil, fmt.Errorf("marketplace api returned status: %d", resp.StatusCode)
	}

	if payload.Data == nil {
		return nil, &dto.LotNotFoundError{LotID: lotID, Site: site}
	}

	if err := payload.Data.Validate(); err != nil {
		return nil, err
	}

	lot := payload.Data.ToLot(site)
	return &lot, nil
}

func (r *marketplaceRepository) SearchActiveLots(ctx context.Context, param dto.ActiveLotSearchParam) ([]dto.Lot, error) {
	if err := r.limiters.Wait(ctx, param.Site.Name()); err != nil {
		return nil, fmt.Errorf("failed to wait for marketplace limit: %w", err)
	}

	status := param.Status
	if status == "" {
		status = dto.LotStatusAvailable
	}

	queryParams := map[string]string{
		"site":      strconv.Itoa(int(param.Site)),
		"make":      param.Make,
		"model":     param.Model,
		"year_from": strconv.Itoa(param.YearFrom),
		"year_to":   strconv.Itoa(param.YearTo),
		"status":    status,
	}
	if param.Size > 0 {
		// one extra row so dropping the target lot still fills the page
		queryParams["size"] = strconv.Itoa(param.Size + 1)
	}

	var payload dto.MarketplaceSearchResponse
	resp, err := r.httpClient.Get(ctx, "/cars", queryParams, nil, &payload)
	if err != nil {
		return nil, fmt.Errorf("failed to search marketplace lots: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.WarnContext(ctx, "Marketplace search returned Non-OK status",
			logger.IntField("status_code", resp.StatusCode))
		return nil, fmt.Errorf("marketplace search returned status: %d", resp.StatusCode)
	}

	lots := make([]dto.Lot, 0, len(payload.Data))
	for i := range payload.Data {
		item := &payload.Data[i]
		if err := item.Validate(); err != nil {
			r.logger.WarnContext(ctx, "Skipping malformed marketplace lot", logger.ErrorField(err))
			continue
		}

		lot := item.ToLot(param.Site)
		if lot.LotID == param.ExcludeLotID {
			continue
		}
		if lot.Site != param.Site || lot.Status != status {
			continue
		}
		if !strings.EqualFold(lot.Make, param.Make) || !strings.EqualFold(lot.Model, param.Model) {
			continue
		}
		if lot.Year < param.YearFrom || lot.Year > param.YearTo {
			continue
		}

		lots = append(lots, lot)
		if param.Size > 0 && len(lots) >= param.Size {
			break
		}
	}

	return lots, nil
}
