package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lot-intelligence/config"
	"lot-intelligence/internal/dto"
	"lot-intelligence/internal/service"
	"lot-intelligence/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLotAnalysisService struct {
	mock.Mock
}

func (m *MockLotAnalysisService) AnalyzeLot(ctx context.Context, lotID string, site dto.Site) (*dto.AnalysisResult, error) {
	args := m.Called(ctx, lotID, site)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AnalysisResult), args.Error(1)
}

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    *dto.AnalysisResult `json:"data"`
}

func newTestServer(t *testing.T, svc *MockLotAnalysisService) *echo.Echo {
	t.Helper()
	e := echo.New()
	handler := NewHttpAPIHandler(&config.Config{}, logger.NewNop(), e, goValidator.New(), &service.Service{
		LotAnalysisService: svc,
	})
	handler.SetupRoutes()
	return e
}

func doAnalyze(t *testing.T, e *echo.Echo, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestAnalyze_InvalidInput(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{"malformed json", `{"lotId":`, "invalid request body"},
		{"site as string", `{"lotId":"1","site":"copart"}`, "invalid request body"},
		{"missing lot id", `{"site":1}`, "lotId is required"},
		{"blank lot id", `{"lotId":"   ","site":1}`, "lotId is required"},
		{"unknown site", `{"lotId":"1","site":3}`, "site must be one of [1 2]"},
		{"missing site", `{"lotId":"1"}`, "site is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockLotAnalysisService)
			rec, resp := doAnalyze(t, newTestServer(t, svc), tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantMessage, resp.Message)
			svc.AssertNotCalled(t, "AnalyzeLot", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAnalyze_Success(t *testing.T) {
	svc := new(MockLotAnalysisService)
	svc.On("AnalyzeLot", mock.Anything, "58411805", dto.SiteCopart).Return(&dto.AnalysisResult{
		LotInfo: dto.Lot{LotID: "58411805", Site: dto.SiteCopart},
		MarketIntelligence: dto.MarketIntelligence{
			Recommendation: dto.RecommendationBuy,
			Confidence:     95,
		},
	}, nil)

	rec, resp := doAnalyze(t, newTestServer(t, svc), `{"lotId":"58411805","site":1}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Equal(t, "58411805", resp.Data.LotInfo.LotID)
	assert.Equal(t, dto.RecommendationBuy, resp.Data.MarketIntelligence.Recommendation)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
	assert.Contains(t, rec.Body.String(), `"internalComparables"`)
}

func TestAnalyze_NotFoundKeepsStatusOK(t *testing.T) {
	svc := new(MockLotAnalysisService)
	svc.On("AnalyzeLot", mock.Anything, "999", dto.SiteIAAI).
		Return(nil, &dto.LotNotFoundError{LotID: "999", Site: dto.SiteIAAI})

	rec, resp := doAnalyze(t, newTestServer(t, svc), `{"lotId":"999","site":2}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "999 not found on IAAI", resp.Message)
}

func TestAnalyze_UnexpectedError(t *testing.T) {
	svc := new(MockLotAnalysisService)
	svc.On("AnalyzeLot", mock.Anything, "1", dto.SiteCopart).Return(nil, errors.New("connection reset by peer"))

	rec, resp := doAnalyze(t, newTestServer(t, svc), `{"lotId":"1","site":1}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Internal server error", resp.Message)
}

func TestAnalyze_KeepsCallerRequestID(t *testing.T) {
	svc := new(MockLotAnalysisService)
	svc.On("AnalyzeLot", mock.Anything, "1", dto.SiteCopart).Return(&dto.AnalysisResult{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"lotId":"1","site":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(requestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	newTestServer(t, svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get(requestIDHeader))
}
