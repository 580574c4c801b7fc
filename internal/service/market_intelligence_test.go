package service

import (
	"testing"

	"lot-intelligence/internal/dto"

	"github.com/stretchr/testify/assert"
)

func historyAt(prices ...float64) []dto.VinHistoryRecord {
	records := make([]dto.VinHistoryRecord, 0, len(prices))
	for _, p := range prices {
		records = append(records, dto.VinHistoryRecord{VIN: "4T1B11HK5KU000001", SoldPrice: p})
	}
	return records
}

func TestSynthesizeMarketIntelligence_Thresholds(t *testing.T) {
	tests := []struct {
		name           string
		bid            float64
		wantRec        dto.Recommendation
		wantConfidence int
		wantSuggestion string
	}{
		{"cheap bid is a buy", 6000, dto.RecommendationBuy, 95, "Strong buy opportunity. Maximum bid: $8,000"},
		{"expensive bid is avoided", 13000, dto.RecommendationAvoid, 90, "Current bid is 30% over the estimated value of $10,000"},
		{"fair bid needs analysis", 9500, dto.RecommendationAnalyze, 80, "Fair market price. Do not exceed $9,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SynthesizeMarketIntelligence(MarketSignals{
				Lot:        dto.Lot{CurrentBid: tt.bid},
				VinHistory: historyAt(10000),
			})

			assert.Equal(t, tt.wantRec, got.Recommendation)
			assert.Equal(t, tt.wantConfidence, got.Confidence)
			assert.Equal(t, tt.wantSuggestion, got.BidSuggestion)
			assert.Equal(t, 10000.0, got.MarketData.EstimatedValue)
		})
	}
}

func TestSynthesizeMarketIntelligence_CamryScenario(t *testing.T) {
	got := SynthesizeMarketIntelligence(MarketSignals{
		Lot:        dto.Lot{CurrentBid: 5000},
		VinHistory: historyAt(7000, 8000, 9000),
		Comparables: []dto.ComparableVehicle{
			{PurchasePrice: 12000},
		},
	})

	assert.Equal(t, 8000.0, got.MarketData.HistoricalAveragePrice)
	assert.Equal(t, 12000.0, got.MarketData.InternalAveragePrice)
	assert.Equal(t, 8000.0, got.MarketData.EstimatedValue)
	assert.Equal(t, 0.625, got.MarketData.BidToValueRatio)
	assert.Equal(t, dto.RecommendationBuy, got.Recommendation)
	assert.Equal(t, 95, got.Confidence)
	assert.True(t, got.MarketData.DataQuality.HasVinHistory)
	assert.Equal(t, 3, got.MarketData.DataQuality.VinHistoryCount)
}

func TestSynthesizeMarketIntelligence_FallsBackToComparables(t *testing.T) {
	comparables := []dto.ComparableVehicle{}
	for _, p := range []float64{4000, 5000, 6000, 7000, 8000} {
		comparables = append(comparables, dto.ComparableVehicle{PurchasePrice: p})
	}

	got := SynthesizeMarketIntelligence(MarketSignals{
		Lot:                  dto.Lot{CurrentBid: 5700},
		Comparables:          comparables,
		MinSoldForConfidence: 5,
	})

	assert.Equal(t, 6000.0, got.MarketData.EstimatedValue)
	assert.Equal(t, 0.95, got.MarketData.BidToValueRatio)
	assert.Equal(t, dto.RecommendationAnalyze, got.Recommendation)
	assert.Equal(t, 75, got.Confidence)
	assert.Equal(t, 5, got.MarketData.DataQuality.SoldComparableCount)
}

func TestSynthesizeMarketIntelligence_InsufficientData(t *testing.T) {
	got := SynthesizeMarketIntelligence(MarketSignals{
		Lot:        dto.Lot{CurrentBid: 5000},
		VinHistory: historyAt(0),
	})

	assert.Equal(t, dto.RecommendationAnalyze, got.Recommendation)
	assert.Equal(t, 80, got.Confidence)
	assert.Zero(t, got.MarketData.EstimatedValue)
	assert.Zero(t, got.MarketData.BidToValueRatio)
	assert.Contains(t, got.BidSuggestion, "Insufficient data")
}

func TestSynthesizeMarketIntelligence_SimilarLotBids(t *testing.T) {
	got := SynthesizeMarketIntelligence(MarketSignals{
		Lot: dto.Lot{CurrentBid: 5000},
		ActiveLots: []dto.Lot{
			{LotID: "1", CurrentBid: 4000},
			{LotID: "2", CurrentBid: 0},
			{LotID: "3", CurrentBid: 6000},
		},
	})

	similar := got.MarketData.SimilarLots
	assert.Equal(t, 2, similar.Count)
	assert.Equal(t, 5000.0, similar.AverageBid)
	assert.Equal(t, 4000.0, similar.MinBid)
	assert.Equal(t, 6000.0, similar.MaxBid)
	assert.Equal(t, 4500.0, similar.Range.Min)
	assert.Equal(t, 5500.0, similar.Range.Max)
	assert.True(t, got.MarketData.DataQuality.HasActiveComparables)
	assert.Equal(t, 3, got.MarketData.DataQuality.ActiveComparableCount)
}
