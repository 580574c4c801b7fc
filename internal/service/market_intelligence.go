package service

import (
	"fmt"
	"lot-intelligence/internal/dto"
	"lot-intelligence/pkg/utils"

	"github.com/shopspring/decimal"
)

const (
	baseConfidence           = 70
	vinHistoryConfidence     = 10
	comparablesConfidence    = 5
	buyConfidenceBonus       = 15
	buyConfidenceCap         = 95
	avoidConfidenceBonus     = 10
	avoidConfidenceCap       = 90
	defaultMinSoldForBonus   = 5
	buyRatioThreshold        = 0.7
	avoidRatioThreshold      = 1.2
	buyBidCeilingPercent     = 0.8
	analyzeBidCeilingPercent = 0.9
	competitiveRangeSpread   = 0.1
)

// MarketSignals is everything the synthesizer reads. It never fails: missing
// signals only lower the confidence.
type MarketSignals struct {
	Lot                  dto.Lot
	VinHistory           []dto.VinHistoryRecord
	Comparables          []dto.ComparableVehicle
	RegionalAveragePrice float64
	ActiveLots           []dto.Lot
	MinSoldForConfidence int
}

// SynthesizeMarketIntelligence turns the price signals into an estimated
// value, a bid-to-value ratio and a BUY/ANALYZE/AVOID recommendation.
func SynthesizeMarketIntelligence(signals MarketSignals) dto.MarketIntelligence {
	historicalAvg, pricedHistory := averageHistoryPrice(signals.VinHistory)
	internalAvg, soldComparables := averageComparablePrice(signals.Comparables)

	estimatedValue := decimal.Zero
	switch {
	case pricedHistory > 0:
		estimatedValue = historicalAvg
	case soldComparables > 0:
		estimatedValue = internalAvg
	}

	currentBid := decimal.NewFromFloat(nonNegative(signals.Lot.CurrentBid))
	ratio := decimal.Zero
	if estimatedValue.IsPositive() {
		ratio = currentBid.Div(estimatedValue).Round(4)
	}

	minSold := signals.MinSoldForConfidence
	if minSold <= 0 {
		minSold = defaultMinSoldForBonus
	}
	confidence := baseConfidence
	if len(signals.VinHistory) > 0 {
		confidence += vinHistoryConfidence
	}
	if soldComparables >= minSold {
		confidence += comparablesConfidence
	}

	recommendation, confidence, suggestion := recommend(estimatedValue, ratio, confidence)

	similar := similarLotBids(signals.ActiveLots)
	return dto.MarketIntelligence{
		Recommendation: recommendation,
		Confidence:     clampConfidence(confidence),
		BidSuggestion:  suggestion,
		MarketData: dto.MarketData{
			HistoricalAveragePrice: historicalAvg.Round(2).InexactFloat64(),
			InternalAveragePrice:   internalAvg.Round(2).InexactFloat64(),
			RegionalAveragePrice:   nonNegative(signals.RegionalAveragePrice),
			CurrentBid:             currentBid.InexactFloat64(),
			EstimatedValue:         estimatedValue.Round(2).InexactFloat64(),
			BidToValueRatio:        ratio.InexactFloat64(),
			SimilarLots:            similar,
			DataQuality: dto.DataQuality{
				HasVinHistory:          len(signals.VinHistory) > 0,
				HasInternalComparables: soldComparables > 0,
				HasActiveComparables:   similar.Count > 0,
				VinHistoryCount:        len(signals.VinHistory),
				SoldComparableCount:    soldComparables,
				ActiveComparableCount:  len(signals.ActiveLots),
			},
		},
	}
}

func recommend(estimatedValue, ratio decimal.Decimal, confidence int) (dto.Recommendation, int, string) {
	if !estimatedValue.IsPositive() {
		return dto.RecommendationAnalyze, confidence,
			"Insufficient data to estimate value. Inspect the vehicle and set a bid limit manually."
	}

	estimate := estimatedValue.InexactFloat64()
	switch {
	case ratio.LessThan(decimal.NewFromFloat(buyRatioThreshold)):
		return dto.RecommendationBuy, min(confidence+buyConfidenceBonus, buyConfidenceCap),
			fmt.Sprintf("Strong buy opportunity. Maximum bid: %s", utils.FormatUSD(estimate*buyBidCeilingPercent))
	case ratio.GreaterThan(decimal.NewFromFloat(avoidRatioThreshold)):
		overage := ratio.Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100)).InexactFloat64()
		return dto.RecommendationAvoid, min(confidence+avoidConfidenceBonus, avoidConfidenceCap),
			fmt.Sprintf("Current bid is %s over the estimated value of %s", utils.FormatPercentage(overage), utils.FormatUSD(estimate))
	default:
		return dto.RecommendationAnalyze, confidence,
			fmt.Sprintf("Fair market price. Do not exceed %s", utils.FormatUSD(estimate*analyzeBidCeilingPercent))
	}
}

func averageHistoryPrice(records []dto.VinHistoryRecord) (decimal.Decimal, int) {
	sum := decimal.Zero
	count := 0
	for _, r := range records {
		if r.SoldPrice <= 0 {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(r.SoldPrice))
		count++
	}
	if count == 0 {
		return decimal.Zero, 0
	}
	return sum.Div(decimal.NewFromInt(int64(count))), count
}

func averageComparablePrice(comparables []dto.ComparableVehicle) (decimal.Decimal, int) {
	sum := decimal.Zero
	count := 0
	for _, c := range comparables {
		if c.PurchasePrice <= 0 {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(c.PurchasePrice))
		count++
	}
	if count == 0 {
		return decimal.Zero, 0
	}
	return sum.Div(decimal.NewFromInt(int64(count))), count
}

func similarLotBids(lots []dto.Lot) dto.SimilarLotBids {
	var (
		sum    = decimal.Zero
		count  int
		minBid float64
		maxBid float64
	)
	for _, l := range lots {
		if l.CurrentBid <= 0 {
			continue
		}
		if count == 0 || l.CurrentBid < minBid {
			minBid = l.CurrentBid
		}
		if l.CurrentBid > maxBid {
			maxBid = l.CurrentBid
		}
		sum = sum.Add(decimal.NewFromFloat(l.CurrentBid))
		count++
	}
	if count == 0 {
		return dto.SimilarLotBids{}
	}

	avg := sum.Div(decimal.NewFromInt(int64(count)))
	spread := decimal.NewFromFloat(competitiveRangeSpread)
	one := decimal.NewFromInt(1)
	return dto.SimilarLotBids{
		Count:      count,
		AverageBid: avg.Round(2).InexactFloat64(),
		MinBid:     minBid,
		MaxBid:     maxBid,
		Range: dto.BidRange{
			Min: avg.Mul(one.Sub(spread)).Round(2).InexactFloat64(),
			Max: avg.Mul(one.Add(spread)).Round(2).InexactFloat64(),
		},
	}
}

func clampConfidence(c int) int {
	return max(0, min(c, 100))
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
