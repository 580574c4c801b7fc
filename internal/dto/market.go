package dto

type Recommendation string

const (
	RecommendationBuy     Recommendation = "BUY"
	RecommendationAnalyze Recommendation = "ANALYZE"
	RecommendationAvoid   Recommendation = "AVOID"
)

type BidRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type SimilarLotBids struct {
	Count      int      `json:"count"`
	AverageBid float64  `json:"averageBid"`
	MinBid     float64  `json:"minBid"`
	MaxBid     float64  `json:"maxBid"`
	Range      BidRange `json:"competitiveRange"`
}

// DataQuality tells callers which price sources backed the recommendation.
type DataQuality struct {
	HasVinHistory          bool `json:"hasVinHistory"`
	HasInternalComparables bool `json:"hasInternalComparables"`
	HasActiveComparables   bool `json:"hasActiveComparables"`
	VinHistoryCount        int  `json:"vinHistoryCount"`
	SoldComparableCount    int  `json:"soldComparableCount"`
	ActiveComparableCount  int  `json:"activeComparableCount"`
}

type MarketData struct {
	HistoricalAveragePrice float64        `json:"historicalAveragePrice"`
	InternalAveragePrice   float64        `json:"internalAveragePrice"`
	RegionalAveragePrice   float64        `json:"regionalAveragePrice"`
	CurrentBid             float64        `json:"currentBid"`
	EstimatedValue         float64        `json:"estimatedValue"`
	BidToValueRatio        float64        `json:"bidToValueRatio"`
	SimilarLots            SimilarLotBids `json:"similarLots"`
	DataQuality            DataQuality    `json:"dataQuality"`
}

type MarketIntelligence struct {
	Recommendation Recommendation `json:"recommendation"`
	Confidence     int            `json:"confidence"`
	BidSuggestion  string         `json:"bidSuggestion"`
	MarketData     MarketData     `json:"marketData"`
}
