package dto

// AnalysisResult is the aggregate returned for one lot. It owns copies of
// every branch output.
type AnalysisResult struct {
	LotInfo             Lot                 `json:"lotInfo"`
	VinHistory          []VinHistoryRecord  `json:"vinHistory"`
	AIAnalysis          DamageAssessment    `json:"aiAnalysis"`
	SimilarActiveLots   []Lot               `json:"similarActiveLots"`
	InternalComparables []ComparableVehicle `json:"internalComparables"`
	MarketIntelligence  MarketIntelligence  `json:"marketIntelligence"`
}

// ComparableMatch is the output of the archive matcher.
type ComparableMatch struct {
	Comparables          []ComparableVehicle
	RegionCode           string
	RegionalAveragePrice float64
	CandidateCount       int
}
