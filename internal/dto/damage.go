package dto

const (
	ConditionExcellent = "excellent"
	ConditionGood      = "good"
	ConditionFair      = "fair"
	ConditionPoor      = "poor"
	ConditionUnknown   = "unknown"

	ConditionNoImages     = "Unable to assess - no valid images"
	ConditionFormatError  = "Unable to assess - image format not supported"
	ConditionUnavailable  = "Unable to assess - analysis unavailable"
	RecommendationManual  = "MANUAL_INSPECTION"
	ConfidenceLabelNone   = "none"
	ConfidenceLabelLow    = "low"
	ConfidenceLabelMedium = "medium"
	ConfidenceLabelHigh   = "high"
)

// InspectionRegions are the vehicle regions the vision model must cover, in order.
var InspectionRegions = []string{
	"front",
	"driver_side",
	"passenger_side",
	"rear",
	"roof",
	"interior",
	"wheels_tires",
}

type ImageExclusion struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// DamageAssessment is produced once per pipeline run and never persisted.
type DamageAssessment struct {
	DamageDescription   string            `json:"damageDescription"`
	DamageAreas         []string          `json:"damageAreas"`
	EstimatedRepairCost float64           `json:"estimatedRepairCost"`
	OverallCondition    string            `json:"overallCondition"`
	Recommendation      string            `json:"recommendation"`
	ConfidenceLevel     string            `json:"confidenceLevel"`
	Confidence          int               `json:"confidence"`
	KeyFindings         []string          `json:"keyFindings"`
	RegionFindings      map[string]string `json:"regionFindings,omitempty"`
	UncoveredRegions    []string          `json:"uncoveredRegions,omitempty"`
	HasImages           bool              `json:"hasImages"`
	ImageCount          int               `json:"imageCount"`
	ExcludedImages      []ImageExclusion  `json:"excludedImages,omitempty"`
	Error               string            `json:"error,omitempty"`
}

// VisionDamageReport is the JSON document the vision model is instructed to return.
type VisionDamageReport struct {
	DamageDescription   string            `json:"damage_description"`
	DamageAreas         []string          `json:"damage_areas"`
	EstimatedRepairCost float64           `json:"estimated_repair_cost"`
	OverallCondition    string            `json:"overall_condition"`
	Recommendation      string            `json:"recommendation"`
	Confidence          string            `json:"confidence"`
	KeyFindings         []string          `json:"key_findings"`
	RegionFindings      map[string]string `json:"region_findings"`
}

// VisionImage is one downloaded photo ready to be sent to the model.
type VisionImage struct {
	URL      string
	MimeType string
	Data     []byte
}
