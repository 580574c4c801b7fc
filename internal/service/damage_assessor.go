package service

import (
	"context"
	"errors"
	"lot-intelligence/config"
	"lot-intelligence/internal/dto"
	"lot-intelligence/internal/repository"
	"lot-intelligence/pkg/logger"
	"lot-intelligence/pkg/utils"
	"math"
	"net/url"
	"path"
	"strings"
)

const (
	exclusionInvalidURL       = "invalid url"
	exclusionMissingExtension = "missing file extension"
	exclusionVideo            = "video file"
	exclusionUnsupported      = "unsupported format"

	defaultMaxImages = 10
)

var (
	allowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}
	videoExtensions        = []string{".mp4", ".mov", ".avi", ".wmv", ".webm", ".mkv", ".m4v", ".flv", ".3gp"}

	confidenceScores = map[string]int{
		dto.ConfidenceLabelHigh:   85,
		dto.ConfidenceLabelMedium: 60,
		dto.ConfidenceLabelLow:    35,
	}

	allowedConditions = []string{dto.ConditionExcellent, dto.ConditionGood, dto.ConditionFair, dto.ConditionPoor}
)

type DamageAssessorService interface {
	// AssessDamage always returns a usable assessment. The error is set when
	// the assessment had to be degraded.
	AssessDamage(ctx context.Context, lot dto.Lot) (dto.DamageAssessment, error)
}

type damageAssessorService struct {
	cfg        *config.Config
	log        *logger.Logger
	visionRepo repository.VisionRepository
}

func NewDamageAssessorService(
	cfg *config.Config,
	log *logger.Logger,
	visionRepo repository.VisionRepository,
) DamageAssessorService {
	return &damageAssessorService{
		cfg:        cfg,
		log:        log,
		visionRepo: visionRepo,
	}
}

func (s *damageAssessorService) AssessDamage(ctx context.Context, lot dto.Lot) (dto.DamageAssessment, error) {
	images, excluded := FilterImageURLs(lot.Images)
	if len(excluded) > 0 {
		s.log.DebugContext(ctx, "Excluded lot photos", logger.IntField("count", len(excluded)))
	}

	if len(images) == 0 {
		assessment := NoImagesAssessment()
		assessment.ExcludedImages = excluded
		return assessment, nil
	}

	maxImages := s.cfg.Gemini.MaxImages
	if maxImages <= 0 {
		maxImages = defaultMaxImages
	}
	if len(images) > maxImages {
		images = images[:maxImages]
	}

	report, sent, err := s.visionRepo.AssessDamage(ctx, lot, images)
	if err != nil {
		var assessment dto.DamageAssessment
		if errors.Is(err, dto.ErrVisionImageFormat) {
			s.log.WarnContext(ctx, "Vision model rejected lot photos", logger.ErrorField(err))
			assessment = FormatErrorAssessment(sent)
		} else {
			s.log.ErrorContext(ctx, "Vision damage assessment failed", logger.ErrorField(err))
			assessment = UnavailableAssessment(sent)
		}
		assessment.ExcludedImages = excluded
		return assessment, err
	}

	assessment := buildAssessment(report, sent)
	assessment.ExcludedImages = excluded
	return assessment, nil
}

// FilterImageURLs keeps unique still-image URLs in their original order and
// reports why every other URL was dropped.
func FilterImageURLs(urls []string) ([]string, []dto.ImageExclusion) {
	kept := make([]string, 0, len(urls))
	excluded := []dto.ImageExclusion{}
	seen := make(map[string]struct{}, len(urls))

	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if _, dup := seen[raw]; dup {
			continue
		}
		seen[raw] = struct{}{}

		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			excluded = append(excluded, dto.ImageExclusion{URL: raw, Reason: exclusionInvalidURL})
			continue
		}

		ext := strings.ToLower(path.Ext(u.Path))
		switch {
		case ext == "" || ext == ".":
			excluded = append(excluded, dto.ImageExclusion{URL: raw, Reason: exclusionMissingExtension})
		case utils.ContainsString(videoExtensions, ext):
			excluded = append(excluded, dto.ImageExclusion{URL: raw, Reason: exclusionVideo})
		case !utils.ContainsString(allowedImageExtensions, ext):
			excluded = append(excluded, dto.ImageExclusion{URL: raw, Reason: exclusionUnsupported})
		default:
			kept = append(kept, raw)
		}
	}
	return kept, excluded
}

func NoImagesAssessment() dto.DamageAssessment {
	return dto.DamageAssessment{
		DamageDescription: "No valid images available for analysis",
		DamageAreas:       []string{},
		OverallCondition:  dto.ConditionNoImages,
		Recommendation:    dto.RecommendationManual,
		ConfidenceLevel:   dto.ConfidenceLabelNone,
		Confidence:        0,
		KeyFindings:       []string{},
		HasImages:         false,
		ImageCount:        0,
	}
}

func FormatErrorAssessment(imageCount int) dto.DamageAssessment {
	return dto.DamageAssessment{
		DamageDescription: "The vision model could not read the lot photos",
		DamageAreas:       []string{},
		OverallCondition:  dto.ConditionFormatError,
		Recommendation:    dto.RecommendationManual,
		ConfidenceLevel:   dto.ConfidenceLabelNone,
		Confidence:        0,
		KeyFindings:       []string{},
		HasImages:         true,
		ImageCount:        imageCount,
		Error:             "image format not supported by the vision model",
	}
}

func UnavailableAssessment(imageCount int) dto.DamageAssessment {
	return dto.DamageAssessment{
		DamageDescription: "Damage analysis is temporarily unavailable",
		DamageAreas:       []string{},
		OverallCondition:  dto.ConditionUnavailable,
		Recommendation:    dto.RecommendationManual,
		ConfidenceLevel:   dto.ConfidenceLabelNone,
		Confidence:        0,
		KeyFindings:       []string{},
		HasImages:         imageCount > 0,
		ImageCount:        imageCount,
		Error:             "analysis unavailable",
	}
}

func buildAssessment(report *dto.VisionDamageReport, imageCount int) dto.DamageAssessment {
	label := strings.ToLower(strings.TrimSpace(report.Confidence))
	score, ok := confidenceScores[label]
	if !ok {
		label = dto.ConfidenceLabelLow
		score = confidenceScores[label]
	}

	condition := strings.ToLower(strings.TrimSpace(report.OverallCondition))
	if !utils.ContainsString(allowedConditions, condition) {
		condition = dto.ConditionUnknown
	}

	recommendation := strings.ToUpper(strings.TrimSpace(report.Recommendation))
	if recommendation == "" {
		recommendation = dto.RecommendationManual
	}

	cost := report.EstimatedRepairCost
	if cost < 0 || math.IsNaN(cost) || math.IsInf(cost, 0) {
		cost = 0
	}

	findings := make(map[string]string, len(report.RegionFindings))
	for region, finding := range report.RegionFindings {
		findings[strings.ToLower(strings.TrimSpace(region))] = strings.TrimSpace(finding)
	}

	uncovered := []string{}
	for _, region := range dto.InspectionRegions {
		if findings[region] == "" {
			uncovered = append(uncovered, region)
		}
	}

	return dto.DamageAssessment{
		DamageDescription:   strings.TrimSpace(report.DamageDescription),
		DamageAreas:         nonNilStrings(report.DamageAreas),
		EstimatedRepairCost: cost,
		OverallCondition:    condition,
		Recommendation:      recommendation,
		ConfidenceLevel:     label,
		Confidence:          score,
		KeyFindings:         nonNilStrings(report.KeyFindings),
		RegionFindings:      findings,
		UncoveredRegions:    uncovered,
		HasImages:           true,
		ImageCount:          imageCount,
	}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
