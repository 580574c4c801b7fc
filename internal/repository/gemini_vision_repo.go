package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"lot-intelligence/config"
	"lot-intelligence/internal/dto"
	"lot-intelligence/pkg/httpclient"
	"lot-intelligence/pkg/logger"
	"lot-intelligence/pkg/ratelimit"
	"lot-intelligence/pkg/utils"
	"net/http"
	"path"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

type VisionRepository interface {
	AssessDamage(ctx context.Context, lot dto.Lot, imageURLs []string) (*dto.VisionDamageReport, int, error)
}

type generativeModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	CountTokens(ctx context.Context, model string, contents []*genai.Content, config *genai.CountTokensConfig) (*genai.CountTokensResponse, error)
}

// geminiVisionRepository sends lot photos to Gemini and parses the damage report.
type geminiVisionRepository struct {
	cfg            *config.Config
	logger         *logger.Logger
	imageClient    httpclient.HTTPClient
	models         generativeModels
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
}

func NewGeminiVisionRepository(cfg *config.Config, log *logger.Logger) (VisionRepository, error) {
	genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	imageClient := httpclient.New("", cfg.Gemini.ImageFetchTimeout, "", httpclient.WithRetry(1, 300*time.Millisecond))
	return newGeminiVisionRepository(cfg, log, genAiClient.Models, imageClient), nil
}

func newGeminiVisionRepository(cfg *config.Config, log *logger.Logger, models generativeModels, imageClient httpclient.HTTPClient) *geminiVisionRepository {
	requestLimiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.Gemini.MaxRequestPerMinute > 0 {
		requestLimiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.Gemini.MaxRequestPerMinute)), 1)
	}

	return &geminiVisionRepository{
		cfg:            cfg,
		logger:         log,
		imageClient:    imageClient,
		models:         models,
		tokenLimiter:   ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute),
		requestLimiter: requestLimiter,
	}
}

// AssessDamage downloads the photos, asks the model for a damage report and
// returns it together with the number of photos actually sent.
func (r *geminiVisionRepository) AssessDamage(ctx context.Context, lot dto.Lot, imageURLs []string) (*dto.VisionDamageReport, int, error) {
	images := r.downloadImages(ctx, imageURLs)
	if len(images) == 0 {
		return nil, 0, fmt.Errorf("none of the %d photos could be downloaded", len(imageURLs))
	}

	parts := []*genai.Part{genai.NewPartFromText(visionUserPrompt(lot, len(images)))}
	for _, img := range images {
		parts = append(parts, genai.NewPartFromBytes(img.Data, img.MimeType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	text, err := r.sendRequest(ctx, contents)
	if err != nil {
		if isImageFormatError(err) {
			return nil, len(images), fmt.Errorf("%w: %v", dto.ErrVisionImageFormat, err)
		}
		return nil, len(images), err
	}

	report, err := parseDamageReport(text)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to parse response from gemini", logger.ErrorField(err))
		return nil, len(images), fmt.Errorf("failed to parse response from gemini: %w", err)
	}

	return report, len(images), nil
}

func (r *geminiVisionRepository) sendRequest(ctx context.Context, contents []*genai.Content) (string, error) {
	tokenResp, err := r.models.CountTokens(ctx, r.cfg.Gemini.BaseModel, contents, nil)
	if err != nil {
		if isImageFormatError(err) {
			return "", err
		}
		return "", fmt.Errorf("failed to count tokens: %w", err)
	}

	r.logger.DebugContext(ctx, "Gemini token count",
		logger.IntField("total_tokens", int(tokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)
	if err := r.tokenLimiter.Wait(ctx, int(tokenResp.TotalTokens)); err != nil {
		return "", fmt.Errorf("failed to wait for token gemini limit: %w", err)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request gemini limit: %w", err)
	}

	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(visionSystemInstruction(), genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr[float32](0),
	}

	if r.cfg.Gemini.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Gemini.Timeout)
		defer cancel()
	}

	resp, err := r.models.GenerateContent(ctx, r.cfg.Gemini.BaseModel, contents, genCfg)
	if err != nil {
		return "", fmt.Errorf("failed to send request to gemini: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("invalid response from Gemini API: no content found")
	}
	return text, nil
}

func (r *geminiVisionRepository) downloadImages(ctx context.Context, urls []string) []dto.VisionImage {
	images := make([]dto.VisionImage, 0, len(urls))
	for _, u := range urls {
		if !utils.ShouldContinue(ctx, r.logger) {
			break
		}
		resp, err := r.imageClient.Get(ctx, u, nil, map[string]string{"Accept": "image/*"}, nil)
		if err != nil {
			r.logger.WarnContext(ctx, "Failed to download lot photo", logger.StringField("url", u), logger.ErrorField(err))
			continue
		}
		if resp.StatusCode != http.StatusOK || len(resp.Body) == 0 {
			r.logger.WarnContext(ctx, "Lot photo returned Non-OK status",
				logger.StringField("url", u),
				logger.IntField("status_code", resp.StatusCode))
			continue
		}

		mimeType := imageMimeType(u, resp.Headers.Get("Content-Type"))
		if mimeType == "" {
			r.logger.WarnContext(ctx, "Lot photo is not a still image",
				logger.StringField("url", u),
				logger.StringField("content_type", resp.Headers.Get("Content-Type")))
			continue
		}

		images = append(images, dto.VisionImage{URL: u, MimeType: mimeType, Data: resp.Body})
	}
	return images
}

// imageMimeType prefers the served content type and falls back to the URL
// extension. Anything that is not a still image yields "".
func imageMimeType(rawURL, contentType string) string {
	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
		return contentType
	case "image/jpg":
		return "image/jpeg"
	}
	if strings.HasPrefix(contentType, "video/") || (contentType != "" && contentType != "application/octet-stream" && !strings.HasPrefix(contentType, "image/")) {
		return ""
	}

	switch strings.ToLower(path.Ext(strings.Split(rawURL, "?")[0])) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return ""
	}
}

func isImageFormatError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "image") && !strings.Contains(msg, "mime") {
		return false
	}
	for _, hint := range []string{"unsupported", "invalid", "format", "could not process", "unable to process"} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}

func parseDamageReport(text string) (*dto.VisionDamageReport, error) {
	text = strings.TrimSpace(utils.CleanToValidUTF8(text))
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var report dto.VisionDamageReport
	if err := json.Unmarshal([]byte(text), &report); err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrMalformedPayload, err)
	}
	return &report, nil
}
