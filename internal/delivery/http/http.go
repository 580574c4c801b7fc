package http

import (
	"lot-intelligence/config"
	"lot-intelligence/internal/service"
	"lot-intelligence/pkg/logger"
	"lot-intelligence/pkg/middleware"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	cfg       *config.Config
	log       *logger.Logger
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
}

func NewHttpAPIHandler(cfg *config.Config, log *logger.Logger, echo *echo.Echo, validator *goValidator.Validate, service *service.Service) *HttpAPIHandler {
	return &HttpAPIHandler{
		cfg:       cfg,
		log:       log,
		echo:      echo,
		validator: validator,
		service:   service,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	rateLimiter := middleware.NewRateLimiterMiddleware(middleware.RateLimitConfig{
		Rate:      h.cfg.API.RateLimitPerSecond,
		Burst:     h.cfg.API.RateLimitBurst,
		ExpiresIn: h.cfg.API.RateLimitExpiresIn,
	})

	h.SetupAnalyze(h.echo.Group("", rateLimiter))
}
