package http

import (
	"errors"
	"fmt"
	"lot-intelligence/internal/dto"
	"lot-intelligence/pkg/logger"
	"net/http"
	"strings"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

func (h *HttpAPIHandler) SetupAnalyze(base *echo.Group) {
	base.POST("/analyze", h.analyzeLot)
}

func (h *HttpAPIHandler) analyzeLot(c echo.Context) error {
	requestID := c.Request().Header.Get(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Response().Header().Set(requestIDHeader, requestID)

	log := h.log.With(logger.StringField("request_id", requestID))
	ctx := logger.NewContext(c.Request().Context(), log)

	req := new(dto.AnalyzeRequest)
	if err := c.Bind(req); err != nil {
		log.WarnContext(ctx, "Invalid analyze request body", logger.ErrorField(err))
		return c.JSON(http.StatusBadRequest, dto.NewFailureResponse("invalid request body"))
	}
	req.LotID = strings.TrimSpace(req.LotID)

	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewFailureResponse(validationMessage(err)))
	}

	result, err := h.service.LotAnalysisService.AnalyzeLot(ctx, req.LotID, dto.Site(req.Site))
	if err != nil {
		var notFound *dto.LotNotFoundError
		var invalid *dto.ValidationError
		switch {
		case errors.As(err, &notFound):
			return c.JSON(http.StatusOK, dto.NewFailureResponse(notFound.Error()))
		case errors.As(err, &invalid):
			return c.JSON(http.StatusBadRequest, dto.NewFailureResponse(invalid.Message))
		default:
			log.ErrorContext(ctx, "Failed to analyze lot",
				logger.StringField("lot_id", req.LotID),
				logger.IntField("site", req.Site),
				logger.ErrorField(err))
			return c.JSON(http.StatusInternalServerError, dto.NewFailureResponse("Internal server error"))
		}
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

func validationMessage(err error) string {
	var validationErrors goValidator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return "invalid request"
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		field := fieldName(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(messages, "; ")
}

func fieldName(structField string) string {
	switch structField {
	case "LotID":
		return "lotId"
	case "Site":
		return "site"
	default:
		return structField
	}
}
