package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/amaumene/cinemahome/internal/checkout"
	"github.com/amaumene/cinemahome/internal/controllers"
	"github.com/amaumene/cinemahome/internal/ledger"
	"github.com/amaumene/cinemahome/internal/services/catalog"
	"github.com/amaumene/cinemahome/internal/session"
)

// ErrorResponse is the body of every error answer
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ErrorHandler maps domain errors to HTTP statuses
func ErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, resp := classify(err)
		if status >= fiber.StatusInternalServerError {
			logger.Error().
				Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("Request failed")
		}
		return c.Status(status).JSON(resp)
	}
}

func classify(err error) (int, ErrorResponse) {
	var (
		fiberErr      *fiber.Error
		validationErr *checkout.ValidationError
		apiErr        *catalog.APIError
	)

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, ErrorResponse{Error: codeFor(fiberErr.Code), Message: fiberErr.Message}
	case errors.Is(err, ledger.ErrNothingToUndo):
		return fiber.StatusConflict, ErrorResponse{Error: "nothing_to_undo", Message: err.Error()}
	case errors.Is(err, ledger.ErrNothingToRedo):
		return fiber.StatusConflict, ErrorResponse{Error: "nothing_to_redo", Message: err.Error()}
	case errors.Is(err, ledger.ErrNothingToRestore):
		return fiber.StatusConflict, ErrorResponse{Error: "nothing_to_restore", Message: err.Error()}
	case errors.Is(err, ledger.ErrAlreadyHidden):
		return fiber.StatusConflict, ErrorResponse{Error: "already_hidden", Message: err.Error()}
	case errors.Is(err, ledger.ErrHideDeclined):
		return fiber.StatusPreconditionRequired, ErrorResponse{Error: "confirmation_required", Message: "repeat the request with confirm=true to hide this movie"}
	case errors.As(err, &validationErr):
		return fiber.StatusUnprocessableEntity, ErrorResponse{Error: "invalid_form", Message: validationErr.Message, Field: validationErr.Field}
	case errors.Is(err, session.ErrEmptyLocation):
		return fiber.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: err.Error()}
	case errors.Is(err, controllers.ErrDataFetch):
		return fiber.StatusBadGateway, ErrorResponse{Error: "backend_unavailable", Message: controllers.FetchFailedMessage}
	case errors.As(err, &apiErr):
		if apiErr.StatusCode == http.StatusNotFound {
			return fiber.StatusNotFound, ErrorResponse{Error: "not_found", Message: detailOr(apiErr, "not found")}
		}
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return fiber.StatusBadRequest, ErrorResponse{Error: "rejected", Message: detailOr(apiErr, apiErr.Status)}
		}
		return fiber.StatusBadGateway, ErrorResponse{Error: "backend_error", Message: detailOr(apiErr, apiErr.Status)}
	default:
		return fiber.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: "internal server error"}
	}
}

func detailOr(apiErr *catalog.APIError, fallback string) string {
	if apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

func codeFor(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "bad_request"
	case fiber.StatusNotFound:
		return "not_found"
	case fiber.StatusMethodNotAllowed:
		return "method_not_allowed"
	default:
		return "error"
	}
}
