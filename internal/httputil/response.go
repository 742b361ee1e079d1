// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	apperrors "github.com/allisson/authgate/internal/errors"
)

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HandleErrorGin maps domain errors to HTTP status codes and returns a JSON response.
//
// Client-visible messages are deliberately terse: they never disclose whether a
// login exists, whether a token failed on signature or expiry, or any internal
// error detail. The full error chain is logged server-side instead.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	var statusCode int
	var errorResponse ErrorResponse

	switch {
	case apperrors.Is(err, authDomain.ErrInvalidCredentials):
		statusCode = http.StatusUnauthorized
		errorResponse = ErrorResponse{
			Error: "invalid credentials",
			Code:  "invalid_credentials",
		}

	case apperrors.Is(err, authDomain.ErrMissingCredential):
		statusCode = http.StatusUnauthorized
		errorResponse = ErrorResponse{
			Error: "authorization required",
			Code:  "missing_credential",
		}

	// Expired and malformed/forged tokens surface identically so callers
	// cannot probe which check failed.
	case apperrors.Is(err, authDomain.ErrTokenExpired),
		apperrors.Is(err, authDomain.ErrTokenInvalid):
		statusCode = http.StatusUnauthorized
		errorResponse = ErrorResponse{
			Error: "invalid or expired token",
			Code:  "token_invalid",
		}

	case apperrors.Is(err, authDomain.ErrRefreshTokenExpired),
		apperrors.Is(err, authDomain.ErrRefreshTokenInvalid):
		statusCode = http.StatusUnauthorized
		errorResponse = ErrorResponse{
			Error: "invalid or expired refresh token",
			Code:  "refresh_token_invalid",
		}

	case apperrors.Is(err, authDomain.ErrConfigurationMissing):
		statusCode = http.StatusInternalServerError
		errorResponse = ErrorResponse{
			Error: "signing configuration missing",
			Code:  "configuration_missing",
		}

	case apperrors.Is(err, apperrors.ErrRateLimited):
		statusCode = http.StatusTooManyRequests
		errorResponse = ErrorResponse{
			Error: "too many requests",
			Code:  "rate_limit_exceeded",
		}

	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		errorResponse = ErrorResponse{
			Error: err.Error(),
			Code:  "invalid_input",
		}

	case apperrors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		errorResponse = ErrorResponse{
			Error: "not found",
			Code:  "not_found",
		}

	case apperrors.Is(err, apperrors.ErrConflict):
		statusCode = http.StatusConflict
		errorResponse = ErrorResponse{
			Error: "conflict",
			Code:  "conflict",
		}

	case apperrors.Is(err, apperrors.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		errorResponse = ErrorResponse{
			Error: "unauthorized",
			Code:  "unauthorized",
		}

	case apperrors.Is(err, apperrors.ErrUnavailable):
		statusCode = http.StatusInternalServerError
		errorResponse = ErrorResponse{
			Error: "internal server error",
			Code:  "storage_unavailable",
		}

	default:
		// For unknown/internal errors, don't expose details to the client
		statusCode = http.StatusInternalServerError
		errorResponse = ErrorResponse{
			Error: "internal server error",
			Code:  "internal_error",
		}
	}

	// Log the full error details (including wrapped errors)
	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", errorResponse.Code),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, errorResponse)
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: err.Error(),
		Code:  "invalid_input",
	})
}
