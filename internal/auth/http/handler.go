package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	"github.com/allisson/authgate/internal/auth/http/dto"
	authUseCase "github.com/allisson/authgate/internal/auth/usecase"
	"github.com/allisson/authgate/internal/httputil"
	customValidation "github.com/allisson/authgate/internal/validation"
)

// AuthHandler handles HTTP requests for the authentication endpoints.
type AuthHandler struct {
	authUseCase authUseCase.AuthUseCase
	logger      *slog.Logger
}

// NewAuthHandler creates a new authentication handler with required dependencies.
func NewAuthHandler(useCase authUseCase.AuthUseCase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: useCase,
		logger:      logger,
	}
}

// LoginHandler verifies credentials and issues a token pair.
// POST /api/auth/ - No authentication required (this is the authentication endpoint).
// Returns 200 OK with the access token, its expiry, and (when enabled) a refresh token.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	credentials := &authDomain.Credentials{
		Login:          req.Login,
		Password:       req.Password,
		ClientIdentity: c.ClientIP(),
	}

	pair, err := h.authUseCase.Login(c.Request.Context(), credentials, requestid.Get(c))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokenPairToResponse(pair))
}

// RefreshTokenHandler exchanges a one-time-use refresh token for a new token pair.
// POST /api/auth/refresh-token - No authentication required; the refresh token
// is the credential.
func (h *AuthHandler) RefreshTokenHandler(c *gin.Context) {
	var req dto.RefreshTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	pair, err := h.authUseCase.Refresh(c.Request.Context(), req.RefreshToken, c.ClientIP(), requestid.Get(c))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokenPairToResponse(pair))
}

// PingHandler answers liveness probes.
// GET /api/ping - Requires a valid bearer token via AuthenticationMiddleware.
func (h *AuthHandler) PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, dto.PingResponse{Status: "pong"})
}
