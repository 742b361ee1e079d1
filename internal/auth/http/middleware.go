package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	authUseCase "github.com/allisson/authgate/internal/auth/usecase"
	"github.com/allisson/authgate/internal/httputil"
)

// AuthenticationMiddleware provides authentication via bearer token in the
// Authorization header.
//
// The header must be exactly "Bearer <token>": a missing header, a different
// scheme, a lowercase "bearer", or an empty token text all fail with
// ErrMissingCredential. Tokens that are present but fail verification fail
// with the codec's ErrTokenInvalid/ErrTokenExpired, which surface to the
// client identically.
//
// On success the verified payload is stored in the request context for
// handlers to read via GetSubject().
func AuthenticationMiddleware(useCase authUseCase.AuthUseCase, logger *slog.Logger) gin.HandlerFunc {
	const bearerPrefix = "Bearer "

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, authDomain.ErrMissingCredential, logger)
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, authDomain.ErrMissingCredential, logger)
			c.Abort()
			return
		}

		token := authHeader[len(bearerPrefix):]
		if token == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, authDomain.ErrMissingCredential, logger)
			c.Abort()
			return
		}

		payload, err := useCase.VerifyAccessToken(c.Request.Context(), token)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithSubject(c.Request.Context(), payload)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// BrowserCORSMiddleware sets the permissive CORS headers expected by the
// browser clients of the auth endpoints and answers preflight requests. Kept
// separate from the configurable server-wide CORS support for compatibility
// with existing clients.
func BrowserCORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
