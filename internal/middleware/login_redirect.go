package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linkmark/internal/token"
)

// RedirectConfig is built once at startup; the allow-list is injected
// rather than assembled inside the filter.
type RedirectConfig struct {
	// LoginPage is where unauthenticated browser navigations land.
	LoginPage string
	// AllowedPaths are prefixes reachable without authentication.
	AllowedPaths []string
}

// LoginRedirect sends unauthenticated browser navigations to the login
// page. API paths are never redirected; their authentication is owned
// entirely by RequireAuth on the protected route group. The filter
// fails open: any panic during evaluation is logged and the request
// proceeds normally.
func LoginRedirect(cfg RedirectConfig, tokens *token.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if shouldRedirect(cfg, tokens, log, c) {
			c.Redirect(http.StatusFound, cfg.LoginPage)
			c.Abort()
			return
		}
		c.Next()
	}
}

func shouldRedirect(cfg RedirectConfig, tokens *token.Service, log *zap.Logger, c *gin.Context) (redirect bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("login redirect filter failed, allowing request through",
				zap.Any("panic", r),
				zap.String("path", c.Request.URL.Path),
			)
			redirect = false
		}
	}()

	path := c.Request.URL.Path

	if strings.HasPrefix(path, "/api/") {
		return false
	}

	if hasValidAccessToken(tokens, c) {
		return false
	}

	for _, allowed := range cfg.AllowedPaths {
		if allowed != "" && strings.HasPrefix(path, allowed) {
			return false
		}
	}

	return true
}

func hasValidAccessToken(tokens *token.Service, c *gin.Context) bool {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return false
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return false
	}

	_, err := tokens.ValidateAccess(tokenParts[1])
	return err == nil
}
