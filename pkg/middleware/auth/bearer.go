package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/t-t-h-q/telemedicine-platform-api/pkg/tokens"
)

const (
	accessClaimsKey  = "auth.access"
	refreshClaimsKey = "auth.refresh"
)

// BearerAuth authenticates requests from the Authorization header.
type BearerAuth struct {
	AccessSecret  []byte
	RefreshSecret []byte
}

func NewBearerAuth(accessSecret, refreshSecret []byte) *BearerAuth {
	return &BearerAuth{AccessSecret: accessSecret, RefreshSecret: refreshSecret}
}

// RequireAccess admits requests carrying a valid access token bound to a user.
func (m *BearerAuth) RequireAccess(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := bearerToken(c.Request())
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}
		claims, err := tokens.AccessClaimsFromToken(raw, m.AccessSecret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}
		if claims.ID == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "token is not bound to a user")
		}

		c.Set(accessClaimsKey, claims)
		return next(c)
	}
}

// RequireRefresh admits requests carrying a valid refresh token.
func (m *BearerAuth) RequireRefresh(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := bearerToken(c.Request())
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}
		claims, err := tokens.RefreshClaimsFromToken(raw, m.RefreshSecret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}
		if claims.SessionID == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "token is not bound to a session")
		}

		c.Set(refreshClaimsKey, claims)
		return next(c)
	}
}

// RequireRoles must run after RequireAccess. No roles means any role passes.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(allowed) == 0 {
				return next(c)
			}
			claims, ok := AccessClaims(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access claims")
			}
			if _, ok := allowed[claims.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}

func AccessClaims(c echo.Context) (*tokens.AccessClaims, bool) {
	claims, ok := c.Get(accessClaimsKey).(*tokens.AccessClaims)
	return claims, ok && claims != nil
}

func RefreshClaims(c echo.Context) (*tokens.RefreshClaims, bool) {
	claims, ok := c.Get(refreshClaimsKey).(*tokens.RefreshClaims)
	return claims, ok && claims != nil
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get(echo.HeaderAuthorization)
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
