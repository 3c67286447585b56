package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/t-t-h-q/telemedicine-platform-api/pkg/metrics"
	authmw "github.com/t-t-h-q/telemedicine-platform-api/pkg/middleware/auth"
	"github.com/t-t-h-q/telemedicine-platform-api/pkg/middleware/ratelimit"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/domain"
)

type Deps struct {
	AuthHandler  *AuthHTTP
	UsersHandler *UsersHTTP
	Bearer       *authmw.BearerAuth
	Limiter      *ratelimit.Limiter
	Metrics      *metrics.Metrics

	AppName   string
	APIPrefix string
	// Ready reports whether the service can serve traffic, usually a DB ping.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler(e)

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"name": d.AppName})
	})
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return c.NoContent(http.StatusOK)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := d.Ready(ctx); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	v1 := e.Group(versionPrefix(d.APIPrefix))

	var limited []echo.MiddlewareFunc
	if d.Limiter != nil {
		limited = append(limited, d.Limiter.Middleware())
	}

	auth := v1.Group("/auth")
	auth.POST("/email/login", d.AuthHandler.Login, limited...)
	auth.POST("/email/register", d.AuthHandler.Register, limited...)
	auth.POST("/email/confirm", d.AuthHandler.ConfirmEmail, limited...)
	auth.POST("/refresh", d.AuthHandler.Refresh, append(limited, d.Bearer.RequireRefresh)...)

	me := auth.Group("", d.Bearer.RequireAccess)
	me.GET("/me", d.AuthHandler.Me)
	me.PATCH("/me", d.AuthHandler.UpdateMe)
	me.DELETE("/me", d.AuthHandler.DeleteMe)
	me.POST("/logout", d.AuthHandler.Logout)

	if d.UsersHandler != nil {
		users := v1.Group("/users", d.Bearer.RequireAccess, authmw.RequireRoles(string(domain.RoleAdmin)))
		users.POST("", d.UsersHandler.Create)
		users.GET("/:id", d.UsersHandler.Get)
		users.PATCH("/:id", d.UsersHandler.Update)
		users.DELETE("/:id", d.UsersHandler.Delete)
	}
}

func versionPrefix(apiPrefix string) string {
	p := strings.Trim(apiPrefix, "/")
	if p == "" {
		return "/v1"
	}
	return "/" + p + "/v1"
}
