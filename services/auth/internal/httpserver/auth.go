package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/t-t-h-q/telemedicine-platform-api/pkg/logging"
	authmw "github.com/t-t-h-q/telemedicine-platform-api/pkg/middleware/auth"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/service"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

type request interface {
	Normalize()
	Validate() error
}

// bind decodes the body into req, normalizes and validates it.
func bind(c echo.Context, req request) error {
	if err := c.Bind(req); err != nil {
		logging.FromContext(c.Request().Context()).Warn("bind_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	req.Normalize()
	return req.Validate()
}

func (h *AuthHTTP) Login(c echo.Context) error {
	var req transport.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.Svc.ValidateLogin(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, transport.LoginResponse{
		Token:        res.Token,
		RefreshToken: res.RefreshToken,
		TokenExpires: res.TokenExpires.UnixMilli(),
		User:         transport.NewUserResponse(res.User),
	})
}

func (h *AuthHTTP) Register(c echo.Context) error {
	var req transport.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	err := h.Svc.Register(c.Request().Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHTTP) ConfirmEmail(c echo.Context) error {
	var req transport.ConfirmEmailRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.Svc.ConfirmEmail(c.Request().Context(), req.Hash); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	claims, ok := authmw.AccessClaims(c)
	if !ok {
		return echo.ErrUnauthorized
	}
	u, err := h.Svc.Me(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewUserResponse(u))
}

func (h *AuthHTTP) UpdateMe(c echo.Context) error {
	claims, ok := authmw.AccessClaims(c)
	if !ok {
		return echo.ErrUnauthorized
	}
	var req transport.UpdateMeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	u, err := h.Svc.Update(c.Request().Context(), claims, service.UpdateMeInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		OldPassword: req.OldPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewUserResponse(u))
}

func (h *AuthHTTP) DeleteMe(c echo.Context) error {
	claims, ok := authmw.AccessClaims(c)
	if !ok {
		return echo.ErrUnauthorized
	}
	if err := h.Svc.Delete(c.Request().Context(), claims.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	claims, ok := authmw.RefreshClaims(c)
	if !ok {
		return echo.ErrUnauthorized
	}
	res, err := h.Svc.RefreshToken(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.RefreshResponse{
		Token:        res.Token,
		RefreshToken: res.RefreshToken,
		TokenExpires: res.TokenExpires.UnixMilli(),
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	claims, ok := authmw.AccessClaims(c)
	if !ok {
		return echo.ErrUnauthorized
	}
	if err := h.Svc.Logout(c.Request().Context(), claims); err != nil {
		return err
	}
	logging.FromContext(c.Request().Context()).Info("successful_logout", "user_id", claims.ID)
	return c.NoContent(http.StatusNoContent)
}
