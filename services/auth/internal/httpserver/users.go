package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/domain"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/service"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/transport"
)

// UsersHTTP is the admin user management API.
type UsersHTTP struct {
	Svc *service.UsersService
}

func (h *UsersHTTP) Create(c echo.Context) error {
	var req transport.CreateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	u, err := h.Svc.Create(c.Request().Context(), service.CreateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		SocialID:  req.SocialID,
		Provider:  req.Provider,
		Role:      domain.Role(req.Role),
		Status:    domain.Status(req.Status),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, transport.NewUserResponse(u))
}

func (h *UsersHTTP) Get(c echo.Context) error {
	u, err := h.Svc.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return notFoundOr(err)
	}
	return c.JSON(http.StatusOK, transport.NewUserResponse(u))
}

func (h *UsersHTTP) Update(c echo.Context) error {
	var req transport.UpdateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	in := service.UpdateUserInput{
		Email:      req.Email.Ptr(),
		ClearEmail: req.Email.IsNull(),
		Password:   req.Password,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		SocialID:   req.SocialID,
		Provider:   req.Provider,
	}
	if req.Role != nil {
		r := domain.Role(*req.Role)
		in.Role = &r
	}
	if req.Status != nil {
		s := domain.Status(*req.Status)
		in.Status = &s
	}

	u, err := h.Svc.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	if u == nil {
		return service.NotFound()
	}
	return c.JSON(http.StatusOK, transport.NewUserResponse(u))
}

func (h *UsersHTTP) Delete(c echo.Context) error {
	if err := h.Svc.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func notFoundOr(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return service.NotFound()
	}
	return err
}
