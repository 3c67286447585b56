package httpserver

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/labstack/echo/v4"

	"github.com/t-t-h-q/telemedicine-platform-api/pkg/logging"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/service"
)

// ErrorHandler renders service and validation errors. Anything else goes
// through echo's default handler.
func ErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body, ok := render(err)
		if !ok {
			e.DefaultHTTPErrorHandler(err, c)
			return
		}
		if code >= http.StatusInternalServerError {
			logging.FromContext(c.Request().Context()).Error("request failed", "status", code, "error", err)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, body)
		}
		if werr != nil {
			logging.FromContext(c.Request().Context()).Error("write error response", "error", werr)
		}
	}
}

func render(err error) (int, any, bool) {
	var se *service.Error
	if errors.As(err, &se) {
		switch se.Kind {
		case service.KindValidation:
			return http.StatusUnprocessableEntity, echo.Map{
				"status": http.StatusUnprocessableEntity,
				"errors": se.Fields,
			}, true
		case service.KindNotFound:
			return http.StatusNotFound, echo.Map{
				"status": http.StatusNotFound,
				"error":  se.Message,
			}, true
		case service.KindUnauthorized:
			return http.StatusUnauthorized, echo.Map{"message": se.Message}, true
		default:
			return http.StatusInternalServerError, echo.Map{"message": http.StatusText(http.StatusInternalServerError)}, true
		}
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for k, v := range verrs {
			fields[k] = v.Error()
		}
		return http.StatusUnprocessableEntity, echo.Map{
			"status": http.StatusUnprocessableEntity,
			"errors": fields,
		}, true
	}

	return 0, nil, false
}
