package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/njprem/rs1500_BackEnd/internal/service"
	"github.com/njprem/rs1500_BackEnd/internal/util"
)

// statusFor maps a service error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// clientMessage returns the text a client may see for err. Unexpected
// errors are logged by the access log and reported generically.
func clientMessage(err error) string {
	var incomplete *service.IncompleteError
	var mailErr *service.MailError
	var detailErr *service.DetailError
	switch {
	case errors.As(err, &incomplete):
		return incomplete.Error()
	case errors.As(err, &mailErr):
		return mailErr.Error()
	case errors.As(err, &detailErr):
		return detailErr.Detail
	}
	return "Internal server error."
}

// writeError renders err as a {"detail": ...} body. The approval checklist
// also carries the missing section labels.
func writeError(c echo.Context, err error) error {
	c.Set(handlerErrorKey, err)
	var incomplete *service.IncompleteError
	if errors.As(err, &incomplete) {
		return c.JSON(http.StatusBadRequest, util.DetailWith(incomplete.Error(), map[string]any{
			"missing": incomplete.Missing,
		}))
	}
	var mailErr *service.MailError
	if errors.As(err, &mailErr) {
		return c.JSON(http.StatusInternalServerError, util.Detail(mailErr.Error()))
	}
	return c.JSON(statusFor(err), util.Detail(clientMessage(err)))
}

// writeTextError is writeError for the plain-text approval link endpoints.
func writeTextError(c echo.Context, err error) error {
	c.Set(handlerErrorKey, err)
	return c.String(statusFor(err), clientMessage(err))
}
