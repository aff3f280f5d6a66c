package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/njprem/rs1500_BackEnd/internal/service"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrOTPInvalid, http.StatusBadRequest},
		{service.ErrTokenInvalid, http.StatusUnauthorized},
		{service.ErrAdminOnly, http.StatusForbidden},
		{service.ErrHotelNotFound, http.StatusNotFound},
		{service.ErrOTPThrottled, http.StatusTooManyRequests},
		{&service.IncompleteError{}, http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", service.ErrConflict), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestWriteErrorHidesUnexpectedErrors(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/", "")
	_ = writeError(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"Internal server error."}`, rec.Body.String())
	assert.NotNil(t, c.Get(handlerErrorKey))
}

func TestWriteErrorIncompleteListsMissingSections(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/", "")
	_ = writeError(c, &service.IncompleteError{Missing: []string{"Images", "Policies"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{
		"detail": "Complete all sections before requesting approval.",
		"missing": ["Images", "Policies"]
	}`, rec.Body.String())
}

func TestWriteErrorMailFailure(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/", "")
	_ = writeError(c, &service.MailError{Err: errors.New("smtp timeout")})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"Failed to send email: smtp timeout"}`, rec.Body.String())
}

func TestWriteTextError(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/", "")
	_ = writeTextError(c, service.ErrAdminOnly)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied: admin only.", rec.Body.String())
}
