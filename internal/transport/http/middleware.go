package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/service"
	"github.com/njprem/rs1500_BackEnd/internal/util"
)

const (
	contextPrincipalKey = "principal"
	contextTokenKey     = "access_token"
	handlerErrorKey     = "handler_error"
)

// RequireAuth rejects requests without a valid Bearer access token.
func RequireAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return authenticate(auth, true)
}

// OptionalAuth resolves the caller when a token is sent and lets anonymous
// requests through. A token that is sent but invalid is still rejected.
func OptionalAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return authenticate(auth, false)
}

func authenticate(auth *service.AuthService, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			if authHeader == "" {
				if required {
					return c.JSON(http.StatusUnauthorized, util.Detail(service.ErrAuthenticationNeeded.Error()))
				}
				return next(c)
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return c.JSON(http.StatusUnauthorized, util.Detail("Authorization header must contain two space-delimited values"))
			}
			token := strings.TrimSpace(parts[1])
			principal, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				return writeError(c, err)
			}
			c.Set(contextPrincipalKey, principal)
			c.Set(contextTokenKey, token)
			return next(c)
		}
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !CurrentPrincipal(c).IsAdmin() {
				return writeError(c, service.ErrAdminOnly)
			}
			return next(c)
		}
	}
}

// CurrentPrincipal returns the authenticated caller or nil.
func CurrentPrincipal(c echo.Context) *domain.Principal {
	p, _ := c.Get(contextPrincipalKey).(*domain.Principal)
	return p
}

// requireLogin rejects anonymous callers on routes behind OptionalAuth.
func requireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentPrincipal(c) == nil {
			return writeError(c, service.ErrAuthenticationNeeded)
		}
		return next(c)
	}
}
