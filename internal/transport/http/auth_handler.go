package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/service"
	"github.com/njprem/rs1500_BackEnd/internal/util"
)

type AuthHandler struct {
	auth *service.AuthService
}

func RegisterAuth(e *echo.Echo, auth *service.AuthService) {
	h := &AuthHandler{auth: auth}

	g := e.Group("/api/auth")
	g.POST("/request-otp/", h.requestOTP)
	g.POST("/verify-otp/", h.verifyOTP)
	g.POST("/google/", h.googleLogin)
	g.POST("/token/", h.token)
	g.POST("/token/refresh/", h.refresh)
	g.POST("/logout/", h.logout)
	g.GET("/me/", h.me, RequireAuth(auth))

	partner := e.Group("/api/hotel-partner")
	partner.POST("/register/", h.registerPartner)
	partner.POST("/request-otp/", h.requestPartnerOTP)
	partner.POST("/verify-otp/", h.verifyPartnerOTP)
}

func (h *AuthHandler) requestOTP(c echo.Context) error {
	var req emailRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	if err := h.auth.RequestRegistrationOTP(c.Request().Context(), req.Email); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Detail("OTP sent to email. Verify to activate account."))
}

func (h *AuthHandler) verifyOTP(c echo.Context) error {
	var req verifyOTPRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	result, err := h.auth.VerifyRegistrationOTP(c.Request().Context(), req.Email, req.OTP)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newAuthPayload(result))
}

func (h *AuthHandler) googleLogin(c echo.Context) error {
	var req googleLoginRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody)
	}
	result, err := h.auth.LoginWithGoogle(c.Request().Context(), req.IDToken)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newAuthPayload(result))
}

// token accepts an email or username in the username field.
func (h *AuthHandler) token(c echo.Context) error {
	var req tokenRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	result, err := h.auth.LoginWithPassword(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, TokenPair{Refresh: result.Refresh, Access: result.Access})
}

func (h *AuthHandler) refresh(c echo.Context) error {
	var req refreshRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	access, err := h.auth.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"access": access})
}

func (h *AuthHandler) logout(c echo.Context) error {
	var req refreshRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	if err := h.auth.Logout(c.Request().Context(), req.Refresh); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Detail("Logged out."))
}

func (h *AuthHandler) me(c echo.Context) error {
	profile, err := h.auth.Me(CurrentPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MeResponse{
		User:           profile.User,
		IsHotelAccount: profile.IsHotelAccount,
		Email:          profile.User.Email,
		Name:           profile.Name,
		Role:           profile.Role,
	})
}

// registerPartner logs new owners straight in; an existing account gets an
// OTP instead of tokens.
func (h *AuthHandler) registerPartner(c echo.Context) error {
	var req partnerRegisterRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	result, err := h.auth.RegisterPartner(c.Request().Context(), service.PartnerRegistration{
		OwnerEmail:    req.OwnerEmail,
		HotelName:     req.HotelName,
		PlaceType:     domain.PlaceType(req.PlaceType),
		Country:       req.Country,
		City:          req.City,
		Address:       req.Address,
		GoogleMapsURL: req.GoogleMapsURL,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, newAuthPayload(result))
}

func (h *AuthHandler) requestPartnerOTP(c echo.Context) error {
	var req emailRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	if err := h.auth.RequestPartnerOTP(c.Request().Context(), req.Email); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Detail("OTP sent to email."))
}

func (h *AuthHandler) verifyPartnerOTP(c echo.Context) error {
	var req verifyOTPRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	result, err := h.auth.VerifyPartnerOTP(c.Request().Context(), req.Email, req.OTP)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newAuthPayload(result))
}
