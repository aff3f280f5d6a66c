package http

import (
	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/service"
)

// DetailResponse is the generic {"detail": "..."} payload.
type DetailResponse struct {
	Detail string `json:"detail" example:"OTP sent to email."`
}

// IncompleteResponse is returned when the approval checklist fails.
type IncompleteResponse struct {
	Detail  string   `json:"detail" example:"Complete all sections before requesting approval."`
	Missing []string `json:"missing" example:"Images,Policies"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type googleLoginRequest struct {
	IDToken string `json:"id_token"`
}

type tokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type partnerRegisterRequest struct {
	OwnerEmail    string `json:"owner_email" validate:"required,email"`
	HotelName     string `json:"hotel_name" validate:"required"`
	PlaceType     string `json:"place_type"`
	Country       string `json:"country"`
	City          string `json:"city" validate:"required"`
	Address       string `json:"address"`
	GoogleMapsURL string `json:"google_maps_url"`
}

// AuthPayload is returned by every endpoint that logs a user in.
type AuthPayload struct {
	Detail      string              `json:"detail,omitempty" example:"OTP verified. Account activated."`
	User        service.UserSummary `json:"user"`
	Refresh     string              `json:"refresh,omitempty"`
	Access      string              `json:"access,omitempty"`
	Email       string              `json:"email" example:"guest@example.com"`
	Name        string              `json:"name" example:"Sita Sharma"`
	Role        domain.Role         `json:"role" example:"user"`
	HotelID     *int64              `json:"hotel_id,omitempty" example:"12"`
	RedirectURL string              `json:"redirect_url,omitempty" example:"/hotel-admin/"`
}

func newAuthPayload(r *service.AuthResult) AuthPayload {
	return AuthPayload{
		Detail:      r.Detail,
		User:        service.SummarizeUser(r.User),
		Refresh:     r.Refresh,
		Access:      r.Access,
		Email:       r.User.Email,
		Name:        r.Name(),
		Role:        r.Role,
		HotelID:     r.HotelID,
		RedirectURL: r.RedirectURL,
	}
}

// TokenPair is the password login reply.
type TokenPair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// MeResponse describes the authenticated caller.
type MeResponse struct {
	User           *domain.User `json:"user"`
	IsHotelAccount bool         `json:"is_hotel_account"`
	Email          string       `json:"email"`
	Name           string       `json:"name"`
	Role           domain.Role  `json:"role"`
}
