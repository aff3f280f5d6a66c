package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/idtoken"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/metrics"
	"github.com/njprem/rs1500_BackEnd/internal/repository/ports"
	"github.com/njprem/rs1500_BackEnd/internal/transport/mail"
	"github.com/njprem/rs1500_BackEnd/internal/util"
)

var (
	ErrInvalidEmailOrOTP     = detail(ErrValidation, "Invalid email or OTP.")
	ErrNoHotelAccount        = detail(ErrValidation, "No hotel account found for this email.")
	ErrHotelAccountExists    = detail(ErrValidation, "A hotel account already exists for this email.")
	ErrIDTokenRequired       = detail(ErrValidation, "id_token required.")
	ErrGoogleNotConfigured   = detail(ErrUnavailable, "Google login not configured on server.")
	ErrGoogleTokenInvalid    = detail(ErrValidation, "Invalid Google token.")
	ErrGoogleEmailUnverified = detail(ErrValidation, "Unverified Google email.")
	ErrInvalidCredentials    = detail(ErrUnauthorized, "No active account found with the given credentials")
	ErrTokenInvalid          = detail(ErrUnauthorized, "Token is invalid or expired")
)

const (
	defaultPartnerRedirect = "/hotel-admin/"
	defaultUsername        = "user"
)

// GoogleTokenValidator verifies a Google ID token for audience.
type GoogleTokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

type AuthConfig struct {
	GoogleClientID  string
	PartnerRedirect string
}

// AuthResult is everything a login-style endpoint returns.
type AuthResult struct {
	Detail      string
	User        *domain.User
	Access      string
	Refresh     string
	Role        domain.Role
	HotelID     *int64
	RedirectURL string
}

func (r *AuthResult) Name() string { return r.User.DisplayName() }

type PartnerRegistration struct {
	OwnerEmail    string
	HotelName     string
	PlaceType     domain.PlaceType
	Country       string
	City          string
	Address       string
	GoogleMapsURL string
}

type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionRepository
	accounts ports.HotelAccountRepository
	hotels   ports.HotelRepository
	otp      *OTPService
	mailer   mail.Mailer
	tokens   *util.JWTManager
	logger   *zap.Logger

	googleClientID  string
	partnerRedirect string
	validateGoogle  GoogleTokenValidator
}

func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionRepository,
	accounts ports.HotelAccountRepository,
	hotels ports.HotelRepository,
	otp *OTPService,
	mailer mail.Mailer,
	tokens *util.JWTManager,
	logger *zap.Logger,
	cfg AuthConfig,
) *AuthService {
	redirect := strings.TrimSpace(cfg.PartnerRedirect)
	if redirect == "" {
		redirect = defaultPartnerRedirect
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:           users,
		sessions:        sessions,
		accounts:        accounts,
		hotels:          hotels,
		otp:             otp,
		mailer:          mailer,
		tokens:          tokens,
		logger:          logger.Named("auth"),
		googleClientID:  strings.TrimSpace(cfg.GoogleClientID),
		partnerRedirect: redirect,
		validateGoogle:  idtoken.Validate,
	}
}

// RequestRegistrationOTP creates an inactive account for unknown emails and
// mails a registration code. A user created by this call is removed again
// when the mail cannot be sent.
func (s *AuthService) RequestRegistrationOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	user, created, err := s.findOrCreateUser(ctx, &domain.User{Email: email})
	if err != nil {
		return err
	}
	discard := func() {
		if !created {
			return
		}
		if err := s.users.Delete(ctx, user.ID); err != nil {
			s.logger.Error("remove user after failed registration", zap.Error(err))
		}
	}

	code, err := s.otp.Issue(ctx, email)
	if err != nil {
		discard()
		return err
	}
	if err := s.sendOTP(ctx, email, code, mail.OTPRegistration); err != nil {
		discard()
		return err
	}
	return nil
}

func (s *AuthService) VerifyRegistrationOTP(ctx context.Context, email, code string) (*AuthResult, error) {
	email = normalizeEmail(email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidEmailOrOTP
		}
		return nil, err
	}
	if err := s.otp.Verify(ctx, email, code); err != nil {
		return nil, err
	}
	if err := s.activate(ctx, user); err != nil {
		return nil, err
	}
	principal, err := s.principalFor(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, principal, "OTP verified. Account activated.")
}

// RegisterPartner creates a draft hotel linked to the owner's account. A new
// owner is logged in straight away. An existing account is only linked and
// must complete the partner OTP login, so registering never hands out tokens
// for someone else's account.
func (s *AuthService) RegisterPartner(ctx context.Context, in PartnerRegistration) (*AuthResult, error) {
	email := normalizeEmail(in.OwnerEmail)
	if email == "" || strings.TrimSpace(in.HotelName) == "" || strings.TrimSpace(in.City) == "" {
		return nil, detail(ErrValidation, "owner_email, hotel_name and city are required.")
	}
	placeType := in.PlaceType
	if placeType == "" {
		placeType = domain.PlaceTypeHotel
	}
	if !placeType.Valid() {
		return nil, detailf(ErrValidation, "%q is not a valid place_type.", placeType)
	}

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if _, err := s.accounts.FindByUserID(ctx, user.ID); err == nil {
			return nil, ErrHotelAccountExists
		} else if !isNotFound(err) {
			return nil, err
		}
	case isNotFound(err):
		user = nil
	default:
		return nil, err
	}

	created := false
	if user == nil {
		if user, created, err = s.findOrCreateUser(ctx, &domain.User{Email: email, IsActive: true}); err != nil {
			return nil, err
		}
	}

	hotel, err := s.hotels.CreateWithOwner(ctx, &domain.Hotel{
		Name:          strings.TrimSpace(in.HotelName),
		PlaceType:     placeType,
		Country:       strings.TrimSpace(in.Country),
		City:          strings.TrimSpace(in.City),
		Address:       strings.TrimSpace(in.Address),
		GoogleMapsURL: strings.TrimSpace(in.GoogleMapsURL),
	}, user.ID)
	if err != nil {
		if created {
			if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
				s.logger.Error("remove user after failed partner registration", zap.Error(delErr))
			}
		}
		if isUniqueViolation(err) {
			return nil, ErrHotelAccountExists
		}
		return nil, err
	}

	hotelID := hotel.ID
	if !created {
		if err := s.RequestPartnerOTP(ctx, email); err != nil {
			// Drop the hotel so the owner can register again; its account
			// link goes with it.
			if delErr := s.hotels.Delete(ctx, hotelID); delErr != nil {
				s.logger.Error("remove hotel after failed partner registration",
					zap.Int64("hotel_id", hotelID), zap.Error(delErr))
			}
			return nil, err
		}
		return &AuthResult{
			Detail:      "Hotel partner registered. OTP sent to email.",
			User:        user,
			Role:        domain.RolePartner,
			HotelID:     &hotelID,
			RedirectURL: s.partnerRedirect,
		}, nil
	}

	result, err := s.issue(ctx, domain.NewPrincipal(user, &hotelID), "Hotel partner registered and logged in.")
	if err != nil {
		return nil, err
	}
	result.RedirectURL = s.partnerRedirect
	return result, nil
}

func (s *AuthService) RequestPartnerOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if _, _, err := s.partnerByEmail(ctx, email); err != nil {
		if errors.Is(err, ErrInvalidEmailOrOTP) {
			return ErrNoHotelAccount
		}
		return err
	}
	code, err := s.otp.Issue(ctx, email)
	if err != nil {
		return err
	}
	return s.sendOTP(ctx, email, code, mail.OTPPartnerLogin)
}

func (s *AuthService) VerifyPartnerOTP(ctx context.Context, email, code string) (*AuthResult, error) {
	email = normalizeEmail(email)
	user, account, err := s.partnerByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := s.otp.Verify(ctx, email, code); err != nil {
		return nil, err
	}
	if err := s.activate(ctx, user); err != nil {
		return nil, err
	}
	hotelID := account.HotelID
	result, err := s.issue(ctx, domain.NewPrincipal(user, &hotelID), "OTP verified. Logged into hotel admin.")
	if err != nil {
		return nil, err
	}
	result.Role = domain.RolePartner
	result.RedirectURL = s.partnerRedirect
	return result, nil
}

func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (*AuthResult, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, ErrIDTokenRequired
	}
	if s.googleClientID == "" {
		return nil, ErrGoogleNotConfigured
	}
	payload, err := s.validateGoogle(ctx, idToken, s.googleClientID)
	if err != nil {
		s.logger.Info("google token rejected", zap.Error(err))
		return nil, ErrGoogleTokenInvalid
	}
	email, _ := payload.Claims["email"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)
	if strings.TrimSpace(email) == "" || !verified {
		return nil, ErrGoogleEmailUnverified
	}

	seed := &domain.User{Email: normalizeEmail(email), IsActive: true}
	seed.FirstName, _ = payload.Claims["given_name"].(string)
	seed.LastName, _ = payload.Claims["family_name"].(string)
	user, _, err := s.findOrCreateUser(ctx, seed)
	if err != nil {
		return nil, err
	}
	if err := s.activate(ctx, user); err != nil {
		return nil, err
	}
	principal, err := s.principalFor(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, principal, "")
}

// LoginWithPassword accepts either an email address or a username.
func (s *AuthService) LoginWithPassword(ctx context.Context, identifier, password string) (*AuthResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	var (
		user *domain.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.users.FindByEmail(ctx, normalizeEmail(identifier))
	} else {
		user, err = s.users.FindByUsername(ctx, identifier)
	}
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !user.HasPassword() || !util.VerifySecret(password, user.PasswordSalt, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	principal, err := s.principalFor(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, principal, "")
}

// Refresh exchanges a live refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refresh string) (string, error) {
	claims, err := s.tokens.Parse(strings.TrimSpace(refresh), util.RefreshToken)
	if err != nil {
		return "", ErrTokenInvalid
	}
	if _, err := s.sessions.FindActiveSession(ctx, claims.ID); err != nil {
		if isNotFound(err) {
			return "", ErrTokenInvalid
		}
		return "", err
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return "", ErrTokenInvalid
	}
	access, err := s.tokens.Generate(user.ID, user.Email, util.AccessToken)
	if err != nil {
		return "", err
	}
	return access.Value, nil
}

func (s *AuthService) Logout(ctx context.Context, refresh string) error {
	claims, err := s.tokens.Parse(strings.TrimSpace(refresh), util.RefreshToken)
	if err != nil {
		return ErrTokenInvalid
	}
	return s.sessions.DeactivateSession(ctx, claims.ID)
}

// Authenticate resolves an access token to the caller's principal.
func (s *AuthService) Authenticate(ctx context.Context, access string) (*domain.Principal, error) {
	claims, err := s.tokens.Parse(access, util.AccessToken)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, detail(ErrUnauthorized, "User is inactive")
	}
	return s.principalFor(ctx, user)
}

// CreateStaff provisions a platform administrator with a password.
func (s *AuthService) CreateStaff(ctx context.Context, email, password string) (*domain.User, error) {
	if err := util.ValidatePassword(password); err != nil {
		return nil, detail(ErrValidation, err.Error())
	}
	hash, salt, err := util.DeriveSecret(password)
	if err != nil {
		return nil, err
	}
	email = normalizeEmail(email)
	username, err := s.uniqueUsername(ctx, email)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Create(ctx, &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		PasswordSalt: salt,
		IsActive:     true,
		IsStaff:      true,
	})
	if isUniqueViolation(err) {
		return nil, detail(ErrConflict, "A user with this email already exists.")
	}
	return user, err
}

func (s *AuthService) principalFor(ctx context.Context, user *domain.User) (*domain.Principal, error) {
	account, err := s.accounts.FindByUserID(ctx, user.ID)
	switch {
	case err == nil:
		hotelID := account.HotelID
		return domain.NewPrincipal(user, &hotelID), nil
	case isNotFound(err):
		return domain.NewPrincipal(user, nil), nil
	default:
		return nil, err
	}
}

func (s *AuthService) partnerByEmail(ctx context.Context, email string) (*domain.User, *domain.HotelAccount, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, ErrInvalidEmailOrOTP
		}
		return nil, nil, err
	}
	account, err := s.accounts.FindByUserID(ctx, user.ID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, ErrInvalidEmailOrOTP
		}
		return nil, nil, err
	}
	return user, account, nil
}

func (s *AuthService) issue(ctx context.Context, principal *domain.Principal, msg string) (*AuthResult, error) {
	user := principal.User
	access, err := s.tokens.Generate(user.ID, user.Email, util.AccessToken)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Generate(user.ID, user.Email, util.RefreshToken)
	if err != nil {
		return nil, err
	}
	if _, err := s.sessions.CreateSession(ctx, user.ID, refresh.ID, refresh.ExpiresAt); err != nil {
		return nil, err
	}
	return &AuthResult{
		Detail:  msg,
		User:    user,
		Access:  access.Value,
		Refresh: refresh.Value,
		Role:    principal.PublicRole(),
		HotelID: principal.HotelID,
	}, nil
}

func (s *AuthService) activate(ctx context.Context, user *domain.User) error {
	if user.IsActive {
		return nil
	}
	if err := s.users.SetActive(ctx, user.ID, true); err != nil {
		return err
	}
	user.IsActive = true
	return nil
}

func (s *AuthService) sendOTP(ctx context.Context, email, code string, purpose mail.OTPPurpose) error {
	if err := s.mailer.Send(ctx, mail.OTPMessage(email, code, purpose, s.otp.TTL())); err != nil {
		metrics.MailDeliveries.WithLabelValues("otp", "failed").Inc()
		s.logger.Error("send otp email", zap.String("purpose", string(purpose)), zap.Error(err))
		return &MailError{Err: err}
	}
	metrics.MailDeliveries.WithLabelValues("otp", "sent").Inc()
	return nil
}

// findOrCreateUser returns the account for seed.Email, inserting seed when
// missing. created reports whether this call inserted the row.
func (s *AuthService) findOrCreateUser(ctx context.Context, seed *domain.User) (*domain.User, bool, error) {
	email := seed.Email
	user, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return user, false, nil
	}
	if !isNotFound(err) {
		return nil, false, err
	}
	username, err := s.uniqueUsername(ctx, email)
	if err != nil {
		return nil, false, err
	}
	seed.Username = username
	user, err = s.users.Create(ctx, seed)
	if err != nil {
		if isUniqueViolation(err) {
			// Lost a race with a concurrent signup for the same email.
			existing, findErr := s.users.FindByEmail(ctx, email)
			if findErr == nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}
	return user, true, nil
}

// uniqueUsername derives a username from the email local part, appending
// _1, _2, ... until it is free.
func (s *AuthService) uniqueUsername(ctx context.Context, email string) (string, error) {
	base := email
	if i := strings.IndexByte(email, '@'); i >= 0 {
		base = email[:i]
	}
	if base == "" {
		base = defaultUsername
	}
	candidate := base
	for i := 1; ; i++ {
		exists, err := s.users.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d", base, i)
	}
}

// UserSummary is the {id, email} shape embedded in auth payloads.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

func SummarizeUser(u *domain.User) UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email}
}

// Profile is the /me payload for an authenticated caller.
type Profile struct {
	User           *domain.User
	IsHotelAccount bool
	Role           domain.Role
	Name           string
}

func (s *AuthService) Me(principal *domain.Principal) (*Profile, error) {
	if principal == nil || principal.User == nil {
		return nil, ErrAuthenticationNeeded
	}
	return &Profile{
		User:           principal.User,
		IsHotelAccount: principal.IsPartner(),
		Role:           principal.PublicRole(),
		Name:           principal.User.DisplayName(),
	}, nil
}
