package util

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const approvalPurpose = "hotel-approval"

var (
	ErrApprovalLinkExpired = errors.New("approval link expired")
	ErrApprovalLinkInvalid = errors.New("approval link invalid")
)

type approvalClaims struct {
	HotelID string `json:"hid"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// ApprovalSigner issues the tamper-evident tokens embedded in approve and
// reject links. The same token serves both links.
type ApprovalSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewApprovalSigner(secret string, ttl time.Duration) *ApprovalSigner {
	return &ApprovalSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *ApprovalSigner) TTL() time.Duration { return s.ttl }

func (s *ApprovalSigner) Sign(hotelID int64) (string, error) {
	now := s.now()
	claims := approvalClaims{
		HotelID: strconv.FormatInt(hotelID, 10),
		Purpose: approvalPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify returns the hotel id carried by token, ErrApprovalLinkExpired once
// the link is past its lifetime, or ErrApprovalLinkInvalid for anything else.
func (s *ApprovalSigner) Verify(token string) (int64, error) {
	claims := &approvalClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrApprovalLinkExpired
		}
		return 0, ErrApprovalLinkInvalid
	}
	if !parsed.Valid || claims.Purpose != approvalPurpose {
		return 0, ErrApprovalLinkInvalid
	}
	id, err := strconv.ParseInt(claims.HotelID, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrApprovalLinkInvalid
	}
	return id, nil
}
