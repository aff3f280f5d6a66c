package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/metrics"
	"github.com/njprem/rs1500_BackEnd/internal/repository/ports"
	"github.com/njprem/rs1500_BackEnd/internal/util"
)

const (
	defaultOTPTTL         = 2 * time.Minute
	defaultOTPMaxAttempts = 5
)

type OTPConfig struct {
	TTL         time.Duration
	MaxAttempts int
}

// OTPService issues and verifies email one-time codes. Every verification
// failure is reported as ErrOTPInvalid; the specific reason is only logged.
type OTPService struct {
	codes    ports.OneTimeCodeRepository
	throttle ports.OTPThrottle
	logger   *zap.Logger

	ttl         time.Duration
	maxAttempts int
	now         func() time.Time
	generate    func() (string, error)
}

func NewOTPService(codes ports.OneTimeCodeRepository, throttle ports.OTPThrottle, logger *zap.Logger, cfg OTPConfig) *OTPService {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultOTPTTL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultOTPMaxAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OTPService{
		codes:       codes,
		throttle:    throttle,
		logger:      logger.Named("otp"),
		ttl:         cfg.TTL,
		maxAttempts: cfg.MaxAttempts,
		now:         time.Now,
		generate:    util.GenerateOTP,
	}
}

func (s *OTPService) TTL() time.Duration { return s.ttl }

// Issue creates a fresh code for email, replacing any earlier one, and
// returns the plaintext for delivery.
func (s *OTPService) Issue(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, email)
		switch {
		case err != nil:
			s.logger.Warn("otp throttle unavailable, allowing issuance", zap.Error(err))
		case !allowed:
			metrics.OTPIssued.WithLabelValues("throttled").Inc()
			return "", ErrOTPThrottled
		}
	}

	code, err := s.generate()
	if err != nil {
		return "", err
	}
	hash, salt, err := util.DeriveSecret(code)
	if err != nil {
		return "", err
	}
	_, err = s.codes.Upsert(ctx, &domain.OneTimeCode{
		Email:     email,
		CodeHash:  hash,
		Salt:      salt,
		ExpiresAt: s.now().Add(s.ttl),
	})
	if err != nil {
		metrics.OTPIssued.WithLabelValues("error").Inc()
		return "", err
	}
	metrics.OTPIssued.WithLabelValues("issued").Inc()
	return code, nil
}

// Verify consumes the latest code for email when it matches. A mismatch
// costs one attempt; a used, expired or exhausted code is never compared.
func (s *OTPService) Verify(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	now := s.now()
	reason := "ok"

	err := s.codes.UpdateLatest(ctx, email, func(c *domain.OneTimeCode) error {
		switch {
		case c.Used:
			reason = "used"
		case c.ExpiredAt(now):
			reason = "expired"
		case c.Attempts >= s.maxAttempts:
			reason = "exhausted"
		case !util.VerifySecret(strings.TrimSpace(code), c.Salt, c.CodeHash):
			c.Attempts++
			reason = "mismatch"
		default:
			c.Used = true
			return nil
		}
		return ErrOTPInvalid
	})
	switch {
	case err == nil:
	case isNotFound(err):
		reason = "missing"
		err = ErrOTPInvalid
	case !errors.Is(err, ErrOTPInvalid):
		metrics.OTPVerifications.WithLabelValues("error").Inc()
		return err
	}

	metrics.OTPVerifications.WithLabelValues(reason).Inc()
	if err != nil {
		s.logger.Info("otp verification rejected", zap.String("reason", reason))
	}
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
