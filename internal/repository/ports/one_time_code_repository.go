package ports

import (
	"context"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
)

type OneTimeCodeRepository interface {
	// Upsert replaces any code previously issued for the same email.
	Upsert(ctx context.Context, code *domain.OneTimeCode) (*domain.OneTimeCode, error)
	// UpdateLatest locks the most recent code for email, hands it to fn and
	// persists attempts and used whatever fn returns. It returns
	// sql.ErrNoRows when no code exists.
	UpdateLatest(ctx context.Context, email string, fn func(code *domain.OneTimeCode) error) error
}

// OTPThrottle limits how often codes may be issued for one email.
type OTPThrottle interface {
	Allow(ctx context.Context, email string) (bool, error)
}
