package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
)

type SessionRepository interface {
	CreateSession(ctx context.Context, userID uuid.UUID, tokenID string, expiresAt time.Time) (*domain.Session, error)
	FindActiveSession(ctx context.Context, tokenID string) (*domain.Session, error)
	DeactivateSession(ctx context.Context, tokenID string) error
}
