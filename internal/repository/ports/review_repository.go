package ports

import (
	"context"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
)

type ReviewRepository interface {
	List(ctx context.Context, scope domain.ListScope) ([]domain.Review, error)
	FindByID(ctx context.Context, id int64) (*domain.Review, error)
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	Update(ctx context.Context, review *domain.Review) (*domain.Review, error)
	Delete(ctx context.Context, id int64) error
}

type PartnerRequestRepository interface {
	List(ctx context.Context) ([]domain.PartnerRequest, error)
	FindByID(ctx context.Context, id int64) (*domain.PartnerRequest, error)
	Create(ctx context.Context, request *domain.PartnerRequest) (*domain.PartnerRequest, error)
	UpdateStatus(ctx context.Context, id int64, status domain.PartnerRequestStatus) (*domain.PartnerRequest, error)
	Delete(ctx context.Context, id int64) error
}
