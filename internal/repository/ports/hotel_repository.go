package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
)

type HotelRepository interface {
	Create(ctx context.Context, hotel *domain.Hotel) (*domain.Hotel, error)
	// CreateWithOwner inserts the hotel and its HotelAccount in one transaction.
	CreateWithOwner(ctx context.Context, hotel *domain.Hotel, ownerID uuid.UUID) (*domain.Hotel, error)
	FindByID(ctx context.Context, id int64) (*domain.Hotel, error)
	List(ctx context.Context, filter domain.HotelFilter) ([]domain.Hotel, error)
	Update(ctx context.Context, hotel *domain.Hotel) (*domain.Hotel, error)
	Delete(ctx context.Context, id int64) error

	ListAmenities(ctx context.Context, hotelID int64) ([]domain.Amenity, error)
	CountAmenities(ctx context.Context, hotelID int64) (int, error)

	// MarkApprovalRequested flips approval_requested for an inactive hotel and
	// reports whether this call performed the transition.
	MarkApprovalRequested(ctx context.Context, id int64) (bool, error)
	// ResolveApproval locks the hotel row, lets fn mutate the approval flags
	// and persists them. Nothing is written when fn returns an error.
	ResolveApproval(ctx context.Context, id int64, fn func(hotel *domain.Hotel) error) (*domain.Hotel, error)
	ListPendingApproval(ctx context.Context) ([]domain.PendingApproval, error)
}

type HotelAccountRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.HotelAccount, error)
	FindOwnerEmail(ctx context.Context, hotelID int64) (string, error)
}

type AmenityRepository interface {
	List(ctx context.Context) ([]domain.Amenity, error)
	FindByID(ctx context.Context, id int64) (*domain.Amenity, error)
	Create(ctx context.Context, amenity *domain.Amenity) (*domain.Amenity, error)
	Update(ctx context.Context, amenity *domain.Amenity) (*domain.Amenity, error)
	Delete(ctx context.Context, id int64) error
}
