package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
)

type BookingFilter struct {
	UserID  *uuid.UUID
	HotelID *int64
}

type BookingRepository interface {
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
	FindByID(ctx context.Context, id int64) (*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
}

type ReservationFilter struct {
	Scope      domain.ListScope
	GuestEmail string
}

type ReservationRepository interface {
	List(ctx context.Context, filter ReservationFilter) ([]domain.Reservation, error)
	FindByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Reservation, error)
	Delete(ctx context.Context, id int64) error
}
