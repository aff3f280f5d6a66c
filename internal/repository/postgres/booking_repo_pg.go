package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/repository/ports"
)

const bookingColumns = `id, user_id, hotel_id, room_type_id, check_in, check_out, adults, children, rooms_count, total_price, status, created_at`

type BookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepo(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) List(ctx context.Context, filter ports.BookingFilter) ([]domain.Booking, error) {
	var (
		conds []string
		args  []any
	)
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.HotelID != nil {
		args = append(args, *filter.HotelID)
		conds = append(conds, fmt.Sprintf("hotel_id = $%d", len(args)))
	}
	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " OR ")
	}
	query += " ORDER BY created_at DESC"

	bookings := []domain.Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var booking domain.Booking
	if err := r.db.GetContext(ctx, &booking, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	query := `
        INSERT INTO bookings (user_id, hotel_id, room_type_id, check_in, check_out, adults, children, rooms_count, total_price, status)
        VALUES (:user_id, :hotel_id, :room_type_id, :check_in, :check_out, :adults, :children, :rooms_count, :total_price, :status)
        RETURNING ` + bookingColumns
	rows, err := r.db.NamedQueryContext(ctx, query, booking)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stored domain.Booking
	if err := scanOne(rows, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	query := `UPDATE bookings SET status = $2 WHERE id = $1 RETURNING ` + bookingColumns
	var stored domain.Booking
	if err := r.db.QueryRowxContext(ctx, query, id, status).StructScan(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, `DELETE FROM bookings WHERE id = $1`, id)
}
