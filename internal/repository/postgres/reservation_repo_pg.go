package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/repository/ports"
)

const reservationSelect = `
        SELECT r.id, r.hotel_id, h.name AS hotel_name, r.room_type_id, rt.name AS room_type_name,
               r.guest_name, r.guest_email, r.guest_phone, r.guest_address, r.check_in, r.check_out,
               r.adults, r.children, r.rooms_count, r.total_price, r.currency, r.special_requests,
               r.whatsapp_message_sent, r.status, r.created_at
        FROM reservations r
        JOIN hotels h ON h.id = r.hotel_id
        JOIN room_types rt ON rt.id = r.room_type_id`

type ReservationRepository struct {
	db *sqlx.DB
}

func NewReservationRepo(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) List(ctx context.Context, filter ports.ReservationFilter) ([]domain.Reservation, error) {
	var args []any
	where := ""
	if filter.GuestEmail != "" {
		args = append(args, filter.GuestEmail)
		where = fmt.Sprintf(" AND LOWER(r.guest_email) = LOWER($%d)", len(args))
	}
	scoped, args := scopeClause(filter.Scope, "r.hotel_id", "h.is_active = true", args)
	query := reservationSelect + ` WHERE 1 = 1` + where + scoped + ` ORDER BY r.created_at DESC`

	reservations := []domain.Reservation{}
	if err := r.db.SelectContext(ctx, &reservations, query, args...); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var reservation domain.Reservation
	if err := r.db.GetContext(ctx, &reservation, reservationSelect+` WHERE r.id = $1`, id); err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *ReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	const query = `
        INSERT INTO reservations (
            hotel_id, room_type_id, guest_name, guest_email, guest_phone, guest_address,
            check_in, check_out, adults, children, rooms_count, total_price, currency,
            special_requests, whatsapp_message_sent, status
        ) VALUES (
            :hotel_id, :room_type_id, :guest_name, :guest_email, :guest_phone, :guest_address,
            :check_in, :check_out, :adults, :children, :rooms_count, :total_price, :currency,
            :special_requests, :whatsapp_message_sent, :status
        )
        RETURNING id
    `
	rows, err := r.db.NamedQueryContext(ctx, query, reservation)
	if err != nil {
		return nil, err
	}
	id, err := scanID(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Reservation, error) {
	if err := execOne(ctx, r.db, `UPDATE reservations SET status = $2 WHERE id = $1`, id, status); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *ReservationRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, `DELETE FROM reservations WHERE id = $1`, id)
}
