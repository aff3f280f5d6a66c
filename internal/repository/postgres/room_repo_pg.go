package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
)

const roomTypeColumns = `id, hotel_id, name, description, max_adults, max_children, max_guests, price_per_night, currency, total_rooms, is_active`

type RoomTypeRepository struct {
	db *sqlx.DB
}

func NewRoomTypeRepo(db *sqlx.DB) *RoomTypeRepository {
	return &RoomTypeRepository{db: db}
}

func (r *RoomTypeRepository) List(ctx context.Context, scope domain.ListScope) ([]domain.RoomType, error) {
	where, args := scopeClause(scope, "rt.hotel_id", "h.is_active = true AND rt.is_active = true", nil)
	query := `
        SELECT rt.id, rt.hotel_id, rt.name, rt.description, rt.max_adults, rt.max_children, rt.max_guests,
               rt.price_per_night, rt.currency, rt.total_rooms, rt.is_active
        FROM room_types rt
        JOIN hotels h ON h.id = rt.hotel_id
        WHERE 1 = 1` + where + `
        ORDER BY rt.hotel_id, rt.price_per_night, rt.id`
	rooms := []domain.RoomType{}
	if err := r.db.SelectContext(ctx, &rooms, query, args...); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *RoomTypeRepository) FindByID(ctx context.Context, id int64) (*domain.RoomType, error) {
	var room domain.RoomType
	if err := r.db.GetContext(ctx, &room, `SELECT `+roomTypeColumns+` FROM room_types WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomTypeRepository) Create(ctx context.Context, room *domain.RoomType) (*domain.RoomType, error) {
	query := `
        INSERT INTO room_types (hotel_id, name, description, max_adults, max_children, max_guests, price_per_night, currency, total_rooms, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING ` + roomTypeColumns
	var stored domain.RoomType
	err := r.db.QueryRowxContext(ctx, query,
		room.HotelID, room.Name, room.Description, room.MaxAdults, room.MaxChildren, room.MaxGuests,
		room.PricePerNight, room.Currency, room.TotalRooms, room.IsActive,
	).StructScan(&stored)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *RoomTypeRepository) Update(ctx context.Context, room *domain.RoomType) (*domain.RoomType, error) {
	query := `
        UPDATE room_types
        SET hotel_id = $2, name = $3, description = $4, max_adults = $5, max_children = $6,
            max_guests = $7, price_per_night = $8, currency = $9, total_rooms = $10, is_active = $11
        WHERE id = $1
        RETURNING ` + roomTypeColumns
	var stored domain.RoomType
	err := r.db.QueryRowxContext(ctx, query,
		room.ID, room.HotelID, room.Name, room.Description, room.MaxAdults, room.MaxChildren, room.MaxGuests,
		room.PricePerNight, room.Currency, room.TotalRooms, room.IsActive,
	).StructScan(&stored)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *RoomTypeRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, `DELETE FROM room_types WHERE id = $1`, id)
}

func (r *RoomTypeRepository) CountByHotel(ctx context.Context, hotelID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM room_types WHERE hotel_id = $1`, hotelID)
	return count, err
}

const roomImageSelect = `
        SELECT ri.id, ri.room_type_id, ri.image_url, ri.is_primary, ri.caption, ri.sort_order, rt.hotel_id
        FROM room_images ri
        JOIN room_types rt ON rt.id = ri.room_type_id
        JOIN hotels h ON h.id = rt.hotel_id`

type RoomImageRepository struct {
	db *sqlx.DB
}

func NewRoomImageRepo(db *sqlx.DB) *RoomImageRepository {
	return &RoomImageRepository{db: db}
}

func (r *RoomImageRepository) List(ctx context.Context, scope domain.ListScope, roomTypeID *int64) ([]domain.RoomImage, error) {
	var args []any
	where := ""
	if roomTypeID != nil {
		args = append(args, *roomTypeID)
		where = fmt.Sprintf(" AND ri.room_type_id = $%d", len(args))
	}
	scoped, args := scopeClause(scope, "rt.hotel_id", "h.is_active = true", args)
	query := roomImageSelect + ` WHERE 1 = 1` + where + scoped + ` ORDER BY ri.room_type_id, ri.sort_order, ri.id`
	images := []domain.RoomImage{}
	if err := r.db.SelectContext(ctx, &images, query, args...); err != nil {
		return nil, err
	}
	return images, nil
}

func (r *RoomImageRepository) ListByRoomTypes(ctx context.Context, roomTypeIDs []int64) ([]domain.RoomImage, error) {
	images := []domain.RoomImage{}
	if len(roomTypeIDs) == 0 {
		return images, nil
	}
	query := roomImageSelect + ` WHERE ri.room_type_id = ANY($1::bigint[]) ORDER BY ri.room_type_id, ri.sort_order, ri.id`
	if err := r.db.SelectContext(ctx, &images, query, pq.Array(roomTypeIDs)); err != nil {
		return nil, err
	}
	return images, nil
}

func (r *RoomImageRepository) FindByID(ctx context.Context, id int64) (*domain.RoomImage, error) {
	var image domain.RoomImage
	if err := r.db.GetContext(ctx, &image, roomImageSelect+` WHERE ri.id = $1`, id); err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *RoomImageRepository) Create(ctx context.Context, image *domain.RoomImage) (*domain.RoomImage, error) {
	const query = `
        INSERT INTO room_images (room_type_id, image_url, is_primary, caption, sort_order)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	var id int64
	if err := r.db.GetContext(ctx, &id, query, image.RoomTypeID, image.ImageURL, image.IsPrimary, image.Caption, image.SortOrder); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *RoomImageRepository) Update(ctx context.Context, image *domain.RoomImage) (*domain.RoomImage, error) {
	const query = `
        UPDATE room_images
        SET room_type_id = $2, image_url = $3, is_primary = $4, caption = $5, sort_order = $6
        WHERE id = $1
    `
	if err := execOne(ctx, r.db, query, image.ID, image.RoomTypeID, image.ImageURL, image.IsPrimary, image.Caption, image.SortOrder); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, image.ID)
}

func (r *RoomImageRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, `DELETE FROM room_images WHERE id = $1`, id)
}
