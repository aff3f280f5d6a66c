package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
)

const hotelColumns = `id, name, description, place_type, country, city, address, google_maps_url, rating, is_active, approval_requested, created_at, updated_at`

type HotelRepository struct {
	db *sqlx.DB
}

func NewHotelRepo(db *sqlx.DB) *HotelRepository {
	return &HotelRepository{db: db}
}

func (r *HotelRepository) Create(ctx context.Context, hotel *domain.Hotel) (*domain.Hotel, error) {
	var created *domain.Hotel
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		created, err = insertHotel(ctx, tx, hotel)
		return err
	})
	return created, err
}

func (r *HotelRepository) CreateWithOwner(ctx context.Context, hotel *domain.Hotel, ownerID uuid.UUID) (*domain.Hotel, error) {
	const accountQuery = `INSERT INTO hotel_accounts (user_id, hotel_id) VALUES ($1, $2)`
	var created *domain.Hotel
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var err error
		created, err = insertHotel(ctx, tx, hotel)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, accountQuery, ownerID, created.ID)
		return err
	})
	return created, err
}

func insertHotel(ctx context.Context, tx *sqlx.Tx, hotel *domain.Hotel) (*domain.Hotel, error) {
	query := `
        INSERT INTO hotels (name, description, place_type, country, city, address, google_maps_url, rating, is_active, approval_requested)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING ` + hotelColumns
	var created domain.Hotel
	err := tx.QueryRowxContext(ctx, query,
		hotel.Name, hotel.Description, hotel.PlaceType, hotel.Country, hotel.City, hotel.Address,
		hotel.GoogleMapsURL, hotel.Rating, hotel.IsActive, hotel.ApprovalRequested,
	).StructScan(&created)
	if err != nil {
		return nil, err
	}
	if err := replaceAmenities(ctx, tx, created.ID, hotel.AmenityIDs); err != nil {
		return nil, err
	}
	created.AmenityIDs = append([]int64{}, hotel.AmenityIDs...)
	return &created, nil
}

func replaceAmenities(ctx context.Context, tx *sqlx.Tx, hotelID int64, amenityIDs []int64) error {
	if amenityIDs == nil {
		return nil
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM hotel_amenities WHERE hotel_id = $1`, hotelID); err != nil {
		return err
	}
	if len(amenityIDs) == 0 {
		return nil
	}
	const query = `
        INSERT INTO hotel_amenities (hotel_id, amenity_id)
        SELECT $1, UNNEST($2::bigint[])
        ON CONFLICT DO NOTHING
    `
	_, err := tx.ExecContext(ctx, query, hotelID, pq.Array(amenityIDs))
	return err
}

func (r *HotelRepository) FindByID(ctx context.Context, id int64) (*domain.Hotel, error) {
	query := `SELECT ` + hotelColumns + ` FROM hotels WHERE id = $1`
	var hotel domain.Hotel
	if err := r.db.GetContext(ctx, &hotel, query, id); err != nil {
		return nil, err
	}
	ids := []int64{}
	if err := r.db.SelectContext(ctx, &ids, `SELECT amenity_id FROM hotel_amenities WHERE hotel_id = $1 ORDER BY amenity_id`, id); err != nil {
		return nil, err
	}
	hotel.AmenityIDs = ids
	return &hotel, nil
}

func (r *HotelRepository) List(ctx context.Context, filter domain.HotelFilter) ([]domain.Hotel, error) {
	var (
		conds []string
		args  []any
	)
	if filter.OnlyActive {
		conds = append(conds, "is_active = true")
	}
	if city := strings.TrimSpace(filter.City); city != "" {
		args = append(args, city)
		conds = append(conds, fmt.Sprintf("LOWER(city) = LOWER($%d)", len(args)))
	}
	if filter.PlaceType != "" {
		args = append(args, filter.PlaceType)
		conds = append(conds, fmt.Sprintf("place_type = $%d", len(args)))
	}

	query := `SELECT ` + hotelColumns + ` FROM hotels`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	hotels := []domain.Hotel{}
	if err := r.db.SelectContext(ctx, &hotels, query, args...); err != nil {
		return nil, err
	}
	return hotels, nil
}

func (r *HotelRepository) Update(ctx context.Context, hotel *domain.Hotel) (*domain.Hotel, error) {
	query := `
        UPDATE hotels
        SET name = $2,
            description = $3,
            place_type = $4,
            country = $5,
            city = $6,
            address = $7,
            google_maps_url = $8,
            rating = $9,
            updated_at = NOW()
        WHERE id = $1
        RETURNING ` + hotelColumns
	var updated domain.Hotel
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, query,
			hotel.ID, hotel.Name, hotel.Description, hotel.PlaceType, hotel.Country, hotel.City,
			hotel.Address, hotel.GoogleMapsURL, hotel.Rating,
		).StructScan(&updated)
		if err != nil {
			return err
		}
		return replaceAmenities(ctx, tx, hotel.ID, hotel.AmenityIDs)
	})
	if err != nil {
		return nil, err
	}
	updated.AmenityIDs = hotel.AmenityIDs
	return &updated, nil
}

func (r *HotelRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, `DELETE FROM hotels WHERE id = $1`, id)
}

func (r *HotelRepository) ListAmenities(ctx context.Context, hotelID int64) ([]domain.Amenity, error) {
	const query = `
        SELECT a.id, a.name, a.icon
        FROM amenities a
        JOIN hotel_amenities ha ON ha.amenity_id = a.id
        WHERE ha.hotel_id = $1
        ORDER BY a.name
    `
	amenities := []domain.Amenity{}
	if err := r.db.SelectContext(ctx, &amenities, query, hotelID); err != nil {
		return nil, err
	}
	return amenities, nil
}

func (r *HotelRepository) CountAmenities(ctx context.Context, hotelID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM hotel_amenities WHERE hotel_id = $1`, hotelID)
	return count, err
}

func (r *HotelRepository) MarkApprovalRequested(ctx context.Context, id int64) (bool, error) {
	const query = `
        UPDATE hotels
        SET approval_requested = true, updated_at = NOW()
        WHERE id = $1 AND approval_requested = false AND is_active = false
    `
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *HotelRepository) ResolveApproval(ctx context.Context, id int64, fn func(hotel *domain.Hotel) error) (*domain.Hotel, error) {
	selectQuery := `SELECT ` + hotelColumns + ` FROM hotels WHERE id = $1 FOR UPDATE`
	const updateQuery = `
        UPDATE hotels
        SET is_active = $2, approval_requested = $3, updated_at = NOW()
        WHERE id = $1
        RETURNING updated_at
    `
	var hotel domain.Hotel
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &hotel, selectQuery, id); err != nil {
			return err
		}
		before := hotel
		if err := fn(&hotel); err != nil {
			return err
		}
		if before.IsActive == hotel.IsActive && before.ApprovalRequested == hotel.ApprovalRequested {
			return nil
		}
		return tx.GetContext(ctx, &hotel.UpdatedAt, updateQuery, hotel.ID, hotel.IsActive, hotel.ApprovalRequested)
	})
	if err != nil {
		return nil, err
	}
	return &hotel, nil
}

func (r *HotelRepository) ListPendingApproval(ctx context.Context) ([]domain.PendingApproval, error) {
	const query = `
        SELECT h.id, h.name, h.country, h.city, COALESCE(u.email, '') AS owner_email, h.created_at
        FROM hotels h
        LEFT JOIN hotel_accounts ha ON ha.hotel_id = h.id
        LEFT JOIN user_account u ON u.id = ha.user_id
        WHERE h.is_active = false AND h.approval_requested = true
        ORDER BY h.created_at DESC
    `
	pending := []domain.PendingApproval{}
	if err := r.db.SelectContext(ctx, &pending, query); err != nil {
		return nil, err
	}
	return pending, nil
}

type HotelAccountRepository struct {
	db *sqlx.DB
}

func NewHotelAccountRepo(db *sqlx.DB) *HotelAccountRepository {
	return &HotelAccountRepository{db: db}
}

func (r *HotelAccountRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.HotelAccount, error) {
	const query = `SELECT id, user_id, hotel_id FROM hotel_accounts WHERE user_id = $1`
	var account domain.HotelAccount
	if err := r.db.GetContext(ctx, &account, query, userID); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *HotelAccountRepository) FindOwnerEmail(ctx context.Context, hotelID int64) (string, error) {
	const query = `
        SELECT u.email
        FROM hotel_accounts ha
        JOIN user_account u ON u.id = ha.user_id
        WHERE ha.hotel_id = $1
    `
	var email string
	if err := r.db.GetContext(ctx, &email, query, hotelID); err != nil {
		return "", err
	}
	return email, nil
}
