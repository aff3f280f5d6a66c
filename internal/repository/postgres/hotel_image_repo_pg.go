package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
)

const hotelImageColumns = `id, hotel_id, image_url, object_key, is_cover, sort_order`

type HotelImageRepository struct {
	db *sqlx.DB
}

func NewHotelImageRepo(db *sqlx.DB) *HotelImageRepository {
	return &HotelImageRepository{db: db}
}

func (r *HotelImageRepository) List(ctx context.Context, scope domain.ListScope) ([]domain.HotelImage, error) {
	where, args := scopeClause(scope, "i.hotel_id", "h.is_active = true", nil)
	query := `
        SELECT i.id, i.hotel_id, i.image_url, i.object_key, i.is_cover, i.sort_order
        FROM hotel_images i
        JOIN hotels h ON h.id = i.hotel_id
        WHERE 1 = 1` + where + `
        ORDER BY i.hotel_id, i.sort_order, i.id`
	images := []domain.HotelImage{}
	if err := r.db.SelectContext(ctx, &images, query, args...); err != nil {
		return nil, err
	}
	return images, nil
}

func (r *HotelImageRepository) FindByID(ctx context.Context, id int64) (*domain.HotelImage, error) {
	var image domain.HotelImage
	if err := r.db.GetContext(ctx, &image, `SELECT `+hotelImageColumns+` FROM hotel_images WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *HotelImageRepository) Create(ctx context.Context, image *domain.HotelImage) (*domain.HotelImage, error) {
	query := `
        INSERT INTO hotel_images (hotel_id, image_url, object_key, is_cover, sort_order)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + hotelImageColumns
	var stored domain.HotelImage
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if image.IsCover {
			if err := clearCover(ctx, tx, image.HotelID, 0); err != nil {
				return err
			}
		}
		return tx.QueryRowxContext(ctx, query,
			image.HotelID, image.ImageURL, image.ObjectKey, image.IsCover, image.SortOrder,
		).StructScan(&stored)
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *HotelImageRepository) Update(ctx context.Context, image *domain.HotelImage) (*domain.HotelImage, error) {
	query := `
        UPDATE hotel_images
        SET hotel_id = $2, image_url = $3, object_key = $4, is_cover = $5, sort_order = $6
        WHERE id = $1
        RETURNING ` + hotelImageColumns
	var stored domain.HotelImage
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if image.IsCover {
			if err := clearCover(ctx, tx, image.HotelID, image.ID); err != nil {
				return err
			}
		}
		return tx.QueryRowxContext(ctx, query,
			image.ID, image.HotelID, image.ImageURL, image.ObjectKey, image.IsCover, image.SortOrder,
		).StructScan(&stored)
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func clearCover(ctx context.Context, tx *sqlx.Tx, hotelID, keepID int64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE hotel_images SET is_cover = false WHERE hotel_id = $1 AND id <> $2 AND is_cover`,
		hotelID, keepID)
	return err
}

func (r *HotelImageRepository) DeleteMany(ctx context.Context, ids []int64, hotelID *int64) ([]domain.HotelImage, error) {
	query := `DELETE FROM hotel_images WHERE id = ANY($1::bigint[])`
	args := []any{pq.Array(ids)}
	if hotelID != nil {
		query += ` AND hotel_id = $2`
		args = append(args, *hotelID)
	}
	query += ` RETURNING ` + hotelImageColumns
	deleted := []domain.HotelImage{}
	if err := r.db.SelectContext(ctx, &deleted, query, args...); err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *HotelImageRepository) CountByHotel(ctx context.Context, hotelID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM hotel_images WHERE hotel_id = $1`, hotelID)
	return count, err
}
