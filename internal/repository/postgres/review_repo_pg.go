package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
)

const reviewColumns = `id, hotel_id, user_id, rating, title, comment, created_at, updated_at`

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepo(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) List(ctx context.Context, scope domain.ListScope) ([]domain.Review, error) {
	where, args := scopeClause(scope, "rv.hotel_id", "h.is_active = true", nil)
	query := `
        SELECT rv.id, rv.hotel_id, rv.user_id, rv.rating, rv.title, rv.comment, rv.created_at, rv.updated_at
        FROM reviews rv
        JOIN hotels h ON h.id = rv.hotel_id
        WHERE 1 = 1` + where + `
        ORDER BY rv.created_at DESC`
	reviews := []domain.Review{}
	if err := r.db.SelectContext(ctx, &reviews, query, args...); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id int64) (*domain.Review, error) {
	var review domain.Review
	if err := r.db.GetContext(ctx, &review, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	query := `
        INSERT INTO reviews (hotel_id, user_id, rating, title, comment)
        VALUES (:hotel_id, :user_id, :rating, :title, :comment)
        RETURNING ` + reviewColumns
	rows, err := r.db.NamedQueryContext(ctx, query, review)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stored domain.Review
	if err := scanOne(rows, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	query := `
        UPDATE reviews
        SET rating = $2, title = $3, comment = $4, updated_at = NOW()
        WHERE id = $1
        RETURNING ` + reviewColumns
	var stored domain.Review
	if err := r.db.QueryRowxContext(ctx, query, review.ID, review.Rating, review.Title, review.Comment).StructScan(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, `DELETE FROM reviews WHERE id = $1`, id)
}
