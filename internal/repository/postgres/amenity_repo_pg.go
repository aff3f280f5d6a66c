package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
)

type AmenityRepository struct {
	db *sqlx.DB
}

func NewAmenityRepo(db *sqlx.DB) *AmenityRepository {
	return &AmenityRepository{db: db}
}

func (r *AmenityRepository) List(ctx context.Context) ([]domain.Amenity, error) {
	amenities := []domain.Amenity{}
	if err := r.db.SelectContext(ctx, &amenities, `SELECT id, name, icon FROM amenities ORDER BY name`); err != nil {
		return nil, err
	}
	return amenities, nil
}

func (r *AmenityRepository) FindByID(ctx context.Context, id int64) (*domain.Amenity, error) {
	var amenity domain.Amenity
	if err := r.db.GetContext(ctx, &amenity, `SELECT id, name, icon FROM amenities WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &amenity, nil
}

func (r *AmenityRepository) Create(ctx context.Context, amenity *domain.Amenity) (*domain.Amenity, error) {
	const query = `INSERT INTO amenities (name, icon) VALUES ($1, $2) RETURNING id, name, icon`
	var stored domain.Amenity
	if err := r.db.QueryRowxContext(ctx, query, amenity.Name, amenity.Icon).StructScan(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *AmenityRepository) Update(ctx context.Context, amenity *domain.Amenity) (*domain.Amenity, error) {
	const query = `UPDATE amenities SET name = $2, icon = $3 WHERE id = $1 RETURNING id, name, icon`
	var stored domain.Amenity
	if err := r.db.QueryRowxContext(ctx, query, amenity.ID, amenity.Name, amenity.Icon).StructScan(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *AmenityRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, `DELETE FROM amenities WHERE id = $1`, id)
}
