package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
)

type FacilityRepository struct {
	db *sqlx.DB
}

func NewFacilityRepo(db *sqlx.DB) *FacilityRepository {
	return &FacilityRepository{db: db}
}

func (r *FacilityRepository) List(ctx context.Context) ([]domain.HotelFacility, error) {
	facilities := []domain.HotelFacility{}
	const query = `SELECT id, name, category, icon_class FROM hotel_facilities ORDER BY category, name`
	if err := r.db.SelectContext(ctx, &facilities, query); err != nil {
		return nil, err
	}
	return facilities, nil
}

func (r *FacilityRepository) FindByID(ctx context.Context, id int64) (*domain.HotelFacility, error) {
	var facility domain.HotelFacility
	const query = `SELECT id, name, category, icon_class FROM hotel_facilities WHERE id = $1`
	if err := r.db.GetContext(ctx, &facility, query, id); err != nil {
		return nil, err
	}
	return &facility, nil
}

func (r *FacilityRepository) Create(ctx context.Context, facility *domain.HotelFacility) (*domain.HotelFacility, error) {
	const query = `
        INSERT INTO hotel_facilities (name, category, icon_class)
        VALUES ($1, $2, $3)
        RETURNING id, name, category, icon_class
    `
	var stored domain.HotelFacility
	if err := r.db.QueryRowxContext(ctx, query, facility.Name, facility.Category, facility.IconClass).StructScan(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *FacilityRepository) Update(ctx context.Context, facility *domain.HotelFacility) (*domain.HotelFacility, error) {
	const query = `
        UPDATE hotel_facilities SET name = $2, category = $3, icon_class = $4
        WHERE id = $1
        RETURNING id, name, category, icon_class
    `
	var stored domain.HotelFacility
	if err := r.db.QueryRowxContext(ctx, query, facility.ID, facility.Name, facility.Category, facility.IconClass).StructScan(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *FacilityRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, `DELETE FROM hotel_facilities WHERE id = $1`, id)
}

const facilityMappingSelect = `
        SELECT m.id, m.hotel_id, m.facility_id, m.description, m.is_available,
               f.id AS "facility.id", f.name AS "facility.name",
               f.category AS "facility.category", f.icon_class AS "facility.icon_class"
        FROM hotel_facility_mappings m
        JOIN hotel_facilities f ON f.id = m.facility_id
        JOIN hotels h ON h.id = m.hotel_id`

type FacilityMappingRepository struct {
	db *sqlx.DB
}

func NewFacilityMappingRepo(db *sqlx.DB) *FacilityMappingRepository {
	return &FacilityMappingRepository{db: db}
}

func (r *FacilityMappingRepository) List(ctx context.Context, scope domain.ListScope) ([]domain.HotelFacilityMapping, error) {
	where, args := scopeClause(scope, "m.hotel_id", "h.is_active = true", nil)
	mappings := []domain.HotelFacilityMapping{}
	query := facilityMappingSelect + ` WHERE 1 = 1` + where + ` ORDER BY m.hotel_id, f.category, f.name`
	if err := r.db.SelectContext(ctx, &mappings, query, args...); err != nil {
		return nil, err
	}
	return mappings, nil
}

func (r *FacilityMappingRepository) FindByID(ctx context.Context, id int64) (*domain.HotelFacilityMapping, error) {
	var mapping domain.HotelFacilityMapping
	if err := r.db.GetContext(ctx, &mapping, facilityMappingSelect+` WHERE m.id = $1`, id); err != nil {
		return nil, err
	}
	return &mapping, nil
}

func (r *FacilityMappingRepository) Create(ctx context.Context, mapping *domain.HotelFacilityMapping) (*domain.HotelFacilityMapping, error) {
	const query = `
        INSERT INTO hotel_facility_mappings (hotel_id, facility_id, description, is_available)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	var id int64
	if err := r.db.GetContext(ctx, &id, query, mapping.HotelID, mapping.FacilityID, mapping.Description, mapping.IsAvailable); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *FacilityMappingRepository) Update(ctx context.Context, mapping *domain.HotelFacilityMapping) (*domain.HotelFacilityMapping, error) {
	const query = `
        UPDATE hotel_facility_mappings
        SET hotel_id = $2, facility_id = $3, description = $4, is_available = $5
        WHERE id = $1
    `
	if err := execOne(ctx, r.db, query, mapping.ID, mapping.HotelID, mapping.FacilityID, mapping.Description, mapping.IsAvailable); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, mapping.ID)
}

func (r *FacilityMappingRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, `DELETE FROM hotel_facility_mappings WHERE id = $1`, id)
}
