package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
)

const partnerRequestColumns = `id, full_name, email, phone, hotel_name, country, city, message, status, created_at`

type PartnerRequestRepository struct {
	db *sqlx.DB
}

func NewPartnerRequestRepo(db *sqlx.DB) *PartnerRequestRepository {
	return &PartnerRequestRepository{db: db}
}

func (r *PartnerRequestRepository) List(ctx context.Context) ([]domain.PartnerRequest, error) {
	requests := []domain.PartnerRequest{}
	query := `SELECT ` + partnerRequestColumns + ` FROM partner_requests ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &requests, query); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *PartnerRequestRepository) FindByID(ctx context.Context, id int64) (*domain.PartnerRequest, error) {
	var request domain.PartnerRequest
	query := `SELECT ` + partnerRequestColumns + ` FROM partner_requests WHERE id = $1`
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *PartnerRequestRepository) Create(ctx context.Context, request *domain.PartnerRequest) (*domain.PartnerRequest, error) {
	query := `
        INSERT INTO partner_requests (full_name, email, phone, hotel_name, country, city, message, status)
        VALUES (:full_name, :email, :phone, :hotel_name, :country, :city, :message, :status)
        RETURNING ` + partnerRequestColumns
	rows, err := r.db.NamedQueryContext(ctx, query, request)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stored domain.PartnerRequest
	if err := scanOne(rows, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *PartnerRequestRepository) UpdateStatus(ctx context.Context, id int64, status domain.PartnerRequestStatus) (*domain.PartnerRequest, error) {
	query := `UPDATE partner_requests SET status = $2 WHERE id = $1 RETURNING ` + partnerRequestColumns
	var stored domain.PartnerRequest
	if err := r.db.QueryRowxContext(ctx, query, id, status).StructScan(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *PartnerRequestRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, `DELETE FROM partner_requests WHERE id = $1`, id)
}
