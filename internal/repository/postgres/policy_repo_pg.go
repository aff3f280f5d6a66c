package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
)

// TIME columns are exchanged as HH:MM text.
const policySelect = `
        SELECT p.id, p.hotel_id,
               to_char(p.check_in_time, 'HH24:MI') AS check_in_time,
               to_char(p.check_out_time, 'HH24:MI') AS check_out_time,
               p.cancellation_policy, p.payment_policy, p.child_policy, p.pet_policy, p.additional_info
        FROM hotel_policies p
        JOIN hotels h ON h.id = p.hotel_id`

type HotelPolicyRepository struct {
	db *sqlx.DB
}

func NewHotelPolicyRepo(db *sqlx.DB) *HotelPolicyRepository {
	return &HotelPolicyRepository{db: db}
}

func (r *HotelPolicyRepository) List(ctx context.Context, scope domain.ListScope) ([]domain.HotelPolicy, error) {
	where, args := scopeClause(scope, "p.hotel_id", "h.is_active = true", nil)
	policies := []domain.HotelPolicy{}
	if err := r.db.SelectContext(ctx, &policies, policySelect+` WHERE 1 = 1`+where+` ORDER BY p.hotel_id`, args...); err != nil {
		return nil, err
	}
	return policies, nil
}

func (r *HotelPolicyRepository) FindByID(ctx context.Context, id int64) (*domain.HotelPolicy, error) {
	var policy domain.HotelPolicy
	if err := r.db.GetContext(ctx, &policy, policySelect+` WHERE p.id = $1`, id); err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *HotelPolicyRepository) FindByHotel(ctx context.Context, hotelID int64) (*domain.HotelPolicy, error) {
	var policy domain.HotelPolicy
	if err := r.db.GetContext(ctx, &policy, policySelect+` WHERE p.hotel_id = $1`, hotelID); err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *HotelPolicyRepository) Create(ctx context.Context, policy *domain.HotelPolicy) (*domain.HotelPolicy, error) {
	const query = `
        INSERT INTO hotel_policies (hotel_id, check_in_time, check_out_time, cancellation_policy, payment_policy, child_policy, pet_policy, additional_info)
        VALUES ($1, $2::time, $3::time, $4, $5, $6, $7, $8)
        RETURNING id
    `
	var id int64
	err := r.db.GetContext(ctx, &id, query,
		policy.HotelID, policy.CheckInTime, policy.CheckOutTime, policy.CancellationPolicy,
		policy.PaymentPolicy, policy.ChildPolicy, policy.PetPolicy, policy.AdditionalInfo,
	)
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *HotelPolicyRepository) Update(ctx context.Context, policy *domain.HotelPolicy) (*domain.HotelPolicy, error) {
	const query = `
        UPDATE hotel_policies
        SET hotel_id = $2, check_in_time = $3::time, check_out_time = $4::time, cancellation_policy = $5,
            payment_policy = $6, child_policy = $7, pet_policy = $8, additional_info = $9
        WHERE id = $1
    `
	err := execOne(ctx, r.db, query,
		policy.ID, policy.HotelID, policy.CheckInTime, policy.CheckOutTime, policy.CancellationPolicy,
		policy.PaymentPolicy, policy.ChildPolicy, policy.PetPolicy, policy.AdditionalInfo,
	)
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, policy.ID)
}

func (r *HotelPolicyRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.db, `DELETE FROM hotel_policies WHERE id = $1`, id)
}
