package service

import (
	"context"
	"strings"
	"time"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/repository/ports"
)

var ErrPolicyNotFound = detail(ErrNotFound, "Hotel policy not found.")

type PolicyService struct {
	policies ports.HotelPolicyRepository
}

func NewPolicyService(policies ports.HotelPolicyRepository) *PolicyService {
	return &PolicyService{policies: policies}
}

func (s *PolicyService) List(ctx context.Context, p *domain.Principal, hotelID *int64) ([]domain.HotelPolicy, error) {
	return s.policies.List(ctx, domain.ScopeFor(p, hotelID))
}

func (s *PolicyService) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.HotelPolicy, error) {
	policies, err := s.policies.List(ctx, domain.ScopeFor(p, nil))
	if err != nil {
		return nil, err
	}
	for i := range policies {
		if policies[i].ID == id {
			return &policies[i], nil
		}
	}
	return nil, ErrPolicyNotFound
}

// Save creates the policy for a hotel. A partner whose hotel already has a
// policy gets it updated in place; created reports which happened.
func (s *PolicyService) Save(ctx context.Context, p *domain.Principal, hotelID int64, apply func(*domain.HotelPolicy) error) (policy *domain.HotelPolicy, created bool, err error) {
	target, err := policyRules.targetHotel(p, hotelID)
	if err != nil {
		return nil, false, err
	}
	if !p.IsAdmin() {
		existing, err := s.policies.FindByHotel(ctx, target)
		switch {
		case err == nil:
			updated, err := s.Update(ctx, p, existing.ID, apply)
			return updated, false, err
		case !isNotFound(err):
			return nil, false, err
		}
	}

	next := domain.HotelPolicy{
		HotelID:      target,
		CheckInTime:  domain.DefaultCheckInTime,
		CheckOutTime: domain.DefaultCheckOutTime,
	}
	if err := apply(&next); err != nil {
		return nil, false, err
	}
	if next.HotelID != target {
		if _, err := policyRules.targetHotel(p, next.HotelID); err != nil {
			return nil, false, err
		}
	}
	if err := validatePolicy(&next); err != nil {
		return nil, false, err
	}
	policy, err = s.policies.Create(ctx, &next)
	if err != nil {
		return nil, false, writeErr(err, "hotel policy with this hotel already exists.")
	}
	return policy, true, nil
}

func (s *PolicyService) Update(ctx context.Context, p *domain.Principal, id int64, apply func(*domain.HotelPolicy) error) (*domain.HotelPolicy, error) {
	current, err := s.policies.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrPolicyNotFound)
	}
	if !p.IsAdmin() && !p.OwnsHotel(current.HotelID) {
		return nil, detail(ErrForbidden, policyRules.modify)
	}
	next := *current
	if err := apply(&next); err != nil {
		return nil, err
	}
	next.ID = current.ID
	if err := policyRules.checkModify(p, current.HotelID, next.HotelID); err != nil {
		return nil, err
	}
	if err := validatePolicy(&next); err != nil {
		return nil, err
	}
	updated, err := s.policies.Update(ctx, &next)
	if err != nil {
		return nil, notFoundAs(writeErr(err, "hotel policy with this hotel already exists."), ErrPolicyNotFound)
	}
	return updated, nil
}

func (s *PolicyService) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	policy, err := s.policies.FindByID(ctx, id)
	if err != nil {
		return notFoundAs(err, ErrPolicyNotFound)
	}
	if err := policyRules.checkDelete(p, policy.HotelID); err != nil {
		return err
	}
	return notFoundAs(s.policies.Delete(ctx, id), ErrPolicyNotFound)
}

func validatePolicy(p *domain.HotelPolicy) error {
	for _, f := range []struct {
		name  string
		value *string
		def   string
	}{
		{"check_in_time", &p.CheckInTime, domain.DefaultCheckInTime},
		{"check_out_time", &p.CheckOutTime, domain.DefaultCheckOutTime},
	} {
		v := strings.TrimSpace(*f.value)
		if v == "" {
			*f.value = f.def
			continue
		}
		t, err := parseClock(v)
		if err != nil {
			return detailf(ErrValidation, "%s: Time has wrong format. Use one of these formats instead: hh:mm[:ss[.uuuuuu]].", f.name)
		}
		*f.value = t.Format("15:04")
	}
	return nil
}

func parseClock(v string) (time.Time, error) {
	if t, err := time.Parse("15:04", v); err == nil {
		return t, nil
	}
	return time.Parse("15:04:05", v)
}
