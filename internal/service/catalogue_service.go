package service

import (
	"context"
	"strings"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/repository/ports"
)

var (
	ErrAmenityNotFound         = detail(ErrNotFound, "Amenity not found.")
	ErrFacilityNotFound        = detail(ErrNotFound, "Facility not found.")
	ErrFacilityMappingNotFound = detail(ErrNotFound, "Facility mapping not found.")
)

// AmenityService manages the shared amenity catalogue. Reads are public,
// writes are staff only.
type AmenityService struct {
	amenities ports.AmenityRepository
}

func NewAmenityService(amenities ports.AmenityRepository) *AmenityService {
	return &AmenityService{amenities: amenities}
}

func (s *AmenityService) List(ctx context.Context) ([]domain.Amenity, error) {
	return s.amenities.List(ctx)
}

func (s *AmenityService) Get(ctx context.Context, id int64) (*domain.Amenity, error) {
	a, err := s.amenities.FindByID(ctx, id)
	return a, notFoundAs(err, ErrAmenityNotFound)
}

func (s *AmenityService) Create(ctx context.Context, p *domain.Principal, a domain.Amenity) (*domain.Amenity, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if a.Name = strings.TrimSpace(a.Name); a.Name == "" {
		return nil, detail(ErrValidation, "name: This field is required.")
	}
	created, err := s.amenities.Create(ctx, &a)
	return created, writeErr(err, "amenity with this name already exists.")
}

func (s *AmenityService) Update(ctx context.Context, p *domain.Principal, id int64, apply func(*domain.Amenity) error) (*domain.Amenity, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	current, err := s.amenities.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrAmenityNotFound)
	}
	if err := apply(current); err != nil {
		return nil, err
	}
	current.ID = id
	if current.Name = strings.TrimSpace(current.Name); current.Name == "" {
		return nil, detail(ErrValidation, "name: This field may not be blank.")
	}
	updated, err := s.amenities.Update(ctx, current)
	return updated, notFoundAs(writeErr(err, "amenity with this name already exists."), ErrAmenityNotFound)
}

func (s *AmenityService) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	return notFoundAs(s.amenities.Delete(ctx, id), ErrAmenityNotFound)
}

// FacilityService manages the facility catalogue; same access rules as
// amenities.
type FacilityService struct {
	facilities ports.FacilityRepository
}

func NewFacilityService(facilities ports.FacilityRepository) *FacilityService {
	return &FacilityService{facilities: facilities}
}

func (s *FacilityService) List(ctx context.Context) ([]domain.HotelFacility, error) {
	return s.facilities.List(ctx)
}

func (s *FacilityService) Get(ctx context.Context, id int64) (*domain.HotelFacility, error) {
	f, err := s.facilities.FindByID(ctx, id)
	return f, notFoundAs(err, ErrFacilityNotFound)
}

func (s *FacilityService) Create(ctx context.Context, p *domain.Principal, f domain.HotelFacility) (*domain.HotelFacility, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if err := validateFacility(&f); err != nil {
		return nil, err
	}
	created, err := s.facilities.Create(ctx, &f)
	return created, writeErr(err, "")
}

func (s *FacilityService) Update(ctx context.Context, p *domain.Principal, id int64, apply func(*domain.HotelFacility) error) (*domain.HotelFacility, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	current, err := s.facilities.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrFacilityNotFound)
	}
	if err := apply(current); err != nil {
		return nil, err
	}
	current.ID = id
	if err := validateFacility(current); err != nil {
		return nil, err
	}
	updated, err := s.facilities.Update(ctx, current)
	return updated, notFoundAs(err, ErrFacilityNotFound)
}

func (s *FacilityService) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	return notFoundAs(s.facilities.Delete(ctx, id), ErrFacilityNotFound)
}

func validateFacility(f *domain.HotelFacility) error {
	if f.Name = strings.TrimSpace(f.Name); f.Name == "" {
		return detail(ErrValidation, "name: This field is required.")
	}
	if f.Category == "" {
		f.Category = domain.FacilityGeneral
	}
	if !f.Category.Valid() {
		return detailf(ErrValidation, "category: %q is not a valid choice.", f.Category)
	}
	return nil
}

// FacilityMappingService attaches catalogue facilities to hotels.
type FacilityMappingService struct {
	mappings ports.FacilityMappingRepository
}

func NewFacilityMappingService(mappings ports.FacilityMappingRepository) *FacilityMappingService {
	return &FacilityMappingService{mappings: mappings}
}

func (s *FacilityMappingService) List(ctx context.Context, p *domain.Principal, hotelID *int64) ([]domain.HotelFacilityMapping, error) {
	return s.mappings.List(ctx, domain.ScopeFor(p, hotelID))
}

func (s *FacilityMappingService) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.HotelFacilityMapping, error) {
	m, err := s.mappings.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrFacilityMappingNotFound)
	}
	scope := domain.ScopeFor(p, &m.HotelID)
	if !scope.PublicOnly {
		return m, nil
	}
	visible, err := s.mappings.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	for i := range visible {
		if visible[i].ID == id {
			return &visible[i], nil
		}
	}
	return nil, ErrFacilityMappingNotFound
}

func (s *FacilityMappingService) Create(ctx context.Context, p *domain.Principal, m domain.HotelFacilityMapping) (*domain.HotelFacilityMapping, error) {
	hotelID, err := facilityMappingRules.targetHotel(p, m.HotelID)
	if err != nil {
		return nil, err
	}
	m.HotelID = hotelID
	if m.FacilityID == 0 {
		return nil, detail(ErrValidation, "facility_id: This field is required.")
	}
	created, err := s.mappings.Create(ctx, &m)
	return created, writeErr(err, "The fields hotel, facility must make a unique set.")
}

func (s *FacilityMappingService) Update(ctx context.Context, p *domain.Principal, id int64, apply func(*domain.HotelFacilityMapping) error) (*domain.HotelFacilityMapping, error) {
	current, err := s.mappings.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrFacilityMappingNotFound)
	}
	if !p.IsAdmin() && !p.OwnsHotel(current.HotelID) {
		return nil, detail(ErrForbidden, facilityMappingRules.modify)
	}
	next := *current
	if err := apply(&next); err != nil {
		return nil, err
	}
	next.ID = current.ID
	if err := facilityMappingRules.checkModify(p, current.HotelID, next.HotelID); err != nil {
		return nil, err
	}
	updated, err := s.mappings.Update(ctx, &next)
	if err != nil {
		return nil, notFoundAs(writeErr(err, "The fields hotel, facility must make a unique set."), ErrFacilityMappingNotFound)
	}
	return updated, nil
}

func (s *FacilityMappingService) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	m, err := s.mappings.FindByID(ctx, id)
	if err != nil {
		return notFoundAs(err, ErrFacilityMappingNotFound)
	}
	if err := facilityMappingRules.checkDelete(p, m.HotelID); err != nil {
		return err
	}
	return notFoundAs(s.mappings.Delete(ctx, id), ErrFacilityMappingNotFound)
}
