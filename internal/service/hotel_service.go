package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/repository/ports"
)

var (
	ErrNoLinkedHotel        = detail(ErrForbidden, "You do not have a hotel linked to this account")
	ErrHotelModifyDenied    = detail(ErrForbidden, "You do not have permission to modify this hotel")
	ErrHotelDeleteDenied    = detail(ErrForbidden, "You do not have permission to delete this hotel")
	ErrAuthenticationNeeded = detail(ErrUnauthorized, "Authentication credentials were not provided.")
)

// HotelInput is a partial hotel write. IsActive set to true by a partner
// means "request approval"; nobody can activate a hotel directly.
type HotelInput struct {
	domain.HotelUpdate
	IsActive *bool
}

// HotelWriteResult is the saved hotel plus whether it was newly created.
type HotelWriteResult struct {
	Hotel   *domain.HotelDetail
	Created bool
}

type HotelService struct {
	hotels     ports.HotelRepository
	images     ports.HotelImageRepository
	rooms      ports.RoomTypeRepository
	roomImages ports.RoomImageRepository
	reviews    ports.ReviewRepository
	policies   ports.HotelPolicyRepository
	mappings   ports.FacilityMappingRepository
	approvals  *ApprovalService
	logger     *zap.Logger
}

func NewHotelService(
	hotels ports.HotelRepository,
	images ports.HotelImageRepository,
	rooms ports.RoomTypeRepository,
	roomImages ports.RoomImageRepository,
	reviews ports.ReviewRepository,
	policies ports.HotelPolicyRepository,
	mappings ports.FacilityMappingRepository,
	approvals *ApprovalService,
	logger *zap.Logger,
) *HotelService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HotelService{
		hotels:     hotels,
		images:     images,
		rooms:      rooms,
		roomImages: roomImages,
		reviews:    reviews,
		policies:   policies,
		mappings:   mappings,
		approvals:  approvals,
		logger:     logger.Named("hotels"),
	}
}

// List returns active hotels; admins also see drafts. Partners reach their
// own draft through Get and Me.
func (s *HotelService) List(ctx context.Context, principal *domain.Principal, filter domain.HotelFilter) ([]domain.Hotel, error) {
	filter.OnlyActive = !principal.IsAdmin()
	return s.hotels.List(ctx, filter)
}

// Get loads a hotel with every profile section. Inactive hotels are hidden
// from everyone except their owner and admins.
func (s *HotelService) Get(ctx context.Context, principal *domain.Principal, id int64) (*domain.HotelDetail, error) {
	hotel, err := s.hotels.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	if !hotel.IsActive && !principal.IsAdmin() && !principal.OwnsHotel(id) {
		return nil, ErrHotelNotFound
	}
	return s.detail(ctx, principal, hotel)
}

// Me returns the caller's linked hotel.
func (s *HotelService) Me(ctx context.Context, principal *domain.Principal) (*domain.HotelDetail, error) {
	if !principal.IsPartner() {
		return nil, ErrNoLinkedHotel
	}
	return s.Get(ctx, principal, *principal.HotelID)
}

func (s *HotelService) detail(ctx context.Context, principal *domain.Principal, hotel *domain.Hotel) (*domain.HotelDetail, error) {
	id := hotel.ID
	out := &domain.HotelDetail{Hotel: *hotel}
	roomScope := domain.ListScope{HotelID: &id, PublicOnly: !principal.IsAdmin() && !principal.OwnsHotel(id)}
	var rooms []domain.RoomType

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Amenities, err = s.hotels.ListAmenities(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		out.Images, err = s.images.List(gctx, domain.ListScope{HotelID: &id})
		return err
	})
	g.Go(func() (err error) {
		rooms, err = s.rooms.List(gctx, roomScope)
		return err
	})
	g.Go(func() (err error) {
		out.Reviews, err = s.reviews.List(gctx, domain.ListScope{HotelID: &id})
		return err
	})
	g.Go(func() error {
		policy, err := s.policies.FindByHotel(gctx, id)
		if err != nil && !isNotFound(err) {
			return err
		}
		out.Policy = policy
		return nil
	})
	g.Go(func() (err error) {
		out.FacilityMappings, err = s.mappings.List(gctx, domain.ListScope{HotelID: &id})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.RoomTypes = make([]domain.RoomTypeWithImages, 0, len(rooms))
	if len(rooms) == 0 {
		return out, nil
	}
	roomIDs := make([]int64, 0, len(rooms))
	for _, r := range rooms {
		roomIDs = append(roomIDs, r.ID)
	}
	images, err := s.roomImages.ListByRoomTypes(ctx, roomIDs)
	if err != nil {
		return nil, err
	}
	byRoom := make(map[int64][]domain.RoomImage, len(rooms))
	for _, img := range images {
		byRoom[img.RoomTypeID] = append(byRoom[img.RoomTypeID], img)
	}
	for _, r := range rooms {
		imgs := byRoom[r.ID]
		if imgs == nil {
			imgs = []domain.RoomImage{}
		}
		out.RoomTypes = append(out.RoomTypes, domain.RoomTypeWithImages{RoomType: r, RoomImages: imgs})
	}
	return out, nil
}

// Create registers a hotel. Staff create unlinked hotels; a user without a
// hotel creates one linked to their account; a partner who already has a
// hotel updates it instead.
func (s *HotelService) Create(ctx context.Context, principal *domain.Principal, in HotelInput) (*HotelWriteResult, error) {
	if principal == nil || principal.User == nil {
		return nil, ErrAuthenticationNeeded
	}
	if principal.IsPartner() && !principal.IsAdmin() {
		hotel, err := s.Update(ctx, principal, *principal.HotelID, in)
		if err != nil {
			return nil, err
		}
		return &HotelWriteResult{Hotel: hotel}, nil
	}

	hotel := &domain.Hotel{PlaceType: domain.PlaceTypeHotel}
	if err := applyHotelUpdate(hotel, in.HotelUpdate); err != nil {
		return nil, err
	}
	if strings.TrimSpace(hotel.Name) == "" {
		return nil, detail(ErrValidation, "name: This field is required.")
	}

	if principal.IsAdmin() {
		if in.IsActive != nil && *in.IsActive {
			return nil, ErrActivationViaApproval
		}
		created, err := s.hotels.Create(ctx, hotel)
		if err != nil {
			return nil, err
		}
		out, err := s.detail(ctx, principal, created)
		if err != nil {
			return nil, err
		}
		return &HotelWriteResult{Hotel: out, Created: true}, nil
	}

	created, err := s.hotels.CreateWithOwner(ctx, hotel, principal.UserID())
	if err != nil {
		if isUniqueViolation(err) {
			return nil, detail(ErrValidation, "This account already has a hotel.")
		}
		return nil, err
	}
	if in.IsActive != nil && *in.IsActive {
		if _, err := s.approvals.RequestApprovalFor(ctx, created.ID); err != nil {
			// The hotel and its link only exist because of this request.
			if delErr := s.hotels.Delete(ctx, created.ID); delErr != nil {
				s.logger.Error("remove hotel after failed approval request", zap.Int64("hotel_id", created.ID), zap.Error(delErr))
			}
			return nil, err
		}
		created.ApprovalRequested = true
	}
	ownerID := created.ID
	owner := domain.NewPrincipal(principal.User, &ownerID)
	out, err := s.detail(ctx, owner, created)
	if err != nil {
		return nil, err
	}
	return &HotelWriteResult{Hotel: out, Created: true}, nil
}

// Update applies a partial update. Owners may pass is_active=true to request
// approval; staff may edit any hotel but never change is_active.
func (s *HotelService) Update(ctx context.Context, principal *domain.Principal, id int64, in HotelInput) (*domain.HotelDetail, error) {
	if !principal.IsAdmin() && !principal.OwnsHotel(id) {
		return nil, ErrHotelModifyDenied
	}
	hotel, err := s.hotels.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}

	wantsApproval := false
	if in.IsActive != nil {
		if principal.IsAdmin() {
			if *in.IsActive != hotel.IsActive {
				return nil, ErrActivationViaApproval
			}
		} else {
			wantsApproval = *in.IsActive
		}
	}

	if err := applyHotelUpdate(hotel, in.HotelUpdate); err != nil {
		return nil, err
	}
	if wantsApproval {
		if err := s.checkApprovable(ctx, hotel); err != nil {
			return nil, err
		}
	}

	updated, err := s.hotels.Update(ctx, hotel)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrHotelNotFound
		}
		if isForeignKeyViolation(err) {
			return nil, detail(ErrValidation, "amenities: Invalid pk - object does not exist.")
		}
		return nil, err
	}
	if wantsApproval {
		if _, err := s.approvals.RequestApprovalFor(ctx, id); err != nil {
			return nil, err
		}
		updated.ApprovalRequested = true
	}
	return s.detail(ctx, principal, updated)
}

// UpdateMe updates the caller's linked hotel.
func (s *HotelService) UpdateMe(ctx context.Context, principal *domain.Principal, in HotelInput) (*domain.HotelDetail, error) {
	if !principal.IsPartner() {
		return nil, ErrNoLinkedHotel
	}
	return s.Update(ctx, principal, *principal.HotelID, in)
}

func (s *HotelService) Delete(ctx context.Context, principal *domain.Principal, id int64) error {
	if !principal.IsAdmin() && !principal.OwnsHotel(id) {
		return ErrHotelDeleteDenied
	}
	if err := s.hotels.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrHotelNotFound
		}
		return err
	}
	return nil
}

// checkApprovable runs the approval preconditions against the pending,
// unsaved state of hotel so a rejected request leaves nothing written.
func (s *HotelService) checkApprovable(ctx context.Context, hotel *domain.Hotel) error {
	if hotel.IsActive {
		return ErrHotelAlreadyActive
	}
	p, err := s.approvals.Completeness(ctx, hotel.ID)
	if err != nil {
		return err
	}
	if hotel.AmenityIDs != nil {
		p.AmenityCount = len(hotel.AmenityIDs)
	}
	if missing := domain.MissingSections(hotel, p); len(missing) > 0 {
		return &IncompleteError{Missing: missing}
	}
	return nil
}

func applyHotelUpdate(h *domain.Hotel, u domain.HotelUpdate) error {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return detail(ErrValidation, "name: This field may not be blank.")
		}
		h.Name = name
	}
	if u.Description != nil {
		h.Description = *u.Description
	}
	if u.PlaceType != nil {
		if !u.PlaceType.Valid() {
			return detailf(ErrValidation, "place_type: %q is not a valid choice.", *u.PlaceType)
		}
		h.PlaceType = *u.PlaceType
	}
	if u.Country != nil {
		h.Country = strings.TrimSpace(*u.Country)
	}
	if u.City != nil {
		h.City = strings.TrimSpace(*u.City)
	}
	if u.Address != nil {
		h.Address = strings.TrimSpace(*u.Address)
	}
	if u.GoogleMapsURL != nil {
		h.GoogleMapsURL = strings.TrimSpace(*u.GoogleMapsURL)
	}
	if u.Rating != nil {
		if u.Rating.LessThan(decimal.Zero) || u.Rating.GreaterThan(decimal.NewFromInt(5)) {
			return detail(ErrValidation, "rating: Ensure this value is between 0 and 5.")
		}
		h.Rating = decimal.NewNullDecimal(u.Rating.Round(2))
	}
	if u.AmenityIDs != nil {
		ids := append([]int64{}, (*u.AmenityIDs)...)
		h.AmenityIDs = ids
	} else {
		h.AmenityIDs = nil
	}
	return nil
}
