package service

import (
	"context"
	"strings"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/repository/ports"
)

var (
	ErrReviewNotFound     = detail(ErrNotFound, "Review not found.")
	ErrReviewAlreadyExist = detail(ErrConflict, "You have already reviewed this hotel.")
	ErrReviewEditDenied   = detail(ErrForbidden, "You can only edit your own review")
	ErrReviewDeleteDenied = detail(ErrForbidden, "You can only delete your own review")
)

type ReviewService struct {
	reviews ports.ReviewRepository
	hotels  ports.HotelRepository
}

func NewReviewService(reviews ports.ReviewRepository, hotels ports.HotelRepository) *ReviewService {
	return &ReviewService{reviews: reviews, hotels: hotels}
}

func (s *ReviewService) List(ctx context.Context, p *domain.Principal, hotelID *int64) ([]domain.Review, error) {
	return s.reviews.List(ctx, domain.ScopeFor(p, hotelID))
}

func (s *ReviewService) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.Review, error) {
	r, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrReviewNotFound)
	}
	if p.IsAdmin() || p.OwnsHotel(r.HotelID) || r.UserID == p.UserID() {
		return r, nil
	}
	if err := visibleHotel(ctx, s.hotels, r.HotelID, ErrReviewNotFound); err != nil {
		return nil, err
	}
	return r, nil
}

// Create records the caller's review. Each user reviews a hotel at most once.
func (s *ReviewService) Create(ctx context.Context, p *domain.Principal, r domain.Review) (*domain.Review, error) {
	if p == nil || p.User == nil {
		return nil, ErrAuthenticationNeeded
	}
	if r.HotelID == 0 {
		return nil, detail(ErrValidation, "hotel: This field is required.")
	}
	if err := validateReview(&r); err != nil {
		return nil, err
	}
	if !p.IsAdmin() && !p.OwnsHotel(r.HotelID) {
		if err := visibleHotel(ctx, s.hotels, r.HotelID, detail(ErrValidation, "hotel: Invalid pk - object does not exist.")); err != nil {
			return nil, err
		}
	}
	r.UserID = p.UserID()
	created, err := s.reviews.Create(ctx, &r)
	if isUniqueViolation(err) {
		return nil, ErrReviewAlreadyExist
	}
	return created, writeErr(err, "")
}

func (s *ReviewService) Update(ctx context.Context, p *domain.Principal, id int64, apply func(*domain.Review) error) (*domain.Review, error) {
	current, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrReviewNotFound)
	}
	if !p.IsAdmin() && current.UserID != p.UserID() {
		return nil, ErrReviewEditDenied
	}
	next := *current
	if err := apply(&next); err != nil {
		return nil, err
	}
	next.ID, next.UserID, next.HotelID = current.ID, current.UserID, current.HotelID
	if err := validateReview(&next); err != nil {
		return nil, err
	}
	updated, err := s.reviews.Update(ctx, &next)
	return updated, notFoundAs(err, ErrReviewNotFound)
}

func (s *ReviewService) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	current, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return notFoundAs(err, ErrReviewNotFound)
	}
	if !p.IsAdmin() && current.UserID != p.UserID() {
		return ErrReviewDeleteDenied
	}
	return notFoundAs(s.reviews.Delete(ctx, id), ErrReviewNotFound)
}

func validateReview(r *domain.Review) error {
	if r.Rating < 1 || r.Rating > 5 {
		return detail(ErrValidation, "rating: Ensure this value is between 1 and 5.")
	}
	r.Title = strings.TrimSpace(r.Title)
	r.Comment = strings.TrimSpace(r.Comment)
	return nil
}
