package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/events"
	"github.com/njprem/rs1500_BackEnd/internal/repository/ports"
)

var ErrPartnerRequestNotFound = detail(ErrNotFound, "Partner request not found.")

// PartnerRequestService collects "list your property" leads. Anyone may
// submit one; only staff can read or triage them.
type PartnerRequestService struct {
	requests  ports.PartnerRequestRepository
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewPartnerRequestService(requests ports.PartnerRequestRepository, publisher events.Publisher, logger *zap.Logger) *PartnerRequestService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PartnerRequestService{
		requests:  requests,
		publisher: publisher,
		logger:    logger.Named("partner_requests"),
		now:       time.Now,
	}
}

func (s *PartnerRequestService) Submit(ctx context.Context, r domain.PartnerRequest) (*domain.PartnerRequest, error) {
	r.FullName = strings.TrimSpace(r.FullName)
	r.HotelName = strings.TrimSpace(r.HotelName)
	r.Email = strings.TrimSpace(r.Email)
	switch {
	case r.FullName == "":
		return nil, detail(ErrValidation, "full_name: This field is required.")
	case r.HotelName == "":
		return nil, detail(ErrValidation, "hotel_name: This field is required.")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return nil, detail(ErrValidation, "email: Enter a valid email address.")
	}
	r.Status = domain.PartnerRequestNew

	created, err := s.requests.Create(ctx, &r)
	if err != nil {
		return nil, err
	}
	err = s.publisher.Publish(ctx, events.SubjectPartnerRequestCreated, events.PartnerRequestEvent{
		RequestID:  created.ID,
		HotelName:  created.HotelName,
		Email:      created.Email,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn("publish partner request event", zap.Int64("request_id", created.ID), zap.Error(err))
	}
	return created, nil
}

func (s *PartnerRequestService) List(ctx context.Context, p *domain.Principal) ([]domain.PartnerRequest, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	return s.requests.List(ctx)
}

func (s *PartnerRequestService) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.PartnerRequest, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	r, err := s.requests.FindByID(ctx, id)
	return r, notFoundAs(err, ErrPartnerRequestNotFound)
}

func (s *PartnerRequestService) UpdateStatus(ctx context.Context, p *domain.Principal, id int64, status domain.PartnerRequestStatus) (*domain.PartnerRequest, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, detailf(ErrValidation, "status: %q is not a valid choice.", status)
	}
	r, err := s.requests.UpdateStatus(ctx, id, status)
	return r, notFoundAs(err, ErrPartnerRequestNotFound)
}

func (s *PartnerRequestService) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	return notFoundAs(s.requests.Delete(ctx, id), ErrPartnerRequestNotFound)
}
