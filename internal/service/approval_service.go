package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/events"
	"github.com/njprem/rs1500_BackEnd/internal/metrics"
	"github.com/njprem/rs1500_BackEnd/internal/repository/ports"
	"github.com/njprem/rs1500_BackEnd/internal/transport/mail"
	"github.com/njprem/rs1500_BackEnd/internal/util"
)

type ApprovalAction string

const (
	ActionApprove ApprovalAction = "approve"
	ActionReject  ApprovalAction = "reject"
)

func (a ApprovalAction) Valid() bool {
	return a == ActionApprove || a == ActionReject
}

const (
	msgApprovalSubmitted = "Approval request submitted."
	msgHotelApproved     = "Hotel has been approved and is now visible on the platform."
	msgHotelRejected     = "Hotel approval request has been rejected."
	msgAlreadyApproved   = "Hotel is already approved and visible on the platform."
)

var (
	ErrHotelAlreadyApproved  = detail(ErrValidation, msgAlreadyApproved)
	ErrApprovalNotPermitted  = detail(ErrForbidden, "You do not have permission to request hotel approval")
	ErrInvalidApprovalAction = detail(ErrValidation, "Invalid action. Use 'approve' or 'reject'.")
)

// linkErrors holds the link failure messages for each action.
var linkErrors = map[ApprovalAction]struct{ expired, invalid error }{
	ActionApprove: {
		expired: detail(ErrValidation, "Approval link has expired."),
		invalid: detail(ErrValidation, "Invalid approval link."),
	},
	ActionReject: {
		expired: detail(ErrValidation, "Rejection link has expired."),
		invalid: detail(ErrValidation, "Invalid rejection link."),
	},
}

type ApprovalConfig struct {
	PublicBaseURL string
	OwnerEmail    string
}

// ApprovalOutcome reports how an approve or reject call ended. Changed is
// false for the idempotent already-approved reply.
type ApprovalOutcome struct {
	Detail  string
	Hotel   *domain.Hotel
	Changed bool
}

// ApprovalService runs the partner-to-platform-owner approval workflow:
// partners request approval once their profile is complete, the owner
// approves or rejects through signed links or the admin JSON action.
type ApprovalService struct {
	hotels    ports.HotelRepository
	images    ports.HotelImageRepository
	rooms     ports.RoomTypeRepository
	policies  ports.HotelPolicyRepository
	signer    *util.ApprovalSigner
	mailer    mail.Mailer
	publisher events.Publisher
	logger    *zap.Logger

	baseURL    string
	ownerEmail string
	now        func() time.Time
}

func NewApprovalService(
	hotels ports.HotelRepository,
	images ports.HotelImageRepository,
	rooms ports.RoomTypeRepository,
	policies ports.HotelPolicyRepository,
	signer *util.ApprovalSigner,
	mailer mail.Mailer,
	publisher events.Publisher,
	logger *zap.Logger,
	cfg ApprovalConfig,
) *ApprovalService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApprovalService{
		hotels:     hotels,
		images:     images,
		rooms:      rooms,
		policies:   policies,
		signer:     signer,
		mailer:     mailer,
		publisher:  publisher,
		logger:     logger.Named("approval"),
		baseURL:    strings.TrimRight(cfg.PublicBaseURL, "/"),
		ownerEmail: strings.TrimSpace(cfg.OwnerEmail),
		now:        time.Now,
	}
}

// MissingSections evaluates the completeness checklist for hotel.
func (s *ApprovalService) MissingSections(ctx context.Context, hotel *domain.Hotel) ([]string, error) {
	p, err := s.Completeness(ctx, hotel.ID)
	if err != nil {
		return nil, err
	}
	return domain.MissingSections(hotel, p), nil
}

// Completeness loads the checklist counts for hotelID concurrently.
func (s *ApprovalService) Completeness(ctx context.Context, hotelID int64) (domain.ProfileCompleteness, error) {
	var p domain.ProfileCompleteness
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		p.ImageCount, err = s.images.CountByHotel(gctx, hotelID)
		return err
	})
	g.Go(func() (err error) {
		p.RoomCount, err = s.rooms.CountByHotel(gctx, hotelID)
		return err
	})
	g.Go(func() (err error) {
		p.AmenityCount, err = s.hotels.CountAmenities(gctx, hotelID)
		return err
	})
	g.Go(func() error {
		policy, err := s.policies.FindByHotel(gctx, hotelID)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		p.Policy = policy
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.ProfileCompleteness{}, err
	}
	return p, nil
}

// RequestApproval submits the caller's own hotel for review.
func (s *ApprovalService) RequestApproval(ctx context.Context, principal *domain.Principal) (string, error) {
	if !principal.IsPartner() {
		return "", ErrApprovalNotPermitted
	}
	return s.RequestApprovalFor(ctx, *principal.HotelID)
}

// RequestApprovalFor flags hotelID as awaiting approval once its profile is
// complete. The owner is notified only by the call that sets the flag.
func (s *ApprovalService) RequestApprovalFor(ctx context.Context, hotelID int64) (string, error) {
	hotel, err := s.hotels.FindByID(ctx, hotelID)
	if err != nil {
		if isNotFound(err) {
			return "", ErrHotelNotFound
		}
		return "", err
	}
	if hotel.IsActive {
		return "", ErrHotelAlreadyActive
	}
	missing, err := s.MissingSections(ctx, hotel)
	if err != nil {
		return "", err
	}
	if len(missing) > 0 {
		return "", &IncompleteError{Missing: missing}
	}

	marked, err := s.hotels.MarkApprovalRequested(ctx, hotel.ID)
	if err != nil {
		return "", err
	}
	if marked {
		hotel.ApprovalRequested = true
		metrics.ApprovalTransitions.WithLabelValues("requested").Inc()
		s.notifyOwner(ctx, hotel)
		s.publish(ctx, events.SubjectHotelApprovalRequested, hotel)
	}
	return msgApprovalSubmitted, nil
}

// ResolveLink applies a one-click approve or reject link. Opening a link for
// a hotel that is already live is a no-op reported as success.
func (s *ApprovalService) ResolveLink(ctx context.Context, principal *domain.Principal, action ApprovalAction, token string) (*ApprovalOutcome, error) {
	if !principal.IsAdmin() {
		return nil, ErrAdminOnly
	}
	msgs, ok := linkErrors[action]
	if !ok {
		return nil, ErrInvalidApprovalAction
	}
	hotelID, err := s.signer.Verify(token)
	switch {
	case errors.Is(err, util.ErrApprovalLinkExpired):
		return nil, msgs.expired
	case err != nil:
		return nil, msgs.invalid
	}
	return s.resolve(ctx, hotelID, action, true)
}

// ApplyAction is the admin JSON counterpart of ResolveLink; acting on an
// already approved hotel is an error here.
func (s *ApprovalService) ApplyAction(ctx context.Context, principal *domain.Principal, hotelID int64, action ApprovalAction) (*ApprovalOutcome, error) {
	if !principal.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if !action.Valid() {
		return nil, ErrInvalidApprovalAction
	}
	return s.resolve(ctx, hotelID, action, false)
}

func (s *ApprovalService) resolve(ctx context.Context, hotelID int64, action ApprovalAction, activeIsNoop bool) (*ApprovalOutcome, error) {
	outcome := &ApprovalOutcome{}
	hotel, err := s.hotels.ResolveApproval(ctx, hotelID, func(h *domain.Hotel) error {
		if !h.ApprovalRequested {
			return ErrApprovalNotRequested
		}
		if h.IsActive {
			if activeIsNoop {
				outcome.Detail = msgAlreadyApproved
				return nil
			}
			return ErrHotelAlreadyApproved
		}
		outcome.Changed = true
		if action == ActionApprove {
			h.IsActive = true
			outcome.Detail = msgHotelApproved
		} else {
			h.ApprovalRequested = false
			outcome.Detail = msgHotelRejected
		}
		return nil
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	outcome.Hotel = hotel

	if outcome.Changed {
		subject, label := events.SubjectHotelApproved, "approved"
		if action == ActionReject {
			subject, label = events.SubjectHotelRejected, "rejected"
		}
		metrics.ApprovalTransitions.WithLabelValues(label).Inc()
		s.logger.Info("hotel approval resolved", zap.Int64("hotel_id", hotel.ID), zap.String("result", label))
		s.publish(ctx, subject, hotel)
	}
	return outcome, nil
}

// ListPending returns hotels awaiting review, newest first, each with
// freshly signed approve and reject links.
func (s *ApprovalService) ListPending(ctx context.Context, principal *domain.Principal) ([]domain.PendingApproval, error) {
	if !principal.IsAdmin() {
		return nil, ErrAdminOnly
	}
	pending, err := s.hotels.ListPendingApproval(ctx)
	if err != nil {
		return nil, err
	}
	for i := range pending {
		approveURL, rejectURL, err := s.Links(pending[i].ID)
		if err != nil {
			return nil, err
		}
		pending[i].ApproveURL = approveURL
		pending[i].RejectURL = rejectURL
	}
	return pending, nil
}

// GetPending returns one hotel from the pending list.
func (s *ApprovalService) GetPending(ctx context.Context, principal *domain.Principal, hotelID int64) (*domain.PendingApproval, error) {
	pending, err := s.ListPending(ctx, principal)
	if err != nil {
		return nil, err
	}
	for i := range pending {
		if pending[i].ID == hotelID {
			return &pending[i], nil
		}
	}
	return nil, ErrHotelNotFound
}

// Links signs hotelID and returns the absolute approve and reject URLs.
func (s *ApprovalService) Links(hotelID int64) (approveURL, rejectURL string, err error) {
	token, err := s.signer.Sign(hotelID)
	if err != nil {
		return "", "", err
	}
	escaped := url.PathEscape(token)
	return s.baseURL + "/api/hotel-partner/approve/" + escaped + "/",
		s.baseURL + "/api/hotel-partner/reject/" + escaped + "/", nil
}

// notifyOwner mails the platform owner. Failures are logged and dropped so
// the request itself still succeeds.
func (s *ApprovalService) notifyOwner(ctx context.Context, hotel *domain.Hotel) {
	if s.ownerEmail == "" {
		s.logger.Warn("approval owner email not configured; skipping notification", zap.Int64("hotel_id", hotel.ID))
		return
	}
	approveURL, rejectURL, err := s.Links(hotel.ID)
	if err != nil {
		s.logger.Error("sign approval links", zap.Int64("hotel_id", hotel.ID), zap.Error(err))
		return
	}
	msg, err := mail.ApprovalRequestMessage(s.ownerEmail, mail.ApprovalRequest{
		HotelName:  hotel.Name,
		Country:    hotel.Country,
		City:       hotel.City,
		Address:    hotel.Address,
		ApproveURL: approveURL,
		RejectURL:  rejectURL,
		LinkTTL:    s.signer.TTL(),
	})
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		metrics.MailDeliveries.WithLabelValues("approval", "failed").Inc()
		s.logger.Error("send approval email", zap.Int64("hotel_id", hotel.ID), zap.Error(err))
		return
	}
	metrics.MailDeliveries.WithLabelValues("approval", "sent").Inc()
}

func (s *ApprovalService) publish(ctx context.Context, subject string, hotel *domain.Hotel) {
	err := s.publisher.Publish(ctx, subject, events.HotelEvent{
		HotelID:    hotel.ID,
		Name:       hotel.Name,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn("publish hotel event", zap.String("subject", subject), zap.Error(err))
	}
}
