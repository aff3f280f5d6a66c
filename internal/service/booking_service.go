package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/events"
	"github.com/njprem/rs1500_BackEnd/internal/repository/ports"
)

var (
	ErrBookingNotFound     = detail(ErrNotFound, "Booking not found.")
	ErrReservationNotFound = detail(ErrNotFound, "Reservation not found.")
)

// stayRoom loads the room type a stay is for.
func stayRoom(ctx context.Context, rooms ports.RoomTypeRepository, stay domain.Stay, roomTypeID int64) (*domain.RoomType, error) {
	if stay.HotelID == 0 {
		return nil, detail(ErrValidation, "hotel: This field is required.")
	}
	if roomTypeID == 0 {
		return nil, detail(ErrValidation, "room_type: This field is required.")
	}
	room, err := rooms.FindByID(ctx, roomTypeID)
	if err != nil {
		return nil, notFoundAs(err, detail(ErrValidation, "room_type: Invalid pk - object does not exist."))
	}
	return room, nil
}

func stayErr(err error) error {
	switch {
	case errors.Is(err, domain.ErrStayDates), errors.Is(err, domain.ErrStayRooms), errors.Is(err, domain.ErrStayRoomHotel):
		return detail(ErrValidation, err.Error())
	}
	return err
}

type BookingService struct {
	bookings ports.BookingRepository
	rooms    ports.RoomTypeRepository
}

func NewBookingService(bookings ports.BookingRepository, rooms ports.RoomTypeRepository) *BookingService {
	return &BookingService{bookings: bookings, rooms: rooms}
}

// List returns every booking for staff, the hotel's bookings for partners
// and the caller's own bookings otherwise.
func (s *BookingService) List(ctx context.Context, p *domain.Principal) ([]domain.Booking, error) {
	var filter ports.BookingFilter
	switch {
	case p.IsAdmin():
	case p.IsPartner():
		own := *p.HotelID
		filter.HotelID = &own
	default:
		uid := p.UserID()
		filter.UserID = &uid
	}
	return s.bookings.List(ctx, filter)
}

func (s *BookingService) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.Booking, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrBookingNotFound)
	}
	if !s.canSee(p, b) {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

func (s *BookingService) Create(ctx context.Context, p *domain.Principal, b domain.Booking) (*domain.Booking, error) {
	if p == nil || p.User == nil {
		return nil, ErrAuthenticationNeeded
	}
	stay := domain.Stay{HotelID: b.HotelID, CheckIn: b.CheckIn, CheckOut: b.CheckOut, RoomsCount: b.RoomsCount}
	room, err := stayRoom(ctx, s.rooms, stay, b.RoomTypeID)
	if err != nil {
		return nil, err
	}
	total, err := domain.Quote(stay, room)
	if err != nil {
		return nil, stayErr(err)
	}
	b.UserID = p.UserID()
	b.TotalPrice = total
	b.Status = domain.BookingPending
	created, err := s.bookings.Create(ctx, &b)
	return created, writeErr(err, "")
}

// UpdateStatus lets staff and the hotel owner move a booking through its
// lifecycle; the guest may only cancel.
func (s *BookingService) UpdateStatus(ctx context.Context, p *domain.Principal, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	if !status.Valid() {
		return nil, detailf(ErrValidation, "status: %q is not a valid choice.", status)
	}
	b, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	guestCancel := b.UserID == p.UserID() && status == domain.BookingCancelled
	if !p.IsAdmin() && !p.OwnsHotel(b.HotelID) && !guestCancel {
		return nil, detail(ErrForbidden, "You do not have permission to modify this booking")
	}
	updated, err := s.bookings.UpdateStatus(ctx, id, status)
	return updated, notFoundAs(err, ErrBookingNotFound)
}

func (s *BookingService) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	b, err := s.Get(ctx, p, id)
	if err != nil {
		return err
	}
	if !p.IsAdmin() && b.UserID != p.UserID() {
		return detail(ErrForbidden, "You do not have permission to delete this booking")
	}
	return notFoundAs(s.bookings.Delete(ctx, id), ErrBookingNotFound)
}

func (s *BookingService) canSee(p *domain.Principal, b *domain.Booking) bool {
	return p.IsAdmin() || p.OwnsHotel(b.HotelID) || b.UserID == p.UserID()
}

// ReservationService handles the public reservation request form.
type ReservationService struct {
	reservations ports.ReservationRepository
	rooms        ports.RoomTypeRepository
	hotels       ports.HotelRepository
	publisher    events.Publisher
	logger       *zap.Logger
	now          func() time.Time
}

func NewReservationService(
	reservations ports.ReservationRepository,
	rooms ports.RoomTypeRepository,
	hotels ports.HotelRepository,
	publisher events.Publisher,
	logger *zap.Logger,
) *ReservationService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReservationService{
		reservations: reservations,
		rooms:        rooms,
		hotels:       hotels,
		publisher:    publisher,
		logger:       logger.Named("reservations"),
		now:          time.Now,
	}
}

func (s *ReservationService) scope(p *domain.Principal, hotelID *int64) domain.ListScope {
	if p.IsPartner() && !p.IsAdmin() {
		own := *p.HotelID
		return domain.ListScope{HotelID: &own}
	}
	return domain.ScopeFor(p, hotelID)
}

func (s *ReservationService) List(ctx context.Context, p *domain.Principal, hotelID *int64) ([]domain.Reservation, error) {
	return s.reservations.List(ctx, ports.ReservationFilter{Scope: s.scope(p, hotelID)})
}

// Mine returns reservations whose guest email matches the caller.
func (s *ReservationService) Mine(ctx context.Context, p *domain.Principal) ([]domain.Reservation, error) {
	if p == nil || p.User == nil || strings.TrimSpace(p.User.Email) == "" {
		return []domain.Reservation{}, nil
	}
	return s.reservations.List(ctx, ports.ReservationFilter{
		Scope:      s.scope(p, nil),
		GuestEmail: p.User.Email,
	})
}

func (s *ReservationService) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.Reservation, error) {
	r, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrReservationNotFound)
	}
	if p.IsAdmin() || p.OwnsHotel(r.HotelID) {
		return r, nil
	}
	if p.IsPartner() {
		return nil, ErrReservationNotFound
	}
	if err := visibleHotel(ctx, s.hotels, r.HotelID, ErrReservationNotFound); err != nil {
		return nil, err
	}
	return r, nil
}

// Create stores a reservation request. A positive client total is kept;
// otherwise the stay is priced from the room type.
func (s *ReservationService) Create(ctx context.Context, r domain.Reservation) (*domain.Reservation, error) {
	r.GuestName = strings.TrimSpace(r.GuestName)
	r.GuestEmail = strings.TrimSpace(r.GuestEmail)
	if r.GuestName == "" || r.GuestEmail == "" {
		return nil, detail(ErrValidation, "guest_name and guest_email are required.")
	}
	stay := domain.Stay{HotelID: r.HotelID, CheckIn: r.CheckIn, CheckOut: r.CheckOut, RoomsCount: r.RoomsCount}
	room, err := stayRoom(ctx, s.rooms, stay, r.RoomTypeID)
	if err != nil {
		return nil, err
	}
	total, err := domain.Quote(stay, room)
	if err != nil {
		return nil, stayErr(err)
	}
	if !r.TotalPrice.IsPositive() {
		r.TotalPrice = total
	}
	if strings.TrimSpace(r.Currency) == "" {
		r.Currency = room.Currency
	}
	r.Status = domain.BookingPending

	created, err := s.reservations.Create(ctx, &r)
	if err != nil {
		return nil, writeErr(err, "")
	}
	err = s.publisher.Publish(ctx, events.SubjectReservationCreated, events.ReservationEvent{
		ReservationID: created.ID,
		HotelID:       created.HotelID,
		GuestEmail:    created.GuestEmail,
		OccurredAt:    s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn("publish reservation event", zap.Int64("reservation_id", created.ID), zap.Error(err))
	}
	return created, nil
}

func (s *ReservationService) UpdateStatus(ctx context.Context, p *domain.Principal, id int64, status domain.BookingStatus) (*domain.Reservation, error) {
	if !status.Valid() {
		return nil, detailf(ErrValidation, "status: %q is not a valid choice.", status)
	}
	r, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrReservationNotFound)
	}
	if !p.IsAdmin() && !p.OwnsHotel(r.HotelID) {
		return nil, detail(ErrForbidden, "You do not have permission to modify this reservation")
	}
	updated, err := s.reservations.UpdateStatus(ctx, id, status)
	return updated, notFoundAs(err, ErrReservationNotFound)
}

func (s *ReservationService) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	r, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return notFoundAs(err, ErrReservationNotFound)
	}
	if !p.IsAdmin() && !p.OwnsHotel(r.HotelID) {
		return detail(ErrForbidden, "You do not have permission to delete this reservation")
	}
	return notFoundAs(s.reservations.Delete(ctx, id), ErrReservationNotFound)
}
