package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/repository/ports"
)

var (
	ErrRoomTypeNotFound  = detail(ErrNotFound, "Room type not found.")
	ErrRoomImageNotFound = detail(ErrNotFound, "Room image not found.")
)

type RoomTypeService struct {
	rooms  ports.RoomTypeRepository
	hotels ports.HotelRepository
}

func NewRoomTypeService(rooms ports.RoomTypeRepository, hotels ports.HotelRepository) *RoomTypeService {
	return &RoomTypeService{rooms: rooms, hotels: hotels}
}

// NewRoomType returns a room type carrying the column defaults.
func NewRoomType() domain.RoomType {
	return domain.RoomType{
		MaxAdults:  2,
		MaxGuests:  2,
		Currency:   domain.DefaultCurrency,
		TotalRooms: 1,
		IsActive:   true,
	}
}

func (s *RoomTypeService) List(ctx context.Context, p *domain.Principal, hotelID *int64) ([]domain.RoomType, error) {
	return s.rooms.List(ctx, domain.ScopeFor(p, hotelID))
}

func (s *RoomTypeService) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.RoomType, error) {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrRoomTypeNotFound)
	}
	if p.IsAdmin() || p.OwnsHotel(room.HotelID) {
		return room, nil
	}
	if !room.IsActive {
		return nil, ErrRoomTypeNotFound
	}
	if err := visibleHotel(ctx, s.hotels, room.HotelID, ErrRoomTypeNotFound); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *RoomTypeService) Create(ctx context.Context, p *domain.Principal, room domain.RoomType) (*domain.RoomType, error) {
	hotelID, err := roomTypeRules.targetHotel(p, room.HotelID)
	if err != nil {
		return nil, err
	}
	room.HotelID = hotelID
	if err := validateRoomType(&room); err != nil {
		return nil, err
	}
	created, err := s.rooms.Create(ctx, &room)
	return created, writeErr(err, "The fields hotel, name must make a unique set.")
}

// Update loads the room type, lets apply change it and saves the result.
func (s *RoomTypeService) Update(ctx context.Context, p *domain.Principal, id int64, apply func(*domain.RoomType) error) (*domain.RoomType, error) {
	current, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrRoomTypeNotFound)
	}
	if !p.IsAdmin() && !p.OwnsHotel(current.HotelID) {
		return nil, detail(ErrForbidden, roomTypeRules.modify)
	}
	next := *current
	if err := apply(&next); err != nil {
		return nil, err
	}
	next.ID = current.ID
	if err := roomTypeRules.checkModify(p, current.HotelID, next.HotelID); err != nil {
		return nil, err
	}
	if err := validateRoomType(&next); err != nil {
		return nil, err
	}
	updated, err := s.rooms.Update(ctx, &next)
	if err != nil {
		return nil, notFoundAs(writeErr(err, "The fields hotel, name must make a unique set."), ErrRoomTypeNotFound)
	}
	return updated, nil
}

func (s *RoomTypeService) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		return notFoundAs(err, ErrRoomTypeNotFound)
	}
	if err := roomTypeRules.checkDelete(p, room.HotelID); err != nil {
		return err
	}
	return notFoundAs(s.rooms.Delete(ctx, id), ErrRoomTypeNotFound)
}

func validateRoomType(r *domain.RoomType) error {
	r.Name = strings.TrimSpace(r.Name)
	switch {
	case r.Name == "":
		return detail(ErrValidation, "name: This field is required.")
	case r.MaxAdults < 0 || r.MaxChildren < 0 || r.MaxGuests < 0:
		return detail(ErrValidation, "Guest limits must be zero or greater.")
	case r.TotalRooms < 1:
		return detail(ErrValidation, "total_rooms: Ensure this value is greater than or equal to 1.")
	case r.PricePerNight.LessThan(decimal.Zero):
		return detail(ErrValidation, "price_per_night: Ensure this value is greater than or equal to 0.")
	}
	r.PricePerNight = r.PricePerNight.Round(2)
	if strings.TrimSpace(r.Currency) == "" {
		r.Currency = domain.DefaultCurrency
	}
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	return nil
}

type RoomImageService struct {
	images ports.RoomImageRepository
	rooms  ports.RoomTypeRepository
	hotels ports.HotelRepository
}

func NewRoomImageService(images ports.RoomImageRepository, rooms ports.RoomTypeRepository, hotels ports.HotelRepository) *RoomImageService {
	return &RoomImageService{images: images, rooms: rooms, hotels: hotels}
}

func (s *RoomImageService) List(ctx context.Context, p *domain.Principal, roomTypeID *int64) ([]domain.RoomImage, error) {
	var scope domain.ListScope
	switch {
	case p.IsAdmin():
	case p.IsPartner():
		own := *p.HotelID
		scope.HotelID = &own
	default:
		scope.PublicOnly = true
	}
	return s.images.List(ctx, scope, roomTypeID)
}

func (s *RoomImageService) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.RoomImage, error) {
	img, err := s.images.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrRoomImageNotFound)
	}
	if p.IsAdmin() || p.OwnsHotel(img.HotelID) {
		return img, nil
	}
	room, err := s.rooms.FindByID(ctx, img.RoomTypeID)
	if err != nil {
		return nil, notFoundAs(err, ErrRoomImageNotFound)
	}
	if !room.IsActive {
		return nil, ErrRoomImageNotFound
	}
	if err := visibleHotel(ctx, s.hotels, img.HotelID, ErrRoomImageNotFound); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *RoomImageService) Create(ctx context.Context, p *domain.Principal, img domain.RoomImage) (*domain.RoomImage, error) {
	if !p.IsAdmin() && !p.IsPartner() {
		return nil, detail(ErrForbidden, roomImageRules.create)
	}
	room, err := s.roomFor(ctx, img.RoomTypeID)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && !p.OwnsHotel(room.HotelID) {
		return nil, detail(ErrForbidden, roomImageRules.createOwn)
	}
	if strings.TrimSpace(img.ImageURL) == "" {
		return nil, detail(ErrValidation, "image_url: This field is required.")
	}
	created, err := s.images.Create(ctx, &img)
	return created, writeErr(err, "")
}

func (s *RoomImageService) Update(ctx context.Context, p *domain.Principal, id int64, apply func(*domain.RoomImage) error) (*domain.RoomImage, error) {
	current, err := s.images.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrRoomImageNotFound)
	}
	if !p.IsAdmin() && !p.OwnsHotel(current.HotelID) {
		return nil, detail(ErrForbidden, roomImageRules.modify)
	}
	next := *current
	if err := apply(&next); err != nil {
		return nil, err
	}
	next.ID = current.ID
	target := current.HotelID
	if next.RoomTypeID != current.RoomTypeID {
		room, err := s.roomFor(ctx, next.RoomTypeID)
		if err != nil {
			return nil, err
		}
		target = room.HotelID
	}
	if err := roomImageRules.checkModify(p, current.HotelID, target); err != nil {
		return nil, err
	}
	updated, err := s.images.Update(ctx, &next)
	if err != nil {
		return nil, notFoundAs(writeErr(err, ""), ErrRoomImageNotFound)
	}
	return updated, nil
}

func (s *RoomImageService) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	img, err := s.images.FindByID(ctx, id)
	if err != nil {
		return notFoundAs(err, ErrRoomImageNotFound)
	}
	if err := roomImageRules.checkDelete(p, img.HotelID); err != nil {
		return err
	}
	return notFoundAs(s.images.Delete(ctx, id), ErrRoomImageNotFound)
}

func (s *RoomImageService) roomFor(ctx context.Context, roomTypeID int64) (*domain.RoomType, error) {
	if roomTypeID == 0 {
		return nil, detail(ErrValidation, "room_type: This field is required.")
	}
	room, err := s.rooms.FindByID(ctx, roomTypeID)
	if err != nil {
		return nil, notFoundAs(err, detail(ErrValidation, "room_type: Invalid pk - object does not exist."))
	}
	return room, nil
}
