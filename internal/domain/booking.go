package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return true
	}
	return false
}

type Booking struct {
	ID         int64           `db:"id" json:"id"`
	UserID     uuid.UUID       `db:"user_id" json:"user"`
	HotelID    int64           `db:"hotel_id" json:"hotel"`
	RoomTypeID int64           `db:"room_type_id" json:"room_type"`
	CheckIn    Date            `db:"check_in" json:"check_in"`
	CheckOut   Date            `db:"check_out" json:"check_out"`
	Adults     int             `db:"adults" json:"adults"`
	Children   int             `db:"children" json:"children"`
	RoomsCount int             `db:"rooms_count" json:"rooms_count"`
	TotalPrice decimal.Decimal `db:"total_price" json:"total_price"`
	Status     BookingStatus   `db:"status" json:"status"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

type Reservation struct {
	ID                  int64           `db:"id" json:"id"`
	HotelID             int64           `db:"hotel_id" json:"hotel"`
	HotelName           string          `db:"hotel_name" json:"hotel_name"`
	RoomTypeID          int64           `db:"room_type_id" json:"room_type"`
	RoomTypeName        string          `db:"room_type_name" json:"room_type_name"`
	GuestName           string          `db:"guest_name" json:"guest_name"`
	GuestEmail          string          `db:"guest_email" json:"guest_email"`
	GuestPhone          string          `db:"guest_phone" json:"guest_phone"`
	GuestAddress        string          `db:"guest_address" json:"guest_address"`
	CheckIn             Date            `db:"check_in" json:"check_in"`
	CheckOut            Date            `db:"check_out" json:"check_out"`
	Adults              int             `db:"adults" json:"adults"`
	Children            int             `db:"children" json:"children"`
	RoomsCount          int             `db:"rooms_count" json:"rooms_count"`
	TotalPrice          decimal.Decimal `db:"total_price" json:"total_price"`
	Currency            string          `db:"currency" json:"currency"`
	SpecialRequests     string          `db:"special_requests" json:"special_requests"`
	WhatsappMessageSent bool            `db:"whatsapp_message_sent" json:"whatsapp_message_sent"`
	Status              BookingStatus   `db:"status" json:"status"`
	CreatedAt           time.Time       `db:"created_at" json:"created_at"`
}

var (
	ErrStayDates     = errors.New("check_out must be after check_in")
	ErrStayRooms     = errors.New("rooms_count must be >= 1")
	ErrStayRoomHotel = errors.New("room_type does not belong to this hotel")
)

// Stay is the common shape of bookings and reservations.
type Stay struct {
	HotelID    int64
	CheckIn    Date
	CheckOut   Date
	RoomsCount int
}

// Quote validates a stay against its room type and prices it as
// price_per_night * nights * rooms_count.
func Quote(stay Stay, room *RoomType) (decimal.Decimal, error) {
	if stay.CheckIn.IsZero() || stay.CheckOut.IsZero() || !stay.CheckOut.After(stay.CheckIn.Time) {
		return decimal.Zero, ErrStayDates
	}
	if room == nil || room.HotelID != stay.HotelID {
		return decimal.Zero, ErrStayRoomHotel
	}
	if stay.RoomsCount <= 0 {
		return decimal.Zero, ErrStayRooms
	}
	nights := stay.CheckIn.DaysUntil(stay.CheckOut)
	return room.PricePerNight.Mul(decimal.NewFromInt(int64(nights))).Mul(decimal.NewFromInt(int64(stay.RoomsCount))), nil
}
