package domain

import "github.com/shopspring/decimal"

const DefaultCurrency = "NPR"

type RoomType struct {
	ID            int64           `db:"id" json:"id"`
	HotelID       int64           `db:"hotel_id" json:"hotel"`
	Name          string          `db:"name" json:"name"`
	Description   string          `db:"description" json:"description"`
	MaxAdults     int             `db:"max_adults" json:"max_adults"`
	MaxChildren   int             `db:"max_children" json:"max_children"`
	MaxGuests     int             `db:"max_guests" json:"max_guests"`
	PricePerNight decimal.Decimal `db:"price_per_night" json:"price_per_night"`
	Currency      string          `db:"currency" json:"currency"`
	TotalRooms    int             `db:"total_rooms" json:"total_rooms"`
	IsActive      bool            `db:"is_active" json:"is_active"`
}

type RoomTypeWithImages struct {
	RoomType
	RoomImages []RoomImage `json:"room_images"`
}

type RoomImage struct {
	ID         int64  `db:"id" json:"id"`
	RoomTypeID int64  `db:"room_type_id" json:"room_type"`
	ImageURL   string `db:"image_url" json:"image_url"`
	IsPrimary  bool   `db:"is_primary" json:"is_primary"`
	Caption    string `db:"caption" json:"caption"`
	SortOrder  int    `db:"sort_order" json:"sort_order"`

	// HotelID is joined from the room type for ownership checks.
	HotelID int64 `db:"hotel_id" json:"-"`
}
