package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PlaceType string

const (
	PlaceTypeHotel      PlaceType = "hotel"
	PlaceTypeResort     PlaceType = "resort"
	PlaceTypeLodge      PlaceType = "lodge"
	PlaceTypeApartment  PlaceType = "apartment"
	PlaceTypeGuestHouse PlaceType = "guest_house"
	PlaceTypeHomeStay   PlaceType = "home_stay"
	PlaceTypeCampsite   PlaceType = "campsite"
	PlaceTypeVilla      PlaceType = "villa"
)

func (p PlaceType) Valid() bool {
	switch p {
	case PlaceTypeHotel, PlaceTypeResort, PlaceTypeLodge, PlaceTypeApartment,
		PlaceTypeGuestHouse, PlaceTypeHomeStay, PlaceTypeCampsite, PlaceTypeVilla:
		return true
	}
	return false
}

type Hotel struct {
	ID                int64               `db:"id" json:"id"`
	Name              string              `db:"name" json:"name"`
	Description       string              `db:"description" json:"description"`
	PlaceType         PlaceType           `db:"place_type" json:"place_type"`
	Country           string              `db:"country" json:"country"`
	City              string              `db:"city" json:"city"`
	Address           string              `db:"address" json:"address"`
	GoogleMapsURL     string              `db:"google_maps_url" json:"google_maps_url"`
	Rating            decimal.NullDecimal `db:"rating" json:"rating"`
	IsActive          bool                `db:"is_active" json:"is_active"`
	ApprovalRequested bool                `db:"approval_requested" json:"approval_requested"`
	CreatedAt         time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time           `db:"updated_at" json:"updated_at"`

	AmenityIDs []int64 `db:"-" json:"-"`
}

// HotelAccount links exactly one user to exactly one hotel.
type HotelAccount struct {
	ID      int64     `db:"id" json:"id"`
	UserID  uuid.UUID `db:"user_id" json:"user_id"`
	HotelID int64     `db:"hotel_id" json:"hotel_id"`
}

type HotelFilter struct {
	City      string
	PlaceType PlaceType
	// OnlyActive restricts results to approved hotels.
	OnlyActive bool
	Limit      int
	Offset     int
}

type HotelUpdate struct {
	Name          *string
	Description   *string
	PlaceType     *PlaceType
	Country       *string
	City          *string
	Address       *string
	GoogleMapsURL *string
	Rating        *decimal.Decimal
	AmenityIDs    *[]int64
}

type Amenity struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Icon string `db:"icon" json:"icon"`
}

type HotelImage struct {
	ID        int64  `db:"id" json:"id"`
	HotelID   int64  `db:"hotel_id" json:"hotel"`
	ImageURL  string `db:"image_url" json:"image_url"`
	ObjectKey string `db:"object_key" json:"-"`
	IsCover   bool   `db:"is_cover" json:"is_cover"`
	SortOrder int    `db:"sort_order" json:"sort_order"`
}

type HotelPolicy struct {
	ID                 int64  `db:"id" json:"id"`
	HotelID            int64  `db:"hotel_id" json:"hotel"`
	CheckInTime        string `db:"check_in_time" json:"check_in_time"`
	CheckOutTime       string `db:"check_out_time" json:"check_out_time"`
	CancellationPolicy string `db:"cancellation_policy" json:"cancellation_policy"`
	PaymentPolicy      string `db:"payment_policy" json:"payment_policy"`
	ChildPolicy        string `db:"child_policy" json:"child_policy"`
	PetPolicy          string `db:"pet_policy" json:"pet_policy"`
	AdditionalInfo     string `db:"additional_info" json:"additional_info"`
}

const (
	DefaultCheckInTime  = "14:00"
	DefaultCheckOutTime = "12:00"
)

// HotelDetail is the hotel with every profile section loaded.
type HotelDetail struct {
	Hotel
	Amenities        []Amenity              `json:"amenities"`
	Images           []HotelImage           `json:"images"`
	RoomTypes        []RoomTypeWithImages   `json:"room_types"`
	Reviews          []Review               `json:"reviews"`
	Policy           *HotelPolicy           `json:"policies"`
	FacilityMappings []HotelFacilityMapping `json:"facility_mappings"`
}

// Profile sections a hotel must complete before it may request approval.
const (
	SectionDetails   = "Hotel Details"
	SectionImages    = "Images"
	SectionRooms     = "Rooms"
	SectionAmenities = "Amenities"
	SectionPolicies  = "Policies"
)

// ProfileCompleteness is the raw input to the approval checklist.
type ProfileCompleteness struct {
	ImageCount   int
	RoomCount    int
	AmenityCount int
	Policy       *HotelPolicy
}

// MissingSections lists incomplete profile sections in checklist order.
func MissingSections(h *Hotel, p ProfileCompleteness) []string {
	missing := make([]string, 0, 5)
	if blank(h.Name) || blank(h.City) || blank(h.Address) {
		missing = append(missing, SectionDetails)
	}
	if p.ImageCount == 0 {
		missing = append(missing, SectionImages)
	}
	if p.RoomCount == 0 {
		missing = append(missing, SectionRooms)
	}
	if p.AmenityCount == 0 {
		missing = append(missing, SectionAmenities)
	}
	if p.Policy == nil || blank(p.Policy.CancellationPolicy) || blank(p.Policy.PaymentPolicy) {
		missing = append(missing, SectionPolicies)
	}
	return missing
}

// PendingApproval is a hotel waiting for the platform owner.
type PendingApproval struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Country    string    `db:"country" json:"country"`
	City       string    `db:"city" json:"city"`
	OwnerEmail string    `db:"owner_email" json:"owner_email"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	ApproveURL string    `db:"-" json:"approve_url"`
	RejectURL  string    `db:"-" json:"reject_url"`
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
