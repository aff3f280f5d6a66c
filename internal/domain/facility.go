package domain

type FacilityCategory string

const (
	FacilityGeneral   FacilityCategory = "general"
	FacilityFood      FacilityCategory = "food"
	FacilityWellness  FacilityCategory = "wellness"
	FacilityBusiness  FacilityCategory = "business"
	FacilityTransport FacilityCategory = "transport"
	FacilitySafety    FacilityCategory = "safety"
)

func (c FacilityCategory) Valid() bool {
	switch c {
	case FacilityGeneral, FacilityFood, FacilityWellness, FacilityBusiness, FacilityTransport, FacilitySafety:
		return true
	}
	return false
}

type HotelFacility struct {
	ID        int64            `db:"id" json:"id"`
	Name      string           `db:"name" json:"name"`
	Category  FacilityCategory `db:"category" json:"category"`
	IconClass string           `db:"icon_class" json:"icon_class"`
}

type HotelFacilityMapping struct {
	ID          int64         `db:"id" json:"id"`
	HotelID     int64         `db:"hotel_id" json:"hotel"`
	FacilityID  int64         `db:"facility_id" json:"facility_id"`
	Description string        `db:"description" json:"description"`
	IsAvailable bool          `db:"is_available" json:"is_available"`
	Facility    HotelFacility `db:"facility" json:"facility"`
}
