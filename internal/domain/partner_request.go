package domain

import "time"

type PartnerRequestStatus string

const (
	PartnerRequestNew       PartnerRequestStatus = "new"
	PartnerRequestContacted PartnerRequestStatus = "contacted"
	PartnerRequestApproved  PartnerRequestStatus = "approved"
	PartnerRequestRejected  PartnerRequestStatus = "rejected"
)

func (s PartnerRequestStatus) Valid() bool {
	switch s {
	case PartnerRequestNew, PartnerRequestContacted, PartnerRequestApproved, PartnerRequestRejected:
		return true
	}
	return false
}

// PartnerRequest is a lead submitted from the "list your property" form.
type PartnerRequest struct {
	ID        int64                `db:"id" json:"id"`
	FullName  string               `db:"full_name" json:"full_name"`
	Email     string               `db:"email" json:"email"`
	Phone     string               `db:"phone" json:"phone"`
	HotelName string               `db:"hotel_name" json:"hotel_name"`
	Country   string               `db:"country" json:"country"`
	City      string               `db:"city" json:"city"`
	Message   string               `db:"message" json:"message"`
	Status    PartnerRequestStatus `db:"status" json:"status"`
	CreatedAt time.Time            `db:"created_at" json:"created_at"`
}
