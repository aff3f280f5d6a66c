package domain

import "github.com/google/uuid"

type Role string

const (
	RoleGuest   Role = "user"
	RolePartner Role = "partner"
	RoleAdmin   Role = "admin"
)

// Principal is the authenticated caller, resolved once per request.
// HotelID is set whenever the user owns a hotel, including staff owners.
type Principal struct {
	User    *User
	Role    Role
	HotelID *int64
}

func NewPrincipal(user *User, hotelID *int64) *Principal {
	p := &Principal{User: user, Role: RoleGuest, HotelID: hotelID}
	switch {
	case user != nil && user.IsStaff:
		p.Role = RoleAdmin
	case hotelID != nil:
		p.Role = RolePartner
	}
	return p
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

func (p *Principal) IsPartner() bool {
	return p != nil && p.HotelID != nil
}

// OwnsHotel reports whether the caller's linked hotel is hotelID.
func (p *Principal) OwnsHotel(hotelID int64) bool {
	return p.IsPartner() && *p.HotelID == hotelID
}

func (p *Principal) UserID() uuid.UUID {
	if p == nil || p.User == nil {
		return uuid.Nil
	}
	return p.User.ID
}

// PublicRole is the role label returned to clients: partner or user.
func (p *Principal) PublicRole() Role {
	if p.IsPartner() {
		return RolePartner
	}
	return RoleGuest
}
