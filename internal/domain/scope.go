package domain

// ListScope narrows catalogue listings to what a caller may see.
type ListScope struct {
	HotelID    *int64
	PublicOnly bool
}

// ScopeFor resolves the listing scope for the caller and an optional
// ?hotel= filter. Admins see everything; partners see their own hotel,
// drafts included; everyone else sees active hotels only.
func ScopeFor(p *Principal, requested *int64) ListScope {
	if p.IsAdmin() {
		return ListScope{HotelID: requested}
	}
	if p.IsPartner() && (requested == nil || *requested == *p.HotelID) {
		own := *p.HotelID
		return ListScope{HotelID: &own}
	}
	return ListScope{HotelID: requested, PublicOnly: true}
}
