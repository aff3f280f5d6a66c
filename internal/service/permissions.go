package service

import (
	"context"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/repository/ports"
)

// hotelWriteRules holds the denial messages for one kind of hotel-owned
// record. Staff may write anything; partners only their own hotel's rows.
type hotelWriteRules struct {
	create    string
	createOwn string
	modify    string
	assign    string
	remove    string
}

var (
	roomTypeRules = hotelWriteRules{
		create:    "You do not have permission to create room types",
		createOwn: "You can only create room types for your own hotel",
		modify:    "You do not have permission to modify this room type",
		assign:    "You can only assign room types to your own hotel",
		remove:    "You do not have permission to delete this room type",
	}
	hotelImageRules = hotelWriteRules{
		create:    "You do not have permission to create hotel images",
		createOwn: "You can only add images for your own hotel",
		modify:    "You do not have permission to modify this hotel image",
		assign:    "You can only assign images to your own hotel",
		remove:    "You do not have permission to delete this hotel image",
	}
	roomImageRules = hotelWriteRules{
		create:    "You do not have permission to create room images",
		createOwn: "You can only add images for your own hotel's room types",
		modify:    "You do not have permission to modify this room image",
		assign:    "You can only assign images to your own hotel's room types",
		remove:    "You do not have permission to delete this room image",
	}
	policyRules = hotelWriteRules{
		create:    "You do not have permission to create hotel policies",
		createOwn: "You can only create policies for your own hotel",
		modify:    "You do not have permission to modify this hotel policy",
		assign:    "You can only assign policies to your own hotel",
		remove:    "You do not have permission to delete this hotel policy",
	}
	facilityMappingRules = hotelWriteRules{
		create:    "You do not have permission to create facility mappings",
		createOwn: "You can only create facility mappings for your own hotel",
		modify:    "You do not have permission to modify this facility mapping",
		assign:    "You can only assign facility mappings to your own hotel",
		remove:    "You do not have permission to delete this facility mapping",
	}
)

// targetHotel fills in the partner's own hotel when none was given and
// checks the caller may create rows for the result.
func (r hotelWriteRules) targetHotel(p *domain.Principal, requested int64) (int64, error) {
	if p.IsAdmin() {
		if requested == 0 {
			return 0, detail(ErrValidation, "hotel: This field is required.")
		}
		return requested, nil
	}
	if !p.IsPartner() {
		return 0, detail(ErrForbidden, r.create)
	}
	if requested == 0 {
		return *p.HotelID, nil
	}
	if !p.OwnsHotel(requested) {
		return 0, detail(ErrForbidden, r.createOwn)
	}
	return requested, nil
}

func (r hotelWriteRules) checkModify(p *domain.Principal, current, target int64) error {
	if p.IsAdmin() {
		return nil
	}
	if !p.OwnsHotel(current) {
		return detail(ErrForbidden, r.modify)
	}
	if target != current && !p.OwnsHotel(target) {
		return detail(ErrForbidden, r.assign)
	}
	return nil
}

func (r hotelWriteRules) checkDelete(p *domain.Principal, hotelID int64) error {
	if p.IsAdmin() || p.OwnsHotel(hotelID) {
		return nil
	}
	return detail(ErrForbidden, r.remove)
}

func requireAdmin(p *domain.Principal) error {
	if p.IsAdmin() {
		return nil
	}
	return detail(ErrForbidden, "You do not have permission to perform this action.")
}

func notFoundAs(err, replacement error) error {
	if isNotFound(err) {
		return replacement
	}
	return err
}

// writeErr maps constraint violations raised while saving a hotel-owned row.
func writeErr(err error, uniqueMsg string) error {
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err) && uniqueMsg != "":
		return detail(ErrValidation, uniqueMsg)
	case isForeignKeyViolation(err):
		return detail(ErrValidation, "Invalid pk - object does not exist.")
	}
	return err
}

// visibleHotel reports notFound unless hotelID is live on the platform.
func visibleHotel(ctx context.Context, hotels ports.HotelRepository, hotelID int64, notFound error) error {
	hotel, err := hotels.FindByID(ctx, hotelID)
	if err != nil {
		return notFoundAs(err, notFound)
	}
	if !hotel.IsActive {
		return notFound
	}
	return nil
}
