package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
)

func TestHotelVisibility(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	owner, draft := env.partner("draft@lodge.test")
	_, live := env.partner("live@lodge.test")
	env.store.hotels[live.ID].IsActive = true
	guest := env.guest()

	t.Run("list hides drafts from guests", func(t *testing.T) {
		hotels, err := env.hotels.List(ctx, guest, domain.HotelFilter{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(hotels) != 1 || hotels[0].ID != live.ID {
			t.Fatalf("expected only the live hotel, got %+v", hotels)
		}
	})

	t.Run("partner lists live hotels and retrieves own draft", func(t *testing.T) {
		hotels, err := env.hotels.List(ctx, owner, domain.HotelFilter{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(hotels) != 1 || hotels[0].ID != live.ID {
			t.Fatalf("expected only the live hotel in the listing, got %+v", hotels)
		}
		if _, err := env.hotels.Get(ctx, owner, draft.ID); err != nil {
			t.Fatalf("owner get draft: %v", err)
		}
		if _, err := env.hotels.Me(ctx, owner); err != nil {
			t.Fatalf("me: %v", err)
		}
	})

	t.Run("admin lists drafts", func(t *testing.T) {
		hotels, err := env.hotels.List(ctx, env.admin(), domain.HotelFilter{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(hotels) != 2 {
			t.Fatalf("expected draft plus live hotel, got %d", len(hotels))
		}
	})

	t.Run("admin sees everything", func(t *testing.T) {
		if _, err := env.hotels.Get(ctx, env.admin(), draft.ID); err != nil {
			t.Fatalf("admin get draft: %v", err)
		}
	})

	t.Run("draft is not found for guests", func(t *testing.T) {
		if _, err := env.hotels.Get(ctx, guest, draft.ID); !errors.Is(err, ErrHotelNotFound) {
			t.Fatalf("expected ErrHotelNotFound, got %v", err)
		}
	})

	t.Run("me without a hotel", func(t *testing.T) {
		if _, err := env.hotels.Me(ctx, guest); !errors.Is(err, ErrNoLinkedHotel) {
			t.Fatalf("expected ErrNoLinkedHotel, got %v", err)
		}
	})
}

func TestHotelCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("user creates linked draft", func(t *testing.T) {
		env := newTestEnv()
		guest := env.guest()
		res, err := env.hotels.Create(ctx, guest, HotelInput{HotelUpdate: domain.HotelUpdate{Name: strPtr("Sunrise Inn"), City: strPtr("Nagarkot")}})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if !res.Created || res.Hotel.IsActive {
			t.Fatalf("unexpected result %+v", res)
		}
		if _, err := (memoryAccountRepo{env.store}).FindByUserID(ctx, guest.User.ID); err != nil {
			t.Fatalf("expected hotel account link: %v", err)
		}
		if _, err := env.hotels.Create(ctx, guest, HotelInput{HotelUpdate: domain.HotelUpdate{Name: strPtr("Second")}}); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected second hotel to be rejected, got %v", err)
		}
	})

	t.Run("incomplete activation rolls back", func(t *testing.T) {
		env := newTestEnv()
		guest := env.guest()
		_, err := env.hotels.Create(ctx, guest, HotelInput{
			HotelUpdate: domain.HotelUpdate{Name: strPtr("Sunrise Inn")},
			IsActive:    boolPtr(true),
		})
		var incomplete *IncompleteError
		if !errors.As(err, &incomplete) {
			t.Fatalf("expected IncompleteError, got %v", err)
		}
		if len(env.store.hotels) != 0 || len(env.store.accounts) != 0 {
			t.Fatalf("expected hotel and link to be removed")
		}
	})

	t.Run("admin cannot activate directly", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.hotels.Create(ctx, env.admin(), HotelInput{
			HotelUpdate: domain.HotelUpdate{Name: strPtr("Staff Hotel")},
			IsActive:    boolPtr(true),
		})
		if !errors.Is(err, ErrActivationViaApproval) {
			t.Fatalf("expected ErrActivationViaApproval, got %v", err)
		}
	})

	t.Run("partner create updates own hotel", func(t *testing.T) {
		env := newTestEnv()
		partner, hotel := env.partner("owner@lodge.test")
		res, err := env.hotels.Create(ctx, partner, HotelInput{HotelUpdate: domain.HotelUpdate{Name: strPtr("Renamed Lodge")}})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if res.Created || res.Hotel.ID != hotel.ID || res.Hotel.Name != "Renamed Lodge" {
			t.Fatalf("unexpected result %+v", res)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		env := newTestEnv()
		if _, err := env.hotels.Create(ctx, nil, HotelInput{}); !errors.Is(err, ErrAuthenticationNeeded) {
			t.Fatalf("expected ErrAuthenticationNeeded, got %v", err)
		}
	})
}

func TestHotelUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("validation", func(t *testing.T) {
		env := newTestEnv()
		partner, hotel := env.partner("owner@lodge.test")
		bad := decimal.NewFromInt(6)
		if _, err := env.hotels.Update(ctx, partner, hotel.ID, HotelInput{HotelUpdate: domain.HotelUpdate{Rating: &bad}}); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected rating validation error, got %v", err)
		}
		pt := domain.PlaceType("castle")
		if _, err := env.hotels.Update(ctx, partner, hotel.ID, HotelInput{HotelUpdate: domain.HotelUpdate{PlaceType: &pt}}); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected place type validation error, got %v", err)
		}
	})

	t.Run("other partner denied", func(t *testing.T) {
		env := newTestEnv()
		_, hotel := env.partner("owner@lodge.test")
		intruder, _ := env.partner("other@lodge.test")
		if _, err := env.hotels.Update(ctx, intruder, hotel.ID, HotelInput{}); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected forbidden, got %v", err)
		}
		if err := env.hotels.Delete(ctx, intruder, hotel.ID); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected forbidden delete, got %v", err)
		}
	})

	t.Run("is_active requests approval", func(t *testing.T) {
		env := newTestEnv()
		partner, hotel := env.partner("owner@lodge.test")
		env.completeProfile(hotel.ID)
		out, err := env.hotels.UpdateMe(ctx, partner, HotelInput{IsActive: boolPtr(true)})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if out.IsActive || !out.ApprovalRequested {
			t.Fatalf("expected pending approval, got active=%v requested=%v", out.IsActive, out.ApprovalRequested)
		}
		if env.mailer.count() != 1 {
			t.Fatalf("expected owner notification")
		}
	})

	t.Run("incomplete activation writes nothing", func(t *testing.T) {
		env := newTestEnv()
		partner, hotel := env.partner("owner@lodge.test")
		_, err := env.hotels.Update(ctx, partner, hotel.ID, HotelInput{
			HotelUpdate: domain.HotelUpdate{Name: strPtr("Changed")},
			IsActive:    boolPtr(true),
		})
		var incomplete *IncompleteError
		if !errors.As(err, &incomplete) {
			t.Fatalf("expected IncompleteError, got %v", err)
		}
		stored, _ := memoryHotelRepo{env.store}.FindByID(ctx, hotel.ID)
		if stored.Name != "Himalayan Lodge" {
			t.Fatalf("expected name to be unchanged, got %q", stored.Name)
		}
	})

	t.Run("amenities in the same update count", func(t *testing.T) {
		env := newTestEnv()
		partner, hotel := env.partner("owner@lodge.test")
		env.completeProfile(hotel.ID)
		env.store.hotels[hotel.ID].AmenityIDs = nil
		ids := []int64{1, 2}
		out, err := env.hotels.Update(ctx, partner, hotel.ID, HotelInput{
			HotelUpdate: domain.HotelUpdate{AmenityIDs: &ids},
			IsActive:    boolPtr(true),
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if len(out.Amenities) != 2 || !out.ApprovalRequested {
			t.Fatalf("unexpected detail %+v", out)
		}
	})

	t.Run("admin may not toggle is_active", func(t *testing.T) {
		env := newTestEnv()
		_, hotel := env.partner("owner@lodge.test")
		if _, err := env.hotels.Update(ctx, env.admin(), hotel.ID, HotelInput{IsActive: boolPtr(true)}); !errors.Is(err, ErrActivationViaApproval) {
			t.Fatalf("expected ErrActivationViaApproval, got %v", err)
		}
	})
}

func TestHotelDetailSections(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	partner, hotel := env.partner("owner@lodge.test")
	env.completeProfile(hotel.ID)

	detail, err := env.hotels.Get(ctx, partner, hotel.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(detail.Images) != 1 || len(detail.RoomTypes) != 1 || len(detail.Amenities) != 1 || detail.Policy == nil {
		t.Fatalf("expected every section to be loaded, got %+v", detail)
	}
	if detail.RoomTypes[0].RoomImages == nil {
		t.Fatalf("room images should be an empty list, not nil")
	}
}
