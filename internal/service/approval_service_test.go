package service

import (
	"context"
	"errors"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/events"
	"github.com/njprem/rs1500_BackEnd/internal/util"
)

// tokenFrom extracts the signed token from an approve or reject URL.
func tokenFrom(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link %q: %v", link, err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	token, err := url.PathUnescape(parts[len(parts)-1])
	if err != nil {
		t.Fatalf("unescape token: %v", err)
	}
	return token
}

func TestRequestApprovalChecklist(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	partner, _ := env.partner("owner@lodge.test")

	_, err := env.approvals.RequestApproval(ctx, partner)
	var incomplete *IncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteError, got %v", err)
	}
	want := []string{domain.SectionDetails, domain.SectionImages, domain.SectionRooms, domain.SectionAmenities, domain.SectionPolicies}
	if !reflect.DeepEqual(incomplete.Missing, want) {
		t.Fatalf("missing sections = %v, want %v", incomplete.Missing, want)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("incomplete profile should be a validation error")
	}
	if env.mailer.count() != 0 {
		t.Fatalf("no mail expected for an incomplete profile")
	}
}

func TestRequestApprovalSingleGap(t *testing.T) {
	cases := []struct {
		name  string
		gap   func(s *memoryHotelStore, hotelID int64)
		wants string
	}{
		{"blank address", func(s *memoryHotelStore, id int64) { s.hotels[id].Address = "  " }, domain.SectionDetails},
		{"no image", func(s *memoryHotelStore, _ int64) { s.images = map[int64]*domain.HotelImage{} }, domain.SectionImages},
		{"no room", func(s *memoryHotelStore, _ int64) { s.rooms = map[int64]*domain.RoomType{} }, domain.SectionRooms},
		{"no amenity", func(s *memoryHotelStore, id int64) { s.hotels[id].AmenityIDs = nil }, domain.SectionAmenities},
		{"no policy", func(s *memoryHotelStore, _ int64) { s.policies = map[int64]*domain.HotelPolicy{} }, domain.SectionPolicies},
		{"blank payment policy", func(s *memoryHotelStore, _ int64) {
			for _, p := range s.policies {
				p.PaymentPolicy = " "
			}
		}, domain.SectionPolicies},
		{"blank cancellation policy", func(s *memoryHotelStore, _ int64) {
			for _, p := range s.policies {
				p.CancellationPolicy = ""
			}
		}, domain.SectionPolicies},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv()
			partner, hotel := env.partner("owner@lodge.test")
			env.completeProfile(hotel.ID)
			env.store.mu.Lock()
			tc.gap(env.store, hotel.ID)
			env.store.mu.Unlock()

			_, err := env.approvals.RequestApproval(context.Background(), partner)
			var incomplete *IncompleteError
			if !errors.As(err, &incomplete) {
				t.Fatalf("expected IncompleteError, got %v", err)
			}
			if !reflect.DeepEqual(incomplete.Missing, []string{tc.wants}) {
				t.Fatalf("missing sections = %v, want [%s]", incomplete.Missing, tc.wants)
			}
			if env.mailer.count() != 0 {
				t.Fatalf("no mail expected for an incomplete profile")
			}
		})
	}
}

func TestRequestApprovalNotifiesOnce(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	partner, hotel := env.partner("owner@lodge.test")
	env.completeProfile(hotel.ID)

	for i := 0; i < 2; i++ {
		msg, err := env.approvals.RequestApproval(ctx, partner)
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if msg != "Approval request submitted." {
			t.Fatalf("unexpected message %q", msg)
		}
	}
	if env.mailer.count() != 1 {
		t.Fatalf("expected exactly one owner notification, got %d", env.mailer.count())
	}
	sent := env.mailer.last()
	if sent.To != "owner@rs1500.test" {
		t.Fatalf("notification sent to %q", sent.To)
	}
	if !strings.Contains(sent.Text, "https://api.test/api/hotel-partner/approve/") ||
		!strings.Contains(sent.Text, "https://api.test/api/hotel-partner/reject/") {
		t.Fatalf("notification is missing approve/reject links")
	}
	if got := env.publisher.subjects(); !reflect.DeepEqual(got, []string{events.SubjectHotelApprovalRequested}) {
		t.Fatalf("published subjects = %v", got)
	}
}

func TestRequestApprovalSurvivesMailFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.mailer.err = errors.New("smtp down")
	partner, hotel := env.partner("owner@lodge.test")
	env.completeProfile(hotel.ID)

	if _, err := env.approvals.RequestApproval(ctx, partner); err != nil {
		t.Fatalf("mail failure must not fail the request: %v", err)
	}
	stored, _ := memoryHotelRepo{env.store}.FindByID(ctx, hotel.ID)
	if !stored.ApprovalRequested {
		t.Fatalf("expected approval_requested to be set")
	}
}

func TestRequestApprovalGuards(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	t.Run("non partner", func(t *testing.T) {
		if _, err := env.approvals.RequestApproval(ctx, env.guest()); !errors.Is(err, ErrForbidden) {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})

	t.Run("already active", func(t *testing.T) {
		partner, hotel := env.partner("live@lodge.test")
		env.store.hotels[hotel.ID].IsActive = true
		if _, err := env.approvals.RequestApproval(ctx, partner); !errors.Is(err, ErrHotelAlreadyActive) {
			t.Fatalf("expected ErrHotelAlreadyActive, got %v", err)
		}
	})
}

func TestApprovalLinks(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*testEnv, *domain.Principal, int64, string) {
		env := newTestEnv()
		partner, hotel := env.partner("owner@lodge.test")
		env.completeProfile(hotel.ID)
		if _, err := env.approvals.RequestApproval(ctx, partner); err != nil {
			t.Fatalf("request approval: %v", err)
		}
		approveURL, _, err := env.approvals.Links(hotel.ID)
		if err != nil {
			t.Fatalf("links: %v", err)
		}
		return env, env.admin(), hotel.ID, tokenFrom(t, approveURL)
	}

	t.Run("approve makes the hotel public", func(t *testing.T) {
		env, admin, hotelID, token := setup(t)
		outcome, err := env.approvals.ResolveLink(ctx, admin, ActionApprove, token)
		if err != nil {
			t.Fatalf("approve: %v", err)
		}
		if !outcome.Changed || !outcome.Hotel.IsActive {
			t.Fatalf("unexpected outcome %+v", outcome)
		}
		detail, err := env.hotels.Get(ctx, env.guest(), hotelID)
		if err != nil {
			t.Fatalf("public get after approval: %v", err)
		}
		if !detail.IsActive {
			t.Fatalf("expected hotel to be active")
		}

		mails := env.mailer.count()
		again, err := env.approvals.ResolveLink(ctx, admin, ActionApprove, token)
		if err != nil {
			t.Fatalf("repeat approve: %v", err)
		}
		if again.Changed || again.Detail != "Hotel is already approved and visible on the platform." {
			t.Fatalf("repeat approve should be a no-op, got %+v", again)
		}
		if env.mailer.count() != mails {
			t.Fatalf("repeat approve must not notify")
		}
		want := []string{events.SubjectHotelApprovalRequested, events.SubjectHotelApproved}
		if got := env.publisher.subjects(); !reflect.DeepEqual(got, want) {
			t.Fatalf("published subjects = %v, want %v", got, want)
		}
	})

	t.Run("reject returns the hotel to draft", func(t *testing.T) {
		env, admin, hotelID, token := setup(t)
		outcome, err := env.approvals.ResolveLink(ctx, admin, ActionReject, token)
		if err != nil {
			t.Fatalf("reject: %v", err)
		}
		if outcome.Hotel.IsActive || outcome.Hotel.ApprovalRequested {
			t.Fatalf("unexpected hotel state %+v", outcome.Hotel)
		}
		if _, err := env.hotels.Get(ctx, env.guest(), hotelID); !errors.Is(err, ErrHotelNotFound) {
			t.Fatalf("rejected hotel must stay hidden, got %v", err)
		}
		if _, err := env.approvals.ResolveLink(ctx, admin, ActionApprove, token); !errors.Is(err, ErrApprovalNotRequested) {
			t.Fatalf("expected ErrApprovalNotRequested after reject, got %v", err)
		}
	})

	t.Run("tampered token", func(t *testing.T) {
		env, admin, _, token := setup(t)
		_, err := env.approvals.ResolveLink(ctx, admin, ActionApprove, token+"x")
		if err == nil || err.Error() != "Invalid approval link." {
			t.Fatalf("expected invalid approval link, got %v", err)
		}
		_, err = env.approvals.ResolveLink(ctx, admin, ActionReject, token+"x")
		if err == nil || err.Error() != "Invalid rejection link." {
			t.Fatalf("expected invalid rejection link, got %v", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		env, admin, hotelID, _ := setup(t)
		stale, err := util.NewApprovalSigner("approval-secret", -time.Minute).Sign(hotelID)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		_, err = env.approvals.ResolveLink(ctx, admin, ActionApprove, stale)
		if err == nil || err.Error() != "Approval link has expired." {
			t.Fatalf("expected expired approval link, got %v", err)
		}
		_, err = env.approvals.ResolveLink(ctx, admin, ActionReject, stale)
		if err == nil || err.Error() != "Rejection link has expired." {
			t.Fatalf("expected expired rejection link, got %v", err)
		}
	})

	t.Run("admin only", func(t *testing.T) {
		env, _, _, token := setup(t)
		if _, err := env.approvals.ResolveLink(ctx, env.guest(), ActionApprove, token); !errors.Is(err, ErrAdminOnly) {
			t.Fatalf("expected ErrAdminOnly, got %v", err)
		}
	})
}

func TestApplyActionAndPending(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	admin := env.admin()
	partner, hotel := env.partner("owner@lodge.test")
	env.completeProfile(hotel.ID)
	if _, err := env.approvals.RequestApproval(ctx, partner); err != nil {
		t.Fatalf("request approval: %v", err)
	}

	pending, err := env.approvals.ListPending(ctx, admin)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].OwnerEmail != "owner@lodge.test" || pending[0].ApproveURL == "" || pending[0].RejectURL == "" {
		t.Fatalf("unexpected pending list %+v", pending)
	}
	if _, err := env.approvals.ListPending(ctx, partner); !errors.Is(err, ErrAdminOnly) {
		t.Fatalf("expected ErrAdminOnly, got %v", err)
	}

	if _, err := env.approvals.ApplyAction(ctx, admin, hotel.ID, "maybe"); !errors.Is(err, ErrInvalidApprovalAction) {
		t.Fatalf("expected ErrInvalidApprovalAction, got %v", err)
	}
	if _, err := env.approvals.ApplyAction(ctx, admin, hotel.ID, ActionApprove); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := env.approvals.ApplyAction(ctx, admin, hotel.ID, ActionApprove); !errors.Is(err, ErrHotelAlreadyApproved) {
		t.Fatalf("expected ErrHotelAlreadyApproved, got %v", err)
	}
	if _, err := env.approvals.GetPending(ctx, admin, hotel.ID); !errors.Is(err, ErrHotelNotFound) {
		t.Fatalf("approved hotel should leave the pending list, got %v", err)
	}
	if _, err := env.approvals.ApplyAction(ctx, admin, 9999, ActionApprove); !errors.Is(err, ErrHotelNotFound) {
		t.Fatalf("expected ErrHotelNotFound, got %v", err)
	}
}
