package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/repository/ports"
	"github.com/njprem/rs1500_BackEnd/internal/transport/mail"
	"github.com/njprem/rs1500_BackEnd/internal/util"
)

var errUniqueViolation = &pgconn.PgError{Code: "23505"}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func int64Ptr(v int64) *int64 { return &v }

// fakeClock is a settable time source shared by services under test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: map[uuid.UUID]*domain.User{}}
}

func (r *memoryUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return nil, errUniqueViolation
		}
	}
	cp := *u
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	r.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memoryUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *memoryUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *memoryUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *memoryUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r *memoryUserRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.IsActive = active
	return nil
}

func (r *memoryUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *memoryUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type memorySessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{sessions: map[string]*domain.Session{}}
}

func (r *memorySessionRepo) CreateSession(_ context.Context, userID uuid.UUID, tokenID string, expiresAt time.Time) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &domain.Session{ID: int64(len(r.sessions) + 1), UserID: userID, TokenID: tokenID, ExpiresAt: expiresAt, IsActive: true}
	r.sessions[tokenID] = s
	cp := *s
	return &cp, nil
}

func (r *memorySessionRepo) FindActiveSession(_ context.Context, tokenID string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[tokenID]
	if !ok || !s.IsActive {
		return nil, sql.ErrNoRows
	}
	cp := *s
	return &cp, nil
}

func (r *memorySessionRepo) DeactivateSession(_ context.Context, tokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[tokenID]; ok {
		s.IsActive = false
	}
	return nil
}

type memoryCodeRepo struct {
	mu    sync.Mutex
	codes map[string]*domain.OneTimeCode
}

func newMemoryCodeRepo() *memoryCodeRepo {
	return &memoryCodeRepo{codes: map[string]*domain.OneTimeCode{}}
}

func (r *memoryCodeRepo) Upsert(_ context.Context, code *domain.OneTimeCode) (*domain.OneTimeCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *code
	cp.Attempts = 0
	cp.Used = false
	r.codes[cp.Email] = &cp
	out := cp
	return &out, nil
}

func (r *memoryCodeRepo) UpdateLatest(_ context.Context, email string, fn func(*domain.OneTimeCode) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.codes[email]
	if !ok {
		return sql.ErrNoRows
	}
	working := *stored
	err := fn(&working)
	stored.Attempts = working.Attempts
	stored.Used = working.Used
	return err
}

func (r *memoryCodeRepo) get(email string) domain.OneTimeCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.codes[email]
}

type staticThrottle struct {
	allowed bool
	err     error
	calls   int
}

func (t *staticThrottle) Allow(context.Context, string) (bool, error) {
	t.calls++
	return t.allowed, t.err
}

// memoryHotelStore backs the hotel, account, image, room, policy, review and
// facility mapping fakes so counts and visibility stay consistent.
type memoryHotelStore struct {
	mu        sync.Mutex
	nextID    int64
	hotels    map[int64]*domain.Hotel
	accounts  map[uuid.UUID]int64
	amenities map[int64]domain.Amenity
	images    map[int64]*domain.HotelImage
	rooms     map[int64]*domain.RoomType
	roomImgs  map[int64]*domain.RoomImage
	policies  map[int64]*domain.HotelPolicy
	reviews   map[int64]*domain.Review
	mappings  map[int64]*domain.HotelFacilityMapping
	emails    map[uuid.UUID]string
}

func newMemoryHotelStore() *memoryHotelStore {
	return &memoryHotelStore{
		hotels:    map[int64]*domain.Hotel{},
		accounts:  map[uuid.UUID]int64{},
		amenities: map[int64]domain.Amenity{1: {ID: 1, Name: "Wi-Fi"}, 2: {ID: 2, Name: "Parking"}},
		images:    map[int64]*domain.HotelImage{},
		rooms:     map[int64]*domain.RoomType{},
		roomImgs:  map[int64]*domain.RoomImage{},
		policies:  map[int64]*domain.HotelPolicy{},
		reviews:   map[int64]*domain.Review{},
		mappings:  map[int64]*domain.HotelFacilityMapping{},
		emails:    map[uuid.UUID]string{},
	}
}

func (s *memoryHotelStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memoryHotelStore) visible(scope domain.ListScope, hotelID int64) bool {
	if scope.HotelID != nil && *scope.HotelID != hotelID {
		return false
	}
	if scope.PublicOnly {
		h, ok := s.hotels[hotelID]
		return ok && h.IsActive
	}
	return true
}

func (s *memoryHotelStore) isActive(hotelID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.hotels[hotelID]
	return ok && h.IsActive
}

type memoryHotelRepo struct{ s *memoryHotelStore }

func (r memoryHotelRepo) Create(_ context.Context, h *domain.Hotel) (*domain.Hotel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.insert(h), nil
}

func (r memoryHotelRepo) insert(h *domain.Hotel) *domain.Hotel {
	cp := *h
	cp.ID = r.s.id()
	cp.CreatedAt = time.Now()
	cp.AmenityIDs = append([]int64{}, h.AmenityIDs...)
	r.s.hotels[cp.ID] = &cp
	out := cp
	return &out
}

func (r memoryHotelRepo) CreateWithOwner(_ context.Context, h *domain.Hotel, ownerID uuid.UUID) (*domain.Hotel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[ownerID]; ok {
		return nil, errUniqueViolation
	}
	created := r.insert(h)
	r.s.accounts[ownerID] = created.ID
	return created, nil
}

func (r memoryHotelRepo) FindByID(_ context.Context, id int64) (*domain.Hotel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h, ok := r.s.hotels[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *h
	cp.AmenityIDs = append([]int64{}, h.AmenityIDs...)
	return &cp, nil
}

func (r memoryHotelRepo) List(_ context.Context, f domain.HotelFilter) ([]domain.Hotel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Hotel{}
	for _, h := range r.s.hotels {
		if f.OnlyActive && !h.IsActive {
			continue
		}
		if f.City != "" && !strings.EqualFold(f.City, h.City) {
			continue
		}
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memoryHotelRepo) Update(_ context.Context, h *domain.Hotel) (*domain.Hotel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.hotels[h.ID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	active, requested, amenities := stored.IsActive, stored.ApprovalRequested, stored.AmenityIDs
	*stored = *h
	stored.IsActive, stored.ApprovalRequested = active, requested
	if h.AmenityIDs == nil {
		stored.AmenityIDs = amenities
	}
	cp := *stored
	return &cp, nil
}

func (r memoryHotelRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.hotels[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.s.hotels, id)
	for uid, hid := range r.s.accounts {
		if hid == id {
			delete(r.s.accounts, uid)
		}
	}
	return nil
}

func (r memoryHotelRepo) ListAmenities(_ context.Context, hotelID int64) ([]domain.Amenity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Amenity{}
	if h, ok := r.s.hotels[hotelID]; ok {
		for _, id := range h.AmenityIDs {
			out = append(out, r.s.amenities[id])
		}
	}
	return out, nil
}

func (r memoryHotelRepo) CountAmenities(ctx context.Context, hotelID int64) (int, error) {
	list, err := r.ListAmenities(ctx, hotelID)
	return len(list), err
}

func (r memoryHotelRepo) MarkApprovalRequested(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h, ok := r.s.hotels[id]
	if !ok || h.ApprovalRequested || h.IsActive {
		return false, nil
	}
	h.ApprovalRequested = true
	return true, nil
}

func (r memoryHotelRepo) ResolveApproval(_ context.Context, id int64, fn func(*domain.Hotel) error) (*domain.Hotel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h, ok := r.s.hotels[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	working := *h
	if err := fn(&working); err != nil {
		return nil, err
	}
	h.IsActive, h.ApprovalRequested = working.IsActive, working.ApprovalRequested
	cp := *h
	return &cp, nil
}

func (r memoryHotelRepo) ListPendingApproval(_ context.Context) ([]domain.PendingApproval, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.PendingApproval{}
	for _, h := range r.s.hotels {
		if h.IsActive || !h.ApprovalRequested {
			continue
		}
		p := domain.PendingApproval{ID: h.ID, Name: h.Name, Country: h.Country, City: h.City, CreatedAt: h.CreatedAt}
		for uid, hid := range r.s.accounts {
			if hid == h.ID {
				p.OwnerEmail = r.s.emails[uid]
			}
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type memoryAccountRepo struct{ s *memoryHotelStore }

func (r memoryAccountRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*domain.HotelAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	hid, ok := r.s.accounts[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &domain.HotelAccount{ID: hid, UserID: userID, HotelID: hid}, nil
}

func (r memoryAccountRepo) FindOwnerEmail(_ context.Context, hotelID int64) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for uid, hid := range r.s.accounts {
		if hid == hotelID {
			return r.s.emails[uid], nil
		}
	}
	return "", sql.ErrNoRows
}

type memoryImageRepo struct{ s *memoryHotelStore }

func (r memoryImageRepo) List(_ context.Context, scope domain.ListScope) ([]domain.HotelImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.HotelImage{}
	for _, img := range r.s.images {
		if r.s.visible(scope, img.HotelID) {
			out = append(out, *img)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memoryImageRepo) FindByID(_ context.Context, id int64) (*domain.HotelImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	img, ok := r.s.images[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *img
	return &cp, nil
}

func (r memoryImageRepo) save(img *domain.HotelImage) *domain.HotelImage {
	if img.IsCover {
		for _, other := range r.s.images {
			if other.HotelID == img.HotelID && other.ID != img.ID {
				other.IsCover = false
			}
		}
	}
	cp := *img
	r.s.images[cp.ID] = &cp
	out := cp
	return &out
}

func (r memoryImageRepo) Create(_ context.Context, img *domain.HotelImage) (*domain.HotelImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *img
	cp.ID = r.s.id()
	return r.save(&cp), nil
}

func (r memoryImageRepo) Update(_ context.Context, img *domain.HotelImage) (*domain.HotelImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.images[img.ID]; !ok {
		return nil, sql.ErrNoRows
	}
	return r.save(img), nil
}

func (r memoryImageRepo) DeleteMany(_ context.Context, ids []int64, hotelID *int64) ([]domain.HotelImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.HotelImage{}
	for _, id := range ids {
		img, ok := r.s.images[id]
		if !ok || (hotelID != nil && img.HotelID != *hotelID) {
			continue
		}
		out = append(out, *img)
		delete(r.s.images, id)
	}
	return out, nil
}

func (r memoryImageRepo) CountByHotel(ctx context.Context, hotelID int64) (int, error) {
	list, err := r.List(ctx, domain.ListScope{HotelID: &hotelID})
	return len(list), err
}

type memoryRoomRepo struct{ s *memoryHotelStore }

func (r memoryRoomRepo) List(_ context.Context, scope domain.ListScope) ([]domain.RoomType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.RoomType{}
	for _, room := range r.s.rooms {
		if !r.s.visible(scope, room.HotelID) || (scope.PublicOnly && !room.IsActive) {
			continue
		}
		out = append(out, *room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memoryRoomRepo) FindByID(_ context.Context, id int64) (*domain.RoomType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room, ok := r.s.rooms[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *room
	return &cp, nil
}

func (r memoryRoomRepo) Create(_ context.Context, room *domain.RoomType) (*domain.RoomType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.rooms {
		if other.HotelID == room.HotelID && other.Name == room.Name {
			return nil, errUniqueViolation
		}
	}
	cp := *room
	cp.ID = r.s.id()
	r.s.rooms[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r memoryRoomRepo) Update(_ context.Context, room *domain.RoomType) (*domain.RoomType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rooms[room.ID]; !ok {
		return nil, sql.ErrNoRows
	}
	cp := *room
	r.s.rooms[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r memoryRoomRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rooms[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.s.rooms, id)
	return nil
}

func (r memoryRoomRepo) CountByHotel(ctx context.Context, hotelID int64) (int, error) {
	list, err := r.List(ctx, domain.ListScope{HotelID: &hotelID})
	return len(list), err
}

type memoryRoomImageRepo struct{ s *memoryHotelStore }

func (r memoryRoomImageRepo) List(_ context.Context, scope domain.ListScope, roomTypeID *int64) ([]domain.RoomImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.RoomImage{}
	for _, img := range r.s.roomImgs {
		if roomTypeID != nil && img.RoomTypeID != *roomTypeID {
			continue
		}
		if r.s.visible(scope, img.HotelID) {
			out = append(out, *img)
		}
	}
	return out, nil
}

func (r memoryRoomImageRepo) ListByRoomTypes(_ context.Context, ids []int64) ([]domain.RoomImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := map[int64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	out := []domain.RoomImage{}
	for _, img := range r.s.roomImgs {
		if want[img.RoomTypeID] {
			out = append(out, *img)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memoryRoomImageRepo) FindByID(_ context.Context, id int64) (*domain.RoomImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	img, ok := r.s.roomImgs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *img
	return &cp, nil
}

func (r memoryRoomImageRepo) Create(_ context.Context, img *domain.RoomImage) (*domain.RoomImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room, ok := r.s.rooms[img.RoomTypeID]
	if !ok {
		return nil, &pgconn.PgError{Code: "23503"}
	}
	cp := *img
	cp.ID = r.s.id()
	cp.HotelID = room.HotelID
	r.s.roomImgs[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r memoryRoomImageRepo) Update(_ context.Context, img *domain.RoomImage) (*domain.RoomImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.roomImgs[img.ID]; !ok {
		return nil, sql.ErrNoRows
	}
	cp := *img
	if room, ok := r.s.rooms[cp.RoomTypeID]; ok {
		cp.HotelID = room.HotelID
	}
	r.s.roomImgs[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r memoryRoomImageRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.roomImgs[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.s.roomImgs, id)
	return nil
}

type memoryPolicyRepo struct{ s *memoryHotelStore }

func (r memoryPolicyRepo) List(_ context.Context, scope domain.ListScope) ([]domain.HotelPolicy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.HotelPolicy{}
	for _, p := range r.s.policies {
		if r.s.visible(scope, p.HotelID) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r memoryPolicyRepo) FindByID(_ context.Context, id int64) (*domain.HotelPolicy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.policies[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (r memoryPolicyRepo) FindByHotel(_ context.Context, hotelID int64) (*domain.HotelPolicy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.policies {
		if p.HotelID == hotelID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r memoryPolicyRepo) Create(_ context.Context, p *domain.HotelPolicy) (*domain.HotelPolicy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.policies {
		if other.HotelID == p.HotelID {
			return nil, errUniqueViolation
		}
	}
	cp := *p
	cp.ID = r.s.id()
	r.s.policies[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r memoryPolicyRepo) Update(_ context.Context, p *domain.HotelPolicy) (*domain.HotelPolicy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.policies[p.ID]; !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	r.s.policies[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r memoryPolicyRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.policies[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.s.policies, id)
	return nil
}

type memoryReviewRepo struct{ s *memoryHotelStore }

func (r memoryReviewRepo) List(_ context.Context, scope domain.ListScope) ([]domain.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Review{}
	for _, rv := range r.s.reviews {
		if r.s.visible(scope, rv.HotelID) {
			out = append(out, *rv)
		}
	}
	return out, nil
}

func (r memoryReviewRepo) FindByID(_ context.Context, id int64) (*domain.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *rv
	return &cp, nil
}

func (r memoryReviewRepo) Create(_ context.Context, rv *domain.Review) (*domain.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.reviews {
		if other.HotelID == rv.HotelID && other.UserID == rv.UserID {
			return nil, errUniqueViolation
		}
	}
	cp := *rv
	cp.ID = r.s.id()
	r.s.reviews[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r memoryReviewRepo) Update(_ context.Context, rv *domain.Review) (*domain.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[rv.ID]; !ok {
		return nil, sql.ErrNoRows
	}
	cp := *rv
	r.s.reviews[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r memoryReviewRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reviews[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.s.reviews, id)
	return nil
}

type memoryMappingRepo struct{ s *memoryHotelStore }

func (r memoryMappingRepo) List(_ context.Context, scope domain.ListScope) ([]domain.HotelFacilityMapping, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.HotelFacilityMapping{}
	for _, m := range r.s.mappings {
		if r.s.visible(scope, m.HotelID) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r memoryMappingRepo) FindByID(_ context.Context, id int64) (*domain.HotelFacilityMapping, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.mappings[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *m
	return &cp, nil
}

func (r memoryMappingRepo) Create(_ context.Context, m *domain.HotelFacilityMapping) (*domain.HotelFacilityMapping, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *m
	cp.ID = r.s.id()
	r.s.mappings[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r memoryMappingRepo) Update(_ context.Context, m *domain.HotelFacilityMapping) (*domain.HotelFacilityMapping, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.mappings[m.ID]; !ok {
		return nil, sql.ErrNoRows
	}
	cp := *m
	r.s.mappings[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r memoryMappingRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.mappings[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.s.mappings, id)
	return nil
}

type memoryReservationRepo struct {
	mu    sync.Mutex
	items []domain.Reservation
	store *memoryHotelStore
}

func (r *memoryReservationRepo) List(_ context.Context, f ports.ReservationFilter) ([]domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Reservation{}
	for _, res := range r.items {
		if f.Scope.HotelID != nil && *f.Scope.HotelID != res.HotelID {
			continue
		}
		if f.Scope.PublicOnly && r.store != nil && !r.store.isActive(res.HotelID) {
			continue
		}
		if f.GuestEmail != "" && !strings.EqualFold(f.GuestEmail, res.GuestEmail) {
			continue
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *memoryReservationRepo) FindByID(_ context.Context, id int64) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.items {
		if res.ID == id {
			cp := res
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memoryReservationRepo) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *res
	cp.ID = int64(len(r.items) + 1)
	r.items = append(r.items, cp)
	return &cp, nil
}

func (r *memoryReservationRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Status = status
			cp := r.items[i]
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memoryReservationRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

// recordingMailer keeps every message and optionally fails.
type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *recordingMailer) last() mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

type publishedEvent struct {
	subject string
	data    any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{subject: subject, data: data})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.subject)
	}
	return out
}

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut bool
}

func (s *memoryStorage) Upload(_ context.Context, bucket, objectName, _ string, reader io.Reader, _ int64) (string, error) {
	if s.failPut {
		return "", errors.New("storage unavailable")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	s.objects[objectName] = data
	return "https://cdn.test/" + bucket + "/" + objectName, nil
}

func (s *memoryStorage) Remove(_ context.Context, _, objectName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectName)
	return nil
}

// testEnv wires every service over shared in-memory fakes.
type testEnv struct {
	clock     *fakeClock
	users     *memoryUserRepo
	sessions  *memorySessionRepo
	codes     *memoryCodeRepo
	store     *memoryHotelStore
	mailer    *recordingMailer
	publisher *recordingPublisher
	storage   *memoryStorage
	signer    *util.ApprovalSigner
	tokens    *util.JWTManager

	otp       *OTPService
	auth      *AuthService
	approvals *ApprovalService
	hotels    *HotelService
	images    *HotelImageService
	rooms     *RoomTypeService
	policies  *PolicyService
	reviews   *ReviewService
}

func newTestEnv() *testEnv {
	clock := &fakeClock{now: time.Now().Truncate(time.Second)}
	env := &testEnv{
		clock:     clock,
		users:     newMemoryUserRepo(),
		sessions:  newMemorySessionRepo(),
		codes:     newMemoryCodeRepo(),
		store:     newMemoryHotelStore(),
		mailer:    &recordingMailer{},
		publisher: &recordingPublisher{},
		storage:   &memoryStorage{},
		signer:    util.NewApprovalSigner("approval-secret", 7*24*time.Hour),
		tokens:    util.NewJWTManager("jwt-secret", 30*time.Minute, 24*time.Hour),
	}
	s := env.store
	env.otp = NewOTPService(env.codes, nil, nil, OTPConfig{TTL: 2 * time.Minute, MaxAttempts: 5})
	env.otp.now = clock.Now
	env.auth = NewAuthService(env.users, env.sessions, memoryAccountRepo{s}, memoryHotelRepo{s}, env.otp, env.mailer, env.tokens, nil, AuthConfig{})
	env.approvals = NewApprovalService(memoryHotelRepo{s}, memoryImageRepo{s}, memoryRoomRepo{s}, memoryPolicyRepo{s},
		env.signer, env.mailer, env.publisher, nil, ApprovalConfig{PublicBaseURL: "https://api.test/", OwnerEmail: "owner@rs1500.test"})
	env.hotels = NewHotelService(memoryHotelRepo{s}, memoryImageRepo{s}, memoryRoomRepo{s}, memoryRoomImageRepo{s},
		memoryReviewRepo{s}, memoryPolicyRepo{s}, memoryMappingRepo{s}, env.approvals, nil)
	env.images = NewHotelImageService(memoryImageRepo{s}, memoryHotelRepo{s}, env.storage, nil, "media", nil)
	env.rooms = NewRoomTypeService(memoryRoomRepo{s}, memoryHotelRepo{s})
	env.policies = NewPolicyService(memoryPolicyRepo{s})
	env.reviews = NewReviewService(memoryReviewRepo{s}, memoryHotelRepo{s})
	return env
}

// partner creates an active user owning a fresh inactive hotel.
func (e *testEnv) partner(email string) (*domain.Principal, *domain.Hotel) {
	ctx := context.Background()
	user, err := e.users.Create(ctx, &domain.User{Email: email, Username: strings.Split(email, "@")[0], IsActive: true})
	if err != nil {
		panic(err)
	}
	hotel, err := memoryHotelRepo{e.store}.CreateWithOwner(ctx, &domain.Hotel{
		Name:      "Himalayan Lodge",
		PlaceType: domain.PlaceTypeLodge,
		Country:   "Nepal",
		City:      "Pokhara",
	}, user.ID)
	if err != nil {
		panic(err)
	}
	e.store.mu.Lock()
	e.store.emails[user.ID] = email
	e.store.mu.Unlock()
	hid := hotel.ID
	return domain.NewPrincipal(user, &hid), hotel
}

func (e *testEnv) admin() *domain.Principal {
	user, err := e.users.Create(context.Background(), &domain.User{
		Email:    "staff-" + uuid.NewString()[:8] + "@rs1500.test",
		Username: "staff-" + uuid.NewString()[:8],
		IsActive: true,
		IsStaff:  true,
	})
	if err != nil {
		panic(err)
	}
	return domain.NewPrincipal(user, nil)
}

func (e *testEnv) guest() *domain.Principal {
	user, err := e.users.Create(context.Background(), &domain.User{
		Email:    "guest-" + uuid.NewString()[:8] + "@mail.test",
		Username: "guest-" + uuid.NewString()[:8],
		IsActive: true,
	})
	if err != nil {
		panic(err)
	}
	return domain.NewPrincipal(user, nil)
}

// completeProfile fills every approval checklist section for hotelID.
func (e *testEnv) completeProfile(hotelID int64) {
	s := e.store
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.hotels[hotelID]
	h.Address = "Lakeside 6"
	h.AmenityIDs = []int64{1}
	img := &domain.HotelImage{ID: s.id(), HotelID: hotelID, ImageURL: "https://cdn.test/cover.jpg", IsCover: true}
	s.images[img.ID] = img
	room := &domain.RoomType{ID: s.id(), HotelID: hotelID, Name: "Deluxe", TotalRooms: 3, IsActive: true, Currency: "NPR"}
	s.rooms[room.ID] = room
	policy := &domain.HotelPolicy{ID: s.id(), HotelID: hotelID, CancellationPolicy: "Free until 24h", PaymentPolicy: "Pay at hotel"}
	s.policies[policy.ID] = policy
}

func isKind(err, kind error) bool { return errors.Is(err, kind) }
