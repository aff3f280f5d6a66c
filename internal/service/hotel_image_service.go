package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/media"
	"github.com/njprem/rs1500_BackEnd/internal/repository/ports"
)

var (
	ErrHotelImageNotFound = detail(ErrNotFound, "Hotel image not found.")
	ErrIDsRequired        = detail(ErrValidation, "'ids' must be a non-empty list.")
	ErrImageIDRequired    = detail(ErrValidation, "'id' is required.")
	ErrNoFileUploaded     = detail(ErrValidation, "No file uploaded.")
	errImageDeleteDenied  = detail(ErrForbidden, "You do not have permission to delete hotel images")
)

type HotelImageService struct {
	images    ports.HotelImageRepository
	hotels    ports.HotelRepository
	storage   ports.ObjectStorage
	processor media.Processor
	bucket    string
	logger    *zap.Logger
}

func NewHotelImageService(
	images ports.HotelImageRepository,
	hotels ports.HotelRepository,
	storage ports.ObjectStorage,
	processor media.Processor,
	bucket string,
	logger *zap.Logger,
) *HotelImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HotelImageService{
		images:    images,
		hotels:    hotels,
		storage:   storage,
		processor: processor,
		bucket:    bucket,
		logger:    logger.Named("hotel_images"),
	}
}

// List returns images visible to the caller. Partners always see their own
// hotel's gallery.
func (s *HotelImageService) List(ctx context.Context, p *domain.Principal, hotelID *int64) ([]domain.HotelImage, error) {
	if p.IsPartner() && !p.IsAdmin() {
		own := *p.HotelID
		return s.images.List(ctx, domain.ListScope{HotelID: &own})
	}
	return s.images.List(ctx, domain.ScopeFor(p, hotelID))
}

func (s *HotelImageService) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.HotelImage, error) {
	img, err := s.images.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrHotelImageNotFound)
	}
	if p.IsAdmin() || p.OwnsHotel(img.HotelID) {
		return img, nil
	}
	if err := visibleHotel(ctx, s.hotels, img.HotelID, ErrHotelImageNotFound); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *HotelImageService) Create(ctx context.Context, p *domain.Principal, img domain.HotelImage) (*domain.HotelImage, error) {
	hotelID, err := hotelImageRules.targetHotel(p, img.HotelID)
	if err != nil {
		return nil, err
	}
	img.HotelID = hotelID
	if strings.TrimSpace(img.ImageURL) == "" {
		return nil, detail(ErrValidation, "image_url: This field is required.")
	}
	created, err := s.images.Create(ctx, &img)
	return created, writeErr(err, "")
}

func (s *HotelImageService) Update(ctx context.Context, p *domain.Principal, id int64, apply func(*domain.HotelImage) error) (*domain.HotelImage, error) {
	current, err := s.images.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrHotelImageNotFound)
	}
	if !p.IsAdmin() && !p.OwnsHotel(current.HotelID) {
		return nil, detail(ErrForbidden, hotelImageRules.modify)
	}
	next := *current
	if err := apply(&next); err != nil {
		return nil, err
	}
	next.ID = current.ID
	if err := hotelImageRules.checkModify(p, current.HotelID, next.HotelID); err != nil {
		return nil, err
	}
	updated, err := s.images.Update(ctx, &next)
	if err != nil {
		return nil, notFoundAs(writeErr(err, ""), ErrHotelImageNotFound)
	}
	return updated, nil
}

func (s *HotelImageService) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	img, err := s.images.FindByID(ctx, id)
	if err != nil {
		return notFoundAs(err, ErrHotelImageNotFound)
	}
	if err := hotelImageRules.checkDelete(p, img.HotelID); err != nil {
		return err
	}
	deleted, err := s.images.DeleteMany(ctx, []int64{id}, nil)
	if err != nil {
		return err
	}
	if len(deleted) == 0 {
		return ErrHotelImageNotFound
	}
	s.removeObjects(ctx, deleted)
	return nil
}

// BulkDelete removes the listed images; partners only touch their own hotel.
// It returns how many rows were deleted.
func (s *HotelImageService) BulkDelete(ctx context.Context, p *domain.Principal, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, ErrIDsRequired
	}
	scope, err := s.deleteScope(p)
	if err != nil {
		return 0, err
	}
	deleted, err := s.images.DeleteMany(ctx, ids, scope)
	if err != nil {
		return 0, err
	}
	s.removeObjects(ctx, deleted)
	return len(deleted), nil
}

// MediaLibrary lists the gallery a partner manages; callers without a
// hotel get an empty list.
func (s *HotelImageService) MediaLibrary(ctx context.Context, p *domain.Principal, hotelID *int64) ([]domain.HotelImage, error) {
	switch {
	case p.IsAdmin():
		return s.images.List(ctx, domain.ListScope{HotelID: hotelID})
	case p.IsPartner():
		own := *p.HotelID
		return s.images.List(ctx, domain.ListScope{HotelID: &own})
	}
	return []domain.HotelImage{}, nil
}

// Upload processes an image file, stores it in object storage and records
// it in the hotel gallery. Staff may target any hotel.
func (s *HotelImageService) Upload(ctx context.Context, p *domain.Principal, hotelID int64, upload media.Upload) (*domain.HotelImage, error) {
	if upload.Reader == nil {
		return nil, ErrNoFileUploaded
	}
	target := hotelID
	if !p.IsAdmin() || target == 0 {
		if !p.IsPartner() {
			return nil, ErrNoLinkedHotel
		}
		target = *p.HotelID
	}
	if _, err := s.hotels.FindByID(ctx, target); err != nil {
		return nil, notFoundAs(err, detail(ErrForbidden, "Invalid hotel for media upload"))
	}

	prepared, err := prepareImageForUpload(ctx, s.processor, upload)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("hotel_media/%d/%s%s", target, uuid.NewString(), prepared.extension)
	url, err := s.storage.Upload(ctx, s.bucket, key, prepared.contentType, prepared.reader, prepared.size)
	if err != nil {
		return nil, fmt.Errorf("upload hotel image: %w", err)
	}

	created, err := s.images.Create(ctx, &domain.HotelImage{HotelID: target, ImageURL: url, ObjectKey: key})
	if err != nil {
		if rmErr := s.storage.Remove(ctx, s.bucket, key); rmErr != nil {
			s.logger.Warn("remove orphaned upload", zap.String("key", key), zap.Error(rmErr))
		}
		return nil, err
	}
	s.logger.Info("hotel image uploaded", zap.Int64("hotel_id", target), zap.String("key", key))
	return created, nil
}

// DeleteFromLibrary removes a single library image.
func (s *HotelImageService) DeleteFromLibrary(ctx context.Context, p *domain.Principal, id int64) (int, error) {
	if id == 0 {
		return 0, ErrImageIDRequired
	}
	scope, err := s.deleteScope(p)
	if err != nil {
		return 0, err
	}
	deleted, err := s.images.DeleteMany(ctx, []int64{id}, scope)
	if err != nil {
		return 0, err
	}
	if len(deleted) == 0 {
		return 0, ErrHotelImageNotFound
	}
	s.removeObjects(ctx, deleted)
	return len(deleted), nil
}

func (s *HotelImageService) deleteScope(p *domain.Principal) (*int64, error) {
	if p.IsAdmin() {
		return nil, nil
	}
	if !p.IsPartner() {
		return nil, errImageDeleteDenied
	}
	own := *p.HotelID
	return &own, nil
}

// removeObjects drops stored files for deleted rows. Rows that only carry
// an external URL have no object key.
func (s *HotelImageService) removeObjects(ctx context.Context, deleted []domain.HotelImage) {
	if s.storage == nil {
		return
	}
	for _, img := range deleted {
		if img.ObjectKey == "" {
			continue
		}
		if err := s.storage.Remove(ctx, s.bucket, img.ObjectKey); err != nil {
			s.logger.Warn("remove hotel image object", zap.String("key", img.ObjectKey), zap.Error(err))
		}
	}
}
