package ports

import (
	"context"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
)

type HotelImageRepository interface {
	List(ctx context.Context, scope domain.ListScope) ([]domain.HotelImage, error)
	FindByID(ctx context.Context, id int64) (*domain.HotelImage, error)
	// Create and Update clear is_cover on the hotel's other images when the
	// saved image is the cover.
	Create(ctx context.Context, image *domain.HotelImage) (*domain.HotelImage, error)
	Update(ctx context.Context, image *domain.HotelImage) (*domain.HotelImage, error)
	// DeleteMany removes the given images, limited to hotelID when set, and
	// returns the rows that were deleted.
	DeleteMany(ctx context.Context, ids []int64, hotelID *int64) ([]domain.HotelImage, error)
	CountByHotel(ctx context.Context, hotelID int64) (int, error)
}

type RoomTypeRepository interface {
	List(ctx context.Context, scope domain.ListScope) ([]domain.RoomType, error)
	FindByID(ctx context.Context, id int64) (*domain.RoomType, error)
	Create(ctx context.Context, room *domain.RoomType) (*domain.RoomType, error)
	Update(ctx context.Context, room *domain.RoomType) (*domain.RoomType, error)
	Delete(ctx context.Context, id int64) error
	CountByHotel(ctx context.Context, hotelID int64) (int, error)
}

type RoomImageRepository interface {
	List(ctx context.Context, scope domain.ListScope, roomTypeID *int64) ([]domain.RoomImage, error)
	ListByRoomTypes(ctx context.Context, roomTypeIDs []int64) ([]domain.RoomImage, error)
	FindByID(ctx context.Context, id int64) (*domain.RoomImage, error)
	Create(ctx context.Context, image *domain.RoomImage) (*domain.RoomImage, error)
	Update(ctx context.Context, image *domain.RoomImage) (*domain.RoomImage, error)
	Delete(ctx context.Context, id int64) error
}

type HotelPolicyRepository interface {
	List(ctx context.Context, scope domain.ListScope) ([]domain.HotelPolicy, error)
	FindByID(ctx context.Context, id int64) (*domain.HotelPolicy, error)
	FindByHotel(ctx context.Context, hotelID int64) (*domain.HotelPolicy, error)
	Create(ctx context.Context, policy *domain.HotelPolicy) (*domain.HotelPolicy, error)
	Update(ctx context.Context, policy *domain.HotelPolicy) (*domain.HotelPolicy, error)
	Delete(ctx context.Context, id int64) error
}

type FacilityRepository interface {
	List(ctx context.Context) ([]domain.HotelFacility, error)
	FindByID(ctx context.Context, id int64) (*domain.HotelFacility, error)
	Create(ctx context.Context, facility *domain.HotelFacility) (*domain.HotelFacility, error)
	Update(ctx context.Context, facility *domain.HotelFacility) (*domain.HotelFacility, error)
	Delete(ctx context.Context, id int64) error
}

type FacilityMappingRepository interface {
	List(ctx context.Context, scope domain.ListScope) ([]domain.HotelFacilityMapping, error)
	FindByID(ctx context.Context, id int64) (*domain.HotelFacilityMapping, error)
	Create(ctx context.Context, mapping *domain.HotelFacilityMapping) (*domain.HotelFacilityMapping, error)
	Update(ctx context.Context, mapping *domain.HotelFacilityMapping) (*domain.HotelFacilityMapping, error)
	Delete(ctx context.Context, id int64) error
}
