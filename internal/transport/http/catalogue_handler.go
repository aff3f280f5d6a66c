package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/service"
)

type CatalogueServices struct {
	Amenities  *service.AmenityService
	Facilities *service.FacilityService
	Mappings   *service.FacilityMappingService
	RoomTypes  *service.RoomTypeService
	RoomImages *service.RoomImageService
	Policies   *service.PolicyService
}

func RegisterCatalogue(e *echo.Echo, auth *service.AuthService, s CatalogueServices) {
	optional := OptionalAuth(auth)

	resource[domain.Amenity]{svc: amenityResource{s.Amenities}}.
		register(e.Group("/api/amenities", optional))
	resource[domain.HotelFacility]{svc: facilityResource{s.Facilities}}.
		register(e.Group("/api/facilities", optional))
	resource[domain.HotelFacilityMapping]{svc: s.Mappings, filter: "hotel", init: newFacilityMapping}.
		register(e.Group("/api/facility-mappings", optional))
	resource[domain.RoomType]{svc: s.RoomTypes, filter: "hotel", init: service.NewRoomType}.
		register(e.Group("/api/room-types", optional))
	resource[domain.RoomImage]{svc: s.RoomImages, filter: "room_type"}.
		register(e.Group("/api/room-images", optional))

	policies := policyResource{s.Policies}
	crud := resource[domain.HotelPolicy]{svc: policies, filter: "hotel"}
	g := e.Group("/api/hotel-policies", optional)
	g.GET("/", crud.list)
	g.POST("/", policies.save)
	g.GET("/:id/", crud.get)
	g.PUT("/:id/", crud.update)
	g.PATCH("/:id/", crud.update)
	g.DELETE("/:id/", crud.remove)
}

func newFacilityMapping() domain.HotelFacilityMapping {
	return domain.HotelFacilityMapping{IsAvailable: true}
}

// policyResource routes hotel policies, where one hotel holds at most one
// policy and a create against an existing one becomes an update.
type policyResource struct {
	*service.PolicyService
}

func (r policyResource) Create(ctx context.Context, p *domain.Principal, v domain.HotelPolicy) (*domain.HotelPolicy, error) {
	policy, _, err := r.Save(ctx, p, v.HotelID, func(dst *domain.HotelPolicy) error {
		id := dst.ID
		*dst = v
		dst.ID = id
		return nil
	})
	return policy, err
}

// save answers 201 when the policy is new and 200 when a partner's existing
// policy was updated instead.
func (r policyResource) save(c echo.Context) error {
	body, err := readJSON(c)
	if err != nil {
		return writeError(c, err)
	}
	var target struct {
		Hotel int64 `json:"hotel"`
	}
	if err := json.Unmarshal(body, &target); err != nil {
		return writeError(c, invalid("hotel: Incorrect type. Expected pk value."))
	}
	policy, created, err := r.Save(c.Request().Context(), CurrentPrincipal(c), target.Hotel, overlay[domain.HotelPolicy](body))
	if err != nil {
		return writeError(c, err)
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, policy)
}

// amenityResource and facilityResource adapt the global catalogues, which
// take no hotel filter and need no caller to read.
type amenityResource struct{ svc *service.AmenityService }

func (r amenityResource) List(ctx context.Context, _ *domain.Principal, _ *int64) ([]domain.Amenity, error) {
	return r.svc.List(ctx)
}

func (r amenityResource) Get(ctx context.Context, _ *domain.Principal, id int64) (*domain.Amenity, error) {
	return r.svc.Get(ctx, id)
}

func (r amenityResource) Create(ctx context.Context, p *domain.Principal, a domain.Amenity) (*domain.Amenity, error) {
	return r.svc.Create(ctx, p, a)
}

func (r amenityResource) Update(ctx context.Context, p *domain.Principal, id int64, apply func(*domain.Amenity) error) (*domain.Amenity, error) {
	return r.svc.Update(ctx, p, id, apply)
}

func (r amenityResource) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	return r.svc.Delete(ctx, p, id)
}

type facilityResource struct{ svc *service.FacilityService }

func (r facilityResource) List(ctx context.Context, _ *domain.Principal, _ *int64) ([]domain.HotelFacility, error) {
	return r.svc.List(ctx)
}

func (r facilityResource) Get(ctx context.Context, _ *domain.Principal, id int64) (*domain.HotelFacility, error) {
	return r.svc.Get(ctx, id)
}

func (r facilityResource) Create(ctx context.Context, p *domain.Principal, f domain.HotelFacility) (*domain.HotelFacility, error) {
	return r.svc.Create(ctx, p, f)
}

func (r facilityResource) Update(ctx context.Context, p *domain.Principal, id int64, apply func(*domain.HotelFacility) error) (*domain.HotelFacility, error) {
	return r.svc.Update(ctx, p, id, apply)
}

func (r facilityResource) Delete(ctx context.Context, p *domain.Principal, id int64) error {
	return r.svc.Delete(ctx, p, id)
}
