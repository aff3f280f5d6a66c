package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/service"
)

type HotelHandler struct {
	hotels *service.HotelService
}

// hotelRequest is a partial hotel write. Absent fields are left alone.
type hotelRequest struct {
	Name          *string           `json:"name"`
	Description   *string           `json:"description"`
	PlaceType     *domain.PlaceType `json:"place_type"`
	Country       *string           `json:"country"`
	City          *string           `json:"city"`
	Address       *string           `json:"address"`
	GoogleMapsURL *string           `json:"google_maps_url"`
	Rating        *decimal.Decimal  `json:"rating"`
	Amenities     *[]int64          `json:"amenities"`
	IsActive      *bool             `json:"is_active"`
}

func (r hotelRequest) input() service.HotelInput {
	return service.HotelInput{
		HotelUpdate: domain.HotelUpdate{
			Name:          r.Name,
			Description:   r.Description,
			PlaceType:     r.PlaceType,
			Country:       r.Country,
			City:          r.City,
			Address:       r.Address,
			GoogleMapsURL: r.GoogleMapsURL,
			Rating:        r.Rating,
			AmenityIDs:    r.Amenities,
		},
		IsActive: r.IsActive,
	}
}

func RegisterHotels(e *echo.Echo, auth *service.AuthService, hotels *service.HotelService) {
	h := &HotelHandler{hotels: hotels}

	g := e.Group("/api/hotels", OptionalAuth(auth))
	g.GET("/", h.list)
	g.POST("/", h.create, requireLogin)
	g.GET("/me/", h.me, requireLogin)
	g.PATCH("/me/", h.updateMe, requireLogin)
	g.POST("/me/", h.create, requireLogin)
	g.GET("/:id/", h.get)
	g.PUT("/:id/", h.update, requireLogin)
	g.PATCH("/:id/", h.update, requireLogin)
	g.DELETE("/:id/", h.remove, requireLogin)
}

func (h *HotelHandler) list(c echo.Context) error {
	filter := domain.HotelFilter{
		City:      strings.TrimSpace(c.QueryParam("city")),
		PlaceType: domain.PlaceType(strings.TrimSpace(c.QueryParam("place_type"))),
		Limit:     queryInt(c, "limit", 0),
		Offset:    queryInt(c, "offset", 0),
	}
	if filter.PlaceType != "" && !filter.PlaceType.Valid() {
		return writeError(c, invalid("place_type: Select a valid choice."))
	}
	hotels, err := h.hotels.List(c.Request().Context(), CurrentPrincipal(c), filter)
	if err != nil {
		return writeError(c, err)
	}
	return writeList(c, hotels)
}

func (h *HotelHandler) get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	hotel, err := h.hotels.Get(c.Request().Context(), CurrentPrincipal(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, hotel)
}

// create answers 201 for a new hotel and 200 when a partner's existing
// hotel was updated instead.
func (h *HotelHandler) create(c echo.Context) error {
	var req hotelRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody)
	}
	result, err := h.hotels.Create(c.Request().Context(), CurrentPrincipal(c), req.input())
	if err != nil {
		return writeError(c, err)
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	return c.JSON(status, result.Hotel)
}

func (h *HotelHandler) update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req hotelRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody)
	}
	hotel, err := h.hotels.Update(c.Request().Context(), CurrentPrincipal(c), id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, hotel)
}

func (h *HotelHandler) remove(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.hotels.Delete(c.Request().Context(), CurrentPrincipal(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *HotelHandler) me(c echo.Context) error {
	hotel, err := h.hotels.Me(c.Request().Context(), CurrentPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, hotel)
}

func (h *HotelHandler) updateMe(c echo.Context) error {
	var req hotelRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody)
	}
	hotel, err := h.hotels.UpdateMe(c.Request().Context(), CurrentPrincipal(c), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, hotel)
}
