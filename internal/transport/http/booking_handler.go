package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/service"
)

type BookingHandler struct {
	bookings     *service.BookingService
	reservations *service.ReservationService
}

type bookingStatusRequest struct {
	Status domain.BookingStatus `json:"status" validate:"required"`
}

func RegisterBookings(e *echo.Echo, auth *service.AuthService, bookings *service.BookingService, reservations *service.ReservationService) {
	h := &BookingHandler{bookings: bookings, reservations: reservations}

	b := e.Group("/api/bookings", RequireAuth(auth))
	b.GET("/", h.listBookings)
	b.POST("/", h.createBooking)
	b.GET("/:id/", h.getBooking)
	b.PUT("/:id/", h.updateBooking)
	b.PATCH("/:id/", h.updateBooking)
	b.DELETE("/:id/", h.deleteBooking)

	r := e.Group("/api/reservations", OptionalAuth(auth))
	r.GET("/", h.listReservations)
	r.POST("/", h.createReservation)
	r.GET("/my/", h.myReservations, requireLogin)
	r.GET("/:id/", h.getReservation)
	r.PUT("/:id/", h.updateReservation, requireLogin)
	r.PATCH("/:id/", h.updateReservation, requireLogin)
	r.DELETE("/:id/", h.deleteReservation, requireLogin)
}

func (h *BookingHandler) listBookings(c echo.Context) error {
	items, err := h.bookings.List(c.Request().Context(), CurrentPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return writeList(c, items)
}

func (h *BookingHandler) getBooking(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	b, err := h.bookings.Get(c.Request().Context(), CurrentPrincipal(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// createBooking prices the stay server side; any total_price sent is ignored.
func (h *BookingHandler) createBooking(c echo.Context) error {
	body, err := readJSON(c)
	if err != nil {
		return writeError(c, err)
	}
	b := domain.Booking{Adults: 1, RoomsCount: 1}
	if err := decodeInto(body, &b); err != nil {
		return writeError(c, err)
	}
	created, err := h.bookings.Create(c.Request().Context(), CurrentPrincipal(c), b)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *BookingHandler) updateBooking(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req bookingStatusRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	b, err := h.bookings.UpdateStatus(c.Request().Context(), CurrentPrincipal(c), id, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) deleteBooking(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.bookings.Delete(c.Request().Context(), CurrentPrincipal(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BookingHandler) listReservations(c echo.Context) error {
	hotelID, err := queryID(c, "hotel")
	if err != nil {
		return writeError(c, err)
	}
	items, err := h.reservations.List(c.Request().Context(), CurrentPrincipal(c), hotelID)
	if err != nil {
		return writeError(c, err)
	}
	return writeList(c, items)
}

func (h *BookingHandler) myReservations(c echo.Context) error {
	items, err := h.reservations.Mine(c.Request().Context(), CurrentPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return writeList(c, items)
}

func (h *BookingHandler) getReservation(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	r, err := h.reservations.Get(c.Request().Context(), CurrentPrincipal(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// createReservation is open to anonymous guests.
func (h *BookingHandler) createReservation(c echo.Context) error {
	body, err := readJSON(c)
	if err != nil {
		return writeError(c, err)
	}
	r := domain.Reservation{Adults: 1, RoomsCount: 1}
	if err := decodeInto(body, &r); err != nil {
		return writeError(c, err)
	}
	created, err := h.reservations.Create(c.Request().Context(), r)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *BookingHandler) updateReservation(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req bookingStatusRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	r, err := h.reservations.UpdateStatus(c.Request().Context(), CurrentPrincipal(c), id, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *BookingHandler) deleteReservation(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.reservations.Delete(c.Request().Context(), CurrentPrincipal(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
