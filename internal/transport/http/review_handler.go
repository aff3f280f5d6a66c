package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/service"
)

type PartnerRequestHandler struct {
	requests *service.PartnerRequestService
}

type partnerRequestStatus struct {
	Status domain.PartnerRequestStatus `json:"status" validate:"required"`
}

// RegisterReviews serves hotel reviews and the "list your property" leads.
func RegisterReviews(e *echo.Echo, auth *service.AuthService, reviews *service.ReviewService, requests *service.PartnerRequestService) {
	g := e.Group("/api/reviews", OptionalAuth(auth))
	r := resource[domain.Review]{svc: reviews, filter: "hotel"}
	g.GET("/", r.list)
	g.GET("/:id/", r.get)
	g.POST("/", r.create, requireLogin)
	g.PUT("/:id/", r.update, requireLogin)
	g.PATCH("/:id/", r.update, requireLogin)
	g.DELETE("/:id/", r.remove, requireLogin)

	h := &PartnerRequestHandler{requests: requests}
	leads := e.Group("/api/partner-requests", OptionalAuth(auth))
	leads.POST("/", h.submit)
	leads.GET("/", h.list, requireLogin)
	leads.GET("/:id/", h.get, requireLogin)
	leads.PUT("/:id/", h.updateStatus, requireLogin)
	leads.PATCH("/:id/", h.updateStatus, requireLogin)
	leads.DELETE("/:id/", h.remove, requireLogin)
}

func (h *PartnerRequestHandler) submit(c echo.Context) error {
	var req domain.PartnerRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody)
	}
	created, err := h.requests.Submit(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *PartnerRequestHandler) list(c echo.Context) error {
	items, err := h.requests.List(c.Request().Context(), CurrentPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return writeList(c, items)
}

func (h *PartnerRequestHandler) get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	r, err := h.requests.Get(c.Request().Context(), CurrentPrincipal(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *PartnerRequestHandler) updateStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req partnerRequestStatus
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	r, err := h.requests.UpdateStatus(c.Request().Context(), CurrentPrincipal(c), id, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *PartnerRequestHandler) remove(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.requests.Delete(c.Request().Context(), CurrentPrincipal(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
