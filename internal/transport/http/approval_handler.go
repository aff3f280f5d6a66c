package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/njprem/rs1500_BackEnd/internal/service"
	"github.com/njprem/rs1500_BackEnd/internal/util"
)

type ApprovalHandler struct {
	approvals *service.ApprovalService
}

type approvalActionRequest struct {
	HotelID int64  `json:"hotel_id"`
	Action  string `json:"action"`
}

func RegisterApprovals(e *echo.Echo, auth *service.AuthService, approvals *service.ApprovalService) {
	h := &ApprovalHandler{approvals: approvals}

	links := e.Group("/api/hotel-partner", OptionalAuth(auth))
	links.GET("/approve/:token/", h.approveLink)
	links.POST("/approve/:token/", h.approveLink)
	links.GET("/reject/:token/", h.rejectLink)
	links.POST("/reject/:token/", h.rejectLink)

	admin := e.Group("/api/admin/approve-hotels", RequireAuth(auth))
	admin.GET("/", h.listPending, RequireAdmin())
	admin.POST("/", h.submit)

	pending := e.Group("/api/hotel-partner-approvals", RequireAuth(auth), RequireAdmin())
	pending.GET("/", h.listPending)
	pending.GET("/:id/", h.getPending)
}

func (h *ApprovalHandler) approveLink(c echo.Context) error {
	return h.resolveLink(c, service.ActionApprove)
}

func (h *ApprovalHandler) rejectLink(c echo.Context) error {
	return h.resolveLink(c, service.ActionReject)
}

// resolveLink answers in plain text; the owner opens these links from the
// notification email.
func (h *ApprovalHandler) resolveLink(c echo.Context, action service.ApprovalAction) error {
	outcome, err := h.approvals.ResolveLink(c.Request().Context(), CurrentPrincipal(c), action, c.Param("token"))
	if err != nil {
		return writeTextError(c, err)
	}
	return c.String(http.StatusOK, outcome.Detail)
}

// submit is the admin approve/reject action. A partner posting here
// requests approval for their own hotel instead.
func (h *ApprovalHandler) submit(c echo.Context) error {
	principal := CurrentPrincipal(c)
	if !principal.IsAdmin() {
		msg, err := h.approvals.RequestApproval(c.Request().Context(), principal)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, util.Detail(msg))
	}

	var req approvalActionRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody)
	}
	if req.HotelID <= 0 {
		return writeError(c, invalid("hotel_id: This field is required."))
	}
	action := service.ApprovalAction(strings.ToLower(strings.TrimSpace(req.Action)))
	outcome, err := h.approvals.ApplyAction(c.Request().Context(), principal, req.HotelID, action)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Detail(outcome.Detail))
}

func (h *ApprovalHandler) listPending(c echo.Context) error {
	pending, err := h.approvals.ListPending(c.Request().Context(), CurrentPrincipal(c))
	if err != nil {
		return writeError(c, err)
	}
	return writeList(c, pending)
}

func (h *ApprovalHandler) getPending(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	pending, err := h.approvals.GetPending(c.Request().Context(), CurrentPrincipal(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, pending)
}
