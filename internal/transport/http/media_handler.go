package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
	"github.com/njprem/rs1500_BackEnd/internal/media"
	"github.com/njprem/rs1500_BackEnd/internal/service"
)

type MediaHandler struct {
	images *service.HotelImageService
}

type idsRequest struct {
	IDs []int64 `json:"ids"`
}

type idRequest struct {
	ID int64 `json:"id"`
}

func RegisterMedia(e *echo.Echo, auth *service.AuthService, images *service.HotelImageService) {
	h := &MediaHandler{images: images}

	gallery := e.Group("/api/hotel-images", OptionalAuth(auth))
	gallery.POST("/bulk-delete/", h.bulkDelete, requireLogin)
	resource[domain.HotelImage]{svc: images, filter: "hotel"}.register(gallery)

	library := e.Group("/api/media-library", RequireAuth(auth))
	library.GET("/", h.library)
	library.POST("/upload/", h.upload)
	library.POST("/delete/", h.deleteOne)
	library.POST("/bulk-delete/", h.bulkDelete)
}

func (h *MediaHandler) library(c echo.Context) error {
	hotelID, err := queryID(c, "hotel")
	if err != nil {
		return writeError(c, err)
	}
	images, err := h.images.MediaLibrary(c.Request().Context(), CurrentPrincipal(c), hotelID)
	if err != nil {
		return writeError(c, err)
	}
	return writeList(c, images)
}

// upload takes a multipart "file" field. Staff may pass a "hotel" form
// value to upload into any hotel's gallery.
func (h *MediaHandler) upload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return writeError(c, service.ErrNoFileUploaded)
	}
	var hotelID int64
	if raw := strings.TrimSpace(c.FormValue("hotel")); raw != "" {
		if hotelID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return writeError(c, invalid("hotel: Incorrect type. Expected pk value."))
		}
	}

	src, err := file.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer src.Close()

	img, err := h.images.Upload(c.Request().Context(), CurrentPrincipal(c), hotelID, media.Upload{
		Reader:      src,
		Size:        file.Size,
		FileName:    file.Filename,
		ContentType: file.Header.Get(echo.HeaderContentType),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": img.ID, "image_url": img.ImageURL})
}

func (h *MediaHandler) deleteOne(c echo.Context) error {
	var req idRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errInvalidBody)
	}
	deleted, err := h.images.DeleteFromLibrary(c.Request().Context(), CurrentPrincipal(c), req.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": deleted})
}

func (h *MediaHandler) bulkDelete(c echo.Context) error {
	var req idsRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, service.ErrIDsRequired)
	}
	deleted, err := h.images.BulkDelete(c.Request().Context(), CurrentPrincipal(c), req.IDs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": deleted})
}
