package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/njprem/rs1500_BackEnd/internal/domain"
)

// crudService is the shape shared by the hotel-owned catalogue services.
type crudService[T any] interface {
	List(ctx context.Context, p *domain.Principal, filter *int64) ([]T, error)
	Get(ctx context.Context, p *domain.Principal, id int64) (*T, error)
	Create(ctx context.Context, p *domain.Principal, v T) (*T, error)
	Update(ctx context.Context, p *domain.Principal, id int64, apply func(*T) error) (*T, error)
	Delete(ctx context.Context, p *domain.Principal, id int64) error
}

// resource serves list/create/retrieve/update/delete for one collection.
// filter names the optional numeric query parameter passed to List.
type resource[T any] struct {
	svc    crudService[T]
	filter string
	init   func() T
}

func (r resource[T]) register(g *echo.Group) {
	g.GET("/", r.list)
	g.POST("/", r.create)
	g.GET("/:id/", r.get)
	g.PUT("/:id/", r.update)
	g.PATCH("/:id/", r.update)
	g.DELETE("/:id/", r.remove)
}

func (r resource[T]) list(c echo.Context) error {
	var filter *int64
	if r.filter != "" {
		var err error
		if filter, err = queryID(c, r.filter); err != nil {
			return writeError(c, err)
		}
	}
	items, err := r.svc.List(c.Request().Context(), CurrentPrincipal(c), filter)
	if err != nil {
		return writeError(c, err)
	}
	return writeList(c, items)
}

func (r resource[T]) get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	item, err := r.svc.Get(c.Request().Context(), CurrentPrincipal(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (r resource[T]) create(c echo.Context) error {
	body, err := readJSON(c)
	if err != nil {
		return writeError(c, err)
	}
	var v T
	if r.init != nil {
		v = r.init()
	}
	if err := decodeInto(body, &v); err != nil {
		return writeError(c, err)
	}
	created, err := r.svc.Create(c.Request().Context(), CurrentPrincipal(c), v)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (r resource[T]) update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	body, err := readJSON(c)
	if err != nil {
		return writeError(c, err)
	}
	updated, err := r.svc.Update(c.Request().Context(), CurrentPrincipal(c), id, overlay[T](body))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (r resource[T]) remove(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := r.svc.Delete(c.Request().Context(), CurrentPrincipal(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
