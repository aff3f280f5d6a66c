package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/njprem/rs1500_BackEnd/internal/service"
)

const maxJSONBody = 1 << 20

var (
	errInvalidBody = invalid("JSON parse error.")
	errNotFound    = &service.DetailError{Kind: service.ErrNotFound, Detail: "Not found."}
)

func invalid(msg string) error {
	return &service.DetailError{Kind: service.ErrValidation, Detail: msg}
}

// requestValidator plugs validator/v10 into echo and reports fields by
// their JSON name.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestValidator{validate: v}
}

func (rv *requestValidator) Validate(i any) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return invalid(err.Error())
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return invalid(fe.Field() + ": This field is required.")
	case "email":
		return invalid(fe.Field() + ": Enter a valid email address.")
	case "len":
		return invalid(fmt.Sprintf("%s: Ensure this field has exactly %s characters.", fe.Field(), fe.Param()))
	case "oneof":
		return invalid(fmt.Sprintf("%s: %q is not a valid choice.", fe.Field(), fe.Value()))
	}
	return invalid(fe.Field() + ": Invalid value.")
}

// bind decodes the request into dst and validates it.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return errInvalidBody
	}
	return c.Validate(dst)
}

// readJSON returns the raw JSON body; an empty body reads as {}.
func readJSON(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxJSONBody))
	if err != nil {
		return nil, errInvalidBody
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return []byte("{}"), nil
	}
	if !json.Valid(body) {
		return nil, errInvalidBody
	}
	return body, nil
}

// decodeInto overlays body onto v. Fields absent from body keep their
// value, which gives PATCH semantics for updates and defaults for creates.
func decodeInto(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return invalid(typeErr.Field + ": A valid value is required.")
		}
		return invalid(err.Error())
	}
	return nil
}

// overlay returns an update function that applies body to the stored row.
func overlay[T any](body []byte) func(*T) error {
	return func(v *T) error {
		return decodeInto(body, v)
	}
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errNotFound
	}
	return id, nil
}

// queryID parses an optional numeric query parameter such as ?hotel=.
func queryID(c echo.Context, name string) (*int64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, invalid(name + ": Select a valid choice.")
	}
	return &id, nil
}

func queryInt(c echo.Context, name string, def int) int {
	if v, err := strconv.Atoi(c.QueryParam(name)); err == nil && v >= 0 {
		return v
	}
	return def
}

// writeList renders items as a JSON array, never null.
func writeList[T any](c echo.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, items)
}
