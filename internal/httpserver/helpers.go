package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Skotchmaster/shoplist/internal/inventory"
	"github.com/Skotchmaster/shoplist/internal/models"
	"github.com/labstack/echo/v4"
)

func GetID(c echo.Context) (uint, error) {
	v := c.Get("userID")
	id, ok := v.(uint)
	if !ok || id == 0 {
		return 0, errors.New("unauthorized")
	}
	return id, nil
}

func GetRole(c echo.Context) models.Role {
	if role, ok := c.Get("role").(models.Role); ok {
		return role
	}
	return models.RoleUser
}

// statusFor maps the inventory error taxonomy to client-visible statuses.
// Anything outside the taxonomy is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, inventory.ErrValidation),
		errors.Is(err, inventory.ErrEmptyCart),
		errors.Is(err, inventory.ErrNoValidLineItems):
		return http.StatusBadRequest
	case errors.Is(err, inventory.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrOutOfStock),
		errors.Is(err, inventory.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, inventory.ErrUnauthorized):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func domainError(c echo.Context, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		return c.JSON(code, "internal error")
	}
	return c.JSON(code, err.Error())
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
