package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/shoplist/internal/inventory"
	"github.com/Skotchmaster/shoplist/internal/logging"
	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	Svc *inventory.Service
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := GetID(c)
	if err != nil {
		l.Error("get_cart_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	lines, err := h.Svc.ListCart(ctx, userID)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{"cart": lines})
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := GetID(c)
	if err != nil {
		l.Error("add_to_cart_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		ItemName string `json:"item_name" form:"item_name"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	cart, item, err := h.Svc.ReserveOne(ctx, userID, req.ItemName)
	if err != nil {
		l.Warn("add_to_cart_error", "status", statusFor(err), "error", err)
		return domainError(c, err)
	}

	l.Info("item reserved", "item", item.Name, "stock_left", item.Quantity)
	return c.JSON(http.StatusOK, echo.Map{"cart": cart, "stock": item.Quantity})
}

func (h *CartHandler) ReleaseLine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.release")

	userID, err := GetID(c)
	if err != nil {
		l.Error("release_line_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	id := parseIntDefault(c.Param("id"), 0)
	if id <= 0 {
		return c.JSON(http.StatusBadRequest, "invalid id")
	}

	cart, item, err := h.Svc.ReleaseLine(ctx, userID, uint(id))
	if err != nil {
		l.Warn("release_line_error", "status", statusFor(err), "error", err)
		return domainError(c, err)
	}

	resp := echo.Map{"cart": cart}
	if item != nil {
		resp["stock"] = item.Quantity
	}

	l.Info("cart line released", "line_id", id)
	return c.JSON(http.StatusOK, resp)
}
