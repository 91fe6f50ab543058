package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/shoplist/internal/inventory"
	"github.com/Skotchmaster/shoplist/internal/logging"
	"github.com/labstack/echo/v4"
)

type HistoryHandler struct {
	Svc *inventory.Service
}

func (h *HistoryHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "history.get")

	userID, err := GetID(c)
	if err != nil {
		l.Error("history_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	transactions, err := h.Svc.PurchaseHistory(ctx, userID)
	if err != nil {
		l.Error("history_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{"transactions": transactions})
}
