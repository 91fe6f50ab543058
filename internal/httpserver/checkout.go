package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/Skotchmaster/shoplist/internal/inventory"
	"github.com/Skotchmaster/shoplist/internal/logging"
	"github.com/Skotchmaster/shoplist/internal/mykafka"
	"github.com/Skotchmaster/shoplist/internal/payment"
	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	Svc      *inventory.Service
	Payments *payment.Client
	Producer *mykafka.Producer
}

// Start builds the gateway line items and hands the buyer off to the hosted
// checkout page. No store state changes here.
func (h *CheckoutHandler) Start(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.start")

	userID, err := GetID(c)
	if err != nil {
		l.Error("checkout_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	if h.Payments == nil {
		l.Error("checkout_error", "status", 503)
		return c.JSON(http.StatusServiceUnavailable, "payment gateway is not configured")
	}

	items, err := h.Svc.Checkout(ctx, userID)
	if err != nil {
		l.Warn("checkout_error", "status", statusFor(err), "error", err)
		return domainError(c, err)
	}

	url, err := h.Payments.CreateSession(items)
	if err != nil {
		l.Error("checkout_session_error", "status", 502, "error", err)
		return c.JSON(http.StatusBadGateway, "payment gateway error")
	}

	l.Info("checkout session created", "line_items", len(items))
	return c.Redirect(http.StatusSeeOther, url)
}

// Success is the gateway's completed-session callback: the opaque session id
// in the query becomes the transaction id of the finalized purchase.
func (h *CheckoutHandler) Success(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.success")

	userID, err := GetID(c)
	if err != nil {
		l.Error("finalize_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return c.Redirect(http.StatusFound, "/catalog")
	}

	written, err := h.Svc.FinalizePurchase(ctx, userID, sessionID)
	if err != nil {
		l.Error("finalize_error", "status", statusFor(err), "error", err)
		return domainError(c, err)
	}

	if written > 0 {
		pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		event := map[string]any{
			"type":           "purchase_finalized",
			"user_id":        userID,
			"transaction_id": sessionID,
			"records":        written,
		}
		if err := h.Producer.PublishEvent(pubCtx, "purchase_events", sessionID, event); err != nil {
			l.Error("kafka publish error", "error", err)
		}
	}

	l.Info("purchase finalized", "transaction_id", sessionID, "records", written)
	return c.Redirect(http.StatusFound, "/catalog")
}

func (h *CheckoutHandler) Cancel(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/catalog")
}
