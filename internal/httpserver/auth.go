package httpserver

import (
	"net/http"
	"time"

	"github.com/Skotchmaster/shoplist/internal/authclient"
	"github.com/Skotchmaster/shoplist/internal/identity"
	"github.com/Skotchmaster/shoplist/internal/logging"
	"github.com/Skotchmaster/shoplist/internal/middleware/session"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const stateCookie = "oauth_state"

type AuthHandler struct {
	OIDC     *authclient.Client
	Identity *identity.Service
	Sessions *session.Manager
}

// Login sends the browser to the provider. The random state round-trips
// through a short-lived cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	state := uuid.NewString()
	c.SetCookie(session.CreateCookie(stateCookie, state, "/auth", time.Now().Add(10*time.Minute)))
	return c.Redirect(http.StatusFound, h.OIDC.AuthCodeURL(state))
}

func (h *AuthHandler) Callback(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.callback")

	ck, err := c.Cookie(stateCookie)
	if err != nil || ck.Value == "" || ck.Value != c.QueryParam("state") {
		l.Warn("callback_state_mismatch", "status", 401)
		return c.JSON(http.StatusUnauthorized, "state mismatch")
	}

	code := c.QueryParam("code")
	if code == "" {
		l.Warn("callback_without_code", "status", 400)
		return c.JSON(http.StatusBadRequest, "code required")
	}

	claims, err := h.OIDC.Exchange(ctx, code)
	if err != nil {
		l.Error("callback_exchange_error", "status", 401, "error", err)
		return c.JSON(http.StatusUnauthorized, "login failed")
	}

	acc, err := h.Identity.Reconcile(ctx, claims)
	if err != nil {
		l.Error("callback_reconcile_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	if err := h.Sessions.Issue(c, acc); err != nil {
		l.Error("callback_session_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	l.Info("user logged in", "account_id", acc.ID, "role", acc.Role)
	return c.Redirect(http.StatusFound, "/catalog")
}

func (h *AuthHandler) Logout(c echo.Context) error {
	h.Sessions.Clear(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
