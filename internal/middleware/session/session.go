package session

import (
	"net/http"
	"time"

	"github.com/Skotchmaster/shoplist/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	CookieName = "session"
	TTL        = 24 * time.Hour
)

// Manager signs and checks the session cookie issued after an OIDC login.
// There is no refresh flow: when the cookie expires the user goes back
// through the provider.
type Manager struct {
	Secret []byte
}

func CreateCookie(name string, value string, path string, expTime time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expTime,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}

	return cookie
}

func (m *Manager) Issue(c echo.Context, acc *models.Account) error {
	exp := time.Now().Add(TTL)
	claims := jwt.MapClaims{
		"sub":   acc.ID,
		"role":  string(acc.Role),
		"email": acc.Email,
		"exp":   exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.Secret)
	if err != nil {
		return err
	}

	c.SetCookie(CreateCookie(CookieName, signed, "/", exp))
	return nil
}

func (m *Manager) Clear(c echo.Context) {
	expired := time.Now().Add(-1 * time.Hour)
	c.SetCookie(CreateCookie(CookieName, "", "/", expired))
}

// RequireLogin parses the session cookie and puts user id, role and email
// into the echo context. Role enforcement stays in the inventory service; the
// middleware only establishes who is calling.
func (m *Manager) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(CookieName)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "login required")
		}

		token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, echo.NewHTTPError(http.StatusUnauthorized, "unexpected signing method")
			}
			return m.Secret, nil
		})
		if err != nil || !token.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
		}

		sub, ok := claims["sub"].(float64)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
		}
		role, _ := claims["role"].(string)
		if !models.Role(role).Valid() {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
		}
		email, _ := claims["email"].(string)

		c.Set("userID", uint(sub))
		c.Set("role", models.Role(role))
		c.Set("email", email)

		return next(c)
	}
}
