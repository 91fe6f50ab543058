package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/shoplist/internal/middleware/session"
	"github.com/labstack/echo/v4"
)

type Deps struct {
	Auth     *AuthHandler
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	History  *HistoryHandler
	Sessions *session.Manager
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := e.Group("/auth")
	auth.GET("/login", d.Auth.Login)
	auth.GET("/callback", d.Auth.Callback)
	auth.POST("/logout", d.Auth.Logout)

	catalog := e.Group("/catalog")
	catalog.GET("", d.Catalog.List)
	if d.Catalog.ES != nil {
		catalog.GET("/search", d.Catalog.Search)
	}
	catalog.POST("", d.Catalog.Create, d.Sessions.RequireLogin)
	catalog.PATCH("/:id", d.Catalog.Patch, d.Sessions.RequireLogin)

	cart := e.Group("/cart")
	cart.Use(d.Sessions.RequireLogin)
	cart.GET("", d.Cart.GetCart)
	cart.POST("", d.Cart.AddToCart)
	cart.DELETE("/:id", d.Cart.ReleaseLine)

	checkout := e.Group("/checkout")
	checkout.Use(d.Sessions.RequireLogin)
	checkout.POST("", d.Checkout.Start)
	checkout.GET("/success", d.Checkout.Success)
	checkout.GET("/cancel", d.Checkout.Cancel)

	e.GET("/history", d.History.Get, d.Sessions.RequireLogin)
}
