package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minimarket/storefront/internal/tokens"
)

type Deps struct {
	Auth  *AuthHandler
	Items *ItemsHandler
	Cart  *CartHandler

	Tokens *tokens.Issuer

	// CatalogAdminAuth gates item create/update/delete behind a valid
	// token. Off means anyone can mutate the catalog.
	CatalogAdminAuth bool
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	requireAuth := RequireAuth(d.Tokens)

	auth := e.Group("/auth")
	auth.POST("/signup", d.Auth.Signup)
	auth.POST("/login", d.Auth.Login)

	e.GET("/items", d.Items.List)
	e.GET("/items/:id", d.Items.Get)

	var adminMW []echo.MiddlewareFunc
	if d.CatalogAdminAuth {
		adminMW = append(adminMW, requireAuth)
	}
	e.POST("/items", d.Items.Create, adminMW...)
	e.PUT("/items/:id", d.Items.Update, adminMW...)
	e.DELETE("/items/:id", d.Items.Delete, adminMW...)

	cart := e.Group("/cart", requireAuth)
	cart.GET("", d.Cart.Get)
	cart.POST("/add", d.Cart.Add)
	cart.POST("/update", d.Cart.Update)
	cart.POST("/remove", d.Cart.Remove)
}
