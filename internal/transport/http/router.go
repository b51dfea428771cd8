package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/webshop/storefront/internal/handlers"
	authmw "github.com/webshop/storefront/internal/middleware/auth"
)

type Deps struct {
	AuthHandler     *handlers.AuthHandler
	CategoryHandler *handlers.CategoryHandler
	ProductHandler  *handlers.ProductHandler
	CartHandler     *handlers.CartHandler
	OrderHandler    *handlers.OrderHandler
	SearchHandler   *handlers.SearchHandler
	JWTSecret       []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/auth/register", d.AuthHandler.Register)
	e.POST("/auth/login", d.AuthHandler.Login)
	e.POST("/auth/logout", d.AuthHandler.LogOut)

	requireLogin := authmw.RequireLogin(d.JWTSecret)

	e.GET("/categories", d.CategoryHandler.List)
	e.POST("/categories", d.CategoryHandler.Create, requireLogin)

	e.GET("/products", d.ProductHandler.List)
	e.GET("/products/:id", d.ProductHandler.Get)
	e.POST("/products", d.ProductHandler.Create, requireLogin)

	cart := e.Group("/cart", requireLogin)
	cart.GET("", d.CartHandler.List)
	cart.POST("/add", d.CartHandler.Add)
	cart.DELETE("/:id", d.CartHandler.Remove)

	orders := e.Group("/orders", requireLogin)
	orders.POST("/checkout", d.OrderHandler.Checkout)
	orders.GET("", d.OrderHandler.List)

	if d.SearchHandler != nil {
		e.GET("/search", d.SearchHandler.Search)
	}
}
