package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/admin"
	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/handlers"
	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/middleware/session"
)

type Deps struct {
	DB              *gorm.DB
	Gate            *admin.Gate
	ProductHandler  *handlers.ProductHandler
	CartHandler     *handlers.CartHandler
	CheckoutHandler *handlers.CheckoutHandler
	AdminHandler    *handlers.AdminHandler
	SearchHandler   *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)

	// Search runs only when Elasticsearch is configured.
	if d.SearchHandler != nil {
		v1.GET("/search", d.SearchHandler.Handler)
	}

	cart := v1.Group("/cart", session.Middleware())
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.PATCH("", d.CartHandler.UpdateQuantity)
	cart.GET("/total", d.CartHandler.GetTotal)
	cart.DELETE("/:product_id/:size", d.CartHandler.DeleteFromCart)

	v1.POST("/checkout", d.CheckoutHandler.Checkout, session.Middleware())

	adm := v1.Group("/admin")
	adm.POST("/login", d.AdminHandler.Login)

	guarded := adm.Group("", d.Gate.RequireAdmin)
	guarded.GET("/stats", d.AdminHandler.Stats)
	guarded.GET("/orders", d.AdminHandler.RecentOrders)
}
