package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/teguhsatriya/furnimart/internal/handlers"
	"github.com/teguhsatriya/furnimart/internal/service/token"
)

type Deps struct {
	AuthHandler     *handlers.AuthHandler
	CatalogHandler  *handlers.CatalogHandler
	CartHandler     *handlers.CartHandler
	WishlistHandler *handlers.WishlistHandler
	AddressHandler  *handlers.AddressHandler
	OrderHandler    *handlers.OrderHandler
	SearchHandler   *handlers.SearchHandler
	Tokens          *token.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)

	v1.GET("/search", d.SearchHandler.Search)

	products := v1.Group("/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.GET("/:id/reviews", d.CatalogHandler.GetReviews)
	products.POST("/:id/reviews", d.CatalogHandler.CreateReview, d.Tokens.RequireUser)

	v1.GET("/categories", d.CatalogHandler.GetCategories)

	cart := v1.Group("/cart", d.Tokens.RequireUser)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.PATCH("", d.CartHandler.SetQuantity)
	cart.DELETE("/:productID", d.CartHandler.RemoveFromCart)
	cart.DELETE("", d.CartHandler.ClearCart)

	wishlist := v1.Group("/wishlist", d.Tokens.RequireUser)
	wishlist.GET("", d.WishlistHandler.GetWishlist)
	wishlist.POST("", d.WishlistHandler.AddToWishlist)
	wishlist.DELETE("/:productID", d.WishlistHandler.RemoveFromWishlist)
	wishlist.GET("/:productID", d.WishlistHandler.Contains)

	addresses := v1.Group("/addresses", d.Tokens.RequireUser)
	addresses.GET("", d.AddressHandler.ListAddresses)
	addresses.POST("", d.AddressHandler.CreateAddress)
	addresses.GET("/:id", d.AddressHandler.GetAddress)
	addresses.PATCH("/:id", d.AddressHandler.PatchAddress)
	addresses.DELETE("/:id", d.AddressHandler.DeleteAddress)

	orders := v1.Group("/orders", d.Tokens.RequireUser)
	orders.POST("/checkout", d.OrderHandler.Checkout)
	orders.GET("", d.OrderHandler.ListMyOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)

	admin := v1.Group("/admin", d.Tokens.RequireAdmin)
	admin.POST("/products", d.CatalogHandler.CreateProduct)
	admin.PATCH("/products/:id", d.CatalogHandler.PatchProduct)
	admin.DELETE("/products/:id", d.CatalogHandler.DeleteProduct)
	admin.POST("/categories", d.CatalogHandler.CreateCategory)
	admin.PATCH("/categories/:id", d.CatalogHandler.PatchCategory)
	admin.DELETE("/categories/:id", d.CatalogHandler.DeleteCategory)
	admin.GET("/orders", d.OrderHandler.ListOrders)
	admin.PATCH("/orders/:id/status", d.OrderHandler.UpdateStatus)
}
