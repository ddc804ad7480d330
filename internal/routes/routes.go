package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/auth"
	"storefront/internal/handlers"
)

// Handlers groups everything the router serves.
type Handlers struct {
	Products *handlers.ProductHandler
	Cart     *handlers.CartHandler
	Users    *handlers.UserHandler
	Auth     *handlers.AuthHandler
	Orders   *handlers.OrderHandler
	Health   *handlers.HealthHandler
	Metrics  http.Handler
}

func RegisterRoutes(router *gin.Engine, tokens *auth.TokenIssuer, h Handlers) {
	router.GET("/healthz", h.Health.Healthz)
	if h.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.Metrics))
	}

	v1 := router.Group("/v1")
	v1.Use(auth.Authenticate(tokens))
	{
		users := v1.Group("/users")
		users.POST("/register", h.Users.Register)
		users.POST("/login", h.Users.Login)
		users.POST("/complete-google-registration", auth.RequireAuth(), h.Users.CompleteGoogleRegistration)
		users.GET("/me", auth.RequireAuth(), h.Users.Me)
		users.PUT("/me", auth.RequireAuth(), h.Users.UpdateMe)

		google := v1.Group("/auth/google")
		google.GET("/login", h.Auth.GoogleLogin)
		google.GET("/callback", h.Auth.GoogleCallback)

		v1.GET("/products", h.Products.ListProducts)
		v1.GET("/products/:id", h.Products.GetProduct)
		admin := v1.Group("", auth.RequireAdmin())
		admin.POST("/products", h.Products.CreateProduct)
		admin.PATCH("/products/:id", h.Products.UpdateProduct)
		admin.DELETE("/products/:id", h.Products.DeleteProduct)
		admin.GET("/admin/orders", h.Orders.ListAll)

		cart := v1.Group("/cart", auth.RequireAuth())
		cart.GET("", h.Cart.GetCart)
		cart.POST("", h.Cart.AddToCart)
		cart.PUT("", h.Cart.UpdateQuantity)
		cart.DELETE("", h.Cart.RemoveFromCart)

		orders := v1.Group("/orders", auth.RequireAuth())
		orders.POST("", h.Orders.PlaceOrder)
		orders.GET("", h.Orders.ListMine)
		orders.GET("/:id", h.Orders.GetOrder)
	}
}
