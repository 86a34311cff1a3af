package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	usersports "github.com/AhmetSulu/online-shopping-api/internal/domains/users/ports"
)

// Handlers bundles the transport adapters for every bounded context.
type Handlers struct {
	Orders   OrderAPI
	Products ProductAPI
	Auth     AuthAPI
	Settings SettingsAPI

	// Users backs the RequireAuth middleware on protected routes.
	Users usersports.Service
}

// NewRouter builds the gin engine with all routes registered. Extra
// middleware (otelgin, maintenance) runs before every route.
func NewRouter(h Handlers, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	for _, mw := range middleware {
		if mw != nil {
			router.Use(mw)
		}
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)
	auth.POST("/change-password", RequireAuth(h.Users), h.Auth.ChangePassword)

	products := v1.Group("/products")
	products.GET("", h.Products.GetAllProducts)
	products.GET("/:productId", h.Products.GetProduct)
	products.POST("", h.Products.AddProduct)
	products.PUT("/:productId", h.Products.UpdateProduct)
	products.PATCH("/:productId/stock", h.Products.UpdateStock)
	products.DELETE("/:productId", h.Products.DeleteProduct)

	orders := v1.Group("/orders")
	orders.GET("", h.Orders.GetAllOrders)
	orders.GET("/:orderId", h.Orders.GetOrder)
	orders.POST("", h.Orders.CreateOrder)
	orders.PUT("/:orderId", h.Orders.UpdateOrder)
	orders.DELETE("/:orderId", h.Orders.DeleteOrder)

	settings := v1.Group("/settings")
	settings.GET("", h.Settings.GetSettings)
	settings.PUT("/maintenance", h.Settings.ToggleMaintenance)

	return router
}
