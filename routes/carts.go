package routes

import (
	cartControllers "github.com/Fitzroyal/eco-commerce-api/controllers/cart"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupCartRoutes registers all "/api/carritos" endpoints.
func SetupCartRoutes(api *gin.RouterGroup, db *gorm.DB) {
	cartGroup := api.Group("/carritos")
	{
		cartGroup.GET("/:usuarioId", cartControllers.GetOrCreateCartHandler(db))
		cartGroup.POST("/:usuarioId/items", cartControllers.AddCartItemHandler(db))
		cartGroup.PUT("/:usuarioId/items/:productoId", cartControllers.UpdateCartItemQuantityHandler(db))
		cartGroup.DELETE("/:usuarioId/items/:productoId", cartControllers.RemoveCartItemHandler(db))
		cartGroup.DELETE("/:usuarioId/vaciar", cartControllers.ClearCartHandler(db))
	}
}
