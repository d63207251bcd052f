package routes

import (
	inventoryControllers "github.com/Fitzroyal/eco-commerce-api/controllers/inventory"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupInventoryRoutes registers all "/api/inventario" endpoints.
func SetupInventoryRoutes(api *gin.RouterGroup, db *gorm.DB) {
	inventoryGroup := api.Group("/inventario")
	{
		inventoryGroup.GET("", inventoryControllers.GetProducts(db))
		inventoryGroup.POST("", inventoryControllers.CreateProduct(db))
		inventoryGroup.GET("/exportar", inventoryControllers.ExportInventoryToExcel(db))
		inventoryGroup.GET("/:id", inventoryControllers.GetProductByID(db))
		inventoryGroup.DELETE("/:id", inventoryControllers.DeleteProduct(db))
		inventoryGroup.PUT("/:id/stock", inventoryControllers.AdjustStockHandler(db))
	}
}
