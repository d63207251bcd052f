package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up the user, inventory,
// and cart route groups under /api.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	api := r.Group("/api")

	SetupUserRoutes(api, db)
	SetupInventoryRoutes(api, db)
	SetupCartRoutes(api, db)
}
