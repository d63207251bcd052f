package routes

import (
	userControllers "github.com/Fitzroyal/eco-commerce-api/controllers/user"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupUserRoutes registers all "/api/usuarios" endpoints.
func SetupUserRoutes(api *gin.RouterGroup, db *gorm.DB) {
	userGroup := api.Group("/usuarios")
	{
		userGroup.GET("", userControllers.GetUsers(db))          // GET /api/usuarios
		userGroup.POST("", userControllers.CreateUser(db))       // POST /api/usuarios
		userGroup.GET("/:id", userControllers.GetUserByID(db))   // GET /api/usuarios/:id
		userGroup.PUT("/:id", userControllers.UpdateUser(db))    // PUT /api/usuarios/:id
		userGroup.DELETE("/:id", userControllers.DeleteUser(db)) // DELETE /api/usuarios/:id
	}
}
