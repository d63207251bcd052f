package userControllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	cartControllers "github.com/Fitzroyal/eco-commerce-api/controllers/cart"
	"github.com/Fitzroyal/eco-commerce-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserInput struct {
	Nombre          string     `json:"nombre" binding:"required"`
	Apellido        string     `json:"apellido" binding:"required"`
	Email           string     `json:"email" binding:"required,email"`
	Password        string     `json:"password" binding:"required"`
	Telefono        string     `json:"telefono"`
	Direccion       string     `json:"direccion"`
	FechaRegistro   *time.Time `json:"fechaRegistro"`
	FechaNacimiento *time.Time `json:"fechaNacimiento"`
	Genero          string     `json:"genero"`
}

type userResource struct {
	models.User
	Links map[string]string `json:"_links"`
}

func userLinks(id uint) map[string]string {
	return map[string]string{
		"self":     fmt.Sprintf("/api/usuarios/%d", id),
		"usuarios": "/api/usuarios",
		"carrito":  fmt.Sprintf("/api/carritos/%d", id),
	}
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	return uint(id), err
}

func (in UserInput) toModel() models.User {
	user := models.User{
		Nombre:          in.Nombre,
		Apellido:        in.Apellido,
		Email:           in.Email,
		Password:        in.Password,
		Telefono:        in.Telefono,
		Direccion:       in.Direccion,
		FechaNacimiento: in.FechaNacimiento,
		Genero:          in.Genero,
	}
	if in.FechaRegistro != nil {
		user.FechaRegistro = *in.FechaRegistro
	}
	return user
}

// GET /api/usuarios
func GetUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Order("id").Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}

		resources := make([]userResource, 0, len(users))
		for _, u := range users {
			resources = append(resources, userResource{User: u, Links: userLinks(u.ID)})
		}
		c.JSON(http.StatusOK, resources)
	}
}

// POST /api/usuarios
func CreateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var count int64
		if err := db.Model(&models.User{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate user"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already registered"})
			return
		}

		user := input.toModel()
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}

		c.Header("Location", fmt.Sprintf("/api/usuarios/%d", user.ID))
		c.JSON(http.StatusCreated, userResource{User: user, Links: userLinks(user.ID)})
	}
}

// GET /api/usuarios/:id
func GetUserByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, userResource{User: user, Links: userLinks(user.ID)})
	}
}

// PUT /api/usuarios/:id
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var input UserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		// Full replace, with the email unique check excluding the user itself.
		var count int64
		if err := db.Model(&models.User{}).
			Where("email = ? AND id <> ?", input.Email, id).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate user"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already registered"})
			return
		}

		replacement := input.toModel()
		replacement.ID = user.ID
		if replacement.FechaRegistro.IsZero() {
			replacement.FechaRegistro = user.FechaRegistro
		}
		if err := db.Save(&replacement).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
		c.JSON(http.StatusOK, userResource{User: replacement, Links: userLinks(replacement.ID)})
	}
}

// DELETE /api/usuarios/:id
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		// The user owns the cart: release its reservations, then delete
		// items, cart, and user in one transaction.
		err = db.Transaction(func(tx *gorm.DB) error {
			if _, err := cartControllers.ClearCart(tx, user.ID); err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", user.ID).Delete(&models.Cart{}).Error; err != nil {
				return err
			}
			return tx.Delete(&user).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
