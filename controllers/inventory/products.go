package inventoryControllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Fitzroyal/eco-commerce-api/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductInput struct {
	Nombre      string          `json:"nombre" binding:"required"`
	Descripcion string          `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock"`
}

type productResource struct {
	models.Product
	Links map[string]string `json:"_links"`
}

func productLinks(id uint) map[string]string {
	self := fmt.Sprintf("/api/inventario/%d", id)
	return map[string]string{
		"self":         self,
		"inventario":   "/api/inventario",
		"ajustarStock": self + "/stock",
	}
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	return uint(id), err
}

// GET /api/inventario
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Order("id").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		resources := make([]productResource, 0, len(products))
		for _, p := range products {
			resources = append(resources, productResource{Product: p, Links: productLinks(p.ID)})
		}
		c.JSON(http.StatusOK, resources)
	}
}

// POST /api/inventario
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.Precio.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "precio must not be negative"})
			return
		}
		if input.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock must not be negative"})
			return
		}

		// Explicit duplicate check; the unique column is the backstop.
		var count int64
		if err := db.Model(&models.Product{}).Where("nombre = ?", input.Nombre).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A product with that name already exists"})
			return
		}

		product := models.Product{
			Nombre:      input.Nombre,
			Descripcion: input.Descripcion,
			Precio:      input.Precio,
			Stock:       input.Stock,
		}
		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		c.Header("Location", fmt.Sprintf("/api/inventario/%d", product.ID))
		c.JSON(http.StatusCreated, productResource{Product: product, Links: productLinks(product.ID)})
	}
}

// GET /api/inventario/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusOK, productResource{Product: product, Links: productLinks(product.ID)})
	}
}

// DELETE /api/inventario/:id
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		if err := db.Delete(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
