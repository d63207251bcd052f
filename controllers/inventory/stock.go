package inventoryControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Fitzroyal/eco-commerce-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// AdjustStock applies a signed delta to a product's stock counter and returns
// the updated product. The update and the non-negative check run in a single
// guarded UPDATE, so two concurrent debits cannot both pass against a stale
// read. Callers composing larger flows pass their transaction handle as db.
func AdjustStock(db *gorm.DB, productID uint, delta int) (*models.Product, error) {
	res := db.Model(&models.Product{}).
		Where("id = ? AND stock + ? >= 0", productID, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return nil, res.Error
	}

	var product models.Product
	if res.RowsAffected == 0 {
		// Nothing matched: either the product is missing or the delta would
		// drive stock negative.
		if err := db.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, err
		}
		return nil, ErrInsufficientStock
	}

	if err := db.First(&product, "id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// PUT /api/inventario/:id/stock?cantidad=N
func AdjustStockHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := parseID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}
		delta, err := strconv.Atoi(c.Query("cantidad"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cantidad must be an integer"})
			return
		}

		var product *models.Product
		txErr := db.Transaction(func(tx *gorm.DB) error {
			product, err = AdjustStock(tx, id, delta)
			return err
		})
		switch {
		case errors.Is(txErr, ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(txErr, ErrInsufficientStock):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient stock"})
		case txErr != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to adjust stock"})
		default:
			c.JSON(http.StatusOK, productResource{Product: *product, Links: productLinks(product.ID)})
		}
	}
}
