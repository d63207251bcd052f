package cartControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	inventoryControllers "github.com/Fitzroyal/eco-commerce-api/controllers/inventory"
	"github.com/Fitzroyal/eco-commerce-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrItemNotFound    = errors.New("cart item not found")
	ErrInvalidQuantity = errors.New("invalid quantity")
)

type CartItemInput struct {
	ProductoID uint `json:"productoId" binding:"required"`
	Cantidad   int  `json:"cantidad" binding:"required"`
}

// GetOrCreateCart returns the user's cart, creating an empty one on first use.
func GetOrCreateCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var cart models.Cart
	err := db.Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		cart = models.Cart{UserID: userID, Items: []models.CartItem{}}
		if err := db.Create(&cart).Error; err != nil {
			return nil, err
		}
	}
	return &cart, nil
}

// AddCartItem reserves qty units of a product in the user's cart. A repeated
// add for the same product merges into the existing item. The stock check
// covers the incremental quantity only: whatever is already in the cart was
// debited from stock when it went in, so only the new units compete with the
// remaining stock.
func AddCartItem(db *gorm.DB, userID, productID uint, qty int) (*models.CartItem, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	var item models.CartItem
	err := db.Transaction(func(tx *gorm.DB) error {
		cart, err := GetOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		// Debit first; a missing product or an insufficient delta rolls the
		// whole transaction back before any item row is touched.
		if _, err := inventoryControllers.AdjustStock(tx, productID, -qty); err != nil {
			return err
		}

		err = tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error
		switch {
		case err == nil:
			item.Cantidad += qty
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{CartID: cart.ID, ProductID: productID, Cantidad: qty}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		default:
			return err
		}

		if err := tx.First(&item.Product, "id = ?", productID).Error; err != nil {
			return err
		}
		return touchCart(tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// SetCartItemQuantity sets an existing item to newQty, adjusting stock by the
// difference. newQty == 0 removes the item and returns the full reservation
// to stock; the removed result is reported through the second return value.
func SetCartItemQuantity(db *gorm.DB, userID, productID uint, newQty int) (*models.CartItem, bool, error) {
	if newQty < 0 {
		return nil, false, ErrInvalidQuantity
	}

	var (
		item    models.CartItem
		removed bool
	)
	err := db.Transaction(func(tx *gorm.DB) error {
		cart, err := GetOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		if err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}

		delta := newQty - item.Cantidad

		if newQty == 0 {
			if _, err := inventoryControllers.AdjustStock(tx, productID, item.Cantidad); err != nil {
				return err
			}
			if err := tx.Delete(&item).Error; err != nil {
				return err
			}
			removed = true
			return touchCart(tx, cart.ID)
		}

		// Debit when growing, credit when shrinking. A zero delta is a no-op
		// on stock.
		if _, err := inventoryControllers.AdjustStock(tx, productID, -delta); err != nil {
			return err
		}
		item.Cantidad = newQty
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		if err := tx.First(&item.Product, "id = ?", productID).Error; err != nil {
			return err
		}
		return touchCart(tx, cart.ID)
	})
	if err != nil {
		return nil, false, err
	}
	return &item, removed, nil
}

// RemoveCartItem deletes a product from the user's cart and returns its
// reservation to stock. Reports whether an item was actually removed.
func RemoveCartItem(db *gorm.DB, userID, productID uint) (bool, error) {
	var removed bool
	err := db.Transaction(func(tx *gorm.DB) error {
		cart, err := GetOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		var item models.CartItem
		if err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if _, err := inventoryControllers.AdjustStock(tx, productID, item.Cantidad); err != nil {
			return err
		}
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		removed = true
		return touchCart(tx, cart.ID)
	})
	return removed, err
}

// ClearCart credits every reserved quantity back to stock and empties the
// cart. The cart row itself persists; clearing an already-empty cart still
// reports true.
func ClearCart(db *gorm.DB, userID uint) (bool, error) {
	var cleared bool
	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var cart models.Cart
		if err := tx.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		for _, item := range cart.Items {
			if _, err := inventoryControllers.AdjustStock(tx, item.ProductID, item.Cantidad); err != nil {
				return err
			}
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		cleared = true
		return touchCart(tx, cart.ID)
	})
	return cleared, err
}

func touchCart(tx *gorm.DB, cartID uint) error {
	return tx.Model(&models.Cart{}).Where("id = ?", cartID).
		Update("updated_at", time.Now()).Error
}

// -------- Handlers --------

type cartItemResource struct {
	models.CartItem
	Links map[string]string `json:"_links"`
}

type cartResource struct {
	models.Cart
	Links map[string]string `json:"_links"`
}

func cartLinks(userID uint) map[string]string {
	self := fmt.Sprintf("/api/carritos/%d", userID)
	return map[string]string{
		"self":        self,
		"agregarItem": self + "/items",
		"vaciar":      self + "/vaciar",
	}
}

func itemLinks(userID, productID uint) map[string]string {
	return map[string]string{
		"carrito":            fmt.Sprintf("/api/carritos/%d", userID),
		"actualizarCantidad": fmt.Sprintf("/api/carritos/%d/items/%d", userID, productID),
		"eliminarItem":       fmt.Sprintf("/api/carritos/%d/items/%d", userID, productID),
	}
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	return uint(id), err
}

// GET /api/carritos/:usuarioId
func GetOrCreateCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := parseID(c.Param("usuarioId"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		cart, err := GetOrCreateCart(db, userID)
		switch {
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		default:
			c.JSON(http.StatusOK, cartResource{Cart: *cart, Links: cartLinks(userID)})
		}
	}
}

// POST /api/carritos/:usuarioId/items
func AddCartItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := parseID(c.Param("usuarioId"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := AddCartItem(db, userID, input.ProductoID, input.Cantidad)
		switch {
		case errors.Is(err, ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": "cantidad must be positive"})
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, inventoryControllers.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, inventoryControllers.ErrInsufficientStock):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient stock"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
		default:
			c.JSON(http.StatusOK, cartItemResource{CartItem: *item, Links: itemLinks(userID, item.ProductID)})
		}
	}
}

// PUT /api/carritos/:usuarioId/items/:productoId?nuevaCantidad=N
func UpdateCartItemQuantityHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := parseID(c.Param("usuarioId"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		productID, err := parseID(c.Param("productoId"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		newQty, err := strconv.Atoi(c.Query("nuevaCantidad"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nuevaCantidad must be an integer"})
			return
		}

		item, removed, err := SetCartItemQuantity(db, userID, productID, newQty)
		switch {
		case errors.Is(err, ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": "nuevaCantidad must not be negative"})
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, ErrItemNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product is not in the cart"})
		case errors.Is(err, inventoryControllers.ErrInsufficientStock):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient stock"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
		case removed:
			c.JSON(http.StatusOK, gin.H{"eliminado": true, "_links": cartLinks(userID)})
		default:
			c.JSON(http.StatusOK, cartItemResource{CartItem: *item, Links: itemLinks(userID, item.ProductID)})
		}
	}
}

// DELETE /api/carritos/:usuarioId/items/:productoId
func RemoveCartItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := parseID(c.Param("usuarioId"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		productID, err := parseID(c.Param("productoId"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		removed, err := RemoveCartItem(db, userID, productID)
		switch {
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove cart item"})
		case !removed:
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		default:
			c.Status(http.StatusNoContent)
		}
	}
}

// DELETE /api/carritos/:usuarioId/vaciar
func ClearCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := parseID(c.Param("usuarioId"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		cleared, err := ClearCart(db, userID)
		switch {
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		case !cleared:
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
		default:
			c.Status(http.StatusNoContent)
		}
	}
}
