package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Fitzroyal/eco-commerce-api/models"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
	))

	r := gin.New()
	SetupRoutes(r, db)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Nombre: "Juan", Apellido: "Perez", Email: email, Password: "secreto"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, nombre string, stock int) models.Product {
	t.Helper()
	product := models.Product{Nombre: nombre, Precio: decimal.NewFromFloat(4.50), Stock: stock}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func TestUserLifecycle(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/usuarios", gin.H{
		"nombre":   "Juan",
		"apellido": "Perez",
		"email":    "juan.perez@example.com",
		"password": "secreto",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody(t, w)
	id := created["id"].(float64)
	assert.Equal(t, fmt.Sprintf("/api/usuarios/%.0f", id), w.Header().Get("Location"))
	assert.NotEmpty(t, created["fechaRegistro"], "registration date defaults when unset")
	assert.Contains(t, created, "_links")

	w = doJSON(t, r, http.MethodGet, "/api/usuarios", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/usuarios/%.0f", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/usuarios/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/usuarios/%.0f", id), gin.H{
		"nombre":   "Juana",
		"apellido": "Perez",
		"email":    "juan.perez@example.com",
		"password": "secreto",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Juana", decodeBody(t, w)["nombre"])

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/usuarios/%.0f", id), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/usuarios/%.0f", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateUserValidation(t *testing.T) {
	r, db := setupRouter(t)
	seedUser(t, db, "juan.perez@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/usuarios", gin.H{"nombre": "Juan"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/usuarios", gin.H{
		"nombre":   "Otro",
		"apellido": "Perez",
		"email":    "juan.perez@example.com",
		"password": "secreto",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "duplicate email is rejected")
}

func TestProductEndpoints(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/inventario", gin.H{
		"nombre":      "Cafe organico",
		"descripcion": "Tostado medio",
		"precio":      12.50,
		"stock":       10,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody(t, w)
	id := created["id"].(float64)
	assert.Equal(t, fmt.Sprintf("/api/inventario/%.0f", id), w.Header().Get("Location"))

	w = doJSON(t, r, http.MethodPost, "/api/inventario", gin.H{
		"nombre": "Te verde",
		"precio": -1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "negative price is rejected")

	w = doJSON(t, r, http.MethodPost, "/api/inventario", gin.H{
		"nombre": "Cafe organico",
		"precio": 3,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "duplicate name is rejected")

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/inventario/%.0f", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/inventario/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/inventario/%.0f", id), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/inventario/%.0f", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStockEndpoint(t *testing.T) {
	r, db := setupRouter(t)
	product := seedProduct(t, db, "Cafe organico", 10)

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/inventario/%d/stock?cantidad=5", product.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 15, decodeBody(t, w)["stock"])

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/inventario/%d/stock?cantidad=-100", product.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/inventario/%d/stock?cantidad=abc", product.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/inventario/999/stock?cantidad=1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartEndpoints(t *testing.T) {
	r, db := setupRouter(t)
	user := seedUser(t, db, "juan.perez@example.com")
	product := seedProduct(t, db, "Cafe organico", 10)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/carritos/%d", user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	cart := decodeBody(t, w)
	assert.EqualValues(t, user.ID, cart["usuarioId"])
	assert.Contains(t, cart, "_links")

	w = doJSON(t, r, http.MethodGet, "/api/carritos/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/carritos/%d/items", user.ID), gin.H{
		"productoId": product.ID,
		"cantidad":   4,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 4, decodeBody(t, w)["cantidad"])

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/carritos/%d/items", user.ID), gin.H{
		"productoId": product.ID,
		"cantidad":   100,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "insufficient stock")

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/carritos/%d/items", user.ID), gin.H{
		"productoId": 999,
		"cantidad":   1,
	})
	assert.Equal(t, http.StatusNotFound, w.Code, "unknown product")

	w = doJSON(t, r, http.MethodPut,
		fmt.Sprintf("/api/carritos/%d/items/%d?nuevaCantidad=2", user.ID, product.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decodeBody(t, w)["cantidad"])

	w = doJSON(t, r, http.MethodPut,
		fmt.Sprintf("/api/carritos/%d/items/999?nuevaCantidad=2", user.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "item not in cart")

	w = doJSON(t, r, http.MethodPut,
		fmt.Sprintf("/api/carritos/%d/items/%d?nuevaCantidad=0", user.ID, product.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["eliminado"])

	w = doJSON(t, r, http.MethodDelete,
		fmt.Sprintf("/api/carritos/%d/items/%d", user.ID, product.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "item already removed")

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/carritos/%d/items", user.ID), gin.H{
		"productoId": product.ID,
		"cantidad":   3,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete,
		fmt.Sprintf("/api/carritos/%d/items/%d", user.ID, product.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/carritos/%d/vaciar", user.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/carritos/999/vaciar", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteUserReleasesReservations(t *testing.T) {
	r, db := setupRouter(t)
	user := seedUser(t, db, "juan.perez@example.com")
	product := seedProduct(t, db, "Cafe organico", 10)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/carritos/%d/items", user.ID), gin.H{
		"productoId": product.ID,
		"cantidad":   4,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/usuarios/%d", user.ID), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	var persisted models.Product
	require.NoError(t, db.First(&persisted, "id = ?", product.ID).Error)
	assert.Equal(t, 10, persisted.Stock)

	var carts int64
	require.NoError(t, db.Model(&models.Cart{}).Count(&carts).Error)
	assert.Zero(t, carts)
}

func TestExportInventory(t *testing.T) {
	r, db := setupRouter(t)
	seedProduct(t, db, "Cafe organico", 10)

	w := doJSON(t, r, http.MethodGet, "/api/inventario/exportar", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "inventario.xlsx")
	assert.NotZero(t, w.Body.Len())
}
