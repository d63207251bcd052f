package models

import "time"

type Cart struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"usuarioId"` // one cart per user
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"fechaCreacion"`
	UpdatedAt time.Time  `json:"fechaActualizacion"`
}

func (Cart) TableName() string { return "carritos" }

// CartItem reserves Cantidad units of a product inside a cart. The composite
// unique index keeps one row per (cart, product); repeated adds merge into it.
type CartItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    uint    `gorm:"uniqueIndex:idx_carrito_producto;not null" json:"-"`
	ProductID uint    `gorm:"uniqueIndex:idx_carrito_producto;not null" json:"productoId"`
	Product   Product `gorm:"foreignKey:ProductID" json:"producto"`
	Cantidad  int     `gorm:"not null;check:cantidad > 0" json:"cantidad"`
}

func (CartItem) TableName() string { return "carrito_items" }
