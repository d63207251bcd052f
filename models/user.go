package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Nombre          string     `gorm:"not null" json:"nombre"`
	Apellido        string     `gorm:"not null" json:"apellido"`
	Email           string     `gorm:"unique;not null" json:"email"`
	Password        string     `gorm:"not null" json:"password"`
	Telefono        string     `json:"telefono,omitempty"`
	Direccion       string     `json:"direccion,omitempty"`
	FechaRegistro   time.Time  `gorm:"not null" json:"fechaRegistro"`
	FechaNacimiento *time.Time `json:"fechaNacimiento,omitempty"`
	Genero          string     `json:"genero,omitempty"`
}

func (User) TableName() string { return "usuarios" }

// BeforeCreate defaults the registration date when the caller left it unset.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.FechaRegistro.IsZero() {
		u.FechaRegistro = time.Now()
	}
	return nil
}
