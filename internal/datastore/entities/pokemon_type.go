package entities

import "time"

// PokemonType maps a type name to its display color.
type PokemonType struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:50;not null;uniqueIndex"`
	Color     string    `gorm:"size:16;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM.
func (PokemonType) TableName() string {
	return "pokemon_types"
}
