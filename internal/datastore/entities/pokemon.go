package entities

import (
	"time"

	"gorm.io/datatypes"

	"github.com/tphakala/pokedex-go/internal/pokedex"
)

// Pokemon is a cached Pokémon record. It is written only by the catalog fetcher.
type Pokemon struct {
	ID             int    `gorm:"primaryKey;autoIncrement:false"`
	Name           string `gorm:"size:100;not null;index"`
	Height         int    `gorm:"not null"`
	Weight         int    `gorm:"not null"`
	BaseExperience *int
	Types          datatypes.JSONSlice[string]          `gorm:"not null"`
	Abilities      datatypes.JSONSlice[pokedex.Ability] `gorm:"not null"`
	Stats          datatypes.JSONSlice[pokedex.Stat]    `gorm:"not null"`
	Sprites        datatypes.JSONType[pokedex.Sprites]  `gorm:"not null"`
	Moves          datatypes.JSONSlice[string]          `gorm:"not null"`
	Generation     int                                  `gorm:"not null;index"`
	CachedAt       time.Time                            `gorm:"index"`
	CreatedAt      time.Time                            `gorm:"autoCreateTime"`
	UpdatedAt      time.Time                            `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM.
func (Pokemon) TableName() string {
	return "pokemon"
}
