package entities

import "time"

// Profile stores per-user customization.
type Profile struct {
	UserID          string `gorm:"primaryKey;size:128"`
	DisplayName     string `gorm:"size:50;not null"`
	AvatarPokemonID *int
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM.
func (Profile) TableName() string {
	return "profiles"
}

// All returns every entity for AutoMigrate.
func All() []any {
	return []any{
		&Pokemon{},
		&Species{},
		&PokemonType{},
		&Favorite{},
		&Profile{},
	}
}
