package entities

import "time"

// Favorite pairs a user with a Pokémon id. At most one row per pair.
type Favorite struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"size:128;not null;uniqueIndex:idx_favorites_user_pokemon,priority:1;index:idx_favorites_user"`
	PokemonID int       `gorm:"not null;uniqueIndex:idx_favorites_user_pokemon,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

// TableName returns the table name for GORM.
func (Favorite) TableName() string {
	return "favorites"
}
