package entities

import "time"

// Species is the species projection cached alongside a Pokemon with the same ID.
type Species struct {
	ID               int     `gorm:"primaryKey;autoIncrement:false"`
	Name             string  `gorm:"size:100;not null;index"`
	FlavorText       *string `gorm:"type:text"`
	Genus            string  `gorm:"size:100"`
	CaptureRate      int     `gorm:"not null"`
	BaseHappiness    *int
	GrowthRate       string  `gorm:"size:50"`
	Habitat          *string `gorm:"size:50"`
	EvolutionChainID *int    `gorm:"index"`
	Generation       int     `gorm:"not null"`
	CachedAt         time.Time
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM.
func (Species) TableName() string {
	return "species"
}
