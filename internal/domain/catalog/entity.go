// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"gorm.io/gorm"
)

// Game represents a game whose in-game currency can be topped up
type Game struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Slug        string         `gorm:"uniqueIndex;not null;size:100" json:"slug"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Description string         `gorm:"size:500" json:"description"`
	Category    string         `gorm:"size:100;index" json:"category"`
	ImageURL    string         `gorm:"size:500" json:"image_url"`
	Rating      float64        `gorm:"default:0" json:"rating"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Packages []GamePackage `gorm:"foreignKey:GameID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"packages,omitempty"`
}

// GamePackage represents a purchasable top-up denomination. ItemID is the
// stable identifier carried into cart lines, e.g. "codm-400".
type GamePackage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GameID    uint      `gorm:"not null;index" json:"game_id"`
	ItemID    string    `gorm:"uniqueIndex;not null;size:100" json:"item_id"`
	Amount    string    `gorm:"not null;size:100" json:"amount"` // e.g. "400 CP"
	Price     int64     `gorm:"not null" json:"price"`           // Price in rupees
	Popular   bool      `gorm:"default:false" json:"popular"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subscription represents a streaming or productivity service sold as
// prepaid plans
type Subscription struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Slug        string         `gorm:"uniqueIndex;not null;size:100" json:"slug"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Description string         `gorm:"size:500" json:"description"`
	Category    string         `gorm:"size:100;index" json:"category"`
	ImageURL    string         `gorm:"size:500" json:"image_url"`
	Rating      float64        `gorm:"default:0" json:"rating"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Plans []SubscriptionPlan `gorm:"foreignKey:SubscriptionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"plans,omitempty"`
}

// SubscriptionPlan represents one duration tier of a subscription. ItemID
// is the cart-line identifier, e.g. "netflix-3m".
type SubscriptionPlan struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	SubscriptionID uint      `gorm:"not null;index" json:"subscription_id"`
	ItemID         string    `gorm:"uniqueIndex;not null;size:100" json:"item_id"`
	Duration       string    `gorm:"not null;size:50" json:"duration"` // e.g. "3 Months"
	Price          int64     `gorm:"not null" json:"price"`
	Popular        bool      `gorm:"default:false" json:"popular"`
	Features       string    `gorm:"size:500" json:"features"` // Comma-separated
	SortOrder      int       `gorm:"default:0" json:"sort_order"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
