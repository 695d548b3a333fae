// internal/domain/catalog/seed.go
package catalog

import (
	"fmt"

	"gorm.io/gorm"
)

// Seed loads the storefront catalog. It is idempotent: a non-empty games
// table means the catalog is already in place.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&Game{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check catalog: %w", err)
	}
	if count > 0 {
		return nil
	}

	games := []Game{
		{
			Slug: "codm", Name: "Call of Duty Mobile", Description: "CP Top-Up for CODM",
			Category: "Battle Royale", Rating: 4.8, IsActive: true,
			Packages: []GamePackage{
				{ItemID: "codm-80", Amount: "80 CP", Price: 100, SortOrder: 1},
				{ItemID: "codm-400", Amount: "400 CP", Price: 500, Popular: true, SortOrder: 2},
				{ItemID: "codm-800", Amount: "800 CP", Price: 1000, SortOrder: 3},
				{ItemID: "codm-2000", Amount: "2000 CP", Price: 2500, SortOrder: 4},
			},
		},
		{
			Slug: "pubg", Name: "PUBG Mobile", Description: "UC Top-Up for PUBG",
			Category: "Battle Royale", Rating: 4.9, IsActive: true,
			Packages: []GamePackage{
				{ItemID: "pubg-60", Amount: "60 UC", Price: 150, SortOrder: 1},
				{ItemID: "pubg-325", Amount: "325 UC", Price: 750, Popular: true, SortOrder: 2},
				{ItemID: "pubg-660", Amount: "660 UC", Price: 1500, SortOrder: 3},
				{ItemID: "pubg-1800", Amount: "1800 UC", Price: 4000, SortOrder: 4},
			},
		},
		{
			Slug: "freefire", Name: "Free Fire", Description: "Diamonds for Free Fire",
			Category: "Battle Royale", Rating: 4.7, IsActive: true,
			Packages: []GamePackage{
				{ItemID: "freefire-50", Amount: "50 Diamonds", Price: 80, SortOrder: 1},
				{ItemID: "freefire-310", Amount: "310 Diamonds", Price: 500, Popular: true, SortOrder: 2},
				{ItemID: "freefire-520", Amount: "520 Diamonds", Price: 800, SortOrder: 3},
				{ItemID: "freefire-1080", Amount: "1080 Diamonds", Price: 1600, SortOrder: 4},
			},
		},
		{
			Slug: "steam", Name: "Steam Wallet", Description: "Steam Wallet Codes",
			Category: "PC Gaming", Rating: 4.9, IsActive: true,
			Packages: []GamePackage{
				{ItemID: "steam-5", Amount: "$5 USD", Price: 500, SortOrder: 1},
				{ItemID: "steam-10", Amount: "$10 USD", Price: 1000, Popular: true, SortOrder: 2},
				{ItemID: "steam-20", Amount: "$20 USD", Price: 2000, SortOrder: 3},
				{ItemID: "steam-50", Amount: "$50 USD", Price: 5000, SortOrder: 4},
			},
		},
		{
			Slug: "valorant", Name: "Valorant", Description: "VP for Valorant",
			Category: "FPS", Rating: 4.8, IsActive: true,
			Packages: []GamePackage{
				{ItemID: "valorant-475", Amount: "475 VP", Price: 200, SortOrder: 1},
				{ItemID: "valorant-1000", Amount: "1000 VP", Price: 400, Popular: true, SortOrder: 2},
				{ItemID: "valorant-2050", Amount: "2050 VP", Price: 800, SortOrder: 3},
				{ItemID: "valorant-3650", Amount: "3650 VP", Price: 1400, SortOrder: 4},
			},
		},
		{
			Slug: "mlbb", Name: "Mobile Legends", Description: "Diamonds for MLBB",
			Category: "MOBA", Rating: 4.6, IsActive: true,
			Packages: []GamePackage{
				{ItemID: "mlbb-86", Amount: "86 Diamonds", Price: 120, SortOrder: 1},
				{ItemID: "mlbb-172", Amount: "172 Diamonds", Price: 240, Popular: true, SortOrder: 2},
				{ItemID: "mlbb-429", Amount: "429 Diamonds", Price: 600, SortOrder: 3},
				{ItemID: "mlbb-878", Amount: "878 Diamonds", Price: 1200, SortOrder: 4},
			},
		},
	}

	subscriptions := []Subscription{
		{
			Slug: "netflix", Name: "Netflix", Description: "Stream unlimited movies and TV shows",
			Category: "Entertainment", Rating: 4.9, IsActive: true,
			Plans: []SubscriptionPlan{
				{ItemID: "netflix-1m", Duration: "1 Month", Price: 800, Features: "HD Quality,2 Screens", SortOrder: 1},
				{ItemID: "netflix-3m", Duration: "3 Months", Price: 2200, Popular: true, Features: "HD Quality,2 Screens,Save 8%", SortOrder: 2},
				{ItemID: "netflix-6m", Duration: "6 Months", Price: 4000, Features: "HD Quality,2 Screens,Save 17%", SortOrder: 3},
			},
		},
		{
			Slug: "spotify", Name: "Spotify Premium", Description: "Ad-free music streaming with offline downloads",
			Category: "Music", Rating: 4.8, IsActive: true,
			Plans: []SubscriptionPlan{
				{ItemID: "spotify-1m", Duration: "1 Month", Price: 500, Features: "Ad-free,Offline Downloads", SortOrder: 1},
				{ItemID: "spotify-3m", Duration: "3 Months", Price: 1400, Popular: true, Features: "Ad-free,Offline Downloads,Save 7%", SortOrder: 2},
				{ItemID: "spotify-6m", Duration: "6 Months", Price: 2600, Features: "Ad-free,Offline Downloads,Save 13%", SortOrder: 3},
			},
		},
		{
			Slug: "youtube", Name: "YouTube Premium", Description: "Ad-free YouTube with background play",
			Category: "Entertainment", Rating: 4.7, IsActive: true,
			Plans: []SubscriptionPlan{
				{ItemID: "youtube-1m", Duration: "1 Month", Price: 600, Features: "Ad-free,Background Play", SortOrder: 1},
				{ItemID: "youtube-3m", Duration: "3 Months", Price: 1700, Popular: true, Features: "Ad-free,Background Play,Save 6%", SortOrder: 2},
				{ItemID: "youtube-6m", Duration: "6 Months", Price: 3200, Features: "Ad-free,Background Play,Save 11%", SortOrder: 3},
			},
		},
		{
			Slug: "canva", Name: "Canva Pro", Description: "Professional design tools and templates",
			Category: "Design", Rating: 4.6, IsActive: true,
			Plans: []SubscriptionPlan{
				{ItemID: "canva-1m", Duration: "1 Month", Price: 700, Features: "Premium Templates,Brand Kit", SortOrder: 1},
				{ItemID: "canva-3m", Duration: "3 Months", Price: 2000, Popular: true, Features: "Premium Templates,Brand Kit,Save 5%", SortOrder: 2},
				{ItemID: "canva-1y", Duration: "1 Year", Price: 7000, Features: "Premium Templates,Brand Kit,Save 17%", SortOrder: 3},
			},
		},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i := range games {
			if err := tx.Create(&games[i]).Error; err != nil {
				return fmt.Errorf("failed to seed game %s: %w", games[i].Slug, err)
			}
		}
		for i := range subscriptions {
			if err := tx.Create(&subscriptions[i]).Error; err != nil {
				return fmt.Errorf("failed to seed subscription %s: %w", subscriptions[i].Slug, err)
			}
		}
		return nil
	})
}
