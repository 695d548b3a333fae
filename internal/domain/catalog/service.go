// internal/domain/catalog/service.go
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/lootportal/lootportal-api/internal/domain/cart"
)

// ErrItemNotFound means no active package or plan carries the item id
var ErrItemNotFound = errors.New("catalog item not found")

// Service handles catalog reads and cart-line resolution
type Service struct {
	db *gorm.DB
}

// NewService creates a new catalog service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GameListRequest represents game list query parameters
type GameListRequest struct {
	Category string `form:"category"`
	Search   string `form:"search"`
}

// ListGames returns active games with their packages, optionally filtered
// by category or a name search
func (s *Service) ListGames(req *GameListRequest) ([]Game, error) {
	query := s.db.Model(&Game{}).Where("is_active = ?", true).
		Preload("Packages", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		})

	if req.Category != "" && req.Category != "All" {
		query = query.Where("category = ?", req.Category)
	}
	if req.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(req.Search)+"%")
	}

	var games []Game
	if err := query.Order("name ASC").Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

// GetGame returns one active game by slug with its packages
func (s *Service) GetGame(slug string) (*Game, error) {
	var game Game
	err := s.db.Where("slug = ? AND is_active = ?", slug, true).
		Preload("Packages", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return &game, nil
}

// ListSubscriptions returns active subscriptions with their plans,
// optionally filtered by category
func (s *Service) ListSubscriptions(category string) ([]Subscription, error) {
	query := s.db.Where("is_active = ?", true).
		Preload("Plans", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		})
	if category != "" && category != "All" {
		query = query.Where("category = ?", category)
	}

	var subs []Subscription
	err := query.Order("name ASC").Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}

// GetSubscription returns one active subscription by slug with its plans
func (s *Service) GetSubscription(slug string) (*Subscription, error) {
	var sub Subscription
	err := s.db.Where("slug = ? AND is_active = ?", slug, true).
		Preload("Plans", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &sub, nil
}

// ResolveItem looks up an item id across packages and plans and returns
// the authoritative cart candidate. Client-supplied names and prices are
// never trusted; the catalog is the source of truth.
func (s *Service) ResolveItem(itemID string) (*cart.Candidate, error) {
	var pkg GamePackage
	err := s.db.Where("item_id = ?", itemID).First(&pkg).Error
	if err == nil {
		var game Game
		if err := s.db.Where("id = ? AND is_active = ?", pkg.GameID, true).First(&game).Error; err != nil {
			return nil, ErrItemNotFound
		}
		return &cart.Candidate{
			ID:           pkg.ItemID,
			Kind:         cart.ItemKindGame,
			ProductID:    game.Slug,
			PackageID:    pkg.ItemID,
			Name:         game.Name,
			PackageLabel: pkg.Amount,
			UnitPrice:    pkg.Price,
			ImageURL:     game.ImageURL,
		}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to resolve item: %w", err)
	}

	var plan SubscriptionPlan
	err = s.db.Where("item_id = ?", itemID).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to resolve item: %w", err)
	}

	var sub Subscription
	if err := s.db.Where("id = ? AND is_active = ?", plan.SubscriptionID, true).First(&sub).Error; err != nil {
		return nil, ErrItemNotFound
	}
	return &cart.Candidate{
		ID:           plan.ItemID,
		Kind:         cart.ItemKindSubscription,
		ProductID:    sub.Slug,
		PackageID:    plan.ItemID,
		Name:         sub.Name,
		PackageLabel: plan.Duration,
		UnitPrice:    plan.Price,
		ImageURL:     sub.ImageURL,
	}, nil
}

// Categories returns the distinct active game categories
func (s *Service) Categories() ([]string, error) {
	var categories []string
	err := s.db.Model(&Game{}).Where("is_active = ?", true).
		Distinct("category").Order("category ASC").Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
