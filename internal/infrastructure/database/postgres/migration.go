// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lootportal/lootportal-api/internal/domain/catalog"
	"github.com/lootportal/lootportal-api/internal/domain/order"
	"github.com/lootportal/lootportal-api/internal/domain/user"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger *logrus.Logger) *Migration {
	return &Migration{db: db, logger: logger}
}

// Run migrates all models, creates the supporting indexes and seeds the
// catalog and the initial admin account
func (m *Migration) Run() error {
	if err := m.autoMigrate(); err != nil {
		return err
	}
	if err := m.createIndexes(); err != nil {
		return err
	}
	if err := catalog.Seed(m.db); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	return m.seedAdmin()
}

func (m *Migration) autoMigrate() error {
	m.logger.Info("Running database auto-migrations")

	// Dependency order: referenced tables first
	models := []interface{}{
		&user.User{},

		&catalog.Game{},
		&catalog.GamePackage{},
		&catalog.Subscription{},
		&catalog.SubscriptionPlan{},

		&order.Order{},
		&order.OrderItem{},
		&order.StatusHistory{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}
	return nil
}

func (m *Migration) createIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",

		"CREATE INDEX IF NOT EXISTS idx_games_category_active ON games(category, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_game_packages_game ON game_packages(game_id, sort_order)",
		"CREATE INDEX IF NOT EXISTS idx_subscription_plans_subscription ON subscription_plans(subscription_id, sort_order)",

		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_email ON orders(email)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_order ON order_status_history(order_id, created_at DESC)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// seedAdmin creates the default admin account on an empty users table.
// The password must be changed on first login.
func (m *Migration) seedAdmin() error {
	var count int64
	if err := m.db.Model(&user.User{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := user.User{
		Email:     "admin@lootportal.local",
		Password:  string(hashed),
		FirstName: "Admin",
		IsActive:  true,
		IsAdmin:   true,
	}
	if err := m.db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	m.logger.WithField("email", admin.Email).Warn("Seeded default admin account, change the password")
	return nil
}
