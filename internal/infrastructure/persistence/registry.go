package persistence

import "github.com/storefront/backend/internal/infrastructure/persistence/models"

// AllModels lists every persistence model in dependency order
func AllModels() []any {
	return []any{
		&models.ProductModel{},
		&models.UserModel{},
		&models.OrderModel{},
		&models.OrderItemModel{},
		&models.SessionEntryModel{},
	}
}
