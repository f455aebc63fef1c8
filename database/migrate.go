package database

import (
	"go-rbac-api/domain"

	"gorm.io/gorm"
)

// MigrateDB creates the catalog, role and user tables. Role names are unique
// among active rows only, so a deleted role's name can be reused.
func MigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Permission{},
		&domain.Role{},
		&domain.User{},
	)
}
