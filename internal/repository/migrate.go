package repository

import (
	"go-fleet-ws/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(model.AllModels()...), "auto migrate")
}
