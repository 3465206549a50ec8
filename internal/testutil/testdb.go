// Package testutil provides an in-memory database and fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"

	"go-fleet-ws/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory sqlite database with every table migrated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the shared-cache database alive and serialises writers.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.AllModels()...))
	return db
}

// CreateSite inserts a site with the given code.
func CreateSite(t *testing.T, db *gorm.DB, code string) *model.Site {
	t.Helper()
	site := &model.Site{
		Name:    "Site " + code,
		Code:    code,
		Address: code + " Project Road",
	}
	require.NoError(t, db.Create(site).Error)
	return site
}

// CreateMachine inserts an active machine parked at site.
func CreateMachine(t *testing.T, db *gorm.DB, code string, site *model.Site) *model.Machine {
	t.Helper()
	machine := &model.Machine{
		Name:               "Excavator " + code,
		Code:               code,
		RegistrationNumber: "JH01-" + code,
		ModelName:          "EX200",
		SerialNumber:       "SN-" + code,
		SiteID:             site.ID,
		Status:             model.MachineActive,
	}
	require.NoError(t, db.Omit("Site", "Category").Create(machine).Error)
	return machine
}
