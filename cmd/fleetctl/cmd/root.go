package cmd

import (
	"os"

	"go-fleet-ws/internal/repository"
	"go-fleet-ws/pkg/config"
	"go-fleet-ws/pkg/database"

	"github.com/apex/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fleetctl",
	Short: "Operator tool for the fleet transfer service",
	Long: `fleetctl works directly against the fleet transfer database. It seeds roles,
creates users, resets passwords and renders delivery challans without going
through the HTTP API.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// connect loads the configuration and opens a migrated database.
func connect() (*config.Config, *gorm.DB) {
	cfg := config.Load()
	db := database.MustConnect(cfg.DBDriver, cfg.DatabaseURL)
	if err := repository.Migrate(db); err != nil {
		log.Fatalf("Unable to migrate database: %s", err)
	}
	return cfg, db
}
