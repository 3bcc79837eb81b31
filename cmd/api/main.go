package main

import (
	"fmt"
	"os"

	"courier-backend/internal/client"
	"courier-backend/internal/config"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "api",
		Short:         "Courier platform backend: parcels, payments, riders and users",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(reconcileCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore loads the configuration and opens a migrated database.
func openStore() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	db, err := client.InitDB(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	if err := client.Migrate(db); err != nil {
		_ = client.CloseDB(db)
		return nil, nil, err
	}

	return cfg, db, nil
}
