package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/orchardlabs/storefront/internal/config"
)

const versionTimeFormat = "20060102150405"

func main() {
	rootCmd := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront commerce backend",
	}
	rootCmd.AddCommand(
		serveCommand(),
		migrateCommand(),
		createMigrationCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-up",
		Short: "migrate the database all the way up",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.Load()

			m, err := migrate.New(
				fmt.Sprintf("file://%s", cfg.MigrationsDir),
				cfg.DatabaseURL,
			)
			if err != nil {
				log.Fatalf("Migration setup error: %v", err)
			}

			err = m.Up()
			if err == migrate.ErrNoChange {
				fmt.Println("No change in migration")
				return
			}
			if err != nil {
				log.Fatalf("Migration error: %v", err)
			}
			fmt.Println("Migrated up")
		},
	}
}

func createMigrationCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-create [name]",
		Short: "create sql migration files",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.Load()
			version := time.Now().Format(versionTimeFormat)
			up := fmt.Sprintf("%s/%s_%s.up.sql", cfg.MigrationsDir, version, args[0])
			down := fmt.Sprintf("%s/%s_%s.down.sql", cfg.MigrationsDir, version, args[0])

			if err := os.WriteFile(up, []byte{}, 0644); err != nil {
				log.Fatal(err)
			}
			if err := os.WriteFile(down, []byte{}, 0644); err != nil {
				log.Fatal(err)
			}

			fmt.Println("Created SQL up script:", up)
			fmt.Println("Created SQL down script:", down)
		},
	}
}
