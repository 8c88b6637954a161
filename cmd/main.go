package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"hospital-appointment/cmd/bootstrap"
	"hospital-appointment/config"
	"hospital-appointment/internal/infrastructure/database"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hospital-appointment",
		Short: "Hospital appointment booking API",
	}
	rootCmd.AddCommand(serveCmd(), migrateCmd(), createAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, bootstrap.NewLogger(cfg.App), nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			log.Info("Configuration loaded successfully")

			// Initialize application with all dependencies
			app, err := bootstrap.New(cfg)
			if err != nil {
				log.Errorf("Failed to initialize application: %v", err)
				return err
			}

			// Run the application
			app.Run()
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	withMigrator := func(run func(m *database.Migrator) error) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		m, err := database.NewMigrator(cfg.DB, log)
		if err != nil {
			return err
		}
		defer m.Close()
		return run(m)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *database.Migrator) error { return m.Up() })
		},
	})

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			return withMigrator(func(m *database.Migrator) error { return m.Down(steps) })
		},
	}
	downCmd.Flags().Int("steps", 1, "number of migrations to roll back")
	cmd.AddCommand(downCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "force <version>",
		Short: "Set the migration version and clear the dirty flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version: %w", err)
			}
			return withMigrator(func(m *database.Migrator) error { return m.Force(version) })
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *database.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Printf("version=%d dirty=%t\n", version, dirty)
				return nil
			})
		},
	})

	return cmd
}

func createAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			name, _ := cmd.Flags().GetString("name")

			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Timezone, false)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			user, err := bootstrap.CreateAdmin(context.Background(), db, log, email, password, name)
			if err != nil {
				return err
			}
			fmt.Printf("created admin %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().String("email", "", "admin email")
	cmd.Flags().String("password", "", "admin password")
	cmd.Flags().String("name", "", "admin full name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
