package main

import (
	"github.com/spf13/cobra"

	"github.com/jackyeh168/green_events/src/internal/auth"
)

func (c *cli) serveCommand() *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.cfg.RequireJWTSecret(); err != nil {
				return err
			}
			issuer, err := auth.NewIssuer(c.cfg.JWTSecret, c.cfg.JWTTokenTTL)
			if err != nil {
				return err
			}

			container, err := c.container()
			if err != nil {
				return err
			}
			defer container.Close()

			if autoMigrate {
				if err := container.Migrate(); err != nil {
					return err
				}
			}
			return container.Serve(cmd.Context(), issuer)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", true, "create or update tables before serving")
	return cmd
}

func (c *cli) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := c.container()
			if err != nil {
				return err
			}
			defer container.Close()

			if err := container.Migrate(); err != nil {
				return err
			}
			c.logger.Info("database migrated", "driver", c.cfg.DatabaseDriver)
			return nil
		},
	}
}
