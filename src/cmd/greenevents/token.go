package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackyeh168/green_events/src/internal/auth"
)

func (c *cli) tokenCommand() *cobra.Command {
	var (
		sub  string
		role string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for an organizer or attendee",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.cfg.RequireJWTSecret(); err != nil {
				return err
			}
			r, err := auth.ParseRole(role)
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = c.cfg.JWTTokenTTL
			}
			issuer, err := auth.NewIssuer(c.cfg.JWTSecret, ttl)
			if err != nil {
				return err
			}

			raw, exp, err := issuer.Issue(sub, r)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), raw)
			c.logger.Debug("token issued", "sub", sub, "role", r, "expires_at", exp)
			return nil
		},
	}
	cmd.Flags().StringVar(&sub, "sub", "", "organizer or attendee ID")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleOrganizer), "organizer | attendee")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default JWT_TOKEN_TTL)")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}
