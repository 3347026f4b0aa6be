package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/unclebandit/coldreach-backend/internal/auth"
)

// tokenCmd mints HS256 session tokens for local development against a
// server configured with AUTH_JWT_SECRET.
func (c *cli) tokenCmd() *cobra.Command {
	var (
		subject string
		email   string
		name    string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.JWTSecret == "" {
				return errors.New("AUTH_JWT_SECRET is not set")
			}
			tok, err := auth.GenerateToken(subject, email, name, []byte(c.cfg.JWTSecret), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "sub", "demo_user", "token subject")
	cmd.Flags().StringVar(&email, "email", "demo@example.com", "email claim")
	cmd.Flags().StringVar(&name, "name", "Demo User", "name claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
