package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/unclebandit/coldreach-backend/internal/app"
	appErrors "github.com/unclebandit/coldreach-backend/internal/errors"
	"github.com/unclebandit/coldreach-backend/internal/repository"
)

func (c *cli) importLeadsCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "import-leads <file.csv>",
		Short: "Import a lead CSV for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			upload, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			a, err := app.Open(cmd.Context(), c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := requireUser(cmd.Context(), a.Users, userID); err != nil {
				return err
			}
			n, err := a.Leads.ImportLeads(cmd.Context(), userID, upload)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d leads for %s\n", n, userID)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "owning user id")
	cmd.MarkFlagRequired("user")
	return cmd
}

// requireUser fails when the user has never signed in, since leads would
// otherwise be rejected row by row by the foreign key.
func requireUser(ctx context.Context, users repository.UserRepositoryInterface, id string) error {
	_, err := users.GetByID(ctx, id)
	if errors.Is(err, appErrors.ErrUnauthorized) {
		return fmt.Errorf("unknown user %q: sign in through the app once first", id)
	}
	return err
}
