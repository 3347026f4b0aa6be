package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unclebandit/coldreach-backend/internal/app"
	"github.com/unclebandit/coldreach-backend/internal/db"
	"github.com/unclebandit/coldreach-backend/internal/model"
	"github.com/unclebandit/coldreach-backend/internal/service"
)

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := db.Open(cmd.Context(), c.cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := db.Migrate(cmd.Context(), database); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
			return nil
		},
	}
}

func (c *cli) seedCmd() *cobra.Command {
	var userID, email string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo user with settings, a sequence and a campaign",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := app.Open(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.Users.Upsert(ctx, &model.User{ID: userID, Email: email, Name: "Demo User"}); err != nil {
				return fmt.Errorf("seed user: %w", err)
			}
			if _, err := a.Settings.SaveSettings(ctx, userID, "Demo User", email, nil); err != nil {
				return fmt.Errorf("seed settings: %w", err)
			}
			seq, err := a.Sequences.CreateSequence(ctx, userID, "Intro sequence", []model.SequenceStep{
				{Subject: "Quick question", Body: "Hi {{name}}, I came across your profile..."},
				{Subject: "Following up", Body: "Just bumping this to the top of your inbox."},
			})
			if err != nil {
				return fmt.Errorf("seed sequence: %w", err)
			}
			campaign, err := a.Campaigns.CreateCampaign(ctx, userID, service.CreateCampaignInput{
				Name:       "Demo campaign",
				Audience:   "Seed-stage founders",
				Status:     model.CampaignStatusOngoing,
				SequenceID: &seq.ID,
			})
			if err != nil {
				return fmt.Errorf("seed campaign: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded user %s: sequence %s, campaign %s\n", userID, seq.ID, campaign.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "demo_user", "identity-provider subject of the demo user")
	cmd.Flags().StringVar(&email, "email", "demo@example.com", "email of the demo user")
	return cmd
}
