package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unclebandit/coldreach-backend/internal/app"
	"github.com/unclebandit/coldreach-backend/internal/service"
)

func (c *cli) generateCmd() *cobra.Command {
	var (
		sourceURL  string
		motive     string
		userID     string
		campaignID string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an outreach message for a profile",
		Long: `Fetches the target's profile, generates a message and prints it.

With --user the result is also stored as a template for that user.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gen, err := app.NewGenerator(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			fetchers := app.NewFetchers(c.cfg, c.logger)

			svc := &service.OutreachService{
				Sources:    service.SourcesFromFetchers(fetchers),
				Generator:  gen,
				Logger:     c.logger,
				Concurrent: c.cfg.FetchConcurrently,
			}
			if userID != "" {
				a, err := app.Open(ctx, c.cfg, c.logger)
				if err != nil {
					return err
				}
				defer a.Close()
				svc = a.Outreach(fetchers, gen)
			}

			req := service.OutreachRequest{UserID: userID, SourceURL: sourceURL, Motive: motive}
			if campaignID != "" {
				req.CampaignID = &campaignID
			}

			stderr := cmd.ErrOrStderr()
			out, err := svc.Run(ctx, req, func(p service.Progress) {
				fmt.Fprintf(stderr, "[%3d%%] %s\n", p.Percent, p.Stage)
			})
			if err != nil {
				return err
			}
			if out.Stage == service.StageFailed {
				return errors.New(out.Alert)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "To: %s <%s>\n\n%s\n", out.RecipientName, out.RecipientEmail, out.Message)
			if out.TemplateID != "" {
				fmt.Fprintf(w, "\nSaved as template %s\n", out.TemplateID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sourceURL, "url", "", "profile URL of the target")
	cmd.Flags().StringVar(&motive, "motive", "", "why you are reaching out")
	cmd.Flags().StringVar(&userID, "user", "", "store the result as a template for this user")
	cmd.Flags().StringVar(&campaignID, "campaign", "", "campaign to attach the template to")
	cmd.MarkFlagRequired("url")
	cmd.MarkFlagRequired("motive")
	return cmd
}
