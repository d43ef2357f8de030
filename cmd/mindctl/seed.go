package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mindcare-bot/internal/app"
	"mindcare-bot/internal/service"
)

func newSeedResourcesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-resources",
		Short: "Load the default support resources",
		Long:  `Insert or update the default hotline directory. Resources are matched by title, so running it twice is safe.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadEnv()
			if err != nil {
				return err
			}
			logger := opts.logger()
			defer logger.Sync()
			if cfg.DatabaseURL == "" {
				logger.Warn("DATABASE_URL not set, seeding an in-memory store that is discarded on exit")
			}

			stores, err := app.OpenStores(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer stores.Close()

			svc := service.NewResourceService(stores.Resources, logger)
			report, err := svc.Seed(cmd.Context(), service.DefaultResources())
			if err != nil {
				return err
			}
			logger.Info("seed finished", zap.Int("created", report.Created), zap.Int("updated", report.Updated))
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d resources, updated %d.\n", report.Created, report.Updated)
			return nil
		},
	}
}
