package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mindcare-bot/internal/config"
)

type rootOptions struct {
	debug bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "mindctl",
		Short: "Admin and testing tool for the mindcare chatbot",
		Long: `mindctl talks to the response engine directly. It can run a terminal chat,
seed the support resource directory, validate lexicon overlays, issue development
access tokens and replay scripted conversations.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newChatCmd(opts),
		newSeedResourcesCmd(opts),
		newLexiconCmd(),
		newTokenCmd(),
		newScenariosCmd(opts),
	)
	return cmd
}

// loadEnv carga .env y la configuracion del entorno.
func loadEnv() (*config.Config, error) {
	_ = godotenv.Load()
	return config.LoadConfig()
}

func (o *rootOptions) logger() *zap.Logger {
	if o.debug {
		logger, err := zap.NewDevelopment()
		if err == nil {
			return logger
		}
	}
	return zap.NewNop()
}
