package main

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mindcare-bot/internal/service"
)

func newTokenCmd() *cobra.Command {
	var (
		userID      string
		displayName string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development access token",
		Long:  `Sign an access token with JWT_SECRET so authenticated endpoints can be tried locally.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadEnv()
			if err != nil {
				return err
			}
			svc := service.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
			if !svc.Enabled() {
				return errors.New("JWT_SECRET is not set")
			}
			if userID == "" {
				userID = uuid.NewString()
			}
			tok, err := svc.IssueAccessToken(service.Identity{UserID: userID, DisplayName: displayName})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				UserID string `json:"user_id"`
				service.AccessToken
			}{UserID: userID, AccessToken: tok})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (random when empty)")
	cmd.Flags().StringVar(&displayName, "name", "", "display name")
	return cmd
}
