package main

import (
	"fmt"
	"time"

	"lingua-bot/internal/service"

	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var adminTokenCmd = &cobra.Command{
	Use:   "admin-token",
	Short: "Issue a bearer token for the ops API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Admin.JWTSecret == "" {
			return fmt.Errorf("admin jwt secret is required (ADMIN_JWT_SECRET)")
		}
		authService, err := service.NewAuthService(cfg.Admin.JWTSecret)
		if err != nil {
			return err
		}
		token, err := authService.CreateJWT(tokenSubject, tokenTTL)
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	adminTokenCmd.Flags().StringVar(&tokenSubject, "subject", "ops", "Token subject recorded in the request logs")
	adminTokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
}
