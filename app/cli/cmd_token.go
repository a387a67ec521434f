package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"commonAssessment/pkg/utils"
)

func newTokenCommand() *cobra.Command {
	var (
		subject string
		role    string
		secret  string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for calling the API",
		Long: `Mint an HS256 bearer token. The signing key is --secret, else JWT_SECRET
from the environment or a .env file in the working directory, the same
source the API reads. Use --role ADMIN for the model admin endpoints.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				_ = godotenv.Load()
				secret = os.Getenv("JWT_SECRET")
			}
			if secret == "" {
				return fmt.Errorf("no signing key: pass --secret or set JWT_SECRET")
			}
			tok, err := utils.GenerateJWT(secret, subject, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "cli", "Token subject (user id)")
	cmd.Flags().StringVar(&role, "role", "USER", "Role claim")
	cmd.Flags().StringVar(&secret, "secret", "", "Signing key (default JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")

	return cmd
}
