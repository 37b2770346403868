package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"degreeaudit/internal/platform/config"
	"degreeaudit/internal/platform/jwttoken"
)

func newTokenCmd() *cobra.Command {
	var (
		subject, scope string
		ttl            time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API bearer token signed with $JWT_SIGNING_KEY",
		RunE: func(cmd *cobra.Command, _ []string) error {
			key := config.FromEnv().JWTSigningKey
			if key == "" {
				return errors.New("JWT_SIGNING_KEY is not set")
			}
			token, err := jwttoken.NewService(key, config.TokenIssuer, config.TokenAudience).IssueToken(subject, scope, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "token subject")
	cmd.Flags().StringVar(&scope, "scope", "", "optional scope claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
