package main

import (
	"errors"
	"fmt"
	"time"

	"infinite-experiment/pilotlog/internal/auth"

	"github.com/spf13/cobra"
)

type tokenOptions struct {
	subject string
	role    string
	ttl     time.Duration
}

func newTokenCmd(a *app) *cobra.Command {
	var opts tokenOptions

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API access token signed with auth.jwt_secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Auth.JWTSecret == "" {
				return withCode(exitUsage, errors.New("auth.jwt_secret is not set"))
			}
			role, ok := auth.ParseRole(opts.role)
			if !ok {
				return withCode(exitUsage, fmt.Errorf("invalid --role %q (admin or reader)", opts.role))
			}

			ttl := opts.ttl
			if ttl <= 0 {
				ttl = time.Duration(a.cfg.Auth.TokenTTLMinutes) * time.Minute
			}

			token, expiresAt, err := auth.NewTokenService([]byte(a.cfg.Auth.JWTSecret), ttl).Issue(opts.subject, role)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.subject, "subject", "", "Token subject, e.g. an operator name (required)")
	cmd.Flags().StringVar(&opts.role, "role", string(auth.RoleReader), "admin or reader")
	cmd.Flags().DurationVar(&opts.ttl, "ttl", 0, "Token lifetime (default: auth.token_ttl_minutes)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
