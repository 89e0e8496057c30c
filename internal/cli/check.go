package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the quiz API is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			health, err := newAPIClient(cfg).Health(ctx)
			if err != nil {
				log.Error().Err(err).Str("api", cfg.API.BaseURL).Msg("health check failed")
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", cfg.API.BaseURL, health.Status, health.Message)
			return nil
		},
	}
}
