package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"quiz-client/internal/app"
	"quiz-client/internal/transport/terminal"
	"quiz-client/internal/view"
)

func newPlayCmd(opts *rootOptions) *cobra.Command {
	var noColor bool
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the quiz in this terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shell := app.NewShell(ctx, newDeps(cfg, log))
			defer shell.Close()

			useColor := !noColor && term.IsTerminal(int(os.Stdout.Fd()))
			driver := terminal.NewDriver(shell, cmd.InOrStdin(), cmd.OutOrStdout(), view.NewTextRenderer(useColor), log)
			log.Debug().Str("api", cfg.API.BaseURL).Msg("starting quiz")
			if err := driver.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}
