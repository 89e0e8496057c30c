package cli

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"quiz-client/internal/api"
	"quiz-client/internal/app"
	"quiz-client/internal/config"
	"quiz-client/internal/logger"
)

type rootOptions struct {
	configPath string
	apiURL     string
	logLevel   string
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "quiz-client",
		Short:        "90s trivia quiz client for the terminal and the browser",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "quiz API base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides config)")
	cmd.AddCommand(newPlayCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newCheckCmd(opts))
	return cmd
}

// load resolves configuration with flag overrides and builds the logger.
func (o *rootOptions) load(logOut io.Writer) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, zerolog.Nop(), err
	}
	if o.apiURL != "" {
		cfg.API.BaseURL = o.apiURL
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, logger.Setup(cfg.Log.Level, cfg.Log.Format, logOut), nil
}

func newAPIClient(cfg config.Config) *api.Client {
	return api.NewClient(cfg.API.BaseURL, config.TTLDuration(cfg.API.Timeout, 0))
}

func newDeps(cfg config.Config, log zerolog.Logger) app.Deps {
	client := newAPIClient(cfg)
	return app.Deps{
		Questions: client,
		Scoring:   client,
		Stats:     client,
		Log:       log,
	}
}
