package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"quiz-client/internal/config"
	"quiz-client/internal/infra/memory"
	redisregistry "quiz-client/internal/infra/redis"
	transport "quiz-client/internal/transport/http"
)

// newServeCmd builds the subcommand that hosts quizzes over websockets.
func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host the quiz over websockets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load(os.Stdout)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}
			return runServer(cmd.Context(), cfg, log)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "port to listen on (overrides config and PORT)")
	return cmd
}

func runServer(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		registry  transport.MountRegistry
		heartbeat time.Duration
	)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return err
		}
		ttl := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
		registry = redisregistry.NewMountRegistry(client, ttl)
		heartbeat = ttl / 2
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", ttl).Msg("using redis mount registry")
	} else {
		registry = memory.NewMountRegistry()
	}

	wsHandler := transport.NewWSHandler(newDeps(cfg, log), registry, heartbeat, log)
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      transport.NewMux(wsHandler, registry, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Server.Port).Str("api", cfg.API.BaseURL).Msg("starting quiz host")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down quiz host...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
