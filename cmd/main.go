package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"fitquest/config"
	"fitquest/observability"
	"fitquest/repository"
	"fitquest/routes"
	"fitquest/services"
	"fitquest/store"
	"fitquest/utils"

	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "fitquest",
		Short:        "Fitness and nutrition tracking backend",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newTokenCmd())
	return root
}

func setupLogger(cfg config.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	return logger
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			logger := setupLogger(cfg)
			if err := cfg.Validate(); err != nil {
				logger.Error("invalid configuration", "error", err)
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	shutdownTracing, err := observability.InitTracing(ctx, cfg.OTLPEndpoint, "fitquest")
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to shutdown tracing", "error", err)
		}
	}()

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return err
	}
	repo := repository.New(db, logger)

	gen, err := services.NewGenerator(cfg)
	if err != nil {
		return err
	}
	uploader, err := utils.NewS3Uploader(ctx, cfg.S3Region, cfg.S3Bucket, cfg.CloudFrontURL)
	if err != nil {
		return err
	}
	if uploader == nil {
		logger.Warn("S3_BUCKET not set, profile picture uploads are disabled")
	}

	hub := services.NewRealtimeHub()
	st := store.New(repo, store.Options{
		Policy:          store.Policy(cfg.StoreErrorPolicy),
		Publisher:       services.NewChangeBus(hub),
		Logger:          logger,
		CacheTTL:        cfg.CacheTTL,
		CacheMaxEntries: cfg.CacheMaxEntries,
	})

	router := routes.SetupRouter(routes.Deps{
		Store:          st,
		Assistant:      services.NewAssistant(gen, cfg.AITimeout, logger),
		Auth:           services.NewAuthService(cfg.SupabaseURL, cfg.SupabaseAnonKey, repo, logger),
		Hub:            hub,
		Uploader:       uploader,
		MaxUploadBytes: cfg.MaxUploadBytes,
		DB:             repo,
		JWTSecret:      cfg.SupabaseJWTSecret,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         logger,
	})

	handler := cors.New(corsOptions(cfg.CORSAllowedOrigins)).Handler(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "policy", cfg.StoreErrorPolicy, "llm_backend", cfg.LLMBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// corsOptions allows credentials only for an explicit origin list; with "*" rs/cors would
// echo any origin back together with credentials.
func corsOptions(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Session-ID"},
		ExposedHeaders:   []string{"X-Session-ID"},
		AllowCredentials: !slices.Contains(origins, "*"),
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load().WithPlaceholders()
			logger := setupLogger(cfg)
			db, err := config.ConnectDatabase(cfg)
			if err != nil {
				return err
			}
			if err := repository.New(db, logger).Migrate(cmd.Context()); err != nil {
				return err
			}
			logger.Info("migration complete")
			return nil
		},
	}
}

// newTokenCmd prints an access token for local testing against a hosted-auth JWT secret.
func newTokenCmd() *cobra.Command {
	var userID string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed development access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if cfg.SupabaseJWTSecret == "" {
				return fmt.Errorf("%w: SUPABASE_JWT_SECRET", config.ErrMissingEnv)
			}
			token, err := utils.SignAccessToken(cfg.SupabaseJWTSecret, userID, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (uuid) to put in the sub claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
