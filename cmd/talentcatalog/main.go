// Command talentcatalog runs the Talent Catalog admin API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deppfellow/talent-catalog/internal/config"
	"github.com/deppfellow/talent-catalog/internal/database"
	"github.com/deppfellow/talent-catalog/internal/handler"
	"github.com/deppfellow/talent-catalog/internal/lib/email"
	"github.com/deppfellow/talent-catalog/internal/logger"
	"github.com/deppfellow/talent-catalog/internal/repository"
	"github.com/deppfellow/talent-catalog/internal/router"
	"github.com/deppfellow/talent-catalog/internal/server"
	"github.com/deppfellow/talent-catalog/internal/service"
)

const (
	shutdownTimeout = 30 * time.Second
	migrateTimeout  = 5 * time.Minute
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "talentcatalog",
		Short: "Talent Catalog admin API",
		Long: `Serves the Talent Catalog admin REST API.

Configuration is read from TALENTCATALOG_* environment variables, or a .env
file in the working directory.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server and background workers",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply pending database migrations",
			RunE:  runMigrate,
		},
		&cobra.Command{
			Use:   "preview-email <template>",
			Short: "Render an email template with sample data to stdout",
			Args:  cobra.ExactArgs(1),
			RunE:  runPreviewEmail,
		},
	)

	return rootCmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	if err != nil {
		return err
	}
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize server")
		return err
	}

	repos := repository.NewRepositories(srv)
	services, err := service.NewServices(srv, repos)
	if err != nil {
		log.Error().Err(err).Msg("failed to create services")
		return err
	}

	srv.Job.InitHandlers(email.NewClient(cfg, &log), services.Country)
	if err := srv.Job.Start(); err != nil {
		log.Error().Err(err).Msg("failed to start job workers")
		return err
	}

	srv.SetupHTTPServer(router.NewRouter(srv, handler.NewHandlers(srv, services)))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("server stopped unexpectedly")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	log.Info().Msg("server exited properly")
	return nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log := logger.NewLogger(cfg.Observability)

	ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
	defer cancel()

	if err := database.Migrate(ctx, &log, cfg); err != nil {
		log.Error().Err(err).Msg("migration failed")
		return err
	}
	return nil
}

func runPreviewEmail(cmd *cobra.Command, args []string) error {
	html, err := email.Preview(email.Template(args[0]))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
	return err
}
