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

	"servicedesk-backend/internal/auth"
	"servicedesk-backend/internal/cache"
	"servicedesk-backend/internal/config"
	"servicedesk-backend/internal/database"
	"servicedesk-backend/internal/db"
	"servicedesk-backend/internal/handlers"
	"servicedesk-backend/internal/health"
	h "servicedesk-backend/internal/http"
	"servicedesk-backend/internal/logger"
	"servicedesk-backend/internal/middleware"
	"servicedesk-backend/internal/repositories"
	"servicedesk-backend/internal/services"
	"servicedesk-backend/internal/storage"
	"servicedesk-backend/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:     "servicedesk",
	Short:   "Service desk back office API",
	Version: version,
	// running without a subcommand starts the server
	RunE: func(cmd *cobra.Command, args []string) error { return runServe(cmd.Context()) },
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations, seed admins and start the HTTP API",
	RunE:  func(cmd *cobra.Command, args []string) error { return runServe(cmd.Context()) },
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, pool, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()
		return database.NewMigratorWithFS(pool, migrations.FS, ".").RunMigrations(cmd.Context())
	},
}

var seedAdminsCmd = &cobra.Command{
	Use:   "seed-admins",
	Short: "Create or refresh the admins listed in bootstrap_admins / BOOTSTRAP_ADMINS",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, pool, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		n, err := newAuthService(cfg, pool).SeedAdmins(cmd.Context(), cfg.BootstrapAdmins)
		if err != nil {
			return err
		}
		log := logger.WithComponent("seed")
		log.Info().Int("admins", n).Msg("bootstrap admins seeded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedAdminsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log := logger.WithComponent("cmd")
		log.Error().Err(err).Msg("command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads config, sets up logging and connects to PostgreSQL.
func bootstrap(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Setup(logger.LogConfig{Level: cfg.Log.Level, Format: cfg.Log.Format}); err != nil {
		return nil, nil, fmt.Errorf("logger setup: %w", err)
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, pool, nil
}

func newAuthService(cfg *config.Config, pool *pgxpool.Pool) *services.AuthService {
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.ExpirationHours)*time.Hour)
	return services.NewAuthService(repositories.NewUserRepository(pool), repositories.NewLocationRepository(pool), jwtManager)
}

func runServe(ctx context.Context) error {
	cfg, pool, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()
	log := logger.WithComponent("server")

	if err := database.NewMigratorWithFS(pool, migrations.FS, ".").RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	// Redis is optional; analytics just skip the cache without it
	var redisHealth func(context.Context) bool
	if cfg.Redis.Enabled {
		if err := cache.Init(cache.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, analytics caching disabled")
		}
		redisHealth = cache.IsHealthy
		defer cache.Close()
	}

	files, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	companyRepo := repositories.NewCompanyRepository(pool)
	locationRepo := repositories.NewLocationRepository(pool)
	invoiceRepo := repositories.NewInvoiceRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)
	journalRepo := repositories.NewJournalRepository(pool)

	// Services
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.ExpirationHours)*time.Hour)
	authService := services.NewAuthService(userRepo, locationRepo, jwtManager)
	companyService := services.NewCompanyService(companyRepo, locationRepo)
	invoiceService := services.NewInvoiceService(invoiceRepo, companyRepo, locationRepo)
	paymentService := services.NewPaymentService(paymentRepo, files)
	journalService := services.NewJournalService(journalRepo, files)
	analyticsService := services.NewAnalyticsService(companyRepo, locationRepo, paymentRepo, journalRepo)
	exportService := services.NewExportService(services.ExportSources{
		Companies: companyRepo,
		Locations: locationRepo,
		Users:     userRepo,
		Invoices:  invoiceRepo,
		Payments:  paymentRepo,
		Journals:  journalRepo,
	})

	if n, err := authService.SeedAdmins(ctx, cfg.BootstrapAdmins); err != nil {
		return fmt.Errorf("seed admins: %w", err)
	} else if n > 0 {
		log.Info().Int("admins", n).Msg("bootstrap admins seeded")
	}

	maxUpload := cfg.Server.UploadMaxBytes
	var uploadDir string
	if !cfg.Storage.UsesS3() {
		uploadDir = cfg.Storage.LocalDir
	}

	router := h.NewRouter(h.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		Company:   handlers.NewCompanyHandler(companyService),
		Invoice:   handlers.NewInvoiceHandler(invoiceService),
		Payment:   handlers.NewPaymentHandler(paymentService, maxUpload),
		Journal:   handlers.NewJournalHandler(journalService, maxUpload),
		Analytics: handlers.NewAnalyticsHandler(analyticsService),
		Export:    handlers.NewExportHandler(exportService),
		Health:    handlers.NewHealthHandler(health.NewHealthChecker(pool, redisHealth)),
	}, middleware.NewAuthMiddleware(jwtManager, userRepo), uploadDir)

	// Wrap with panic recovery, CORS and request logging
	handler := middleware.PanicRecovery(middleware.NewCORS(cfg)(middleware.RequestLogging(router)))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server running")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
