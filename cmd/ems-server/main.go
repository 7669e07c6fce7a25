package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ems/ems/internal/config"
	"github.com/ems/ems/internal/domain/hospital"
	"github.com/ems/ems/internal/domain/routing"
	"github.com/ems/ems/internal/platform/auth"
	"github.com/ems/ems/internal/platform/db"
	"github.com/ems/ems/internal/platform/middleware"
	"github.com/ems/ems/internal/platform/traveltime"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ems-server",
		Short: "EMS hospital routing API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(importDatasetCmd())
	rootCmd.AddCommand(checkDatasetCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the routing API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			_, pool, err := loadConfigAndPool()
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(context.Background())
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			_, pool, err := loadConfigAndPool()
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func importDatasetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-dataset",
		Short: "Load a CSV hospital dataset into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			if path == "" {
				return fmt.Errorf("--file is required")
			}

			_, pool, err := loadConfigAndPool()
			if err != nil {
				return err
			}
			defer pool.Close()

			ctx := context.Background()
			hospitals, err := hospital.NewCSVRepository(path).All(ctx)
			if err != nil {
				return err
			}

			repo := hospital.NewPGRepository(pool)
			for _, h := range hospitals {
				if err := repo.Upsert(ctx, h); err != nil {
					return fmt.Errorf("import %s: %w", h.ID, err)
				}
			}
			fmt.Printf("Imported %d hospital(s).\n", len(hospitals))
			return nil
		},
	}
	cmd.Flags().String("file", "", "Path to the CSV dataset")
	return cmd
}

func checkDatasetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-dataset",
		Short: "Parse a CSV hospital dataset and report its contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			if path == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				path = cfg.HospitalDataset
			}
			if path == "" {
				return fmt.Errorf("--file or HOSPITAL_DATASET is required")
			}

			hospitals, err := hospital.NewCSVRepository(path).All(context.Background())
			if err != nil {
				return err
			}

			diverted, noICU := tallyDataset(hospitals)
			fmt.Printf("%d hospital(s): %d on diversion, %d without ICU capacity\n",
				len(hospitals), diverted, noICU)
			return nil
		},
	}
	cmd.Flags().String("file", "", "Path to the CSV dataset (defaults to HOSPITAL_DATASET)")
	return cmd
}

// tallyDataset counts hospitals the routing hard filters would treat as on
// diversion or without ICU capacity; the diversion match is case-insensitive
// like the filter's.
func tallyDataset(hospitals []*hospital.Hospital) (diverted, noICU int) {
	for _, h := range hospitals {
		if strings.EqualFold(strings.TrimSpace(h.EDDiversion), "yes") {
			diverted++
		}
		if h.AvailableICUBeds <= 0 {
			noICU++
		}
	}
	return diverted, noICU
}

func loadConfigAndPool() (*config.Config, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is required for this command")
	}
	pool, err := db.NewPool(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, nil, err
	}
	return cfg, pool, nil
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Hospital source: Postgres when configured, CSV otherwise.
	var repo hospital.Repository
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		ctx := context.Background()
		pool, err = db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		repo = hospital.NewPGRepository(pool)
		logger.Info().Msg("hospital source: postgres")
	} else {
		repo = hospital.NewCSVRepository(cfg.HospitalDataset)
		logger.Info().Str("path", cfg.HospitalDataset).Msg("hospital source: csv dataset")
	}

	// Specialty catalog
	catalog := routing.DefaultCatalog()
	if cfg.SpecialtyCatalog != "" {
		catalog, err = routing.LoadCatalog(cfg.SpecialtyCatalog)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to load specialty catalog")
		}
	}

	// Travel-time estimator; routing falls back to dataset estimates when
	// no key is configured.
	var estimator traveltime.Estimator
	if cfg.GMapsAPIKey != "" {
		estimator = traveltime.NewGoogleMatrix(cfg.GMapsAPIKey, cfg.GMapsBaseURL,
			time.Duration(cfg.ETATimeoutSeconds)*time.Second)
	} else {
		logger.Warn().Msg("no GMAPS_API_KEY configured, using dataset travel-time estimates")
	}

	// Services
	hospitalSvc := hospital.NewService(repo)
	routingSvc := routing.NewService(hospitalSvc, estimator, routing.NewOverlay(), catalog, logger)
	routingSvc.SetFallbackETA(cfg.FallbackETAMin)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.Logger(logger))
	e.Use(middleware.RequestTimeout(time.Duration(cfg.RequestTimeoutSeconds) * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	if cfg.ResolvedAuthMode() == "development" {
		logger.Warn().Msg("development auth mode active, all requests get admin access")
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			JWKSURL:    cfg.AuthJWKSURL,
			SigningKey: []byte(cfg.AuthHSSecret),
		}))
	}

	// Routes
	apiV1 := e.Group("/api/v1")
	hospital.NewHandler(hospitalSvc).RegisterRoutes(apiV1)
	routing.NewHandler(routingSvc).RegisterRoutes(apiV1)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	if pool != nil {
		e.GET("/healthz/db", db.HealthHandler(pool))
	}

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
