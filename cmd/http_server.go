package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alraedsec/work-management/internal"
	"github.com/alraedsec/work-management/internal/activity"
	activityPostgres "github.com/alraedsec/work-management/internal/activity/postgres"
	"github.com/alraedsec/work-management/internal/auth"
	authPostgres "github.com/alraedsec/work-management/internal/auth/postgres"
	"github.com/alraedsec/work-management/internal/core/events"
	"github.com/alraedsec/work-management/internal/report"
	"github.com/alraedsec/work-management/internal/task"
	taskPostgres "github.com/alraedsec/work-management/internal/task/postgres"
	"github.com/alraedsec/work-management/internal/transport/rest"
	"github.com/alraedsec/work-management/internal/user"
	userPostgres "github.com/alraedsec/work-management/internal/user/postgres"
	"github.com/alraedsec/work-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	GormDB *gorm.DB
	SqlxDB *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.SqlxDB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	gormDB, sqlxDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	eventBus := events.NewEventBus(lg)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)

	authRepo := authPostgres.NewRepository(gormDB)
	authService := auth.NewService(authRepo, tokenGen, lg, config.Security.BCryptCost, config.Security.TempPasswordLength)
	authHandler := auth.NewHandler(authService)

	userRepo := userPostgres.NewUserRepository(gormDB)
	userService := user.NewService(userRepo, lg, config.Security.BCryptCost, config.Security.TempPasswordLength)
	userHandler := user.NewHandler(userService, authService)

	taskRepo := taskPostgres.NewTaskRepository(gormDB)
	taskService := task.NewService(taskRepo, userRepo, nil, eventBus, lg)
	taskHandler := task.NewHandler(taskService)

	activityRepo := activityPostgres.NewActivityRepository(gormDB)
	activityService := activity.NewService(activityRepo, taskService, lg)
	activityHandler := activity.NewHandler(activityService)

	// Task deletion purges the trail; the trail guards through the task
	// service. Wired after both exist.
	taskService.SetActivityPurger(activityService)

	activity.NewSubscriber(activityService, lg).Register(eventBus)

	reportRepo := report.NewRepository(sqlxDB)
	reportService := report.NewService(reportRepo, lg)
	reportHandler := report.NewHandler(reportService)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, sqlxDB.DB, authHandler, userHandler, taskHandler, activityHandler, reportHandler, lg)

	return &Dependencies{
		Config: config,
		GormDB: gormDB,
		SqlxDB: sqlxDB,
		Router: router,
		Logger: lg,
	}, nil
}

// initDB opens the database once and shares the connection pool between the
// GORM repositories and the sqlx reporting queries.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, *sqlx.DB, error) {
	var (
		gormDB     *gorm.DB
		driverName string
		err        error
	)

	switch cfg.Driver {
	case "sqlite":
		driverName = "sqlite"
		gormDB, err = gorm.Open(gormsqlite.Open(cfg.Source), &gorm.Config{})
	default:
		driverName = "pgx"
		gormDB, err = gorm.Open(gormpostgres.Open(cfg.Source), &gorm.Config{})
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to access underlying connection: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return gormDB, sqlx.NewDb(sqlDB, driverName), nil
}
