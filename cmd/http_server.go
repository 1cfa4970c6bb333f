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

	"github.com/frahmantamala/attendance-report/api"
	"github.com/frahmantamala/attendance-report/internal"
	"github.com/frahmantamala/attendance-report/internal/audit"
	"github.com/frahmantamala/attendance-report/internal/auth"
	authMemory "github.com/frahmantamala/attendance-report/internal/auth/memory"
	authPostgres "github.com/frahmantamala/attendance-report/internal/auth/postgres"
	"github.com/frahmantamala/attendance-report/internal/core/events"
	"github.com/frahmantamala/attendance-report/internal/department"
	departmentPostgres "github.com/frahmantamala/attendance-report/internal/department/postgres"
	"github.com/frahmantamala/attendance-report/internal/report"
	reportPostgres "github.com/frahmantamala/attendance-report/internal/report/postgres"
	"github.com/frahmantamala/attendance-report/internal/transport"
	"github.com/frahmantamala/attendance-report/internal/transport/rest"
	"github.com/frahmantamala/attendance-report/internal/user"
	userPostgres "github.com/frahmantamala/attendance-report/internal/user/postgres"
	"github.com/frahmantamala/attendance-report/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
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
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Router *chi.Mux
	Events *events.EventBus
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server",
		"address", addr,
		"session_backend", deps.Config.Security.SessionBackend)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
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
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.Events.Drain(ctx); err != nil {
			deps.Logger.Error("Event handlers did not finish", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	lg := deps.Logger
	cfg := deps.Config

	bus := events.NewEventBus(lg)
	audit.Register(bus, lg)
	deps.Events = bus

	authRepo := authPostgres.NewRepository(deps.Gorm)
	sessions := auth.NewSessionManager(newSessionStore(cfg.Security, deps.DB, lg), authRepo, cfg.Security.SessionTTL(), lg)

	departments := department.NewService(departmentPostgres.NewDepartmentRepository(deps.Gorm), lg)
	users := user.NewService(userPostgres.NewUserRepository(deps.Gorm), departments, bus, cfg.Security.BCryptCost, lg)
	reports := report.NewService(reportPostgres.NewReportRepository(deps.Gorm), departments, bus, lg)

	base := transport.NewBaseHandler(lg)
	rest.RegisterAllRoutes(deps.Router, deps.DB, base, rest.Handlers{
		Auth:       auth.NewHandler(base, auth.NewService(authRepo, sessions, lg)),
		User:       user.NewHandler(base, users),
		Department: department.NewHandler(base, departments),
		Report:     report.NewHandler(base, reports),
	}, cfg.Observability.Metrics)
}

func newSessionStore(cfg internal.SecurityConfig, db *sqlx.DB, lg *slog.Logger) auth.SessionStore {
	if cfg.SessionBackend == internal.SessionBackendMemory {
		return authMemory.NewSessionStore(cfg.MemorySessionCapacity, cfg.SessionTTL(), lg)
	}
	return authPostgres.NewSessionStore(db)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)

	ctx, cancel := internal.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := api.Load(ctx); err != nil {
		return nil, err
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Gorm:   gormDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm opens gorm on the sqlx pool so both share connections.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
}
