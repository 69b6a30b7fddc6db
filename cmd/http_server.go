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

	"github.com/averoza/stockroom/internal"
	"github.com/averoza/stockroom/internal/audit"
	auditpg "github.com/averoza/stockroom/internal/audit/postgres"
	"github.com/averoza/stockroom/internal/auth"
	"github.com/averoza/stockroom/internal/core/events"
	"github.com/averoza/stockroom/internal/dashboard"
	"github.com/averoza/stockroom/internal/material"
	materialpg "github.com/averoza/stockroom/internal/material/postgres"
	"github.com/averoza/stockroom/internal/movement"
	movementpg "github.com/averoza/stockroom/internal/movement/postgres"
	"github.com/averoza/stockroom/internal/requisition"
	requisitionpg "github.com/averoza/stockroom/internal/requisition/postgres"
	"github.com/averoza/stockroom/internal/storage/memory"
	"github.com/averoza/stockroom/internal/transport/rest"
	"github.com/averoza/stockroom/internal/user"
	userpg "github.com/averoza/stockroom/internal/user/postgres"
	"github.com/averoza/stockroom/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
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

type repositories struct {
	materials    material.Repository
	movements    movement.Repository
	requisitions requisition.Repository
	users        user.Repository
	auditLogs    audit.Repository
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
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
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if deps.DB != nil {
			if err := deps.DB.Close(); err != nil {
				slog.Error("Database close error", "error", err)
			}
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	env := "development"
	if config.Observability.Logging.Format == "json" {
		env = "production"
	}
	logger.Init(env)
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}

	var (
		db    *sqlx.DB
		repos repositories
	)
	if config.Database.UseMemoryStore() {
		lg.Warn("no database source configured, using volatile in-memory store")
		store := memory.NewStore()
		repos = repositories{
			materials:    memory.NewMaterialRepository(store),
			movements:    memory.NewMovementRepository(store),
			requisitions: memory.NewRequisitionRepository(store),
			users:        memory.NewUserRepository(store),
			auditLogs:    memory.NewAuditRepository(store),
		}
	} else {
		db, err = initDB(config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}

		gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to open gorm over pgx pool: %w", err)
		}

		repos = repositories{
			materials:    materialpg.NewMaterialRepository(gormDB),
			movements:    movementpg.NewMovementRepository(gormDB),
			requisitions: requisitionpg.NewRequisitionRepository(gormDB),
			users:        userpg.NewUserRepository(gormDB),
			auditLogs:    auditpg.NewAuditRepository(gormDB),
		}
	}

	bus := events.NewEventBus(lg)

	auditService := audit.NewService(repos.auditLogs, lg)
	auditService.RegisterRecorder(bus)

	userService := user.NewService(repos.users, lg)
	materialService := material.NewService(repos.materials, bus, lg)
	movementService := movement.NewService(repos.movements, repos.materials, bus, lg)
	requisitionService := requisition.NewService(repos.requisitions, repos.materials, repos.users, bus, lg)
	dashboardService := dashboard.NewService(repos.requisitions, repos.movements, repos.materials, lg)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	sessionGen := auth.NewSessionGenerator(
		config.Security.EmployeeSessionSecret,
		config.Security.EmployeeSessionDuration,
	)
	authService := auth.NewService(repos.users, tokenGen, config.Security.BCryptCost, lg)
	employeeService := auth.NewEmployeeService(repos.users, sessionGen, lg)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db, rest.Handlers{
		Auth:        auth.NewHandler(authService),
		Employee:    auth.NewEmployeeHandler(employeeService, config.Security.EmployeeSessionDuration),
		User:        user.NewHandler(userService),
		Material:    material.NewHandler(materialService),
		Movement:    movement.NewHandler(movementService),
		Requisition: requisition.NewHandler(requisitionService),
		Dashboard:   dashboard.NewHandler(dashboardService),
		Audit:       audit.NewHandler(auditService),
	}, lg)

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Router: router,
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

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
