package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
	"todoTracker/internal/config"
	"todoTracker/internal/handlers"
	"todoTracker/internal/logger"
	"todoTracker/internal/middleware"
	"todoTracker/internal/migrations"
	"todoTracker/internal/repository/todo/inmemory"
	"todoTracker/internal/repository/todo/postgres"
	"todoTracker/internal/repository/todo/sqlite"
	"todoTracker/internal/service"
	"todoTracker/pkg/translator"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository service.TodoRepository
	service    handlers.Service
	shutdowns  []func() // run in reverse order on Shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: flushing logs")
		logger.Sync()
	})

	translator.Init()

	if err := a.initRepository(ctx); err != nil {
		a.Shutdown(ctx)
		return nil, err
	}

	a.service = service.NewTodoService(a.repository, service.RepoType(a.config.Repository.Type))
	a.initRouter()

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.router,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	return a, nil
}

func (a *App) initRepository(ctx context.Context) error {
	dbCfg := a.config.Database

	switch service.RepoType(a.config.Repository.Type) {
	case service.PostgresType:
		if dbCfg.MigrateOnStart {
			if err := migrations.UpPostgres(dbCfg.URL); err != nil {
				return fmt.Errorf("migrate postgres: %w", err)
			}
		}

		storage, err := postgres.New(ctx, dbCfg.URL, postgres.Limits{
			MaxConns:    dbCfg.MaxConnections,
			MinConns:    dbCfg.MinConnections,
			IdleTimeout: dbCfg.IdleTimeout,
		})
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		a.repository = storage
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("App: closing postgres pool")
			storage.Close()
		})

	case service.SQLiteType:
		storage, err := sqlite.Open(dbCfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("App: closing sqlite database")
			storage.Close()
		})

		if dbCfg.MigrateOnStart {
			if err := migrations.UpSQLite(storage.DB()); err != nil {
				return fmt.Errorf("migrate sqlite: %w", err)
			}
		}
		a.repository = storage

	case service.InMemoryType:
		a.repository = inmemory.NewTodoStorage()

	default:
		return fmt.Errorf("unknown repository type %q", a.config.Repository.Type)
	}

	logger.Info("App: repository ready", zap.String("type", a.config.Repository.Type))
	return nil
}

func (a *App) initRouter() {
	serverCfg := a.config.Server

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: serverCfg.CorsAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Accept-Language", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Language)
	r.Use(middleware.Timeout(serverCfg.RequestTimeout))
	if serverCfg.RateLimit > 0 {
		r.Use(middleware.RateLimit(serverCfg.RateLimit))
	}

	r.NotFound(middleware.NotFound)

	todoHandler := handlers.NewTodoHandler(a.service)
	if serverCfg.BasePath == "" {
		handlers.RegisterRoutes(r, todoHandler)
	} else {
		r.Route(serverCfg.BasePath, func(r chi.Router) {
			handlers.RegisterRoutes(r, todoHandler)
		})
	}

	a.router = r
}

// Run serves until the server is shut down. http.ErrServerClosed is not an
// error.
func (a *App) Run() error {
	logger.Info("App: server started",
		zap.String("addr", a.server.Addr),
		zap.String("base_path", a.config.Server.BasePath),
		zap.String("repository", a.config.Repository.Type))

	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests, then releases resources in reverse
// order of acquisition.
func (a *App) Shutdown(ctx context.Context) {
	if a.server != nil {
		timeout := a.config.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			logger.Error("App: server shutdown", err)
		}
	}

	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}

// Handler exposes the configured router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.router
}
