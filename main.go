package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/blogem/funcionario-api/config"
	"github.com/blogem/funcionario-api/controllers"
	"github.com/blogem/funcionario-api/database"
	requestlog "github.com/blogem/funcionario-api/middleware"
	"github.com/blogem/funcionario-api/repositories"
	"github.com/blogem/funcionario-api/services"
	"github.com/blogem/funcionario-api/tablestore"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	// Initialize database
	db, err := database.InitializeDatabase(cfg.ConnectionStrings.Default)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize table store
	tables, err := tablestore.New(cfg.ConnectionStrings.TableStore)
	if err != nil {
		log.Fatalf("Failed to initialize table store: %v", err)
	}
	defer tables.Close()

	repos := repositories.NewRepositories(db, tables, cfg.ConnectionStrings.TableName)
	srvs := services.NewServices(repos, logger)
	ctrl := controllers.NewControllers(srvs)

	// spans are recorded only once a tracer provider is registered
	handler := otelhttp.NewHandler(setupRouter(ctrl, logger), "funcionario-api")

	logger.Info("funcionario api starting",
		"port", cfg.Server.Port,
		"database", db.Dialect,
		"audit_table", cfg.ConnectionStrings.TableName,
	)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		fmt.Fprintf(os.Stderr, "unknown log level %q, using info\n", level)
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// setupRouter configures all routes
func setupRouter(ctrl *controllers.Controllers, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestlog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", ctrl.Health.Check)

	// API documentation
	r.Get("/swagger", ctrl.Docs.UI)
	r.Get("/swagger/openapi.json", ctrl.Docs.OpenAPI)

	// Employee routes
	r.Route("/Funcionario", func(r chi.Router) {
		r.Post("/", ctrl.Funcionario.Create)
		r.Get("/{id}", ctrl.Funcionario.Get)
		r.Put("/{id}", ctrl.Funcionario.Update)
		r.Delete("/{id}", ctrl.Funcionario.Delete)
		r.Get("/log/{departamento}", ctrl.Funcionario.ListLog)
	})

	return r
}
