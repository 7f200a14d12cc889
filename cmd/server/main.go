package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/dallinbsmith/prescription-db-sub001/internal/auth"
	"github.com/dallinbsmith/prescription-db-sub001/internal/config"
	"github.com/dallinbsmith/prescription-db-sub001/internal/database"
	"github.com/dallinbsmith/prescription-db-sub001/internal/domain"
	"github.com/dallinbsmith/prescription-db-sub001/internal/logging"
	postgresrepo "github.com/dallinbsmith/prescription-db-sub001/internal/repository/postgres"
	"github.com/dallinbsmith/prescription-db-sub001/internal/service"
	"github.com/dallinbsmith/prescription-db-sub001/internal/transport/http/handlers"
	"github.com/dallinbsmith/prescription-db-sub001/internal/transport/http/middleware"
	"github.com/dallinbsmith/prescription-db-sub001/internal/transport/ws"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel)
	defer logger.Sync()

	// Database
	pool, err := database.Connect(context.Background(), cfg)
	if err != nil {
		logger.Fatal("database connect", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("connected to database")

	coordinator := database.NewCoordinator(pool, cfg.AcquireTimeout)
	repos := postgresrepo.NewFactory()
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	// Live discussion feed
	hub := ws.NewHub(logger)
	go hub.Run()

	// Services
	authService := service.NewAuthService(pool, repos, issuer, cfg.BcryptCost, cfg.QueryTimeout)
	catalogService := service.NewCatalogService(pool, repos, cfg.QueryTimeout)
	registryService := service.NewRegistryService(pool, repos, coordinator, cfg.QueryTimeout)
	discussionService := service.NewDiscussionService(pool, repos, coordinator, hub, cfg.QueryTimeout)
	userService := service.NewUserService(pool, repos, cfg.QueryTimeout)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	catalogHandler := handlers.NewCatalogHandler(catalogService, logger)
	registryHandler := handlers.NewRegistryHandler(registryService, logger)
	discussionHandler := handlers.NewDiscussionHandler(discussionService, logger)
	userHandler := handlers.NewUserHandler(userService, logger)

	// Middleware
	authed := middleware.Auth(issuer, logger)
	admin := func(h http.Handler) http.Handler {
		return authed(middleware.RequireRole(domain.RoleAdmin)(h))
	}

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)

	// Protected - Account
	mux.Handle("GET /api/v1/me", authed(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PATCH /api/v1/me", authed(http.HandlerFunc(authHandler.UpdateProfile)))
	mux.Handle("POST /api/v1/me/password", authed(http.HandlerFunc(authHandler.ChangePassword)))

	// Protected - Catalog
	mux.Handle("GET /api/v1/drugs", authed(http.HandlerFunc(catalogHandler.Search)))
	mux.Handle("GET /api/v1/drugs/fields/{field}/values", authed(http.HandlerFunc(catalogHandler.DistinctValues)))
	mux.Handle("GET /api/v1/drugs/ndc/{ndc}", authed(http.HandlerFunc(catalogHandler.GetByNDC)))
	mux.Handle("GET /api/v1/drugs/{id}", authed(http.HandlerFunc(catalogHandler.Get)))
	mux.Handle("POST /api/v1/drugs", admin(http.HandlerFunc(catalogHandler.Create)))
	mux.Handle("PUT /api/v1/drugs/{id}", admin(http.HandlerFunc(catalogHandler.Update)))
	mux.Handle("DELETE /api/v1/drugs/{id}", admin(http.HandlerFunc(catalogHandler.Delete)))

	// Protected - Registry
	mux.Handle("GET /api/v1/registry", authed(http.HandlerFunc(registryHandler.List)))
	mux.Handle("POST /api/v1/registry", authed(http.HandlerFunc(registryHandler.Add)))
	mux.Handle("GET /api/v1/registry/{drugID}", authed(http.HandlerFunc(registryHandler.Check)))
	mux.Handle("PATCH /api/v1/registry/{drugID}", authed(http.HandlerFunc(registryHandler.UpdateNotes)))
	mux.Handle("DELETE /api/v1/registry/{drugID}", authed(http.HandlerFunc(registryHandler.Remove)))

	// Protected - Discussions
	mux.Handle("GET /api/v1/drugs/{id}/discussions", authed(http.HandlerFunc(discussionHandler.ListByDrug)))
	mux.Handle("POST /api/v1/drugs/{id}/discussions", authed(http.HandlerFunc(discussionHandler.Create)))
	mux.Handle("DELETE /api/v1/discussions/{id}", authed(http.HandlerFunc(discussionHandler.Delete)))

	// Admin - Users
	mux.Handle("GET /api/v1/admin/users", admin(http.HandlerFunc(userHandler.List)))
	mux.Handle("PATCH /api/v1/admin/users/{id}/role", admin(http.HandlerFunc(userHandler.UpdateRole)))
	mux.Handle("DELETE /api/v1/admin/users/{id}", admin(http.HandlerFunc(userHandler.Delete)))

	// Live discussion feed
	mux.HandleFunc("GET /ws", ws.ServeWS(hub, issuer, logger))

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	logger.Info("starting server", zap.String("addr", addr))

	handler := middleware.CORS(middleware.RequestLogger(logger)(mux))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
