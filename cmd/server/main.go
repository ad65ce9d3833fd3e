package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/gainworld/travel-guide/internal/config"
	"github.com/gainworld/travel-guide/internal/database"
	"github.com/gainworld/travel-guide/internal/handlers"
	"github.com/gainworld/travel-guide/internal/logger"
	"github.com/gainworld/travel-guide/internal/middleware"
	"github.com/gainworld/travel-guide/internal/services/google"
	"github.com/gainworld/travel-guide/internal/session"
)

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Load configuration; this fails fast when the session signing key or
	// Google credentials are missing.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("database_path", cfg.DatabasePath),
	)

	// Connect to database and apply the idempotent schema migration
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		zapLogger.Fatal("failed_to_open_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database", zap.Error(err))
		}
	}()

	if err := db.Migrate(context.Background()); err != nil {
		zapLogger.Fatal("failed_to_migrate_database", zap.Error(err))
	}
	zapLogger.Info("connected_to_database")

	// Initialize repositories
	userRepo := database.NewUserRepository(db)
	placeRepo := database.NewPlaceRepository(db)

	// Initialize services
	sessionManager := session.NewManager([]byte(cfg.SessionKey))
	jwksManager := google.NewJWKSManager()
	verifier := google.NewVerifier(jwksManager, google.DefaultJWKSURL)
	googleClient := google.NewClient(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, verifier)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(googleClient, userRepo, sessionManager, zapLogger)
	placeHandler := handlers.NewPlaceHandler(placeRepo, zapLogger)
	healthChecker := handlers.NewHealthChecker(db)

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	// Public routes
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	authHandler.RegisterRoutes(r)

	// Static landing page
	r.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, filepath.Join(cfg.StaticDir, "index.html"))
	}).Methods("GET")
	r.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))

	// Protected routes
	protected := r.NewRoute().Subrouter()
	protected.Use(middleware.Auth(sessionManager, zapLogger))
	protected.HandleFunc("/userinfo", authHandler.UserInfo).Methods("GET")
	placeHandler.RegisterRoutes(protected)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        c.Handler(r),
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}
