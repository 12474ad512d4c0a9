package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"doccontrol/internal/auth"
	"doccontrol/internal/config"
	"doccontrol/internal/domain/services"
	"doccontrol/internal/handler"
	"doccontrol/internal/middleware"
	"doccontrol/internal/notify"
	"doccontrol/internal/repository/postgres"
	"doccontrol/internal/service"
	"doccontrol/internal/storage"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx := context.Background()

	// JWT verifier against the identity provider's JWKS endpoint
	verifier, err := auth.NewJWKSVerifier(ctx, cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer verifier.Close()

	// Create pgx connection pool
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	docRepo := postgres.NewDocumentRepository(repoConfig)
	versionRepo := postgres.NewVersionRepository(repoConfig)
	accessRepo := postgres.NewAccessRepository(repoConfig)
	eventRepo := postgres.NewEventRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Blob store with signed-URL caching
	s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
		Bucket:   cfg.S3Bucket,
		Region:   cfg.S3Region,
		Endpoint: cfg.S3Endpoint,
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("Failed to create blob store: %v", err)
	}
	blobs := storage.NewCachingStore(s3Store)

	// Events go to the structured log and the activity log table
	sink := notify.MultiSink{
		notify.NewLogSink(logger),
		notify.NewRecordingSink(eventRepo, logger),
	}

	clock := services.RealClock{}

	// Create services
	accessService := service.NewAccessService(accessRepo, sink, clock, logger)
	lockManager := service.NewLockManager(docRepo, clock, cfg.LockLease, logger)
	docService := service.NewDocumentService(
		docRepo,
		versionRepo,
		eventRepo,
		accessService,
		lockManager,
		txManager,
		blobs,
		clock,
		sink,
		service.DocumentServiceConfig{SignedURLTTL: cfg.SignedURLTTL},
		logger,
	)

	// Create handlers
	docHandler := handler.NewDocumentHandler(docService, logger)
	lifecycleHandler := handler.NewLifecycleHandler(docService, logger)
	lockHandler := handler.NewLockHandler(docService, logger)
	versionHandler := handler.NewVersionHandler(docService, logger)
	accessHandler := handler.NewAccessHandler(docService, accessService, logger)

	// Routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", docHandler.HealthCheck)

	mux.HandleFunc("POST /api/documents", docHandler.Upload)
	mux.HandleFunc("GET /api/documents", docHandler.List)
	mux.HandleFunc("GET /api/documents/expiring", docHandler.ListExpiring) // Must come before {id} route
	mux.HandleFunc("GET /api/documents/{id}", docHandler.Get)
	mux.HandleFunc("PATCH /api/documents/{id}", docHandler.EditMetadata)
	mux.HandleFunc("DELETE /api/documents/{id}", docHandler.Delete)

	mux.HandleFunc("POST /api/documents/{id}/submit", lifecycleHandler.Submit)
	mux.HandleFunc("POST /api/documents/{id}/approve", lifecycleHandler.Approve)
	mux.HandleFunc("POST /api/documents/{id}/reject", lifecycleHandler.Reject)
	mux.HandleFunc("POST /api/documents/{id}/return-to-draft", lifecycleHandler.ReturnToDraft)
	mux.HandleFunc("POST /api/documents/{id}/publish", lifecycleHandler.Publish)
	mux.HandleFunc("POST /api/documents/{id}/archive", lifecycleHandler.Archive)

	mux.HandleFunc("POST /api/documents/{id}/checkout", lockHandler.Checkout)
	mux.HandleFunc("POST /api/documents/{id}/checkin", lockHandler.Checkin)
	mux.HandleFunc("POST /api/documents/{id}/force-unlock", lockHandler.ForceUnlock)

	mux.HandleFunc("GET /api/documents/{id}/download", docHandler.DownloadURL)
	mux.HandleFunc("GET /api/documents/{id}/versions", versionHandler.List)
	mux.HandleFunc("POST /api/documents/{id}/versions/{n}/revert", versionHandler.Revert)
	mux.HandleFunc("PUT /api/documents/{id}/expiry", versionHandler.SetExpiry)
	mux.HandleFunc("GET /api/documents/{id}/events", docHandler.ListEvents)

	mux.HandleFunc("GET /api/documents/{id}/access", accessHandler.List)
	mux.HandleFunc("PUT /api/documents/{id}/access", accessHandler.Grant)
	mux.HandleFunc("DELETE /api/documents/{id}/access/{userId}", accessHandler.Revoke)

	// Middleware chain
	var h http.Handler = mux
	h = middleware.AuthMiddleware(verifier)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
