//	@title			Snapvault API
//	@version		1.0
//	@description	Image hosting service backed by ImageKit or any S3-compatible store.
//
//	@host		localhost:8080
//	@BasePath	/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: **Bearer {token}**

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/snapvault/service/internal/auth"
	"github.com/snapvault/service/internal/config"
	"github.com/snapvault/service/internal/images"
	appMiddleware "github.com/snapvault/service/internal/middleware"
	"github.com/snapvault/service/internal/response"
	"github.com/snapvault/service/internal/storage"

	_ "github.com/snapvault/service/docs/swagger"
)

func main() {
	cfg := config.Load()

	store, err := newAdapter(cfg)
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}
	log.Printf("storage backend: %s", cfg.StorageBackend)

	// Wire dependencies: adapter → service → handler
	imagesSvc := images.NewService(store)
	imagesHandler := images.NewHandler(imagesSvc)

	authSvc := auth.NewService(cfg)
	authHandler := auth.NewHandler(authSvc)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI — available at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Static fallback for locally mirrored images (theme assets etc.).
	// A miss here is a final 404, not a proxy to the remote store.
	r.Handle("/content/images/*", http.StripPrefix("/content/images", store.Serve()))

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoint
		r.Post("/auth/token", authHandler.Token)

		r.Route("/images", func(r chi.Router) {
			// Public reads
			r.Get("/exists", imagesHandler.Exists)
			r.Get("/raw/*", imagesHandler.Raw)

			// Protected writes
			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.RequireAuth(cfg.JWTSecret))
				r.Post("/", imagesHandler.Upload)
				r.Delete("/*", imagesHandler.Delete)
			})
		})
	})

	// Anything else is a JSON 404.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "not found")
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on :%s (env=%s)", cfg.Port, cfg.AppEnv)
		log.Printf("swagger UI at http://localhost:%s/swagger/", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	log.Println("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server stopped")
}

// newAdapter builds the storage backend selected by STORAGE_BACKEND.
func newAdapter(cfg *config.Config) (storage.Adapter, error) {
	switch cfg.StorageBackend {
	case "s3":
		return storage.NewS3(storage.S3Config{
			Endpoint:           cfg.S3Endpoint,
			AccessKey:          cfg.S3AccessKey,
			SecretKey:          cfg.S3SecretKey,
			Bucket:             cfg.S3Bucket,
			UseSSL:             cfg.S3UseSSL,
			PublicBase:         cfg.S3PublicBase,
			Folder:             cfg.UploadFolder,
			UseUniqueFileName:  storage.Flag(cfg.UseUniqueFileName),
			EnableDatedFolders: storage.Flag(cfg.EnableDatedFolders),
			ImagesDir:          cfg.ImagesDir,
		})
	default:
		return storage.NewImageKit(storage.ImageKitConfig{
			URLEndpoint:        cfg.ImageKitURLEndpoint,
			PrivateKey:         cfg.ImageKitPrivateKey,
			PublicKey:          cfg.ImageKitPublicKey,
			Folder:             cfg.UploadFolder,
			Tags:               splitTags(cfg.UploadTags),
			UseUniqueFileName:  storage.Flag(cfg.UseUniqueFileName),
			EnableDatedFolders: storage.Flag(cfg.EnableDatedFolders),
			ImagesDir:          cfg.ImagesDir,
		}), nil
	}
}

// splitTags parses the comma-separated UPLOAD_TAGS value.
func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
