// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the service.
type Config struct {
	Port   string
	AppEnv string

	// Storage backend selection: "imagekit" (default) or "s3".
	StorageBackend string

	// ImageKit credentials. Empty values are tolerated at startup and only
	// fail on the first remote call.
	ImageKitURLEndpoint string
	ImageKitPrivateKey  string
	ImageKitPublicKey   string

	// Upload defaults shared by both backends. The boolean-like fields keep
	// their raw string form; only the value "false" disables them.
	UploadFolder       string
	UploadTags         string
	UseUniqueFileName  string
	EnableDatedFolders string

	// S3-compatible backend (MinIO locally, ArvanCloud/AWS in production).
	S3Endpoint   string
	S3AccessKey  string
	S3SecretKey  string
	S3Bucket     string
	S3UseSSL     bool
	S3PublicBase string // browser-accessible base URL, e.g. "http://localhost:9000/images"

	// Local directory served as the static images fallback.
	ImagesDir string

	JWTSecret   string
	AdminAPIKey string
}

// Load reads configuration from a .env file (if present) and environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading from environment")
	}

	return &Config{
		Port:   getEnv("PORT", "8080"),
		AppEnv: getEnv("APP_ENV", "development"),

		StorageBackend: getEnv("STORAGE_BACKEND", "imagekit"),

		ImageKitURLEndpoint: os.Getenv("IMAGEKIT_URL_ENDPOINT"),
		ImageKitPrivateKey:  os.Getenv("IMAGEKIT_PRIVATE_KEY"),
		ImageKitPublicKey:   os.Getenv("IMAGEKIT_PUBLIC_KEY"),

		UploadFolder:       getEnv("UPLOAD_FOLDER", "/"),
		UploadTags:         os.Getenv("UPLOAD_TAGS"),
		UseUniqueFileName:  os.Getenv("UPLOAD_USE_UNIQUE_FILENAME"),
		EnableDatedFolders: os.Getenv("ENABLE_DATED_FOLDERS"),

		S3Endpoint:   getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKey:  getEnv("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey:  getEnv("S3_SECRET_KEY", "minioadmin"),
		S3Bucket:     getEnv("S3_BUCKET", "images"),
		S3UseSSL:     getEnv("S3_USE_SSL", "false") == "true",
		S3PublicBase: getEnv("S3_PUBLIC_BASE", "http://localhost:9000/images"),

		ImagesDir: getEnv("IMAGES_DIR", "images"),

		JWTSecret:   getEnv("JWT_SECRET", "change_me_in_production"),
		AdminAPIKey: getEnv("ADMIN_API_KEY", "admin"),
	}
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
