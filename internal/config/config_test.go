package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// clearEnv blanks every variable Load reads so the ambient environment
// cannot leak into the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "APP_ENV", "STORAGE_BACKEND",
		"IMAGEKIT_URL_ENDPOINT", "IMAGEKIT_PRIVATE_KEY", "IMAGEKIT_PUBLIC_KEY",
		"UPLOAD_FOLDER", "UPLOAD_TAGS", "UPLOAD_USE_UNIQUE_FILENAME", "ENABLE_DATED_FOLDERS",
		"S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET", "S3_USE_SSL", "S3_PUBLIC_BASE",
		"IMAGES_DIR", "JWT_SECRET", "ADMIN_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "imagekit", cfg.StorageBackend)
	assert.Equal(t, "/", cfg.UploadFolder)
	assert.Equal(t, "images", cfg.ImagesDir)
	assert.False(t, cfg.S3UseSSL)
	assert.False(t, cfg.IsProduction())

	// Credentials have no defaults; missing values only fail on first remote call.
	assert.Empty(t, cfg.ImageKitPrivateKey)
	assert.Empty(t, cfg.ImageKitPublicKey)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_BACKEND", "s3")
	t.Setenv("IMAGEKIT_URL_ENDPOINT", "https://ik.example.com/acct")
	t.Setenv("UPLOAD_FOLDER", "/uploads")
	t.Setenv("ENABLE_DATED_FOLDERS", "false")
	t.Setenv("S3_USE_SSL", "true")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "s3", cfg.StorageBackend)
	assert.Equal(t, "https://ik.example.com/acct", cfg.ImageKitURLEndpoint)
	assert.Equal(t, "/uploads", cfg.UploadFolder)
	assert.Equal(t, "false", cfg.EnableDatedFolders)
	assert.True(t, cfg.S3UseSSL)
}
