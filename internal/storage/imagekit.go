package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/snapvault/service/internal/imagekit"
)

// ImageKitConfig configures the ImageKit backend. Auth fields left empty
// fall back to the IMAGEKIT_* environment variables; unresolved credentials
// stay empty and fail on the first remote call, not at construction.
type ImageKitConfig struct {
	URLEndpoint string
	PrivateKey  string
	PublicKey   string

	Folder             string
	Tags               []string
	UseUniqueFileName  Flag
	EnableDatedFolders Flag

	// ImagesDir is the local directory Serve falls back to.
	ImagesDir string
}

// ImageKit stores images on the ImageKit media CDN. All state is set at
// construction and never mutated, so one instance is safe for concurrent use.
type ImageKit struct {
	client      *imagekit.Client
	urlEndpoint string
	folder      string
	tags        []string
	uniqueNames bool
	dated       bool
	imagesDir   string

	now func() time.Time
}

// NewImageKit resolves the configuration and constructs the backend.
// No I/O is performed here.
func NewImageKit(cfg ImageKitConfig, clientOpts ...imagekit.Option) *ImageKit {
	endpoint := fallbackEnv(cfg.URLEndpoint, "IMAGEKIT_URL_ENDPOINT")
	privateKey := fallbackEnv(cfg.PrivateKey, "IMAGEKIT_PRIVATE_KEY")
	publicKey := fallbackEnv(cfg.PublicKey, "IMAGEKIT_PUBLIC_KEY")

	return &ImageKit{
		client:      imagekit.New(privateKey, publicKey, clientOpts...),
		urlEndpoint: strings.TrimRight(endpoint, "/"),
		folder:      cfg.Folder,
		tags:        cfg.Tags,
		uniqueNames: cfg.UseUniqueFileName.Enabled(),
		dated:       cfg.EnableDatedFolders.Enabled(),
		imagesDir:   cfg.ImagesDir,
		now:         time.Now,
	}
}

func fallbackEnv(value, envKey string) string {
	if value != "" {
		return value
	}
	return os.Getenv(envKey)
}

// Exists reports whether fileName is present under targetDir on the CDN.
// Every failure — network error, 404, empty body — collapses to false.
func (s *ImageKit) Exists(ctx context.Context, fileName, targetDir string) bool {
	url := resolveURL(s.urlEndpoint, path.Join(targetDir, fileName))
	data, err := s.client.Get(ctx, url)
	return err == nil && len(data) > 0
}

// Save uploads the image and returns its public URL. With unique filenames
// disabled, the URL carries an updatedAt cache-busting parameter so clients
// refetch overwritten files.
func (s *ImageKit) Save(ctx context.Context, image Image, targetDir string) (string, error) {
	folder := resolveFolder(targetDir, s.folder, s.dated, s.now())
	fileName := SanitizeFileName(image.Name)

	content, err := os.ReadFile(image.Path)
	if err != nil {
		return "", NewError(http.StatusInternalServerError,
			fmt.Sprintf("could not read image: %s", image.Path), err)
	}

	resp, err := s.client.Upload(ctx, imagekit.UploadRequest{
		FileName:          fileName,
		Folder:            folder,
		UseUniqueFileName: s.uniqueNames,
		Tags:              s.tags,
		Content:           content,
	})
	if err != nil {
		var apiErr *imagekit.APIError
		if errors.As(err, &apiErr) {
			msg := apiErr.Message
			if msg == "" {
				msg = "image upload failed"
			}
			return "", NewError(apiErr.StatusCode, msg, err)
		}
		return "", NewError(http.StatusInternalServerError, "image upload failed", err)
	}

	url := resp.URL
	if !s.uniqueNames {
		url = cacheBust(url, s.now())
	}
	return url, nil
}

// Serve handles locally mirrored images (e.g. theme-bundled assets that
// were never uploaded remotely) and answers 404 itself on a miss.
func (s *ImageKit) Serve() http.Handler {
	return serveDir(s.imagesDir)
}

// Delete always fails: ImageKit has no delete-by-path API. The 400 is a
// permanent limitation, never worth retrying.
func (s *ImageKit) Delete(ctx context.Context, fileName, targetDir string) error {
	return NewError(http.StatusBadRequest, "image deletion is not supported", nil)
}

// Read fetches the object at opts.Path relative to the URL endpoint.
func (s *ImageKit) Read(ctx context.Context, opts ReadOptions) ([]byte, error) {
	url := resolveURL(s.urlEndpoint, opts.Path)

	data, err := s.client.Get(ctx, url)
	if err != nil {
		status := http.StatusInternalServerError
		var apiErr *imagekit.APIError
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		return nil, NewError(status, fmt.Sprintf("could not read image: %s", opts.Path), err)
	}
	return data, nil
}
