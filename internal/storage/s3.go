package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config configures the S3-compatible backend.
type S3Config struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	UseSSL     bool
	PublicBase string

	Folder             string
	UseUniqueFileName  Flag
	EnableDatedFolders Flag

	ImagesDir string
}

// S3 stores images in any S3-compatible object store (MinIO, ArvanCloud,
// AWS S3). Unlike the ImageKit backend it supports Delete.
type S3 struct {
	client      *minio.Client
	bucket      string
	publicBase  string
	folder      string
	uniqueNames bool
	dated       bool
	imagesDir   string

	now func() time.Time
}

// NewS3 creates the client, ensures the bucket exists with a public-read
// policy, and returns a ready-to-use backend.
func NewS3(cfg S3Config) (*S3, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx := context.Background()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.Bucket, err)
		}
		log.Printf("storage: created bucket %q", cfg.Bucket)
	}

	if err := client.SetBucketPolicy(ctx, cfg.Bucket, publicReadPolicy(cfg.Bucket)); err != nil {
		return nil, fmt.Errorf("set bucket policy: %w", err)
	}

	return &S3{
		client:      client,
		bucket:      cfg.Bucket,
		publicBase:  strings.TrimRight(cfg.PublicBase, "/"),
		folder:      cfg.Folder,
		uniqueNames: cfg.UseUniqueFileName.Enabled(),
		dated:       cfg.EnableDatedFolders.Enabled(),
		imagesDir:   cfg.ImagesDir,
		now:         time.Now,
	}, nil
}

// objectKey builds the bucket key for a file under targetDir, applying the
// same folder and sanitization policies as the ImageKit backend.
func (s *S3) objectKey(fileName, targetDir string) string {
	folder := resolveFolder(targetDir, s.folder, s.dated, s.now())
	key := path.Join(folder, SanitizeFileName(fileName))
	return strings.TrimPrefix(key, "/")
}

// lookupKey builds the key for Exists and Delete: targetDir joined verbatim,
// with only the final path element sanitized so a lookup under the same
// name and targetDir finds what Save stored. fileName may itself carry a
// path, in which case its directory part passes through untouched.
func (s *S3) lookupKey(fileName, targetDir string) string {
	dir, base := path.Split(toSlash(fileName))
	key := path.Join(toSlash(targetDir), dir, SanitizeFileName(base))
	return strings.TrimPrefix(key, "/")
}

// Exists reports whether the object is present. Any error collapses to false.
func (s *S3) Exists(ctx context.Context, fileName, targetDir string) bool {
	info, err := s.client.StatObject(ctx, s.bucket, s.lookupKey(fileName, targetDir), minio.StatObjectOptions{})
	return err == nil && info.Size > 0
}

// Save uploads the image and returns its public URL.
func (s *S3) Save(ctx context.Context, image Image, targetDir string) (string, error) {
	key := s.objectKey(image.Name, targetDir)

	f, err := os.Open(image.Path)
	if err != nil {
		return "", NewError(http.StatusInternalServerError,
			fmt.Sprintf("could not read image: %s", image.Path), err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", NewError(http.StatusInternalServerError,
			fmt.Sprintf("could not read image: %s", image.Path), err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(image.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(ctx, s.bucket, key, f, info.Size(), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", NewError(remoteStatus(err), "image upload failed", err)
	}

	url := s.publicBase + "/" + key
	if !s.uniqueNames {
		url = cacheBust(url, s.now())
	}
	return url, nil
}

// Serve handles locally mirrored images, answering 404 itself on a miss.
func (s *S3) Serve() http.Handler {
	return serveDir(s.imagesDir)
}

// Delete removes the object at targetDir/fileName.
func (s *S3) Delete(ctx context.Context, fileName, targetDir string) error {
	key := s.lookupKey(fileName, targetDir)
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return NewError(remoteStatus(err), fmt.Sprintf("could not delete image: %s", key), err)
	}
	return nil
}

// Read returns the raw bytes of the object at opts.Path.
func (s *S3) Read(ctx context.Context, opts ReadOptions) ([]byte, error) {
	key := strings.TrimPrefix(toSlash(opts.Path), "/")

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, NewError(remoteStatus(err), fmt.Sprintf("could not read image: %s", opts.Path), err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, NewError(remoteStatus(err), fmt.Sprintf("could not read image: %s", opts.Path), err)
	}
	return data, nil
}

// remoteStatus extracts the HTTP status from a minio error, defaulting to 500.
func remoteStatus(err error) int {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) && resp.StatusCode != 0 {
		return resp.StatusCode
	}
	return http.StatusInternalServerError
}

// publicReadPolicy returns an S3 bucket policy JSON that allows anonymous
// GET on all objects.
func publicReadPolicy(bucket string) string {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    "s3:GetObject",
				"Resource":  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
