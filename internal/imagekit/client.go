// Package imagekit is a minimal client for the ImageKit media API.
// It covers only what the storage adapter needs: authenticated uploads
// and plain GETs against the delivery endpoint.
package imagekit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultUploadEndpoint is ImageKit's upload API endpoint.
const DefaultUploadEndpoint = "https://upload.imagekit.io/api/v1/files/upload"

// Client performs authenticated calls against the ImageKit API.
// The zero value is not usable; construct with New.
type Client struct {
	httpClient     *http.Client
	uploadEndpoint string
	privateKey     string
	publicKey      string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUploadEndpoint overrides the upload API endpoint (used by tests).
func WithUploadEndpoint(endpoint string) Option {
	return func(c *Client) { c.uploadEndpoint = endpoint }
}

// New creates a Client with the given API keys. No validation and no I/O
// happen here; bad credentials surface on the first call.
func New(privateKey, publicKey string, opts ...Option) *Client {
	c := &Client{
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		uploadEndpoint: DefaultUploadEndpoint,
		privateKey:     privateKey,
		publicKey:      publicKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UploadRequest describes a single file upload.
type UploadRequest struct {
	FileName          string
	Folder            string
	UseUniqueFileName bool
	Tags              []string
	Content           []byte
}

// UploadResponse is the subset of ImageKit's upload response the adapter uses.
type UploadResponse struct {
	FileID   string `json:"fileId"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	FilePath string `json:"filePath"`
}

// APIError is the explicit error variant for failed ImageKit calls.
// StatusCode is the HTTP status the API answered with.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("imagekit: request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("imagekit: %s (status %d)", e.Message, e.StatusCode)
}

// Upload sends the file as a multipart POST, authenticated with the private key.
func (c *Client) Upload(ctx context.Context, req UploadRequest) (*UploadResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", req.FileName)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(req.Content); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}

	fields := map[string]string{
		"fileName":          req.FileName,
		"useUniqueFileName": strconv.FormatBool(req.UseUniqueFileName),
	}
	if req.Folder != "" {
		fields["folder"] = req.Folder
	}
	if len(req.Tags) > 0 {
		fields["tags"] = strings.Join(req.Tags, ",")
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write field %s: %w", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadEndpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	// ImageKit authenticates with the private key as the basic-auth username
	// and an empty password.
	httpReq.SetBasicAuth(c.privateKey, "")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", req.FileName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiError(resp)
	}

	var out UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &out, nil
}

// Get fetches the given absolute URL and returns the raw body.
// Non-2xx responses are returned as *APIError.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", url, err)
	}
	return data, nil
}

// apiError builds an *APIError from a failed response. ImageKit error bodies
// are {"message": "...", "help": "..."}; anything else yields an empty message.
func apiError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil {
		apiErr.Message = body.Message
	}
	return apiErr
}
