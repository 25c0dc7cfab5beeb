package images

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapvault/service/internal/storage"
)

// fakeAdapter is an in-memory storage.Adapter recording what it was asked to do.
type fakeAdapter struct {
	savedName    string
	savedContent []byte
	savedDir     string

	existing map[string]bool
	objects  map[string][]byte

	saveErr   error
	deleteErr error
	deleted   []string
}

func (f *fakeAdapter) Exists(ctx context.Context, fileName, targetDir string) bool {
	return f.existing[targetDir+"/"+fileName]
}

func (f *fakeAdapter) Save(ctx context.Context, image storage.Image, targetDir string) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	content, err := os.ReadFile(image.Path)
	if err != nil {
		return "", err
	}
	f.savedName = image.Name
	f.savedContent = content
	f.savedDir = targetDir
	return "https://cdn.example.com/" + image.Name, nil
}

func (f *fakeAdapter) Serve() http.Handler {
	return http.NotFoundHandler()
}

func (f *fakeAdapter) Delete(ctx context.Context, fileName, targetDir string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, fileName)
	return nil
}

func (f *fakeAdapter) Read(ctx context.Context, opts storage.ReadOptions) ([]byte, error) {
	data, ok := f.objects[opts.Path]
	if !ok {
		return nil, storage.NewError(http.StatusNotFound, "could not read image: "+opts.Path, nil)
	}
	return data, nil
}

func newRouter(fake *fakeAdapter) http.Handler {
	h := NewHandler(NewService(fake))
	r := chi.NewRouter()
	r.Post("/images", h.Upload)
	r.Get("/images/exists", h.Exists)
	r.Get("/images/raw/*", h.Raw)
	r.Delete("/images/*", h.Delete)
	return r
}

func multipartUpload(t *testing.T, fileName string, content []byte, targetDir string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	if targetDir != "" {
		require.NoError(t, mw.WriteField("targetDir", targetDir))
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestUpload(t *testing.T) {
	fake := &fakeAdapter{}
	router := newRouter(fake)

	body, contentType := multipartUpload(t, "photo.png", []byte("png-bytes"), "gallery")
	req := httptest.NewRequest(http.MethodPost, "/images", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Success bool       `json:"success"`
		Data    uploadData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "https://cdn.example.com/photo.png", resp.Data.URL)

	// The service spooled the stream to a temp file the adapter could read.
	assert.Equal(t, "photo.png", fake.savedName)
	assert.Equal(t, []byte("png-bytes"), fake.savedContent)
	assert.Equal(t, "gallery", fake.savedDir)
}

func TestUploadMissingFile(t *testing.T) {
	router := newRouter(&fakeAdapter{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUploadStorageErrorIsForwarded(t *testing.T) {
	fake := &fakeAdapter{
		saveErr: storage.NewError(http.StatusForbidden, "Your account cannot be authenticated", nil),
	}
	router := newRouter(fake)

	body, contentType := multipartUpload(t, "photo.png", []byte("x"), "")
	req := httptest.NewRequest(http.MethodPost, "/images", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "cannot be authenticated")
}

func TestExists(t *testing.T) {
	fake := &fakeAdapter{existing: map[string]bool{"uploads/photo.png": true}}
	router := newRouter(fake)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/images/exists?file=photo.png&dir=uploads", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"exists":true`)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/images/exists?file=missing.png", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), `"exists":true`)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/images/exists", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRaw(t *testing.T) {
	fake := &fakeAdapter{objects: map[string][]byte{"uploads/photo.png": []byte("image-bytes")}}
	router := newRouter(fake)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/images/raw/uploads/photo.png", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image-bytes", rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/images/raw/uploads/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "uploads/missing.png")
}

func TestDelete(t *testing.T) {
	t.Run("supported backend", func(t *testing.T) {
		fake := &fakeAdapter{}
		router := newRouter(fake)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/images/uploads/photo.png", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, []string{"uploads/photo.png"}, fake.deleted)
	})

	t.Run("unsupported backend surfaces 400", func(t *testing.T) {
		fake := &fakeAdapter{
			deleteErr: storage.NewError(http.StatusBadRequest, "image deletion is not supported", nil),
		}
		router := newRouter(fake)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/images/uploads/photo.png", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "not supported")
	})
}
