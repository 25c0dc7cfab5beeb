package images

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/snapvault/service/internal/response"
	"github.com/snapvault/service/internal/storage"
)

// maxUploadBytes caps in-memory multipart parsing; larger files spill to disk.
const maxUploadBytes = 32 << 20

// Handler holds HTTP handlers for image endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new images Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type uploadData struct {
	URL string `json:"url" example:"https://ik.imagekit.io/demo/2026/08/photo.png"`
}

type existsData struct {
	Exists bool `json:"exists" example:"true"`
}

// Upload godoc
//
//	@Summary		Upload an image
//	@Description	Uploads an image to the configured storage backend and returns its public URL.
//	@Tags			images
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			image		formData	file	true	"image file"
//	@Param			targetDir	formData	string	false	"destination folder override"
//	@Success		201	{object}	response.Envelope{data=uploadData}
//	@Failure		400	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/images [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "image file is required")
		return
	}
	defer file.Close()

	url, err := h.svc.Upload(r.Context(), header.Filename, file, r.FormValue("targetDir"))
	if err != nil {
		writeStorageError(w, err)
		return
	}

	response.Created(w, uploadData{URL: url})
}

// Exists godoc
//
//	@Summary		Check image existence
//	@Description	Reports whether a file is present in the storage backend. Never fails — unknown is false.
//	@Tags			images
//	@Produce		json
//	@Param			file	query	string	true	"file name"
//	@Param			dir		query	string	false	"target directory"
//	@Success		200	{object}	response.Envelope{data=existsData}
//	@Failure		400	{object}	response.Envelope
//	@Router			/images/exists [get]
func (h *Handler) Exists(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("file")
	if fileName == "" {
		response.BadRequest(w, "file query parameter is required")
		return
	}

	exists := h.svc.Exists(r.Context(), fileName, r.URL.Query().Get("dir"))
	response.OK(w, existsData{Exists: exists})
}

// Raw godoc
//
//	@Summary		Read raw image bytes
//	@Description	Streams the stored object's bytes back to the caller.
//	@Tags			images
//	@Produce		octet-stream
//	@Param			path	path	string	true	"object path relative to the storage endpoint"
//	@Success		200	{file}		binary
//	@Failure		404	{object}	response.Envelope
//	@Router			/images/raw/{path} [get]
func (h *Handler) Raw(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	if path == "" {
		response.BadRequest(w, "object path is required")
		return
	}

	data, err := h.svc.Read(r.Context(), path)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Delete godoc
//
//	@Summary		Delete an image
//	@Description	Removes a file from the storage backend. The ImageKit backend rejects this with 400.
//	@Tags			images
//	@Produce		json
//	@Security		BearerAuth
//	@Param			path	path	string	true	"file path"
//	@Success		200	{object}	response.Envelope
//	@Failure		400	{object}	response.Envelope
//	@Router			/images/{path} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	if path == "" {
		response.BadRequest(w, "file path is required")
		return
	}

	if err := h.svc.Delete(r.Context(), path, ""); err != nil {
		writeStorageError(w, err)
		return
	}

	response.OK(w, nil)
}

// writeStorageError maps a *storage.Error to its status code and message;
// anything else becomes a generic 500.
func writeStorageError(w http.ResponseWriter, err error) {
	var se *storage.Error
	if errors.As(err, &se) {
		response.Error(w, se.StatusCode, se.Message)
		return
	}
	response.InternalError(w)
}
