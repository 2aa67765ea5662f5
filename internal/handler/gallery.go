package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/model"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/storage"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/store"
)

const galleryUploadPrefix = "gallery"

type GalleryHandler struct {
	gallery *store.GalleryStore
	backend storage.Backend
	cache   *storage.URLCache
	region  string
	logger  *slog.Logger
}

func NewGalleryHandler(gallery *store.GalleryStore, backend storage.Backend, cache *storage.URLCache, region string, logger *slog.Logger) *GalleryHandler {
	return &GalleryHandler{gallery: gallery, backend: backend, cache: cache, region: region, logger: logger}
}

func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	images, err := h.gallery.List()
	if err != nil {
		h.logger.Error("list gallery failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list images")
		return
	}
	if images == nil {
		images = []model.GalleryImage{}
	}
	writeJSON(w, http.StatusOK, images)
}

// Upload handles an admin multipart upload: bytes go to the storage
// backend, the row only carries the locator.
func (h *GalleryHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read upload")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		writeError(w, http.StatusUnsupportedMediaType, "only image uploads are accepted")
		return
	}

	obj, err := h.backend.Store(r.Context(), galleryUploadPrefix, data, header.Filename, mimeType)
	if err != nil {
		h.logger.Error("gallery store failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to upload, try again")
		return
	}

	title := r.FormValue("title")
	altText := r.FormValue("alt_text")
	img, err := h.gallery.Create(title, altText, mimeType, obj.Key, h.region, 0)
	if err != nil {
		h.logger.Error("gallery record failed", "key", obj.Key, "error", err)
		writeError(w, http.StatusInternalServerError, "could not record image")
		return
	}

	writeJSON(w, http.StatusCreated, img)
}

func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	img, err := h.gallery.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if img == nil {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}

	if img.FilePath != nil {
		if err := h.backend.Delete(r.Context(), *img.FilePath); err != nil {
			h.logger.Warn("backend delete failed, removing row anyway", "key", *img.FilePath, "error", err)
		}
		h.cache.Invalidate(*img.FilePath)
	}
	if err := h.gallery.Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete image")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type reorderRequest struct {
	SortOrder int `json:"sort_order"`
}

func (h *GalleryHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := h.gallery.UpdateSortOrder(id, req.SortOrder); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reorder")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
