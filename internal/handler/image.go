package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/storage"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/store"
)

const (
	presignTTL       = 15 * time.Minute
	maxUploadBytes   = 8 << 20
	uploadFormField  = "image"
	blogUploadPrefix = "blog"
)

// ImageHandler issues access URLs for stored images and accepts blog editor
// uploads.
type ImageHandler struct {
	cache   *storage.URLCache
	backend storage.Backend
	blog    *store.BlogStore
	logger  *slog.Logger
}

func NewImageHandler(cache *storage.URLCache, backend storage.Backend, blog *store.BlogStore, logger *slog.Logger) *ImageHandler {
	return &ImageHandler{cache: cache, backend: backend, blog: blog, logger: logger}
}

// viewerRegion picks the delivery region from the CDN's viewer-country
// header. No header means US.
func viewerRegion(r *http.Request) storage.Region {
	country := r.Header.Get("CloudFront-Viewer-Country")
	if country == "" {
		country = r.Header.Get("CF-IPCountry")
	}
	return storage.SelectRegion(country)
}

// Presigned handles GET /images/presigned?path=... and returns a short-lived
// URL for the object. Paths are accepted with or without a leading slash so
// stored locators can be passed through verbatim.
func (h *ImageHandler) Presigned(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Query().Get("path"), "/")
	if key == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	url, err := h.cache.GetURL(r.Context(), key, presignTTL, viewerRegion(r))
	if err != nil {
		h.logger.Error("presign failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "could not generate access URL")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"presignedUrl": url,
	})
}

// UploadBlogImage handles POST /blog/images/upload: a multipart form with an
// image file. The stored locator is returned for embedding in post bodies.
func (h *ImageHandler) UploadBlogImage(w http.ResponseWriter, r *http.Request) {
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

	obj, err := h.backend.Store(r.Context(), blogUploadPrefix, data, header.Filename, mimeType)
	if err != nil {
		h.logger.Error("blog image store failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to upload, try again")
		return
	}

	img, err := h.blog.AddImage(obj.Key, header.Filename, mimeType, int64(len(data)))
	if err != nil {
		h.logger.Error("blog image record failed", "key", obj.Key, "error", err)
		writeError(w, http.StatusInternalServerError, "could not record image")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"url":      obj.URL,
		"filePath": obj.Key,
		"filename": img.Filename,
		"mimetype": img.MimeType,
		"size":     img.SizeBytes,
	})
}
