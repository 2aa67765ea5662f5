package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/database"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/storage"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newImageHandler(t *testing.T) (*ImageHandler, storage.Backend) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	backend := storage.NewLocalBackend(t.TempDir())
	cache := storage.NewURLCache(backend, 0)
	return NewImageHandler(cache, backend, store.NewBlogStore(db), discardLogger()), backend
}

func TestPresignedRequiresPath(t *testing.T) {
	h, _ := newImageHandler(t)

	req := httptest.NewRequest("GET", "/images/presigned", nil)
	rec := httptest.NewRecorder()
	h.Presigned(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPresignedStripsLeadingSlash(t *testing.T) {
	h, backend := newImageHandler(t)

	obj, err := backend.Store(t.Context(), "gallery", []byte("img"), "a.png", "image/png")
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	req := httptest.NewRequest("GET", "/images/presigned?path=/"+obj.Key, nil)
	rec := httptest.NewRecorder()
	h.Presigned(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success      bool   `json:"success"`
		PresignedURL string `json:"presignedUrl"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success {
		t.Error("success should be true")
	}
	if !strings.Contains(resp.PresignedURL, obj.Key) {
		t.Errorf("presignedUrl = %q, want it to reference %q", resp.PresignedURL, obj.Key)
	}
}

func multipartBody(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write(data)
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestUploadBlogImage(t *testing.T) {
	h, backend := newImageHandler(t)

	body, contentType := multipartBody(t, uploadFormField, "pose.jpg", "image/jpeg", []byte("jpeg-data"))
	req := httptest.NewRequest("POST", "/blog/images/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.UploadBlogImage(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		URL      string `json:"url"`
		FilePath string `json:"filePath"`
		Filename string `json:"filename"`
		Mimetype string `json:"mimetype"`
		Size     int64  `json:"size"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Filename != "pose.jpg" || resp.Mimetype != "image/jpeg" || resp.Size != 9 {
		t.Errorf("resp = %+v", resp)
	}
	if !strings.HasPrefix(resp.FilePath, "blog/") {
		t.Errorf("filePath = %q, want blog/ prefix", resp.FilePath)
	}

	stored, err := backend.Retrieve(t.Context(), resp.FilePath)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if !bytes.Equal(stored, []byte("jpeg-data")) {
		t.Error("stored bytes differ from upload")
	}
}

func TestUploadBlogImageRejectsNonImage(t *testing.T) {
	h, _ := newImageHandler(t)

	body, contentType := multipartBody(t, uploadFormField, "notes.txt", "text/plain", []byte("hello"))
	req := httptest.NewRequest("POST", "/blog/images/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.UploadBlogImage(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", rec.Code)
	}
}

func TestUploadBlogImageMissingFile(t *testing.T) {
	h, _ := newImageHandler(t)

	body, contentType := multipartBody(t, "wrong_field", "a.png", "image/png", []byte("x"))
	req := httptest.NewRequest("POST", "/blog/images/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.UploadBlogImage(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
