package server

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/auth"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/database"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/payment"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *auth.TokenManager) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	srv := New(db, Config{
		Backend:      storage.NewLocalBackend(t.TempDir()),
		StorageLabel: "local",
		Stripe:       payment.NewClient(payment.Config{}),
		Tokens:       tokens,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return srv, tokens
}

func imageForm(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="pose.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write([]byte("png-bytes"))
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestBlogImageUploadRouteRequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	body, contentType := imageForm(t)
	req := httptest.NewRequest("POST", "/blog/images/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code == http.StatusNotFound {
		t.Fatal("route must resolve at /blog/images/upload")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without a session", rec.Code)
	}
}

func TestBlogImageUploadRouteAcceptsAdmin(t *testing.T) {
	srv, tokens := newTestServer(t)
	router := srv.Router()

	token, err := tokens.Issue(1, "admin@gabi.yoga", "admin")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	body, contentType := imageForm(t)
	req := httptest.NewRequest("POST", "/blog/images/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(&http.Cookie{Name: "gabiyoga_session", Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"filePath":"blog/`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestBlogImageUploadRouteRejectsMember(t *testing.T) {
	srv, tokens := newTestServer(t)
	router := srv.Router()

	token, err := tokens.Issue(2, "member@gabi.yoga", "member")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	body, contentType := imageForm(t)
	req := httptest.NewRequest("POST", "/blog/images/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(&http.Cookie{Name: "gabiyoga_session", Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 for a non-admin", rec.Code)
	}
}
