package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/model"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/store"
)

type BlogHandler struct {
	blog   *store.BlogStore
	logger *slog.Logger
}

func NewBlogHandler(blog *store.BlogStore, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{blog: blog, logger: logger}
}

type blogPostRequest struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Body  string `json:"body"`
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugCleaner.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func (h *BlogHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.ListPublished()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list posts")
		return
	}
	if posts == nil {
		posts = []model.BlogPost{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *BlogHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.ListAll()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list posts")
		return
	}
	if posts == nil {
		posts = []model.BlogPost{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *BlogHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.blog.GetBySlug(r.PathValue("slug"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get post")
		return
	}
	if post == nil || !post.Published {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req blogPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Slug == "" {
		req.Slug = slugify(req.Title)
	}

	post, err := h.blog.Create(req.Title, req.Slug, req.Body, nil)
	if err != nil {
		h.logger.Error("create post failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create post")
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	existing, err := h.blog.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get post")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}

	var req blogPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Title == "" {
		req.Title = existing.Title
	}
	if req.Slug == "" {
		req.Slug = existing.Slug
	}
	if req.Body == "" {
		req.Body = existing.Body
	}

	post, err := h.blog.Update(id, req.Title, req.Slug, req.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update post")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

type publishRequest struct {
	Published bool `json:"published"`
}

func (h *BlogHandler) SetPublished(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := h.blog.SetPublished(id, req.Published); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update post")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.blog.Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete post")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
