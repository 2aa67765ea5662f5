package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jlandron/GabiYogaWebsite-sub001/internal/auth"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/email"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/handler"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/middleware"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/payment"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/realtime"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/storage"
	"github.com/jlandron/GabiYogaWebsite-sub001/internal/store"
)

type Server struct {
	db          *sql.DB
	hub         *realtime.Hub
	urlCache    *storage.URLCache
	rateLimiter *middleware.RateLimiter
	tokens      *auth.TokenManager

	authH       *handler.AuthHandler
	imageH      *handler.ImageHandler
	galleryH    *handler.GalleryHandler
	blogH       *handler.BlogHandler
	bookingH    *handler.BookingHandler
	membershipH *handler.MembershipHandler
	scheduleH   *handler.ScheduleHandler
	settingsH   *handler.SettingsHandler
	webhookH    *handler.WebhookHandler

	logger *slog.Logger
}

// Config carries the pieces main assembles before wiring the server.
type Config struct {
	Backend      storage.Backend
	StorageLabel string
	Stripe       *payment.Client
	Email        *email.Client
	Tokens       *auth.TokenManager
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := realtime.NewHub(logger)
	urlCache := storage.NewURLCache(cfg.Backend, storage.DefaultSignMargin)
	rateLimiter := middleware.NewRateLimiter()

	users := store.NewUserStore(db)
	gallery := store.NewGalleryStore(db)
	blog := store.NewBlogStore(db)
	workshops := store.NewWorkshopStore(db)
	retreats := store.NewRetreatStore(db)
	sessions := store.NewPrivateSessionStore(db)
	memberships := store.NewMembershipStore(db)
	payments := store.NewPaymentStore(db)
	webhookEvents := store.NewWebhookEventStore(db)
	classes := store.NewClassStore(db)
	settings := store.NewSettingsStore(db)

	var mail payment.Mailer
	if cfg.Email != nil && cfg.Email.Configured() {
		mail = cfg.Email
	}
	reconciler := payment.NewReconciler(
		webhookEvents, payments, memberships, workshops, retreats, sessions, users,
		cfg.Stripe, hub, mail, logger,
	)

	return &Server{
		db:          db,
		hub:         hub,
		urlCache:    urlCache,
		rateLimiter: rateLimiter,
		tokens:      cfg.Tokens,

		authH:       handler.NewAuthHandler(users, cfg.Tokens, rateLimiter, logger.With("component", "auth")),
		imageH:      handler.NewImageHandler(urlCache, cfg.Backend, blog, logger.With("component", "image")),
		galleryH:    handler.NewGalleryHandler(gallery, cfg.Backend, urlCache, cfg.StorageLabel, logger.With("component", "gallery")),
		blogH:       handler.NewBlogHandler(blog, logger.With("component", "blog")),
		bookingH:    handler.NewBookingHandler(workshops, retreats, sessions, cfg.Stripe, logger.With("component", "booking")),
		membershipH: handler.NewMembershipHandler(memberships, payments, cfg.Stripe, logger.With("component", "membership")),
		scheduleH:   handler.NewScheduleHandler(classes, logger.With("component", "schedule")),
		settingsH:   handler.NewSettingsHandler(settings),
		webhookH:    handler.NewWebhookHandler(cfg.Stripe, reconciler, logger.With("component", "webhook")),

		logger: logger,
	}
}

// URLCache returns the presigned URL cache for housekeeping.
func (s *Server) URLCache() *storage.URLCache {
	return s.urlCache
}

// RateLimiter returns the rate limiter for housekeeping.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /auth/register", s.authH.Register)
	outerMux.HandleFunc("POST /auth/login", s.authH.Login)
	outerMux.HandleFunc("POST /auth/logout", s.authH.Logout)
	outerMux.HandleFunc("POST /stripe/webhook", s.webhookH.HandleStripeWebhook)
	outerMux.HandleFunc("GET /images/presigned", s.imageH.Presigned)
	outerMux.HandleFunc("GET /api/gallery", s.galleryH.List)
	outerMux.HandleFunc("GET /api/blog", s.blogH.ListPublished)
	outerMux.HandleFunc("GET /api/blog/{slug}", s.blogH.GetBySlug)
	outerMux.HandleFunc("GET /api/workshops", s.bookingH.ListWorkshops)
	outerMux.HandleFunc("GET /api/retreats", s.bookingH.ListRetreats)
	outerMux.HandleFunc("GET /api/classes", s.scheduleH.ListClasses)
	outerMux.HandleFunc("GET /api/schedule", s.scheduleH.Occurrences)
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Member routes — valid session required
	memberMux := http.NewServeMux()
	memberMux.HandleFunc("GET /api/me", s.authH.Me)
	memberMux.HandleFunc("POST /api/workshops/{id}/register", s.bookingH.RegisterWorkshop)
	memberMux.HandleFunc("POST /api/retreats/{id}/book", s.bookingH.BookRetreat)
	memberMux.HandleFunc("POST /api/sessions", s.bookingH.BookPrivateSession)
	memberMux.HandleFunc("GET /api/sessions", s.bookingH.ListMySessions)
	memberMux.HandleFunc("POST /api/membership/subscribe", s.membershipH.Subscribe)
	memberMux.HandleFunc("GET /api/membership", s.membershipH.MyMembership)
	memberMux.HandleFunc("GET /api/payments", s.membershipH.MyPayments)

	// Admin routes
	adminMux := http.NewServeMux()
	adminMux.HandleFunc("POST /admin/gallery", s.galleryH.Upload)
	adminMux.HandleFunc("DELETE /admin/gallery/{id}", s.galleryH.Delete)
	adminMux.HandleFunc("PUT /admin/gallery/{id}/sort", s.galleryH.Reorder)
	adminMux.HandleFunc("GET /admin/blog", s.blogH.ListAll)
	adminMux.HandleFunc("POST /admin/blog", s.blogH.Create)
	adminMux.HandleFunc("PUT /admin/blog/{id}", s.blogH.Update)
	adminMux.HandleFunc("PUT /admin/blog/{id}/publish", s.blogH.SetPublished)
	adminMux.HandleFunc("DELETE /admin/blog/{id}", s.blogH.Delete)
	adminMux.HandleFunc("POST /admin/workshops", s.bookingH.CreateWorkshop)
	adminMux.HandleFunc("POST /admin/retreats", s.bookingH.CreateRetreat)
	adminMux.HandleFunc("POST /admin/classes", s.scheduleH.CreateClass)
	adminMux.HandleFunc("DELETE /admin/classes/{id}", s.scheduleH.DeleteClass)
	adminMux.HandleFunc("GET /admin/settings", s.settingsH.GetAll)
	adminMux.HandleFunc("PUT /admin/settings", s.settingsH.Set)
	adminMux.Handle("GET /admin/feed", realtime.HandleFeed(s.hub, s.logger.With("component", "feed")))

	requireAuth := middleware.RequireAuth(s.tokens)
	// The blog editor uploads to this path; it is admin-only but lives
	// outside /admin/ for the CMS client.
	outerMux.Handle("POST /blog/images/upload",
		requireAuth(middleware.RequireAdmin(http.HandlerFunc(s.imageH.UploadBlogImage))))
	outerMux.Handle("/api/", requireAuth(memberMux))
	outerMux.Handle("/admin/", requireAuth(middleware.RequireAdmin(adminMux)))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
