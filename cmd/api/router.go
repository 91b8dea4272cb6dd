package main

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/scribeapp/scribe/internal/auth"
	"github.com/scribeapp/scribe/internal/config"
	"github.com/scribeapp/scribe/internal/handlers"
	"github.com/scribeapp/scribe/internal/middleware"
	"github.com/scribeapp/scribe/internal/repo"
	"github.com/scribeapp/scribe/internal/uploads"
)

// newRouter wires repositories, the authenticator, and handlers into the HTTP
// API. Split from main so the integration test can mount the full router on a
// sqlmock-backed DB.
func newRouter(db *sql.DB, cfg config.Config, store *uploads.Store) chi.Router {
	userRepo := repo.NewUserRepo(db)
	postRepo := repo.NewPostRepo(db)
	auditRepo := repo.NewAuditRepo(db)

	authenticator := auth.New(userRepo, []byte(cfg.JWTSecret), cfg.JWTExpire, cfg.BcryptCost)

	useTLS := cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""

	authHandler := &handlers.AuthHandler{Auth: authenticator, AuditRepo: auditRepo, CookieSecure: useTLS}
	postHandler := &handlers.PostHandler{Repo: postRepo, AuditRepo: auditRepo}
	uploadHandler := &handlers.UploadHandler{Store: store}
	auditHandler := &handlers.AuditHandler{Repo: auditRepo}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(useTLS))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Auth endpoints: small bodies, rate limited per IP
	authLimiter := middleware.AuthRateLimiter()
	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)
	})

	// Public reads
	r.Get("/posts", postHandler.ListPosts)
	r.Get("/posts/{id}", postHandler.GetPost)
	r.Get("/uploads/{name}", uploadHandler.Serve)

	// Protected mutations
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(authenticator))
		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
			r.Post("/posts", postHandler.CreatePost)
			r.Put("/posts/{id}", postHandler.UpdatePost)
			r.Delete("/posts/{id}", postHandler.DeletePost)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBytes(cfg.UploadMaxBytes))
			r.Post("/upload", uploadHandler.Upload)
		})
		r.Get("/audit", auditHandler.ListAudit)
	})

	return r
}
