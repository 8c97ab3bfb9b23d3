package server

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/portfolio/internal/auth"
	"github.com/dukerupert/portfolio/internal/handler"
	"github.com/dukerupert/portfolio/internal/middleware"
	"github.com/dukerupert/portfolio/internal/store"
	"github.com/dukerupert/portfolio/internal/upload"
	ws "github.com/dukerupert/portfolio/internal/websocket"
)

const (
	ipLimit     = 10
	emailLimit  = 5
	limitWindow = time.Minute
)

type Config struct {
	DB          *sql.DB
	Sender      auth.Sender
	Secret      string
	DevMode     bool
	Upload      upload.Config
	CORSOrigins []string
	// TrustProxy keys per-IP limits on CF-Connecting-IP / X-Forwarded-For.
	// Leave it off unless a proxy that overwrites those headers sits in front.
	TrustProxy bool
	// Now overrides the clock used by the auth core.
	Now    func() time.Time
	Logger *slog.Logger
}

type Server struct {
	authSvc     *auth.Service
	authH       *handler.AuthHandler
	contentH    *handler.ContentHandler
	uploadH     *handler.UploadHandler
	hub         *ws.Hub
	userStore   *store.UserStore
	rateLimiter *middleware.RateLimiter
	corsOrigins []string
	clientIP    func(*http.Request) string
	logger      *slog.Logger
}

func New(cfg Config) (*Server, error) {
	if cfg.DB == nil {
		return nil, errors.New("server: database is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	userStore := store.NewUserStore(cfg.DB)
	contentStore := store.NewContentStore(cfg.DB)
	hub := ws.NewHub(logger.With("component", "websocket"))

	authSvc, err := auth.NewService(auth.Config{
		Users:      userStore,
		Sender:     cfg.Sender,
		Challenges: auth.NewChallengeStore(),
		Secret:     cfg.Secret,
		Now:        cfg.Now,
		Logger:     logger.With("component", "auth"),
	})
	if err != nil {
		return nil, err
	}

	return &Server{
		authSvc:     authSvc,
		authH:       handler.NewAuthHandler(authSvc, cfg.DevMode, logger.With("component", "auth_handler")),
		contentH:    handler.NewContentHandler(contentStore, hub, logger.With("component", "content")),
		uploadH:     handler.NewUploadHandler(upload.NewService(cfg.Upload, logger.With("component", "upload")), logger.With("component", "upload_handler")),
		hub:         hub,
		userStore:   userStore,
		rateLimiter: middleware.NewRateLimiter(),
		corsOrigins: cfg.CORSOrigins,
		clientIP:    middleware.ClientIP(cfg.TrustProxy),
		logger:      logger,
	}, nil
}

// AuthService returns the auth service for the challenge sweeper.
func (s *Server) AuthService() *auth.Service {
	return s.authSvc
}

// UserStore returns the user store for admin bootstrap.
func (s *Server) UserStore() *store.UserStore {
	return s.userStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Close disconnects websocket subscribers.
func (s *Server) Close() {
	s.hub.Close()
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Auth
	mux.Handle("POST /auth/login", s.rateLimited("login", s.authH.Login))
	mux.Handle("POST /auth/verify-otp", s.rateLimited("verify", s.authH.VerifyOTP))
	mux.Handle("POST /auth/resend-otp", s.rateLimited("resend", s.authH.ResendOTP))
	mux.HandleFunc("POST /auth/logout", s.authH.Logout)
	mux.HandleFunc("GET /auth/status", s.authH.Status)
	mux.HandleFunc("GET /auth/check", s.authH.Status)
	mux.HandleFunc("GET /debug/otp", s.authH.DebugOTP)

	// Content: reads are public, writes need an admin token.
	admin := middleware.RequireAdmin(s.authSvc, s.logger.With("component", "authz"))
	mux.HandleFunc("GET /content/{section}", s.contentH.List)
	mux.HandleFunc("GET /content/{section}/{id}", s.contentH.Get)
	mux.Handle("POST /content/{section}", admin(http.HandlerFunc(s.contentH.Create)))
	mux.Handle("PUT /content/{section}/{id}", admin(http.HandlerFunc(s.contentH.Update)))
	mux.Handle("DELETE /content/{section}/{id}", admin(http.HandlerFunc(s.contentH.Delete)))

	mux.Handle("POST /upload-image", admin(http.HandlerFunc(s.uploadH.UploadImage)))

	mux.HandleFunc("GET /ws", ws.Handler(s.hub, s.corsOrigins, s.logger.With("component", "websocket")))

	var h http.Handler = mux
	h = middleware.CORS(s.corsOrigins)(h)
	return middleware.RequestLogger(s.logger.With("component", "http"))(h)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// rateLimited applies the per-IP and per-email limits to an auth endpoint.
// Each endpoint name gets its own windows.
func (s *Server) rateLimited(name string, h http.HandlerFunc) http.Handler {
	ipKey := func(r *http.Request) string {
		return name + ":ip:" + s.clientIP(r)
	}
	emailKey := func(r *http.Request) string {
		if k := middleware.EmailKey(r); k != "" {
			return name + ":" + k
		}
		return ""
	}
	byIP := middleware.RateLimit(s.rateLimiter, ipKey, ipLimit, limitWindow)
	byEmail := middleware.RateLimit(s.rateLimiter, emailKey, emailLimit, limitWindow)
	return byIP(byEmail(h))
}
