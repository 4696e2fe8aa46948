// Package server は Controller をセッションごとに HTTP API として公開します。
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shouni/vibe-ui-kit/pkg/adapters"
	"github.com/shouni/vibe-ui-kit/pkg/generator"
	"github.com/shouni/vibe-ui-kit/pkg/render"
	"github.com/shouni/vibe-ui-kit/pkg/web"
)

// ImageLoader は URL 指定の参照画像を取得します。
type ImageLoader interface {
	Load(ctx context.Context, rawURL string) (*adapters.RemoteImage, error)
}

// Options はサーバーの動作設定です。
type Options struct {
	Addr           string
	AllowAll       bool // allow all CORS origins (dev mode)
	MaxUploadBytes int64
	SessionTTL     time.Duration
	RatePerMinute  int
	RateBurst      int
}

// Server は UI と JSON API を配信する HTTP サーバーです。
type Server struct {
	opts       Options
	sessions   *sessionStore
	loader     ImageLoader
	renderer   *render.Renderer
	router     chi.Router
	httpServer *http.Server
}

// New は依存関係を注入して Server を作成します。
// loader が nil の場合、URL からの画像取得は無効になります。
func New(opts Options, gen generator.Generator, loader ImageLoader) (*Server, error) {
	if gen == nil {
		return nil, fmt.Errorf("gen (generator.Generator) is required")
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 2 * time.Hour
	}

	s := &Server{
		opts:     opts,
		sessions: newSessionStore(gen, opts.SessionTTL, opts.RatePerMinute, opts.RateBurst),
		loader:   loader,
		renderer: render.New(""),
	}
	s.router = s.buildRouter()
	return s, nil
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.opts.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.sessions.count()})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/image", s.handleImage)
		r.Post("/image", s.handleUpload)
		r.Post("/image/url", s.handleImageURL)
		r.Put("/prompt", s.handlePrompt)
		r.Get("/presets", s.handlePresets)
		r.Post("/presets/{id}", s.handleApplyPreset)
		r.Post("/generate", s.handleGenerate)
		r.Put("/view", s.handleView)
		r.Get("/preview", s.handlePreview)
		r.Get("/files", s.handleFiles)
		r.Get("/files/*", s.handleFile)
		r.Get("/download", s.handleDownload)
	})

	r.Handle("/", web.Handler())
	return r
}

// ServeHTTP は http.Handler を満たします。
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start は設定されたアドレスで待ち受けを開始します。
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	slog.Info("vibe server listening", "addr", s.opts.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown は受付中のリクエストを待ってから停止します。
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
