// Package server implements the built-in development server: it serves
// the mirrored site with the shell page at /, falls back to plain static
// files, and pushes live-reload notices over a websocket when the mirror
// changes on disk.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/docshell/docshell/internal/content"
	"github.com/docshell/docshell/internal/manifest"
)

// Config holds server configuration.
type Config struct {
	Port       int
	SiteDir    string // root of the mirrored site
	PagesDir   string // page directory, relative to SiteDir
	LiveReload bool   // watch SiteDir and push reloads over /ws/reload
	Open       bool   // open the browser after startup
}

// Server serves the mirrored site.
type Server struct {
	cfg        Config
	router     chi.Router
	hub        *reloadHub
	watcher    *siteWatcher
	httpServer *http.Server
}

// New creates a server for the given site directory.
func New(cfg Config) *Server {
	s := &Server{
		cfg: cfg,
		hub: newReloadHub(),
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", s.handleIndex)
	r.Get("/ws/reload", s.hub.handleWS)

	// Static files (must be registered after the specific routes).
	r.Handle("/*", http.FileServer(http.Dir(s.cfg.SiteDir)))

	return r
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// handleIndex serves the shell page. The id query parameter selects the
// page; an absent or unknown id falls back to the first manifest key.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	m := s.loadManifest()

	id := r.URL.Query().Get("id")
	if !m.Has(id) {
		id, _ = m.First()
	}

	data := shellData{
		SiteTitle:  "docshell",
		Nav:        template.HTML(NavHTML(m, id)),
		LiveReload: s.cfg.LiveReload,
	}

	if id != "" {
		item, _ := m.Get(id)
		data.PageTitle = item.Title
		page, err := os.ReadFile(filepath.Join(s.cfg.SiteDir, s.cfg.PagesDir, id+".html"))
		if err != nil {
			data.HasError = true
			data.ErrorHTML = template.HTML(content.ErrorPage(item.Title, err))
		} else {
			data.HasPage = true
			data.Page = string(page)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := shellTmpl.Execute(w, data); err != nil {
		log.Printf("server: render shell: %v", err)
	}
}

// loadManifest reads the mirrored manifest. A missing or corrupt mirror
// yields an empty manifest so the shell still renders.
func (s *Server) loadManifest() *manifest.Manifest {
	raw, err := os.ReadFile(filepath.Join(s.cfg.SiteDir, "manifest.json"))
	if err != nil {
		return manifest.New()
	}
	m := manifest.New()
	if err := json.Unmarshal(raw, m); err != nil {
		log.Printf("server: parse manifest: %v", err)
		return manifest.New()
	}
	return m
}

// Start begins listening on the configured port. It blocks until the
// server stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	url := fmt.Sprintf("http://localhost:%d", s.cfg.Port)

	if s.cfg.LiveReload {
		w, err := newSiteWatcher(s.hub, reloadSettleDelay, s.cfg.SiteDir, filepath.Join(s.cfg.SiteDir, s.cfg.PagesDir))
		if err != nil {
			log.Printf("live reload disabled: %v", err)
		} else {
			s.watcher = w
			defer w.Close()
		}
	}

	if s.cfg.Open {
		go openBrowser(url)
	}

	fmt.Printf("Serving site at %s\n", url)
	fmt.Println("Press Ctrl+C to stop.")

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.watcher != nil {
		s.watcher.Close()
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
