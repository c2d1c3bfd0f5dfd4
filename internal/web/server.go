package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hpungsan/rankwatch/internal/ops"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// NewServer creates and configures the HTTP server for the dashboard UI.
func NewServer(env *ops.Env, version, bind string, port int) *http.Server {
	// Create sub-FS for templates (strip "templates/" prefix)
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		log.Fatalf("failed to create template sub-FS: %v", err)
	}

	// Create sub-FS for static files (strip "static/" prefix)
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Fatalf("failed to create static sub-FS: %v", err)
	}

	h := NewHandlers(env, NewRenderer(templateSub, version))

	mux := NewMux(h, staticSub)

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", bind, port),
		Handler: securityHeaders(mux),
	}
}

// NewMux wires the dashboard routes. Views behind requireAuth render only
// for an authenticated, hydrated session.
func NewMux(h *Handlers, staticSub fs.FS) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
	mux.HandleFunc("GET /dashboard", h.HandleDashboard)
	mux.HandleFunc("GET /login", h.HandleLoginForm)
	mux.HandleFunc("POST /login", h.HandleLogin)
	mux.HandleFunc("GET /register", h.HandleRegisterForm)
	mux.HandleFunc("POST /register", h.HandleRegister)
	mux.HandleFunc("GET /keywords/new", h.requireAuth(h.HandleNewForm))
	mux.HandleFunc("POST /keywords", h.requireAuth(h.HandleCreate))
	mux.HandleFunc("GET /keywords/{id}", h.requireAuth(h.HandleDetail))
	mux.HandleFunc("POST /keywords/{id}/crawl", h.HandleCrawl)
	mux.HandleFunc("GET /export", h.HandleExport)
	mux.HandleFunc("POST /logout", h.HandleLogout)

	if staticSub != nil {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticSub)))
	}

	return mux
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Printf("rankwatch dashboard running at http://%s", srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Printf("WARNING: Server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
