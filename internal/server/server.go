package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Serhii-Leonenko/ragserver/internal/db"
	"github.com/Serhii-Leonenko/ragserver/internal/pdf"
	"github.com/Serhii-Leonenko/ragserver/internal/rag"
	"github.com/Serhii-Leonenko/ragserver/internal/vectordb"
)

// Config holds server configuration.
type Config struct {
	Port          int
	AppName       string
	AppVersion    string
	MaxUploadSize int64 // bytes
	AllowAll      bool  // allow all CORS origins (dev mode)
}

// DocumentProcessor extracts and chunks an uploaded PDF.
type DocumentProcessor interface {
	Process(path, filename string) (*pdf.Result, error)
}

// QueryService answers a question from the indexed documents.
type QueryService interface {
	Query(ctx context.Context, question string, topK int) (*rag.Answer, error)
}

// Server is the RAG HTTP API server. All collaborators are constructed by
// the caller and passed in; the server holds no global state.
type Server struct {
	cfg        Config
	registry   *db.DB
	store      vectordb.Store
	storage    *pdf.Storage
	processor  DocumentProcessor
	rag        QueryService
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all dependencies.
func New(cfg Config, registry *db.DB, store vectordb.Store, storage *pdf.Storage, processor DocumentProcessor, ragService QueryService) *Server {
	s := &Server{
		cfg:       cfg,
		registry:  registry,
		store:     store,
		storage:   storage,
		processor: processor,
		rag:       ragService,
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
	r.Use(middleware.Timeout(120 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Post("/query", s.handleQuery)
		r.Get("/stats", s.handleStats)
		r.Delete("/documents/{filename}", s.handleDeleteDocument)
		r.Post("/reset", s.handleReset)
		r.Get("/health", s.handleHealth)
		r.Get("/chat", s.handleChat)
	})

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("%s listening on %s", s.cfg.AppName, addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
