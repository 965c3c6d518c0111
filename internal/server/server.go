package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/eladbarak/snapcal/internal/database"
	"github.com/eladbarak/snapcal/internal/gcal"
	"github.com/eladbarak/snapcal/internal/orchestrator"
)

// Pipeline is the conversation flow the server exposes over HTTP.
// *orchestrator.Orchestrator satisfies it.
type Pipeline interface {
	StartFromImage(ctx context.Context, imageData []byte, mimeType string) (*orchestrator.Result, error)
	HandleReply(ctx context.Context, conversationID, message string) (*orchestrator.Result, error)
}

type Server struct {
	db         *database.DB
	pipeline   Pipeline
	gcalClient *gcal.Client
	httpSrv    *http.Server
	port       int
}

// ServerConfig holds configuration for server creation
type ServerConfig struct {
	DB         *database.DB
	Pipeline   Pipeline
	GCalClient *gcal.Client
	Port       int
}

func New(cfg ServerConfig) *Server {
	s := &Server{
		db:         cfg.DB,
		pipeline:   cfg.Pipeline,
		gcalClient: cfg.GCalClient,
		port:       cfg.Port,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.corsMiddleware(mux),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /health", s.handleHealthCheck)

	// Conversation flow
	mux.HandleFunc("POST /upload/", s.handleUpload)
	mux.HandleFunc("POST /message/", s.handleMessage)

	// Inspection API
	mux.HandleFunc("GET /api/conversations", s.handleListConversations)
	mux.HandleFunc("GET /api/conversations/{id}", s.handleGetConversation)

	// Google Calendar OAuth
	mux.HandleFunc("GET /api/gcal/status", s.handleGCalStatus)
	mux.HandleFunc("POST /api/gcal/callback", s.handleGCalExchangeCode)
}

func (s *Server) Start() error {
	fmt.Printf("Starting HTTP server on http://localhost:%d\n", s.port)
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler returns the server's HTTP handler for testing purposes
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// corsMiddleware adds CORS headers to allow browser and mobile clients
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
