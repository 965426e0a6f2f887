package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-pilot/internal/config"
	"github.com/jonathan/interview-pilot/internal/db"
	"github.com/jonathan/interview-pilot/internal/deletion"
	"github.com/jonathan/interview-pilot/internal/ingest"
	"github.com/jonathan/interview-pilot/internal/interview"
	"github.com/jonathan/interview-pilot/internal/llm"
	"github.com/jonathan/interview-pilot/internal/mail"
	"github.com/jonathan/interview-pilot/internal/memstore"
	"github.com/jonathan/interview-pilot/internal/ranking"
	"github.com/jonathan/interview-pilot/internal/server/middleware"
	"github.com/jonathan/interview-pilot/internal/server/ratelimit"
)

// Server represents the HTTP server.
type Server struct {
	httpServer      *http.Server
	store           Store
	database        *db.DB // nil when running on the in-memory store
	llmClient       llm.Client
	rateLimiter     *ratelimit.Limiter
	logger          *zap.Logger
	jwtService      *JWTService
	userService     *UserService
	authHandler     *AuthHandler
	generator       *interview.Generator
	analyzer        *interview.Analyzer
	ranker          *ranking.Ranker
	fetcher         *ingest.Fetcher
	deletionManager *deletion.Manager
}

// New creates a server wired from the environment: Postgres when
// DATABASE_URL is set, the in-memory demo store otherwise.
func New(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Server, error) {
	var store Store
	var database *db.DB
	if cfg.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		store = database
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory store")
		store = memstore.New()
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}

	deletionConfig, err := config.NewDeletionConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create deletion config: %w", err)
	}

	s := newServer(serverDeps{
		store:          store,
		client:         client,
		logger:         logger,
		jwtConfig:      jwtConfig,
		passwordConfig: passwordConfig,
		deletionConfig: deletionConfig,
		mailConfig:     config.NewMailConfig(),
		port:           cfg.Port,
	})
	s.database = database
	return s, nil
}

// serverDeps carries the assembled dependencies into newServer. Tests
// inject an in-memory store and a fake LLM client here.
type serverDeps struct {
	store          Store
	client         llm.Client
	logger         *zap.Logger
	jwtConfig      *config.JWTConfig
	passwordConfig *config.PasswordConfig
	deletionConfig deletion.Config
	mailConfig     mail.Config
	port           int
}

func newServer(deps serverDeps) *Server {
	s := &Server{
		store:     deps.store,
		llmClient: deps.client,
		logger:    deps.logger,
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	s.jwtService = NewJWTService(deps.jwtConfig)
	s.userService = NewUserService(deps.store, deps.passwordConfig)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	s.generator = interview.NewGenerator(deps.client, deps.logger)
	s.analyzer = interview.NewAnalyzer(deps.client, deps.logger)
	s.ranker = ranking.NewRanker(deps.client, deps.logger)
	s.fetcher = ingest.NewFetcher()

	mailer := mail.NewSender(deps.mailConfig, deps.logger)
	directory := NewDirectory(deps.store, s.jwtService)
	s.deletionManager = deletion.NewManager(directory, mailer, deps.logger, deps.deletionConfig)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", deps.port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // LLM calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// routes builds the router.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	auth := middleware.Auth(s.jwtService.AsTokenValidator())

	mux.HandleFunc("GET /health", s.handleHealth)

	// Authentication endpoints
	mux.HandleFunc("POST /api/auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)
	mux.Handle("PUT /api/auth/password", auth(http.HandlerFunc(s.handleUpdatePassword)))

	// Profile endpoint
	mux.Handle("GET /api/users/me", auth(http.HandlerFunc(s.handleMe)))

	// Interview plan endpoints
	mux.Handle("POST /api/interview/generate", auth(http.HandlerFunc(s.handleGeneratePlan)))
	mux.Handle("GET /api/interview/plans", auth(http.HandlerFunc(s.handleListPlans)))
	mux.Handle("POST /api/role/analyze", auth(http.HandlerFunc(s.handleAnalyzeRole)))
	mux.Handle("POST /api/candidate/analyze", auth(http.HandlerFunc(s.handleAnalyzeCandidate)))

	// Evaluation endpoints
	mux.Handle("POST /api/evaluations", auth(http.HandlerFunc(s.handleSaveEvaluation)))
	mux.Handle("GET /api/evaluations", auth(http.HandlerFunc(s.handleListEvaluations)))
	mux.Handle("DELETE /api/evaluations/{id}", auth(http.HandlerFunc(s.handleDeleteEvaluation)))
	mux.Handle("POST /api/evaluations/rank", auth(http.HandlerFunc(s.handleRankEvaluations)))
	mux.Handle("GET /api/evaluations/ranked", auth(http.HandlerFunc(s.handleRankedEvaluations)))

	// Account deletion endpoints resolve the token themselves
	mux.HandleFunc("POST /api/account/delete", s.handleScheduleDeletion)
	mux.HandleFunc("POST /api/account/delete/cancel", s.handleCancelDeletion)
	mux.HandleFunc("POST /api/account/delete/finalize", s.handleFinalizeDeletions)

	return mux
}

// handleUpdatePassword routes the password change to the auth handler
// with the authenticated user's ID.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s.authHandler.UpdatePassword(w, r, userID)
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.llmClient != nil {
		if err := s.llmClient.Close(); err != nil {
			s.logger.Warn("failed to close LLM client", zap.Error(err))
		}
	}
	if s.database != nil {
		s.database.Close()
	}

	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, x-cron-secret")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit applies the per-client token bucket limiter.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
		"error":       "rate_limit_exceeded",
		"retry_after": int(time.Until(info.ResetTime).Seconds()),
	})
}
