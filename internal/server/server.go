package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/content-pilot/internal/config"
	"github.com/jonathan/content-pilot/internal/content"
	"github.com/jonathan/content-pilot/internal/db"
	"github.com/jonathan/content-pilot/internal/generation"
	"github.com/jonathan/content-pilot/internal/llm"
	"github.com/jonathan/content-pilot/internal/notify"
	"github.com/jonathan/content-pilot/internal/observability"
	"github.com/jonathan/content-pilot/internal/publisher"
	"github.com/jonathan/content-pilot/internal/server/middleware"
	"github.com/jonathan/content-pilot/internal/server/ratelimit"
	"github.com/jonathan/content-pilot/internal/strategy"
)

// GenerationService is the orchestration surface the handlers call.
type GenerationService interface {
	Start(ctx context.Context, accountID uuid.UUID, goal, goalContext string) (*generation.Result, error)
	GenerateSinglePost(ctx context.Context, accountID, postID uuid.UUID) (string, error)
	SetWeeklyGoal(ctx context.Context, accountID uuid.UUID, goal, goalContext string) error
}

// PublishService runs one publishing sweep.
type PublishService interface {
	Run(ctx context.Context) (publisher.Summary, error)
}

// ReminderService runs one weekly-reminder sweep.
type ReminderService interface {
	Run(ctx context.Context) (notify.ReminderSummary, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	llmClient   llm.Client
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	generator   GenerationService
	publisher   PublishService
	reminder    ReminderService
	cronSecret  string
	log         *logrus.Entry
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	APIKey      string
	CronSecret  string
	AppURL      string
	Email       notify.EmailConfig
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	llmClient, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	// weekReady stays a nil interface when email is not configured so the
	// orchestrator's nil check works; a typed nil pointer would not.
	var notifier *notify.Notifier
	var weekReady generation.Notifier
	if cfg.Email.Host != "" {
		notifier = notify.NewNotifier(notify.NewEmailSender(cfg.Email), cfg.AppURL)
		weekReady = notifier
	}

	log := observability.NewLoggerWithComponent("server")

	s := &Server{
		db:          database,
		llmClient:   llmClient,
		rateLimiter: ratelimit.NewLimiter(5 * time.Minute),
		jwtService:  NewJWTService(jwtConfig),
		cronSecret:  cfg.CronSecret,
		log:         log,
		generator: generation.NewOrchestrator(
			database,
			strategy.NewGenerator(llmClient),
			content.NewGenerator(llmClient),
			weekReady,
			observability.NewLoggerWithComponent("generation"),
		),
		publisher: publisher.NewRunner(
			database,
			publisher.Adapters(),
			observability.NewLoggerWithComponent("publisher"),
		),
		reminder: notify.NewReminder(
			database,
			notifier,
			observability.NewLoggerWithComponent("reminder"),
		),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // generation holds the request open
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the router with the middleware chain applied.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(s.jwtService.AsTokenValidator())
	// The limiter runs inside auth so account routes are keyed by account
	// ID; several accounts behind one IP get independent windows.
	limited := func(h http.HandlerFunc) http.Handler { return auth(s.withRateLimit(h)) }

	mux.Handle("POST /generation/start", limited(s.handleStartGeneration))
	mux.Handle("POST /generation/single", limited(s.handleGenerateSingle))
	mux.Handle("POST /profile/goal", limited(s.handleSetGoal))

	mux.Handle("GET /cron/publish-scheduled", s.withRateLimit(http.HandlerFunc(s.handleCronPublish)))
	mux.Handle("GET /cron/weekly-reminder", s.withRateLimit(http.HandlerFunc(s.handleCronReminder)))

	mux.HandleFunc("GET /health", s.handleHealth)

	return s.withLogging(s.withCORS(mux))
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.log.WithField("addr", s.httpServer.Addr).Info("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.WithError(err).Fatal("server error")
		}
	}()

	<-stop
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.llmClient != nil {
		_ = s.llmClient.Close()
	}
	s.db.Close()
	s.log.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit enforces the per-caller, per-action presets. On account
// routes it runs after auth, so the key is the account ID; cron routes
// fall back to the caller's IP.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		action := actionForPath(r.URL.Path)
		limit := ratelimit.ForAction(action)
		result := s.rateLimiter.Check(ratelimit.Key(s.extractClientID(r), action), limit)

		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit.MaxRequests))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))

		if !result.Allowed {
			retryAfter := int(result.ResetIn.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
				"error":       "rate_limit_exceeded",
				"message":     "Rate limit exceeded. Please try again later.",
				"retry_after": retryAfter,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// actionForPath maps a route to its rate-limit preset.
func actionForPath(path string) string {
	switch {
	case strings.HasPrefix(path, "/generation/start"):
		return "generation"
	case strings.HasPrefix(path, "/generation"):
		return "ai"
	case strings.HasPrefix(path, "/cron"):
		return "posts"
	default:
		return "default"
	}
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"remote":   r.RemoteAddr,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.WithError(err).Error("failed to encode JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID identifies the caller for rate limiting: the
// authenticated account when present, the IP otherwise.
func (s *Server) extractClientID(r *http.Request) string {
	if accountID, err := middleware.AccountID(r); err == nil {
		return accountID.String()
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
