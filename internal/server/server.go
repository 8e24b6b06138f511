package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cfteams/apiserver/config"
	"github.com/cfteams/apiserver/internal/codeforces"
	"github.com/cfteams/apiserver/internal/handlers"
	"github.com/cfteams/apiserver/internal/services"
	"github.com/cfteams/apiserver/internal/store"
)

// Handler timeouts sit well above the defaults because profile fan-out
// waits behind the upstream rate gate: a cold leaderboard for n members
// costs roughly 2n seconds.
const (
	requestTimeout    = 2 * time.Minute
	readTimeout       = 15 * time.Second
	writeTimeout      = 2 * time.Minute
	idleTimeout       = 60 * time.Second
	disconnectTimeout = 5 * time.Second
	defaultServerPort = 8080
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	mongo      *mongo.Client
	log        *slog.Logger
}

// New constructs a Server with its dependencies wired: Mongo
// connection, Codeforces client with its own cache, and the services
// on top.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	mongoClient, err := store.Open(ctx, cfg.Mongo.URI)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	teamRepo := store.NewTeamRepository(mongoClient.Database(cfg.Mongo.Database))

	cfClient := codeforces.NewClient(codeforces.Config{
		BaseURL:         cfg.Codeforces.BaseURL,
		MinCallInterval: cfg.Codeforces.MinCallInterval,
		CacheTTL:        cfg.Codeforces.CacheTTL,
		SummaryCacheTTL: cfg.Codeforces.SummaryCacheTTL,
		HTTPTimeout:     cfg.Codeforces.HTTPTimeout,
	}, logger)

	profileService := services.NewProfileService(cfClient, logger)
	compareService := services.NewCompareService(profileService)
	teamService := services.NewTeamService(teamRepo, cfClient, logger)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(requestTimeout),
	)
	router.Get("/health", handlers.Health)
	router.Route("/api", func(r chi.Router) {
		handlers.UserRouter(r, profileService, compareService, cfClient)
		r.Route("/teams", func(r chi.Router) {
			handlers.TeamRouter(r, teamService)
		})
	})

	port := cfg.ServerPort
	if port == 0 {
		port = defaultServerPort
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		mongo:      mongoClient,
		log:        logger,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.log.Info("server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()

	if s.mongo != nil {
		if err := s.mongo.Disconnect(ctx); err != nil {
			s.log.Warn("mongodb disconnect failed", "error", err)
		}
	}
	return s.httpServer.Shutdown(ctx)
}
