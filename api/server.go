package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/toolgrid/toolgrid-backend/config"
	"github.com/toolgrid/toolgrid-backend/database"
	"github.com/toolgrid/toolgrid-backend/services"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(db database.Database) (Server, error) {
	c := config.New()

	app, err := config.Load(c)
	if err != nil {
		return Server{}, fmt.Errorf("loading app config: %w", err)
	}

	port := c.String("PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	router, err := newRouter(db, app, withConfig(c), withStartupTime(startupTime))
	if err != nil {
		return Server{}, err
	}

	readTimeout := time.Duration(c.Int("READ_TIMEOUT_SECONDS", 30)) * time.Second
	writeTimeout := time.Duration(c.Int("WRITE_TIMEOUT_SECONDS", 60)) * time.Second
	idleTimeout := time.Duration(c.Int("IDLE_TIMEOUT_SECONDS", 120)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      config.Env
	startupTime time.Time
}

func withConfig(c config.Env) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(db database.Database, app config.App, opts ...func(*router)) (*chi.Mux, error) {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)

	acceptedOrigins := strings.Split(router.config.String("ACCEPTED_ORIGINS", "*"), ",")
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   acceptedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	sessions := services.NewSessionService(db.AdminSessionRepo(), db.AdminLogRepo(), app)
	moderation := services.NewModerationService(db.ProjectRepo(), db.AdminLogRepo())

	var shortener services.Shortener
	if app.ShortenerEndpoint != "" {
		shortener = services.NewHTTPShortener(app.ShortenerEndpoint, app.ShortenerAPIKey)
	}
	submissions := services.NewSubmissionService(db.ProjectRepo(), db.LinkRepo(), db.UserRepo(), shortener)

	screenshots, err := newScreenshotService(db, app)
	if err != nil {
		return nil, err
	}

	handlers := initializeHandlers(db, sessions, submissions, moderation, screenshots, app.SessionTTL)
	gate := newAccessGate(sessions)

	setupRoutes(chiRouter, handlers, gate, healthcheck(db))

	return chiRouter, nil
}

// newScreenshotService wires the capture collaborator and the S3 store when
// both are configured; otherwise the service reports itself unconfigured at
// call time.
func newScreenshotService(db database.Database, app config.App) (*services.ScreenshotService, error) {
	var (
		capturer services.Capturer
		store    services.ObjectStore
	)

	if app.ScreenshotEndpoint != "" {
		capturer = services.NewHTTPCapturer(app.ScreenshotEndpoint, app.ScreenshotAPIKey)
	}
	if app.ScreenshotBucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		store = services.NewS3Store(s3.NewFromConfig(awsCfg), app.ScreenshotBucket)
	}

	return services.NewScreenshotService(db.ProjectRepo(), capturer, store), nil
}

func healthcheck(db database.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"degraded"}`))
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	}
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
