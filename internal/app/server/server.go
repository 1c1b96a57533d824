package server

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"thrive/internal/domain/auth"
	"thrive/internal/domain/development"
	"thrive/internal/domain/directory"
	"thrive/internal/domain/meetings"
	"thrive/internal/domain/reports"
	"thrive/internal/domain/survey"
	"thrive/internal/platform/config"
	cryptoutil "thrive/internal/platform/crypto"
	"thrive/internal/platform/db"
	"thrive/internal/platform/email"
	"thrive/internal/platform/metrics"
	authhandler "thrive/internal/transport/http/handlers/auth"
	developmenthandler "thrive/internal/transport/http/handlers/development"
	directoryhandler "thrive/internal/transport/http/handlers/directory"
	meetingshandler "thrive/internal/transport/http/handlers/meetings"
	reportshandler "thrive/internal/transport/http/handlers/reports"
	surveyhandler "thrive/internal/transport/http/handlers/survey"
	"thrive/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
}

// New wires storage, services and the HTTP surface. With DATABASE_URL unset
// it runs entirely on seeded in-memory stores.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		return nil, err
	}

	var (
		pool         *pgxpool.Pool
		userStore    directory.Store
		goalStore    development.Store
		surveyStore  survey.Store
		meetingStore meetings.Store
		sessionStore auth.SessionStore
	)

	if cfg.DatabaseURL == "" {
		slog.Info("no DATABASE_URL set, using seeded in-memory storage")
		users := directory.NewMemoryStore()
		if err := directory.SeedMemory(ctx, users, cfg.SeedUserPassword); err != nil {
			return nil, err
		}
		goals := development.NewMemoryStore()
		if err := development.SeedMemory(ctx, goals); err != nil {
			return nil, err
		}
		userStore = users
		goalStore = goals
		surveyStore = survey.NewMemoryStore(survey.DefaultQuestions())
		meetingStore = meetings.NewMemoryStore()
		sessionStore = auth.NewMemorySessionStore()
	} else {
		pool, err = db.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool, "migrations"); err != nil {
				pool.Close()
				return nil, err
			}
		}
		if cfg.RunSeed {
			if err := db.Seed(ctx, pool, cfg); err != nil {
				pool.Close()
				return nil, err
			}
		}
		userStore = directory.NewPostgresStore(pool)
		goalStore = development.NewPostgresStore(pool)
		surveyStore = survey.NewPostgresStore(pool)
		meetingStore = meetings.NewPostgresStore(pool)
		sessionStore = auth.NewPostgresSessionStore(pool)
	}

	dirSvc := directory.NewService(userStore)
	devSvc := development.NewService(goalStore)
	surveySvc := survey.NewService(surveyStore)
	meetingSvc := meetings.NewService(meetingStore, dirSvc, email.New(cfg), cfg.EmailFrom)
	reportSvc := reports.NewService(devSvc, meetingSvc, dirSvc)
	collector := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.Auth(cfg.JWTSecret, sessionStore))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if pool != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := pool.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(dirSvc, sessionStore, cfg.JWTSecret, crypto).RegisterRoutes(r)
		developmenthandler.NewHandler(devSvc, dirSvc, reportSvc).RegisterRoutes(r)
		surveyhandler.NewHandler(surveySvc).RegisterRoutes(r)
		meetingshandler.NewHandler(meetingSvc, dirSvc).RegisterRoutes(r)
		directoryhandler.NewHandler(dirSvc).RegisterRoutes(r)
		reportshandler.NewHandler(reportSvc, collector).RegisterRoutes(r)
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	return &App{Config: cfg, DB: pool, Router: router}, nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

func Run() {
	cfg := config.Load()
	app, err := New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	log.Printf("server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, r.URL.Path)
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}
	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}
	http.NotFound(w, r)
}
