package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jobmatch-backend/internal/applications"
	"jobmatch-backend/internal/extract"
	"jobmatch-backend/internal/jobs"
	"jobmatch-backend/internal/llm"
	"jobmatch-backend/internal/llm/providers"
	"jobmatch-backend/internal/matching"
	"jobmatch-backend/internal/resumes"
	"jobmatch-backend/internal/shared/auth"
	"jobmatch-backend/internal/shared/config"
	"jobmatch-backend/internal/shared/server"
	"jobmatch-backend/internal/shared/storage/db"
	"jobmatch-backend/internal/shared/storage/object"
	localstore "jobmatch-backend/internal/shared/storage/object/local"
	s3store "jobmatch-backend/internal/shared/storage/object/s3"
	"jobmatch-backend/internal/shared/telemetry"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.ObjectStore
	Logger          *zap.Logger
	JobsService     *jobs.Service
	ResumesService  *resumes.Service
	Applications    *applications.Service
	Extractor       *extract.Extractor
	LLM             llm.Client
	MatchingService *matching.Service
}

// Build prepares dependencies and registers routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	logger := telemetry.L()

	sqlDB, err := buildDB(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokens(cfg.JWTSecret, config.IsDevLike(cfg.Env))
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Logger: logger,
	}
	buildServices(ctx, app)

	app.Router = server.NewRouter(server.Options{
		CORSAllowOrigins: cfg.CORSAllowOrigin,
		Tokens:           tokens,
		AllowGuests:      config.IsDevLike(cfg.Env),
		RateLimits:       server.DefaultRateLimits(),
		Release:          cfg.Env == "production",
	},
		jobs.NewHandler(app.JobsService),
		resumes.NewHandler(app.ResumesService),
		applications.NewHandler(app.Applications),
		matching.NewHandler(app.MatchingService),
	)

	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config, logger *zap.Logger) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if config.IsDevLike(cfg.Env) {
			logger.Warn("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			logger.Warn("bootstrap: database connect failed; using in-memory repositories", zap.Error(err))
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(ctx context.Context, app *App) {
	var (
		jobRepo    jobs.Repo
		resumeRepo resumes.Repo
		appRepo    applications.Repo
	)
	if app.DB != nil {
		jobRepo = &jobs.PGRepo{DB: app.DB}
		resumeRepo = &resumes.PGRepo{DB: app.DB}
		appRepo = &applications.PGRepo{DB: app.DB}
	} else {
		memResumes := resumes.NewMemoryRepo()
		jobRepo = jobs.NewMemoryRepo()
		resumeRepo = memResumes
		appRepo = applications.NewMemoryRepo(memResumes)
	}

	app.JobsService = jobs.NewService(jobRepo)
	app.ResumesService = &resumes.Service{
		Store:  app.Store,
		Repo:   resumeRepo,
		Logger: app.Logger.Named("resumes"),
	}
	app.Applications = &applications.Service{
		Repo:    appRepo,
		Resumes: app.ResumesService,
		Jobs:    app.JobsService,
	}
	app.Extractor = extract.New(app.Store, app.Logger.Named("extract"))

	llmCfg := app.Config.LLM
	app.LLM = providers.New(ctx, llm.Config{
		Provider:        llmCfg.Provider,
		APIKey:          llmCfg.APIKey,
		Model:           llmCfg.Model,
		BaseURL:         llmCfg.BaseURL,
		Timeout:         llmCfg.Timeout,
		MaxOutputTokens: llmCfg.MaxOutputTokens,
	}, app.Logger.Named("llm"))

	composer := matching.NewComposer()
	composer.MaxJobs = app.Config.MatchMaxJobs
	composer.MaxOutputTokens = llmCfg.MaxOutputTokens

	app.MatchingService = &matching.Service{
		Resumes:   app.ResumesService,
		Extractor: app.Extractor,
		Catalog:   app.JobsService,
		Composer:  composer,
		Client:    app.LLM,
		Timeout:   llmCfg.Timeout,
		Logger:    app.Logger.Named("matching"),
	}
}
