package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "blogdesk/internal/app/http"
	"blogdesk/internal/clients/blogapi"
	"blogdesk/internal/clients/mediaapi"
	"blogdesk/internal/config"
	"blogdesk/internal/editor"
	"blogdesk/internal/lib/logger/sl"
	"blogdesk/internal/metrics"
	"blogdesk/internal/renderer"
	"blogdesk/internal/repository"
	blogsvc "blogdesk/internal/services/blog_service"
	editorsvc "blogdesk/internal/services/editor_service"
	mediasvc "blogdesk/internal/services/media_service"
	rendersvc "blogdesk/internal/services/render_service"
	filestorage "blogdesk/internal/storage/filestorage"
	"blogdesk/internal/storage/minio"
	redisapp "blogdesk/internal/storage/redis"
	httprouters "blogdesk/internal/transport/http"

	"github.com/go-playground/validator/v10"
)

type App struct {
	log        *slog.Logger
	HTTPServer *httpapp.Server
	Editor     *editorsvc.EditorService

	repo  *repository.Repository
	redis *redisapp.Client
}

// New собирает приложение по конфигу: медиабэкенд (rest, minio, local),
// бэкенд блога (rest, postgres) и необязательный Redis для кэша рендера.
func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	a := &App{log: log}

	mediaClient, uploadsDir, err := newMediaClient(ctx, log, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	blogClient, err := a.newBlogClient(ctx, log, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	validate := validator.New()

	mediaService := mediasvc.NewMediaService(log, mediaClient, cfg.Media.LibraryCacheTTL, cfg.Media.MaxImageSize)
	blogService := blogsvc.NewBlogService(log, blogClient, validate)

	var rendererOpts []renderer.Option
	if cfg.Render.SanitizeRichText {
		rendererOpts = append(rendererOpts, renderer.WithPolicy(renderer.RichTextPolicy()))
	}

	var cache rendersvc.RenderCache
	if cfg.Redis.RedisAddr != "" {
		a.redis = redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
		if err := a.redis.HealthCheck(ctx); err != nil {
			log.Warn("redis unavailable, render cache disabled until it recovers", sl.Err(err))
		}
		cache = repository.NewRedisRenderCache(a.redis)
	}

	renderService := rendersvc.NewRenderService(log, blogService, renderer.New(log, rendererOpts...), cache, cfg.Render.CacheTTL)

	editorCfg := editor.DefaultConfig()
	if cfg.Editor.Version != "" {
		editorCfg.Version = cfg.Editor.Version
	}
	a.Editor = editorsvc.NewEditorService(log, blogService, mediaService, editorCfg, cfg.Editor.SessionTTL)

	if err := metrics.RegisterSessionGauge(a.Editor.Count); err != nil {
		log.Warn("failed to register session gauge", sl.Err(err))
	}

	routers := httprouters.NewRouter(log, a.Editor, mediaService, blogService, renderService)

	a.HTTPServer = httpapp.New(log, validate, httpapp.Options{
		Host:         cfg.HTTP.Host,
		Port:         cfg.HTTP.Port,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		BodyLimit:    cfg.HTTP.BodyLimit,
		UploadsDir:   uploadsDir,
	}, routers)

	return a, nil
}

func newMediaClient(ctx context.Context, log *slog.Logger, cfg *config.Config) (mediasvc.MediaClient, string, error) {
	switch cfg.Media.Backend {
	case config.MediaBackendMinio:
		store, err := minio.New(log, minio.Config{
			Endpoint:      cfg.Minio.Endpoint,
			AccessKey:     cfg.Minio.AccessKey,
			SecretKey:     cfg.Minio.SecretKey,
			Bucket:        cfg.Minio.Bucket,
			UseSSL:        cfg.Minio.UseSSL,
			PublicBaseURL: cfg.Minio.PublicBaseURL,
			Timeout:       cfg.Minio.Timeout,
		})
		if err != nil {
			return nil, "", err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, "", err
		}
		return store, "", nil

	case config.MediaBackendLocal:
		store, err := filestorage.NewLocalFileStorage(cfg.FileStorage.BaseDir, cfg.FileStorage.BaseURL)
		if err != nil {
			return nil, "", err
		}
		return store, store.GetBaseDir(), nil

	default:
		return mediaapi.New(log, cfg.MediaAPI.BaseURL, cfg.MediaAPI.Timeout), "", nil
	}
}

func (a *App) newBlogClient(ctx context.Context, log *slog.Logger, cfg *config.Config) (blogsvc.BlogClient, error) {
	if cfg.Blog.Backend != config.BlogBackendPostgres {
		return blogapi.New(log, cfg.BlogAPI.BaseURL, cfg.BlogAPI.Timeout), nil
	}

	repo, err := repository.NewRepository(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	a.repo = repo

	return repo.Blog, nil
}

// Stop останавливает HTTP-сервер, закрывает сессии редактора и соединения.
func (a *App) Stop(ctx context.Context) {
	const op = "app.Stop"

	log := a.log.With(slog.String("op", op))

	if err := a.HTTPServer.Stop(ctx); err != nil {
		log.Error("failed to stop http server", sl.Err(err))
	}

	a.Editor.Shutdown()

	if a.repo != nil {
		a.repo.Close()
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Error("failed to close redis", sl.Err(err))
		}
	}
}
