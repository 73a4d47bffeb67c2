package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"blogdesk/internal/middleware"
	httprouters "blogdesk/internal/transport/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func NewValidator(v *validator.Validate) *CustomValidator {
	return &CustomValidator{validator: v}
}

type Options struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    string
	// UploadsDir раздаётся по /uploads для локального медиахранилища.
	UploadsDir string
}

type Server struct {
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	opts    Options
}

func New(log *slog.Logger, validate *validator.Validate, opts Options, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = opts.ReadTimeout
	e.Server.WriteTimeout = opts.WriteTimeout

	e.Validator = NewValidator(validate)

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
	}))
	if opts.BodyLimit != "" {
		e.Use(echomw.BodyLimit(opts.BodyLimit))
	}
	e.Use(middleware.PrometheusMetrics)

	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	return &Server{
		log:     log,
		e:       e,
		routers: routers,
		opts:    opts,
	}
}

// Echo отдаёт сервер для тестов обработчиков.
func (s *Server) Echo() *echo.Echo {
	return s.e
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"), slog.String("port", s.opts.Port))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	addr := fmt.Sprintf("%s:%s", s.opts.Host, s.opts.Port)
	if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	s.log.Info("stopping", slog.String("op", op))

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) BuildRouters() {
	s.e.GET("/health", s.routers.Health)
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	swagger := s.e.Group("/swag")
	{
		swagger.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	if s.opts.UploadsDir != "" {
		s.e.Static("/uploads", s.opts.UploadsDir)
	}

	api := s.e.Group("/api/v1")

	sessions := api.Group("/editor/sessions")
	{
		sessions.POST("", s.routers.OpenSession)
		sessions.GET("/:session_id", s.routers.GetSession)
		sessions.DELETE("/:session_id", s.routers.CloseSession)
		sessions.PATCH("/:session_id/form", s.routers.UpdateForm)
		sessions.GET("/:session_id/stats", s.routers.GetStats)
		sessions.GET("/:session_id/document", s.routers.GetDocument)
		sessions.GET("/:session_id/preview", s.routers.PreviewSession)
		sessions.POST("/:session_id/save", s.routers.SaveSession)

		blocks := sessions.Group("/:session_id/blocks")
		{
			blocks.POST("", s.routers.InsertBlock)
			blocks.PUT("/:block_id", s.routers.UpdateBlock)
			blocks.DELETE("/:block_id", s.routers.DeleteBlock)
			blocks.POST("/:block_id/move", s.routers.MoveBlock)
			blocks.GET("/:block_id/image", s.routers.GetImageBlock)
			blocks.POST("/:block_id/image", s.routers.SelectImage)
			blocks.PUT("/:block_id/caption", s.routers.EditImageCaption)
			blocks.POST("/:block_id/settings/:name", s.routers.ToggleImageSetting)
		}

		modal := sessions.Group("/:session_id/modal")
		{
			modal.GET("", s.routers.GetModal)
			modal.DELETE("", s.routers.CloseModal)
			modal.PUT("/tab", s.routers.SelectModalTab)
			modal.POST("/library/refresh", s.routers.RefreshModalLibrary)
			modal.PUT("/caption", s.routers.SetModalCaption)
			modal.POST("/file", s.routers.SelectModalFile)
			modal.POST("/asset", s.routers.ToggleModalAsset)
			modal.PUT("/url", s.routers.SetModalURL)
			modal.POST("/submit", s.routers.SubmitModal)
		}
	}

	media := api.Group("/media")
	{
		media.GET("", s.routers.ListMedia)
		media.POST("/images", s.routers.UploadImage)
		media.POST("/videos", s.routers.UploadVideo)
		media.POST("/bulk", s.routers.BulkUpload)
		media.DELETE("/*", s.routers.DeleteMedia)
	}

	posts := api.Group("/posts")
	{
		posts.GET("", s.routers.ListPosts)
		posts.GET("/:slug/rendered", s.routers.GetRenderedPost)
	}
}
