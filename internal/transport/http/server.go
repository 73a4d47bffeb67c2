package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"mime/multipart"
	"net/http"

	"blogdesk/internal/clients/blogapi"
	"blogdesk/internal/clients/mediaapi"
	"blogdesk/internal/content"
	"blogdesk/internal/domain/models"
	"blogdesk/internal/editor"
	"blogdesk/internal/lib/logger/sl"
	blogsvc "blogdesk/internal/services/blog_service"
	editorsvc "blogdesk/internal/services/editor_service"
	mediasvc "blogdesk/internal/services/media_service"
	rendersvc "blogdesk/internal/services/render_service"
	"blogdesk/internal/storage"
	"blogdesk/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"

	_ "blogdesk/docs"
)

type EditorService interface {
	Open(ctx context.Context, idOrSlug string) (*editorsvc.Session, error)
	Get(id string) (*editorsvc.Session, error)
	Save(ctx context.Context, id string) (*models.Post, error)
	Close(id string) error
}

type MediaService interface {
	ListAssets(ctx context.Context, opts models.ListOptions) (*models.AssetPage, error)
	UploadImage(ctx context.Context, file *multipart.FileHeader) (*models.UploadResult, error)
	UploadVideo(ctx context.Context, file *multipart.FileHeader) (*models.UploadResult, error)
	DeleteAsset(ctx context.Context, key string) error
	BulkUpload(ctx context.Context, files []*multipart.FileHeader) models.BulkUploadReport
}

type BlogService interface {
	ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error)
}

type RenderService interface {
	RenderPost(ctx context.Context, idOrSlug string) (*rendersvc.RenderedPost, error)
	Preview(doc models.BlockDocument) template.HTML
	Invalidate(ctx context.Context, slug string)
}

type Routers struct {
	log           *slog.Logger
	EditorService EditorService
	MediaService  MediaService
	BlogService   BlogService
	RenderService RenderService
}

func NewRouter(log *slog.Logger, editorService EditorService, mediaService MediaService, blogService BlogService, renderService RenderService) *Routers {
	return &Routers{
		log:           log,
		EditorService: editorService,
		MediaService:  mediaService,
		BlogService:   blogService,
		RenderService: renderService,
	}
}

// Health godoc
// @Summary Проверка доступности сервиса
// @Tags system
// @Produce json
// @Success 200 {object} response.Response
// @Router /health [get]
func (r *Routers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, response.MessageResponse("ok"))
}

type errorMapping struct {
	target error
	status int
	code   string
}

// Порядок важен: ошибки валидации загрузки несут и ErrValidation, и причину.
var errorMappings = []errorMapping{
	{storage.ErrFileTooLarge, http.StatusRequestEntityTooLarge, response.CodeFileTooLarge},
	{storage.ErrInvalidFileType, http.StatusUnsupportedMediaType, response.CodeUnsupportedMedia},
	{content.ErrValidation, http.StatusBadRequest, response.CodeValidation},

	{editorsvc.ErrSessionNotFound, http.StatusNotFound, response.CodeNotFound},
	{editor.ErrBlockNotFound, http.StatusNotFound, response.CodeNotFound},
	{storage.ErrPostNotFound, http.StatusNotFound, response.CodeNotFound},
	{storage.ErrFileNotFound, http.StatusNotFound, response.CodeNotFound},

	{editor.ErrUnknownTool, http.StatusBadRequest, response.CodeInvalidRequest},
	{editor.ErrIndexOutOfRange, http.StatusBadRequest, response.CodeInvalidRequest},
	{editor.ErrUnknownTab, http.StatusBadRequest, response.CodeInvalidRequest},
	{editor.ErrUnknownSetting, http.StatusBadRequest, response.CodeInvalidRequest},
	{editor.ErrNotImageBlock, http.StatusBadRequest, response.CodeInvalidRequest},
	{storage.ErrInvalidKey, http.StatusBadRequest, response.CodeInvalidRequest},
	{storage.ErrUnknownTaxonomy, http.StatusBadRequest, response.CodeInvalidRequest},

	{storage.ErrSlugConflict, http.StatusConflict, response.CodeConflict},
	{blogsvc.ErrContentUnavailable, http.StatusConflict, response.CodeConflict},
	{editor.ErrNoEngine, http.StatusConflict, response.CodeConflict},
	{editor.ErrEngineDestroyed, http.StatusConflict, response.CodeConflict},
	{editor.ErrImageRequestPending, http.StatusConflict, response.CodeConflict},
	{editor.ErrNoImageRequest, http.StatusConflict, response.CodeConflict},
	{editor.ErrStaleImageRequest, http.StatusConflict, response.CodeConflict},
	{editor.ErrTargetGone, http.StatusConflict, response.CodeConflict},
	{editor.ErrReadOnly, http.StatusConflict, response.CodeConflict},
	{editor.ErrImageImmutable, http.StatusConflict, response.CodeConflict},
	{editor.ErrImageEmpty, http.StatusConflict, response.CodeConflict},
	{editor.ErrModalOpen, http.StatusConflict, response.CodeConflict},
	{editor.ErrModalClosed, http.StatusConflict, response.CodeConflict},
	{editor.ErrModalBusy, http.StatusConflict, response.CodeConflict},

	{mediasvc.ErrUploadRejected, http.StatusBadGateway, response.CodeUpstream},
	{mediasvc.ErrDeleteRejected, http.StatusBadGateway, response.CodeUpstream},
	{mediasvc.ErrPaginationLoop, http.StatusBadGateway, response.CodeUpstream},
	{mediaapi.ErrRequestFailed, http.StatusBadGateway, response.CodeUpstream},
	{blogapi.ErrRequestFailed, http.StatusBadGateway, response.CodeUpstream},
}

// fail переводит доменную ошибку в HTTP-ответ. Неизвестные ошибки логируются
// и отдаются как 500 без подробностей.
func (r *Routers) fail(c echo.Context, log *slog.Logger, err error) error {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}

		if m.status >= http.StatusInternalServerError {
			log.Error("collaborator failed", sl.Err(err))
		} else {
			log.Warn("request rejected", slog.Int("status", m.status), sl.Err(err))
		}

		var verr *content.ValidationError
		if errors.As(err, &verr) {
			return c.JSON(m.status, response.ErrorResponse{
				Status:  "error",
				Error:   m.code,
				Field:   verr.Field,
				Details: verr.Reason,
			})
		}

		return c.JSON(m.status, response.ErrorResponseWithDetails(m.code, err.Error()))
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		log.Warn("request cancelled", sl.Err(err))
		return c.JSON(http.StatusGatewayTimeout, response.ErrorResponseWithDetails(response.CodeUpstream, err.Error()))
	}

	log.Error("internal error", sl.Err(err))
	return c.JSON(http.StatusInternalServerError, response.ErrInternal)
}

var errInvalidFormat = errors.New("invalid request format")

// bind разбирает параметры и тело запроса и валидирует их.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: %v", errInvalidFormat, err)
	}

	return c.Validate(req)
}

func (r *Routers) badRequest(c echo.Context, log *slog.Logger, err error) error {
	log.Warn("invalid request", sl.Err(err))

	if errors.Is(err, errInvalidFormat) {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails(response.CodeValidation, err.Error()))
}
