package http

import (
	"context"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"blogdesk/internal/domain/models"
	"blogdesk/internal/metrics"
	"blogdesk/internal/transport/http/dto"
	"blogdesk/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// ListMedia godoc
// @Summary Список файлов медиахранилища
// @Description Постраничный листинг. nextToken передаётся как continuation_token.
// @Tags media
// @Produce json
// @Param folder query string false "Папка" Enums(images, videos, files)
// @Param limit query int false "Размер страницы"
// @Param continuation_token query string false "Токен следующей страницы"
// @Success 200 {object} response.Response{data=models.AssetPage}
// @Failure 400 {object} response.ErrorResponse "Неверные параметры"
// @Failure 502 {object} response.ErrorResponse "Медиасервис недоступен"
// @Router /api/v1/media [get]
func (r *Routers) ListMedia(c echo.Context) error {
	const op = "http.routers.ListMedia"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.ListMediaRequest
	if err := bind(c, &req); err != nil {
		return r.badRequest(c, log, err)
	}

	page, err := r.MediaService.ListAssets(c.Request().Context(), req.Options())
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(page))
}

// UploadImage godoc
// @Summary Загрузка изображения
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Изображение"
// @Success 201 {object} response.Response{data=models.UploadResult}
// @Failure 400 {object} response.ErrorResponse "Файл не выбран"
// @Failure 413 {object} response.ErrorResponse "Файл слишком большой"
// @Failure 415 {object} response.ErrorResponse "Не изображение"
// @Failure 502 {object} response.ErrorResponse "Медиасервис отклонил загрузку"
// @Router /api/v1/media/images [post]
func (r *Routers) UploadImage(c echo.Context) error {
	return r.upload(c, "http.routers.UploadImage", "image", r.MediaService.UploadImage)
}

// UploadVideo godoc
// @Summary Загрузка видео
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Видео"
// @Success 201 {object} response.Response{data=models.UploadResult}
// @Failure 400 {object} response.ErrorResponse "Файл не выбран"
// @Failure 502 {object} response.ErrorResponse "Медиасервис отклонил загрузку"
// @Router /api/v1/media/videos [post]
func (r *Routers) UploadVideo(c echo.Context) error {
	return r.upload(c, "http.routers.UploadVideo", "video", r.MediaService.UploadVideo)
}

type uploadFunc func(ctx context.Context, file *multipart.FileHeader) (*models.UploadResult, error)

func (r *Routers) upload(c echo.Context, op, kind string, fn uploadFunc) error {
	log := r.log.With(
		slog.String("op", op),
	)

	file, err := c.FormFile("file")
	if err != nil {
		log.Warn("file not provided", slog.String("error", err.Error()))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails(response.CodeInvalidRequest, "file is required"))
	}

	result, err := fn(c.Request().Context(), file)
	metrics.MediaUploadsTotal.WithLabelValues(kind, metrics.Result(err)).Inc()
	if err != nil {
		return r.fail(c, log, err)
	}

	log.Info("media uploaded",
		slog.String("kind", kind),
		slog.String("filename", file.Filename),
		slog.String("url", result.File.URL),
	)

	return c.JSON(http.StatusCreated, response.SuccessResponse(result))
}

// BulkUpload godoc
// @Summary Пакетная загрузка изображений
// @Description Файлы загружаются независимо, ошибка одного не прерывает остальные.
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Изображения"
// @Success 200 {object} response.Response{data=models.BulkUploadReport}
// @Failure 400 {object} response.ErrorResponse "Файлы не выбраны"
// @Router /api/v1/media/bulk [post]
func (r *Routers) BulkUpload(c echo.Context) error {
	const op = "http.routers.BulkUpload"

	log := r.log.With(
		slog.String("op", op),
	)

	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		log.Warn("files not provided")
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails(response.CodeInvalidRequest, "files are required"))
	}

	report := r.MediaService.BulkUpload(c.Request().Context(), form.File["files"])
	metrics.MediaUploadsTotal.WithLabelValues("image", "ok").Add(float64(report.Succeeded))
	metrics.MediaUploadsTotal.WithLabelValues("image", "error").Add(float64(report.Failed))

	log.Info("bulk upload finished", slog.Int("succeeded", report.Succeeded), slog.Int("failed", report.Failed))

	return c.JSON(http.StatusOK, response.SuccessResponse(report))
}

// DeleteMedia godoc
// @Summary Удаление файла
// @Tags media
// @Produce json
// @Param key path string true "Ключ файла, например images/abc.png"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Неверный ключ"
// @Failure 404 {object} response.ErrorResponse "Файл не найден"
// @Failure 502 {object} response.ErrorResponse "Медиасервис отклонил удаление"
// @Router /api/v1/media/{key} [delete]
func (r *Routers) DeleteMedia(c echo.Context) error {
	const op = "http.routers.DeleteMedia"

	key := strings.TrimPrefix(c.Param("*"), "/")
	log := r.log.With(
		slog.String("op", op),
		slog.String("key", key),
	)

	if err := r.MediaService.DeleteAsset(c.Request().Context(), key); err != nil {
		return r.fail(c, log, err)
	}

	log.Info("media deleted")

	return c.JSON(http.StatusOK, response.MessageResponse("file deleted"))
}
