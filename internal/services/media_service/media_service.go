package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"blogdesk/internal/content"
	"blogdesk/internal/domain/models"
	"blogdesk/internal/lib/logger/sl"
	"blogdesk/internal/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/patrickmn/go-cache"
)

var (
	ErrUploadRejected = errors.New("upload rejected by media service")
	ErrDeleteRejected = errors.New("delete rejected by media service")
	ErrPaginationLoop = errors.New("media listing returned a repeated continuation token")
)

const libraryCacheKey = "library:all"

// MediaClient медиа-бэкенд: REST API, MinIO или локальный диск.
type MediaClient interface {
	ListAssets(ctx context.Context, opts models.ListOptions) (*models.AssetPage, error)
	UploadImage(ctx context.Context, file *multipart.FileHeader) (*models.UploadResult, error)
	UploadVideo(ctx context.Context, file *multipart.FileHeader) (*models.UploadResult, error)
	DeleteAsset(ctx context.Context, key string) (*models.DeleteResult, error)
}

// MediaService превращает действия пользователя (загрузка файла, выбор из
// медиатеки) в изображения для редактора.
type MediaService struct {
	log          *slog.Logger
	client       MediaClient
	cache        *cache.Cache
	maxImageSize int64
	pageSize     int
}

func NewMediaService(log *slog.Logger, client MediaClient, cacheTTL time.Duration, maxImageSize int64) *MediaService {
	if maxImageSize <= 0 {
		maxImageSize = models.MaxImageSize
	}

	return &MediaService{
		log:          log,
		client:       client,
		cache:        cache.New(cacheTTL, 2*cacheTTL),
		maxImageSize: maxImageSize,
		pageSize:     models.DefaultLibraryPageSize,
	}
}

// ValidateImage проверяет файл до любого сетевого вызова: тип image/* и
// размер не больше лимита. Если тип не указан, он определяется по содержимому.
func (s *MediaService) ValidateImage(file *multipart.FileHeader) error {
	if file == nil {
		return content.NewValidationError("file", "Please select an image file to upload")
	}

	if !strings.HasPrefix(DetectContentType(file), "image/") {
		return &content.ValidationError{Field: "file", Reason: "Please select an image file", Cause: storage.ErrInvalidFileType}
	}

	if file.Size > s.maxImageSize {
		return &content.ValidationError{
			Field:  "file",
			Reason: fmt.Sprintf("Image must be less than %dMB", s.maxImageSize/(1024*1024)),
			Cause:  storage.ErrFileTooLarge,
		}
	}

	return nil
}

// DetectContentType возвращает заявленный Content-Type, а для пустого или
// application/octet-stream тип, определённый по первым байтам файла.
func DetectContentType(file *multipart.FileHeader) string {
	declared := file.Header.Get("Content-Type")
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}

	f, err := file.Open()
	if err != nil {
		return declared
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return declared
	}
	return mt.String()
}

func (s *MediaService) UploadImage(ctx context.Context, file *multipart.FileHeader) (*models.UploadResult, error) {
	const op = "media_service.UploadImage"

	if err := s.ValidateImage(file); err != nil {
		return nil, err
	}

	log := s.log.With(
		slog.String("op", op),
		slog.String("filename", file.Filename),
		slog.Int64("size", file.Size),
	)

	log.Info("upload image")

	result, err := s.client.UploadImage(ctx, file)
	if err != nil {
		log.Error("failed to upload image", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !result.Success || result.File.URL == "" {
		log.Error("upload rejected", slog.String("message", result.Message))

		return nil, fmt.Errorf("%s: %w: %s", op, ErrUploadRejected, result.Message)
	}

	s.cache.Delete(libraryCacheKey)

	return result, nil
}

func (s *MediaService) UploadVideo(ctx context.Context, file *multipart.FileHeader) (*models.UploadResult, error) {
	const op = "media_service.UploadVideo"

	log := s.log.With(
		slog.String("op", op),
		slog.String("filename", file.Filename),
	)

	result, err := s.client.UploadVideo(ctx, file)
	if err != nil {
		log.Error("failed to upload video", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !result.Success {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrUploadRejected, result.Message)
	}

	s.cache.Delete(libraryCacheKey)

	return result, nil
}

// ListAssets возвращает одну страницу медиатеки.
func (s *MediaService) ListAssets(ctx context.Context, opts models.ListOptions) (*models.AssetPage, error) {
	const op = "media_service.ListAssets"

	if opts.Limit <= 0 {
		opts.Limit = s.pageSize
	}

	page, err := s.client.ListAssets(ctx, opts)
	if err != nil {
		s.log.Error("failed to list media", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return page, nil
}

// ListAll проходит все страницы листинга папки.
func (s *MediaService) ListAll(ctx context.Context, folder string) ([]models.MediaAsset, error) {
	const op = "media_service.ListAll"

	var (
		assets []models.MediaAsset
		token  string
		seen   = make(map[string]struct{})
	)

	for {
		page, err := s.ListAssets(ctx, models.ListOptions{
			Folder:            folder,
			Limit:             s.pageSize,
			ContinuationToken: token,
		})
		if err != nil {
			return nil, err
		}

		assets = append(assets, page.Files...)

		if page.NextToken == "" {
			return assets, nil
		}
		if _, dup := seen[page.NextToken]; dup {
			return nil, fmt.Errorf("%s: %w", op, ErrPaginationLoop)
		}
		seen[page.NextToken] = struct{}{}
		token = page.NextToken
	}
}

// LibraryImages возвращает все файлы медиатеки. Результат кешируется до
// следующей загрузки или удаления.
func (s *MediaService) LibraryImages(ctx context.Context) ([]models.MediaAsset, error) {
	if cached, ok := s.cache.Get(libraryCacheKey); ok {
		return cached.([]models.MediaAsset), nil
	}

	assets, err := s.ListAll(ctx, "")
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(libraryCacheKey, assets)

	return assets, nil
}

func (s *MediaService) DeleteAsset(ctx context.Context, key string) error {
	const op = "media_service.DeleteAsset"

	log := s.log.With(
		slog.String("op", op),
		slog.String("key", key),
	)

	result, err := s.client.DeleteAsset(ctx, key)
	if err != nil {
		log.Error("failed to delete media", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	if !result.Success {
		return fmt.Errorf("%s: %w: %s", op, ErrDeleteRejected, result.Message)
	}

	s.cache.Delete(libraryCacheKey)

	log.Info("media deleted")

	return nil
}

// BulkUpload загружает файлы по одному: video/* как видео, остальное как
// изображения. Ошибка одного файла не прерывает загрузку остальных.
func (s *MediaService) BulkUpload(ctx context.Context, files []*multipart.FileHeader) models.BulkUploadReport {
	const op = "media_service.BulkUpload"

	log := s.log.With(
		slog.String("op", op),
		slog.Int("files", len(files)),
	)

	report := models.BulkUploadReport{Items: make([]models.BulkUploadItem, 0, len(files))}

	for _, file := range files {
		item := models.BulkUploadItem{Filename: file.Filename}

		var (
			result *models.UploadResult
			err    error
		)

		if err = ctx.Err(); err == nil {
			if strings.HasPrefix(DetectContentType(file), "video/") {
				result, err = s.UploadVideo(ctx, file)
			} else {
				result, err = s.UploadImage(ctx, file)
			}
		}

		if err != nil {
			log.Warn("failed to upload file", slog.String("filename", file.Filename), sl.Err(err))

			item.Error = err.Error()
			report.Failed++
		} else {
			item.Result = result
			report.Succeeded++
		}

		report.Items = append(report.Items, item)
	}

	log.Info("bulk upload finished",
		slog.Int("succeeded", report.Succeeded),
		slog.Int("failed", report.Failed),
	)

	return report
}
