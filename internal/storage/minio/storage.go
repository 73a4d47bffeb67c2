package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"blogdesk/internal/domain/models"
	"blogdesk/internal/lib/logger/sl"
	"blogdesk/internal/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
	Timeout       time.Duration
}

var ErrNotConfigured = errors.New("minio endpoint or bucket is not configured")

var folders = map[models.MediaType]string{
	models.MediaTypeImage: "images",
	models.MediaTypeVideo: "videos",
	models.MediaTypeFile:  "files",
}

// Storage медиахранилище в S3-совместимом бакете.
type Storage struct {
	log     *slog.Logger
	client  *minio.Client
	bucket  string
	baseURL string
	timeout time.Duration
}

func New(log *slog.Logger, cfg Config) (*Storage, error) {
	const op = "minio.New"

	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:           credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:          cfg.UseSSL,
		TrailingHeaders: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Storage{
		log:     log,
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
		timeout: timeout,
	}, nil
}

// EnsureBucket создаёт бакет, если его ещё нет.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	const op = "minio.Storage.EnsureBucket"

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("bucket created", slog.String("bucket", s.bucket))
	return nil
}

func (s *Storage) UploadImage(ctx context.Context, file *multipart.FileHeader) (*models.UploadResult, error) {
	return s.upload(ctx, file, models.MediaTypeImage)
}

func (s *Storage) UploadVideo(ctx context.Context, file *multipart.FileHeader) (*models.UploadResult, error) {
	return s.upload(ctx, file, models.MediaTypeVideo)
}

func (s *Storage) upload(ctx context.Context, file *multipart.FileHeader, typ models.MediaType) (*models.UploadResult, error) {
	const op = "minio.Storage.upload"

	log := s.log.With(slog.String("op", op), slog.String("filename", file.Filename))

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open source file: %w", op, err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	key := path.Join(folders[typ], uuid.NewString()+"_"+cleanName(file.Filename))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	info, err := s.client.PutObject(ctx, s.bucket, key, src, file.Size, minio.PutObjectOptions{
		ContentType: mtype.String(),
	})
	if err != nil {
		log.Error("failed to put object", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.UploadResult{
		Success: true,
		File: models.UploadedFile{
			Key:  key,
			URL:  s.URL(key),
			Size: info.Size,
			Type: typ,
		},
	}, nil
}

// ListAssets листает бакет по ключам. ContinuationToken задаёт ключ, после
// которого начинается страница.
func (s *Storage) ListAssets(ctx context.Context, opts models.ListOptions) (*models.AssetPage, error) {
	const op = "minio.Storage.ListAssets"

	prefix := ""
	if opts.Folder != "" {
		if strings.Contains(opts.Folder, "..") {
			return nil, fmt.Errorf("%s: %w: %q", op, storage.ErrInvalidKey, opts.Folder)
		}
		prefix = strings.Trim(opts.Folder, "/") + "/"
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	page := &models.AssetPage{Success: true, Files: []models.MediaAsset{}}

	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:     prefix,
		StartAfter: opts.ContinuationToken,
		Recursive:  true,
	})
	for obj := range objects {
		if obj.Err != nil {
			return nil, fmt.Errorf("%s: %w", op, obj.Err)
		}
		if opts.Limit > 0 && len(page.Files) == opts.Limit {
			page.NextToken = page.Files[len(page.Files)-1].Key
			break
		}
		page.Files = append(page.Files, s.asset(obj))
	}

	return page, nil
}

func (s *Storage) DeleteAsset(ctx context.Context, key string) (*models.DeleteResult, error) {
	const op = "minio.Storage.DeleteAsset"

	if key == "" || strings.Contains(key, "..") {
		return nil, fmt.Errorf("%s: %w: %q", op, storage.ErrInvalidKey, key)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// RemoveObject не сообщает об отсутствии ключа.
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%s: %w: %s", op, storage.ErrFileNotFound, key)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.DeleteResult{Success: true, Message: "File deleted"}, nil
}

// URL возвращает публичный адрес объекта
func (s *Storage) URL(key string) string {
	return s.baseURL + "/" + key
}

func (s *Storage) asset(obj minio.ObjectInfo) models.MediaAsset {
	typ := models.MediaTypeFile
	for t, folder := range folders {
		if strings.HasPrefix(obj.Key, folder+"/") {
			typ = t
		}
	}

	return models.MediaAsset{
		Key:          obj.Key,
		URL:          s.URL(obj.Key),
		Size:         obj.Size,
		Type:         typ,
		Extension:    strings.TrimPrefix(strings.ToLower(path.Ext(obj.Key)), "."),
		LastModified: obj.LastModified.UTC(),
	}
}

func cleanName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '-'
		case r < 0x20, r == '"', r == '\'':
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" {
		return "file"
	}
	return name
}
