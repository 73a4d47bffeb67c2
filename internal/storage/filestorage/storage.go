package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"blogdesk/internal/domain/models"
	"blogdesk/internal/storage"

	"github.com/google/uuid"
)

// Папки медиатеки по типу файла.
var folders = map[models.MediaType]string{
	models.MediaTypeImage: "images",
	models.MediaTypeVideo: "videos",
	models.MediaTypeFile:  "files",
}

// LocalFileStorage медиахранилище на локальном диске. Ключ файла равен пути
// относительно baseDir, например images/2f1c..._cat.png.
type LocalFileStorage struct {
	baseDir string // Базовый каталог для хранения (например: "./uploads")
	baseURL string // Базовый URL для доступа к файлам (например: "http://localhost:8080/uploads")
}

func NewLocalFileStorage(baseDir, baseURL string) (*LocalFileStorage, error) {
	// Создаем директорию, если она не существует
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalFileStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalFileStorage) UploadImage(ctx context.Context, file *multipart.FileHeader) (*models.UploadResult, error) {
	return s.upload(ctx, file, models.MediaTypeImage)
}

func (s *LocalFileStorage) UploadVideo(ctx context.Context, file *multipart.FileHeader) (*models.UploadResult, error) {
	return s.upload(ctx, file, models.MediaTypeVideo)
}

func (s *LocalFileStorage) upload(ctx context.Context, file *multipart.FileHeader, typ models.MediaType) (*models.UploadResult, error) {
	name := uuid.NewString() + "_" + cleanName(file.Filename)

	key, size, err := s.save(ctx, file, folders[typ], name)
	if err != nil {
		return nil, err
	}

	return &models.UploadResult{
		Success: true,
		File: models.UploadedFile{
			Key:  key,
			URL:  s.URL(key),
			Size: size,
			Type: typ,
		},
	}, nil
}

func (s *LocalFileStorage) save(ctx context.Context, file *multipart.FileHeader, subPath, name string) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	filePath := filepath.Join(s.baseDir, subPath, name)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create directories: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", 0, fmt.Errorf("failed to open source file: %w", err)
	}
	defer src.Close()

	// Создаем целевой файл
	dst, err := os.Create(filePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	done := make(chan struct{})
	var size int64
	var copyErr error

	go func() {
		size, copyErr = io.Copy(dst, src)
		close(done)
	}()

	select {
	case <-done:
		if copyErr != nil {
			_ = os.Remove(filePath)
			return "", 0, fmt.Errorf("failed to copy file: %w", copyErr)
		}
	case <-ctx.Done():
		<-done
		_ = os.Remove(filePath)
		return "", 0, ctx.Err()
	}

	return path.Join(subPath, name), size, nil
}

// ListAssets отдаёт файлы, отсортированные по ключу. ContinuationToken задаёт ключ,
// после которого начинается страница.
func (s *LocalFileStorage) ListAssets(ctx context.Context, opts models.ListOptions) (*models.AssetPage, error) {
	root := s.baseDir
	if opts.Folder != "" {
		if _, err := s.resolve(opts.Folder); err != nil {
			return nil, err
		}
		root = filepath.Join(s.baseDir, opts.Folder)
	}

	var assets []models.MediaAsset

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return fs.SkipDir
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(s.baseDir, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if key <= opts.ContinuationToken {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		assets = append(assets, s.asset(key, info))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	sort.Slice(assets, func(i, j int) bool { return assets[i].Key < assets[j].Key })

	page := &models.AssetPage{Success: true, Files: assets}
	if opts.Limit > 0 && len(assets) > opts.Limit {
		page.Files = assets[:opts.Limit]
		page.NextToken = page.Files[opts.Limit-1].Key
	}
	if page.Files == nil {
		page.Files = []models.MediaAsset{}
	}

	return page, nil
}

// DeleteAsset удаляет файл по ключу.
func (s *LocalFileStorage) DeleteAsset(ctx context.Context, key string) (*models.DeleteResult, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", storage.ErrFileNotFound, key)
		}
		return nil, err
	}

	return &models.DeleteResult{Success: true, Message: "File deleted"}, nil
}

// URL возвращает публичный адрес файла
func (s *LocalFileStorage) URL(key string) string {
	return s.baseURL + "/" + key
}

// GetBaseDir каталог, который раздаётся как статика.
func (s *LocalFileStorage) GetBaseDir() string {
	return s.baseDir
}

// resolve переводит ключ в путь на диске и не даёт выйти за пределы baseDir.
func (s *LocalFileStorage) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if key == "" || clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", storage.ErrInvalidKey, key)
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func (s *LocalFileStorage) asset(key string, info fs.FileInfo) models.MediaAsset {
	typ := models.MediaTypeFile
	for t, folder := range folders {
		if strings.HasPrefix(key, folder+"/") {
			typ = t
		}
	}

	return models.MediaAsset{
		Key:          key,
		URL:          s.URL(key),
		Size:         info.Size(),
		Type:         typ,
		Extension:    strings.TrimPrefix(strings.ToLower(path.Ext(key)), "."),
		LastModified: info.ModTime().UTC(),
	}
}

func cleanName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '-'
		case r < 0x20, r == '/', r == '"', r == '\'':
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." {
		return "file"
	}
	return name
}
