package services_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"blogdesk/internal/content"
	"blogdesk/internal/domain/models"
	services "blogdesk/internal/services/media_service"
	"blogdesk/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMediaClient struct {
	mock.Mock
}

func (m *MockMediaClient) ListAssets(ctx context.Context, opts models.ListOptions) (*models.AssetPage, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssetPage), args.Error(1)
}

func (m *MockMediaClient) UploadImage(ctx context.Context, file *multipart.FileHeader) (*models.UploadResult, error) {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UploadResult), args.Error(1)
}

func (m *MockMediaClient) UploadVideo(ctx context.Context, file *multipart.FileHeader) (*models.UploadResult, error) {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UploadResult), args.Error(1)
}

func (m *MockMediaClient) DeleteAsset(ctx context.Context, key string) (*models.DeleteResult, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeleteResult), args.Error(1)
}

var pngHeader = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00"

// createTestFile собирает multipart-файл так же, как его получает echo.
// Пустой contentType: браузер не передал тип.
func createTestFile(t *testing.T, filename, contentType, body string) *multipart.FileHeader {
	t.Helper()

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)

	_, err = part.Write([]byte(body))
	require.NoError(t, err)

	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	file, header, err := req.FormFile("file")
	require.NoError(t, err)
	file.Close()

	if contentType != "" {
		header.Header.Set("Content-Type", contentType)
	}

	return header
}

func newService(client services.MediaClient) *services.MediaService {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))
	return services.NewMediaService(log, client, time.Minute, models.MaxImageSize)
}

func TestMediaService_ValidateImage(t *testing.T) {
	service := newService(new(MockMediaClient))

	oversized := createTestFile(t, "big.png", "image/png", pngHeader)
	oversized.Size = 6 * 1024 * 1024

	tests := []struct {
		name    string
		file    *multipart.FileHeader
		wantErr bool
		cause   error
	}{
		{"declared image", createTestFile(t, "cat.jpg", "image/jpeg", "jpeg bytes"), false, nil},
		{"sniffed png", createTestFile(t, "cat.bin", "", pngHeader), false, nil},
		{"plain text", createTestFile(t, "notes.txt", "", "just some words"), true, storage.ErrInvalidFileType},
		{"declared pdf", createTestFile(t, "doc.pdf", "application/pdf", "%PDF-1.4"), true, storage.ErrInvalidFileType},
		{"oversized", oversized, true, storage.ErrFileTooLarge},
		{"no file", nil, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.ValidateImage(tt.file)
			if tt.wantErr {
				assert.True(t, content.IsValidationError(err))
				if tt.cause != nil {
					assert.ErrorIs(t, err, tt.cause)
				}
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestMediaService_UploadImage(t *testing.T) {
	ctx := context.Background()

	t.Run("successful upload invalidates library cache", func(t *testing.T) {
		client := new(MockMediaClient)
		service := newService(client)
		file := createTestFile(t, "cat.png", "image/png", pngHeader)

		client.On("ListAssets", ctx, models.ListOptions{Limit: models.DefaultLibraryPageSize}).
			Return(&models.AssetPage{Success: true, Files: []models.MediaAsset{{Key: "images/a.png"}}}, nil).Twice()
		client.On("UploadImage", ctx, file).Return(&models.UploadResult{
			Success: true,
			File:    models.UploadedFile{Key: "images/cat.png", URL: "https://cdn/images/cat.png"},
		}, nil).Once()

		_, err := service.LibraryImages(ctx)
		require.NoError(t, err)
		_, err = service.LibraryImages(ctx)
		require.NoError(t, err)
		client.AssertNumberOfCalls(t, "ListAssets", 1)

		result, err := service.UploadImage(ctx, file)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn/images/cat.png", result.File.URL)

		_, err = service.LibraryImages(ctx)
		require.NoError(t, err)
		client.AssertNumberOfCalls(t, "ListAssets", 2)
		client.AssertExpectations(t)
	})

	t.Run("rejected upload", func(t *testing.T) {
		client := new(MockMediaClient)
		service := newService(client)
		file := createTestFile(t, "cat.png", "image/png", pngHeader)

		client.On("UploadImage", ctx, file).
			Return(&models.UploadResult{Success: false, Message: "quota exceeded"}, nil).Once()

		_, err := service.UploadImage(ctx, file)
		assert.ErrorIs(t, err, services.ErrUploadRejected)
		assert.ErrorContains(t, err, "quota exceeded")
	})

	t.Run("invalid file never reaches the backend", func(t *testing.T) {
		client := new(MockMediaClient)
		service := newService(client)

		_, err := service.UploadImage(ctx, createTestFile(t, "notes.txt", "text/plain", "hello"))
		assert.True(t, content.IsValidationError(err))
		client.AssertNotCalled(t, "UploadImage", mock.Anything, mock.Anything)
	})
}

func TestMediaService_ListAll(t *testing.T) {
	ctx := context.Background()

	t.Run("follows continuation tokens", func(t *testing.T) {
		client := new(MockMediaClient)
		service := newService(client)

		client.On("ListAssets", ctx, models.ListOptions{Folder: "images", Limit: 50}).
			Return(&models.AssetPage{Files: []models.MediaAsset{{Key: "images/1.png"}}, NextToken: "t1"}, nil).Once()
		client.On("ListAssets", ctx, models.ListOptions{Folder: "images", Limit: 50, ContinuationToken: "t1"}).
			Return(&models.AssetPage{Files: []models.MediaAsset{{Key: "images/2.png"}}}, nil).Once()

		assets, err := service.ListAll(ctx, "images")
		require.NoError(t, err)
		require.Len(t, assets, 2)
		assert.Equal(t, "images/2.png", assets[1].Key)
		client.AssertExpectations(t)
	})

	t.Run("repeated token", func(t *testing.T) {
		client := new(MockMediaClient)
		service := newService(client)

		client.On("ListAssets", ctx, mock.AnythingOfType("models.ListOptions")).
			Return(&models.AssetPage{NextToken: "same"}, nil)

		_, err := service.ListAll(ctx, "")
		assert.ErrorIs(t, err, services.ErrPaginationLoop)
	})

	t.Run("backend failure", func(t *testing.T) {
		client := new(MockMediaClient)
		service := newService(client)

		client.On("ListAssets", ctx, mock.AnythingOfType("models.ListOptions")).
			Return(nil, errors.New("connection refused")).Once()

		_, err := service.LibraryImages(ctx)
		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestMediaService_DeleteAsset(t *testing.T) {
	ctx := context.Background()
	client := new(MockMediaClient)
	service := newService(client)

	client.On("DeleteAsset", ctx, "images/a.png").Return(&models.DeleteResult{Success: true}, nil).Once()
	client.On("DeleteAsset", ctx, "images/missing.png").Return(&models.DeleteResult{Success: false, Message: "not found"}, nil).Once()

	require.NoError(t, service.DeleteAsset(ctx, "images/a.png"))
	assert.ErrorIs(t, service.DeleteAsset(ctx, "images/missing.png"), services.ErrDeleteRejected)
}

func TestMediaService_BulkUpload(t *testing.T) {
	ctx := context.Background()
	client := new(MockMediaClient)
	service := newService(client)

	image := createTestFile(t, "a.png", "image/png", pngHeader)
	video := createTestFile(t, "clip.mp4", "video/mp4", "mp4 bytes")
	broken := createTestFile(t, "b.png", "image/png", pngHeader)

	client.On("UploadImage", ctx, image).Return(&models.UploadResult{
		Success: true, File: models.UploadedFile{URL: "https://cdn/images/a.png"},
	}, nil).Once()
	client.On("UploadVideo", ctx, video).Return(&models.UploadResult{
		Success: true, File: models.UploadedFile{URL: "https://cdn/videos/clip.mp4"},
	}, nil).Once()
	client.On("UploadImage", ctx, broken).Return(nil, errors.New("storage unavailable")).Once()

	report := service.BulkUpload(ctx, []*multipart.FileHeader{image, video, broken})

	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Items, 3)
	assert.Equal(t, "clip.mp4", report.Items[1].Filename)
	assert.NotNil(t, report.Items[1].Result)
	assert.Contains(t, report.Items[2].Error, "storage unavailable")
	client.AssertExpectations(t)
}

func TestMediaService_BulkUploadCancelled(t *testing.T) {
	client := new(MockMediaClient)
	service := newService(client)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := service.BulkUpload(ctx, []*multipart.FileHeader{
		createTestFile(t, "a.png", "image/png", pngHeader),
		createTestFile(t, "b.png", "image/png", pngHeader),
	})

	assert.Equal(t, 0, report.Succeeded)
	assert.Equal(t, 2, report.Failed)
	client.AssertNotCalled(t, "UploadImage", mock.Anything, mock.Anything)
}
