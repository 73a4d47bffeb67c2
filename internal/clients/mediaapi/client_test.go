package mediaapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blogdesk/internal/domain/models"
	"blogdesk/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), srv.URL+"/api/v1/api/media/", 5*time.Second)
}

func formFile(t *testing.T, name, contentType string, body []byte) *multipart.FileHeader {
	t.Helper()

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	fh := req.MultipartForm.File["file"][0]
	fh.Header.Set("Content-Type", contentType)
	return fh
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_ListAssets(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/api/media/list", r.URL.Path)
		assert.Equal(t, "images", r.URL.Query().Get("folder"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "tok", r.URL.Query().Get("continuation_token"))

		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"files":     []map[string]any{{"key": "images/a.png", "url": "https://cdn/images/a.png", "size": 10}},
			"nextToken": "next",
		})
	})

	page, err := c.ListAssets(context.Background(), models.ListOptions{Folder: "images", Limit: 50, ContinuationToken: "tok"})
	require.NoError(t, err)
	require.Len(t, page.Files, 1)
	assert.Equal(t, "images/a.png", page.Files[0].Key)
	assert.Equal(t, "next", page.NextToken)
}

func TestClient_ListAssetsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "bucket offline"})
	})

	_, err := c.ListAssets(context.Background(), models.ListOptions{})
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.ErrorContains(t, err, "bucket offline")
}

func TestClient_Upload(t *testing.T) {
	tests := []struct {
		name   string
		upload func(*Client, context.Context, *multipart.FileHeader) (*models.UploadResult, error)
		path   string
	}{
		{"image", (*Client).UploadImage, "/api/v1/api/media/upload/image"},
		{"video", (*Client).UploadVideo, "/api/v1/api/media/upload/video"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.path, r.URL.Path)

				f, fh, err := r.FormFile("file")
				if !assert.NoError(t, err) {
					return
				}
				defer f.Close()
				data, _ := io.ReadAll(f)

				assert.Equal(t, "cat.png", fh.Filename)
				assert.Equal(t, "payload", string(data))
				assert.Equal(t, "image/png", fh.Header.Get("Content-Type"))

				writeJSON(w, http.StatusOK, map[string]any{
					"success": true,
					"file":    map[string]any{"key": "images/cat.png", "url": "https://cdn/images/cat.png"},
				})
			})

			result, err := tt.upload(c, context.Background(), formFile(t, "cat.png", "image/png", []byte("payload")))
			require.NoError(t, err)
			assert.True(t, result.Success)
			assert.Equal(t, "https://cdn/images/cat.png", result.File.URL)
		})
	}
}

func TestClient_UploadRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]any{"success": false, "message": "File too large"})
	})

	_, err := c.UploadImage(context.Background(), formFile(t, "big.png", "image/png", []byte("x")))
	assert.ErrorContains(t, err, "File too large")
}

func TestClient_DeleteAsset(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/api/media/images%2Fa%20b.png", r.URL.EscapedPath())

		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	result, err := c.DeleteAsset(context.Background(), "images/a b.png")
	require.NoError(t, err)
	assert.True(t, result.Success)

	_, err = c.DeleteAsset(context.Background(), "")
	assert.ErrorIs(t, err, storage.ErrInvalidKey)
}

func TestClient_DeleteMissing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "no such key"})
	})

	_, err := c.DeleteAsset(context.Background(), "images/gone.png")
	assert.ErrorIs(t, err, storage.ErrFileNotFound)
}
