// Package mediaapi REST-клиент медиасервиса.
package mediaapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"blogdesk/internal/domain/models"
	"blogdesk/internal/lib/logger/sl"
	"blogdesk/internal/storage"
)

// ErrRequestFailed оборачивает любой не-2xx ответ медиасервиса.
var ErrRequestFailed = errors.New("media service request failed")

type Client struct {
	log     *slog.Logger
	baseURL string
	http    *http.Client
}

// New возвращает клиент для baseURL, например http://127.0.0.1:8000/api/v1/api/media.
func New(log *slog.Logger, baseURL string, timeout time.Duration) *Client {
	return &Client{
		log:     log,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) ListAssets(ctx context.Context, opts models.ListOptions) (*models.AssetPage, error) {
	const op = "mediaapi.Client.ListAssets"

	q := url.Values{}
	if opts.Folder != "" {
		q.Set("folder", opts.Folder)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.ContinuationToken != "" {
		q.Set("continuation_token", opts.ContinuationToken)
	}

	endpoint := c.baseURL + "/list"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var page models.AssetPage
	if err := c.do(req, &page, "Failed to fetch media"); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &page, nil
}

func (c *Client) UploadImage(ctx context.Context, file *multipart.FileHeader) (*models.UploadResult, error) {
	return c.upload(ctx, "image", file)
}

func (c *Client) UploadVideo(ctx context.Context, file *multipart.FileHeader) (*models.UploadResult, error) {
	return c.upload(ctx, "video", file)
}

func (c *Client) DeleteAsset(ctx context.Context, key string) (*models.DeleteResult, error) {
	const op = "mediaapi.Client.DeleteAsset"

	if key == "" {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/"+url.PathEscape(key), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result models.DeleteResult
	if err := c.do(req, &result, "Failed to delete media"); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &result, nil
}

func (c *Client) upload(ctx context.Context, kind string, file *multipart.FileHeader) (*models.UploadResult, error) {
	op := "mediaapi.Client.Upload/" + kind

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		defer src.Close()

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(file.Filename)))
		if ct := file.Header.Get("Content-Type"); ct != "" {
			h.Set("Content-Type", ct)
		} else {
			h.Set("Content-Type", "application/octet-stream")
		}

		part, err := form.CreatePart(h)
		if err == nil {
			_, err = io.Copy(part, src)
		}
		if err == nil {
			err = form.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload/"+kind, pr)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var result models.UploadResult
	if err := c.do(req, &result, "Failed to upload "+kind); err != nil {
		pr.CloseWithError(err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.log.Debug("file uploaded",
		slog.String("op", op),
		slog.String("filename", file.Filename),
		slog.Bool("success", result.Success),
	)

	return &result, nil
}

// do отправляет req и декодирует JSON-ответ в out. Причина ошибки приходит
// в "message".
func (c *Client) do(req *http.Request, out any, fallback string) error {
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("media service unreachable", slog.String("url", req.URL.Redacted()), sl.Err(err))
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var e struct {
			Message string `json:"message"`
		}
		msg := fallback
		if json.Unmarshal(body, &e) == nil && e.Message != "" {
			msg = e.Message
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", storage.ErrFileNotFound, msg)
		}
		return fmt.Errorf("%w: %d: %s", ErrRequestFailed, resp.StatusCode, msg)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
