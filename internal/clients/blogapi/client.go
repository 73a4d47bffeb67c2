// Package blogapi REST-клиент блог-бэкенда.
package blogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"blogdesk/internal/domain/models"
	"blogdesk/internal/lib/logger/sl"
	"blogdesk/internal/storage"
)

var ErrRequestFailed = errors.New("blog backend request failed")

type Client struct {
	log     *slog.Logger
	baseURL string
	http    *http.Client
}

// New возвращает клиент для baseURL, например http://127.0.0.1:8000/api/v1/api.
func New(log *slog.Logger, baseURL string, timeout time.Duration) *Client {
	return &Client{
		log:     log,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// GetPost ищет пост по числовому id, а если это не id, то по slug.
func (c *Client) GetPost(ctx context.Context, idOrSlug string) (*models.Post, error) {
	const op = "blogapi.Client.GetPost"

	path := "/blogs/slug/" + url.PathEscape(idOrSlug)
	if _, err := strconv.ParseInt(idOrSlug, 10, 64); err == nil {
		path = "/blogs/" + idOrSlug
	}

	var post models.Post
	if err := c.do(ctx, http.MethodGet, path, nil, &post); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &post, nil
}

// ListPosts переводит page/per_page в skip/limit бэкенда. Если бэкенд
// отвечает голым массивом, total оценивается по странице.
func (c *Client) ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error) {
	const op = "blogapi.Client.ListPosts"

	skip := (filter.Page - 1) * filter.PerPage
	q := url.Values{}
	if skip > 0 {
		q.Set("skip", strconv.Itoa(skip))
	}
	if filter.PerPage > 0 {
		q.Set("limit", strconv.Itoa(filter.PerPage))
	}
	if filter.Published != nil && *filter.Published {
		q.Set("published_only", "true")
	}

	path := "/blogs"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var posts []models.Post
		if err := json.Unmarshal(raw, &posts); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		return posts, skip + len(posts), nil
	}

	var page struct {
		Items []models.Post `json:"items"`
		Total int           `json:"total"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return page.Items, page.Total, nil
}

func (c *Client) CreatePost(ctx context.Context, payload models.PostPayload) (*models.Post, error) {
	const op = "blogapi.Client.CreatePost"

	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/blogs", payload, &post); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &post, nil
}

func (c *Client) UpdatePost(ctx context.Context, id int64, payload models.PostPayload) (*models.Post, error) {
	const op = "blogapi.Client.UpdatePost"

	var post models.Post
	if err := c.do(ctx, http.MethodPut, "/blogs/"+strconv.FormatInt(id, 10), payload, &post); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &post, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("blog backend unreachable", slog.String("method", method), slog.String("path", path), sl.Err(err))
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		msg := detail(data)
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", storage.ErrPostNotFound, msg)
		case http.StatusConflict:
			return fmt.Errorf("%w: %s", storage.ErrSlugConflict, msg)
		default:
			return fmt.Errorf("%w: %d: %s", ErrRequestFailed, resp.StatusCode, msg)
		}
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// detail достаёт текст ошибки бэкенда. У ошибок валидации FastAPI в "detail"
// лежит список, он передаётся как JSON.
func detail(body []byte) string {
	var e struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &e); err != nil || len(e.Detail) == 0 {
		return "An error occurred"
	}

	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		return s
	}
	return string(e.Detail)
}
