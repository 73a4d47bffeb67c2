package services

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"blogdesk/internal/domain/models"
	"blogdesk/internal/lib/logger/sl"
	"blogdesk/internal/renderer"
	"blogdesk/internal/storage"
)

type PostSource interface {
	GetPost(ctx context.Context, idOrSlug string) (*models.Post, error)
}

// RenderCache хранит готовую разметку поста, версией служит updated_at.
type RenderCache interface {
	GetRendered(ctx context.Context, slug string, version time.Time) (string, error)
	SaveRendered(ctx context.Context, slug string, version time.Time, html string, ttl time.Duration) error
	InvalidatePost(ctx context.Context, slug string) error
}

type RenderedPost struct {
	Post   *models.Post
	HTML   template.HTML
	Cached bool
}

type RenderService struct {
	log      *slog.Logger
	posts    PostSource
	renderer *renderer.Renderer
	cache    RenderCache
	ttl      time.Duration
}

// NewRenderService создаёт сервис рендера. cache может быть nil: тогда
// разметка строится на каждый запрос.
func NewRenderService(log *slog.Logger, posts PostSource, r *renderer.Renderer, cache RenderCache, ttl time.Duration) *RenderService {
	return &RenderService{
		log:      log,
		posts:    posts,
		renderer: r,
		cache:    cache,
		ttl:      ttl,
	}
}

// RenderPost отдаёт пост с разметкой его содержимого. Ошибки кэша не мешают
// рендеру, они только логируются.
func (s *RenderService) RenderPost(ctx context.Context, idOrSlug string) (*RenderedPost, error) {
	const op = "services.render_service.RenderPost"

	log := s.log.With(
		slog.String("op", op),
		slog.String("post", idOrSlug),
	)

	post, err := s.posts.GetPost(ctx, idOrSlug)
	if err != nil {
		if !errors.Is(err, storage.ErrPostNotFound) {
			log.Error("failed to get post", sl.Err(err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		html, err := s.cache.GetRendered(ctx, post.Slug, post.UpdatedAt)
		switch {
		case err == nil:
			return &RenderedPost{Post: post, HTML: template.HTML(html), Cached: true}, nil
		case !errors.Is(err, storage.ErrCacheMiss):
			log.Warn("render cache unavailable", sl.Err(err))
		}
	}

	html := s.renderer.RenderStored(post.Content)

	if s.cache != nil {
		if err := s.cache.SaveRendered(ctx, post.Slug, post.UpdatedAt, string(html), s.ttl); err != nil {
			log.Warn("failed to cache rendered post", sl.Err(err))
		}
	}

	return &RenderedPost{Post: post, HTML: html}, nil
}

// Preview рендерит документ из открытой сессии редактора, без кэша.
func (s *RenderService) Preview(doc models.BlockDocument) template.HTML {
	return s.renderer.RenderValue(doc)
}

// Invalidate сбрасывает все версии разметки поста после сохранения.
func (s *RenderService) Invalidate(ctx context.Context, slug string) {
	const op = "services.render_service.Invalidate"

	if s.cache == nil || slug == "" {
		return
	}

	if err := s.cache.InvalidatePost(ctx, slug); err != nil {
		s.log.With(slog.String("op", op)).Warn("failed to invalidate rendered post", slog.String("slug", slug), sl.Err(err))
	}
}
