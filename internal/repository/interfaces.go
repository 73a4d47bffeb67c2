package repository

import (
	"context"
	"time"

	"blogdesk/internal/domain/models"
)

type BlogRepository interface {
	GetPost(ctx context.Context, idOrSlug string) (*models.Post, error)
	ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error)
	CreatePost(ctx context.Context, payload models.PostPayload) (*models.Post, error)
	UpdatePost(ctx context.Context, id int64, payload models.PostPayload) (*models.Post, error)
}

type RenderCacheRepository interface {
	GetRendered(ctx context.Context, slug string, version time.Time) (string, error)
	SaveRendered(ctx context.Context, slug string, version time.Time, html string, ttl time.Duration) error
	InvalidatePost(ctx context.Context, slug string) error
}
