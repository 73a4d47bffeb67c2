package repository

import (
	"context"
	"fmt"

	"blogdesk/internal/storage/postgresql"
)

type Repository struct {
	db   *postgresql.Storage
	Blog BlogRepository
}

// NewRepository подключается к PostgreSQL и применяет схему блога.
func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	db, err := postgresql.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Stop()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{
		db:   db,
		Blog: NewBlogRepository(db.Pool()),
	}, nil
}

func (r *Repository) Close() {
	r.db.Stop()
}
