package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

type Storage struct {
	db *pgxpool.Pool
}

const (
	// tables
	PostsTable          = "blog_posts"
	CategoriesTable     = "categories"
	TagsTable           = "tags"
	PostCategoriesTable = "blog_post_categories"
	PostTagsTable       = "blog_post_tags"
)

const schema = `
CREATE TABLE IF NOT EXISTS blog_posts (
	id BIGSERIAL PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	slug VARCHAR(255) UNIQUE NOT NULL,
	excerpt TEXT NOT NULL DEFAULT '',
	content JSONB NOT NULL DEFAULT '{}'::jsonb,
	is_published BOOLEAN NOT NULL DEFAULT false,
	featured BOOLEAN NOT NULL DEFAULT false,
	publish_at TIMESTAMPTZ,
	meta_title TEXT,
	meta_description TEXT,
	focus_keyword TEXT,
	word_count INT NOT NULL DEFAULT 0,
	reading_time INT NOT NULL DEFAULT 1,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS categories (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	slug TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS tags (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	slug TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS blog_post_categories (
	post_id BIGINT REFERENCES blog_posts(id) ON DELETE CASCADE,
	category_id BIGINT REFERENCES categories(id) ON DELETE CASCADE,
	PRIMARY KEY (post_id, category_id)
);

CREATE TABLE IF NOT EXISTS blog_post_tags (
	post_id BIGINT REFERENCES blog_posts(id) ON DELETE CASCADE,
	tag_id BIGINT REFERENCES tags(id) ON DELETE CASCADE,
	PRIMARY KEY (post_id, tag_id)
);

CREATE INDEX IF NOT EXISTS blog_posts_created_at_idx ON blog_posts (created_at DESC);
`

func New(ctx context.Context, storagePath string) (*Storage, error) {
	const op = "storage.postgresql.New"

	db, err := pgxpool.Connect(ctx, storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// Migrate создаёт таблицы блога. Повторный вызов ничего не меняет.
func (s *Storage) Migrate(ctx context.Context) error {
	const op = "storage.postgresql.Migrate"

	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) Pool() *pgxpool.Pool {
	return s.db
}

func (s *Storage) Stop() {
	s.db.Close()
}
