package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"blogdesk/internal/domain/models"
	"blogdesk/internal/storage"
	"blogdesk/internal/storage/postgresql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var postColumns = []string{
	"id", "title", "slug", "excerpt", "content",
	"is_published", "featured", "publish_at",
	"meta_title", "meta_description", "focus_keyword",
	"word_count", "reading_time", "created_at", "updated_at",
}

type BlogRepo struct {
	db  *pgxpool.Pool
	sb  sq.StatementBuilderType
	now func() time.Time
}

func NewBlogRepository(db *pgxpool.Pool) *BlogRepo {
	return &BlogRepo{
		db:  db,
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		now: time.Now,
	}
}

// GetPost ищет пост по числовому id, иначе по slug.
func (b *BlogRepo) GetPost(ctx context.Context, idOrSlug string) (*models.Post, error) {
	const op = "repository.blog_repository.GetPost"

	where := sq.Eq{"slug": idOrSlug}
	if id, err := strconv.ParseInt(idOrSlug, 10, 64); err == nil {
		where = sq.Eq{"id": id}
	}

	query, args, err := b.sb.Select(postColumns...).
		From(postgresql.PostsTable).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	post, err := scanPost(b.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w: %s", op, storage.ErrPostNotFound, idOrSlug)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	posts := []models.Post{*post}
	if err := b.attachTaxonomies(ctx, posts); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &posts[0], nil
}

func (b *BlogRepo) ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error) {
	const op = "repository.blog_repository.ListPosts"

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 || filter.PerPage > 100 {
		filter.PerPage = 10
	}

	where := sq.And{}
	if filter.Published != nil {
		where = append(where, sq.Eq{"is_published": *filter.Published})
	}

	totalCount, err := b.getTotalCount(ctx, where)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := b.sb.Select(postColumns...).
		From(postgresql.PostsTable).
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(filter.PerPage)).
		Offset(uint64((filter.Page - 1) * filter.PerPage)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := b.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	rows.Close()

	if err := b.attachTaxonomies(ctx, posts); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return posts, totalCount, nil
}

func (b *BlogRepo) CreatePost(ctx context.Context, payload models.PostPayload) (*models.Post, error) {
	const op = "repository.blog_repository.CreatePost"

	content, err := json.Marshal(payload.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := b.now().UTC()

	query, args, err := b.sb.Insert(postgresql.PostsTable).
		Columns(
			"title", "slug", "excerpt", "content",
			"is_published", "featured", "publish_at",
			"meta_title", "meta_description", "focus_keyword",
			"word_count", "reading_time", "created_at", "updated_at",
		).
		Values(
			payload.Title, payload.Slug, payload.Excerpt, string(content),
			payload.IsPublished, payload.Featured, payload.PublishAt,
			payload.MetaTitle, payload.MetaDescription, payload.FocusKeyword,
			payload.WordCount, payload.ReadingTime, now, now,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var id int64
	err = b.inTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
			return err
		}
		return b.replaceTaxonomies(ctx, tx, id, payload)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	return b.GetPost(ctx, strconv.FormatInt(id, 10))
}

// UpdatePost перезаписывает все поля поста и его категории/теги.
func (b *BlogRepo) UpdatePost(ctx context.Context, id int64, payload models.PostPayload) (*models.Post, error) {
	const op = "repository.blog_repository.UpdatePost"

	content, err := json.Marshal(payload.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := b.sb.Update(postgresql.PostsTable).
		Set("title", payload.Title).
		Set("slug", payload.Slug).
		Set("excerpt", payload.Excerpt).
		Set("content", string(content)).
		Set("is_published", payload.IsPublished).
		Set("featured", payload.Featured).
		Set("publish_at", payload.PublishAt).
		Set("meta_title", payload.MetaTitle).
		Set("meta_description", payload.MetaDescription).
		Set("focus_keyword", payload.FocusKeyword).
		Set("word_count", payload.WordCount).
		Set("reading_time", payload.ReadingTime).
		Set("updated_at", b.now().UTC()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = b.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %d", storage.ErrPostNotFound, id)
		}
		return b.replaceTaxonomies(ctx, tx, id, payload)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	return b.GetPost(ctx, strconv.FormatInt(id, 10))
}

func (b *BlogRepo) getTotalCount(ctx context.Context, where sq.Sqlizer) (int, error) {
	query, args, err := b.sb.Select("COUNT(*)").
		From(postgresql.PostsTable).
		Where(where).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error build query: %w", err)
	}

	var count int
	if err := b.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error execute query: %w (SQL: %s)", err, query)
	}

	return count, nil
}

func (b *BlogRepo) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := b.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

type taxonomyLink struct {
	table  string
	column string
	ids    func(models.PostPayload) []int64
}

var taxonomyLinks = []taxonomyLink{
	{postgresql.PostCategoriesTable, "category_id", func(p models.PostPayload) []int64 { return p.Categories }},
	{postgresql.PostTagsTable, "tag_id", func(p models.PostPayload) []int64 { return p.Tags }},
}

func (b *BlogRepo) replaceTaxonomies(ctx context.Context, tx pgx.Tx, postID int64, payload models.PostPayload) error {
	for _, link := range taxonomyLinks {
		query, args, err := b.sb.Delete(link.table).Where(sq.Eq{"post_id": postID}).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return err
		}

		ids := link.ids(payload)
		if len(ids) == 0 {
			continue
		}

		insert := b.sb.Insert(link.table).Columns("post_id", link.column)
		for _, id := range ids {
			insert = insert.Values(postID, id)
		}
		query, args, err = insert.Suffix("ON CONFLICT DO NOTHING").ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}

// attachTaxonomies подгружает категории и теги для всех постов двумя запросами.
func (b *BlogRepo) attachTaxonomies(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]int64, len(posts))
	index := make(map[int64]int, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
		index[posts[i].ID] = i
		posts[i].Categories = []models.Taxonomy{}
		posts[i].Tags = []models.Taxonomy{}
	}

	sources := []struct {
		table, link, column string
		add                 func(p *models.Post, t models.Taxonomy)
	}{
		{postgresql.CategoriesTable, postgresql.PostCategoriesTable, "category_id", func(p *models.Post, t models.Taxonomy) { p.Categories = append(p.Categories, t) }},
		{postgresql.TagsTable, postgresql.PostTagsTable, "tag_id", func(p *models.Post, t models.Taxonomy) { p.Tags = append(p.Tags, t) }},
	}

	for _, src := range sources {
		query, args, err := b.sb.Select("l.post_id", "t.id", "t.name", "t.slug").
			From(src.link + " l").
			Join(src.table + " t ON t.id = l." + src.column).
			Where(sq.Eq{"l.post_id": ids}).
			OrderBy("t.name").
			ToSql()
		if err != nil {
			return err
		}

		rows, err := b.db.Query(ctx, query, args...)
		if err != nil {
			return err
		}

		for rows.Next() {
			var postID int64
			var t models.Taxonomy
			if err := rows.Scan(&postID, &t.ID, &t.Name, &t.Slug); err != nil {
				rows.Close()
				return err
			}
			src.add(&posts[index[postID]], t)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return err
		}
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var post models.Post
	var content []byte

	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Excerpt,
		&content,
		&post.IsPublished,
		&post.Featured,
		&post.PublishAt,
		&post.MetaTitle,
		&post.MetaDescription,
		&post.FocusKeyword,
		&post.WordCount,
		&post.ReadingTime,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	post.Content = json.RawMessage(content)
	return &post, nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", storage.ErrSlugConflict, pgErr.Detail)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", storage.ErrUnknownTaxonomy, pgErr.Detail)
		}
	}
	return err
}
