package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"blogdesk/internal/content"
	"blogdesk/internal/domain/models"
	"blogdesk/internal/lib/logger/sl"
	"blogdesk/internal/storage"

	"github.com/go-playground/validator/v10"
)

var ErrContentUnavailable = errors.New("editor content unavailable")

// BlogClient блог-бэкенд: REST API или PostgreSQL.
type BlogClient interface {
	GetPost(ctx context.Context, idOrSlug string) (*models.Post, error)
	ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error)
	CreatePost(ctx context.Context, payload models.PostPayload) (*models.Post, error)
	UpdatePost(ctx context.Context, id int64, payload models.PostPayload) (*models.Post, error)
}

// ContentSource отдаёт текущий документ редактора, уже очищенный для сохранения.
type ContentSource interface {
	GetData(ctx context.Context) (*models.BlockDocument, error)
}

// PostForm поля формы поста, кроме содержимого. ID == 0 для нового поста.
type PostForm struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Excerpt         string     `json:"excerpt"`
	IsPublished     bool       `json:"is_published"`
	Featured        bool       `json:"featured"`
	PublishAt       *time.Time `json:"publish_at,omitempty"`
	MetaTitle       string     `json:"meta_title"`
	MetaDescription string     `json:"meta_description"`
	FocusKeyword    string     `json:"focus_keyword"`
	Categories      []int64    `json:"categories"`
	Tags            []int64    `json:"tags"`
}

// SetTitle меняет заголовок и пересчитывает slug.
func (f *PostForm) SetTitle(title string) {
	f.Title = title
	f.Slug = Slugify(title)
}

// EditablePost пост, подготовленный для открытия в редакторе.
// Content равен nil, если у поста нет содержимого.
type EditablePost struct {
	Form    PostForm
	Content *models.BlockDocument
	Stats   content.Stats
}

type BlogService struct {
	log      *slog.Logger
	client   BlogClient
	validate *validator.Validate
	now      func() time.Time
}

func NewBlogService(log *slog.Logger, client BlogClient, validate *validator.Validate) *BlogService {
	if validate == nil {
		validate = validator.New()
	}

	return &BlogService{
		log:      log,
		client:   client,
		validate: validate,
		now:      time.Now,
	}
}

// Load загружает пост и разбирает его содержимое: объект документа,
// JSON-строку или старый plain text.
func (s *BlogService) Load(ctx context.Context, idOrSlug string) (*EditablePost, error) {
	const op = "blog_service.Load"
	log := s.log.With(
		slog.String("op", op),
		slog.String("post", idOrSlug),
	)

	post, err := s.client.GetPost(ctx, idOrSlug)
	if err != nil {
		log.Error("failed to get post", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	form := PostForm{
		ID:              post.ID,
		Title:           post.Title,
		Slug:            post.Slug,
		Excerpt:         post.Excerpt,
		IsPublished:     post.IsPublished,
		Featured:        post.Featured,
		PublishAt:       post.PublishAt,
		MetaTitle:       deref(post.MetaTitle),
		MetaDescription: deref(post.MetaDescription),
		FocusKeyword:    deref(post.FocusKeyword),
		Categories:      taxonomyIDs(post.Categories),
		Tags:            taxonomyIDs(post.Tags),
	}

	doc := content.Parse(post.Content, s.now())

	result := &EditablePost{Form: form, Content: doc}
	if doc != nil {
		result.Stats = content.ComputeStats(*doc)
	}

	log.Debug("post loaded", slog.Int("blocks", blockCount(doc)))

	return result, nil
}

// GetPost возвращает пост для публичного просмотра.
func (s *BlogService) GetPost(ctx context.Context, idOrSlug string) (*models.Post, error) {
	const op = "blog_service.GetPost"

	post, err := s.client.GetPost(ctx, idOrSlug)
	if err != nil {
		if !errors.Is(err, storage.ErrPostNotFound) {
			s.log.Error("failed to get post", slog.String("op", op), sl.Err(err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return post, nil
}

// ListPosts возвращает страницу постов и общее количество.
func (s *BlogService) ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error) {
	const op = "blog_service.ListPosts"
	log := s.log.With(
		slog.String("op", op),
		slog.Int("page", filter.Page),
		slog.Int("per_page", filter.PerPage),
	)

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 || filter.PerPage > 100 {
		filter.PerPage = 10
	}

	posts, total, err := s.client.ListPosts(ctx, filter)
	if err != nil {
		log.Error("failed to list posts", sl.Err(err))
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return posts, total, nil
}

// LiveStats считает слова и время чтения по живому (неочищенному) документу.
func (s *BlogService) LiveStats(doc models.BlockDocument) content.Stats {
	return content.ComputeStats(doc)
}

// BuildPayload собирает тело запроса. Пустой заголовок или документ без
// блоков после очистки считается ошибкой валидации, до любого сетевого вызова.
func (s *BlogService) BuildPayload(form PostForm, doc *models.BlockDocument) (models.PostPayload, error) {
	if strings.TrimSpace(form.Title) == "" {
		return models.PostPayload{}, content.NewValidationError("title", "Title and content are required!")
	}
	if doc == nil {
		return models.PostPayload{}, content.NewValidationError("content", "Title and content are required!")
	}

	clean := content.SanitizeSave(*doc)
	if clean.IsEmpty() {
		return models.PostPayload{}, content.NewValidationError("content", "Title and content are required!")
	}

	slug := form.Slug
	if slug == "" {
		slug = Slugify(form.Title)
	}

	publishAt := s.now()
	if form.PublishAt != nil {
		publishAt = *form.PublishAt
	}

	stats := content.ComputeStats(clean)

	payload := models.PostPayload{
		Title:           form.Title,
		Slug:            slug,
		Excerpt:         form.Excerpt,
		Content:         clean,
		IsPublished:     form.IsPublished,
		Featured:        form.Featured,
		PublishAt:       publishAt,
		MetaTitle:       nullable(form.MetaTitle),
		MetaDescription: nullable(form.MetaDescription),
		FocusKeyword:    nullable(form.FocusKeyword),
		WordCount:       stats.WordCount,
		ReadingTime:     stats.ReadingTime,
		Categories:      nonNil(form.Categories),
		Tags:            nonNil(form.Tags),
	}

	if err := s.validate.Struct(payload); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return models.PostPayload{}, content.NewValidationError(
				strings.ToLower(verrs[0].Field()),
				fmt.Sprintf("failed on '%s' rule", verrs[0].Tag()),
			)
		}
		return models.PostPayload{}, err
	}

	return payload, nil
}

// Save забирает документ из редактора и создаёт или обновляет пост.
// Если редактор не смог отдать документ, сохранение блокируется.
func (s *BlogService) Save(ctx context.Context, form PostForm, src ContentSource) (*models.Post, error) {
	const op = "blog_service.Save"
	log := s.log.With(
		slog.String("op", op),
		slog.Int64("post_id", form.ID),
	)

	doc, err := src.GetData(ctx)
	if err != nil {
		log.Error("editor returned no content", sl.Err(err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrContentUnavailable, err)
	}

	payload, err := s.BuildPayload(form, doc)
	if err != nil {
		log.Warn("post payload rejected", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var post *models.Post
	if form.ID == 0 {
		post, err = s.client.CreatePost(ctx, payload)
		if errors.Is(err, storage.ErrSlugConflict) {
			log.Warn("slug conflict detected, generating unique slug", slog.String("slug", payload.Slug))
			payload.Slug = s.uniqueSlug(payload.Slug)
			post, err = s.client.CreatePost(ctx, payload)
		}
	} else {
		post, err = s.client.UpdatePost(ctx, form.ID, payload)
	}
	if err != nil {
		log.Error("failed to save post", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("post saved",
		slog.Int64("id", post.ID),
		slog.Int("word_count", payload.WordCount),
	)

	return post, nil
}

var (
	nonSlugChars = regexp.MustCompile(`[^\w\s-]`)
	spaceRun     = regexp.MustCompile(`\s+`)
	dashRun      = regexp.MustCompile(`-+`)
)

// Slugify: нижний регистр, без спецсимволов, пробелы в дефисы.
func Slugify(title string) string {
	slug := strings.TrimSpace(strings.ToLower(title))
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = spaceRun.ReplaceAllString(slug, "-")
	return dashRun.ReplaceAllString(slug, "-")
}

func (s *BlogService) uniqueSlug(base string) string {
	return fmt.Sprintf("%s-%d", base, s.now().Unix())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

func taxonomyIDs(items []models.Taxonomy) []int64 {
	ids := make([]int64, 0, len(items))
	for _, t := range items {
		ids = append(ids, t.ID)
	}
	return ids
}

func blockCount(doc *models.BlockDocument) int {
	if doc == nil {
		return 0
	}
	return len(doc.Blocks)
}
