package models

import (
	"encoding/json"
	"time"
)

// Post пост в том виде, в котором его отдаёт блог-бэкенд.
// Content может быть объектом документа, JSON-строкой или старым plain text.
type Post struct {
	ID              int64           `db:"id" json:"id"`
	Title           string          `db:"title" json:"title"`
	Slug            string          `db:"slug" json:"slug"`
	Excerpt         string          `db:"excerpt" json:"excerpt"`
	Content         json.RawMessage `db:"content" json:"content"`
	IsPublished     bool            `db:"is_published" json:"is_published"`
	Featured        bool            `db:"featured" json:"featured"`
	PublishAt       *time.Time      `db:"publish_at" json:"publish_at,omitempty"`
	MetaTitle       *string         `db:"meta_title" json:"meta_title,omitempty"`
	MetaDescription *string         `db:"meta_description" json:"meta_description,omitempty"`
	FocusKeyword    *string         `db:"focus_keyword" json:"focus_keyword,omitempty"`
	WordCount       int             `db:"word_count" json:"word_count"`
	ReadingTime     int             `db:"reading_time" json:"reading_time"`
	Categories      []Taxonomy      `json:"categories"`
	Tags            []Taxonomy      `json:"tags"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

type Taxonomy struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Slug string `db:"slug" json:"slug,omitempty"`
}

// PostPayload тело запроса на создание/обновление поста.
type PostPayload struct {
	Title           string        `json:"title" validate:"required,max=255"`
	Slug            string        `json:"slug" validate:"required,max=255"`
	Excerpt         string        `json:"excerpt" validate:"max=1000"`
	Content         BlockDocument `json:"content"`
	IsPublished     bool          `json:"is_published"`
	Featured        bool          `json:"featured"`
	PublishAt       time.Time     `json:"publish_at" validate:"required"`
	MetaTitle       *string       `json:"meta_title"`
	MetaDescription *string       `json:"meta_description"`
	FocusKeyword    *string       `json:"focus_keyword"`
	WordCount       int           `json:"word_count" validate:"gte=0"`
	ReadingTime     int           `json:"reading_time" validate:"gte=1"`
	Categories      []int64       `json:"categories"`
	Tags            []int64       `json:"tags"`
}

// PostFilter параметры листинга постов.
type PostFilter struct {
	Page      int
	PerPage   int
	Published *bool
}
