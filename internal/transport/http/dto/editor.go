package dto

import (
	"encoding/json"
	"time"

	"blogdesk/internal/content"
	"blogdesk/internal/domain/models"
	"blogdesk/internal/editor"
	blogsvc "blogdesk/internal/services/blog_service"
)

type OpenSessionRequest struct {
	// Post: id или slug поста; пусто для нового поста.
	Post string `json:"post" validate:"omitempty,max=255"`
}

type SessionResponse struct {
	ID        string               `json:"id"`
	CreatedAt time.Time            `json:"created_at"`
	Form      blogsvc.PostForm     `json:"form"`
	Stats     StatsResponse        `json:"stats"`
	Blocks    []editor.BlockInfo   `json:"blocks"`
	Pending   *editor.ImageRequest `json:"pending_image_request,omitempty"`
	Modal     editor.ModalState    `json:"modal"`
}

type StatsResponse struct {
	WordCount   int   `json:"word_count"`
	ReadingTime int   `json:"reading_time"`
	Revision    int64 `json:"revision"`
}

func NewStatsResponse(stats content.Stats, revision int64) StatsResponse {
	return StatsResponse{
		WordCount:   stats.WordCount,
		ReadingTime: stats.ReadingTime,
		Revision:    revision,
	}
}

// UpdateFormRequest частичное обновление полей формы. Смена заголовка
// пересчитывает slug, если slug не передан явно.
type UpdateFormRequest struct {
	Title           *string    `json:"title" validate:"omitempty,max=255"`
	Slug            *string    `json:"slug" validate:"omitempty,max=255"`
	Excerpt         *string    `json:"excerpt" validate:"omitempty,max=1000"`
	IsPublished     *bool      `json:"is_published"`
	Featured        *bool      `json:"featured"`
	PublishAt       *time.Time `json:"publish_at"`
	MetaTitle       *string    `json:"meta_title" validate:"omitempty,max=255"`
	MetaDescription *string    `json:"meta_description" validate:"omitempty,max=500"`
	FocusKeyword    *string    `json:"focus_keyword" validate:"omitempty,max=255"`
	Categories      []int64    `json:"categories"`
	Tags            []int64    `json:"tags"`
}

func (r UpdateFormRequest) Apply(f *blogsvc.PostForm) {
	if r.Title != nil {
		f.SetTitle(*r.Title)
	}
	if r.Slug != nil {
		f.Slug = *r.Slug
	}
	if r.Excerpt != nil {
		f.Excerpt = *r.Excerpt
	}
	if r.IsPublished != nil {
		f.IsPublished = *r.IsPublished
	}
	if r.Featured != nil {
		f.Featured = *r.Featured
	}
	if r.PublishAt != nil {
		f.PublishAt = r.PublishAt
	}
	if r.MetaTitle != nil {
		f.MetaTitle = *r.MetaTitle
	}
	if r.MetaDescription != nil {
		f.MetaDescription = *r.MetaDescription
	}
	if r.FocusKeyword != nil {
		f.FocusKeyword = *r.FocusKeyword
	}
	if r.Categories != nil {
		f.Categories = r.Categories
	}
	if r.Tags != nil {
		f.Tags = r.Tags
	}
}

type InsertBlockRequest struct {
	Type  string          `json:"type" validate:"required"`
	Index *int            `json:"index" validate:"omitempty,min=0"`
	Data  json.RawMessage `json:"data" swaggertype:"object"`
}

// BlockData декодирует data в вариант блока; пустой data даёт пустой блок.
func (r InsertBlockRequest) BlockData() models.BlockData {
	if len(r.Data) == 0 {
		return nil
	}
	return models.DecodeBlockData(models.BlockType(r.Type), r.Data)
}

type UpdateBlockRequest struct {
	Data json.RawMessage `json:"data" validate:"required" swaggertype:"object"`
}

type MoveBlockRequest struct {
	Index *int `json:"index" validate:"required,min=0"`
}

type BlockCreatedResponse struct {
	ID string `json:"id"`
}

type ImageBlockResponse struct {
	ID       string            `json:"id"`
	State    editor.ImageState `json:"state"`
	Settings []editor.Setting  `json:"settings"`
	HTML     string            `json:"html"`
}

type CaptionRequest struct {
	Caption string `json:"caption" validate:"max=500"`
}

type TabRequest struct {
	Tab string `json:"tab" validate:"required,oneof=upload library url"`
}

type AssetRequest struct {
	Key string `json:"key" validate:"required"`
}

type URLRequest struct {
	URL string `json:"url"`
}

type SettingResponse struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type SubmitImageResponse struct {
	Selection models.ImageSelection `json:"selection"`
	Block     *ImageBlockResponse   `json:"block,omitempty"`
}
