package dto

import (
	"html/template"

	"blogdesk/internal/domain/models"
)

type ListPostsRequest struct {
	Page      int   `query:"page" validate:"omitempty,min=1"`
	PerPage   int   `query:"per_page" validate:"omitempty,min=1,max=100"`
	Published *bool `query:"published"`
}

func (r ListPostsRequest) Filter() models.PostFilter {
	return models.PostFilter{
		Page:      r.Page,
		PerPage:   r.PerPage,
		Published: r.Published,
	}
}

type PostListResponse struct {
	Posts   []models.Post `json:"posts"`
	Total   int           `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}

type RenderedPostResponse struct {
	Post   *models.Post  `json:"post"`
	HTML   template.HTML `json:"html" swaggertype:"string"`
	Cached bool          `json:"cached"`
}

type PreviewResponse struct {
	HTML template.HTML `json:"html" swaggertype:"string"`
}
