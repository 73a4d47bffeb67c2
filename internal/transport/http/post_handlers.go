package http

import (
	"log/slog"
	"net/http"

	"blogdesk/internal/metrics"
	"blogdesk/internal/transport/http/dto"
	"blogdesk/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

const (
	defaultPage    = 1
	defaultPerPage = 10
)

// ListPosts godoc
// @Summary Список постов
// @Tags posts
// @Produce json
// @Param page query int false "Номер страницы" default(1)
// @Param per_page query int false "Постов на странице" default(10)
// @Param published query bool false "Только опубликованные или только черновики"
// @Success 200 {object} response.Response{data=dto.PostListResponse}
// @Failure 400 {object} response.ErrorResponse "Неверные параметры"
// @Failure 502 {object} response.ErrorResponse "Бэкенд блога недоступен"
// @Router /api/v1/posts [get]
func (r *Routers) ListPosts(c echo.Context) error {
	const op = "http.routers.ListPosts"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.ListPostsRequest
	if err := bind(c, &req); err != nil {
		return r.badRequest(c, log, err)
	}

	if req.Page == 0 {
		req.Page = defaultPage
	}
	if req.PerPage == 0 {
		req.PerPage = defaultPerPage
	}

	posts, total, err := r.BlogService.ListPosts(c.Request().Context(), req.Filter())
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.PostListResponse{
		Posts:   posts,
		Total:   total,
		Page:    req.Page,
		PerPage: req.PerPage,
	}))
}

// GetRenderedPost godoc
// @Summary Пост с готовой разметкой
// @Description Содержимое рендерится в HTML. При включённом Redis разметка кэшируется до следующего сохранения поста.
// @Tags posts
// @Produce json
// @Param slug path string true "ID или slug поста"
// @Success 200 {object} response.Response{data=dto.RenderedPostResponse}
// @Failure 404 {object} response.ErrorResponse "Пост не найден"
// @Failure 502 {object} response.ErrorResponse "Бэкенд блога недоступен"
// @Router /api/v1/posts/{slug}/rendered [get]
func (r *Routers) GetRenderedPost(c echo.Context) error {
	const op = "http.routers.GetRenderedPost"

	slug := c.Param("slug")
	log := r.log.With(
		slog.String("op", op),
		slog.String("post", slug),
	)

	rendered, err := r.RenderService.RenderPost(c.Request().Context(), slug)
	if err != nil {
		return r.fail(c, log, err)
	}

	result := "miss"
	if rendered.Cached {
		result = "hit"
	}
	metrics.RenderCacheTotal.WithLabelValues(result).Inc()

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.RenderedPostResponse{
		Post:   rendered.Post,
		HTML:   rendered.HTML,
		Cached: rendered.Cached,
	}))
}
