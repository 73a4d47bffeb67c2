package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"blogdesk/internal/domain/models"
	"blogdesk/internal/editor"
	"blogdesk/internal/metrics"
	blogsvc "blogdesk/internal/services/blog_service"
	editorsvc "blogdesk/internal/services/editor_service"
	"blogdesk/internal/transport/http/dto"
	"blogdesk/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

func sessionResponse(sess *editorsvc.Session) dto.SessionResponse {
	stats, revision := sess.Stats()

	resp := dto.SessionResponse{
		ID:        sess.ID,
		CreatedAt: sess.CreatedAt,
		Form:      sess.Form(),
		Stats:     dto.NewStatsResponse(stats, revision),
		Blocks:    []editor.BlockInfo{},
		Modal:     sess.Modal.State(),
	}

	if engine, err := sess.Engine(); err == nil {
		resp.Blocks = engine.Blocks()
	}
	if req, ok := sess.Editor.PendingImageRequest(); ok {
		resp.Pending = &req
	}

	return resp
}

// OpenSession godoc
// @Summary Открытие формы поста
// @Description Создаёт сессию редактора. Без post открывается пустая форма нового поста.
// @Tags editor
// @Accept json
// @Produce json
// @Param request body dto.OpenSessionRequest false "ID или slug поста"
// @Success 201 {object} response.Response{data=dto.SessionResponse}
// @Failure 400 {object} response.ErrorResponse "Неверный формат запроса"
// @Failure 404 {object} response.ErrorResponse "Пост не найден"
// @Failure 502 {object} response.ErrorResponse "Бэкенд блога недоступен"
// @Router /api/v1/editor/sessions [post]
func (r *Routers) OpenSession(c echo.Context) error {
	const op = "http.routers.OpenSession"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.OpenSessionRequest
	if c.Request().ContentLength != 0 {
		if err := bind(c, &req); err != nil {
			return r.badRequest(c, log, err)
		}
	}

	sess, err := r.EditorService.Open(c.Request().Context(), req.Post)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(sessionResponse(sess)))
}

// GetSession godoc
// @Summary Состояние формы поста
// @Tags editor
// @Produce json
// @Param session_id path string true "ID сессии"
// @Success 200 {object} response.Response{data=dto.SessionResponse}
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Router /api/v1/editor/sessions/{session_id} [get]
func (r *Routers) GetSession(c echo.Context) error {
	const op = "http.routers.GetSession"

	log := r.log.With(
		slog.String("op", op),
		slog.String("session_id", c.Param("session_id")),
	)

	sess, err := r.session(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(sessionResponse(sess)))
}

// CloseSession godoc
// @Summary Закрытие формы поста
// @Description Уничтожает движок редактора. Несохранённые изменения теряются.
// @Tags editor
// @Produce json
// @Param session_id path string true "ID сессии"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Router /api/v1/editor/sessions/{session_id} [delete]
func (r *Routers) CloseSession(c echo.Context) error {
	const op = "http.routers.CloseSession"

	log := r.log.With(
		slog.String("op", op),
		slog.String("session_id", c.Param("session_id")),
	)

	if err := r.EditorService.Close(c.Param("session_id")); err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.MessageResponse("session closed"))
}

// UpdateForm godoc
// @Summary Изменение полей формы
// @Description Частичное обновление. Новый заголовок пересчитывает slug, пока slug не задан вручную.
// @Tags editor
// @Accept json
// @Produce json
// @Param session_id path string true "ID сессии"
// @Param request body dto.UpdateFormRequest true "Поля формы"
// @Success 200 {object} response.Response{data=blogsvc.PostForm}
// @Failure 400 {object} response.ErrorResponse "Неверный формат запроса"
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Router /api/v1/editor/sessions/{session_id}/form [patch]
func (r *Routers) UpdateForm(c echo.Context) error {
	const op = "http.routers.UpdateForm"

	log := r.log.With(
		slog.String("op", op),
		slog.String("session_id", c.Param("session_id")),
	)

	sess, err := r.session(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	var req dto.UpdateFormRequest
	if err := bind(c, &req); err != nil {
		return r.badRequest(c, log, err)
	}

	form := sess.UpdateForm(func(f *blogsvc.PostForm) {
		// Явный slug в том же запросе важнее пересчитанного из заголовка
		req.Apply(f)
	})

	return c.JSON(http.StatusOK, response.SuccessResponse(form))
}

// GetStats godoc
// @Summary Живая статистика текста
// @Tags editor
// @Produce json
// @Param session_id path string true "ID сессии"
// @Success 200 {object} response.Response{data=dto.StatsResponse}
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Router /api/v1/editor/sessions/{session_id}/stats [get]
func (r *Routers) GetStats(c echo.Context) error {
	const op = "http.routers.GetStats"

	log := r.log.With(
		slog.String("op", op),
	)

	sess, err := r.session(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.NewStatsResponse(sess.Stats())))
}

// GetDocument godoc
// @Summary Текущий документ редактора
// @Tags editor
// @Produce json
// @Param session_id path string true "ID сессии"
// @Success 200 {object} response.Response{data=models.BlockDocument}
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Failure 409 {object} response.ErrorResponse "Редактор не готов"
// @Router /api/v1/editor/sessions/{session_id}/document [get]
func (r *Routers) GetDocument(c echo.Context) error {
	const op = "http.routers.GetDocument"

	log := r.log.With(
		slog.String("op", op),
	)

	doc, err := r.document(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(doc))
}

// PreviewSession godoc
// @Summary Предпросмотр поста
// @Description Рендерит несохранённый документ сессии так же, как опубликованный пост.
// @Tags editor
// @Produce json
// @Param session_id path string true "ID сессии"
// @Success 200 {object} response.Response{data=dto.PreviewResponse}
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Router /api/v1/editor/sessions/{session_id}/preview [get]
func (r *Routers) PreviewSession(c echo.Context) error {
	const op = "http.routers.PreviewSession"

	log := r.log.With(
		slog.String("op", op),
	)

	doc, err := r.document(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.PreviewResponse{
		HTML: r.RenderService.Preview(*doc),
	}))
}

func (r *Routers) document(c echo.Context) (*models.BlockDocument, error) {
	sess, err := r.session(c)
	if err != nil {
		return nil, err
	}

	return sess.Editor.GetData(c.Request().Context())
}

// SaveSession godoc
// @Summary Сохранение поста
// @Description Создаёт пост или обновляет существующий. Сессия остаётся открытой.
// @Tags editor
// @Produce json
// @Param session_id path string true "ID сессии"
// @Success 200 {object} response.Response{data=models.Post}
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации формы"
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Failure 409 {object} response.ErrorResponse "Slug занят или содержимое недоступно"
// @Failure 502 {object} response.ErrorResponse "Бэкенд блога недоступен"
// @Router /api/v1/editor/sessions/{session_id}/save [post]
func (r *Routers) SaveSession(c echo.Context) error {
	const op = "http.routers.SaveSession"

	id := c.Param("session_id")
	log := r.log.With(
		slog.String("op", op),
		slog.String("session_id", id),
	)

	var previousSlug string
	if sess, err := r.EditorService.Get(id); err == nil {
		previousSlug = sess.Form().Slug
	}

	post, err := r.EditorService.Save(c.Request().Context(), id)
	metrics.PostSavesTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return r.fail(c, log, err)
	}

	r.RenderService.Invalidate(c.Request().Context(), post.Slug)
	if previousSlug != post.Slug {
		r.RenderService.Invalidate(c.Request().Context(), previousSlug)
	}

	log.Info("post saved", slog.Int64("post_id", post.ID), slog.String("slug", post.Slug))

	return c.JSON(http.StatusOK, response.SuccessResponse(post))
}

// InsertBlock godoc
// @Summary Вставка блока
// @Description Без index блок добавляется в конец. Без data вставляется пустой блок.
// @Tags blocks
// @Accept json
// @Produce json
// @Param session_id path string true "ID сессии"
// @Param request body dto.InsertBlockRequest true "Блок"
// @Success 201 {object} response.Response{data=dto.BlockCreatedResponse}
// @Failure 400 {object} response.ErrorResponse "Неизвестный тип блока или индекс"
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Router /api/v1/editor/sessions/{session_id}/blocks [post]
func (r *Routers) InsertBlock(c echo.Context) error {
	const op = "http.routers.InsertBlock"

	log := r.log.With(
		slog.String("op", op),
	)

	engine, err := r.engine(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	var req dto.InsertBlockRequest
	if err := bind(c, &req); err != nil {
		return r.badRequest(c, log, err)
	}

	index := len(engine.Blocks())
	if req.Index != nil {
		index = *req.Index
	}

	id, err := engine.InsertBlock(index, models.BlockType(req.Type), req.BlockData())
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(dto.BlockCreatedResponse{ID: id}))
}

// UpdateBlock godoc
// @Summary Изменение данных блока
// @Description Блоки-изображения меняются только через выбор изображения.
// @Tags blocks
// @Accept json
// @Produce json
// @Param session_id path string true "ID сессии"
// @Param block_id path string true "ID блока"
// @Param request body dto.UpdateBlockRequest true "Данные блока"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Данные не подходят блоку"
// @Failure 404 {object} response.ErrorResponse "Блок не найден"
// @Failure 409 {object} response.ErrorResponse "Блок-изображение"
// @Router /api/v1/editor/sessions/{session_id}/blocks/{block_id} [put]
func (r *Routers) UpdateBlock(c echo.Context) error {
	const op = "http.routers.UpdateBlock"

	blockID := c.Param("block_id")
	log := r.log.With(
		slog.String("op", op),
		slog.String("block_id", blockID),
	)

	engine, err := r.engine(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	var req dto.UpdateBlockRequest
	if err := bind(c, &req); err != nil {
		return r.badRequest(c, log, err)
	}

	info, ok := findBlock(engine.Blocks(), blockID)
	if !ok {
		return r.fail(c, log, editor.ErrBlockNotFound)
	}

	if err := engine.UpdateBlock(blockID, models.DecodeBlockData(info.Type, req.Data)); err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.MessageResponse("block updated"))
}

// DeleteBlock godoc
// @Summary Удаление блока
// @Tags blocks
// @Produce json
// @Param session_id path string true "ID сессии"
// @Param block_id path string true "ID блока"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Блок не найден"
// @Router /api/v1/editor/sessions/{session_id}/blocks/{block_id} [delete]
func (r *Routers) DeleteBlock(c echo.Context) error {
	const op = "http.routers.DeleteBlock"

	log := r.log.With(
		slog.String("op", op),
		slog.String("block_id", c.Param("block_id")),
	)

	engine, err := r.engine(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	if err := engine.RemoveBlock(c.Param("block_id")); err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.MessageResponse("block deleted"))
}

// MoveBlock godoc
// @Summary Перемещение блока
// @Tags blocks
// @Accept json
// @Produce json
// @Param session_id path string true "ID сессии"
// @Param block_id path string true "ID блока"
// @Param request body dto.MoveBlockRequest true "Новая позиция"
// @Success 200 {object} response.Response{data=[]editor.BlockInfo}
// @Failure 400 {object} response.ErrorResponse "Индекс вне диапазона"
// @Failure 404 {object} response.ErrorResponse "Блок не найден"
// @Router /api/v1/editor/sessions/{session_id}/blocks/{block_id}/move [post]
func (r *Routers) MoveBlock(c echo.Context) error {
	const op = "http.routers.MoveBlock"

	log := r.log.With(
		slog.String("op", op),
		slog.String("block_id", c.Param("block_id")),
	)

	engine, err := r.engine(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	var req dto.MoveBlockRequest
	if err := bind(c, &req); err != nil {
		return r.badRequest(c, log, err)
	}

	if err := engine.MoveBlock(c.Param("block_id"), *req.Index); err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(engine.Blocks()))
}

func (r *Routers) engine(c echo.Context) (*editor.MemoryEngine, error) {
	sess, err := r.session(c)
	if err != nil {
		return nil, err
	}

	return sess.Engine()
}

func findBlock(blocks []editor.BlockInfo, id string) (editor.BlockInfo, bool) {
	for _, b := range blocks {
		if b.ID == id {
			return b, true
		}
	}
	return editor.BlockInfo{}, false
}

func imageBlockResponse(img *editor.ImageBlock) dto.ImageBlockResponse {
	return dto.ImageBlockResponse{
		ID:       img.ID(),
		State:    img.State(),
		Settings: img.Settings(),
		HTML:     string(img.Render()),
	}
}

// GetImageBlock godoc
// @Summary Состояние блока-изображения
// @Tags blocks
// @Produce json
// @Param session_id path string true "ID сессии"
// @Param block_id path string true "ID блока"
// @Success 200 {object} response.Response{data=dto.ImageBlockResponse}
// @Failure 400 {object} response.ErrorResponse "Блок не является изображением"
// @Failure 404 {object} response.ErrorResponse "Блок не найден"
// @Router /api/v1/editor/sessions/{session_id}/blocks/{block_id}/image [get]
func (r *Routers) GetImageBlock(c echo.Context) error {
	const op = "http.routers.GetImageBlock"

	log := r.log.With(
		slog.String("op", op),
		slog.String("block_id", c.Param("block_id")),
	)

	img, err := r.imageBlock(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(imageBlockResponse(img)))
}

// SelectImage godoc
// @Summary Выбор изображения для блока
// @Description Клик по пустому блоку-изображению: создаёт запрос изображения и открывает модальное окно.
// @Tags blocks
// @Produce json
// @Param session_id path string true "ID сессии"
// @Param block_id path string true "ID блока"
// @Success 202 {object} response.Response{data=editor.ImageRequest}
// @Failure 404 {object} response.ErrorResponse "Блок не найден"
// @Failure 409 {object} response.ErrorResponse "Уже есть ожидающий запрос"
// @Router /api/v1/editor/sessions/{session_id}/blocks/{block_id}/image [post]
func (r *Routers) SelectImage(c echo.Context) error {
	const op = "http.routers.SelectImage"

	log := r.log.With(
		slog.String("op", op),
		slog.String("block_id", c.Param("block_id")),
	)

	img, err := r.imageBlock(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	req, err := img.Click()
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusAccepted, response.SuccessResponse(req))
}

// EditImageCaption godoc
// @Summary Подпись к изображению
// @Tags blocks
// @Accept json
// @Produce json
// @Param session_id path string true "ID сессии"
// @Param block_id path string true "ID блока"
// @Param request body dto.CaptionRequest true "Подпись"
// @Success 200 {object} response.Response{data=dto.ImageBlockResponse}
// @Failure 409 {object} response.ErrorResponse "Изображение ещё не выбрано"
// @Router /api/v1/editor/sessions/{session_id}/blocks/{block_id}/caption [put]
func (r *Routers) EditImageCaption(c echo.Context) error {
	const op = "http.routers.EditImageCaption"

	log := r.log.With(
		slog.String("op", op),
		slog.String("block_id", c.Param("block_id")),
	)

	img, err := r.imageBlock(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	var req dto.CaptionRequest
	if err := bind(c, &req); err != nil {
		return r.badRequest(c, log, err)
	}

	if err := img.EditCaption(req.Caption); err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(imageBlockResponse(img)))
}

// ToggleImageSetting godoc
// @Summary Переключение настройки изображения
// @Tags blocks
// @Produce json
// @Param session_id path string true "ID сессии"
// @Param block_id path string true "ID блока"
// @Param name path string true "Настройка" Enums(withBorder, stretched, withBackground)
// @Success 200 {object} response.Response{data=dto.SettingResponse}
// @Failure 400 {object} response.ErrorResponse "Неизвестная настройка"
// @Router /api/v1/editor/sessions/{session_id}/blocks/{block_id}/settings/{name} [post]
func (r *Routers) ToggleImageSetting(c echo.Context) error {
	const op = "http.routers.ToggleImageSetting"

	name := c.Param("name")
	log := r.log.With(
		slog.String("op", op),
		slog.String("block_id", c.Param("block_id")),
		slog.String("setting", name),
	)

	img, err := r.imageBlock(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	active, err := img.ToggleSetting(name)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.SettingResponse{Name: name, Active: active}))
}

func (r *Routers) imageBlock(c echo.Context) (*editor.ImageBlock, error) {
	sess, err := r.session(c)
	if err != nil {
		return nil, err
	}

	img, err := sess.ImageBlock(c.Param("block_id"))
	if err != nil {
		return nil, fmt.Errorf("block %s: %w", c.Param("block_id"), err)
	}
	return img, nil
}
