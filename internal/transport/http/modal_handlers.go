package http

import (
	"log/slog"
	"net/http"

	"blogdesk/internal/editor"
	"blogdesk/internal/transport/http/dto"
	"blogdesk/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// GetModal godoc
// @Summary Состояние окна выбора изображения
// @Tags modal
// @Produce json
// @Param session_id path string true "ID сессии"
// @Success 200 {object} response.Response{data=editor.ModalState}
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Router /api/v1/editor/sessions/{session_id}/modal [get]
func (r *Routers) GetModal(c echo.Context) error {
	const op = "http.routers.GetModal"

	log := r.log.With(
		slog.String("op", op),
	)

	sess, err := r.session(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(sess.Modal.State()))
}

// SelectModalTab godoc
// @Summary Переключение вкладки
// @Description Первое открытие вкладки «Библиотека» загружает список изображений.
// @Tags modal
// @Accept json
// @Produce json
// @Param session_id path string true "ID сессии"
// @Param request body dto.TabRequest true "Вкладка"
// @Success 200 {object} response.Response{data=editor.ModalState}
// @Failure 400 {object} response.ErrorResponse "Неизвестная вкладка"
// @Failure 409 {object} response.ErrorResponse "Окно закрыто"
// @Router /api/v1/editor/sessions/{session_id}/modal/tab [put]
func (r *Routers) SelectModalTab(c echo.Context) error {
	const op = "http.routers.SelectModalTab"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.TabRequest
	if err := bind(c, &req); err != nil {
		return r.badRequest(c, log, err)
	}

	tab, err := editor.ParseTab(req.Tab)
	if err != nil {
		return r.fail(c, log, err)
	}

	return r.modalAction(c, log, func(m *editor.Modal) error {
		return m.SelectTab(c.Request().Context(), tab)
	})
}

// RefreshModalLibrary godoc
// @Summary Повторная загрузка библиотеки
// @Tags modal
// @Produce json
// @Param session_id path string true "ID сессии"
// @Success 200 {object} response.Response{data=editor.ModalState}
// @Failure 409 {object} response.ErrorResponse "Окно закрыто или занято"
// @Router /api/v1/editor/sessions/{session_id}/modal/library/refresh [post]
func (r *Routers) RefreshModalLibrary(c echo.Context) error {
	const op = "http.routers.RefreshModalLibrary"

	log := r.log.With(
		slog.String("op", op),
	)

	return r.modalAction(c, log, func(m *editor.Modal) error {
		return m.RefreshLibrary(c.Request().Context())
	})
}

// SetModalCaption godoc
// @Summary Подпись в окне выбора
// @Description Подпись общая для всех вкладок.
// @Tags modal
// @Accept json
// @Produce json
// @Param session_id path string true "ID сессии"
// @Param request body dto.CaptionRequest true "Подпись"
// @Success 200 {object} response.Response{data=editor.ModalState}
// @Router /api/v1/editor/sessions/{session_id}/modal/caption [put]
func (r *Routers) SetModalCaption(c echo.Context) error {
	const op = "http.routers.SetModalCaption"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.CaptionRequest
	if err := bind(c, &req); err != nil {
		return r.badRequest(c, log, err)
	}

	return r.modalAction(c, log, func(m *editor.Modal) error {
		return m.SetCaption(req.Caption)
	})
}

// SelectModalFile godoc
// @Summary Выбор файла на вкладке «Загрузка»
// @Description Файл проверяется сразу. Загрузка происходит при подтверждении.
// @Tags modal
// @Accept multipart/form-data
// @Produce json
// @Param session_id path string true "ID сессии"
// @Param file formData file true "Изображение"
// @Success 200 {object} response.Response{data=editor.ModalState}
// @Failure 400 {object} response.ErrorResponse "Файл не выбран"
// @Router /api/v1/editor/sessions/{session_id}/modal/file [post]
func (r *Routers) SelectModalFile(c echo.Context) error {
	const op = "http.routers.SelectModalFile"

	log := r.log.With(
		slog.String("op", op),
	)

	file, err := c.FormFile("file")
	if err != nil {
		log.Warn("file not provided", slog.String("error", err.Error()))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails(response.CodeInvalidRequest, "file is required"))
	}

	return r.modalAction(c, log, func(m *editor.Modal) error {
		return m.SelectFile(file)
	})
}

// ToggleModalAsset godoc
// @Summary Выбор изображения из библиотеки
// @Description Повторный выбор того же ключа снимает выделение.
// @Tags modal
// @Accept json
// @Produce json
// @Param session_id path string true "ID сессии"
// @Param request body dto.AssetRequest true "Ключ файла"
// @Success 200 {object} response.Response{data=editor.ModalState}
// @Router /api/v1/editor/sessions/{session_id}/modal/asset [post]
func (r *Routers) ToggleModalAsset(c echo.Context) error {
	const op = "http.routers.ToggleModalAsset"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.AssetRequest
	if err := bind(c, &req); err != nil {
		return r.badRequest(c, log, err)
	}

	return r.modalAction(c, log, func(m *editor.Modal) error {
		return m.ToggleAsset(req.Key)
	})
}

// SetModalURL godoc
// @Summary Ввод URL изображения
// @Tags modal
// @Accept json
// @Produce json
// @Param session_id path string true "ID сессии"
// @Param request body dto.URLRequest true "URL"
// @Success 200 {object} response.Response{data=editor.ModalState}
// @Router /api/v1/editor/sessions/{session_id}/modal/url [put]
func (r *Routers) SetModalURL(c echo.Context) error {
	const op = "http.routers.SetModalURL"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.URLRequest
	if err := bind(c, &req); err != nil {
		return r.badRequest(c, log, err)
	}

	return r.modalAction(c, log, func(m *editor.Modal) error {
		return m.SetURL(req.URL)
	})
}

// SubmitModal godoc
// @Summary Подтверждение выбора изображения
// @Description Применяет выбор активной вкладки к блоку и закрывает окно. При ошибке окно остаётся открытым.
// @Tags modal
// @Produce json
// @Param session_id path string true "ID сессии"
// @Success 200 {object} response.Response{data=dto.SubmitImageResponse}
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 409 {object} response.ErrorResponse "Окно закрыто или запрос устарел"
// @Failure 413 {object} response.ErrorResponse "Файл слишком большой"
// @Failure 502 {object} response.ErrorResponse "Медиасервис отклонил загрузку"
// @Router /api/v1/editor/sessions/{session_id}/modal/submit [post]
func (r *Routers) SubmitModal(c echo.Context) error {
	const op = "http.routers.SubmitModal"

	log := r.log.With(
		slog.String("op", op),
		slog.String("session_id", c.Param("session_id")),
	)

	sess, err := r.session(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	blockID := sess.Modal.State().BlockID

	sel, err := sess.Modal.Submit(c.Request().Context())
	if err != nil {
		return r.fail(c, log, err)
	}

	resp := dto.SubmitImageResponse{Selection: sel}
	if img, err := sess.ImageBlock(blockID); err == nil {
		block := imageBlockResponse(img)
		resp.Block = &block
	}

	log.Info("image selected", slog.String("block_id", blockID), slog.String("url", sel.URL))

	return c.JSON(http.StatusOK, response.SuccessResponse(resp))
}

// CloseModal godoc
// @Summary Закрытие окна без выбора
// @Description Отменяет ожидающий запрос изображения.
// @Tags modal
// @Produce json
// @Param session_id path string true "ID сессии"
// @Success 200 {object} response.Response{data=editor.ModalState}
// @Router /api/v1/editor/sessions/{session_id}/modal [delete]
func (r *Routers) CloseModal(c echo.Context) error {
	const op = "http.routers.CloseModal"

	log := r.log.With(
		slog.String("op", op),
	)

	sess, err := r.session(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	sess.Modal.Close()

	return c.JSON(http.StatusOK, response.SuccessResponse(sess.Modal.State()))
}

// modalAction выполняет действие над окном сессии и отдаёт его новое состояние.
func (r *Routers) modalAction(c echo.Context, log *slog.Logger, action func(m *editor.Modal) error) error {
	sess, err := r.session(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	if err := action(sess.Modal); err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(sess.Modal.State()))
}
