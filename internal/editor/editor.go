// Package editor управляет жизненным циклом блочного движка, блоком-изображением
// и модальным окном выбора изображения. Editor держит не больше одного движка,
// выбор изображения идёт через единственный ожидающий запрос.
package editor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"blogdesk/internal/content"
	"blogdesk/internal/domain/models"
	"blogdesk/internal/lib/logger/sl"

	"github.com/google/uuid"
)

// ImageRequest ожидающий запрос «выбрать изображение для блока».
type ImageRequest struct {
	ID        string    `json:"id"`
	BlockID   string    `json:"block_id"`
	Index     int       `json:"index"`
	CreatedAt time.Time `json:"created_at"`
}

type Editor struct {
	log     *slog.Logger
	factory EngineFactory
	now     func() time.Time

	mu             sync.Mutex
	engine         Engine
	stopWatch      context.CancelFunc
	watchDone      chan struct{}
	onChange       func(models.BlockDocument)
	onImageRequest func(ImageRequest)
	pending        *ImageRequest
}

type EditorOption func(*Editor)

// WithClock подменяет time.Now для меток времени документов и запросов.
func WithClock(now func() time.Time) EditorOption {
	return func(e *Editor) {
		e.now = now
	}
}

func New(log *slog.Logger, factory EngineFactory, opts ...EditorOption) *Editor {
	e := &Editor{
		log:     log,
		factory: factory,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize создаёт движок. При doc == nil документ пустой, иначе doc
// сначала проходит очистку при загрузке. Пока движок жив, повторный вызов
// ничего не меняет и возвращает ErrEngineExists.
func (e *Editor) Initialize(ctx context.Context, doc *models.BlockDocument, cfg Config) error {
	const op = "editor.Editor.Initialize"

	log := e.log.With(slog.String("op", op))

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.engine != nil {
		log.Debug("engine already initialized")
		return ErrEngineExists
	}

	if cfg.Version == "" {
		cfg.Version = models.EditorVersion
	}

	var initial models.BlockDocument
	if doc == nil {
		initial = models.NewDocument(e.now())
		initial.Version = cfg.Version
	} else {
		initial = content.SanitizeLoad(*doc)
	}

	cfg.OnSelectImage = e.RequestImageFor

	engine, err := e.factory(ctx, initial, cfg)
	if err != nil {
		log.Error("failed to initialize engine", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	e.engine = engine
	e.stopWatch = cancel
	e.watchDone = done

	go e.watch(watchCtx, engine, done)

	log.Info("editor initialized", slog.Int("blocks", len(initial.Blocks)))

	return nil
}

// OnContentChange регистрирует колбэк, получающий живой неочищенный документ
// после изменений. Доставка может отставать от последней правки.
func (e *Editor) OnContentChange(cb func(models.BlockDocument)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.onChange = cb
}

// OnImageRequest регистрирует слушателя, открывающего окно выбора.
func (e *Editor) OnImageRequest(cb func(ImageRequest)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.onImageRequest = cb
}

func (e *Editor) watch(ctx context.Context, engine Engine, done chan struct{}) {
	const op = "editor.Editor.watch"

	defer close(done)

	log := e.log.With(slog.String("op", op))

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-engine.Changes():
			if !ok {
				return
			}

			doc, err := engine.Save(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Warn("failed to pull document", sl.Err(err))
				}
				continue
			}

			e.mu.Lock()
			cb := e.onChange
			e.mu.Unlock()

			if cb != nil {
				cb(doc)
			}
		}
	}
}

// GetData забирает документ и чистит его перед сохранением. nil означает,
// что сохранять нечего.
func (e *Editor) GetData(ctx context.Context) (*models.BlockDocument, error) {
	const op = "editor.Editor.GetData"

	log := e.log.With(slog.String("op", op))

	e.mu.Lock()
	engine := e.engine
	e.mu.Unlock()

	if engine == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNoEngine)
	}

	doc, err := engine.Save(ctx)
	if err != nil {
		log.Error("failed to get editor data", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sanitized := content.SanitizeSave(doc)

	return &sanitized, nil
}

// Initialized сообщает, жив ли движок.
func (e *Editor) Initialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.engine != nil
}

// Engine возвращает живой движок или nil.
func (e *Editor) Engine() Engine {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.engine
}

// Teardown уничтожает движок один раз, повторные вызовы ничего не делают.
func (e *Editor) Teardown() error {
	const op = "editor.Editor.Teardown"

	log := e.log.With(slog.String("op", op))

	e.mu.Lock()
	engine := e.engine
	stop := e.stopWatch
	done := e.watchDone
	e.engine = nil
	e.stopWatch = nil
	e.watchDone = nil
	e.pending = nil
	e.mu.Unlock()

	if engine == nil {
		return nil
	}

	stop()
	err := engine.Destroy()
	<-done

	if err != nil {
		log.Error("failed to destroy engine", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("editor torn down")

	return nil
}

// RequestImageFor делает blockID целью единственного запроса изображения.
// Новый запрос при ожидающем отклоняется с ErrImageRequestPending.
func (e *Editor) RequestImageFor(blockID string) (ImageRequest, error) {
	const op = "editor.Editor.RequestImageFor"

	e.mu.Lock()

	if e.engine == nil {
		e.mu.Unlock()
		return ImageRequest{}, fmt.Errorf("%s: %w", op, ErrNoEngine)
	}
	if e.pending != nil {
		e.mu.Unlock()
		return ImageRequest{}, fmt.Errorf("%s: %w", op, ErrImageRequestPending)
	}

	idx, tool, ok := e.engine.Tool(blockID)
	if !ok {
		e.mu.Unlock()
		return ImageRequest{}, fmt.Errorf("%s: %w", op, ErrBlockNotFound)
	}
	if _, ok := tool.(*ImageBlock); !ok {
		e.mu.Unlock()
		return ImageRequest{}, fmt.Errorf("%s: %w", op, ErrNotImageBlock)
	}

	req := ImageRequest{
		ID:        uuid.NewString(),
		BlockID:   blockID,
		Index:     idx,
		CreatedAt: e.now(),
	}
	e.pending = &req
	listener := e.onImageRequest
	e.mu.Unlock()

	e.log.Debug("image requested",
		slog.String("op", op),
		slog.String("request_id", req.ID),
		slog.String("block_id", blockID),
	)

	if listener != nil {
		listener(req)
	}

	return req, nil
}

// PendingImageRequest возвращает ожидающий запрос, если он есть.
func (e *Editor) PendingImageRequest() (ImageRequest, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == nil {
		return ImageRequest{}, false
	}
	return *e.pending, true
}

// ResolveImageRequest передаёт sel блоку ожидающего запроса с данным id.
// Запрос снимается, даже если его блок уже удалён.
func (e *Editor) ResolveImageRequest(requestID string, sel models.ImageSelection) error {
	const op = "editor.Editor.ResolveImageRequest"

	log := e.log.With(
		slog.String("op", op),
		slog.String("request_id", requestID),
	)

	e.mu.Lock()
	if e.pending == nil {
		e.mu.Unlock()
		log.Warn("late image resolution dropped")
		return fmt.Errorf("%s: %w", op, ErrNoImageRequest)
	}
	if e.pending.ID != requestID {
		e.mu.Unlock()
		log.Warn("stale image resolution dropped")
		return fmt.Errorf("%s: %w", op, ErrStaleImageRequest)
	}
	req := *e.pending
	e.pending = nil
	engine := e.engine
	e.mu.Unlock()

	if engine == nil {
		return fmt.Errorf("%s: %w", op, ErrNoEngine)
	}

	_, tool, ok := engine.Tool(req.BlockID)
	if !ok {
		log.Warn("image target removed", slog.String("block_id", req.BlockID))
		return fmt.Errorf("%s: %w", op, ErrTargetGone)
	}
	target, ok := tool.(*ImageBlock)
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrTargetGone)
	}

	target.SetImage(sel.URL, sel.Caption)

	log.Info("image resolved", slog.String("block_id", req.BlockID))

	return nil
}

// CancelImageRequest снимает ожидающий запрос, поздний ответ будет отклонён.
func (e *Editor) CancelImageRequest() error {
	const op = "editor.Editor.CancelImageRequest"

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == nil {
		return fmt.Errorf("%s: %w", op, ErrNoImageRequest)
	}
	e.pending = nil
	return nil
}
