package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"blogdesk/internal/content"
	"blogdesk/internal/domain/models"
	"blogdesk/internal/editor"
	"blogdesk/internal/lib/logger/sl"
	blogsvc "blogdesk/internal/services/blog_service"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var ErrSessionNotFound = errors.New("editor session not found")

// PostStore форма поста: загрузка, живая статистика и сохранение.
type PostStore interface {
	Load(ctx context.Context, idOrSlug string) (*blogsvc.EditablePost, error)
	LiveStats(doc models.BlockDocument) content.Stats
	Save(ctx context.Context, form blogsvc.PostForm, src blogsvc.ContentSource) (*models.Post, error)
}

// Session одна открытая форма поста: редактор с движком, модальное окно
// выбора изображения и поля формы.
type Session struct {
	ID        string
	Editor    *editor.Editor
	Modal     *editor.Modal
	CreatedAt time.Time

	mu   sync.Mutex
	form blogsvc.PostForm

	// Отдельная блокировка: колбэк изменений вызывается из горутины
	// редактора, которую Teardown ожидает.
	statsMu  sync.RWMutex
	stats    content.Stats
	revision int64

	// closed выставляется один раз, до уничтожения движка.
	lifeMu sync.Mutex
	closed bool
}

func (s *Session) Form() blogsvc.PostForm {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.form
}

// UpdateForm применяет fn к полям формы под блокировкой сессии.
func (s *Session) UpdateForm(fn func(*blogsvc.PostForm)) blogsvc.PostForm {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.form)
	return s.form
}

// Stats возвращает последние посчитанные слова/время чтения и число
// полученных изменений документа.
func (s *Session) Stats() (content.Stats, int64) {
	s.statsMu.RLock()
	defer s.statsMu.RUnlock()

	return s.stats, s.revision
}

func (s *Session) setStats(stats content.Stats) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	s.stats = stats
	s.revision++
}

// Engine возвращает живой движок сессии.
func (s *Session) Engine() (*editor.MemoryEngine, error) {
	engine, ok := s.Editor.Engine().(*editor.MemoryEngine)
	if !ok || engine == nil {
		return nil, editor.ErrNoEngine
	}
	return engine, nil
}

// ImageBlock возвращает инструмент блока-изображения.
func (s *Session) ImageBlock(blockID string) (*editor.ImageBlock, error) {
	engine, err := s.Engine()
	if err != nil {
		return nil, err
	}

	_, tool, ok := engine.Tool(blockID)
	if !ok {
		return nil, editor.ErrBlockNotFound
	}

	img, ok := tool.(*editor.ImageBlock)
	if !ok {
		return nil, editor.ErrNotImageBlock
	}
	return img, nil
}

// keepAlive выполняет fn, только пока сессия не закрыта.
func (s *Session) keepAlive(fn func()) bool {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()

	if s.closed {
		return false
	}
	fn()
	return true
}

func (s *Session) markClosed() {
	s.lifeMu.Lock()
	s.closed = true
	s.lifeMu.Unlock()
}

func (s *Session) teardown() error {
	s.Modal.Close()
	return s.Editor.Teardown()
}

// EditorService хранит сессии редактора в go-cache. Сессия, к которой не
// обращались дольше ttl, вытесняется, а её движок уничтожается.
type EditorService struct {
	log      *slog.Logger
	posts    PostStore
	images   editor.ImageSource
	cfg      editor.Config
	sessions *cache.Cache
	now      func() time.Time
}

func NewEditorService(log *slog.Logger, posts PostStore, images editor.ImageSource, cfg editor.Config, ttl time.Duration) *EditorService {
	cleanup := ttl / 2
	if ttl <= 0 {
		ttl, cleanup = cache.NoExpiration, 0
	}

	s := &EditorService{
		log:      log,
		posts:    posts,
		images:   images,
		cfg:      cfg,
		sessions: cache.New(ttl, cleanup),
		now:      time.Now,
	}
	s.sessions.OnEvicted(s.evicted)

	return s
}

// Open создаёт сессию. Пустой idOrSlug означает новый пост с пустым документом.
func (s *EditorService) Open(ctx context.Context, idOrSlug string) (*Session, error) {
	const op = "editor_service.Open"

	id := uuid.NewString()
	log := s.log.With(
		slog.String("op", op),
		slog.String("session_id", id),
	)

	var (
		form  blogsvc.PostForm
		doc   *models.BlockDocument
		stats = content.Stats{ReadingTime: content.ReadingTime(0)}
	)

	if idOrSlug != "" {
		loaded, err := s.posts.Load(ctx, idOrSlug)
		if err != nil {
			log.Error("failed to load post", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		form, doc = loaded.Form, loaded.Content
		if doc != nil {
			stats = loaded.Stats
		}
	}

	sessLog := s.log.With(slog.String("session_id", id))
	ed := editor.New(sessLog, editor.NewMemoryEngineFactory(), editor.WithClock(s.now))

	sess := &Session{
		ID:        id,
		Editor:    ed,
		Modal:     editor.NewModal(sessLog, s.images, ed),
		CreatedAt: s.now(),
		form:      form,
		stats:     stats,
	}

	ed.OnImageRequest(func(req editor.ImageRequest) {
		if err := sess.Modal.Open(req); err != nil {
			sessLog.Warn("failed to open image modal", sl.Err(err))
		}
	})
	ed.OnContentChange(func(doc models.BlockDocument) {
		sess.setStats(s.posts.LiveStats(doc))
	})

	if err := ed.Initialize(ctx, doc, s.cfg); err != nil {
		log.Error("failed to initialize editor", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.sessions.SetDefault(id, sess)

	log.Info("editor session opened", slog.String("post", idOrSlug))

	return sess, nil
}

// Get возвращает сессию и продлевает её срок жизни.
func (s *EditorService) Get(id string) (*Session, error) {
	v, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}

	sess := v.(*Session)
	if err := s.refresh(id, sess); err != nil {
		return nil, err
	}

	return sess, nil
}

// refresh продлевает срок жизни сессии. Сессию, которую уже вытеснили,
// обратно в кэш не кладём.
func (s *EditorService) refresh(id string, sess *Session) error {
	if !sess.keepAlive(func() { s.sessions.SetDefault(id, sess) }) {
		return ErrSessionNotFound
	}
	return nil
}

// Save сохраняет пост сессии. Сессия остаётся открытой.
func (s *EditorService) Save(ctx context.Context, id string) (*models.Post, error) {
	const op = "editor_service.Save"

	sess, err := s.Get(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	post, err := s.posts.Save(ctx, sess.Form(), sess.Editor)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sess.UpdateForm(func(f *blogsvc.PostForm) {
		f.ID = post.ID
		if post.Slug != "" {
			f.Slug = post.Slug
		}
	})

	return post, nil
}

// Close уничтожает сессию и её движок.
func (s *EditorService) Close(id string) error {
	v, ok := s.sessions.Get(id)
	if !ok {
		return ErrSessionNotFound
	}

	v.(*Session).markClosed()
	s.sessions.Delete(id)

	return nil
}

// Count число живых сессий.
func (s *EditorService) Count() int {
	return s.sessions.ItemCount()
}

// Shutdown закрывает все сессии.
func (s *EditorService) Shutdown() {
	for id, item := range s.sessions.Items() {
		if sess, ok := item.Object.(*Session); ok {
			sess.markClosed()
		}
		s.sessions.Delete(id)
	}
}

func (s *EditorService) evicted(id string, v interface{}) {
	const op = "editor_service.evicted"

	sess, ok := v.(*Session)
	if !ok {
		return
	}

	// Get мог продлить сессию между вытеснением и этим вызовом.
	sess.lifeMu.Lock()
	if !sess.closed {
		if cur, found := s.sessions.Get(id); found && cur == v {
			sess.lifeMu.Unlock()
			return
		}
		sess.closed = true
	}
	sess.lifeMu.Unlock()

	if err := sess.teardown(); err != nil {
		s.log.Error("failed to tear down session", slog.String("op", op), slog.String("session_id", id), sl.Err(err))
		return
	}

	s.log.Info("editor session closed", slog.String("op", op), slog.String("session_id", id))
}
