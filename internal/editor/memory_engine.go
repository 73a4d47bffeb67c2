package editor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"blogdesk/internal/domain/models"

	"github.com/google/uuid"
)

type slot struct {
	id   string
	typ  models.BlockType
	tool BlockTool
}

// BlockInfo позиция блока, только для чтения.
type BlockInfo struct {
	ID    string           `json:"id"`
	Type  models.BlockType `json:"type"`
	Index int              `json:"index"`
	Stub  bool             `json:"stub,omitempty"`
}

// MemoryEngine хранит документ в памяти процесса списком инструментов блоков.
type MemoryEngine struct {
	mu        sync.Mutex
	cfg       Config
	tools     map[models.BlockType]ToolSpec
	blocks    []*slot
	changes   chan struct{}
	destroyed bool
	now       func() time.Time
}

// NewMemoryEngineFactory возвращает фабрику MemoryEngine.
func NewMemoryEngineFactory() EngineFactory {
	return func(ctx context.Context, doc models.BlockDocument, cfg Config) (Engine, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return NewMemoryEngine(doc, cfg), nil
	}
}

func NewMemoryEngine(doc models.BlockDocument, cfg Config) *MemoryEngine {
	if cfg.Version == "" {
		cfg.Version = models.EditorVersion
	}
	if cfg.Tools == nil {
		cfg.Tools = DefaultTools(cfg.Placeholder)
	}

	e := &MemoryEngine{
		cfg:     cfg,
		tools:   blockTools(cfg.Tools),
		blocks:  make([]*slot, 0, len(doc.Blocks)),
		changes: make(chan struct{}, 1),
		now:     time.Now,
	}

	for _, b := range doc.Blocks {
		id := b.ID
		if id == "" {
			id = newBlockID()
		}
		e.blocks = append(e.blocks, e.newSlot(id, b.Type, models.CloneBlockData(b.Data)))
	}

	return e
}

func newBlockID() string {
	return uuid.NewString()
}

func (e *MemoryEngine) newSlot(id string, t models.BlockType, data models.BlockData) *slot {
	if _, ok := e.tools[t]; !ok {
		return &slot{id: id, typ: t, tool: &dataTool{data: data, stub: true}}
	}

	if t == models.BlockImage {
		img, _ := data.(models.ImageData)
		return &slot{id: id, typ: t, tool: NewImageBlock(id, img, ImageBlockConfig{
			ReadOnly:      e.cfg.ReadOnly,
			OnSelectImage: e.cfg.OnSelectImage,
			OnChange:      e.notify,
		})}
	}

	if data == nil {
		data = models.DecodeBlockData(t, nil)
	}
	return &slot{id: id, typ: t, tool: &dataTool{data: data}}
}

func (e *MemoryEngine) Save(ctx context.Context) (models.BlockDocument, error) {
	if err := ctx.Err(); err != nil {
		return models.BlockDocument{}, err
	}

	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return models.BlockDocument{}, ErrEngineDestroyed
	}
	slots := make([]*slot, len(e.blocks))
	copy(slots, e.blocks)
	e.mu.Unlock()

	doc := models.BlockDocument{
		Time:    e.now().UnixMilli(),
		Version: e.cfg.Version,
		Blocks:  make([]models.Block, 0, len(slots)),
	}
	for _, s := range slots {
		data := s.tool.Save()
		if !s.tool.Validate(data) {
			continue
		}
		doc.Blocks = append(doc.Blocks, models.Block{ID: s.id, Type: s.typ, Data: data})
	}

	return doc, nil
}

func (e *MemoryEngine) Changes() <-chan struct{} {
	return e.changes
}

func (e *MemoryEngine) Tool(blockID string) (int, BlockTool, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.destroyed {
		return 0, nil, false
	}
	for i, s := range e.blocks {
		if s.id == blockID {
			return i, s.tool, true
		}
	}
	return 0, nil, false
}

func (e *MemoryEngine) Destroy() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.destroyed {
		return ErrEngineDestroyed
	}
	e.destroyed = true
	e.blocks = nil
	close(e.changes)
	return nil
}

// Blocks перечисляет текущие позиции блоков.
func (e *MemoryEngine) Blocks() []BlockInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]BlockInfo, 0, len(e.blocks))
	for i, s := range e.blocks {
		info := BlockInfo{ID: s.id, Type: s.typ, Index: i}
		if dt, ok := s.tool.(*dataTool); ok {
			info.Stub = dt.stub
		}
		out = append(out, info)
	}
	return out
}

// InsertBlock вставляет блок зарегистрированного типа на index, index == len
// добавляет в конец. При data == nil вставляется пустой блок типа.
func (e *MemoryEngine) InsertBlock(index int, t models.BlockType, data models.BlockData) (string, error) {
	const op = "editor.MemoryEngine.InsertBlock"

	if data != nil && data.BlockType() != t {
		return "", fmt.Errorf("%s: data of %s block for %s: %w", op, data.BlockType(), t, ErrUnknownTool)
	}

	e.mu.Lock()
	if err := e.writableLocked(); err != nil {
		e.mu.Unlock()
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if _, ok := e.tools[t]; !ok {
		e.mu.Unlock()
		return "", fmt.Errorf("%s: %s: %w", op, t, ErrUnknownTool)
	}
	if index < 0 || index > len(e.blocks) {
		e.mu.Unlock()
		return "", fmt.Errorf("%s: %w", op, ErrIndexOutOfRange)
	}

	id := newBlockID()
	s := e.newSlot(id, t, data)
	e.blocks = append(e.blocks, nil)
	copy(e.blocks[index+1:], e.blocks[index:])
	e.blocks[index] = s
	e.mu.Unlock()

	e.notify()
	return id, nil
}

// UpdateBlock заменяет данные блока, кроме изображения.
func (e *MemoryEngine) UpdateBlock(blockID string, data models.BlockData) error {
	const op = "editor.MemoryEngine.UpdateBlock"

	e.mu.Lock()
	if err := e.writableLocked(); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("%s: %w", op, err)
	}

	s, _ := e.findLocked(blockID)
	if s == nil {
		e.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrBlockNotFound)
	}
	dt, ok := s.tool.(*dataTool)
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrImageImmutable)
	}
	if data == nil || data.BlockType() != s.typ {
		e.mu.Unlock()
		return fmt.Errorf("%s: data does not match %s block: %w", op, s.typ, ErrUnknownTool)
	}
	dt.set(data)
	e.mu.Unlock()

	e.notify()
	return nil
}

func (e *MemoryEngine) RemoveBlock(blockID string) error {
	const op = "editor.MemoryEngine.RemoveBlock"

	e.mu.Lock()
	if err := e.writableLocked(); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("%s: %w", op, err)
	}

	_, idx := e.findLocked(blockID)
	if idx < 0 {
		e.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrBlockNotFound)
	}
	e.blocks = append(e.blocks[:idx], e.blocks[idx+1:]...)
	e.mu.Unlock()

	e.notify()
	return nil
}

func (e *MemoryEngine) MoveBlock(blockID string, to int) error {
	const op = "editor.MemoryEngine.MoveBlock"

	e.mu.Lock()
	if err := e.writableLocked(); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("%s: %w", op, err)
	}

	s, from := e.findLocked(blockID)
	if s == nil {
		e.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrBlockNotFound)
	}
	if to < 0 || to >= len(e.blocks) {
		e.mu.Unlock()
		return fmt.Errorf("%s: %w", op, ErrIndexOutOfRange)
	}
	if from == to {
		e.mu.Unlock()
		return nil
	}

	e.blocks = append(e.blocks[:from], e.blocks[from+1:]...)
	e.blocks = append(e.blocks, nil)
	copy(e.blocks[to+1:], e.blocks[to:])
	e.blocks[to] = s
	e.mu.Unlock()

	e.notify()
	return nil
}

func (e *MemoryEngine) writableLocked() error {
	if e.destroyed {
		return ErrEngineDestroyed
	}
	if e.cfg.ReadOnly {
		return ErrReadOnly
	}
	return nil
}

func (e *MemoryEngine) findLocked(blockID string) (*slot, int) {
	for i, s := range e.blocks {
		if s.id == blockID {
			return s, i
		}
	}
	return nil, -1
}

// notify не блокируется, ожидающие сигналы склеиваются в один.
func (e *MemoryEngine) notify() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.destroyed {
		return
	}
	select {
	case e.changes <- struct{}{}:
	default:
	}
}
