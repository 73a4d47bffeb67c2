package editor

import (
	"context"

	"blogdesk/internal/domain/models"
)

// Engine блочный движок, которым владеет ровно один Editor.
type Engine interface {
	// Save забирает весь текущий документ.
	Save(ctx context.Context) (models.BlockDocument, error)
	// Changes сигналит после каждого изменения. Сигналы склеиваются,
	// канал закрывается при уничтожении движка.
	Changes() <-chan struct{}
	// Tool возвращает инструмент блока и его текущий индекс.
	Tool(blockID string) (int, BlockTool, bool)
	Destroy() error
}

// EngineFactory создаёт движок с документом doc.
type EngineFactory func(ctx context.Context, doc models.BlockDocument, cfg Config) (Engine, error)

type Config struct {
	Placeholder string
	ReadOnly    bool
	Version     string
	Tools       []ToolSpec

	// OnSelectImage вызывают блоки-изображения, чтобы открыть окно выбора.
	// Editor ставит его при инициализации.
	OnSelectImage func(blockID string) (ImageRequest, error)
}

func DefaultConfig() Config {
	return Config{
		Placeholder: DefaultPlaceholder,
		Version:     models.EditorVersion,
		Tools:       DefaultTools(DefaultPlaceholder),
	}
}
