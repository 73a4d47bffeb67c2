package editor

import (
	"sync"

	"blogdesk/internal/domain/models"
)

// ToolSpec описывает зарегистрированный инструмент редактора. Inline-инструменты
// форматируют текст внутри блоков и типом блока не бывают.
type ToolSpec struct {
	Name          string         `json:"name"`
	Inline        bool           `json:"inline,omitempty"`
	InlineToolbar bool           `json:"inline_toolbar,omitempty"`
	Config        map[string]any `json:"config,omitempty"`
}

const DefaultPlaceholder = "Start writing your content..."

// DefaultTools набор инструментов редактора постов.
func DefaultTools(placeholder string) []ToolSpec {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}

	return []ToolSpec{
		{
			Name:          string(models.BlockHeader),
			InlineToolbar: true,
			Config: map[string]any{
				"placeholder":  "Enter a heading",
				"levels":       []int{1, 2, 3, 4, 5, 6},
				"defaultLevel": 2,
			},
		},
		{
			Name:          string(models.BlockParagraph),
			InlineToolbar: true,
			Config:        map[string]any{"placeholderText": placeholder},
		},
		{
			Name:          string(models.BlockList),
			InlineToolbar: true,
			Config:        map[string]any{"defaultStyle": string(models.ListUnordered)},
		},
		{
			Name:          string(models.BlockQuote),
			InlineToolbar: true,
			Config: map[string]any{
				"quotePlaceholder":   "Enter a quote",
				"captionPlaceholder": "Quote author",
			},
		},
		{
			Name:   string(models.BlockCode),
			Config: map[string]any{"placeholder": "Enter code here..."},
		},
		{Name: "inlineCode", Inline: true},
		{Name: "marker", Inline: true},
		{Name: "underline", Inline: true},
		{
			Name:          string(models.BlockTable),
			InlineToolbar: true,
			Config:        map[string]any{"rows": 2, "cols": 3},
		},
		{
			Name:          string(models.BlockWarning),
			InlineToolbar: true,
			Config: map[string]any{
				"titlePlaceholder":   "Title",
				"messagePlaceholder": "Message",
			},
		},
		{Name: string(models.BlockLinkTool)},
		{
			Name: string(models.BlockEmbed),
			Config: map[string]any{
				"services": []string{"youtube", "vimeo", "twitter", "instagram", "codepen", "github"},
			},
		},
		{
			Name: string(models.BlockImage),
			Config: map[string]any{
				"captionPlaceholder": "Image caption",
				"buttonContent":      "Select an image",
			},
		},
		{Name: string(models.BlockDelimiter)},
	}
}

func blockTools(tools []ToolSpec) map[models.BlockType]ToolSpec {
	out := make(map[models.BlockType]ToolSpec, len(tools))
	for _, t := range tools {
		if t.Inline {
			continue
		}
		out[models.BlockType(t.Name)] = t
	}
	return out
}

// BlockTool инструмент одного блока, движок опрашивает его при сохранении.
type BlockTool interface {
	Save() models.BlockData
	Validate(data models.BlockData) bool
}

// dataTool обслуживает блоки без интерактива. Заглушки держат блоки
// незарегистрированных типов, чтобы их данные пережили сохранение.
type dataTool struct {
	mu   sync.Mutex
	data models.BlockData
	stub bool
}

func (t *dataTool) Save() models.BlockData {
	t.mu.Lock()
	defer t.mu.Unlock()

	return models.CloneBlockData(t.data)
}

func (t *dataTool) set(data models.BlockData) {
	t.mu.Lock()
	t.data = models.CloneBlockData(data)
	t.mu.Unlock()
}

func (t *dataTool) Validate(models.BlockData) bool {
	return true
}
