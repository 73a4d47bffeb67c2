package editor

import (
	"bytes"
	"html/template"
	"sync"

	"blogdesk/internal/domain/models"
)

type ImageState string

const (
	ImageEmpty     ImageState = "empty"
	ImagePopulated ImageState = "populated"
)

const (
	SettingWithBorder     = "withBorder"
	SettingStretched      = "stretched"
	SettingWithBackground = "withBackground"
)

type Setting struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Icon   string `json:"icon"`
	Active bool   `json:"active"`
}

var imageSettings = []Setting{
	{Name: SettingWithBorder, Title: "Border", Icon: "□"},
	{Name: SettingStretched, Title: "Stretch", Icon: "↔"},
	{Name: SettingWithBackground, Title: "Background", Icon: "▢"},
}

type ImageBlockConfig struct {
	ReadOnly      bool
	OnSelectImage func(blockID string) (ImageRequest, error)
	OnChange      func()
}

// ImageBlock инструмент блока-изображения. Картинка меняется только через
// SetImage, который Editor вызывает при ответе на запрос изображения.
type ImageBlock struct {
	mu   sync.Mutex
	id   string
	cfg  ImageBlockConfig
	data models.ImageData

	// подпись в том виде, в каком её правят в блоке; nil, пока картинки нет
	liveCaption *string
}

func NewImageBlock(id string, data models.ImageData, cfg ImageBlockConfig) *ImageBlock {
	b := &ImageBlock{
		id:  id,
		cfg: cfg,
		data: models.ImageData{
			URL:            data.Source(),
			Caption:        data.Caption,
			WithBorder:     data.WithBorder,
			WithBackground: data.WithBackground,
			Stretched:      data.Stretched,
		},
	}
	if b.populatedLocked() {
		caption := b.data.Caption
		b.liveCaption = &caption
	}
	return b
}

func (b *ImageBlock) ID() string { return b.id }

func (b *ImageBlock) State() ImageState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.populatedLocked() {
		return ImagePopulated
	}
	return ImageEmpty
}

func (b *ImageBlock) populatedLocked() bool {
	return models.IsValidImageURL(b.data.URL)
}

// Click клик по заглушке и кнопка «Change Image»: просит у редактора окно
// выбора. Состояние блока не меняется.
func (b *ImageBlock) Click() (ImageRequest, error) {
	if b.cfg.ReadOnly {
		return ImageRequest{}, ErrReadOnly
	}
	if b.cfg.OnSelectImage == nil {
		return ImageRequest{}, ErrNoEngine
	}
	return b.cfg.OnSelectImage(b.id)
}

// SetImage показывает url с подписью в любом состоянии блока.
func (b *ImageBlock) SetImage(url, caption string) {
	b.mu.Lock()
	b.data.URL = url
	b.data.Caption = caption
	b.liveCaption = nil
	if b.populatedLocked() {
		c := caption
		b.liveCaption = &c
	}
	b.mu.Unlock()

	b.changed()
}

// EditCaption меняет подпись заполненного блока.
func (b *ImageBlock) EditCaption(caption string) error {
	if b.cfg.ReadOnly {
		return ErrReadOnly
	}

	b.mu.Lock()
	if b.liveCaption == nil {
		b.mu.Unlock()
		return ErrImageEmpty
	}
	*b.liveCaption = caption
	b.mu.Unlock()

	b.changed()
	return nil
}

// ToggleSetting переключает один флаг отображения и возвращает новое значение.
// Флаги независимы.
func (b *ImageBlock) ToggleSetting(name string) (bool, error) {
	if b.cfg.ReadOnly {
		return false, ErrReadOnly
	}

	b.mu.Lock()
	var v *bool
	switch name {
	case SettingWithBorder:
		v = &b.data.WithBorder
	case SettingStretched:
		v = &b.data.Stretched
	case SettingWithBackground:
		v = &b.data.WithBackground
	default:
		b.mu.Unlock()
		return false, ErrUnknownSetting
	}
	*v = !*v
	out := *v
	b.mu.Unlock()

	b.changed()
	return out, nil
}

func (b *ImageBlock) Settings() []Setting {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Setting, len(imageSettings))
	copy(out, imageSettings)
	for i := range out {
		switch out[i].Name {
		case SettingWithBorder:
			out[i].Active = b.data.WithBorder
		case SettingStretched:
			out[i].Active = b.data.Stretched
		case SettingWithBackground:
			out[i].Active = b.data.WithBackground
		}
	}
	return out
}

// Save берёт отредактированную подпись вместо сохранённой.
func (b *ImageBlock) Save() models.BlockData {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.data
	out.File = nil
	if b.liveCaption != nil {
		out.Caption = *b.liveCaption
	}
	return out
}

// Validate принимает любое состояние, пустые блоки отсеивает очистка при
// сохранении.
func (b *ImageBlock) Validate(models.BlockData) bool {
	return true
}

var imageBlockTmpl = template.Must(template.New("image-block").Parse(
	`{{if .Populated}}<div class="simple-image-tool"><div class="image-container"><img src="{{.URL}}" alt="{{.Alt}}"` +
		` class="{{if .WithBorder}}with-border {{end}}{{if .Stretched}}stretched {{end}}{{if .WithBackground}}with-background{{end}}">` +
		`<div class="image-caption" contenteditable="{{.Editable}}" data-placeholder="Add a caption...">{{.Caption}}</div>` +
		`{{if .Interactive}}<button type="button" class="change-image">Change Image</button>{{end}}</div></div>` +
		`{{else}}<div class="simple-image-tool"><div class="image-placeholder{{if .Interactive}} clickable{{end}}">` +
		`<span>Click to Select Image</span><small>Upload, paste URL, or choose from library</small></div></div>{{end}}`,
))

type imageBlockView struct {
	Populated      bool
	Interactive    bool
	Editable       bool
	URL            string
	Alt            string
	Caption        template.HTML
	WithBorder     bool
	Stretched      bool
	WithBackground bool
}

// Render возвращает разметку блока в редакторе: заглушку для пустого блока,
// иначе картинку с редактируемой подписью и кнопкой «Change Image».
func (b *ImageBlock) Render() template.HTML {
	b.mu.Lock()
	v := imageBlockView{
		Populated:      b.populatedLocked(),
		Interactive:    !b.cfg.ReadOnly && b.cfg.OnSelectImage != nil,
		Editable:       !b.cfg.ReadOnly,
		URL:            b.data.URL,
		Alt:            b.data.Caption,
		WithBorder:     b.data.WithBorder,
		Stretched:      b.data.Stretched,
		WithBackground: b.data.WithBackground,
	}
	if b.liveCaption != nil {
		v.Caption = template.HTML(*b.liveCaption)
	}
	b.mu.Unlock()

	if v.Alt == "" {
		v.Alt = "Image"
	}

	var buf bytes.Buffer
	if err := imageBlockTmpl.Execute(&buf, v); err != nil {
		return ""
	}
	return template.HTML(buf.String())
}

func (b *ImageBlock) changed() {
	if b.cfg.OnChange != nil {
		b.cfg.OnChange()
	}
}
