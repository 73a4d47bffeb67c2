// Package renderer превращает блочный документ в разметку. Рендер не падает:
// неизвестный тип блока становится видимой заглушкой, блок без данных даёт
// пустой фрагмент на своём месте.
package renderer

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"blogdesk/internal/content"
	"blogdesk/internal/domain/models"
	"blogdesk/internal/lib/logger/sl"
)

// Policy чистит inline rich text. Подходит *bluemonday.Policy.
type Policy interface {
	Sanitize(s string) string
}

type RenderedBlock struct {
	Index int              `json:"index"`
	Type  models.BlockType `json:"type"`
	HTML  template.HTML    `json:"html"`
}

type Renderer struct {
	log    *slog.Logger
	tmpl   *template.Template
	policy Policy
}

type Option func(*Renderer)

// WithPolicy подключает очистку rich text. Без неё поля выводятся как есть.
func WithPolicy(p Policy) Option {
	return func(r *Renderer) {
		r.policy = p
	}
}

func New(log *slog.Logger, opts ...Option) *Renderer {
	r := &Renderer{
		log:  log,
		tmpl: template.Must(template.New("blocks").Parse(blockTemplates)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var headingSizes = map[int]string{
	1: "2xl",
	2: "xl",
	3: "lg",
	4: "md",
	5: "sm",
	6: "xs",
}

// Render отображает каждый блок в один фрагмент, порядок сохраняется.
func (r *Renderer) Render(doc models.BlockDocument) []RenderedBlock {
	out := make([]RenderedBlock, 0, len(doc.Blocks))
	for i, b := range doc.Blocks {
		out = append(out, RenderedBlock{
			Index: i,
			Type:  b.Type,
			HTML:  r.renderBlock(b),
		})
	}
	return out
}

// RenderLegacy рендерит plain text из времён до блочных документов: каждый
// двойной перевод строки начинает абзац. Текст экранируется.
func (r *Renderer) RenderLegacy(text string) []RenderedBlock {
	parts := strings.Split(text, "\n\n")
	out := make([]RenderedBlock, 0, len(parts))
	for i, p := range parts {
		out = append(out, RenderedBlock{
			Index: i,
			Type:  models.BlockParagraph,
			HTML:  r.exec("legacy", p),
		})
	}
	return out
}

// RenderValue принимает документ, указатель на него или старую строку и
// возвращает разметку целиком. Для всего остального выводится сообщение «нет контента».
func (r *Renderer) RenderValue(v any) template.HTML {
	switch val := v.(type) {
	case models.BlockDocument:
		return r.document(r.Render(val))
	case *models.BlockDocument:
		if val == nil {
			return r.exec("no-content", nil)
		}
		return r.document(r.Render(*val))
	case string:
		return r.document(r.RenderLegacy(val))
	default:
		return r.exec("no-content", nil)
	}
}

// RenderStored рендерит content в том виде, в каком его хранит блог-бэкенд.
func (r *Renderer) RenderStored(raw json.RawMessage) template.HTML {
	return r.RenderValue(Resolve(raw))
}

// Resolve приводит сохранённый content к виду для RenderValue: документ, если
// в значении (или в JSON внутри строки) есть массив blocks; саму строку для
// старого текста; иначе nil.
func Resolve(raw json.RawMessage) any {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	switch raw[0] {
	case '{':
		if doc := content.Parse(raw, time.Time{}); doc != nil {
			return *doc
		}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		trimmed := strings.TrimSpace(s)
		if strings.HasPrefix(trimmed, "{") && json.Valid([]byte(trimmed)) {
			if doc := content.Parse(json.RawMessage(trimmed), time.Time{}); doc != nil {
				return *doc
			}
		}
		return s
	default:
		return nil
	}
}

func (r *Renderer) document(blocks []RenderedBlock) template.HTML {
	return r.exec("document", blocks)
}

func (r *Renderer) renderBlock(b models.Block) template.HTML {
	switch d := b.Data.(type) {
	case models.HeaderData:
		tag, size := "h2", "lg"
		if s, ok := headingSizes[d.Level]; ok {
			tag, size = "h"+strconv.Itoa(d.Level), s
		}
		return r.exec("header", headerView{Tag: tag, Size: size, Text: r.rich(d.Text)})

	case models.ParagraphData:
		if !d.HasText() {
			return ""
		}
		return r.exec("paragraph", r.rich(d.Text))

	case models.ListData:
		if len(d.Items) == 0 {
			return ""
		}
		return r.exec("list", r.listView(d.Style == models.ListOrdered, d.Items))

	case models.QuoteData:
		return r.exec("quote", quoteView{Text: r.rich(d.Text), Caption: d.Caption})

	case models.CodeData:
		return r.exec("code", d.Code)

	case models.TableData:
		if len(d.Content) == 0 {
			return ""
		}
		return r.exec("table", r.tableView(d))

	case models.WarningData:
		return r.exec("warning", d)

	case models.LinkToolData:
		if d.Link == "" {
			return ""
		}
		v := linkView{Link: d.Link, Title: d.Link}
		if d.Meta != nil {
			if d.Meta.Title != "" {
				v.Title = d.Meta.Title
			}
			v.Description = d.Meta.Description
		}
		return r.exec("linkTool", v)

	case models.EmbedData:
		if d.Embed == "" {
			return ""
		}
		title := d.Caption
		if title == "" {
			title = "Embedded content"
		}
		return r.exec("embed", embedView{Src: d.Embed, Title: title, Caption: d.Caption})

	case models.ImageData:
		src := d.Source()
		if src == "" {
			return ""
		}
		alt := d.Caption
		if alt == "" {
			alt = "Blog image"
		}
		return r.exec("image", imageView{
			URL:            src,
			Alt:            alt,
			Caption:        d.Caption,
			WithBorder:     d.WithBorder,
			WithBackground: d.WithBackground,
			Stretched:      d.Stretched,
		})

	case models.DelimiterData:
		return r.exec("delimiter", nil)

	case models.UnknownData:
		if isKnown(d.Type) {
			r.log.Warn("malformed block data", slog.String("type", string(d.Type)))
			return ""
		}
		r.log.Warn("unknown block type", slog.String("type", string(d.Type)))
		return r.exec("unsupported", string(d.Type))

	default:
		return ""
	}
}

func (r *Renderer) exec(name string, data any) template.HTML {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		r.log.Error("failed to render block", slog.String("template", name), sl.Err(err))
		return ""
	}
	return template.HTML(buf.String())
}

func (r *Renderer) rich(s string) template.HTML {
	if r.policy != nil {
		s = r.policy.Sanitize(s)
	}
	return template.HTML(s)
}

func (r *Renderer) listView(ordered bool, items []models.ListItem) *listView {
	v := &listView{Ordered: ordered, Items: make([]listItemView, 0, len(items))}
	for _, it := range items {
		item := listItemView{Content: r.rich(it.Content)}
		if len(it.Items) > 0 {
			item.Children = r.listView(ordered, it.Items)
		}
		v.Items = append(v.Items, item)
	}
	return v
}

func (r *Renderer) tableView(d models.TableData) tableView {
	rows := d.Content
	var v tableView
	if d.WithHeadings {
		v.Head = r.richRow(rows[0])
		rows = rows[1:]
	}
	v.Rows = make([][]template.HTML, 0, len(rows))
	for _, row := range rows {
		v.Rows = append(v.Rows, r.richRow(row))
	}
	return v
}

func (r *Renderer) richRow(row []string) []template.HTML {
	out := make([]template.HTML, 0, len(row))
	for _, cell := range row {
		out = append(out, r.rich(cell))
	}
	return out
}

func isKnown(t models.BlockType) bool {
	for _, k := range models.KnownBlockTypes {
		if k == t {
			return true
		}
	}
	return false
}

type headerView struct {
	Tag  string
	Size string
	Text template.HTML
}

type listView struct {
	Ordered bool
	Items   []listItemView
}

type listItemView struct {
	Content  template.HTML
	Children *listView
}

type quoteView struct {
	Text    template.HTML
	Caption string
}

type tableView struct {
	Head []template.HTML
	Rows [][]template.HTML
}

type linkView struct {
	Link        string
	Title       string
	Description string
}

type embedView struct {
	Src     string
	Title   string
	Caption string
}

type imageView struct {
	URL            string
	Alt            string
	Caption        string
	WithBorder     bool
	WithBackground bool
	Stretched      bool
}
