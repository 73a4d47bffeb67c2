package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/davidscottmills/goeditorjs"
)

// EditorVersion проставляется в документы, созданные сервисом.
const EditorVersion = "2.29.0"

type BlockType string

const (
	BlockHeader    BlockType = "header"
	BlockParagraph BlockType = "paragraph"
	BlockList      BlockType = "list"
	BlockQuote     BlockType = "quote"
	BlockCode      BlockType = "code"
	BlockTable     BlockType = "table"
	BlockWarning   BlockType = "warning"
	BlockLinkTool  BlockType = "linkTool"
	BlockEmbed     BlockType = "embed"
	BlockImage     BlockType = "image"
	BlockDelimiter BlockType = "delimiter"
)

// KnownBlockTypes типы блоков со своим вариантом данных.
var KnownBlockTypes = []BlockType{
	BlockHeader,
	BlockParagraph,
	BlockList,
	BlockQuote,
	BlockCode,
	BlockTable,
	BlockWarning,
	BlockLinkTool,
	BlockEmbed,
	BlockImage,
	BlockDelimiter,
}

// BlockData данные одного блока. У каждого типа ровно один вариант, блоки
// незарегистрированных типов несут UnknownData.
type BlockData interface {
	BlockType() BlockType
}

type HeaderData struct {
	Text  string `json:"text"`
	Level int    `json:"level,omitempty"`
}

func (HeaderData) BlockType() BlockType { return BlockHeader }

// ParagraphData помнит, было ли поле text в исходном документе: очистка при
// загрузке оставляет пустой, но заданный абзац.
type ParagraphData struct {
	Text    string
	defined bool
}

func NewParagraph(text string) ParagraphData {
	return ParagraphData{Text: text, defined: true}
}

func (ParagraphData) BlockType() BlockType { return BlockParagraph }

func (p ParagraphData) HasText() bool { return p.defined }

func (p ParagraphData) MarshalJSON() ([]byte, error) {
	if !p.defined {
		return []byte("{}"), nil
	}
	return json.Marshal(struct {
		Text string `json:"text"`
	}{Text: p.Text})
}

func (p *ParagraphData) UnmarshalJSON(b []byte) error {
	var aux struct {
		Text *string `json:"text"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*p = ParagraphData{}
	if aux.Text != nil {
		p.Text = *aux.Text
		p.defined = true
	}
	return nil
}

type ListStyle string

const (
	ListOrdered   ListStyle = "ordered"
	ListUnordered ListStyle = "unordered"
)

type ListData struct {
	Style ListStyle  `json:"style"`
	Items []ListItem `json:"items"`
}

func (ListData) BlockType() BlockType { return BlockList }

// ListItem принимает оба формата списков: строки и вложенные объекты
// {content, items}. Пункты без детей записываются обратно строками.
type ListItem struct {
	Content string
	Items   []ListItem
}

func (i ListItem) MarshalJSON() ([]byte, error) {
	if len(i.Items) == 0 {
		return json.Marshal(i.Content)
	}
	return json.Marshal(struct {
		Content string     `json:"content"`
		Items   []ListItem `json:"items"`
	}{Content: i.Content, Items: i.Items})
}

func (i *ListItem) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		*i = ListItem{}
		return json.Unmarshal(b, &i.Content)
	}

	var aux struct {
		Content string     `json:"content"`
		Items   []ListItem `json:"items"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*i = ListItem{Content: aux.Content, Items: aux.Items}
	return nil
}

type QuoteData struct {
	Text      string `json:"text"`
	Caption   string `json:"caption,omitempty"`
	Alignment string `json:"alignment,omitempty"`
}

func (QuoteData) BlockType() BlockType { return BlockQuote }

type CodeData struct {
	Code string `json:"code"`
}

func (CodeData) BlockType() BlockType { return BlockCode }

type TableData struct {
	WithHeadings bool       `json:"withHeadings"`
	Content      [][]string `json:"content"`
}

func (TableData) BlockType() BlockType { return BlockTable }

type WarningData struct {
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
}

func (WarningData) BlockType() BlockType { return BlockWarning }

type LinkMeta struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

type LinkToolData struct {
	Link string    `json:"link"`
	Meta *LinkMeta `json:"meta,omitempty"`
}

func (LinkToolData) BlockType() BlockType { return BlockLinkTool }

type EmbedData struct {
	Service string `json:"service,omitempty"`
	Source  string `json:"source,omitempty"`
	Embed   string `json:"embed"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Caption string `json:"caption,omitempty"`
}

func (EmbedData) BlockType() BlockType { return BlockEmbed }

type ImageFile struct {
	URL string `json:"url"`
}

type ImageData struct {
	URL            string     `json:"url"`
	File           *ImageFile `json:"file,omitempty"`
	Caption        string     `json:"caption"`
	WithBorder     bool       `json:"withBorder"`
	WithBackground bool       `json:"withBackground"`
	Stretched      bool       `json:"stretched"`
}

func (ImageData) BlockType() BlockType { return BlockImage }

// Source возвращает file.url, если он есть (формат image-tool), иначе url.
func (d ImageData) Source() string {
	if d.File != nil && d.File.URL != "" {
		return d.File.URL
	}
	return d.URL
}

type DelimiterData struct{}

func (DelimiterData) BlockType() BlockType { return BlockDelimiter }

// UnknownData хранит данные блока без варианта либо данные, не подошедшие
// к своему варианту.
type UnknownData struct {
	Type BlockType
	Raw  json.RawMessage
}

func (u UnknownData) BlockType() BlockType { return u.Type }

// IsValidImageURL сообщает, можно ли сохранить url в блоке-изображении.
func IsValidImageURL(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

type Block struct {
	ID   string
	Type BlockType
	Data BlockData
}

func NewBlock(id string, data BlockData) Block {
	return Block{ID: id, Type: data.BlockType(), Data: data}
}

type wireBlock struct {
	ID string `json:"id,omitempty"`
	goeditorjs.EditorJSBlock
}

func (b Block) MarshalJSON() ([]byte, error) {
	var raw json.RawMessage
	switch d := b.Data.(type) {
	case nil:
		raw = json.RawMessage("{}")
	case UnknownData:
		raw = d.Raw
		if len(raw) == 0 {
			raw = json.RawMessage("{}")
		}
	default:
		data, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("marshal %s block: %w", b.Type, err)
		}
		raw = data
	}

	return json.Marshal(wireBlock{
		ID: b.ID,
		EditorJSBlock: goeditorjs.EditorJSBlock{
			Type: string(b.Type),
			Data: raw,
		},
	})
}

func (b *Block) UnmarshalJSON(data []byte) error {
	var w wireBlock
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	b.ID = w.ID
	b.Type = BlockType(w.Type)
	b.Data = DecodeBlockData(b.Type, w.Data)
	return nil
}

// DecodeBlockData не возвращает ошибок: неподходящие данные остаются
// UnknownData, и блок сохраняет своё место в документе.
func DecodeBlockData(t BlockType, raw json.RawMessage) BlockData {
	var (
		data BlockData
		err  error
	)

	empty := len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))

	switch t {
	case BlockHeader:
		var d HeaderData
		err = decodeInto(raw, empty, &d)
		data = d
	case BlockParagraph:
		var d ParagraphData
		err = decodeInto(raw, empty, &d)
		data = d
	case BlockList:
		var d ListData
		err = decodeInto(raw, empty, &d)
		data = d
	case BlockQuote:
		var d QuoteData
		err = decodeInto(raw, empty, &d)
		data = d
	case BlockCode:
		var d CodeData
		err = decodeInto(raw, empty, &d)
		data = d
	case BlockTable:
		var d TableData
		err = decodeInto(raw, empty, &d)
		data = d
	case BlockWarning:
		var d WarningData
		err = decodeInto(raw, empty, &d)
		data = d
	case BlockLinkTool:
		var d LinkToolData
		err = decodeInto(raw, empty, &d)
		data = d
	case BlockEmbed:
		var d EmbedData
		err = decodeInto(raw, empty, &d)
		data = d
	case BlockImage:
		var d ImageData
		err = decodeInto(raw, empty, &d)
		data = d
	case BlockDelimiter:
		data = DelimiterData{}
	default:
		return UnknownData{Type: t, Raw: cloneRaw(raw)}
	}

	if err != nil {
		return UnknownData{Type: t, Raw: cloneRaw(raw)}
	}
	return data
}

func decodeInto(raw json.RawMessage, empty bool, v any) error {
	if empty {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out
}

// BlockDocument содержимое поста. Блоки идут в порядке показа.
type BlockDocument struct {
	Time    int64   `json:"time"`
	Version string  `json:"version"`
	Blocks  []Block `json:"blocks"`
}

func NewDocument(now time.Time) BlockDocument {
	return BlockDocument{
		Time:    now.UnixMilli(),
		Version: EditorVersion,
		Blocks:  []Block{},
	}
}

func (d BlockDocument) MarshalJSON() ([]byte, error) {
	type alias BlockDocument
	if d.Blocks == nil {
		d.Blocks = []Block{}
	}
	return json.Marshal(alias(d))
}

// IsEmpty сообщает, что блоков нет. Такой документ корректен, но считается
// «без контента».
func (d BlockDocument) IsEmpty() bool {
	return len(d.Blocks) == 0
}

// Clone возвращает копию без общего изменяемого состояния с d.
func (d BlockDocument) Clone() BlockDocument {
	out := BlockDocument{
		Time:    d.Time,
		Version: d.Version,
		Blocks:  make([]Block, len(d.Blocks)),
	}
	for i, b := range d.Blocks {
		out.Blocks[i] = Block{ID: b.ID, Type: b.Type, Data: CloneBlockData(b.Data)}
	}
	return out
}

func CloneBlockData(data BlockData) BlockData {
	switch d := data.(type) {
	case ListData:
		d.Items = cloneListItems(d.Items)
		return d
	case TableData:
		if d.Content != nil {
			rows := make([][]string, len(d.Content))
			for i, row := range d.Content {
				rows[i] = append([]string(nil), row...)
			}
			d.Content = rows
		}
		return d
	case LinkToolData:
		if d.Meta != nil {
			meta := *d.Meta
			d.Meta = &meta
		}
		return d
	case ImageData:
		if d.File != nil {
			file := *d.File
			d.File = &file
		}
		return d
	case UnknownData:
		d.Raw = cloneRaw(d.Raw)
		return d
	default:
		return data
	}
}

func cloneListItems(items []ListItem) []ListItem {
	if items == nil {
		return nil
	}
	out := make([]ListItem, len(items))
	for i, item := range items {
		out[i] = ListItem{Content: item.Content, Items: cloneListItems(item.Items)}
	}
	return out
}

// ImageSelection выбор из окна изображений, его один раз получает
// запросивший блок.
type ImageSelection struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}
