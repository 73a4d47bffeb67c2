// Package content содержит правила для блочных документов на границе хранения:
// очистка при загрузке и сохранении, разбор сохранённого content, подсчёт слов
// и времени чтения.
package content

import (
	"strings"

	"blogdesk/internal/domain/models"
)

// SanitizeLoad фильтрует сохранённый документ перед передачей в редактор.
// Блоки-изображения без http(s) URL выбрасываются; абзац остаётся, пока у него
// есть поле text, даже пустое.
func SanitizeLoad(doc models.BlockDocument) models.BlockDocument {
	return filter(doc, keepOnLoad)
}

// SanitizeSave фильтрует живой документ перед сохранением. Повторное
// применение ничего не меняет.
func SanitizeSave(doc models.BlockDocument) models.BlockDocument {
	return filter(doc, keepOnSave)
}

func filter(doc models.BlockDocument, keep func(models.Block) bool) models.BlockDocument {
	out := models.BlockDocument{
		Time:    doc.Time,
		Version: doc.Version,
		Blocks:  make([]models.Block, 0, len(doc.Blocks)),
	}
	for _, b := range doc.Blocks {
		if keep(b) {
			out.Blocks = append(out.Blocks, b)
		}
	}
	return out
}

func keepOnLoad(b models.Block) bool {
	switch d := b.Data.(type) {
	case models.ImageData:
		return models.IsValidImageURL(d.Source())
	case models.ParagraphData:
		return d.HasText()
	case models.HeaderData, models.ListData, models.QuoteData, models.CodeData,
		models.TableData, models.WarningData, models.LinkToolData, models.EmbedData,
		models.DelimiterData:
		return true
	case models.UnknownData:
		// у нераспознанного изображения или абзаца нет годного url/text
		return d.Type != models.BlockImage && d.Type != models.BlockParagraph
	default:
		return b.Type != models.BlockImage
	}
}

func keepOnSave(b models.Block) bool {
	switch d := b.Data.(type) {
	case models.ImageData:
		return models.IsValidImageURL(d.Source())
	case models.ParagraphData:
		return strings.TrimSpace(d.Text) != ""
	case models.HeaderData, models.ListData, models.QuoteData, models.CodeData,
		models.TableData, models.WarningData, models.LinkToolData, models.EmbedData,
		models.DelimiterData:
		return true
	case models.UnknownData:
		return d.Type != models.BlockImage && d.Type != models.BlockParagraph
	default:
		return b.Type != models.BlockImage
	}
}
