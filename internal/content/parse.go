package content

import (
	"bytes"
	"encoding/json"
	"time"

	"blogdesk/internal/domain/models"
)

// Parse превращает сохранённый content в документ. Принимаются объект
// документа, JSON-строка с документом и старый plain text, который становится
// одним абзацем. Без контента возвращает nil.
func Parse(raw json.RawMessage, now time.Time) *models.BlockDocument {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	switch raw[0] {
	case '{':
		return decodeDocument(raw)
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return nil
		}
		return ParseString(s, now)
	default:
		return nil
	}
}

// ParseString разбирает content-строку: сериализованный JSON или старый текст.
// Корректный JSON без поля blocks контентом не считается.
func ParseString(s string, now time.Time) *models.BlockDocument {
	if s == "" {
		return nil
	}

	if !json.Valid([]byte(s)) {
		return LegacyDocument(s, now)
	}

	trimmed := bytes.TrimSpace([]byte(s))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	return decodeDocument(trimmed)
}

// LegacyDocument заворачивает plain text в документ из одного абзаца.
func LegacyDocument(text string, now time.Time) *models.BlockDocument {
	doc := models.NewDocument(now)
	doc.Blocks = append(doc.Blocks, models.NewBlock("", models.NewParagraph(text)))
	return &doc
}

func decodeDocument(raw []byte) *models.BlockDocument {
	var probe struct {
		Blocks json.RawMessage `json:"blocks"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil
	}
	if len(probe.Blocks) == 0 || bytes.Equal(probe.Blocks, []byte("null")) {
		return nil
	}

	var doc models.BlockDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	if doc.Blocks == nil {
		doc.Blocks = []models.Block{}
	}
	return &doc
}
