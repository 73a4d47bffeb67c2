package content

import (
	"encoding/json"
	"regexp"
	"strings"

	"blogdesk/internal/domain/models"
)

// WordsPerMinute скорость чтения для ReadingTime.
const WordsPerMinute = 200

var htmlTag = regexp.MustCompile(`<[^>]*>`)

type Stats struct {
	WordCount   int `json:"word_count"`
	ReadingTime int `json:"reading_time"`
}

func ComputeStats(doc models.BlockDocument) Stats {
	wc := WordCount(doc)
	return Stats{WordCount: wc, ReadingTime: ReadingTime(wc)}
}

// WordCount суммирует слова полей text и пунктов списков после удаления
// inline-разметки.
func WordCount(doc models.BlockDocument) int {
	count := 0
	for _, b := range doc.Blocks {
		text, items := countableFields(b.Data)
		count += countWords(text)
		for _, item := range items {
			count += countWords(item)
		}
	}
	return count
}

// ReadingTime возвращает целые минуты, не меньше одной.
func ReadingTime(words int) int {
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

func countWords(s string) int {
	if s == "" {
		return 0
	}
	return len(strings.Fields(htmlTag.ReplaceAllString(s, "")))
}

func countableFields(data models.BlockData) (string, []string) {
	switch d := data.(type) {
	case models.HeaderData:
		return d.Text, nil
	case models.ParagraphData:
		return d.Text, nil
	case models.QuoteData:
		return d.Text, nil
	case models.ListData:
		return "", flattenItems(d.Items, nil)
	case models.UnknownData:
		return rawCountableFields(d.Raw)
	default:
		return "", nil
	}
}

func flattenItems(items []models.ListItem, acc []string) []string {
	for _, item := range items {
		acc = append(acc, item.Content)
		acc = flattenItems(item.Items, acc)
	}
	return acc
}

// rawCountableFields читает text/items из данных без типизированного варианта.
func rawCountableFields(raw json.RawMessage) (string, []string) {
	if len(raw) == 0 {
		return "", nil
	}

	var aux struct {
		Text  any `json:"text"`
		Items any `json:"items"`
	}
	if err := json.Unmarshal(raw, &aux); err != nil {
		return "", nil
	}

	text, _ := aux.Text.(string)
	list, _ := aux.Items.([]any)
	items := make([]string, 0, len(list))
	for _, it := range list {
		if s, ok := it.(string); ok {
			items = append(items, s)
		}
	}
	return text, items
}
