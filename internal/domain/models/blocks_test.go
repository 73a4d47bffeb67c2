package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockDocument_UnmarshalVariants(t *testing.T) {
	raw := `{
		"time": 1700000000000,
		"version": "2.29.0",
		"blocks": [
			{"id": "h1", "type": "header", "data": {"text": "Title", "level": 3}},
			{"id": "p1", "type": "paragraph", "data": {"text": "Hello <b>world</b>"}},
			{"id": "p2", "type": "paragraph", "data": {}},
			{"id": "l1", "type": "list", "data": {"style": "ordered", "items": ["a", {"content": "b", "items": ["c"]}]}},
			{"id": "i1", "type": "image", "data": {"file": {"url": "https://cdn/x.png"}, "caption": "cap"}},
			{"id": "d1", "type": "delimiter", "data": {}},
			{"id": "x1", "type": "chart", "data": {"series": [1, 2, 3]}}
		]
	}`

	var doc BlockDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, int64(1700000000000), doc.Time)
	assert.Equal(t, "2.29.0", doc.Version)
	require.Len(t, doc.Blocks, 7)

	header, ok := doc.Blocks[0].Data.(HeaderData)
	require.True(t, ok)
	assert.Equal(t, 3, header.Level)

	p1 := doc.Blocks[1].Data.(ParagraphData)
	assert.True(t, p1.HasText())
	assert.Equal(t, "Hello <b>world</b>", p1.Text)

	p2 := doc.Blocks[2].Data.(ParagraphData)
	assert.False(t, p2.HasText())

	list := doc.Blocks[3].Data.(ListData)
	assert.Equal(t, ListOrdered, list.Style)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "a", list.Items[0].Content)
	assert.Equal(t, "b", list.Items[1].Content)
	require.Len(t, list.Items[1].Items, 1)
	assert.Equal(t, "c", list.Items[1].Items[0].Content)

	img := doc.Blocks[4].Data.(ImageData)
	assert.Equal(t, "https://cdn/x.png", img.Source())

	_, ok = doc.Blocks[5].Data.(DelimiterData)
	assert.True(t, ok)

	unknown, ok := doc.Blocks[6].Data.(UnknownData)
	require.True(t, ok)
	assert.Equal(t, BlockType("chart"), unknown.BlockType())
	assert.JSONEq(t, `{"series": [1, 2, 3]}`, string(unknown.Raw))
}

func TestBlock_MarshalRoundTripPreservesUnknown(t *testing.T) {
	in := `{"id":"x1","type":"chart","data":{"series":[1,2,3],"title":"t"}}`

	var b Block
	require.NoError(t, json.Unmarshal([]byte(in), &b))

	out, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestBlock_MalformedKnownTypeIsKept(t *testing.T) {
	var b Block
	require.NoError(t, json.Unmarshal([]byte(`{"type":"header","data":{"level":"big"}}`), &b))

	unknown, ok := b.Data.(UnknownData)
	require.True(t, ok)
	assert.Equal(t, BlockHeader, unknown.Type)
}

func TestBlock_MissingData(t *testing.T) {
	var b Block
	require.NoError(t, json.Unmarshal([]byte(`{"type":"quote"}`), &b))

	q, ok := b.Data.(QuoteData)
	require.True(t, ok)
	assert.Empty(t, q.Text)
}

func TestListItem_Marshal(t *testing.T) {
	items := []ListItem{
		{Content: "plain"},
		{Content: "parent", Items: []ListItem{{Content: "child"}}},
	}

	out, err := json.Marshal(items)
	require.NoError(t, err)
	assert.JSONEq(t, `["plain", {"content": "parent", "items": ["child"]}]`, string(out))
}

func TestParagraphData_MarshalUndefined(t *testing.T) {
	out, err := json.Marshal(NewBlock("p", ParagraphData{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"p","type":"paragraph","data":{}}`, string(out))

	out, err = json.Marshal(NewBlock("p", NewParagraph("")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"p","type":"paragraph","data":{"text":""}}`, string(out))
}

func TestNewDocument(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	doc := NewDocument(now)

	assert.Equal(t, int64(1700000000123), doc.Time)
	assert.Equal(t, EditorVersion, doc.Version)
	assert.True(t, doc.IsEmpty())

	out, err := json.Marshal(BlockDocument{Version: EditorVersion})
	require.NoError(t, err)
	assert.JSONEq(t, `{"time":0,"version":"2.29.0","blocks":[]}`, string(out))
}

func TestBlockDocument_CloneIsIndependent(t *testing.T) {
	doc := BlockDocument{Blocks: []Block{
		NewBlock("t", TableData{Content: [][]string{{"a", "b"}}}),
		NewBlock("i", ImageData{File: &ImageFile{URL: "https://x/y.png"}}),
	}}

	cp := doc.Clone()
	cp.Blocks[0].Data.(TableData).Content[0][0] = "changed"
	cp.Blocks[1].Data.(ImageData).File.URL = "https://other"

	assert.Equal(t, "a", doc.Blocks[0].Data.(TableData).Content[0][0])
	assert.Equal(t, "https://x/y.png", doc.Blocks[1].Data.(ImageData).Source())
}

func TestIsValidImageURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://cdn.example.com/a.png", true},
		{"http://cdn.example.com/a.png", true},
		{"", false},
		{"ftp://x/a.png", false},
		{"data:image/png;base64,AAAA", false},
		{"HTTPS://cdn.example.com/a.png", false},
		{"/uploads/a.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidImageURL(tt.url))
		})
	}
}

func TestMediaAsset_IsLibraryImage(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"images/a.JPG", true},
		{"images/b.webp", true},
		{"images/c.svg", true},
		{"videos/d.mp4", false},
		{"docs/readme", false},
		{"images/e.jpeg.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, MediaAsset{Key: tt.key}.IsLibraryImage())
		})
	}
}
