package editor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"blogdesk/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.UnixMilli(1700000000000)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEditor(t *testing.T) *Editor {
	t.Helper()

	e := New(discardLogger(), NewMemoryEngineFactory(), WithClock(func() time.Time { return fixedNow }))
	t.Cleanup(func() { _ = e.Teardown() })
	return e
}

func memEngine(t *testing.T, e *Editor) *MemoryEngine {
	t.Helper()

	m, ok := e.Engine().(*MemoryEngine)
	require.True(t, ok)
	return m
}

func parseDoc(t *testing.T, raw string) *models.BlockDocument {
	t.Helper()

	var doc models.BlockDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return &doc
}

func TestEditor_InitializeEmpty(t *testing.T) {
	e := newTestEditor(t)

	require.NoError(t, e.Initialize(context.Background(), nil, DefaultConfig()))

	doc, err := e.GetData(context.Background())
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Empty(t, doc.Blocks)
	assert.Equal(t, models.EditorVersion, doc.Version)
}

func TestEditor_InitializeTwiceIsNoop(t *testing.T) {
	e := newTestEditor(t)
	ctx := context.Background()

	require.NoError(t, e.Initialize(ctx, parseDoc(t, `{"blocks":[{"type":"delimiter"}]}`), DefaultConfig()))
	first := e.Engine()

	err := e.Initialize(ctx, nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrEngineExists)
	assert.Same(t, first, e.Engine())

	doc, err := e.GetData(ctx)
	require.NoError(t, err)
	assert.Len(t, doc.Blocks, 1)
}

func TestEditor_LoadSanitation(t *testing.T) {
	e := newTestEditor(t)
	ctx := context.Background()

	doc := parseDoc(t, `{"blocks":[
		{"id":"a","type":"image","data":{"url":"ftp://x/a.png"}},
		{"id":"b","type":"paragraph","data":{"text":""}},
		{"id":"c","type":"paragraph","data":{}},
		{"id":"d","type":"image","data":{"url":"https://cdn/a.png"}}
	]}`)
	require.NoError(t, e.Initialize(ctx, doc, DefaultConfig()))

	blocks := memEngine(t, e).Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, "b", blocks[0].ID)
	assert.Equal(t, "d", blocks[1].ID)

	saved, err := e.GetData(ctx)
	require.NoError(t, err)
	require.Len(t, saved.Blocks, 1)
	assert.Equal(t, "d", saved.Blocks[0].ID)
}

func TestEditor_GetDataWithoutEngine(t *testing.T) {
	e := newTestEditor(t)

	doc, err := e.GetData(context.Background())
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrNoEngine)
}

type failingEngine struct {
	changes chan struct{}
}

func (f *failingEngine) Save(context.Context) (models.BlockDocument, error) {
	return models.BlockDocument{}, errors.New("engine crashed")
}
func (f *failingEngine) Changes() <-chan struct{}           { return f.changes }
func (f *failingEngine) Tool(string) (int, BlockTool, bool) { return 0, nil, false }
func (f *failingEngine) Destroy() error {
	close(f.changes)
	return nil
}

func TestEditor_GetDataPullFailure(t *testing.T) {
	factory := func(context.Context, models.BlockDocument, Config) (Engine, error) {
		return &failingEngine{changes: make(chan struct{})}, nil
	}
	e := New(discardLogger(), factory)
	ctx := context.Background()

	require.NoError(t, e.Initialize(ctx, nil, DefaultConfig()))

	doc, err := e.GetData(ctx)
	assert.Nil(t, doc)
	assert.EqualError(t, err, "editor.Editor.GetData: engine crashed")
	assert.NoError(t, e.Teardown())
}

func TestEditor_FactoryFailure(t *testing.T) {
	factory := func(context.Context, models.BlockDocument, Config) (Engine, error) {
		return nil, errors.New("no holder")
	}
	e := New(discardLogger(), factory)

	err := e.Initialize(context.Background(), nil, DefaultConfig())
	assert.Error(t, err)
	assert.False(t, e.Initialized())
}

func TestEditor_TeardownIdempotent(t *testing.T) {
	e := newTestEditor(t)
	ctx := context.Background()

	assert.NoError(t, e.Teardown())

	require.NoError(t, e.Initialize(ctx, nil, DefaultConfig()))
	engine := memEngine(t, e)

	assert.NoError(t, e.Teardown())
	assert.NoError(t, e.Teardown())
	assert.False(t, e.Initialized())

	_, err := engine.Save(ctx)
	assert.ErrorIs(t, err, ErrEngineDestroyed)

	_, err = e.GetData(ctx)
	assert.ErrorIs(t, err, ErrNoEngine)

	require.NoError(t, e.Initialize(ctx, nil, DefaultConfig()))
	assert.True(t, e.Initialized())
}

func TestEditor_OnContentChangeDeliversUnsanitized(t *testing.T) {
	e := newTestEditor(t)
	ctx := context.Background()

	got := make(chan models.BlockDocument, 8)
	e.OnContentChange(func(doc models.BlockDocument) {
		select {
		case got <- doc:
		default:
		}
	})

	require.NoError(t, e.Initialize(ctx, nil, DefaultConfig()))

	_, err := memEngine(t, e).InsertBlock(0, models.BlockParagraph, models.NewParagraph("   "))
	require.NoError(t, err)

	select {
	case doc := <-got:
		require.Len(t, doc.Blocks, 1)
		assert.Equal(t, models.BlockParagraph, doc.Blocks[0].Type)
	case <-time.After(2 * time.Second):
		t.Fatal("change callback not invoked")
	}
}

func insertImage(t *testing.T, e *Editor, data models.BlockData) (string, *ImageBlock) {
	t.Helper()

	eng := memEngine(t, e)
	id, err := eng.InsertBlock(len(eng.Blocks()), models.BlockImage, data)
	require.NoError(t, err)

	_, tool, ok := eng.Tool(id)
	require.True(t, ok)
	img, ok := tool.(*ImageBlock)
	require.True(t, ok)
	return id, img
}

func TestEditor_ImageRequestFlow(t *testing.T) {
	e := newTestEditor(t)
	ctx := context.Background()
	require.NoError(t, e.Initialize(ctx, nil, DefaultConfig()))

	var notified []ImageRequest
	e.OnImageRequest(func(r ImageRequest) { notified = append(notified, r) })

	firstID, first := insertImage(t, e, nil)
	_, second := insertImage(t, e, nil)

	req, err := first.Click()
	require.NoError(t, err)
	assert.Equal(t, firstID, req.BlockID)
	assert.Equal(t, 0, req.Index)
	require.Len(t, notified, 1)

	_, err = second.Click()
	assert.ErrorIs(t, err, ErrImageRequestPending)

	err = e.ResolveImageRequest("other-id", models.ImageSelection{URL: "https://cdn/x.png"})
	assert.ErrorIs(t, err, ErrStaleImageRequest)

	require.NoError(t, e.ResolveImageRequest(req.ID, models.ImageSelection{URL: "https://cdn/x.png", Caption: "cap"}))
	assert.Equal(t, ImagePopulated, first.State())
	assert.Equal(t, ImageEmpty, second.State())

	err = e.ResolveImageRequest(req.ID, models.ImageSelection{URL: "https://cdn/y.png"})
	assert.ErrorIs(t, err, ErrNoImageRequest)

	doc, err := e.GetData(ctx)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)
	img := doc.Blocks[0].Data.(models.ImageData)
	assert.Equal(t, "https://cdn/x.png", img.URL)
	assert.Equal(t, "cap", img.Caption)
}

func TestEditor_CancelBlocksLateResolution(t *testing.T) {
	e := newTestEditor(t)
	require.NoError(t, e.Initialize(context.Background(), nil, DefaultConfig()))

	_, img := insertImage(t, e, nil)

	req, err := img.Click()
	require.NoError(t, err)
	require.NoError(t, e.CancelImageRequest())

	err = e.ResolveImageRequest(req.ID, models.ImageSelection{URL: "https://cdn/late.png"})
	assert.ErrorIs(t, err, ErrNoImageRequest)
	assert.Equal(t, ImageEmpty, img.State())

	assert.ErrorIs(t, e.CancelImageRequest(), ErrNoImageRequest)

	_, err = img.Click()
	assert.NoError(t, err)
}

func TestEditor_ResolveRemovedTarget(t *testing.T) {
	e := newTestEditor(t)
	require.NoError(t, e.Initialize(context.Background(), nil, DefaultConfig()))

	id, img := insertImage(t, e, nil)
	req, err := img.Click()
	require.NoError(t, err)

	require.NoError(t, memEngine(t, e).RemoveBlock(id))

	err = e.ResolveImageRequest(req.ID, models.ImageSelection{URL: "https://cdn/x.png"})
	assert.ErrorIs(t, err, ErrTargetGone)

	_, pending := e.PendingImageRequest()
	assert.False(t, pending)
}

func TestEditor_RequestForNonImageBlock(t *testing.T) {
	e := newTestEditor(t)
	require.NoError(t, e.Initialize(context.Background(), parseDoc(t, `{"blocks":[{"id":"h","type":"header","data":{"text":"x"}}]}`), DefaultConfig()))

	_, err := e.RequestImageFor("h")
	assert.ErrorIs(t, err, ErrNotImageBlock)

	_, err = e.RequestImageFor("missing")
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestEditor_RoundTrip(t *testing.T) {
	ctx := context.Background()
	src := parseDoc(t, `{"blocks":[
		{"id":"1","type":"header","data":{"text":"Title","level":2}},
		{"id":"2","type":"paragraph","data":{"text":"Body <b>bold</b>"}},
		{"id":"3","type":"paragraph","data":{"text":" "}},
		{"id":"4","type":"list","data":{"style":"ordered","items":["a","b"]}},
		{"id":"5","type":"image","data":{"url":"https://cdn/a.png","caption":"c","stretched":true}},
		{"id":"6","type":"poll","data":{"q":"?"}}
	]}`)

	first := newTestEditor(t)
	require.NoError(t, first.Initialize(ctx, src, DefaultConfig()))
	out1, err := first.GetData(ctx)
	require.NoError(t, err)

	second := newTestEditor(t)
	require.NoError(t, second.Initialize(ctx, out1, DefaultConfig()))
	out2, err := second.GetData(ctx)
	require.NoError(t, err)

	assert.Len(t, out1.Blocks, 5)
	assert.Equal(t, out1.Blocks, out2.Blocks)
}
