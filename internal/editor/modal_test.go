package editor

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"testing"

	"blogdesk/internal/content"
	"blogdesk/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockImageSource struct {
	mock.Mock
}

func (m *MockImageSource) ValidateImage(file *multipart.FileHeader) error {
	args := m.Called(file)
	return args.Error(0)
}

func (m *MockImageSource) UploadImage(ctx context.Context, file *multipart.FileHeader) (*models.UploadResult, error) {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UploadResult), args.Error(1)
}

func (m *MockImageSource) LibraryImages(ctx context.Context) ([]models.MediaAsset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MediaAsset), args.Error(1)
}

func fileHeader(name, contentType string, size int64) *multipart.FileHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Type", contentType)
	return &multipart.FileHeader{Filename: name, Header: h, Size: size}
}

type modalFixture struct {
	editor *Editor
	modal  *Modal
	source *MockImageSource
	image  *ImageBlock
	req    ImageRequest
}

func newModalFixture(t *testing.T) *modalFixture {
	t.Helper()

	f := &modalFixture{
		editor: newTestEditor(t),
		source: new(MockImageSource),
	}
	f.modal = NewModal(discardLogger(), f.source, f.editor)
	f.editor.OnImageRequest(func(r ImageRequest) {
		require.NoError(t, f.modal.Open(r))
	})

	require.NoError(t, f.editor.Initialize(context.Background(), nil, DefaultConfig()))
	_, f.image = insertImage(t, f.editor, nil)

	req, err := f.image.Click()
	require.NoError(t, err)
	f.req = req
	require.True(t, f.modal.IsOpen())

	return f
}

func libraryAssets() []models.MediaAsset {
	assets := make([]models.MediaAsset, 0, 10)
	for i := 0; i < 7; i++ {
		key := fmt.Sprintf("images/photo-%d.png", i)
		assets = append(assets, models.MediaAsset{Key: key, URL: "https://cdn/" + key})
	}
	for i := 0; i < 3; i++ {
		key := fmt.Sprintf("videos/clip-%d.mp4", i)
		assets = append(assets, models.MediaAsset{Key: key, URL: "https://cdn/" + key})
	}
	return assets
}

func TestModal_LibraryFiltersImages(t *testing.T) {
	f := newModalFixture(t)
	ctx := context.Background()

	f.source.On("LibraryImages", ctx).Return(libraryAssets(), nil).Once()

	require.NoError(t, f.modal.SelectTab(ctx, TabLibrary))
	st := f.modal.State()
	assert.True(t, st.Library.Loaded)
	assert.Len(t, st.Library.Images, 7)

	// повторное открытие не загружает заново
	require.NoError(t, f.modal.SelectTab(ctx, TabURL))
	require.NoError(t, f.modal.SelectTab(ctx, TabLibrary))
	f.source.AssertNumberOfCalls(t, "LibraryImages", 1)
}

func TestModal_LibraryFetchRetried(t *testing.T) {
	f := newModalFixture(t)
	ctx := context.Background()

	f.source.On("LibraryImages", ctx).Return(nil, errors.New("list failed")).Once()
	f.source.On("LibraryImages", ctx).Return(libraryAssets(), nil).Once()

	assert.Error(t, f.modal.SelectTab(ctx, TabLibrary))
	st := f.modal.State()
	assert.False(t, st.Library.Loaded)
	assert.NotEmpty(t, st.Library.Error)

	require.NoError(t, f.modal.SelectTab(ctx, TabLibrary))
	assert.Len(t, f.modal.State().Library.Images, 7)
}

func TestModal_LibraryToggleAndSubmit(t *testing.T) {
	f := newModalFixture(t)
	ctx := context.Background()

	f.source.On("LibraryImages", ctx).Return(libraryAssets(), nil).Once()
	require.NoError(t, f.modal.SelectTab(ctx, TabLibrary))

	_, err := f.modal.Submit(ctx)
	assert.True(t, content.IsValidationError(err))

	require.NoError(t, f.modal.ToggleAsset("images/photo-1.png"))
	require.NoError(t, f.modal.ToggleAsset("images/photo-2.png"))
	assert.Equal(t, "images/photo-2.png", f.modal.State().Library.SelectedKey)

	require.NoError(t, f.modal.ToggleAsset("images/photo-2.png"))
	assert.Empty(t, f.modal.State().Library.SelectedKey)

	assert.True(t, content.IsValidationError(f.modal.ToggleAsset("videos/clip-0.mp4")))

	require.NoError(t, f.modal.ToggleAsset("images/photo-3.png"))
	require.NoError(t, f.modal.SetCaption("From library"))

	sel, err := f.modal.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ImageSelection{URL: "https://cdn/images/photo-3.png", Caption: "From library"}, sel)

	assert.False(t, f.modal.IsOpen())
	assert.Equal(t, ImagePopulated, f.image.State())
	_, pending := f.editor.PendingImageRequest()
	assert.False(t, pending)
}

func TestModal_UploadValidationBeforeNetwork(t *testing.T) {
	f := newModalFixture(t)
	ctx := context.Background()

	big := fileHeader("big.png", "image/png", 6*1024*1024)
	f.source.On("ValidateImage", big).Return(content.NewValidationError("file", "Image must be less than 5MB")).Once()

	err := f.modal.SelectFile(big)
	assert.True(t, content.IsValidationError(err))

	_, err = f.modal.Submit(ctx)
	assert.True(t, content.IsValidationError(err))

	f.source.AssertNotCalled(t, "UploadImage", mock.Anything, mock.Anything)
	assert.True(t, f.modal.IsOpen())
}

func TestModal_UploadFailureKeepsFile(t *testing.T) {
	f := newModalFixture(t)
	ctx := context.Background()

	file := fileHeader("cat.png", "image/png", 1024)
	f.source.On("ValidateImage", file).Return(nil)
	f.source.On("UploadImage", ctx, file).Return(nil, errors.New("upload failed")).Once()
	f.source.On("UploadImage", ctx, file).Return(&models.UploadResult{
		Success: true,
		File:    models.UploadedFile{URL: "https://cdn/images/cat.png"},
	}, nil).Once()

	require.NoError(t, f.modal.SelectFile(file))
	require.NoError(t, f.modal.SetCaption("A cat"))

	_, err := f.modal.Submit(ctx)
	require.Error(t, err)

	st := f.modal.State()
	assert.True(t, st.Open)
	assert.Equal(t, "cat.png", st.Upload.FileName)
	assert.Equal(t, "upload failed", st.Upload.Error)
	assert.Equal(t, "A cat", st.Caption)

	sel, err := f.modal.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ImageSelection{URL: "https://cdn/images/cat.png", Caption: "A cat"}, sel)
	assert.False(t, f.modal.IsOpen())
}

func TestModal_URLMode(t *testing.T) {
	f := newModalFixture(t)
	ctx := context.Background()

	require.NoError(t, f.modal.SelectTab(ctx, TabURL))

	require.NoError(t, f.modal.SetURL("not a url"))
	_, err := f.modal.Submit(ctx)
	assert.True(t, content.IsValidationError(err))
	assert.True(t, f.modal.IsOpen())
	assert.Equal(t, ImageEmpty, f.image.State())

	require.NoError(t, f.modal.SetURL("  https://example.com/pic.jpg  "))
	sel, err := f.modal.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/pic.jpg", sel.URL)
	assert.Equal(t, ImagePopulated, f.image.State())
}

func TestModal_TabsKeepState(t *testing.T) {
	f := newModalFixture(t)
	ctx := context.Background()

	file := fileHeader("cat.png", "image/png", 1024)
	f.source.On("ValidateImage", file).Return(nil)

	require.NoError(t, f.modal.SelectFile(file))
	require.NoError(t, f.modal.SelectTab(ctx, TabURL))
	require.NoError(t, f.modal.SetURL("https://x/y.png"))
	require.NoError(t, f.modal.SelectTab(ctx, TabUpload))

	st := f.modal.State()
	assert.Equal(t, "upload", st.Tab)
	assert.Equal(t, "cat.png", st.Upload.FileName)
	assert.Equal(t, "https://x/y.png", st.URL.Value)
}

func TestModal_CloseCancelsRequest(t *testing.T) {
	f := newModalFixture(t)
	ctx := context.Background()

	require.NoError(t, f.modal.SelectTab(ctx, TabURL))
	require.NoError(t, f.modal.SetURL("https://x/y.png"))

	f.modal.Close()

	assert.False(t, f.modal.IsOpen())
	_, pending := f.editor.PendingImageRequest()
	assert.False(t, pending)

	err := f.editor.ResolveImageRequest(f.req.ID, models.ImageSelection{URL: "https://x/late.png"})
	assert.ErrorIs(t, err, ErrNoImageRequest)
	assert.Equal(t, ImageEmpty, f.image.State())

	st := f.modal.State()
	assert.Empty(t, st.URL.Value)

	// новый запрос открывает чистое окно
	_, err = f.image.Click()
	require.NoError(t, err)
	assert.True(t, f.modal.IsOpen())
	assert.Equal(t, "upload", f.modal.State().Tab)
}

func TestModal_LateUploadAfterClose(t *testing.T) {
	f := newModalFixture(t)
	ctx := context.Background()

	file := fileHeader("slow.png", "image/png", 1024)
	started := make(chan struct{})
	release := make(chan struct{})

	f.source.On("ValidateImage", file).Return(nil)
	f.source.On("UploadImage", mock.Anything, file).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&models.UploadResult{
			Success: true,
			File:    models.UploadedFile{URL: "https://cdn/images/slow.png"},
		}, nil).Once()

	require.NoError(t, f.modal.SelectFile(file))

	errc := make(chan error, 1)
	go func() {
		_, err := f.modal.Submit(ctx)
		errc <- err
	}()
	<-started

	assert.ErrorIs(t, f.modal.SelectTab(ctx, TabLibrary), ErrModalBusy)
	assert.Equal(t, "upload", f.modal.State().Tab)

	f.modal.Close()

	_, second := insertImage(t, f.editor, nil)
	_, err := second.Click()
	require.NoError(t, err)
	require.True(t, f.modal.IsOpen())

	close(release)

	assert.ErrorIs(t, <-errc, ErrStaleImageRequest)
	assert.Equal(t, ImageEmpty, f.image.State())
	assert.Equal(t, ImageEmpty, second.State())
	assert.True(t, f.modal.IsOpen())

	_, pending := f.editor.PendingImageRequest()
	assert.True(t, pending)
}

func TestModal_ClosedOperations(t *testing.T) {
	m := NewModal(discardLogger(), new(MockImageSource), newTestEditor(t))

	assert.ErrorIs(t, m.SetCaption("x"), ErrModalClosed)
	assert.ErrorIs(t, m.SelectTab(context.Background(), TabURL), ErrModalClosed)
	_, err := m.Submit(context.Background())
	assert.ErrorIs(t, err, ErrModalClosed)

	m.Close()

	require.NoError(t, m.Open(ImageRequest{ID: "r"}))
	assert.ErrorIs(t, m.Open(ImageRequest{ID: "r2"}), ErrModalOpen)
}

func TestParseTab(t *testing.T) {
	tab, err := ParseTab("Library")
	require.NoError(t, err)
	assert.Equal(t, TabLibrary, tab)

	_, err = ParseTab("camera")
	assert.ErrorIs(t, err, ErrUnknownTab)
}
