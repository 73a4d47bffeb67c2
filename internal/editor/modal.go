package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/url"
	"strings"
	"sync"

	"blogdesk/internal/content"
	"blogdesk/internal/domain/models"
	"blogdesk/internal/lib/logger/sl"
)

type Tab int

const (
	TabUpload Tab = iota
	TabLibrary
	TabURL
)

var tabNames = map[Tab]string{
	TabUpload:  "upload",
	TabLibrary: "library",
	TabURL:     "url",
}

func (t Tab) String() string {
	if s, ok := tabNames[t]; ok {
		return s
	}
	return fmt.Sprintf("tab(%d)", int(t))
}

func ParseTab(s string) (Tab, error) {
	for t, name := range tabNames {
		if strings.EqualFold(s, name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownTab)
}

// ImageSource поставляет изображения окну: проверяет и загружает файлы,
// отдаёт медиатеку.
type ImageSource interface {
	ValidateImage(file *multipart.FileHeader) error
	UploadImage(ctx context.Context, file *multipart.FileHeader) (*models.UploadResult, error)
	LibraryImages(ctx context.Context) ([]models.MediaAsset, error)
}

// RequestResolver сторона Editor, в которую окно отдаёт выбор.
type RequestResolver interface {
	ResolveImageRequest(requestID string, sel models.ImageSelection) error
	CancelImageRequest() error
}

type UploadState struct {
	FileName    string `json:"file_name,omitempty"`
	FileSize    int64  `json:"file_size,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Error       string `json:"error,omitempty"`
}

type LibraryState struct {
	Loaded      bool                `json:"loaded"`
	Error       string              `json:"error,omitempty"`
	Images      []models.MediaAsset `json:"images"`
	SelectedKey string              `json:"selected_key,omitempty"`
}

type URLState struct {
	Value string `json:"value"`
	Error string `json:"error,omitempty"`
}

// ModalState снимок окна для отображения.
type ModalState struct {
	Open      bool         `json:"open"`
	RequestID string       `json:"request_id,omitempty"`
	BlockID   string       `json:"block_id,omitempty"`
	Tab       string       `json:"tab"`
	Busy      bool         `json:"busy"`
	Caption   string       `json:"caption"`
	Upload    UploadState  `json:"upload"`
	Library   LibraryState `json:"library"`
	URL       URLState     `json:"url"`
}

// Modal окно выбора изображения с вкладками. Ввод каждой вкладки живёт,
// пока их переключают, подпись общая. Успешная отправка отвечает на запрос,
// закрывает окно и очищает вкладки.
type Modal struct {
	log      *slog.Logger
	source   ImageSource
	resolver RequestResolver

	mu      sync.Mutex
	open    bool
	gen     uint64
	request ImageRequest
	tab     Tab
	busy    bool
	caption string

	file      *multipart.FileHeader
	uploadErr string

	library       []models.MediaAsset
	libraryLoaded bool
	libraryErr    string
	selectedKey   string

	url    string
	urlErr string
}

func NewModal(log *slog.Logger, source ImageSource, resolver RequestResolver) *Modal {
	return &Modal{
		log:      log,
		source:   source,
		resolver: resolver,
	}
}

// Open показывает окно для req на вкладке «Загрузка».
func (m *Modal) Open(req ImageRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.open {
		return ErrModalOpen
	}

	m.resetLocked()
	m.open = true
	m.request = req
	m.tab = TabUpload

	return nil
}

// Close закрывает окно без выбора и отменяет запрос.
func (m *Modal) Close() {
	const op = "editor.Modal.Close"

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return
	}

	if err := m.resolver.CancelImageRequest(); err != nil && !errors.Is(err, ErrNoImageRequest) {
		m.log.Warn("failed to cancel image request", slog.String("op", op), sl.Err(err))
	}

	m.resetLocked()
}

func (m *Modal) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.open
}

// SelectTab переключает вкладку. Первое открытие «Библиотеки» загружает её,
// после неудачи следующее открытие пробует снова. Пока идёт загрузка файла,
// вкладку сменить нельзя.
func (m *Modal) SelectTab(ctx context.Context, tab Tab) error {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return ErrModalClosed
	}
	if _, ok := tabNames[tab]; !ok {
		m.mu.Unlock()
		return ErrUnknownTab
	}
	if m.busy && tab != m.tab {
		m.mu.Unlock()
		return ErrModalBusy
	}
	m.tab = tab
	needFetch := tab == TabLibrary && !m.libraryLoaded
	m.mu.Unlock()

	if needFetch {
		return m.RefreshLibrary(ctx)
	}
	return nil
}

// RefreshLibrary (пере)загружает медиатеку и оставляет только изображения.
func (m *Modal) RefreshLibrary(ctx context.Context) error {
	const op = "editor.Modal.RefreshLibrary"

	log := m.log.With(slog.String("op", op))

	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return ErrModalClosed
	}
	if m.busy {
		m.mu.Unlock()
		return ErrModalBusy
	}
	m.busy = true
	gen := m.gen
	m.mu.Unlock()

	assets, err := m.source.LibraryImages(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gen != gen {
		return ErrModalClosed
	}
	m.busy = false

	if err != nil {
		log.Error("failed to load existing images", sl.Err(err))

		m.libraryErr = "Failed to load existing images"
		return fmt.Errorf("%s: %w", op, err)
	}

	images := make([]models.MediaAsset, 0, len(assets))
	for _, a := range assets {
		if a.IsLibraryImage() {
			images = append(images, a)
		}
	}

	m.library = images
	m.libraryLoaded = true
	m.libraryErr = ""
	if m.selectedKey != "" && !containsKey(images, m.selectedKey) {
		m.selectedKey = ""
	}

	return nil
}

func (m *Modal) SetCaption(caption string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return ErrModalClosed
	}
	m.caption = caption
	return nil
}

// SelectFile проверяет и выбирает файл. Отклонённый файл не трогает прежний
// выбор.
func (m *Modal) SelectFile(file *multipart.FileHeader) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return ErrModalClosed
	}
	if m.busy {
		return ErrModalBusy
	}
	if file == nil {
		return content.NewValidationError("file", "Please select an image file to upload")
	}
	if err := m.source.ValidateImage(file); err != nil {
		m.uploadErr = err.Error()
		return err
	}

	m.file = file
	m.uploadErr = ""
	return nil
}

// ToggleAsset выбирает изображение медиатеки по key или снимает выбор, если
// оно уже выбрано.
func (m *Modal) ToggleAsset(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return ErrModalClosed
	}
	if !containsKey(m.library, key) {
		return content.NewValidationError("key", "image not found in library")
	}

	if m.selectedKey == key {
		m.selectedKey = ""
	} else {
		m.selectedKey = key
	}
	return nil
}

func (m *Modal) SetURL(raw string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return ErrModalClosed
	}
	m.url = raw
	m.urlErr = ""
	return nil
}

// Submit отвечает на запрос с активной вкладки. При ошибках валидации и
// загрузки окно остаётся открытым, ввод сохраняется.
func (m *Modal) Submit(ctx context.Context) (models.ImageSelection, error) {
	const op = "editor.Modal.Submit"

	log := m.log.With(slog.String("op", op))

	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return models.ImageSelection{}, ErrModalClosed
	}
	if m.busy {
		m.mu.Unlock()
		return models.ImageSelection{}, ErrModalBusy
	}

	var sel models.ImageSelection

	switch m.tab {
	case TabUpload:
		if m.file == nil {
			m.mu.Unlock()
			return sel, content.NewValidationError("file", "Please select an image file to upload")
		}
		if err := m.source.ValidateImage(m.file); err != nil {
			m.uploadErr = err.Error()
			m.mu.Unlock()
			return sel, err
		}

		file := m.file
		gen := m.gen
		m.busy = true
		m.mu.Unlock()

		result, err := m.source.UploadImage(ctx, file)

		m.mu.Lock()
		if m.gen != gen {
			m.mu.Unlock()
			log.Warn("upload finished after modal was closed")
			return sel, fmt.Errorf("%s: %w", op, ErrStaleImageRequest)
		}
		m.busy = false
		if err != nil {
			log.Error("upload failed", sl.Err(err))

			m.uploadErr = err.Error()
			m.mu.Unlock()
			return sel, fmt.Errorf("%s: %w", op, err)
		}
		sel = models.ImageSelection{URL: result.File.URL, Caption: m.caption}

	case TabLibrary:
		asset, ok := findAsset(m.library, m.selectedKey)
		if !ok {
			m.mu.Unlock()
			return sel, content.NewValidationError("image", "Please select an image from the list")
		}
		sel = models.ImageSelection{URL: asset.URL, Caption: m.caption}

	case TabURL:
		u, err := validateImageURL(m.url)
		if err != nil {
			m.urlErr = err.Error()
			m.mu.Unlock()
			return sel, err
		}
		sel = models.ImageSelection{URL: u, Caption: m.caption}
	}

	defer m.mu.Unlock()

	err := m.resolver.ResolveImageRequest(m.request.ID, sel)
	m.resetLocked()
	if err != nil {
		log.Warn("image request not resolved", sl.Err(err))

		return sel, fmt.Errorf("%s: %w", op, err)
	}

	return sel, nil
}

func (m *Modal) State() ModalState {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := ModalState{
		Open:    m.open,
		Tab:     m.tab.String(),
		Busy:    m.busy,
		Caption: m.caption,
		Upload:  UploadState{Error: m.uploadErr},
		Library: LibraryState{
			Loaded:      m.libraryLoaded,
			Error:       m.libraryErr,
			Images:      append([]models.MediaAsset{}, m.library...),
			SelectedKey: m.selectedKey,
		},
		URL: URLState{Value: m.url, Error: m.urlErr},
	}
	if m.open {
		st.RequestID = m.request.ID
		st.BlockID = m.request.BlockID
	}
	if m.file != nil {
		st.Upload.FileName = m.file.Filename
		st.Upload.FileSize = m.file.Size
		st.Upload.ContentType = m.file.Header.Get("Content-Type")
	}
	return st
}

func (m *Modal) resetLocked() {
	m.open = false
	m.gen++
	m.request = ImageRequest{}
	m.tab = TabUpload
	m.busy = false
	m.caption = ""
	m.file = nil
	m.uploadErr = ""
	m.library = nil
	m.libraryLoaded = false
	m.libraryErr = ""
	m.selectedKey = ""
	m.url = ""
	m.urlErr = ""
}

// validateImageURL принимает любой синтаксически абсолютный URL, доступность
// не проверяется.
func validateImageURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", content.NewValidationError("url", "Please enter an image URL")
	}

	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return "", content.NewValidationError("url", "Please enter a valid URL")
	}
	return s, nil
}

func containsKey(assets []models.MediaAsset, key string) bool {
	_, ok := findAsset(assets, key)
	return ok
}

func findAsset(assets []models.MediaAsset, key string) (models.MediaAsset, bool) {
	if key == "" {
		return models.MediaAsset{}, false
	}
	for _, a := range assets {
		if a.Key == key {
			return a, true
		}
	}
	return models.MediaAsset{}, false
}
