package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	httpapp "blogdesk/internal/app/http"
	"blogdesk/internal/domain/models"
	"blogdesk/internal/editor"
	"blogdesk/internal/renderer"
	blogsvc "blogdesk/internal/services/blog_service"
	editorsvc "blogdesk/internal/services/editor_service"
	mediasvc "blogdesk/internal/services/media_service"
	rendersvc "blogdesk/internal/services/render_service"
	"blogdesk/internal/storage"
	filestorage "blogdesk/internal/storage/filestorage"
	httprouters "blogdesk/internal/transport/http"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var pngHeader = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00"

// memoryBlog блог-бэкенд в памяти.
type memoryBlog struct {
	mu     sync.Mutex
	nextID int64
	posts  map[int64]*models.Post
}

func newMemoryBlog() *memoryBlog {
	return &memoryBlog{posts: make(map[int64]*models.Post)}
}

func (b *memoryBlog) GetPost(_ context.Context, idOrSlug string) (*models.Post, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range b.posts {
		if p.Slug == idOrSlug || strconv.FormatInt(p.ID, 10) == idOrSlug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, storage.ErrPostNotFound
}

func (b *memoryBlog) ListPosts(_ context.Context, _ models.PostFilter) ([]models.Post, int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]models.Post, 0, len(b.posts))
	for _, p := range b.posts {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (b *memoryBlog) CreatePost(_ context.Context, payload models.PostPayload) (*models.Post, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range b.posts {
		if p.Slug == payload.Slug {
			return nil, storage.ErrSlugConflict
		}
	}

	b.nextID++
	post := postFromPayload(b.nextID, payload)
	b.posts[post.ID] = post

	cp := *post
	return &cp, nil
}

func (b *memoryBlog) UpdatePost(_ context.Context, id int64, payload models.PostPayload) (*models.Post, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.posts[id]; !ok {
		return nil, storage.ErrPostNotFound
	}

	post := postFromPayload(id, payload)
	b.posts[id] = post

	cp := *post
	return &cp, nil
}

func postFromPayload(id int64, payload models.PostPayload) *models.Post {
	raw, _ := json.Marshal(payload.Content)
	return &models.Post{
		ID:          id,
		Title:       payload.Title,
		Slug:        payload.Slug,
		Content:     raw,
		IsPublished: payload.IsPublished,
		WordCount:   payload.WordCount,
		ReadingTime: payload.ReadingTime,
		UpdatedAt:   time.Now(),
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Field   string          `json:"field"`
	Details string          `json:"details"`
}

type HTTPTestSuite struct {
	suite.Suite
	server  *httptest.Server
	editors *editorsvc.EditorService
	blog    *memoryBlog
}

func (s *HTTPTestSuite) SetupTest() {
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	fileStorage, err := filestorage.NewLocalFileStorage(s.T().TempDir(), "http://cdn.test/uploads")
	require.NoError(s.T(), err, "Failed to initialize file storage")

	validate := validator.New()
	s.blog = newMemoryBlog()

	mediaService := mediasvc.NewMediaService(log, fileStorage, time.Minute, 1024)
	blogService := blogsvc.NewBlogService(log, s.blog, validate)
	renderService := rendersvc.NewRenderService(log, blogService, renderer.New(log), nil, 0)
	s.editors = editorsvc.NewEditorService(log, blogService, mediaService, editor.DefaultConfig(), time.Hour)

	router := httprouters.NewRouter(log, s.editors, mediaService, blogService, renderService)

	server := httpapp.New(log, validate, httpapp.Options{}, router)
	server.BuildRouters()

	s.server = httptest.NewServer(server.Echo())
}

func (s *HTTPTestSuite) TearDownTest() {
	s.server.Close()
	s.editors.Shutdown()
}

func TestHTTPSuite(t *testing.T) {
	suite.Run(t, new(HTTPTestSuite))
}

func (s *HTTPTestSuite) do(method, path string, body any) (int, envelope) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return s.send(req)
}

func (s *HTTPTestSuite) upload(path, field string, files map[string]string) (int, envelope) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, content := range files {
		part, err := writer.CreateFormFile(field, name)
		s.Require().NoError(err)
		_, err = part.Write([]byte(content))
		s.Require().NoError(err)
	}
	s.Require().NoError(writer.Close())

	req, err := http.NewRequest(http.MethodPost, s.server.URL+path, body)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return s.send(req)
}

func (s *HTTPTestSuite) send(req *http.Request) (int, envelope) {
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var env envelope
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&env))

	return resp.StatusCode, env
}

func (s *HTTPTestSuite) decode(raw json.RawMessage, v any) {
	s.Require().NoError(json.Unmarshal(raw, v))
}

func (s *HTTPTestSuite) openSession() string {
	status, env := s.do(http.MethodPost, "/api/v1/editor/sessions", nil)
	s.Require().Equal(http.StatusCreated, status)

	var sess struct {
		ID string `json:"id"`
	}
	s.decode(env.Data, &sess)
	s.Require().NotEmpty(sess.ID)

	return sess.ID
}

func (s *HTTPTestSuite) insertBlock(sessionID string, body any) string {
	status, env := s.do(http.MethodPost, "/api/v1/editor/sessions/"+sessionID+"/blocks", body)
	s.Require().Equal(http.StatusCreated, status, env.Details)

	var created struct {
		ID string `json:"id"`
	}
	s.decode(env.Data, &created)

	return created.ID
}

func (s *HTTPTestSuite) TestHealth() {
	status, env := s.do(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, status)
	s.Equal("success", env.Status)
}

func (s *HTTPTestSuite) TestSessionNotFound() {
	status, env := s.do(http.MethodGet, "/api/v1/editor/sessions/missing", nil)
	s.Equal(http.StatusNotFound, status)
	s.Equal("not_found", env.Error)
}

func (s *HTTPTestSuite) TestWriteAndPublishPost() {
	id := s.openSession()
	base := "/api/v1/editor/sessions/" + id

	status, env := s.do(http.MethodPatch, base+"/form", map[string]any{
		"title":        "Hello, World!",
		"is_published": true,
	})
	s.Require().Equal(http.StatusOK, status)

	var form blogsvc.PostForm
	s.decode(env.Data, &form)
	s.Equal("hello-world", form.Slug)

	s.insertBlock(id, map[string]any{
		"type": "paragraph",
		"data": map[string]any{"text": "one two three"},
	})

	s.Eventually(func() bool {
		_, env := s.do(http.MethodGet, base+"/stats", nil)
		var stats struct {
			WordCount int `json:"word_count"`
		}
		s.decode(env.Data, &stats)
		return stats.WordCount == 3
	}, time.Second, 10*time.Millisecond)

	status, env = s.do(http.MethodGet, base+"/preview", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Contains(string(env.Data), "one two three")

	status, env = s.do(http.MethodPost, base+"/save", nil)
	s.Require().Equal(http.StatusOK, status, env.Details)

	var post models.Post
	s.decode(env.Data, &post)
	s.Equal("hello-world", post.Slug)
	s.Equal(3, post.WordCount)

	status, env = s.do(http.MethodGet, "/api/v1/posts/hello-world/rendered", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Contains(string(env.Data), "one two three")

	status, env = s.do(http.MethodGet, "/api/v1/posts", nil)
	s.Require().Equal(http.StatusOK, status)

	var list struct {
		Total   int `json:"total"`
		Page    int `json:"page"`
		PerPage int `json:"per_page"`
	}
	s.decode(env.Data, &list)
	s.Equal(1, list.Total)
	s.Equal(1, list.Page)
	s.Equal(10, list.PerPage)
}

func (s *HTTPTestSuite) TestSaveValidation() {
	id := s.openSession()

	status, env := s.do(http.MethodPost, "/api/v1/editor/sessions/"+id+"/save", nil)
	s.Equal(http.StatusBadRequest, status)
	s.Equal("validation_failed", env.Error)
	s.Equal("title", env.Field)
	s.Equal("Title and content are required!", env.Details)
}

func (s *HTTPTestSuite) TestBlockErrors() {
	id := s.openSession()
	base := "/api/v1/editor/sessions/" + id + "/blocks"

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"unknown tool", http.MethodPost, base, map[string]any{"type": "carousel"}, http.StatusBadRequest},
		{"index out of range", http.MethodPost, base, map[string]any{"type": "paragraph", "index": 5}, http.StatusBadRequest},
		{"missing type", http.MethodPost, base, map[string]any{}, http.StatusBadRequest},
		{"unknown block", http.MethodDelete, base + "/nope", nil, http.StatusNotFound},
		{"move unknown block", http.MethodPost, base + "/nope/move", map[string]any{"index": 0}, http.StatusNotFound},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			status, _ := s.do(tt.method, tt.path, tt.body)
			s.Equal(tt.status, status)
		})
	}
}

func (s *HTTPTestSuite) TestImageSelectionByURL() {
	id := s.openSession()
	base := "/api/v1/editor/sessions/" + id
	blockID := s.insertBlock(id, map[string]any{"type": "image"})

	status, env := s.do(http.MethodPost, base+"/blocks/"+blockID+"/image", nil)
	s.Require().Equal(http.StatusAccepted, status, env.Details)

	status, _ = s.do(http.MethodPost, base+"/blocks/"+blockID+"/image", nil)
	s.Equal(http.StatusConflict, status, "second request while one is pending")

	status, env = s.do(http.MethodGet, base+"/modal", nil)
	s.Require().Equal(http.StatusOK, status)

	var state editor.ModalState
	s.decode(env.Data, &state)
	s.True(state.Open)
	s.Equal(blockID, state.BlockID)
	s.Equal("upload", state.Tab)

	status, _ = s.do(http.MethodPut, base+"/modal/tab", map[string]any{"tab": "url"})
	s.Require().Equal(http.StatusOK, status)

	status, _ = s.do(http.MethodPut, base+"/modal/url", map[string]any{"url": "cat.png"})
	s.Require().Equal(http.StatusOK, status)

	status, _ = s.do(http.MethodPost, base+"/modal/submit", nil)
	s.Equal(http.StatusBadRequest, status, "invalid url keeps the modal open")

	s.do(http.MethodPut, base+"/modal/url", map[string]any{"url": "https://example.com/cat.png"})
	s.do(http.MethodPut, base+"/modal/caption", map[string]any{"caption": "A cat"})

	status, env = s.do(http.MethodPost, base+"/modal/submit", nil)
	s.Require().Equal(http.StatusOK, status, env.Details)

	var submitted struct {
		Selection models.ImageSelection `json:"selection"`
		Block     struct {
			State string `json:"state"`
		} `json:"block"`
	}
	s.decode(env.Data, &submitted)
	s.Equal("https://example.com/cat.png", submitted.Selection.URL)
	s.Equal("A cat", submitted.Selection.Caption)
	s.Equal(string(editor.ImagePopulated), submitted.Block.State)

	status, env = s.do(http.MethodPost, base+"/blocks/"+blockID+"/settings/stretched", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Contains(string(env.Data), `"active":true`)

	status, _ = s.do(http.MethodPost, base+"/blocks/"+blockID+"/settings/sparkles", nil)
	s.Equal(http.StatusBadRequest, status)

	status, _ = s.do(http.MethodPost, base+"/modal/submit", nil)
	s.Equal(http.StatusConflict, status, "modal is closed after a successful submit")
}

func (s *HTTPTestSuite) TestCloseModalCancelsRequest() {
	id := s.openSession()
	base := "/api/v1/editor/sessions/" + id
	blockID := s.insertBlock(id, map[string]any{"type": "image"})

	status, _ := s.do(http.MethodPost, base+"/blocks/"+blockID+"/image", nil)
	s.Require().Equal(http.StatusAccepted, status)

	status, _ = s.do(http.MethodDelete, base+"/modal", nil)
	s.Require().Equal(http.StatusOK, status)

	status, env := s.do(http.MethodGet, base, nil)
	s.Require().Equal(http.StatusOK, status)
	s.NotContains(string(env.Data), "pending_image_request")

	status, _ = s.do(http.MethodPost, base+"/blocks/"+blockID+"/image", nil)
	s.Equal(http.StatusAccepted, status, "a new request is allowed after cancel")
}

func (s *HTTPTestSuite) TestMediaLifecycle() {
	status, env := s.upload("/api/v1/media/images", "file", map[string]string{"cat.png": pngHeader})
	s.Require().Equal(http.StatusCreated, status, env.Details)

	var result models.UploadResult
	s.decode(env.Data, &result)
	s.True(result.Success)
	s.Contains(result.File.URL, "http://cdn.test/uploads/images/")

	status, env = s.do(http.MethodGet, "/api/v1/media?folder=images", nil)
	s.Require().Equal(http.StatusOK, status)

	var page models.AssetPage
	s.decode(env.Data, &page)
	s.Require().Len(page.Files, 1)
	s.Equal(result.File.Key, page.Files[0].Key)

	status, _ = s.do(http.MethodDelete, "/api/v1/media/"+result.File.Key, nil)
	s.Equal(http.StatusOK, status)

	status, _ = s.do(http.MethodDelete, "/api/v1/media/"+result.File.Key, nil)
	s.Equal(http.StatusNotFound, status)
}

func (s *HTTPTestSuite) TestUploadRejected() {
	tests := []struct {
		name    string
		file    string
		content string
		status  int
		code    string
	}{
		{"not an image", "notes.txt", "just some text", http.StatusUnsupportedMediaType, "unsupported_media_type"},
		{"too large", "big.png", pngHeader + string(make([]byte, 2048)), http.StatusRequestEntityTooLarge, "file_too_large"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			status, env := s.upload("/api/v1/media/images", "file", map[string]string{tt.file: tt.content})
			s.Equal(tt.status, status)
			s.Equal(tt.code, env.Error)
			s.Equal("file", env.Field)
		})
	}

	status, _ := s.do(http.MethodPost, "/api/v1/media/images", nil)
	s.Equal(http.StatusBadRequest, status)
}

func (s *HTTPTestSuite) TestBulkUpload() {
	status, env := s.upload("/api/v1/media/bulk", "files", map[string]string{
		"a.png":     pngHeader,
		"notes.txt": "plain",
	})
	s.Require().Equal(http.StatusOK, status)

	var report models.BulkUploadReport
	s.decode(env.Data, &report)
	s.Equal(1, report.Succeeded)
	s.Equal(1, report.Failed)
	s.Len(report.Items, 2)
}

func (s *HTTPTestSuite) TestInvalidMediaQuery() {
	status, env := s.do(http.MethodGet, fmt.Sprintf("/api/v1/media?folder=%s", "secrets"), nil)
	s.Equal(http.StatusBadRequest, status)
	s.Equal("validation_failed", env.Error)
}
