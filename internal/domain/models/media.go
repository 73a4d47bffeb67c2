package models

import (
	"path"
	"strings"
	"time"
)

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeFile  MediaType = "file"
)

// MaxImageSize предельный размер изображения, загружаемого из модального окна.
const MaxImageSize int64 = 5 * 1024 * 1024

// DefaultLibraryPageSize размер страницы при листинге медиатеки.
const DefaultLibraryPageSize = 50

// Расширения, которые показываются во вкладке «Библиотека».
var libraryImageExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"gif":  {},
	"webp": {},
	"svg":  {},
}

// MediaAsset файл в удалённом медиахранилище.
type MediaAsset struct {
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	Size         int64     `json:"size"`
	Type         MediaType `json:"type,omitempty"`
	Extension    string    `json:"extension,omitempty"`
	LastModified time.Time `json:"last_modified,omitempty"`
}

// IsLibraryImage определяет, попадает ли файл во вкладку «Библиотека».
// Расширение берётся из ключа, регистр не учитывается.
func (a MediaAsset) IsLibraryImage() bool {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(a.Key)), ".")
	if ext == "" {
		return false
	}
	_, ok := libraryImageExtensions[ext]
	return ok
}

type ListOptions struct {
	Folder            string
	Limit             int
	ContinuationToken string
}

// AssetPage одна страница листинга. Пустой NextToken означает последнюю страницу.
type AssetPage struct {
	Success   bool         `json:"success"`
	Files     []MediaAsset `json:"files"`
	NextToken string       `json:"nextToken,omitempty"`
}

type UploadedFile struct {
	Key  string    `json:"key,omitempty"`
	URL  string    `json:"url"`
	Size int64     `json:"size,omitempty"`
	Type MediaType `json:"type,omitempty"`
}

type UploadResult struct {
	Success bool         `json:"success"`
	File    UploadedFile `json:"file"`
	Message string       `json:"message,omitempty"`
}

type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// BulkUploadItem результат загрузки одного файла в пакетной загрузке.
type BulkUploadItem struct {
	Filename string        `json:"filename"`
	Result   *UploadResult `json:"result,omitempty"`
	Error    string        `json:"error,omitempty"`
}

type BulkUploadReport struct {
	Items     []BulkUploadItem `json:"items"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
}
