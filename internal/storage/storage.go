package storage

import "errors"

// Ошибки, общие для всех бэкендов блога и медиа (REST, PostgreSQL, MinIO, диск).
var (
	ErrPostNotFound = errors.New("post not found")
	ErrSlugConflict = errors.New("post slug already exists")
	ErrCacheMiss    = errors.New("cache miss")
)

// ErrUnknownTaxonomy пост ссылается на несуществующую категорию или тег.
var ErrUnknownTaxonomy = errors.New("unknown category or tag")

var (
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidKey      = errors.New("invalid media key")
)
