package config

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid config")

type PathError struct {
	Path string
}

func (e *PathError) Error() string {
	return "config file does not exist: " + e.Path
}

func (c *Config) validate() error {
	switch c.Media.Backend {
	case MediaBackendREST:
		if c.MediaAPI.BaseURL == "" {
			return fmt.Errorf("%w: media_api.base_url is required for the rest media backend", ErrInvalidConfig)
		}
	case MediaBackendMinio:
		if c.Minio.Endpoint == "" || c.Minio.Bucket == "" {
			return fmt.Errorf("%w: minio.endpoint and minio.bucket are required for the minio media backend", ErrInvalidConfig)
		}
	case MediaBackendLocal:
		if c.FileStorage.BaseDir == "" {
			return fmt.Errorf("%w: file_storage.base_dir is required for the local media backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown media backend %q", ErrInvalidConfig, c.Media.Backend)
	}

	switch c.Blog.Backend {
	case BlogBackendREST:
		if c.BlogAPI.BaseURL == "" {
			return fmt.Errorf("%w: blog_api.base_url is required for the rest blog backend", ErrInvalidConfig)
		}
	case BlogBackendPostgres:
		if c.DSN == "" {
			return fmt.Errorf("%w: dsn is required for the postgres blog backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown blog backend %q", ErrInvalidConfig, c.Blog.Backend)
	}

	if c.Media.MaxImageSize <= 0 {
		return fmt.Errorf("%w: media.max_image_size must be positive", ErrInvalidConfig)
	}

	return nil
}
