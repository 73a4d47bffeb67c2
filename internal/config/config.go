package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	MediaBackendREST  = "rest"
	MediaBackendMinio = "minio"
	MediaBackendLocal = "local"

	BlogBackendREST     = "rest"
	BlogBackendPostgres = "postgres"
)

type Config struct {
	Env         string            `yaml:"env" env:"ENV" env-default:"local"`
	DSN         string            `yaml:"dsn" env:"DSN"`
	HTTP        HTTPConfig        `yaml:"http"`
	Media       MediaConfig       `yaml:"media"`
	MediaAPI    APIConfig         `yaml:"media_api" env-prefix:"MEDIA_API_"`
	Blog        BlogConfig        `yaml:"blog"`
	BlogAPI     APIConfig         `yaml:"blog_api" env-prefix:"BLOG_API_"`
	Minio       MinioConfig       `yaml:"minio"`
	FileStorage FileStorageConfig `yaml:"file_storage"`
	Redis       RedisConf         `yaml:"redis"`
	Render      RenderConfig      `yaml:"render"`
	Editor      EditorConfig      `yaml:"editor"`
}

type HTTPConfig struct {
	Host         string        `yaml:"host" env:"HTTP_HOST"`
	Port         string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"60s"`
	BodyLimit    string        `yaml:"body_limit" env-default:"64M"`
}

type MediaConfig struct {
	Backend         string        `yaml:"backend" env:"MEDIA_BACKEND" env-default:"rest"`
	MaxImageSize    int64         `yaml:"max_image_size" env-default:"5242880"`
	LibraryCacheTTL time.Duration `yaml:"library_cache_ttl" env-default:"30s"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url" env:"BASE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT" env-default:"30s"`
}

type BlogConfig struct {
	Backend string `yaml:"backend" env:"BLOG_BACKEND" env-default:"rest"`
}

type MinioConfig struct {
	Endpoint      string        `yaml:"endpoint" env:"MINIO_ENDPOINT"`
	AccessKey     string        `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey     string        `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	Bucket        string        `yaml:"bucket" env:"MINIO_BUCKET" env-default:"blog-media"`
	UseSSL        bool          `yaml:"use_ssl" env:"MINIO_USE_SSL"`
	PublicBaseURL string        `yaml:"public_base_url" env:"MINIO_PUBLIC_BASE_URL"`
	Timeout       time.Duration `yaml:"timeout" env-default:"30s"`
}

type FileStorageConfig struct {
	BaseDir string `yaml:"base_dir" env-default:"./uploads"`
	BaseURL string `yaml:"base_url" env-default:"http://localhost:8080/uploads"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"REDIS_DB"`
}

type RenderConfig struct {
	SanitizeRichText bool          `yaml:"sanitize_rich_text" env-default:"true"`
	CacheTTL         time.Duration `yaml:"cache_ttl" env-default:"1h"`
}

type EditorConfig struct {
	SessionTTL time.Duration `yaml:"session_ttl" env-default:"2h"`
	Version    string        `yaml:"version"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load читает YAML-конфиг; переменные окружения (и .env вне prod) имеют приоритет.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, &PathError{Path: configPath}
	}

	if os.Getenv("ENV") != "prod" {
		// .env необязателен
		_ = godotenv.Load()
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
