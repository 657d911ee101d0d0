package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings sourced from environment variables.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Browser  BrowserConfig  `mapstructure:"browser"`
	Export   ExportConfig   `mapstructure:"export"`
	Editor   EditorConfig   `mapstructure:"editor"`
	Clamd    ClamdConfig    `mapstructure:"clamd"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port int `mapstructure:"port"`
	// AllowedOrigins limits websocket origins; empty means same host only.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// EnqueueLimit caps async export and thumbnail requests per profile per minute.
	EnqueueLimit int `mapstructure:"enqueue_limit"`
}

// DatabaseConfig contains connection options for PostgreSQL.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig holds the redis connection used for preferences, locks,
// pub/sub and the task queue.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	PublicEndpoint   string `mapstructure:"public_endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Region           string `mapstructure:"region"`
	BucketLookup     string `mapstructure:"bucket_lookup"`
	Bucket           string `mapstructure:"bucket"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
	PresignTTLSecs   int    `mapstructure:"presign_ttl_seconds"`
}

// PresignTTL is the lifetime of download links.
func (m MinIOConfig) PresignTTL() time.Duration {
	return time.Duration(m.PresignTTLSecs) * time.Second
}

// BrowserConfig selects the headless Chromium.
type BrowserConfig struct {
	Bin            string `mapstructure:"bin"`
	NoSandbox      bool   `mapstructure:"no_sandbox"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Timeout is TimeoutSeconds as a duration.
func (b BrowserConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// ExportConfig tunes the capture pipeline.
type ExportConfig struct {
	Scale            float64 `mapstructure:"scale"`
	HoldMillis       int     `mapstructure:"hold_ms"`
	ThumbnailQuality int     `mapstructure:"thumbnail_quality"`
	LockTTLSeconds   int     `mapstructure:"lock_ttl_seconds"`
}

// Hold is how long a finished export stays in the Done state.
func (e ExportConfig) Hold() time.Duration {
	return time.Duration(e.HoldMillis) * time.Millisecond
}

// LockTTL bounds the per-profile export lock.
func (e ExportConfig) LockTTL() time.Duration {
	return time.Duration(e.LockTTLSeconds) * time.Second
}

// EditorConfig holds session defaults.
type EditorConfig struct {
	DefaultTheme  string  `mapstructure:"default_theme"`
	PreviewScale  float64 `mapstructure:"preview_scale"`
	PhotoMaxBytes int64   `mapstructure:"photo_max_bytes"`
}

// ClamdConfig enables virus scanning of uploads when Address is set.
type ClamdConfig struct {
	Address string `mapstructure:"address"`
}

// WorkerConfig sizes the asynq server.
type WorkerConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Addr is host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Load reads configuration from environment variables on top of defaults.
// Only settings every binary needs are validated here; services call
// ValidateServices as well.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.enqueue_limit", 20)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "cvcrafter")
	v.SetDefault("database.user", "cvcrafter")
	v.SetDefault("database.password", "cvcrafter")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.public_endpoint", "http://localhost:9000")
	v.SetDefault("minio.bucket", "cvs")
	v.SetDefault("minio.bucket_lookup", "auto")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("minio.presign_ttl_seconds", 900)
	v.SetDefault("browser.no_sandbox", true)
	v.SetDefault("browser.timeout_seconds", 60)
	v.SetDefault("export.scale", 2.0)
	v.SetDefault("export.hold_ms", 1500)
	v.SetDefault("export.thumbnail_quality", 80)
	v.SetDefault("export.lock_ttl_seconds", 180)
	v.SetDefault("editor.default_theme", "Modern Professional")
	v.SetDefault("editor.preview_scale", 1.0)
	v.SetDefault("editor.photo_max_bytes", 5*1024*1024)
	v.SetDefault("worker.concurrency", 4)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                  "API_PORT",
		"api.allowed_origins":       "API_ALLOWED_ORIGINS",
		"api.enqueue_limit":         "API_ENQUEUE_LIMIT",
		"database.host":             "DATABASE_HOST",
		"database.port":             "DATABASE_PORT",
		"database.name":             "POSTGRES_DB",
		"database.user":             "POSTGRES_USER",
		"database.password":         "POSTGRES_PASSWORD",
		"database.sslmode":          "DATABASE_SSLMODE",
		"redis.host":                "REDIS_HOST",
		"redis.port":                "REDIS_PORT",
		"redis.password":            "REDIS_PASSWORD",
		"redis.db":                  "REDIS_DB",
		"minio.endpoint":            "MINIO_ENDPOINT",
		"minio.public_endpoint":     "MINIO_PUBLIC_ENDPOINT",
		"minio.region":              "MINIO_REGION",
		"minio.bucket_lookup":       "MINIO_BUCKET_LOOKUP",
		"minio.auto_create_bucket":  "MINIO_AUTO_CREATE_BUCKET",
		"minio.presign_ttl_seconds": "MINIO_PRESIGN_TTL_SECONDS",
		"minio.access_key_id":       "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":   "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":             "MINIO_USE_SSL",
		"minio.bucket":              "MINIO_BUCKET",
		"browser.bin":               "CHROMIUM_BIN",
		"browser.no_sandbox":        "CHROMIUM_NO_SANDBOX",
		"browser.timeout_seconds":   "CHROMIUM_TIMEOUT_SECONDS",
		"export.scale":              "EXPORT_SCALE",
		"export.hold_ms":            "EXPORT_HOLD_MS",
		"export.thumbnail_quality":  "EXPORT_THUMBNAIL_QUALITY",
		"export.lock_ttl_seconds":   "EXPORT_LOCK_TTL_SECONDS",
		"editor.default_theme":      "EDITOR_DEFAULT_THEME",
		"editor.preview_scale":      "EDITOR_PREVIEW_SCALE",
		"editor.photo_max_bytes":    "EDITOR_PHOTO_MAX_BYTES",
		"clamd.address":             "CLAMD_ADDRESS",
		"worker.concurrency":        "WORKER_CONCURRENCY",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.Export.Scale < 1 || cfg.Export.Scale > 4 {
		return errors.New("export scale must be between 1 and 4")
	}
	if cfg.Export.HoldMillis < 0 {
		return errors.New("export hold must not be negative")
	}
	if cfg.Export.ThumbnailQuality <= 0 || cfg.Export.ThumbnailQuality > 100 {
		return errors.New("thumbnail quality must be between 1 and 100")
	}
	if cfg.Browser.TimeoutSeconds <= 0 {
		return errors.New("browser timeout must be positive")
	}
	if cfg.Editor.DefaultTheme == "" {
		return errors.New("editor default theme is required")
	}
	if cfg.Editor.PreviewScale <= 0 {
		return errors.New("editor preview scale must be positive")
	}
	if cfg.Editor.PhotoMaxBytes <= 0 {
		return errors.New("editor photo max bytes must be positive")
	}
	return nil
}

// ValidateServices checks the settings the API and worker need on top of
// Load's checks.
func (cfg *Config) ValidateServices() error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.Database.Host == "" {
		return errors.New("database host is required")
	}
	if cfg.Database.Port <= 0 {
		return errors.New("database port must be positive")
	}
	if cfg.Database.Name == "" {
		return errors.New("database name is required")
	}
	if cfg.Database.User == "" {
		return errors.New("database user is required")
	}
	if cfg.Database.Password == "" {
		return errors.New("database password is required")
	}
	if cfg.Database.SSLMode == "" {
		return errors.New("database sslmode is required")
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.MinIO.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if cfg.MinIO.AccessKeyID == "" {
		return errors.New("minio access key id is required")
	}
	if cfg.MinIO.SecretAccessKey == "" {
		return errors.New("minio secret access key is required")
	}
	if cfg.MinIO.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	if cfg.MinIO.PublicEndpoint == "" {
		return errors.New("minio public endpoint is required")
	}
	if cfg.MinIO.PresignTTLSecs <= 0 {
		return errors.New("minio presign ttl must be positive")
	}
	if cfg.Export.LockTTLSeconds <= 0 {
		return errors.New("export lock ttl must be positive")
	}
	if cfg.Worker.Concurrency <= 0 {
		return errors.New("worker concurrency must be positive")
	}
	return nil
}
