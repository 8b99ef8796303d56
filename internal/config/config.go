package config

import "time"

// Dictionary source kinds.
const (
	SourceHTTP     = "http"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Audio      AudioConfig      `yaml:"audio"`
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,HEAD,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// StaticDir is the site root (pages, /static/, /data/). Empty disables static hosting.
	StaticDir string `yaml:"static_dir" env:"SERVER_STATIC_DIR" env-default:"."`
}

// DictionaryConfig selects and configures the dictionary asset source.
type DictionaryConfig struct {
	Source       string        `yaml:"source"        env:"DICT_SOURCE"        env-default:"file"`
	URL          string        `yaml:"url"           env:"DICT_URL"`
	Path         string        `yaml:"path"          env:"DICT_PATH"          env-default:"data/rucheng_data.json"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"DICT_FETCH_TIMEOUT" env-default:"30s"`
}

// AudioConfig holds audio availability probe settings.
type AudioConfig struct {
	// BaseURL defaults to /static/audio on this server's own listen port.
	BaseURL        string        `yaml:"base_url"        env:"AUDIO_BASE_URL"`
	ExtensionsRaw  string        `yaml:"extensions"      env:"AUDIO_EXTENSIONS"      env-default:".m4a"`
	Timeout        time.Duration `yaml:"timeout"         env:"AUDIO_TIMEOUT"         env-default:"5s"`
	MaxConcurrency int           `yaml:"max_concurrency" env:"AUDIO_MAX_CONCURRENCY" env-default:"8"`

	// Extensions is parsed from ExtensionsRaw during validation.
	Extensions []string `yaml:"-" env:"-"`
}

// DatabaseConfig holds PostgreSQL connection settings. Only used when the
// dictionary source is postgres.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"5"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"false"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"   env:"METRICS_ENABLED"   env-default:"true"`
	Namespace string `yaml:"namespace" env:"METRICS_NAMESPACE" env-default:"rucheng"`
}
