package config

import (
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	configFileEnv     = "CONFIG_FILE"
	defaultConfigFile = "/config/arcane.yaml"
)

type Config struct {
	CORSAllowedOrigins        string        `koanf:"cors_allowed_origins"`
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path" required:"true"`
	Environment               string        `koanf:"environment"`
	GeminiAPIKey              string        `koanf:"gemini_api_key"`
	GeminiModel               string        `koanf:"gemini_model"`
	MaxContentRunes           int           `koanf:"max_content_runes"`
	ProviderRequestsPerMinute int           `koanf:"provider_requests_per_minute"`
	ScraperTimeout            time.Duration `koanf:"scraper_timeout"`
	ScraperUserAgent          string        `koanf:"scraper_user_agent"`
	ServerHost                string        `koanf:"server_host"`
	ServerPort                int           `koanf:"server_port"`
}

func defaults() *Config {
	return &Config{
		CORSAllowedOrigins:        "http://localhost:8080,http://127.0.0.1:8080",
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		Environment:               "development",
		GeminiModel:               "gemini-2.5-flash",
		MaxContentRunes:           200000,
		ProviderRequestsPerMinute: 10,
		ScraperTimeout:            30 * time.Second,
		ScraperUserAgent:          "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
		ServerHost:                "0.0.0.0",
		ServerPort:                8000,
	}
}

// New loads the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if it exists), then environment variables. Environment
// variables are the upper snake case version of the config key, e.g.
// DATABASE_FILE_PATH for database_file_path.
func New() (*Config, error) {
	k := koanf.New(".")

	path := os.Getenv(configFileEnv)
	if path == "" {
		path = defaultConfigFile
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", path)
		}
	}

	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load environment")
	}

	cfg := defaults()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns a config that points at an in-memory database.
func NewForTest() *Config {
	cfg := defaults()
	cfg.DatabaseFilePath = ":memory:"
	cfg.DatabaseConnectRetryCount = 1
	cfg.DatabaseConnectRetryDelay = 0
	cfg.Environment = "test"
	cfg.ServerHost = "127.0.0.1"
	cfg.ServerPort = 0
	return cfg
}

// AllowedOrigins splits the comma separated CORS origins.
func (cfg *Config) AllowedOrigins() []string {
	origins := []string{}
	for _, o := range strings.Split(cfg.CORSAllowedOrigins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (cfg *Config) validate() error {
	if strings.TrimSpace(cfg.DatabaseFilePath) == "" {
		return missingRequired("DatabaseFilePath")
	}
	if cfg.ServerPort < 0 || cfg.ServerPort > 65535 {
		return errors.Errorf("invalid config: server_port %d is out of range", cfg.ServerPort)
	}
	if cfg.ProviderRequestsPerMinute < 0 {
		return errors.New("invalid config: provider_requests_per_minute can't be negative")
	}
	return nil
}

func missingRequired(field string) error {
	key := toSnakeCase(field)
	return errors.Errorf("missing required config: %s (or %s in the config file)", strings.ToUpper(key), key)
}

func toSnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
