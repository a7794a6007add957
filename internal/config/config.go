package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the sitesearch service configuration.
type Config struct {
	HTTP         HTTPConfig         `yaml:"http"`
	Solr         SolrConfig         `yaml:"solr"`
	CatalogCache CatalogCacheConfig `yaml:"catalog_cache"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"` // not applied to streaming exports
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SolrConfig holds search backend settings.
type SolrConfig struct {
	URL             string `yaml:"url"` // core or collection base URL, e.g. http://solr:8983/solr/site_search
	TimeoutSec      int    `yaml:"timeout_sec"`
	StreamBatchSize int    `yaml:"stream_batch_size"`
}

// Catalog cache drivers.
const (
	CacheDriverRedis  = "redis"
	CacheDriverBadger = "badger"
)

// CatalogCacheConfig holds the optional cache for catalog documents.
type CatalogCacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Driver           string   `yaml:"driver"` // redis (default) or badger
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	Dir              string   `yaml:"dir"` // badger data directory
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Solr.TimeoutSec <= 0 {
		c.Solr.TimeoutSec = 30
	}
	if c.Solr.StreamBatchSize <= 0 {
		c.Solr.StreamBatchSize = 10000
	}
	if c.CatalogCache.Driver == "" {
		c.CatalogCache.Driver = CacheDriverRedis
	}
	if c.CatalogCache.TTLSec <= 0 {
		c.CatalogCache.TTLSec = 300
	}
	if c.CatalogCache.ReadinessTimeout <= 0 {
		c.CatalogCache.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Solr.URL == "" {
		return fmt.Errorf("solr.url is required")
	}
	u, err := url.Parse(c.Solr.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("solr.url must be an absolute http(s) URL, got %q", c.Solr.URL)
	}
	if !c.CatalogCache.Enabled {
		return nil
	}
	switch c.CatalogCache.Driver {
	case "", CacheDriverRedis:
		if len(c.CatalogCache.Addrs) == 0 {
			return fmt.Errorf("catalog_cache.addrs is required for the redis driver")
		}
	case CacheDriverBadger:
		if c.CatalogCache.Dir == "" {
			return fmt.Errorf("catalog_cache.dir is required for the badger driver")
		}
	default:
		return fmt.Errorf("catalog_cache.driver must be %q or %q, got %q",
			CacheDriverRedis, CacheDriverBadger, c.CatalogCache.Driver)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
