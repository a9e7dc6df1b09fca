package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/jgivc/sitemapgen/internal/common"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	defaultSource              = "."
	defaultDestination         = "_site"
	defaultListen              = ":8080"
	defaultFilename            = "/sitemap.xml"
	defaultChangeFrequencyName = "change_frequency"
	defaultPriorityName        = "priority"
	defaultCategoryDir         = "categories"
	defaultKeyPrefix           = "sitemap"

	envURL         = "SITEMAP_URL"
	envSource      = "SITEMAP_SOURCE"
	envDestination = "SITEMAP_DESTINATION"
	envLogLevel    = "SITEMAP_LOG_LEVEL"
	envRedisURL    = "SITEMAP_REDIS_URL"

	envFileName = ".env"
)

var (
	defaultExclude      = []string{"/atom.xml", "/feed.xml", "/rss.xml"}
	defaultIncludePosts = []string{"/index.html"}
)

type SitemapConfig struct {
	Filename            string   `yaml:"filename"`
	Exclude             []string `yaml:"exclude"`
	IncludePosts        []string `yaml:"include_posts"`
	ChangeFrequencyName string   `yaml:"change_frequency_name"`
	PriorityName        string   `yaml:"priority_name"`
}

type ArchivesConfig struct {
	Categories  bool   `yaml:"categories"`
	CategoryDir string `yaml:"category_dir"`
	Yearly      bool   `yaml:"yearly"`
	Monthly     bool   `yaml:"monthly"`
}

type PublishConfig struct {
	RedisURL  string `yaml:"redis_url"`
	KeyPrefix string `yaml:"key_prefix"`
}

type Config struct {
	URL         string         `yaml:"url"`
	Source      string         `yaml:"source"`
	Destination string         `yaml:"destination"`
	LogLevel    string         `yaml:"log_level"`
	Listen      string         `yaml:"listen"`
	Sitemap     SitemapConfig  `yaml:"sitemap"`
	Archives    ArchivesConfig `yaml:"archives"`
	Publish     PublishConfig  `yaml:"publish"`
}

// LoaderConfig is the part of the config the site loader needs.
type LoaderConfig struct {
	BaseURL     string
	Source      string
	Destination string
	Archives    ArchivesConfig
}

func (c *Config) SetDefaults() {
	c.Source = defaultSource
	c.Destination = defaultDestination
	c.LogLevel = LogLevelInfo
	c.Listen = defaultListen

	c.Sitemap.Filename = defaultFilename
	c.Sitemap.Exclude = append([]string(nil), defaultExclude...)
	c.Sitemap.IncludePosts = append([]string(nil), defaultIncludePosts...)
	c.Sitemap.ChangeFrequencyName = defaultChangeFrequencyName
	c.Sitemap.PriorityName = defaultPriorityName

	c.Archives.CategoryDir = defaultCategoryDir
	c.Publish.KeyPrefix = defaultKeyPrefix
}

func (c *Config) LoaderConfig() *LoaderConfig {
	return &LoaderConfig{
		BaseURL:     c.URL,
		Source:      c.Source,
		Destination: c.Destination,
		Archives:    c.Archives,
	}
}

// DestinationDir is the output directory. A relative destination lives under the source.
func (c *Config) DestinationDir() string {
	if filepath.IsAbs(c.Destination) {
		return filepath.Clean(c.Destination)
	}

	return filepath.Join(c.Source, c.Destination)
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	if err := validateURL(c.URL); err != nil {
		return err
	}

	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("%w: unknown log level %q", common.ErrInvalidConfig, c.LogLevel)
	}

	if c.Sitemap.Filename == "" {
		return fmt.Errorf("%w: sitemap filename is empty", common.ErrInvalidConfig)
	}

	if c.Sitemap.ChangeFrequencyName == "" || c.Sitemap.PriorityName == "" {
		return fmt.Errorf("%w: sitemap field names must not be empty", common.ErrInvalidConfig)
	}

	if c.Destination == "" {
		return fmt.Errorf("%w: destination is empty", common.ErrInvalidConfig)
	}

	return nil
}

// validateURL requires an absolute http(s) base URL, every <loc> is built on it.
func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: url is empty", common.ErrInvalidConfig)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: cannot parse url %q: %w", common.ErrInvalidConfig, raw, err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: url %q is not an absolute http(s) url", common.ErrInvalidConfig, raw)
	}

	return nil
}

/*
Load reads the config file. Values not present in the file keep their defaults,
environment variables (optionally from .env) override both.
An empty path means "defaults and environment only".
*/
func Load(path string) (*Config, error) {
	if err := godotenv.Load(envFileName); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("cannot load %s: %w", envFileName, err)
	}

	cfg := &Config{}
	cfg.SetDefaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
		}

		if err := Parse(data, cfg); err != nil {
			return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Parse decodes YAML over cfg.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}

	cfg.Sitemap.Exclude = normalizePaths(cfg.Sitemap.Exclude)
	cfg.Sitemap.IncludePosts = normalizePaths(cfg.Sitemap.IncludePosts)

	return nil
}

func (c *Config) applyEnv() {
	for env, dst := range map[string]*string{
		envURL:         &c.URL,
		envSource:      &c.Source,
		envDestination: &c.Destination,
		envLogLevel:    &c.LogLevel,
		envRedisURL:    &c.Publish.RedisURL,
	} {
		if v, ok := os.LookupEnv(env); ok {
			*dst = v
		}
	}
}

// normalizePaths makes every configured path start with a slash, so that
// "atom.xml" and "/atom.xml" mean the same item.
func normalizePaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}

		out = append(out, p)
	}

	return out
}
