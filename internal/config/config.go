// Package config loads the builder configuration from defaults, an optional
// showcase.yaml, a .env file and SHOWCASE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/showcase-dev/showcase/internal/catalog"
)

// FileName is the config file looked up in the base directory.
const FileName = "showcase.yaml"

// EnvPrefix prefixes every environment override, e.g. SHOWCASE_OUTPUT_FILE.
const EnvPrefix = "SHOWCASE"

// Config is the in-memory representation of showcase.yaml.
type Config struct {
	BaseDir       string   `mapstructure:"-" yaml:"-"`
	GroupedRoot   string   `mapstructure:"grouped_root" yaml:"grouped_root"`
	NestedRoot    string   `mapstructure:"nested_root" yaml:"nested_root"`
	ManifestName  string   `mapstructure:"manifest_name" yaml:"manifest_name"`
	OutputFile    string   `mapstructure:"output_file" yaml:"output_file"`
	CacheFile     string   `mapstructure:"cache_file" yaml:"cache_file"`
	Excludes      []string `mapstructure:"excludes" yaml:"excludes,omitempty"`
	SiteTitle     string   `mapstructure:"site_title" yaml:"site_title,omitempty"`
	SiteSubtitle  string   `mapstructure:"site_subtitle" yaml:"site_subtitle,omitempty"`
	WatchMode     string   `mapstructure:"watch_mode" yaml:"watch_mode"`
	WatchInterval string   `mapstructure:"watch_interval" yaml:"watch_interval"`
	WatchDebounce string   `mapstructure:"watch_debounce" yaml:"watch_debounce"`
	LockTimeout   string   `mapstructure:"lock_timeout" yaml:"lock_timeout"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		BaseDir:       ".",
		GroupedRoot:   "challenges",
		NestedRoot:    "other",
		ManifestName:  "index.html",
		OutputFile:    filepath.Join("public", "index.html"),
		CacheFile:     ".project_cache.json",
		Excludes:      []string{".*", "node_modules"},
		WatchMode:     "poll",
		WatchInterval: "1s",
		WatchDebounce: "5s",
		LockTimeout:   "2s",
	}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// ConfigPath returns the default config file location for baseDir.
func ConfigPath(baseDir string) string {
	return filepath.Join(baseDir, FileName)
}

// Load reads configuration for baseDir. cfgFile, when set, replaces the
// default <baseDir>/showcase.yaml lookup and must exist.
// Precedence: environment > <baseDir>/.env > config file > defaults.
func Load(baseDir, cfgFile string) (*Config, error) {
	if baseDir == "" {
		baseDir = "."
	}
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault("grouped_root", def.GroupedRoot)
	v.SetDefault("nested_root", def.NestedRoot)
	v.SetDefault("manifest_name", def.ManifestName)
	v.SetDefault("output_file", def.OutputFile)
	v.SetDefault("cache_file", def.CacheFile)
	v.SetDefault("excludes", def.Excludes)
	v.SetDefault("site_title", "")
	v.SetDefault("site_subtitle", "")
	v.SetDefault("watch_mode", def.WatchMode)
	v.SetDefault("watch_interval", def.WatchInterval)
	v.SetDefault("watch_debounce", def.WatchDebounce)
	v.SetDefault("lock_timeout", def.LockTimeout)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("cannot read config %s: %w", cfgFile, err)
		}
	} else {
		v.AddConfigPath(baseDir)
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("cannot read config in %s: %w", baseDir, err)
			}
		}
	}

	dotenv, err := LoadDotEnv(baseDir)
	if err != nil {
		return nil, err
	}
	for k, val := range dotenv {
		key, ok := strings.CutPrefix(k, EnvPrefix+"_")
		if !ok || os.Getenv(k) != "" {
			continue
		}
		v.Set(strings.ToLower(key), val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config: %w", err)
	}
	cfg.BaseDir = baseDir
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolve expands ~ and anchors relative output/cache paths at BaseDir.
func (c *Config) resolve() error {
	var err error
	if c.BaseDir, err = ExpandPath(c.BaseDir); err != nil {
		return err
	}
	for _, p := range []*string{&c.OutputFile, &c.CacheFile} {
		if *p, err = ExpandPath(*p); err != nil {
			return err
		}
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(c.BaseDir, *p)
		}
	}
	if c.ManifestName == "" {
		return fmt.Errorf("manifest_name must not be empty")
	}
	if c.OutputFile == "" || c.CacheFile == "" {
		return fmt.Errorf("output_file and cache_file must not be empty")
	}
	return nil
}

// Layout returns the scan layout described by c.
func (c *Config) Layout() catalog.Layout {
	return catalog.Layout{
		BaseDir:      c.BaseDir,
		GroupedRoot:  c.GroupedRoot,
		NestedRoot:   c.NestedRoot,
		ManifestName: c.ManifestName,
		Excludes:     c.Excludes,
	}
}

// Interval parses WatchInterval.
func (c *Config) Interval() (time.Duration, error) { return parseDuration("watch_interval", c.WatchInterval) }

// Debounce parses WatchDebounce.
func (c *Config) Debounce() (time.Duration, error) { return parseDuration("watch_debounce", c.WatchDebounce) }

// LockWait parses LockTimeout.
func (c *Config) LockWait() (time.Duration, error) { return parseDuration("lock_timeout", c.LockTimeout) }

func parseDuration(key, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, s)
	}
	return d, nil
}

// Save marshals cfg and writes it to path.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}
