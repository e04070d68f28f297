// config loads the application configuration from a yaml file in the kind/def envelope:
//
//	kind: tripedit
//	def:
//	  server:
//	    host: ""
//	    port: "8080"
//	  ...
//
// Keys are case-insensitive. Environment variables prefixed with TRIPEDIT_ override
// the file's values, for example TRIPEDIT_DEF_SERVER_PORT=9090.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Kind is the only config kind understood.
const Kind = "tripedit"

// ErrKind is returned for a config file of another kind.
var ErrKind = errors.New("unexpected config kind")

// OuterConfig is the envelope of every config file.
type OuterConfig struct {
	Kind string  `mapstructure:"kind"`
	Def  *Config `mapstructure:"def"`
}

// ServerConfig holds the http listener settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// Addr returns the listen address.
func (sc ServerConfig) Addr() string {
	return sc.Host + ":" + sc.Port
}

// Config is the application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	// CatalogPath is the catalog file; relative paths are resolved against the config file's directory.
	CatalogPath string `mapstructure:"catalogPath"`
	// WatchCatalog reloads the catalog when its file changes.
	WatchCatalog bool `mapstructure:"watchCatalog"`
	// SessionTimeout is how long an edit page may take to open its websocket before its session is dropped.
	SessionTimeout time.Duration `mapstructure:"sessionTimeout"`
	// BatchRate is the period over which a page's updates are batched before publishing.
	BatchRate time.Duration `mapstructure:"batchRate"`
}

// Default returns the configuration used for values a file leaves unset.
func Default() *Config {
	return &Config{
		Server:         ServerConfig{Port: "8080"},
		CatalogPath:    "catalog.yaml",
		WatchCatalog:   true,
		SessionTimeout: 30 * time.Second,
		BatchRate:      20 * time.Millisecond,
	}
}

// FromYaml reads the config at path. Values the file leaves unset keep Default's.
func FromYaml(path string) (*Config, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.SetEnvPrefix("TRIPEDIT")
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()

	var err error
	if err = vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Unmarshal reads every leaf through viper's getters, so env overrides apply, and
	// its weakly typed decoding turns their strings into bools, ints and durations.
	outerConfig := &OuterConfig{Def: Default()}
	if err = vp.Unmarshal(outerConfig); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if outerConfig.Kind != Kind {
		return nil, fmt.Errorf("%w: %q", ErrKind, outerConfig.Kind)
	}
	cfg := outerConfig.Def
	if cfg.CatalogPath != "" && !filepath.IsAbs(cfg.CatalogPath) {
		cfg.CatalogPath = filepath.Join(filepath.Dir(path), cfg.CatalogPath)
	}
	return cfg, nil
}
