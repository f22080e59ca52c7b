// Package config resolves the settings of a single snp invocation: the
// template search path, file extensions, editor and output preferences.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables understood by snp.
const (
	// EnvPath is a colon-separated list of template directories, searched in order.
	EnvPath = "SNP_PATH"
	// EnvEditor overrides the editor used by --edit.
	EnvEditor = "SNP_EDITOR"
	// EnvConfig points at an alternative config file.
	EnvConfig = "SNP_CONFIG"

	envPrefix = "SNP_"
)

const (
	// DefaultSearchDir is used when neither SNP_PATH nor the config file sets a search path.
	DefaultSearchDir = "~/.snp_templates"
	// DefaultTemplateExt is the suffix of template files.
	DefaultTemplateExt = "erb"

	appConfigDir  = "snp"
	appConfigFile = "config.yaml"
)

// DefaultDataExts lists the default data file suffixes in lookup order.
var DefaultDataExts = []string{"yml", "yaml", "toml", "json"}

// Config is computed once per invocation and handed to the components that need it.
// Nothing else in snp reads the process environment for these values.
type Config struct {
	// SearchPath holds absolute directories, first match wins. Never empty.
	SearchPath  []string `koanf:"search_path"`
	TemplateExt string   `koanf:"template_ext"`
	DataExts    []string `koanf:"data_exts"`
	Editor      string   `koanf:"editor"`
	Highlight   bool     `koanf:"highlight"`
	Style       string   `koanf:"style"`
}

// LoadOptions tweaks where Load looks for its inputs.
type LoadOptions struct {
	// ConfigFile overrides the config file location. When empty, SNP_CONFIG and
	// then $XDG_CONFIG_HOME/snp/config.yaml are used.
	ConfigFile string
	Logger     *slog.Logger
}

// Default returns the built-in configuration with its search path expanded.
func Default() *Config {
	cfg := &Config{
		SearchPath:  []string{DefaultSearchDir},
		TemplateExt: DefaultTemplateExt,
		DataExts:    append([]string(nil), DefaultDataExts...),
		Style:       "monokai",
	}
	cfg.SearchPath = expandAll(cfg.SearchPath)

	return cfg
}

// Load layers the built-in defaults, the optional config file and the SNP_*
// environment variables, in that order, and returns the resulting Config.
func Load(opts LoadOptions) (*Config, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	k := koanf.New(".")

	defaults := map[string]interface{}{
		"search_path":  []string{DefaultSearchDir},
		"template_ext": DefaultTemplateExt,
		"data_exts":    DefaultDataExts,
		"highlight":    false,
		"style":        "monokai",
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	configPath := opts.ConfigFile
	if configPath == "" {
		configPath = Path()
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), kyaml.Parser()); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
			}
			logger.Debug("loaded config file", slog.String("path", configPath))
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if err := k.Load(env.ProviderWithValue(envPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}

	logger.Debug("search path resolved", slog.Any("dirs", cfg.SearchPath))

	return &cfg, nil
}

// Path returns the config file location: SNP_CONFIG when set, otherwise
// snp/config.yaml under the XDG config home.
func Path() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return ExpandPath(p)
	}

	return filepath.Join(xdg.ConfigHome, appConfigDir, appConfigFile)
}

// envValue maps SNP_* variables onto config keys. Unknown or empty variables are dropped.
func envValue(key, value string) (string, interface{}) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}

	switch key {
	case EnvPath:
		dirs := SplitPathList(value)
		if len(dirs) == 0 {
			return "", nil
		}
		return "search_path", dirs
	case EnvEditor:
		return "editor", value
	case "SNP_HIGHLIGHT":
		return "highlight", value
	case "SNP_STYLE":
		return "style", value
	default:
		return "", nil
	}
}

// SplitPathList splits a PATH-style list on ':' dropping empty segments.
func SplitPathList(list string) []string {
	var dirs []string
	for _, d := range strings.Split(list, ":") {
		if strings.TrimSpace(d) == "" {
			continue
		}
		dirs = append(dirs, d)
	}

	return dirs
}

func (c *Config) finalize() error {
	c.SearchPath = expandAll(c.SearchPath)
	if len(c.SearchPath) == 0 {
		c.SearchPath = expandAll([]string{DefaultSearchDir})
	}

	c.TemplateExt = strings.TrimPrefix(c.TemplateExt, ".")
	if c.TemplateExt == "" {
		return fmt.Errorf("%w: template_ext is empty", ErrInvalidConfig)
	}

	exts := make([]string, 0, len(c.DataExts))
	for _, ext := range c.DataExts {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	if len(exts) == 0 {
		return fmt.Errorf("%w: data_exts is empty", ErrInvalidConfig)
	}
	c.DataExts = exts

	return nil
}

// expandAll expands ~ in every directory and makes it absolute, keeping order.
func expandAll(dirs []string) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if strings.TrimSpace(d) == "" {
			continue
		}
		p := ExpandPath(d)
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		out = append(out, p)
	}

	return out
}

// ExpandPath expands a leading ~ to the invoking user's home directory.
// Paths without a leading ~ are returned unchanged.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return path
}
