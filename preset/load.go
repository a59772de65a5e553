package preset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	kernels "github.com/tphakala/go-video-kernels"
)

// Format is a configuration file syntax.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

const appName = "go-video-kernels"

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: unsupported config file %q", kernels.ErrInvalidConfig, path)
}

// Load reads presets from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/go-video-kernels/presets.{toml,yaml,yml}
//  2. ~/.config/go-video-kernels/presets.{toml,yaml,yml}
//
// If no file exists, returns DefaultConfig().
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	return DefaultConfig(), nil
}

// LoadFromFile reads presets from a specific file path. A missing file
// yields DefaultConfig().
func LoadFromFile(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f, format)
}

// LoadFromReader reads presets from r. Presets in r are added to the
// built-in ones and replace those of the same name.
func LoadFromReader(r io.Reader, format Format) (*Config, error) {
	cfg := DefaultConfig()
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown config format %q", kernels.ErrInvalidConfig, format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns the built-in presets.
func DefaultConfig() *Config {
	keepAR := true
	return &Config{
		Default: "catrom",
		Presets: map[string]Preset{
			"catrom": {
				Kernel: string(kernels.TypeCatrom),
			},
			"mitchell": {
				Kernel: string(kernels.TypeMitchell),
			},
			"sharp": {
				Kernel: string(kernels.TypeLanczos),
				Params: map[string]any{"taps": 4},
			},
			"linear-catrom": {
				Kernel:  string(kernels.TypeCatrom),
				Linear:  true,
				Sigmoid: &SigmoidConfig{},
			},
			"downscale": {
				Kernel:     string(kernels.TypeHermite),
				Linear:     true,
				SampleGrid: "match_centers",
				KeepAR:     &keepAR,
			},
			"spline": {
				Kernel: string(kernels.TypeSpline36),
			},
		},
	}
}

func configSearchPaths() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, appName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", appName))
	}

	var paths []string
	for _, d := range dirs {
		for _, name := range []string{"presets.toml", "presets.yaml", "presets.yml"} {
			paths = append(paths, filepath.Join(d, name))
		}
	}
	return paths
}
