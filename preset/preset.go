// Package preset loads named kernel configurations from TOML or YAML files
// and turns them into kernels and request options.
package preset

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	kernels "github.com/tphakala/go-video-kernels"
)

// Config is a set of named presets.
type Config struct {
	// Default names the preset used when none is requested.
	Default string            `toml:"default" yaml:"default"`
	Presets map[string]Preset `toml:"presets" yaml:"presets"`
}

// Preset describes a kernel and the request options it is used with.
type Preset struct {
	Kernel string         `toml:"kernel" yaml:"kernel"`
	Params map[string]any `toml:"params" yaml:"params"`

	Linear  bool           `toml:"linear" yaml:"linear"`
	Sigmoid *SigmoidConfig `toml:"sigmoid" yaml:"sigmoid"`

	BorderHandling string `toml:"border_handling" yaml:"border_handling"`
	SampleGrid     string `toml:"sample_grid" yaml:"sample_grid"`
	KeepAR         *bool  `toml:"keep_ar" yaml:"keep_ar"`
}

// SigmoidConfig enables sigmoid processing. Zero fields take the default
// slope and center.
type SigmoidConfig struct {
	Slope  float64 `toml:"slope" yaml:"slope"`
	Center float64 `toml:"center" yaml:"center"`
}

func (s *SigmoidConfig) resolve() kernels.Sigmoid {
	out := kernels.DefaultSigmoid()
	if s.Slope != 0 {
		out.Slope = s.Slope
	}
	if s.Center != 0 {
		out.Center = s.Center
	}
	return out
}

// Get returns the named preset, or the default one when name is empty.
func (c *Config) Get(name string) (Preset, error) {
	if name == "" {
		name = c.Default
	}
	p, ok := c.Presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: no preset named %q", kernels.ErrInvalidConfig, name)
	}
	return p, nil
}

// Names returns the preset names in sorted order.
func (c *Config) Names() []string {
	return slices.Sorted(maps.Keys(c.Presets))
}

// Validate checks every preset and the default reference.
func (c *Config) Validate() error {
	if c.Default != "" {
		if _, ok := c.Presets[c.Default]; !ok {
			return fmt.Errorf("%w: default preset %q is not defined", kernels.ErrInvalidConfig, c.Default)
		}
	}
	for _, name := range c.Names() {
		if err := c.Presets[name].Validate(); err != nil {
			return fmt.Errorf("preset %q: %w", name, err)
		}
	}
	return nil
}

// Validate checks the preset without instantiating its kernel.
func (p Preset) Validate() error {
	if _, err := kernels.FromParam(p.Kernel); err != nil {
		return err
	}
	if p.Sigmoid != nil {
		if err := p.Sigmoid.resolve().Validate(); err != nil {
			return err
		}
	}
	if _, err := ParseBorderHandling(p.BorderHandling); err != nil {
		return err
	}
	if _, err := ParseSampleGrid(p.SampleGrid); err != nil {
		return err
	}
	return nil
}

// Build instantiates the kernel and returns the request options of the preset.
func (p Preset) Build() (*kernels.Kernel, []kernels.Option, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	typ, _ := kernels.FromParam(p.Kernel)
	k, err := kernels.NewKernel(typ, kernels.Args(p.Params))
	if err != nil {
		return nil, nil, fmt.Errorf("kernel %s: %w", typ, err)
	}

	border, _ := ParseBorderHandling(p.BorderHandling)
	grid, _ := ParseSampleGrid(p.SampleGrid)
	opts := []kernels.Option{
		kernels.WithLinear(p.Linear),
		kernels.WithBorderHandling(border),
		kernels.WithSampleGrid(grid),
	}
	if p.Sigmoid != nil {
		s := p.Sigmoid.resolve()
		opts = append(opts, kernels.WithSigmoid(s.Slope, s.Center))
	}
	if p.KeepAR != nil {
		opts = append(opts, kernels.WithKeepAR(*p.KeepAR))
	}
	return k, opts, nil
}

// ParseBorderHandling parses "mirror", "zero" or "repeat". Empty means mirror.
func ParseBorderHandling(s string) (kernels.BorderHandling, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mirror":
		return kernels.BorderMirror, nil
	case "zero":
		return kernels.BorderZero, nil
	case "repeat":
		return kernels.BorderRepeat, nil
	}
	return 0, fmt.Errorf("%w: unknown border handling %q", kernels.ErrInvalidConfig, s)
}

// ParseSampleGrid parses "match_edges" or "match_centers". Empty means match_edges.
func ParseSampleGrid(s string) (kernels.SampleGridModel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "match_edges", "edges":
		return kernels.MatchEdges, nil
	case "match_centers", "centers":
		return kernels.MatchCenters, nil
	}
	return 0, fmt.Errorf("%w: unknown sample grid %q", kernels.ErrInvalidConfig, s)
}
