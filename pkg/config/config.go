// Package config loads the optional YAML run configuration.
package config

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/simtrace/pkg/validation"
)

// Chart names accepted under "charts".
const (
	ChartFailure  = "failure"
	ChartMessages = "messages"
	ChartPathTime = "pathtime"
)

// Config is the whole run configuration. Every field has a default, so an
// empty or absent file is valid.
type Config struct {
	LogLevel    string `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat   string `yaml:"log_format" validate:"oneof=json text"`
	Strict      bool   `yaml:"strict"`
	MetricsFile string `yaml:"metrics_file"`

	Connectivity ConnectivityConfig       `yaml:"connectivity"`
	Layout       LayoutConfig             `yaml:"layout"`
	Output       OutputConfig             `yaml:"output"`
	Messages     MessagesConfig           `yaml:"messages"`
	Charts       map[string]ChartOverride `yaml:"charts"`
}

// ConnectivityConfig tunes the connectivity analyzer.
type ConnectivityConfig struct {
	// MaxPairs caps max-flow computations; 0 evaluates every candidate pair.
	MaxPairs int    `yaml:"max_pairs" validate:"gte=0"`
	Seed     uint64 `yaml:"seed"`
}

// LayoutConfig picks and sizes the topology layout.
type LayoutConfig struct {
	// Kind is empty when each command should use its own default layout.
	Kind       string  `yaml:"kind" validate:"omitempty,oneof=circular force hierarchical"`
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Iterations int     `yaml:"iterations" validate:"gte=0"`
	Padding    float64 `yaml:"padding" validate:"gte=0"`
	Seed       uint64  `yaml:"seed"`
}

// OutputConfig says where handoff artifacts go and in which formats.
type OutputConfig struct {
	// Dir defaults to the input file's directory when empty.
	Dir     string   `yaml:"dir"`
	Formats []string `yaml:"formats" validate:"dive,oneof=json gnuplot"`
}

// MessagesConfig selects the outcome field plotted by the messages chart.
type MessagesConfig struct {
	Metric string `yaml:"metric" validate:"oneof=messages delivery time"`
}

// ChartOverride replaces chart text and tick hints. Zero fields keep the
// built-in values.
type ChartOverride struct {
	Title  string    `yaml:"title"`
	XLabel string    `yaml:"x_label"`
	YLabel string    `yaml:"y_label"`
	XTicks []float64 `yaml:"x_ticks"`
	YTicks []float64 `yaml:"y_ticks"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "json",
		Connectivity: ConnectivityConfig{
			MaxPairs: 0,
			Seed:     1,
		},
		Layout: LayoutConfig{
			Width:      800,
			Height:     600,
			Iterations: 50,
			Padding:    50,
			Seed:       1,
		},
		Output: OutputConfig{
			Formats: []string{"json", "gnuplot"},
		},
		Messages: MessagesConfig{Metric: "messages"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks tags first, then cross-field rules, and reports every
// cross-field failure at once.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}

	cv := validation.NewConfigValidator("config").
		PositiveFloat("layout.width", c.Layout.Width).
		PositiveFloat("layout.height", c.Layout.Height).
		Custom("layout.padding", func() error {
			if 2*c.Layout.Padding >= min(c.Layout.Width, c.Layout.Height) {
				return fmt.Errorf("padding %g leaves no room in a %gx%g canvas", c.Layout.Padding, c.Layout.Width, c.Layout.Height)
			}
			return nil
		})

	for _, name := range slices.Sorted(maps.Keys(c.Charts)) {
		o := c.Charts[name]
		cv.OneOf("charts", name, []string{ChartFailure, ChartMessages, ChartPathTime}).
			Ascending("charts."+name+".x_ticks", o.XTicks).
			Ascending("charts."+name+".y_ticks", o.YTicks)
	}

	return cv.Validate()
}

// Chart returns the override for name, or the zero override.
func (c *Config) Chart(name string) ChartOverride {
	return c.Charts[name]
}

// LayoutKind resolves the layout for a command: the flag value, then
// layout.kind, then the command's own default.
func (c *Config) LayoutKind(flag, commandDefault string) string {
	return validation.DefaultOr(flag, validation.DefaultOr(c.Layout.Kind, commandDefault))
}

// OutputDir resolves the artifact directory for an input file.
func (c *Config) OutputDir(inputDir string) string {
	return validation.DefaultOr(c.Output.Dir, inputDir)
}
