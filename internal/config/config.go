/*
PURPOSE:
  Defines the configuration structure and loading logic for mccabe-thiele.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Choose the VLE table (bundled, ideal binary, file, remote catalog).
  - Provide the base process parameters and a list of cases to run.

  Implementation-discovered:
  - Needs to support YAML parsing.
  - Cases are partial overlays on the base parameters: only the keys that
    change are listed.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine
  - Dependencies: gopkg.in/yaml.v3 (standard for Go config)

ERROR HANDLING:
  - Returns explicit error if config file is invalid.
  - Missing default file falls back to defaults.
  - Validate() rejects unknown systems, unknown overlay keys, bad sweeps.

IMPLEMENTATION RULES:
  - Config struct tags should support yaml.
  - Defaults reproduce the bundled methanol-water example.

USAGE:
  cfg, err := config.Load("mccabe.yaml")

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Update when adding new tuning parameters.
*/

package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/daryltucker/mccabe-thiele/internal/model"
	"gopkg.in/yaml.v3"
)

// Table systems.
const (
	SystemMethanolWater = "methanol-water"
	SystemIdealBinary   = "ideal-binary"
	SystemFile          = "file"
	SystemRemote        = "remote"
)

// Table selects where the equilibrium data comes from.
type Table struct {
	System string `yaml:"system"`
	// Path is read when System is "file".
	Path string `yaml:"path"`
	// URL is fetched when System is "remote".
	URL string `yaml:"url"`
	// APIKey is sent as "apikey" and bearer token to the remote catalog.
	APIKey string `yaml:"api_key"`
	// Alpha and Samples drive the "ideal-binary" generator.
	Alpha   float64 `yaml:"alpha"`
	Samples int     `yaml:"samples"`
}

// Sweep is an r_factor range.
type Sweep struct {
	From  float64 `yaml:"from"`
	To    float64 `yaml:"to"`
	Steps int     `yaml:"steps"`
}

// Config represents the full configuration for mccabe-thiele.
type Config struct {
	Table      Table            `yaml:"table"`
	Parameters model.Parameters `yaml:"parameters"`
	// Cases overlay Parameters; an empty list runs Parameters once.
	Cases []map[string]float64 `yaml:"cases"`
	Sweep Sweep                `yaml:"sweep"`

	OutputDir      string        `yaml:"output_dir"`
	OutputFile     string        `yaml:"output_file"`
	MaxRetries     int           `yaml:"max_retries"`
	RetryDelay     time.Duration `yaml:"retry_delay"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	LogLevel       string        `yaml:"log_level"`
	LogFormat      string        `yaml:"log_format"`
}

// Case is one named parameter set ready to run.
type Case struct {
	Name       string
	Parameters model.Parameters
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Table: Table{
			System:  SystemMethanolWater,
			Alpha:   2.5,
			Samples: 101,
		},
		Parameters: model.Parameters{
			XD: 0.9, XB: 0.1, ZF: 0.5, Q: 1.0, RFactor: 1.5, NM: 1.0, SC: 0,
		},
		Sweep:          Sweep{From: 1.05, To: 3.0, Steps: 40},
		OutputDir:      ".",
		OutputFile:     "mccabe_results.csv",
		MaxRetries:     3,
		RetryDelay:     2 * time.Second,
		RequestTimeout: 30 * time.Second,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// DefaultFiles are searched in order when no path is given.
var DefaultFiles = []string{"mccabe.yaml", "mccabe.yml", "mccabe_thiele.yaml"}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches for default files in order.
// If no file found, returns default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
	} else {
		found := false
		for _, name := range DefaultFiles {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				found = true
				break
			}
		}
		if !found {
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the structural parts of the config. Parameter domains are
// checked by the engine at run time.
func (c *Config) Validate() error {
	switch c.Table.System {
	case SystemMethanolWater:
	case SystemIdealBinary:
		if c.Table.Alpha <= 1 {
			return fmt.Errorf("table.alpha must be greater than 1 for %s (got %v)", SystemIdealBinary, c.Table.Alpha)
		}
	case SystemFile:
		if c.Table.Path == "" {
			return fmt.Errorf("table.path is required for system %q", SystemFile)
		}
	case SystemRemote:
		if c.Table.URL == "" {
			return fmt.Errorf("table.url is required for system %q", SystemRemote)
		}
	default:
		return fmt.Errorf("unknown table.system %q", c.Table.System)
	}

	for i, overlay := range c.Cases {
		for key := range overlay {
			if _, ok := setters[key]; !ok {
				return fmt.Errorf("cases[%d]: unknown parameter %q (want one of %s)", i, key, strings.Join(ParameterKeys(), ", "))
			}
		}
	}

	if c.Sweep.Steps < 1 {
		return fmt.Errorf("sweep.steps must be at least 1 (got %d)", c.Sweep.Steps)
	}
	if c.Sweep.From <= 0 || c.Sweep.To < c.Sweep.From {
		return fmt.Errorf("sweep range must satisfy 0 < from <= to (got %v..%v)", c.Sweep.From, c.Sweep.To)
	}
	return nil
}

var setters = map[string]func(*model.Parameters, float64){
	"xd":       func(p *model.Parameters, v float64) { p.XD = v },
	"xb":       func(p *model.Parameters, v float64) { p.XB = v },
	"zf":       func(p *model.Parameters, v float64) { p.ZF = v },
	"q":        func(p *model.Parameters, v float64) { p.Q = v },
	"r_factor": func(p *model.Parameters, v float64) { p.RFactor = v },
	"nm":       func(p *model.Parameters, v float64) { p.NM = v },
	"sc":       func(p *model.Parameters, v float64) { p.SC = v },
}

// ParameterKeys lists the keys accepted in a case overlay.
func ParameterKeys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Apply returns base with overlay applied.
func Apply(base model.Parameters, overlay map[string]float64) (model.Parameters, error) {
	p := base
	for key, v := range overlay {
		set, ok := setters[key]
		if !ok {
			return base, fmt.Errorf("unknown parameter %q", key)
		}
		set(&p, v)
	}
	return p, nil
}

// Expand turns the overlays into named cases.
func (c *Config) Expand() ([]Case, error) {
	if len(c.Cases) == 0 {
		return []Case{{Name: "base", Parameters: c.Parameters}}, nil
	}
	out := make([]Case, 0, len(c.Cases))
	for i, overlay := range c.Cases {
		p, err := Apply(c.Parameters, overlay)
		if err != nil {
			return nil, fmt.Errorf("cases[%d]: %w", i, err)
		}
		out = append(out, Case{Name: caseName(i, overlay), Parameters: p})
	}
	return out, nil
}

// caseName renders an overlay as "case-2 nm=0.7 r_factor=1.2".
func caseName(i int, overlay map[string]float64) string {
	keys := make([]string, 0, len(overlay))
	for k := range overlay {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := []string{fmt.Sprintf("case-%d", i+1)}
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%g", k, overlay[k]))
	}
	return strings.Join(parts, " ")
}
