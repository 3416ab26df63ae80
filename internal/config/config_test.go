package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/daryltucker/mccabe-thiele/internal/config"
	"github.com/daryltucker/mccabe-thiele/internal/model"
)

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "custom.yaml", `
table:
  system: ideal-binary
  alpha: 2.2
parameters:
  xd: 0.95
  nm: 0.7
cases:
  - {r_factor: 1.2}
retry_delay: 500ms
log_format: json
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Table.System != config.SystemIdealBinary || cfg.Table.Alpha != 2.2 || cfg.Table.Samples != 101 {
		t.Errorf("unexpected table %+v", cfg.Table)
	}
	want := model.Parameters{XD: 0.95, XB: 0.1, ZF: 0.5, Q: 1, RFactor: 1.5, NM: 0.7, SC: 0}
	if cfg.Parameters != want {
		t.Errorf("expected parameters %+v, got %+v", want, cfg.Parameters)
	}
	if cfg.RetryDelay != 500*time.Millisecond {
		t.Errorf("expected retry_delay 500ms, got %v", cfg.RetryDelay)
	}
	if cfg.LogFormat != "json" || cfg.LogLevel != "info" {
		t.Errorf("unexpected logging settings %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if len(cfg.Cases) != 1 || cfg.Cases[0]["r_factor"] != 1.2 {
		t.Errorf("unexpected cases %v", cfg.Cases)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}

func TestLoadSearchesDefaultFiles(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load without files: %v", err)
	}
	def := config.DefaultConfig()
	if cfg.OutputFile != def.OutputFile || cfg.Table != def.Table || cfg.Parameters != def.Parameters {
		t.Errorf("expected defaults, got %+v", cfg)
	}

	writeConfig(t, dir, "mccabe.yml", "output_file: from_yml.csv\n")
	cfg, err = config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OutputFile != "from_yml.csv" {
		t.Errorf("expected mccabe.yml to be picked up, got output_file %q", cfg.OutputFile)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"bad yaml":       "table: [",
		"unknown system": "table: {system: nrtl}",
		"unknown key":    "cases:\n  - {reflux: 2}\n",
		"file no path":   "table: {system: file}",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, dir, strings.ReplaceAll(name, " ", "_")+".yaml", body)
			if _, err := config.Load(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*config.Config){
		"alpha not above one": func(c *config.Config) { c.Table.System = config.SystemIdealBinary; c.Table.Alpha = 1 },
		"remote without url":  func(c *config.Config) { c.Table.System = config.SystemRemote },
		"zero sweep steps":    func(c *config.Config) { c.Sweep.Steps = 0 },
		"inverted sweep":      func(c *config.Config) { c.Sweep.From, c.Sweep.To = 3, 1 },
		"non-positive sweep":  func(c *config.Config) { c.Sweep.From = 0 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}

	if err := config.DefaultConfig().Validate(); err != nil {
		t.Errorf("default config rejected: %v", err)
	}
}

func TestApply(t *testing.T) {
	base := config.DefaultConfig().Parameters
	p, err := config.Apply(base, map[string]float64{"q": 0.5, "sc": 3})
	if err != nil {
		t.Fatal(err)
	}
	if p.Q != 0.5 || p.SC != 3 || p.XD != base.XD {
		t.Errorf("unexpected parameters %+v", p)
	}
	if _, err := config.Apply(base, map[string]float64{"alpha": 2}); err == nil {
		t.Error("expected an error for an unknown key")
	}
}

func TestExpand(t *testing.T) {
	cfg := config.DefaultConfig()
	cases, err := cfg.Expand()
	if err != nil {
		t.Fatal(err)
	}
	if len(cases) != 1 || cases[0].Name != "base" || cases[0].Parameters != cfg.Parameters {
		t.Errorf("expected the single base case, got %+v", cases)
	}

	cfg.Cases = []map[string]float64{
		{"r_factor": 1.2, "nm": 0.7},
		{"xd": 0.95},
	}
	cases, err = cfg.Expand()
	if err != nil {
		t.Fatal(err)
	}
	if len(cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(cases))
	}
	if cases[0].Name != "case-1 nm=0.7 r_factor=1.2" {
		t.Errorf("unexpected name %q", cases[0].Name)
	}
	if cases[1].Parameters.XD != 0.95 || cases[1].Parameters.RFactor != cfg.Parameters.RFactor {
		t.Errorf("unexpected overlay result %+v", cases[1].Parameters)
	}
}

func TestParameterKeys(t *testing.T) {
	got := strings.Join(config.ParameterKeys(), ",")
	if want := "nm,q,r_factor,sc,xb,xd,zf"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

// chdirForTest changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
